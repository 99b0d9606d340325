package cir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkPreOrder(t *testing.T) {
	leaf1 := &Node{Kind: KindText, ID: "leaf1"}
	leaf2 := &Node{Kind: KindText, ID: "leaf2"}
	root := &Node{Kind: KindColumn, ID: "root", Children: []*Node{leaf1, leaf2}}

	var order []string
	Walk(root, func(n *Node) { order = append(order, n.ID) })

	assert.Equal(t, []string{"root", "leaf1", "leaf2"}, order)
	assert.Equal(t, 3, Count(root))
}

func TestPropCanonicalization(t *testing.T) {
	n := &Node{Props: []Property{
		{Name: "background_color", Value: String("#ff0000")},
	}}
	v, ok := n.Prop("backgroundColor")
	assert.True(t, ok)
	assert.Equal(t, "#ff0000", v.AsString())

	_, ok = n.Prop("nonexistent")
	assert.False(t, ok)
}

func TestValueCoercion(t *testing.T) {
	assert.Equal(t, "12", Number(12).AsString())
	assert.Equal(t, "12.5", Number(12.5).AsString())

	n, ok := String("24px").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 24.0, n)

	_, ok = String("not-a-number").AsNumber()
	assert.False(t, ok)

	assert.True(t, Bool(true).AsBool())
	assert.True(t, Number(1).AsBool())
	assert.False(t, Number(0).AsBool())
}

func TestBindingPassthrough(t *testing.T) {
	v := Binding("user.name")
	assert.True(t, v.IsBinding())
	assert.Equal(t, "user.name", v.AsString())
}

func TestTokenPassthroughWhenUnresolved(t *testing.T) {
	v := Token("{colors.unknown}")
	assert.Equal(t, "{colors.unknown}", v.AsString())
}
