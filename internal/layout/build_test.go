package layout

import (
	"testing"

	"github.com/oxidekit/oxidekit-core/internal/cir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResolvesKindDefaults(t *testing.T) {
	root := &cir.Node{
		Kind: cir.KindColumn,
		ID:   "root",
		Children: []*cir.Node{
			{Kind: cir.KindRow, ID: "row"},
			{Kind: cir.KindScrollY, ID: "scroller"},
		},
	}

	tree := NewTree()
	idx := Build(tree, root)
	require.NotEqual(t, InvalidIndex, idx)

	rootNode := tree.Node(idx)
	assert.Equal(t, DirectionColumn, rootNode.Style.Direction)
	require.Len(t, rootNode.Children, 2)

	rowNode := tree.Node(rootNode.Children[0])
	assert.Equal(t, DirectionRow, rowNode.Style.Direction)

	scrollNode := tree.Node(rootNode.Children[1])
	assert.Equal(t, OverflowScroll, scrollNode.Style.OverflowY)
	assert.True(t, scrollNode.Style.ClipsChildren())
}

func TestBuildAppliesPropertyOverrides(t *testing.T) {
	root := &cir.Node{
		Kind: cir.KindContainer,
		ID:   "box",
		Style: []cir.Property{
			{Name: "background_color", Value: cir.String("#112233")},
			{Name: "border_width", Value: cir.Number(2)},
		},
		Props: []cir.Property{
			{Name: "width", Value: cir.String("50%")},
			{Name: "padding", Value: cir.String("8px 16px")},
			{Name: "gap", Value: cir.Number(4)},
		},
	}

	tree := NewTree()
	idx := Build(tree, root)
	node := tree.Node(idx)

	assert.Equal(t, SizePercent, node.Style.Width.Mode)
	assert.Equal(t, 0.5, node.Style.Width.Value)
	assert.Equal(t, Edges{Top: 8, Bottom: 8, Left: 16, Right: 16}, node.Style.Padding)
	assert.Equal(t, 4.0, node.Style.GapMain)

	require.NotNil(t, node.Visual)
	assert.True(t, node.Visual.HasBackground)
	assert.True(t, node.Visual.HasBorder)
	assert.Equal(t, 2.0, node.Visual.BorderWidth)
}

func TestBuildResetsArenaBetweenCalls(t *testing.T) {
	tree := NewTree()
	Build(tree, &cir.Node{Kind: cir.KindContainer, ID: "a", Children: []*cir.Node{{Kind: cir.KindText, ID: "b"}}})
	assert.Equal(t, 2, tree.Len())

	Build(tree, &cir.Node{Kind: cir.KindText, ID: "solo"})
	assert.Equal(t, 1, tree.Len())
}
