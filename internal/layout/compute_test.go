package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLayoutRowDistributesGrow(t *testing.T) {
	tree := NewTree()
	root := tree.Alloc(Node{Style: Style{Direction: DirectionRow, Width: Fill(), Height: Fill()}})
	a := tree.Alloc(Node{Style: Style{Width: Fixed(50), Height: Fixed(20)}})
	b := tree.Alloc(Node{Style: Style{Width: Fill(), Height: Fixed(20)}})
	tree.Node(root).Children = []NodeIndex{a, b}
	tree.SetRoot(root)

	ComputeLayout(tree, root, 200, 100, NullMeasurer)

	rootRect := tree.Node(root).ComputedRect
	aRect := tree.Node(a).ComputedRect
	bRect := tree.Node(b).ComputedRect

	assert.Equal(t, Rect{X: 0, Y: 0, Width: 200, Height: 100}, rootRect)
	assert.Equal(t, 0.0, aRect.X)
	assert.Equal(t, 50.0, aRect.Width)
	assert.Equal(t, 50.0, bRect.X)
	assert.Equal(t, 150.0, bRect.Width)
}

func TestComputeLayoutIsIdempotent(t *testing.T) {
	tree := NewTree()
	root := tree.Alloc(Node{Style: Style{Direction: DirectionColumn, Width: Fill(), Height: Fill(), Padding: EdgesAll(10), GapMain: 5}})
	a := tree.Alloc(Node{Style: Style{Width: Fill(), Height: Fixed(30)}})
	b := tree.Alloc(Node{Style: Style{Width: Fill(), Height: Fixed(30)}})
	tree.Node(root).Children = []NodeIndex{a, b}
	tree.SetRoot(root)

	ComputeLayout(tree, root, 300, 200, NullMeasurer)
	first := tree.Node(a).ComputedRect

	ComputeLayout(tree, root, 300, 200, NullMeasurer)
	second := tree.Node(a).ComputedRect

	assert.Equal(t, first, second)
}

func TestComputeLayoutCenterJustify(t *testing.T) {
	tree := NewTree()
	root := tree.Alloc(Node{Style: Style{Direction: DirectionRow, JustifyMain: AlignCenter, Width: Fill(), Height: Fill()}})
	child := tree.Alloc(Node{Style: Style{Width: Fixed(40), Height: Fixed(40)}})
	tree.Node(root).Children = []NodeIndex{child}
	tree.SetRoot(root)

	ComputeLayout(tree, root, 200, 100, NullMeasurer)

	childRect := tree.Node(child).ComputedRect
	assert.Equal(t, 80.0, childRect.X) // (200-40)/2
}

func TestHitTestRespectsDepth(t *testing.T) {
	tree := NewTree()
	root := tree.Alloc(Node{})
	tree.Node(root).ComputedRect = Rect{X: 0, Y: 0, Width: 100, Height: 100}
	child := tree.Alloc(Node{Parent: root})
	tree.Node(child).ComputedRect = Rect{X: 10, Y: 10, Width: 20, Height: 20}
	tree.Node(root).Children = []NodeIndex{child}
	tree.SetRoot(root)

	hit := tree.HitTest(15, 15)
	require.Equal(t, child, hit)

	hit = tree.HitTest(50, 50)
	assert.Equal(t, root, hit)

	hit = tree.HitTest(500, 500)
	assert.Equal(t, InvalidIndex, hit)
}

func TestPercentHeightInAutoHeightParentResolvesToZero(t *testing.T) {
	tree := NewTree()
	root := tree.Alloc(Node{Style: Style{Direction: DirectionColumn, Width: Fill(), Height: Auto()}})
	child := tree.Alloc(Node{Style: Style{Width: Fill(), Height: Percent(0.5)}})
	tree.Node(root).Children = []NodeIndex{child}
	tree.SetRoot(root)

	ComputeLayout(tree, root, 200, 300, NullMeasurer)

	assert.Equal(t, 0.0, tree.Node(child).ComputedRect.Height)
}
