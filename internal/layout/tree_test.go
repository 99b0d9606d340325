package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHitTestPrefersTopmostOverlappingSibling(t *testing.T) {
	tree := NewTree()
	root := tree.Alloc(Node{Parent: InvalidIndex, ComputedRect: Rect{X: 0, Y: 0, Width: 100, Height: 100}})
	back := tree.Alloc(Node{CIRID: "back", Parent: root, ComputedRect: Rect{X: 0, Y: 0, Width: 50, Height: 50}})
	front := tree.Alloc(Node{CIRID: "front", Parent: root, ComputedRect: Rect{X: 0, Y: 0, Width: 50, Height: 50}})
	tree.Node(root).Children = []NodeIndex{back, front}
	tree.SetRoot(root)

	assert.Equal(t, front, tree.HitTest(10, 10))
}

func TestHitTestClippingAncestorExcludesOverflow(t *testing.T) {
	tree := NewTree()
	root := tree.Alloc(Node{Parent: InvalidIndex, ComputedRect: Rect{X: 0, Y: 0, Width: 100, Height: 100}})
	clip := tree.Alloc(Node{
		CIRID:        "clip",
		Parent:       root,
		ComputedRect: Rect{X: 0, Y: 0, Width: 20, Height: 20},
		Style:        Style{OverflowX: OverflowHidden, OverflowY: OverflowHidden},
	})
	child := tree.Alloc(Node{CIRID: "child", Parent: clip, ComputedRect: Rect{X: 10, Y: 10, Width: 50, Height: 50}})
	tree.Node(clip).Children = []NodeIndex{child}
	tree.Node(root).Children = []NodeIndex{clip}
	tree.SetRoot(root)

	// Inside the clip rect and the child's rect: hits the child.
	assert.Equal(t, child, tree.HitTest(15, 15))
	// Inside the child's rect but outside the clipping ancestor: the child
	// is not hit, so the hit falls through to the root underneath.
	assert.Equal(t, root, tree.HitTest(40, 40))
}

func TestHitTestVisibleOverflowParentDoesNotBoundChildren(t *testing.T) {
	tree := NewTree()
	root := tree.Alloc(Node{Parent: InvalidIndex, ComputedRect: Rect{X: 0, Y: 0, Width: 100, Height: 100}})
	parent := tree.Alloc(Node{
		CIRID:        "parent",
		Parent:       root,
		ComputedRect: Rect{X: 0, Y: 0, Width: 20, Height: 20},
	})
	child := tree.Alloc(Node{CIRID: "child", Parent: parent, ComputedRect: Rect{X: 10, Y: 10, Width: 50, Height: 50}})
	tree.Node(parent).Children = []NodeIndex{child}
	tree.Node(root).Children = []NodeIndex{parent}
	tree.SetRoot(root)

	// parent's Style has no overflow set, so overflow:visible per the
	// layout defaults — a point outside parent's own box but inside the
	// overflowing child's rect must still hit the child.
	assert.Equal(t, child, tree.HitTest(40, 40))
}
