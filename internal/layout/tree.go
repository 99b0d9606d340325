package layout

// NodeIndex is a stable index into a Tree's arena. Zero is the root of a
// non-empty tree; an empty Tree has no valid indices.
type NodeIndex int

// InvalidIndex marks the absence of a node reference (e.g. no parent).
const InvalidIndex NodeIndex = -1

// Rect is a computed rectangle in logical pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) falls within the rectangle,
// using a half-open interval so adjacent rects never both claim a shared
// boundary pixel.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Node is one element of the layout tree's arena. Per SPEC_FULL.md §3,
// layout nodes are arena-allocated and reference children by stable
// indices, not pointers — the arena is cleared and rebuilt fresh every
// rebuild, so a Node never outlives the Tree that owns it.
type Node struct {
	CIRID string // originating CIR node id, for text-element and handler-table joins

	Style  Style
	Visual *Visual // nil when the node paints nothing

	Parent   NodeIndex
	Children []NodeIndex

	ComputedRect Rect // logical pixels, relative to parent until the second pass

	// ScrollOffset is owned by the layout node per Open Question #1
	// (see DESIGN.md). ResolveAbsoluteCoordinates shifts the children's
	// absolute rects by it, so hit-testing and paint see it only through
	// those rects.
	ScrollOffset struct{ X, Y float64 }

	// intrinsic content size, populated by the text/image measurement
	// hook before the sizing pass runs; zero for nodes with no content.
	IntrinsicWidth, IntrinsicHeight float64
}

// Tree is the arena holding one rebuild's worth of layout nodes. Cleared
// and repopulated by Build on every CIR rebuild.
type Tree struct {
	nodes []Node
	root  NodeIndex
}

// NewTree returns an empty arena.
func NewTree() *Tree {
	return &Tree{root: InvalidIndex}
}

// Reset clears the arena for a fresh rebuild, matching the spec's
// "arena is cleared before every rebuild" requirement. The backing slice
// is reused to avoid a reallocation on every frame.
func (t *Tree) Reset() {
	t.nodes = t.nodes[:0]
	t.root = InvalidIndex
}

// Alloc appends a new node to the arena and returns its index.
func (t *Tree) Alloc(n Node) NodeIndex {
	idx := NodeIndex(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return idx
}

// Root returns the arena index of the tree's root, or InvalidIndex if
// the tree is empty.
func (t *Tree) Root() NodeIndex { return t.root }

// SetRoot records which arena slot is the tree root.
func (t *Tree) SetRoot(idx NodeIndex) { t.root = idx }

// Node dereferences an index into the arena. Callers only ever hold
// indices produced by this same Tree generation.
func (t *Tree) Node(idx NodeIndex) *Node {
	if idx < 0 || int(idx) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[idx]
}

// Len returns the number of nodes currently allocated.
func (t *Tree) Len() int { return len(t.nodes) }

// PreOrder calls fn for idx and every descendant, parent before
// children — the order the render pass paints in. Handler dispatch does
// not use this traversal: HitTest returns the innermost hit node directly.
func (t *Tree) PreOrder(idx NodeIndex, fn func(NodeIndex, *Node)) {
	if idx == InvalidIndex {
		return
	}
	n := t.Node(idx)
	if n == nil {
		return
	}
	fn(idx, n)
	for _, c := range n.Children {
		t.PreOrder(c, fn)
	}
}

// PostOrder calls fn for every descendant before idx itself — the order
// intrinsic-size and size-calculation passes need, since a container's
// size can depend on its children's.
func (t *Tree) PostOrder(idx NodeIndex, fn func(NodeIndex, *Node)) {
	if idx == InvalidIndex {
		return
	}
	n := t.Node(idx)
	if n == nil {
		return
	}
	for _, c := range n.Children {
		t.PostOrder(c, fn)
	}
	fn(idx, n)
}

// HitTest returns the deepest node whose ComputedRect (in absolute
// coordinates, i.e. after ResolveAbsoluteCoordinates) contains (x, y), respecting
// clipping ancestors: a point outside the nearest clipping ancestor's
// rect cannot hit any of that ancestor's descendants, matching
// SPEC_FULL.md §4.5. A non-clipping ancestor (overflow:visible, §4.3)
// imposes no such bound, so a child may still be hit outside its
// parent's own box as long as it's inside the nearest clip.
func (t *Tree) HitTest(x, y float64) NodeIndex {
	if t.root == InvalidIndex {
		return InvalidIndex
	}
	return t.hitTestNode(t.root, x, y, nil)
}

func (t *Tree) hitTestNode(idx NodeIndex, x, y float64, clip *Rect) NodeIndex {
	n := t.Node(idx)
	if n == nil {
		return InvalidIndex
	}
	if clip != nil && !clip.Contains(x, y) {
		return InvalidIndex
	}

	childClip := clip
	if n.Style.ClipsChildren() {
		childClip = &n.ComputedRect
	}

	// Iterate children back-to-front so later (top-most, per paint order)
	// siblings are preferred when rects overlap.
	for i := len(n.Children) - 1; i >= 0; i-- {
		if hit := t.hitTestNode(n.Children[i], x, y, childClip); hit != InvalidIndex {
			return hit
		}
	}

	if !n.ComputedRect.Contains(x, y) {
		return InvalidIndex
	}
	return idx
}
