// Package cir implements the Component Intermediate Representation: the
// tree handed to the runtime by an external compiler (see SPEC_FULL.md
// §4.1). A Node is a plain data value — the runtime never subclasses or
// dispatches by Go type, only by the Kind string, mirroring the contract
// that an external, language-agnostic compiler produces this tree.
package cir

// Kind identifiers recognised by the layout/render stages. Unknown kinds
// are still accepted (the compiler contract is generic) and fall back to
// Container-like layout behaviour.
const (
	KindText      = "Text"
	KindColumn    = "Column"
	KindRow       = "Row"
	KindContainer = "Container"
	KindScroll    = "Scroll"
	KindScrollX   = "ScrollX"
	KindScrollY   = "ScrollY"
	KindButton    = "Button"
	KindImage     = "Image"
	KindLink      = "Link"
)

// EventName enumerates the handler event names a compiler may emit.
const (
	EventClick       = "click"
	EventDoubleClick = "doubleclick"
	EventMouseDown   = "mousedown"
	EventMouseUp     = "mouseup"
	EventMouseEnter  = "mouseenter"
	EventMouseLeave  = "mouseleave"
	EventMouseMove   = "mousemove"
	EventFocus       = "focus"
	EventBlur        = "blur"
	EventKeyDown     = "keydown"
	EventKeyUp       = "keyup"
	EventInput       = "input"
)

// Property is one (name, value) pair of a node's props or style list.
// Lists (not maps) because the spec requires order-preserving, and a
// compiler is free to emit the same canonical name twice pre-merge.
type Property struct {
	Name  string
	Value Value
}

// Handler is one (event_name, expression) pair as emitted by the compiler;
// the expression is parsed into a HandlerAction by ParseHandler.
type Handler struct {
	Event      string
	Expression string
}

// Node is one element of the CIR tree.
type Node struct {
	Kind     string
	ID       string
	Props    []Property
	Style    []Property
	Handlers []Handler
	Children []*Node
}

// Prop returns the first property named name from Props, canonicalising
// name first. ok is false when absent.
func (n *Node) Prop(name string) (Value, bool) {
	return lookup(n.Props, name)
}

// StyleProp returns the first style property named name, canonicalising
// name first.
func (n *Node) StyleProp(name string) (Value, bool) {
	return lookup(n.Style, name)
}

func lookup(props []Property, name string) (Value, bool) {
	canon := CanonicalName(name)
	for _, p := range props {
		if p.Name == canon {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Walk visits n and every descendant in pre-order (parent before
// children), matching the traversal order the layout and render passes
// use for style resolution and paint.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n, used by
// the application loop's duplicate-build detection (SPEC_FULL.md §4.10).
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) { total++ })
	return total
}

// Handler returns the first handler registered for event on n, with ok
// false when the node has no such handler.
func (n *Node) Handler(event string) (Handler, bool) {
	for _, h := range n.Handlers {
		if h.Event == event {
			return h, true
		}
	}
	return Handler{}, false
}

// IndexByID walks root and returns a map from every node's ID to the
// node itself, used by the event dispatcher to resolve a layout-tree
// hit (which only carries a CIR ID) back to its handlers.
func IndexByID(root *Node) map[string]*Node {
	index := make(map[string]*Node)
	Walk(root, func(n *Node) {
		index[n.ID] = n
	})
	return index
}
