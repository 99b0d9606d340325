package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxidekit/oxidekit-core/internal/appctx"
	"github.com/oxidekit/oxidekit-core/internal/cir"
	"github.com/oxidekit/oxidekit-core/internal/layout"
	"github.com/oxidekit/oxidekit-core/internal/reactive"
)

// buttonNode returns a single focusable, clickable CIR node occupying
// (0,0)-(100,50), wired to a layout tree of one node at the same index.
func buttonNode() (*cir.Node, *layout.Tree, layout.NodeIndex) {
	root := &cir.Node{
		Kind: cir.KindButton,
		ID:   "btn1",
		Handlers: []cir.Handler{
			{Event: cir.EventClick, Expression: "state.count += 1"},
			{Event: cir.EventDoubleClick, Expression: "state.count += 1"},
			{Event: cir.EventFocus, Expression: "raw-focus-expr"},
		},
	}
	tree := layout.NewTree()
	idx := tree.Alloc(layout.Node{
		CIRID:        "btn1",
		Parent:       layout.InvalidIndex,
		ComputedRect: layout.Rect{X: 0, Y: 0, Width: 100, Height: 50},
	})
	tree.SetRoot(idx)
	return root, tree, idx
}

func TestPointerDownUpSynthesizesClick(t *testing.T) {
	root, tree, idx := buttonNode()
	d := New()
	d.SetTree(root, tree, idx)

	now := time.Now()
	d.PointerEvent(PointerDown, Pointer{X: 10, Y: 10}, tree, now)
	result := d.PointerEvent(PointerUp, Pointer{X: 10, Y: 10}, tree, now)

	var sawClick bool
	for _, a := range result.Actions {
		if a.Kind == cir.ActionStateMutation && a.Field == "count" {
			sawClick = true
		}
	}
	assert.True(t, sawClick, "expected a click-triggered state mutation, got %+v", result.Actions)
}

func TestPointerUpOutsidePressedNodeDoesNotClick(t *testing.T) {
	root, tree, idx := buttonNode()
	d := New()
	d.SetTree(root, tree, idx)

	now := time.Now()
	d.PointerEvent(PointerDown, Pointer{X: 10, Y: 10}, tree, now)
	result := d.PointerEvent(PointerUp, Pointer{X: 999, Y: 999}, tree, now)

	for _, a := range result.Actions {
		assert.NotEqual(t, "count", a.Field)
	}
}

func TestPointerUpAfterLeaveAndReturnDoesNotClick(t *testing.T) {
	root, tree, idx := buttonNode()
	d := New()
	d.SetTree(root, tree, idx)

	now := time.Now()
	d.PointerEvent(PointerDown, Pointer{X: 10, Y: 10}, tree, now)
	d.PointerEvent(PointerMove, Pointer{X: 999, Y: 999}, tree, now) // drag off the pressed node
	d.PointerEvent(PointerMove, Pointer{X: 10, Y: 10}, tree, now)   // drag back onto it
	result := d.PointerEvent(PointerUp, Pointer{X: 10, Y: 10}, tree, now)

	for _, a := range result.Actions {
		assert.NotEqual(t, "count", a.Field, "a leave between press and release must suppress the click")
	}
}

func TestDoubleClickSynthesizedWithinInterval(t *testing.T) {
	root, tree, idx := buttonNode()
	d := New()
	d.SetTree(root, tree, idx)

	now := time.Now()
	d.PointerEvent(PointerDown, Pointer{X: 10, Y: 10}, tree, now)
	d.PointerEvent(PointerUp, Pointer{X: 10, Y: 10}, tree, now)

	now2 := now.Add(DefaultDoubleClickInterval / 2)
	d.PointerEvent(PointerDown, Pointer{X: 10, Y: 10}, tree, now2)
	result := d.PointerEvent(PointerUp, Pointer{X: 10, Y: 10}, tree, now2)

	clicks := 0
	for _, a := range result.Actions {
		if a.Kind == cir.ActionStateMutation && a.Field == "count" {
			clicks++
		}
	}
	assert.Equal(t, 2, clicks, "a doubleclick handler fires the same expression a second time")
}

func TestDoubleClickNotSynthesizedAfterInterval(t *testing.T) {
	root, tree, idx := buttonNode()
	d := New()
	d.SetTree(root, tree, idx)

	now := time.Now()
	d.PointerEvent(PointerDown, Pointer{X: 10, Y: 10}, tree, now)
	d.PointerEvent(PointerUp, Pointer{X: 10, Y: 10}, tree, now)

	later := now.Add(DefaultDoubleClickInterval * 2)
	d.PointerEvent(PointerDown, Pointer{X: 10, Y: 10}, tree, later)
	result := d.PointerEvent(PointerUp, Pointer{X: 10, Y: 10}, tree, later)

	clicks := 0
	for _, a := range result.Actions {
		if a.Kind == cir.ActionStateMutation && a.Field == "count" {
			clicks++
		}
	}
	assert.Equal(t, 1, clicks)
}

func TestPointerDownFocusesFocusableHitNode(t *testing.T) {
	root, tree, idx := buttonNode()
	d := New()
	d.SetTree(root, tree, idx)

	require.Len(t, d.focusOrder, 1)

	result := d.PointerEvent(PointerDown, Pointer{X: 10, Y: 10}, tree, time.Now())
	assert.Equal(t, idx, d.focus)

	var sawFocus bool
	for _, a := range result.Actions {
		if a.Kind == cir.ActionRaw && a.Text == "raw-focus-expr" {
			sawFocus = true
		}
	}
	assert.True(t, sawFocus)
}

func TestFocusNextWrapsAround(t *testing.T) {
	root := &cir.Node{
		Kind: cir.KindContainer,
		ID:   "root",
		Children: []*cir.Node{
			{Kind: cir.KindButton, ID: "a", Props: []cir.Property{{Name: "focusable", Value: cir.Bool(true)}}},
			{Kind: cir.KindButton, ID: "b", Props: []cir.Property{{Name: "focusable", Value: cir.Bool(true)}}},
		},
	}
	tree := layout.NewTree()
	rootIdx := tree.Alloc(layout.Node{CIRID: "root", Parent: layout.InvalidIndex})
	aIdx := tree.Alloc(layout.Node{CIRID: "a", Parent: rootIdx})
	bIdx := tree.Alloc(layout.Node{CIRID: "b", Parent: rootIdx})
	tree.Node(rootIdx).Children = []layout.NodeIndex{aIdx, bIdx}
	tree.SetRoot(rootIdx)

	d := New()
	d.SetTree(root, tree, rootIdx)
	require.Len(t, d.focusOrder, 2)

	d.FocusNext()
	assert.Equal(t, aIdx, d.focus)
	d.FocusNext()
	assert.Equal(t, bIdx, d.focus)
	d.FocusNext()
	assert.Equal(t, aIdx, d.focus, "focus wraps back to the first focusable node")
}

func TestHoverTransitionsFireEnterAndLeave(t *testing.T) {
	root := &cir.Node{
		Kind: cir.KindContainer,
		ID:   "root",
		Children: []*cir.Node{
			{Kind: cir.KindButton, ID: "a", Handlers: []cir.Handler{
				{Event: cir.EventMouseEnter, Expression: "state.entered = true"},
				{Event: cir.EventMouseLeave, Expression: "state.left = true"},
			}},
			{Kind: cir.KindButton, ID: "b", Handlers: []cir.Handler{{Event: cir.EventMouseLeave, Expression: "state.left = true"}}},
		},
	}
	tree := layout.NewTree()
	rootIdx := tree.Alloc(layout.Node{CIRID: "root", Parent: layout.InvalidIndex, ComputedRect: layout.Rect{X: 0, Y: 0, Width: 100, Height: 100}})
	aIdx := tree.Alloc(layout.Node{CIRID: "a", Parent: rootIdx, ComputedRect: layout.Rect{X: 0, Y: 0, Width: 10, Height: 10}})
	bIdx := tree.Alloc(layout.Node{CIRID: "b", Parent: rootIdx, ComputedRect: layout.Rect{X: 20, Y: 0, Width: 10, Height: 10}})
	tree.Node(rootIdx).Children = []layout.NodeIndex{aIdx, bIdx}
	tree.SetRoot(rootIdx)

	d := New()
	d.SetTree(root, tree, rootIdx)

	result := d.PointerEvent(PointerMove, Pointer{X: 5, Y: 5}, tree, time.Now())
	assert.Len(t, result.Actions, 1)
	assert.Equal(t, "entered", result.Actions[0].Field)

	result = d.PointerEvent(PointerMove, Pointer{X: 25, Y: 5}, tree, time.Now())
	var sawLeave, sawEnter bool
	for _, a := range result.Actions {
		if a.Field == "left" {
			sawLeave = true
		}
	}
	assert.True(t, sawLeave)
	_ = sawEnter
}

func TestApplyStateMutation(t *testing.T) {
	state := reactive.NewState()
	state.Set("count", reactive.IntValue(1))
	ctx := appctx.New()

	action := cir.HandlerAction{
		Kind:  cir.ActionStateMutation,
		Field: "count",
		Op:    cir.OpAdd,
		Value: cir.ActionValue{Kind: cir.ValueNumber, Num: 1},
	}
	Apply(action, state, ctx)

	v, ok := state.Get("count")
	require.True(t, ok)
	f, _ := v.AsFloat()
	assert.Equal(t, float64(2), f)
}

func TestApplyNavigatePushesCommand(t *testing.T) {
	state := reactive.NewState()
	ctx := appctx.New()

	Apply(cir.HandlerAction{Kind: cir.ActionNavigate, Path: "/settings"}, state, ctx)

	cmds := ctx.TakeCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, appctx.CommandNavigate, cmds[0].Kind)
	assert.Equal(t, "/settings", cmds[0].Path)
}

func TestApplyFunctionCallStringifiesArgs(t *testing.T) {
	state := reactive.NewState()
	ctx := appctx.New()

	Apply(cir.HandlerAction{
		Kind:     cir.ActionFunctionCall,
		FuncName: "log",
		Args: []cir.ActionValue{
			{Kind: cir.ValueNumber, Num: 42},
			{Kind: cir.ValueBool, Bool: true},
			{Kind: cir.ValueString, Str: "hi"},
		},
	}, state, ctx)

	cmds := ctx.TakeCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, []string{"42", "true", "hi"}, cmds[0].Args)
}
