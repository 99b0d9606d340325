package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxidekit/oxidekit-core/internal/layout"
)

func newTestBuilder() *Builder {
	b := &Builder{}
	b.tree = *layout.NewTree()
	return b
}

func TestGenerateDrawListEmitsMatchingClipPushPop(t *testing.T) {
	b := newTestBuilder()

	childIdx := b.tree.Alloc(layout.Node{
		CIRID:        "child",
		ComputedRect: layout.Rect{X: 5, Y: 5, Width: 10, Height: 10},
	})
	clippingStyle := layout.DefaultStyle()
	clippingStyle.OverflowX = layout.OverflowHidden
	rootIdx := b.tree.Alloc(layout.Node{
		CIRID:        "root",
		Style:        clippingStyle,
		ComputedRect: layout.Rect{X: 0, Y: 0, Width: 100, Height: 100},
		Children:     []layout.NodeIndex{childIdx},
	})

	commands := b.generateDrawList(rootIdx, nil, nil, Interaction{})

	require.Len(t, commands, 2)
	assert.Equal(t, DrawClipPush, commands[0].Kind)
	assert.Equal(t, DrawClipPop, commands[1].Kind)
}

func TestGenerateDrawListOmitsClipForNonClippingNode(t *testing.T) {
	b := newTestBuilder()

	childIdx := b.tree.Alloc(layout.Node{
		CIRID:        "child",
		ComputedRect: layout.Rect{X: 0, Y: 0, Width: 10, Height: 10},
	})
	rootIdx := b.tree.Alloc(layout.Node{
		CIRID:        "root",
		Style:        layout.DefaultStyle(),
		ComputedRect: layout.Rect{X: 0, Y: 0, Width: 100, Height: 100},
		Children:     []layout.NodeIndex{childIdx},
	})

	commands := b.generateDrawList(rootIdx, nil, nil, Interaction{})

	assert.Empty(t, commands)
}

func TestGenerateDrawListEmitsBackgroundRect(t *testing.T) {
	b := newTestBuilder()

	rootIdx := b.tree.Alloc(layout.Node{
		CIRID:        "root",
		Style:        layout.DefaultStyle(),
		Visual:       &layout.Visual{HasBackground: true, Background: [4]uint8{10, 20, 30, 255}},
		ComputedRect: layout.Rect{X: 1, Y: 2, Width: 3, Height: 4},
	})

	commands := b.generateDrawList(rootIdx, nil, nil, Interaction{})

	require.Len(t, commands, 1)
	assert.Equal(t, DrawRect, commands[0].Kind)
	assert.Equal(t, [4]uint8{10, 20, 30, 255}, commands[0].Background)
}

func TestGenerateDrawListNestedClipsProduceBalancedPushPop(t *testing.T) {
	b := newTestBuilder()

	clippingStyle := layout.DefaultStyle()
	clippingStyle.OverflowY = layout.OverflowScroll

	leafIdx := b.tree.Alloc(layout.Node{CIRID: "leaf", ComputedRect: layout.Rect{Width: 1, Height: 1}})
	innerIdx := b.tree.Alloc(layout.Node{
		CIRID:    "inner",
		Style:    clippingStyle,
		Children: []layout.NodeIndex{leafIdx},
	})
	outerIdx := b.tree.Alloc(layout.Node{
		CIRID:    "outer",
		Style:    clippingStyle,
		Children: []layout.NodeIndex{innerIdx},
	})

	commands := b.generateDrawList(outerIdx, nil, nil, Interaction{})

	require.Len(t, commands, 4)
	assert.Equal(t, DrawClipPush, commands[0].Kind)
	assert.Equal(t, DrawClipPush, commands[1].Kind)
	assert.Equal(t, DrawClipPop, commands[2].Kind)
	assert.Equal(t, DrawClipPop, commands[3].Kind)
}
