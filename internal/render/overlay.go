package render

import (
	"fmt"

	"github.com/oxidekit/oxidekit-core/internal/layout"
	"github.com/oxidekit/oxidekit-core/internal/textsys"
)

// debugLayoutPalette is the rotating set of outline colors the debug
// layout overlay (SPEC_FULL.md §4.10) cycles through per node depth, so
// adjacent nesting levels are visually distinguishable.
var debugLayoutPalette = [][4]uint8{
	{255, 99, 71, 255},
	{70, 130, 180, 255},
	{154, 205, 50, 255},
	{238, 130, 238, 255},
	{255, 215, 0, 255},
}

const debugLayoutStroke = 1.0

// BuildDebugLayoutOverlay walks tree from root and emits a bounding-box
// outline for every node (rotating color per depth), translucent tints
// over each node's padding band (inside its box) and margin band
// (outside its box), and a small corner marker on nodes that
// clip their children — appended after the ordinary draw list so the
// overlay always paints on top.
func BuildDebugLayoutOverlay(tree *layout.Tree, root layout.NodeIndex) []DrawCommand {
	var commands []DrawCommand
	emitDebugNode(tree, root, 0, &commands)
	return commands
}

func emitDebugNode(tree *layout.Tree, idx layout.NodeIndex, depth int, commands *[]DrawCommand) {
	node := tree.Node(idx)
	if node == nil {
		return
	}

	rect := node.ComputedRect
	color := debugLayoutPalette[depth%len(debugLayoutPalette)]

	*commands = append(*commands, DrawCommand{
		Kind: DrawRect, X: rect.X, Y: rect.Y, Width: rect.Width, Height: debugLayoutStroke, Background: color,
	})
	*commands = append(*commands, DrawCommand{
		Kind: DrawRect, X: rect.X, Y: rect.Y + rect.Height - debugLayoutStroke, Width: rect.Width, Height: debugLayoutStroke, Background: color,
	})
	*commands = append(*commands, DrawCommand{
		Kind: DrawRect, X: rect.X, Y: rect.Y, Width: debugLayoutStroke, Height: rect.Height, Background: color,
	})
	*commands = append(*commands, DrawCommand{
		Kind: DrawRect, X: rect.X + rect.Width - debugLayoutStroke, Y: rect.Y, Width: debugLayoutStroke, Height: rect.Height, Background: color,
	})

	p := node.Style.Padding
	tint := [4]uint8{255, 165, 0, 60}
	if p.Top > 0 {
		*commands = append(*commands, DrawCommand{Kind: DrawRect, X: rect.X, Y: rect.Y, Width: rect.Width, Height: p.Top, Background: tint})
	}
	if p.Bottom > 0 {
		*commands = append(*commands, DrawCommand{Kind: DrawRect, X: rect.X, Y: rect.Y + rect.Height - p.Bottom, Width: rect.Width, Height: p.Bottom, Background: tint})
	}
	if p.Left > 0 {
		*commands = append(*commands, DrawCommand{Kind: DrawRect, X: rect.X, Y: rect.Y, Width: p.Left, Height: rect.Height, Background: tint})
	}
	if p.Right > 0 {
		*commands = append(*commands, DrawCommand{Kind: DrawRect, X: rect.X + rect.Width - p.Right, Y: rect.Y, Width: p.Right, Height: rect.Height, Background: tint})
	}

	m := node.Style.Margin
	marginTint := [4]uint8{0, 191, 255, 60}
	if m.Top > 0 {
		*commands = append(*commands, DrawCommand{Kind: DrawRect, X: rect.X, Y: rect.Y - m.Top, Width: rect.Width, Height: m.Top, Background: marginTint})
	}
	if m.Bottom > 0 {
		*commands = append(*commands, DrawCommand{Kind: DrawRect, X: rect.X, Y: rect.Y + rect.Height, Width: rect.Width, Height: m.Bottom, Background: marginTint})
	}
	if m.Left > 0 {
		*commands = append(*commands, DrawCommand{Kind: DrawRect, X: rect.X - m.Left, Y: rect.Y, Width: m.Left, Height: rect.Height, Background: marginTint})
	}
	if m.Right > 0 {
		*commands = append(*commands, DrawCommand{Kind: DrawRect, X: rect.X + rect.Width, Y: rect.Y, Width: m.Right, Height: rect.Height, Background: marginTint})
	}

	if node.Style.ClipsChildren() {
		const marker = 6.0
		*commands = append(*commands, DrawCommand{
			Kind: DrawRect, X: rect.X + rect.Width - marker, Y: rect.Y, Width: marker, Height: marker, Background: [4]uint8{255, 0, 255, 200},
		})
	}

	for _, c := range node.Children {
		emitDebugNode(tree, c, depth+1, commands)
	}
}

// LogLine is one entry the dev overlay's ring buffer displays, tagged
// with its category for the colored status dot.
type LogLine struct {
	Category string
	Message  string
}

// StateEntry is one reactive-state key/value pair shown in the dev
// overlay's snapshot, already formatted for display.
type StateEntry struct {
	Key   string
	Value string
}

const (
	devOverlayWidth    = 420.0
	devOverlayPadding  = 10.0
	devOverlayLineGap  = 4.0
	devOverlayFontSize = 13.0
)

const devOverlayStateRows = 4

var devOverlayCategoryColor = map[string][4]uint8{
	"EVENT":   {100, 181, 246, 255},
	"STATE":   {129, 199, 132, 255},
	"NAV":     {255, 183, 77, 255},
	"CALL":    {186, 104, 200, 255},
	"HANDLER": {77, 208, 225, 255},
	"UPDATE":  {255, 241, 118, 255},
	"WARN":    {229, 115, 115, 255},
	"DEV":     {224, 224, 224, 255},
}

// BuildDevOverlay renders a translucent panel in the top-right corner
// showing the most recent log lines (each with a category color dot)
// followed by a snapshot of the first devOverlayStateRows (4)
// reactive-state entries, per
// §4.10's dev overlay. text shapes/measures every line through the same
// textsys.System the UI tree itself uses — no separate text path.
func BuildDevOverlay(text *textsys.System, surfaceWidth float64, lines []LogLine, state []StateEntry) []DrawCommand {
	if text == nil {
		return nil
	}
	if len(state) > devOverlayStateRows {
		state = state[:devOverlayStateRows]
	}

	rowCount := len(lines) + len(state)
	if len(state) > 0 {
		rowCount++ // section divider line
	}
	lineHeight := devOverlayFontSize + devOverlayLineGap
	height := devOverlayPadding*2 + float64(rowCount)*lineHeight
	x := surfaceWidth - devOverlayWidth - devOverlayPadding
	y := devOverlayPadding

	commands := []DrawCommand{{
		Kind: DrawRect, X: x, Y: y, Width: devOverlayWidth, Height: height,
		Background: [4]uint8{20, 20, 20, 200},
	}}

	cursorY := y + devOverlayPadding
	for _, line := range lines {
		dotColor, ok := devOverlayCategoryColor[line.Category]
		if !ok {
			dotColor = [4]uint8{180, 180, 180, 255}
		}
		const dotSize = 8.0
		commands = append(commands, DrawCommand{
			Kind: DrawRect, X: x + devOverlayPadding, Y: cursorY + 3, Width: dotSize, Height: dotSize,
			Background: dotColor, CornerRadius: dotSize / 2,
		})
		shape := text.ShapeAndCache(line.Message, devOverlayFontSize)
		for i := range shape.Glyphs {
			_ = text.RasterizeGlyph(shape, i)
		}
		commands = append(commands, DrawCommand{
			Kind: DrawText, X: x + devOverlayPadding + dotSize + 6, Y: cursorY,
			Width: devOverlayWidth - devOverlayPadding*2 - dotSize - 6, Height: lineHeight,
			Shape: shape, TextFill: [4]uint8{255, 255, 255, 255},
		})
		cursorY += lineHeight
	}

	if len(state) > 0 {
		cursorY += lineHeight
		for _, entry := range state {
			label := fmt.Sprintf("%s = %s", entry.Key, entry.Value)
			shape := text.ShapeAndCache(label, devOverlayFontSize)
			for i := range shape.Glyphs {
				_ = text.RasterizeGlyph(shape, i)
			}
			commands = append(commands, DrawCommand{
				Kind: DrawText, X: x + devOverlayPadding, Y: cursorY,
				Width: devOverlayWidth - devOverlayPadding*2, Height: lineHeight,
				Shape: shape, TextFill: [4]uint8{200, 230, 255, 255},
			})
			cursorY += lineHeight
		}
	}

	return commands
}
