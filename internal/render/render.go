// Package render implements the two-tier renderer (SPEC_FULL.md §4.4):
// a CPU-side pass that turns a computed layout tree into an ordered
// draw list, staged through internal/workflow's linear stage runner,
// and a GPU backend that submits that draw list as a single frame via
// cogentcore/webgpu.
package render

import (
	"context"
	"fmt"

	"github.com/oxidekit/oxidekit-core/internal/cir"
	"github.com/oxidekit/oxidekit-core/internal/layout"
	"github.com/oxidekit/oxidekit-core/internal/logging"
	"github.com/oxidekit/oxidekit-core/internal/reactive"
	"github.com/oxidekit/oxidekit-core/internal/textsys"
	"github.com/oxidekit/oxidekit-core/internal/workflow"
)

// hoverTint brightens and pressTint dims the background and border of
// the node that is the current hover/press target (§4.4 step 3). The
// tint applies to whichever node the dispatcher reports, whether or not
// that node has handlers.
const (
	hoverTint = 1.08
	pressTint = 0.92
)

// Interaction carries the event dispatcher's current hover/press target
// (by CIR node ID) into a Build call, so the paint pass can apply the
// background/border tints §4.4 describes without the render package
// depending on internal/event.
type Interaction struct {
	HoverID string
	PressID string
}

// DrawKind tags which DrawCommand variant is populated.
type DrawKind int

const (
	DrawRect DrawKind = iota
	DrawText
	DrawClipPush
	DrawClipPop
)

// DrawCommand is one entry in a frame's draw list, in paint order
// (parents before children, siblings in document order — matching the
// layout tree's PreOrder walk).
type DrawCommand struct {
	Kind DrawKind

	X, Y, Width, Height float64

	// DrawRect
	Background   [4]uint8
	HasBorder    bool
	BorderColor  [4]uint8
	BorderWidth  float64
	CornerRadius float64

	// DrawText
	Shape    *textsys.Shape
	TextFill [4]uint8
}

// Frame is the output of one build pass: an ordered draw list plus the
// layout tree it was derived from, kept around for hit-testing.
type Frame struct {
	Commands []DrawCommand
	Layout   *layout.Tree
	Root     layout.NodeIndex
	Atlas    *textsys.Atlas
}

// Builder turns a CIR tree into a Frame, staging the work through a
// workflow engine with three stages (build-layout-tree → compute-layout
// → generate-draw-list), generalised from the teacher's DOM pipeline's
// "commit to DOM" to "commit to draw list".
type Builder struct {
	engine *workflow.Engine
	text   *textsys.System

	tree layout.Tree
}

// textProp is the (content, size) pair a text-kind CIR node contributes
// to layout measurement, keyed by CIR node ID since the layout tree
// only carries that ID forward, not the original CIR property list.
type textProp struct {
	content  string
	binding  string // variable name when content is a {var} reference, else ""
	fontSize float64
	color    [4]uint8
}

const defaultFontSize = 16.0

// NewBuilder constructs a Builder backed by the given text system, used
// to measure and shape any text nodes encountered while building a
// frame.
func NewBuilder(text *textsys.System) *Builder {
	b := &Builder{
		engine: workflow.NewEngine("frame-builder"),
		text:   text,
	}
	b.tree = *layout.NewTree()
	b.setupStages()
	return b
}

// buildRequest is the per-call input threaded through the stage chain
// via workflow.StageContext.Input/Output, mirroring the teacher's
// pipeline (which threaded *core.Tree the same way).
type buildRequest struct {
	cirRoot     *cir.Node
	viewportW   float64
	viewportH   float64
	state       *reactive.State
	interaction Interaction
	layoutRoot  layout.NodeIndex
	textProps   map[string]textProp
}

func (b *Builder) setupStages() {
	stages := []*workflow.Stage{
		{
			ID:   "build-layout-tree",
			Name: "Build Layout Tree",
			Execute: func(ctx context.Context, sc *workflow.StageContext) error {
				req := sc.Input.(*buildRequest)
				req.layoutRoot = layout.Build(&b.tree, req.cirRoot)
				req.textProps = collectTextProps(req.cirRoot)
				sc.Output = req
				return nil
			},
		},
		{
			ID:   "compute-layout",
			Name: "Compute Layout",
			Execute: func(ctx context.Context, sc *workflow.StageContext) error {
				req := sc.Input.(*buildRequest)
				layout.ComputeLayout(&b.tree, req.layoutRoot, req.viewportW, req.viewportH, b.measurer(req.textProps))
				sc.Output = req
				return nil
			},
		},
		{
			ID:   "generate-draw-list",
			Name: "Generate Draw List",
			Execute: func(ctx context.Context, sc *workflow.StageContext) error {
				req := sc.Input.(*buildRequest)
				sc.Output = b.generateDrawList(req.layoutRoot, req.textProps, req.state, req.interaction)
				return nil
			},
		},
	}
	for _, s := range stages {
		if err := b.engine.AddStage(s); err != nil {
			logging.Category(logging.CategoryWarn).Errorf("render: failed to register stage %s: %v", s.ID, err)
		}
	}
}

// Build rebuilds the layout tree from root and produces a Frame sized
// to (viewportWidth, viewportHeight), driving the three stages
// (build-layout-tree → compute-layout → generate-draw-list) through the
// workflow engine exactly as the teacher's DOM pipeline drove its four
// stages: each stage's Output becomes the next stage's Input.
func (b *Builder) Build(ctx context.Context, root *cir.Node, viewportWidth, viewportHeight float64, state *reactive.State, interaction Interaction) (*Frame, error) {
	req := &buildRequest{cirRoot: root, viewportW: viewportWidth, viewportH: viewportHeight, state: state, interaction: interaction}
	if err := b.engine.Execute(ctx, req); err != nil {
		return nil, fmt.Errorf("render: frame build failed: %w", err)
	}

	result, ok := b.engine.GetResult("generate-draw-list")
	if !ok {
		return nil, fmt.Errorf("render: generate-draw-list produced no result")
	}
	commands, _ := result.([]DrawCommand)

	var atlas *textsys.Atlas
	if b.text != nil {
		atlas = b.text.Atlas()
	}

	return &Frame{Commands: commands, Layout: &b.tree, Root: req.layoutRoot, Atlas: atlas}, nil
}

// LastLayout returns the layout tree from the most recent Build call,
// for the event dispatcher's hit-testing to walk against (§4.5).
func (b *Builder) LastLayout() *layout.Tree { return &b.tree }

// TextSystem returns the text system this builder shapes and rasterises
// through, for the dev overlay to render its own text with the same path.
func (b *Builder) TextSystem() *textsys.System { return b.text }

func (b *Builder) measurer(props map[string]textProp) layout.Measurer {
	if b.text == nil {
		return layout.NullMeasurer
	}
	return textMeasurer{text: b.text, props: props}
}

type textMeasurer struct {
	text  *textsys.System
	props map[string]textProp
}

// collectTextProps walks the CIR tree once, extracting the text content
// and font size of every Text-kind node, keyed by CIR node ID. Bound
// text ({var}) nodes measure against a fixed placeholder per §4.2 so
// layout stays stable before the binding resolves to real content.
func collectTextProps(root *cir.Node) map[string]textProp {
	props := make(map[string]textProp)
	if root == nil {
		return props
	}
	cir.Walk(root, func(n *cir.Node) {
		if n.Kind != cir.KindText {
			return
		}
		content := ""
		binding := ""
		if v, ok := n.Prop("text"); ok {
			if v.IsBinding() {
				content = "0.00"
				binding = v.AsString()
			} else {
				content = v.AsString()
			}
		}
		size := defaultFontSize
		if v, ok := n.StyleProp("font_size"); ok {
			if n, ok := v.AsNumber(); ok {
				size = n
			}
		}
		color := [4]uint8{0, 0, 0, 255}
		if v, ok := n.StyleProp("color"); ok {
			c := cir.ParseColor(v.AsString(), cir.Color{A: 255})
			color = [4]uint8{c.R, c.G, c.B, c.A}
		}
		props[n.ID] = textProp{content: content, binding: binding, fontSize: size, color: color}
	})
	return props
}

// Measure implements layout.Measurer for text nodes, looking up the
// node's (content, size) pair the builder collected from the CIR tree
// before layout began (the layout tree itself only carries the CIR
// node's opaque ID forward, not its properties).
func (m textMeasurer) Measure(cirID string, availableWidth float64) (float64, float64) {
	prop, ok := m.props[cirID]
	if !ok {
		return 0, 0
	}
	return m.text.Measure(prop.content, prop.fontSize)
}

// generateDrawList recurses the layout tree itself (rather than using
// Tree.PreOrder) because a clipping node needs a matching ClipPop
// emitted after its entire subtree, a paired push/pop that a flat
// parent-before-children walk cannot express.
func (b *Builder) generateDrawList(root layout.NodeIndex, textProps map[string]textProp, state *reactive.State, interaction Interaction) []DrawCommand {
	if root == layout.InvalidIndex {
		return nil
	}
	var commands []DrawCommand
	b.emitNode(root, textProps, state, interaction, &commands)
	return commands
}

// tintChannel scales one RGB byte by factor, clamping to [0,255]. Alpha
// is left untouched.
func tintChannel(c uint8, factor float64) uint8 {
	v := float64(c) * factor
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func tintColor(c [4]uint8, factor float64) [4]uint8 {
	return [4]uint8{tintChannel(c[0], factor), tintChannel(c[1], factor), tintChannel(c[2], factor), c[3]}
}

func (b *Builder) emitNode(idx layout.NodeIndex, textProps map[string]textProp, state *reactive.State, interaction Interaction, commands *[]DrawCommand) {
	node := b.tree.Node(idx)
	if node == nil {
		return
	}

	// §4.4 step 3: the hovered/pressed node gets its background/border
	// brightened (hover) or dimmed (press) by a fixed factor.
	tint := 1.0
	if node.CIRID != "" {
		if node.CIRID == interaction.PressID {
			tint = pressTint
		} else if node.CIRID == interaction.HoverID {
			tint = hoverTint
		}
	}

	if node.Visual != nil {
		cmd := DrawCommand{
			Kind:   DrawRect,
			X:      node.ComputedRect.X,
			Y:      node.ComputedRect.Y,
			Width:  node.ComputedRect.Width,
			Height: node.ComputedRect.Height,
		}
		if node.Visual.HasBackground {
			cmd.Background = node.Visual.Background
			if tint != 1.0 {
				cmd.Background = tintColor(cmd.Background, tint)
			}
		}
		if node.Visual.HasBorder {
			cmd.HasBorder = true
			cmd.BorderColor = node.Visual.BorderColor
			if tint != 1.0 {
				cmd.BorderColor = tintColor(cmd.BorderColor, tint)
			}
			cmd.BorderWidth = node.Visual.BorderWidth
		}
		cmd.CornerRadius = node.Visual.CornerRadius
		*commands = append(*commands, cmd)
	}

	if b.text != nil {
		if prop, ok := textProps[node.CIRID]; ok {
			content := prop.content
			if prop.binding != "" && state != nil {
				if v, ok := state.Peek(prop.binding); ok {
					content = v.String()
				}
			}
			shape := b.text.ShapeAndCache(content, prop.fontSize)
			for i := range shape.Glyphs {
				if err := b.text.RasterizeGlyph(shape, i); err != nil {
					logging.Category(logging.CategoryWarn).Debugf("render: %v", err)
				}
			}
			*commands = append(*commands, DrawCommand{
				Kind:     DrawText,
				X:        node.ComputedRect.X,
				Y:        node.ComputedRect.Y,
				Width:    node.ComputedRect.Width,
				Height:   node.ComputedRect.Height,
				Shape:    shape,
				TextFill: prop.color,
			})
		}
	}

	clips := node.Style.ClipsChildren()
	if clips {
		*commands = append(*commands, DrawCommand{Kind: DrawClipPush, X: node.ComputedRect.X, Y: node.ComputedRect.Y, Width: node.ComputedRect.Width, Height: node.ComputedRect.Height})
	}

	for _, c := range node.Children {
		b.emitNode(c, textProps, state, interaction, commands)
	}

	if clips {
		*commands = append(*commands, DrawCommand{Kind: DrawClipPop})
	}
}
