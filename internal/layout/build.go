package layout

import (
	"strconv"
	"strings"

	"github.com/oxidekit/oxidekit-core/internal/cir"
)

// Build walks a CIR tree and produces a fresh layout Tree, resolving each
// node's Style from its style/props property lists. Grounded on the
// reference runtime's ir_to_style/build_from_ir dispatch: every CIR kind
// maps to a DefaultStyle() plus kind-specific defaults (Column/Row pick a
// Direction, Scroll* pick an Overflow), then the generic property
// resolution loop below overrides anything the compiler specified
// explicitly, exactly mirroring "switch on kind, then iterate props".
func Build(tree *Tree, root *cir.Node) NodeIndex {
	tree.Reset()
	if root == nil {
		return InvalidIndex
	}
	idx := buildNode(tree, root, InvalidIndex)
	tree.SetRoot(idx)
	return idx
}

func buildNode(tree *Tree, n *cir.Node, parent NodeIndex) NodeIndex {
	style := styleForKind(n.Kind)
	applyProperties(&style, n.Style)
	applyProperties(&style, n.Props)

	visual := visualForNode(n)

	idx := tree.Alloc(Node{
		CIRID:  n.ID,
		Style:  style,
		Visual: visual,
		Parent: parent,
	})

	node := tree.Node(idx)
	for _, child := range n.Children {
		childIdx := buildNode(tree, child, idx)
		node.Children = append(node.Children, childIdx)
	}
	return idx
}

func styleForKind(kind string) Style {
	s := DefaultStyle()
	switch kind {
	case cir.KindColumn:
		s.Direction = DirectionColumn
	case cir.KindRow, cir.KindButton:
		s.Direction = DirectionRow
	case cir.KindScroll:
		s.OverflowX = OverflowScroll
		s.OverflowY = OverflowScroll
	case cir.KindScrollX:
		s.OverflowX = OverflowScroll
	case cir.KindScrollY:
		s.OverflowY = OverflowScroll
	case cir.KindText, cir.KindImage, cir.KindLink:
		s.AlignCross = AlignStart
	}
	return s
}

func visualForNode(n *cir.Node) *Visual {
	bg, hasBg := n.StyleProp("background_color")
	borderColor, hasBorderColor := n.StyleProp("border_color")
	borderWidth, hasBorderWidth := n.StyleProp("border_width")
	radius, hasRadius := n.StyleProp("border_radius")

	if !hasBg && !hasBorderColor && !hasBorderWidth && !hasRadius {
		return nil
	}

	v := &Visual{}
	if hasBg {
		c := cir.ParseColor(bg.AsString(), cir.Color{})
		v.HasBackground = true
		v.Background = [4]uint8{c.R, c.G, c.B, c.A}
	}
	if hasBorderColor {
		c := cir.ParseColor(borderColor.AsString(), cir.Color{})
		v.BorderColor = [4]uint8{c.R, c.G, c.B, c.A}
	}
	if hasBorderWidth {
		if bw, ok := borderWidth.AsNumber(); ok {
			v.BorderWidth = bw
			v.HasBorder = bw > 0
		}
	}
	if hasRadius {
		if r, ok := radius.AsNumber(); ok {
			v.CornerRadius = r
		}
	}
	return v
}

// applyProperties overrides fields of s for every recognised property
// name present in props; unrecognised names are ignored (a forward-
// compatible compiler is free to emit properties this runtime doesn't
// understand yet).
func applyProperties(s *Style, props []cir.Property) {
	for _, p := range props {
		switch p.Name {
		case "direction", "flex_direction":
			if p.Value.AsString() == "column" {
				s.Direction = DirectionColumn
			} else if p.Value.AsString() == "row" {
				s.Direction = DirectionRow
			}
		case "align":
			s.AlignCross = parseAlign(p.Value.AsString(), s.AlignCross)
		case "justify":
			s.JustifyMain = parseAlign(p.Value.AsString(), s.JustifyMain)
		case "width":
			s.Width = parseSize(p.Value)
		case "height":
			s.Height = parseSize(p.Value)
		case "min_width":
			if v, ok := p.Value.AsNumber(); ok {
				s.Width.Min = v
			}
		case "min_height":
			if v, ok := p.Value.AsNumber(); ok {
				s.Height.Min = v
			}
		case "max_width":
			if v, ok := p.Value.AsNumber(); ok {
				s.Width.Max = v
			}
		case "max_height":
			if v, ok := p.Value.AsNumber(); ok {
				s.Height.Max = v
			}
		case "padding":
			s.Padding = parseEdges(p.Value.AsString())
		case "margin":
			s.Margin = parseEdges(p.Value.AsString())
		case "gap":
			if v, ok := p.Value.AsNumber(); ok {
				s.GapMain, s.GapCross = v, v
			}
		case "flex_grow":
			if v, ok := p.Value.AsNumber(); ok {
				s.FlexGrow = v
			}
		case "flex_shrink":
			if v, ok := p.Value.AsNumber(); ok {
				s.FlexShrink = v
			}
		case "flex_basis":
			if v, ok := p.Value.AsNumber(); ok {
				basis := v
				s.FlexBasis = &basis
			}
		case "flex_wrap":
			s.Wrap = p.Value.AsString() == "wrap"
		case "position":
			if p.Value.AsString() == "absolute" {
				s.Position = PositionAbsolute
			} else {
				s.Position = PositionRelative
			}
		case "top":
			if v, ok := p.Value.AsNumber(); ok {
				s.Offsets.Top, s.Offsets.HasTop = v, true
			}
		case "right":
			if v, ok := p.Value.AsNumber(); ok {
				s.Offsets.Right, s.Offsets.HasRight = v, true
			}
		case "bottom":
			if v, ok := p.Value.AsNumber(); ok {
				s.Offsets.Bottom, s.Offsets.HasBottom = v, true
			}
		case "left":
			if v, ok := p.Value.AsNumber(); ok {
				s.Offsets.Left, s.Offsets.HasLeft = v, true
			}
		case "aspect_ratio":
			if v, ok := p.Value.AsNumber(); ok {
				s.AspectRatio = v
			}
		case "overflow":
			of := parseOverflow(p.Value.AsString())
			s.OverflowX, s.OverflowY = of, of
		case "overflow_x":
			s.OverflowX = parseOverflow(p.Value.AsString())
		case "overflow_y":
			s.OverflowY = parseOverflow(p.Value.AsString())
		}
	}
}

func parseAlign(s string, fallback Align) Align {
	switch s {
	case "start":
		return AlignStart
	case "center":
		return AlignCenter
	case "end":
		return AlignEnd
	case "stretch":
		return AlignStretch
	case "space-between":
		return AlignSpaceBetween
	case "space-around":
		return AlignSpaceAround
	case "space-evenly":
		return AlignSpaceEvenly
	default:
		return fallback
	}
}

func parseOverflow(s string) Overflow {
	switch s {
	case "hidden":
		return OverflowHidden
	case "scroll":
		return OverflowScroll
	default:
		return OverflowVisible
	}
}

// parseSize understands "fill", "auto", "50%", and a bare/"px"-suffixed
// pixel number.
func parseSize(v cir.Value) Size {
	s := strings.TrimSpace(v.AsString())
	switch s {
	case "fill":
		return Fill()
	case "auto", "":
		return Auto()
	}
	if strings.HasSuffix(s, "%") {
		if n, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64); err == nil {
			return Percent(n / 100)
		}
		return Auto()
	}
	if n, ok := v.AsNumber(); ok {
		return Fixed(n)
	}
	return Auto()
}

// parseEdges understands a single number (all sides), a "vertical
// horizontal" two-value shorthand (the compiler's pre-expanded form per
// §4.1, e.g. "120px 64px"), and a four-value "top right bottom left".
func parseEdges(s string) Edges {
	fields := strings.Fields(s)
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSuffix(f, "px")
		if n, err := strconv.ParseFloat(f, 64); err == nil {
			nums = append(nums, n)
		}
	}
	switch len(nums) {
	case 1:
		return EdgesAll(nums[0])
	case 2:
		return Edges{Top: nums[0], Bottom: nums[0], Left: nums[1], Right: nums[1]}
	case 4:
		return Edges{Top: nums[0], Right: nums[1], Bottom: nums[2], Left: nums[3]}
	default:
		return Edges{}
	}
}
