// Package layout implements the flex-box layout engine (SPEC_FULL.md
// §4.3): it turns a CIR tree into a parallel, arena-allocated tree of
// resolved styles and computed rectangles.
package layout

// Direction is the main-axis direction of a flex container.
type Direction int

const (
	DirectionRow Direction = iota
	DirectionColumn
)

// Align is shared by cross-axis alignment (start/center/end/stretch) and,
// with the space-* values ignored, reused for main-axis alignment too.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
	AlignSpaceBetween
	AlignSpaceAround
	AlignSpaceEvenly
)

// SizeMode is how a single dimension (width or height) is resolved.
type SizeMode int

const (
	SizeAuto SizeMode = iota
	SizeAbsolute
	SizePercent
	SizeFill
)

// Size describes one dimension's sizing behaviour and its min/max clamps,
// all in logical pixels (Percent values are stored as 0..1 fractions).
type Size struct {
	Mode  SizeMode
	Value float64
	Min   float64
	Max   float64
}

// Fixed constructs an absolute-pixel Size with no clamp.
func Fixed(px float64) Size { return Size{Mode: SizeAbsolute, Value: px, Max: maxPixels} }

// Percent constructs a percentage-of-parent Size; fraction is 0..1.
func Percent(fraction float64) Size { return Size{Mode: SizePercent, Value: fraction, Max: maxPixels} }

// Fill constructs a Size that grows to consume available space.
func Fill() Size { return Size{Mode: SizeFill, Max: maxPixels} }

// Auto constructs a Size that wraps tightly to content.
func Auto() Size { return Size{Mode: SizeAuto, Max: maxPixels} }

const maxPixels = 1 << 20

// Edges is a per-side spacing value (padding or margin), in logical
// pixels.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// EdgesAll builds an Edges with the same value on all four sides, the
// shorthand form a compiler emits for a single padding/margin number.
func EdgesAll(v float64) Edges { return Edges{Top: v, Right: v, Bottom: v, Left: v} }

// Overflow controls clipping and scroll-container behaviour per axis.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
)

// Position is relative (participates in flex flow) or absolute (removed
// from flow, placed via Offsets against the nearest non-static ancestor).
type Position int

const (
	PositionRelative Position = iota
	PositionAbsolute
)

// Offsets are the top/right/bottom/left values of an absolutely
// positioned node. A NaN-like "unset" is represented by the matching
// Has* flag being false, so "left: 10, others unset" round-trips.
type Offsets struct {
	Top, Right, Bottom, Left             float64
	HasTop, HasRight, HasBottom, HasLeft bool
}

// Style is the fully resolved flex style surface a layout node carries,
// matching the property set enumerated in SPEC_FULL.md §4.3.
type Style struct {
	Direction Direction

	AlignCross  Align // cross-axis: start|center|end|stretch
	JustifyMain Align // main-axis: start|center|end|space-between|around|evenly
	Wrap        bool

	Width  Size
	Height Size

	Padding  Edges
	Margin   Edges
	GapMain  float64
	GapCross float64

	FlexGrow   float64
	FlexShrink float64
	FlexBasis  *float64 // nil means "use Width/Height on the main axis"

	Position Position
	Offsets  Offsets

	AspectRatio float64 // 0 means unconstrained

	OverflowX Overflow
	OverflowY Overflow
}

// DefaultStyle returns the style a node has when the compiler supplies no
// overrides: row direction, stretch cross-axis alignment, start main-axis
// justification, auto sizing, no grow, shrink factor 1.
func DefaultStyle() Style {
	return Style{
		Direction:   DirectionRow,
		AlignCross:  AlignStretch,
		JustifyMain: AlignStart,
		Width:       Auto(),
		Height:      Auto(),
		FlexGrow:    0,
		FlexShrink:  1,
	}
}

// ClipsChildren reports whether this style implies visual clipping of
// child content, true for hidden overflow and for any scroll axis.
func (s Style) ClipsChildren() bool {
	return s.OverflowX == OverflowHidden || s.OverflowX == OverflowScroll ||
		s.OverflowY == OverflowHidden || s.OverflowY == OverflowScroll
}

// Visual is the optional paint-relevant style attached to a layout node:
// background, border, and corners. Clipping is derived from the node's
// Style.ClipsChildren() instead of living here, since a node can clip its
// children (a scroll container) without painting any background itself.
type Visual struct {
	HasBackground bool
	Background    [4]uint8

	BorderWidth float64
	HasBorder   bool
	BorderColor [4]uint8

	CornerRadius float64
}
