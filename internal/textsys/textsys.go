// Package textsys implements the text subsystem (SPEC_FULL.md §4.2):
// font loading, shaping/measurement, and on-demand glyph rasterisation
// into a texture atlas.
package textsys

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"runtime"
	"sync"

	"github.com/oxidekit/oxidekit-core/internal/logging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// deviceDPI is the DPI x/image/font/opentype faces are rendered at; the
// render package applies the separate logical→physical scale factor on
// top, so font faces are always opened at a fixed reference DPI.
const deviceDPI = 72

// Shape is an opaque handle returned by ShapeAndCache; valid until the
// next font-system invalidation (a font reload or atlas reset).
type Shape struct {
	Text       string
	FontSize   float64
	Glyphs     []GlyphQuad
	Width      float64
	Height     float64
	generation uint64
}

// GlyphQuad is one drawable glyph: its pen position relative to the
// shape's origin, and the rectangle within the atlas where its
// rasterised bitmap lives.
type GlyphQuad struct {
	Rune   rune
	X, Y   float64
	Width  float64
	Height float64
	// AtlasX/AtlasY/AtlasW/AtlasH locate the glyph's bitmap within the
	// System's Atlas, valid once RasterizeGlyph has run for this rune
	// at this Shape's FontSize.
	AtlasX, AtlasY, AtlasW, AtlasH int
}

// UVRect returns g's bitmap location within an atlasWidth x atlasHeight
// atlas as normalised texture coordinates, (0,0,0,0) for a glyph that
// hasn't been rasterised yet (whitespace, or RasterizeGlyph not yet
// called for this shape).
func (g GlyphQuad) UVRect(atlasWidth, atlasHeight int) (u0, v0, u1, v1 float64) {
	if atlasWidth == 0 || atlasHeight == 0 || g.AtlasW == 0 || g.AtlasH == 0 {
		return 0, 0, 0, 0
	}
	w, h := float64(atlasWidth), float64(atlasHeight)
	return float64(g.AtlasX) / w, float64(g.AtlasY) / h, float64(g.AtlasX+g.AtlasW) / w, float64(g.AtlasY+g.AtlasH) / h
}

// System owns the loaded font face, a shape cache, and the glyph atlas.
// Per §5's single-threaded cooperative model the runtime only ever
// calls System from the UI thread; the mutex here guards against the
// dev overlay's concurrent read-only inspection, not genuine concurrent
// mutation.
type System struct {
	mu sync.RWMutex

	source     *opentype.Font
	faceCache  map[float64]font.Face
	generation uint64

	shapeCache map[string]*Shape
	atlas      *Atlas
	rasterized map[glyphKey]bool
}

type glyphKey struct {
	r    rune
	size float64
}

// Atlas is the texture atlas glyphs are rasterised into on demand. The
// render package uploads Pixels to a GPU texture; textsys only manages
// the CPU-side bitmap and a simple shelf-packing cursor.
type Atlas struct {
	Width, Height int
	Pixels        *image.NRGBA

	penX, penY, rowHeight int
}

// whiteTexelSize is the side length of the opaque white swatch reserved
// at the atlas origin, which solid-fill draw commands sample instead of
// a glyph bitmap so rects and glyphs can share one textured pipeline.
const whiteTexelSize = 2

// NewAtlas allocates a square atlas of the given side length and
// reserves a whiteTexelSize square of opaque white pixels at the
// origin for solid-fill quads to sample.
func NewAtlas(size int) *Atlas {
	a := &Atlas{
		Width:  size,
		Height: size,
		Pixels: image.NewNRGBA(image.Rect(0, 0, size, size)),
	}
	draw.Draw(a.Pixels, image.Rect(0, 0, whiteTexelSize, whiteTexelSize), image.White, image.Point{}, draw.Src)
	a.penX, a.rowHeight = whiteTexelSize, whiteTexelSize
	return a
}

// WhiteTexelUV returns the normalised (u, v) atlas coordinate a
// solid-fill quad should sample, the centre of the reserved white
// swatch.
func (a *Atlas) WhiteTexelUV() (u, v float64) {
	return WhiteTexelUV(a.Width, a.Height)
}

// WhiteTexelUV computes the same coordinate as Atlas.WhiteTexelUV from
// a bare (width, height) pair, for callers that only track the atlas's
// dimensions rather than holding the *Atlas itself.
func WhiteTexelUV(atlasWidth, atlasHeight int) (u, v float64) {
	if atlasWidth == 0 || atlasHeight == 0 {
		return 0, 0
	}
	return float64(whiteTexelSize) / 2 / float64(atlasWidth), float64(whiteTexelSize) / 2 / float64(atlasHeight)
}

// alloc reserves a w×h-px rectangle in the atlas using simple shelf
// packing, returning its origin. Wraps to a new shelf when the
// current row is exhausted; returns false if the atlas itself is full.
func (a *Atlas) alloc(w, h int) (x, y int, ok bool) {
	if a.penX+w > a.Width {
		a.penX = 0
		a.penY += a.rowHeight
		a.rowHeight = 0
	}
	if a.penY+h > a.Height {
		return 0, 0, false
	}
	x, y = a.penX, a.penY
	a.penX += w
	if h > a.rowHeight {
		a.rowHeight = h
	}
	return x, y, true
}

// New loads fontData as the primary face. If fontData fails to parse,
// it falls back to the first loadable system font from
// systemFallbackPaths and logs, per §4.2's "missing font → fallback to
// a system default and log".
func New(fontData []byte) (*System, error) {
	s := &System{
		faceCache:  make(map[float64]font.Face),
		shapeCache: make(map[string]*Shape),
		atlas:      NewAtlas(1024),
		rasterized: make(map[glyphKey]bool),
	}

	source, err := opentype.Parse(fontData)
	if err == nil {
		s.source = source
		return s, nil
	}

	logging.Category(logging.CategoryWarn).Warnf("textsys: failed to parse font, falling back to system default: %v", err)
	for _, path := range systemFallbackPaths() {
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			continue
		}
		fallback, ferr := opentype.Parse(data)
		if ferr != nil {
			continue
		}
		s.source = fallback
		return s, nil
	}
	return nil, fmt.Errorf("textsys: no usable font (primary: %w, no system fallback found)", err)
}

// systemFallbackPaths lists well-known font file locations to try, in
// order, when the font data passed to New can't be parsed.
func systemFallbackPaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/System/Library/Fonts/Supplemental/Arial.ttf",
			"/System/Library/Fonts/SFNS.ttf",
		}
	case "windows":
		return []string{
			`C:\Windows\Fonts\arial.ttf`,
			`C:\Windows\Fonts\segoeui.ttf`,
		}
	default:
		return []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/TTF/DejaVuSans.ttf",
		}
	}
}

// Invalidate clears the shape and face caches and bumps the generation
// counter, called when the font configuration changes (e.g. a DPI
// change that would alter hinting).
func (s *System) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.shapeCache = make(map[string]*Shape)
	s.faceCache = make(map[float64]font.Face)
	s.rasterized = make(map[glyphKey]bool)
}

func (s *System) faceAt(size float64) (font.Face, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.faceCache[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(s.source, &opentype.FaceOptions{
		Size:    size,
		DPI:     deviceDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("textsys: opening face at size %v: %w", size, err)
	}
	s.faceCache[size] = f
	return f, nil
}

// Measure returns the (width, height) in logical pixels a string would
// occupy at the given size, deterministic for the same font
// configuration so layout stays idempotent across rebuilds of identical
// content, per §4.2.
func (s *System) Measure(text string, size float64) (width, height float64) {
	shape := s.ShapeAndCache(text, size)
	return shape.Width, shape.Height
}

// PlaceholderWidth returns the width used to measure a bound ({var})
// text node before its real content is known, per §4.2: "a fixed
// representative such as '0.00'".
func (s *System) PlaceholderWidth(size float64) float64 {
	w, _ := s.Measure("0.00", size)
	return w
}

// ShapeAndCache measures text at size using font.Drawer and returns a
// cached Shape. Subsequent calls with identical (text, size) before the
// next Invalidate return the same cached Shape value, satisfying the
// "bit-identical outputs" stability §4.2 requires.
func (s *System) ShapeAndCache(text string, size float64) *Shape {
	key := fmt.Sprintf("%s@%.4f", text, size)

	s.mu.RLock()
	if cached, ok := s.shapeCache[key]; ok && cached.generation == s.generation {
		s.mu.RUnlock()
		return cached
	}
	gen := s.generation
	s.mu.RUnlock()

	shape := s.shape(text, size)
	shape.generation = gen

	s.mu.Lock()
	s.shapeCache[key] = shape
	s.mu.Unlock()

	return shape
}

func (s *System) shape(text string, size float64) *Shape {
	face, err := s.faceAt(size)
	if err != nil {
		logging.Category(logging.CategoryWarn).Errorf("textsys: %v", err)
		return &Shape{Text: text, FontSize: size}
	}

	metrics := face.Metrics()
	lineHeight := fixedToFloat(metrics.Height)

	drawer := &font.Drawer{Face: face, Dot: fixed.P(0, 0)}

	glyphs := make([]GlyphQuad, 0, len(text))
	for _, r := range text {
		if _, _, ok := face.GlyphBounds(r); !ok {
			logging.Category(logging.CategoryWarn).Debugf("textsys: glyph shaping failed for %q, substituting .notdef", r)
		}
		startX := fixedToFloat(drawer.Dot.X)
		advance, ok := face.GlyphAdvance(r)
		if !ok {
			advance = face.Metrics().Height / 2
		}
		glyphs = append(glyphs, GlyphQuad{
			Rune:   r,
			X:      startX,
			Y:      0,
			Width:  fixedToFloat(advance),
			Height: lineHeight,
		})
		drawer.Dot.X += advance
	}

	return &Shape{
		Text:     text,
		FontSize: size,
		Glyphs:   glyphs,
		Width:    fixedToFloat(drawer.Dot.X),
		Height:   lineHeight,
	}
}

// RasterizeGlyph renders r at size into the atlas if it hasn't been
// already, filling in AtlasX/Y/W/H on every matching GlyphQuad in shape.
// Idempotent: repeat calls for an already-rasterised glyph are no-ops.
func (s *System) RasterizeGlyph(shape *Shape, index int) error {
	if index < 0 || index >= len(shape.Glyphs) {
		return fmt.Errorf("textsys: glyph index %d out of range", index)
	}
	g := &shape.Glyphs[index]
	key := glyphKey{r: g.Rune, size: shape.FontSize}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rasterized[key] {
		return nil
	}

	face, err := s.faceAtLocked(shape.FontSize)
	if err != nil {
		return err
	}

	bounds, mask, maskp, _, ok := face.Glyph(fixed.P(0, 0), g.Rune)
	if !ok {
		s.rasterized[key] = true
		return nil
	}

	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		s.rasterized[key] = true
		return nil
	}

	x, y, fits := s.atlas.alloc(w, h)
	if !fits {
		return fmt.Errorf("textsys: glyph atlas exhausted (%dx%d full)", s.atlas.Width, s.atlas.Height)
	}

	dstRect := image.Rect(x, y, x+w, y+h)
	draw.DrawMask(s.atlas.Pixels, dstRect, image.White, image.Point{}, mask, maskp, draw.Over)

	for i := range shape.Glyphs {
		if shape.Glyphs[i].Rune == g.Rune {
			q := &shape.Glyphs[i]
			q.AtlasX, q.AtlasY, q.AtlasW, q.AtlasH = x, y, w, h
		}
	}
	s.rasterized[key] = true
	return nil
}

func (s *System) faceAtLocked(size float64) (font.Face, error) {
	if f, ok := s.faceCache[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(s.source, &opentype.FaceOptions{
		Size:    size,
		DPI:     deviceDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("textsys: opening face at size %v: %w", size, err)
	}
	s.faceCache[size] = f
	return f, nil
}

// Atlas exposes the system's glyph atlas for the render package to
// upload as a GPU texture.
func (s *System) Atlas() *Atlas {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.atlas
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
