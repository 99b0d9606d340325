package cir

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight 8-bit-per-channel RGBA, the form the render package
// consumes directly without further conversion.
type Color struct {
	R, G, B, A uint8
}

// ParseColor resolves a compiled color property — a hex string
// (`#rrggbb`, `#rrggbbaa`), an `rgba(r,g,b,a)` call, or one of the
// named CSS colors in this file's namedColors table — to a concrete Color.
// An unparseable string logs nothing here (the caller owns logging
// policy) and returns the provided fallback.
func ParseColor(s string, fallback Color) Color {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}

	if strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb(") {
		if c, ok := parseRGBAFunc(s); ok {
			return c
		}
		return fallback
	}

	if strings.HasPrefix(s, "#") && len(s) == 9 {
		// #rrggbbaa: go-colorful doesn't parse alpha, so split it off.
		hex := s[:7]
		alphaHex := s[7:9]
		c, err := colorful.Hex(hex)
		if err != nil {
			return fallback
		}
		a, err := strconv.ParseUint(alphaHex, 16, 8)
		if err != nil {
			return fallback
		}
		r, g, b := c.RGB255()
		return Color{R: r, G: g, B: b, A: uint8(a)}
	}

	c, err := colorful.Hex(s)
	if err == nil {
		r, g, b := c.RGB255()
		return Color{R: r, G: g, B: b, A: 255}
	}

	if named, ok := namedColors[strings.ToLower(s)]; ok {
		return named
	}

	return fallback
}

func parseRGBAFunc(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	closeIdx := strings.LastIndexByte(s, ')')
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return Color{}, false
	}
	parts := strings.Split(s[open+1:closeIdx], ",")
	if len(parts) < 3 {
		return Color{}, false
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, false
		}
		vals[i] = v
	}
	a := 255.0
	if len(vals) >= 4 {
		a = vals[3] * 255
	}
	return Color{
		R: clampByte(vals[0]),
		G: clampByte(vals[1]),
		B: clampByte(vals[2]),
		A: clampByte(a),
	}, true
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

var namedColors = map[string]Color{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
}
