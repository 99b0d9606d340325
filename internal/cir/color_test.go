package cir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColorHex(t *testing.T) {
	c := ParseColor("#ff0000", Color{})
	assert.Equal(t, Color{R: 255, G: 0, B: 0, A: 255}, c)
}

func TestParseColorHexWithAlpha(t *testing.T) {
	c := ParseColor("#ff000080", Color{})
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0x80), c.A)
}

func TestParseColorRGBAFunc(t *testing.T) {
	c := ParseColor("rgba(10, 20, 30, 0.5)", Color{})
	assert.Equal(t, Color{R: 10, G: 20, B: 30, A: 127}, c)
}

func TestParseColorFallbackOnGarbage(t *testing.T) {
	fallback := Color{R: 1, G: 2, B: 3, A: 4}
	c := ParseColor("not-a-color-at-all", fallback)
	assert.Equal(t, fallback, c)
}

func TestParseColorNamed(t *testing.T) {
	c := ParseColor("transparent", Color{R: 9, G: 9, B: 9, A: 9})
	assert.Equal(t, Color{0, 0, 0, 0}, c)
}
