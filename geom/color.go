package geom

import (
	"image/color"
	"math"
)

// Color is a linear RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB returns an opaque colour.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

func (c Color) Scale(s float64) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A}
}

func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A}
}

func (c Color) Mul(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A}
}

// Clamp limits every component to [0, 1].
func (c Color) Clamp() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// RGBA converts to an 8-bit non-premultiplied colour.
func (c Color) RGBA() color.NRGBA {
	c = c.Clamp()
	return color.NRGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: uint8(math.Round(c.A * 255)),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
