package heatmap

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Buckets is the number of colour steps in the ramp.
const Buckets = 10

// MaxAlpha caps the overlay opacity so the base image stays readable.
const MaxAlpha = 50

var paletteHex = [Buckets]string{
	"#808080", // grey
	"#ff00ff", // pink
	"#7f00ff", // purple
	"#0000ff", // dark blue
	"#0080ff", // light blue
	"#00ffff", // bright blue
	"#00ff00", // lime
	"#ffff00", // yellow
	"#ff8000", // orange
	"#ff0000", // red
}

// Palette is the ramp from least to most visited.
var Palette = buildPalette()

func buildPalette() [Buckets]color.NRGBA {
	var p [Buckets]color.NRGBA
	for i, h := range paletteHex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("heatmap: bad palette entry " + h)
		}
		r, g, b := c.RGB255()
		p[i] = color.NRGBA{R: r, G: g, B: b, A: 0xff}
	}
	return p
}

// Normalize maps a count to [0,1] against max. An all-zero grid maps to 0.
func Normalize(count, max uint32) float64 {
	if max == 0 {
		return 0
	}
	v := float64(count) / float64(max)
	return math.Min(math.Max(v, 0), 1)
}

// BucketFor returns the palette index for a normalized value. The buckets are
// [0,0.1), [0.1,0.2) ... [0.9,1.0]; 1.0 belongs to the last one.
func BucketFor(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	b := int(math.Floor(v * Buckets))
	if b >= Buckets {
		return Buckets - 1
	}
	return b
}

// ColorFor returns the ramp colour for a raw count.
func ColorFor(count, max uint32) color.NRGBA {
	return Palette[BucketFor(Normalize(count, max))]
}

// alphaFor derives overlay opacity from the colour's luma.
func alphaFor(c color.NRGBA) uint8 {
	l := color.GrayModel.Convert(c).(color.Gray).Y
	return min(l, MaxAlpha)
}
