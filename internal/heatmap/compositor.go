package heatmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

// ErrSizeMismatch is returned when the base image and grid differ in size.
var ErrSizeMismatch = errors.New("base image size does not match grid")

// OutputLayout is the timestamp layout used in rendered file names.
const OutputLayout = "2006-01-02_15-04-05"

// Overlay builds the coloured layer and its alpha mask for g.
func Overlay(g *Grid) (*image.NRGBA, *image.Alpha) {
	b := g.Bounds()
	layer := image.NewNRGBA(b)
	mask := image.NewAlpha(b)

	// Each bucket's alpha is fixed, so compute it once.
	var alphas [Buckets]uint8
	for i, c := range Palette {
		alphas[i] = alphaFor(c)
	}

	m := g.Max()
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			idx := BucketFor(Normalize(g.counts[y*g.width+x], m))
			layer.SetNRGBA(x, y, Palette[idx])
			mask.SetAlpha(x, y, color.Alpha{A: alphas[idx]})
		}
	}
	return layer, mask
}

// Render composites the overlay for g onto a copy of base.
func Render(g *Grid, base image.Image) (*image.NRGBA, error) {
	bs := base.Bounds().Size()
	if bs.X != g.width || bs.Y != g.height {
		return nil, fmt.Errorf("%w: base %dx%d, grid %dx%d",
			ErrSizeMismatch, bs.X, bs.Y, g.width, g.height)
	}

	dst := imaging.Clone(base)
	layer, mask := Overlay(g)
	draw.DrawMask(dst, dst.Bounds(), layer, image.Point{}, mask, image.Point{}, draw.Over)
	return dst, nil
}

// LoadBase opens the background image the overlay is drawn onto.
func LoadBase(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open base image %s: %w", path, err)
	}
	return img, nil
}

// OutputName returns the file name for a heatmap rendered at t.
func OutputName(t time.Time) string {
	return "heatmap_" + t.Format(OutputLayout) + ".png"
}

// RenderToFile renders g over the image at basePath and writes a PNG into dir.
// It returns the written path.
func RenderToFile(g *Grid, basePath, dir string, now time.Time) (string, error) {
	base, err := LoadBase(basePath)
	if err != nil {
		return "", err
	}
	out, err := Render(g, base)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, OutputName(now))
	if err := imaging.Save(out, path); err != nil {
		return "", fmt.Errorf("failed to save heatmap: %w", err)
	}
	return path, nil
}
