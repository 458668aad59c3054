package heatmap

import (
	"errors"
	"fmt"
	"image"

	"proxwatch-go/internal/models"
)

// ErrEmptyGrid is returned when a grid is created with a non-positive dimension.
var ErrEmptyGrid = errors.New("grid dimensions must be positive")

// Quad is a four-vertex pixel polygon ordered top-left, top-right,
// bottom-right, bottom-left.
type Quad [4]image.Point

// QuadFromBox converts a detector box to its quad. Detector centres are
// 1-based, so the centre is shifted by one before the half extents are applied.
func QuadFromBox(b models.DetectionBox) Quad {
	cx, cy := b.X-1, b.Y-1
	hw, hh := b.W/2, b.H/2
	return Quad{
		{X: cx - hw, Y: cy - hh},
		{X: cx + hw, Y: cy - hh},
		{X: cx + hw, Y: cy + hh},
		{X: cx - hw, Y: cy + hh},
	}
}

// Bounds returns the inclusive-exclusive rectangle covering all four vertices.
func (q Quad) Bounds() image.Rectangle {
	minX, maxX := q[0].X, q[0].X
	minY, maxY := q[0].Y, q[0].Y
	for _, p := range q[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Grid is a width×height array of visit counters with a running maximum.
type Grid struct {
	width  int
	height int
	counts []uint32
	max    uint32
}

// NewGrid allocates a zeroed grid.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		counts: make([]uint32, width*height),
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Bounds returns the grid rectangle anchored at the origin.
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.width, g.height)
}

// Max returns the largest count recorded so far.
func (g *Grid) Max() uint32 { return g.max }

// At returns the count at (x, y), or 0 outside the grid.
func (g *Grid) At(x, y int) uint32 {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return 0
	}
	return g.counts[y*g.width+x]
}

// Counts returns a copy of the row-major counters.
func (g *Grid) Counts() []uint32 {
	out := make([]uint32, len(g.counts))
	copy(out, g.counts)
	return out
}

// AddBox rasterizes a detector box.
func (g *Grid) AddBox(b models.DetectionBox) int {
	return g.AddQuad(QuadFromBox(b))
}

// AddQuad increments every grid cell inside q and returns how many cells were
// incremented. Parts of q outside the grid are ignored.
func (g *Grid) AddQuad(q Quad) int {
	r := q.Bounds().Intersect(g.Bounds())
	if r.Empty() {
		return 0
	}

	upper := edgeThrough(q[0], q[1])
	lower := edgeThrough(q[3], q[2])
	left := edgeThrough(q[0], q[3])
	right := edgeThrough(q[1], q[2])

	hits := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := g.counts[y*g.width : (y+1)*g.width]
		for x := r.Min.X; x < r.Max.X; x++ {
			if !contains(upper, lower, left, right, x, y) {
				continue
			}
			row[x]++
			if row[x] > g.max {
				g.max = row[x]
			}
			hits++
		}
	}
	return hits
}

// Contains reports whether pixel (x, y) lies inside q by the same edge tests
// AddQuad uses. The bounding rectangle is not checked.
func (q Quad) Contains(x, y int) bool {
	return contains(
		edgeThrough(q[0], q[1]),
		edgeThrough(q[3], q[2]),
		edgeThrough(q[0], q[3]),
		edgeThrough(q[1], q[2]),
		x, y,
	)
}

func contains(upper, lower, left, right edge, x, y int) bool {
	fx, fy := float64(x), -float64(y)
	return upper.below(fx, fy) &&
		lower.above(fx, fy) &&
		left.rightOf(fx, fy) &&
		right.leftOf(fx, fy)
}
