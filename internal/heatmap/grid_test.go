package heatmap

import (
	"image"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxwatch-go/internal/models"
)

func rect(x0, y0, x1, y1 int) Quad {
	return Quad{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func newGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := NewGrid(w, h)
	require.NoError(t, err)
	return g
}

func TestNewGrid_RejectsEmpty(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		_, err := NewGrid(dims[0], dims[1])
		assert.ErrorIs(t, err, ErrEmptyGrid)
	}
}

func TestNewGrid_StartsZeroed(t *testing.T) {
	g := newGrid(t, 7, 3)
	assert.Equal(t, 7, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.Equal(t, uint32(0), g.Max())
	assert.Len(t, g.Counts(), 21)
	for _, c := range g.Counts() {
		assert.Zero(t, c)
	}
}

func TestAddQuad_AxisAlignedFillsRectangle(t *testing.T) {
	g := newGrid(t, 40, 40)
	hits := g.AddQuad(rect(10, 10, 19, 19))

	assert.Equal(t, 100, hits)
	assert.Equal(t, uint32(1), g.Max())
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			want := uint32(0)
			if x >= 10 && x <= 19 && y >= 10 && y <= 19 {
				want = 1
			}
			require.Equal(t, want, g.At(x, y), "cell (%d,%d)", x, y)
		}
	}
}

func TestAddQuad_OverlapCountsTwice(t *testing.T) {
	g := newGrid(t, 30, 30)
	g.AddQuad(rect(0, 0, 9, 9))
	g.AddQuad(rect(5, 5, 14, 14))

	assert.Equal(t, uint32(2), g.Max())
	assert.Equal(t, uint32(2), g.At(7, 7))
	assert.Equal(t, uint32(1), g.At(2, 2))
	assert.Equal(t, uint32(1), g.At(12, 12))
	assert.Equal(t, uint32(0), g.At(2, 12))
}

func TestAddQuad_ClampsToGrid(t *testing.T) {
	g := newGrid(t, 10, 10)
	hits := g.AddQuad(rect(-5, -5, 4, 4))
	assert.Equal(t, 25, hits)
	assert.Equal(t, uint32(1), g.At(0, 0))
	assert.Equal(t, uint32(1), g.At(4, 4))
	assert.Equal(t, uint32(0), g.At(5, 5))

	hits = g.AddQuad(rect(8, 8, 30, 30))
	assert.Equal(t, 4, hits)
}

func TestAddQuad_OutsideGridIsIgnored(t *testing.T) {
	g := newGrid(t, 10, 10)
	assert.Zero(t, g.AddQuad(rect(20, 20, 30, 30)))
	assert.Zero(t, g.AddQuad(rect(-30, -30, -1, -1)))
	assert.Equal(t, uint32(0), g.Max())
}

func TestAddQuad_Diamond(t *testing.T) {
	// Vertices top, right, bottom, left around (10,10).
	q := Quad{{X: 10, Y: 0}, {X: 20, Y: 10}, {X: 10, Y: 20}, {X: 0, Y: 10}}
	g := newGrid(t, 21, 21)
	g.AddQuad(q)

	for y := 0; y <= 20; y++ {
		for x := 0; x <= 20; x++ {
			d := abs(x-10) + abs(y-10)
			if d < 10 {
				require.Equal(t, uint32(1), g.At(x, y), "inside (%d,%d)", x, y)
			}
			if d > 10 {
				require.Equal(t, uint32(0), g.At(x, y), "outside (%d,%d)", x, y)
			}
		}
	}
}

func TestAddQuad_TiltedBothWays(t *testing.T) {
	quads := []Quad{
		{{X: 5, Y: 0}, {X: 20, Y: 5}, {X: 15, Y: 20}, {X: 0, Y: 15}},
		{{X: 0, Y: 5}, {X: 15, Y: 0}, {X: 20, Y: 15}, {X: 5, Y: 20}},
	}
	for _, q := range quads {
		assert.True(t, q.Contains(10, 10), "centre of %v", q)
		assert.False(t, q.Contains(0, 0), "corner of %v", q)
		assert.False(t, q.Contains(20, 20), "corner of %v", q)
	}
}

func TestAddBox_CenteredOnShiftedPixel(t *testing.T) {
	g := newGrid(t, 20, 20)
	hits := g.AddBox(models.DetectionBox{X: 11, Y: 11, W: 4, H: 4})

	// Centre (10,10), half extents 2: columns and rows 8..12.
	assert.Equal(t, 25, hits)
	assert.Equal(t, uint32(1), g.At(8, 8))
	assert.Equal(t, uint32(1), g.At(12, 12))
	assert.Equal(t, uint32(0), g.At(13, 10))
	assert.Equal(t, uint32(0), g.At(7, 10))
}

func TestAddBox_OddSizeRoundsDown(t *testing.T) {
	g := newGrid(t, 20, 20)
	hits := g.AddBox(models.DetectionBox{X: 6, Y: 6, W: 5, H: 3})
	// Half extents 2 and 1.
	assert.Equal(t, 5*3, hits)
}

func TestAddBox_DegenerateMarksCentre(t *testing.T) {
	g := newGrid(t, 10, 10)
	hits := g.AddBox(models.DetectionBox{X: 4, Y: 5, W: 0, H: 0})
	assert.Equal(t, 1, hits)
	assert.Equal(t, uint32(1), g.At(3, 4))
}

func TestQuadFromBox_Order(t *testing.T) {
	q := QuadFromBox(models.DetectionBox{X: 101, Y: 51, W: 20, H: 10})
	want := Quad{{X: 90, Y: 45}, {X: 110, Y: 45}, {X: 110, Y: 55}, {X: 90, Y: 55}}
	assert.Equal(t, want, q)
	assert.Equal(t, image.Rect(90, 45, 111, 56), q.Bounds())
}

func TestAddQuad_Deterministic(t *testing.T) {
	boxes := []models.DetectionBox{
		{X: 50, Y: 50, W: 30, H: 60},
		{X: 60, Y: 70, W: 10, H: 10},
		{X: 5, Y: 95, W: 40, H: 40},
		{X: 50, Y: 50, W: 30, H: 60},
	}
	build := func() *Grid {
		g := newGrid(t, 100, 100)
		for _, b := range boxes {
			g.AddBox(b)
		}
		return g
	}
	a, b := build(), build()
	if diff := cmp.Diff(a.Counts(), b.Counts()); diff != "" {
		t.Fatalf("grids differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, a.Max(), b.Max())
	assert.Equal(t, uint32(3), a.Max())
}

func TestAddQuad_MaxTracksLargestCell(t *testing.T) {
	g := newGrid(t, 50, 50)
	for i := 0; i < 5; i++ {
		g.AddQuad(rect(i, i, 20, 20))
	}
	var want uint32
	for _, c := range g.Counts() {
		want = max(want, c)
	}
	assert.Equal(t, want, g.Max())
	assert.Equal(t, uint32(5), g.Max())
}

// cross is the z component of (b-a)×(p-a) in image coordinates.
func cross(a, b image.Point, x, y int) int {
	return (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
}

func TestContains_MatchesCrossProduct(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	jitter := func() int { return rng.Intn(17) - 8 }

	for i := 0; i < 200; i++ {
		ox, oy := rng.Intn(60), rng.Intn(60)
		q := Quad{
			{X: ox + jitter(), Y: oy + jitter()},
			{X: ox + 40 + jitter(), Y: oy + jitter()},
			{X: ox + 40 + jitter(), Y: oy + 40 + jitter()},
			{X: ox + jitter(), Y: oy + 40 + jitter()},
		}
		b := q.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				inside, onEdge := true, false
				for k := 0; k < 4; k++ {
					c := cross(q[k], q[(k+1)%4], x, y)
					if c < 0 {
						inside = false
					}
					if c == 0 {
						onEdge = true
					}
				}
				if inside && onEdge {
					continue
				}
				require.Equal(t, inside, q.Contains(x, y), "quad %v pixel (%d,%d)", q, x, y)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
