package heatmap

import "image"

type edgeKind int

const (
	horizontal edgeKind = iota
	vertical
	oblique
)

// edge is a quad side in the negated-Y frame. For horizontal edges c is the
// edge's y, for vertical edges its x. Oblique edges are y = slope*x + intercept.
type edge struct {
	kind      edgeKind
	c         float64
	slope     float64
	intercept float64
}

func edgeThrough(p1, p2 image.Point) edge {
	x1, y1 := float64(p1.X), -float64(p1.Y)
	x2, y2 := float64(p2.X), -float64(p2.Y)

	switch {
	case y1 == y2:
		return edge{kind: horizontal, c: y1}
	case x1 == x2:
		return edge{kind: vertical, c: x1}
	}
	slope := (y2 - y1) / (x2 - x1)
	return edge{kind: oblique, slope: slope, intercept: y1 - slope*x1}
}

func (e edge) at(x float64) float64 {
	return x*e.slope + e.intercept
}

// The four tests below decide inside-ness for every quad orientation. Left
// and right edges flip their comparison with the slope sign; upper and lower
// edges never do. A horizontal left/right edge or a vertical upper/lower edge
// only arises from a degenerate quad and leaves the bounding rectangle as the
// only constraint on that side.

// rightOf is applied to the left edge.
func (e edge) rightOf(x, y float64) bool {
	switch e.kind {
	case vertical:
		return x >= e.c
	case horizontal:
		return true
	}
	if e.slope < 0 {
		return y >= e.at(x)
	}
	return y <= e.at(x)
}

// leftOf is applied to the right edge.
func (e edge) leftOf(x, y float64) bool {
	switch e.kind {
	case vertical:
		return x <= e.c
	case horizontal:
		return true
	}
	if e.slope < 0 {
		return y <= e.at(x)
	}
	return y >= e.at(x)
}

// above is applied to the lower edge.
func (e edge) above(x, y float64) bool {
	switch e.kind {
	case horizontal:
		return y >= e.c
	case vertical:
		return true
	}
	return y >= e.at(x)
}

// below is applied to the upper edge.
func (e edge) below(x, y float64) bool {
	switch e.kind {
	case horizontal:
		return y <= e.c
	case vertical:
		return true
	}
	return y <= e.at(x)
}
