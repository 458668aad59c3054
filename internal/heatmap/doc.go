// Package heatmap accumulates detection boxes into a per-pixel visit grid and
// renders that grid as a translucent colour overlay on a base image.
//
// # Coordinate System
//
// Grid coordinates match image coordinates: (0,0) is the top-left pixel, X
// grows rightward and Y grows downward. Quad edges are classified in a frame
// where Y is negated, so "above" an edge means smaller image Y.
//
// # Rasterization
//
// AddQuad only visits the integer bounding rectangle of the quad, clipped to
// the grid, and counts a pixel when it is on the inner side of all four edges.
// The same ordered sequence of quads always yields the same grid.
//
// # Rendering
//
// Counts are normalized against the running maximum and bucketed into a
// ten-colour ramp (grey through red). The overlay's alpha is its luma capped
// at 50/255 so the base image stays visible.
//
// # Thread Safety
//
// Grid is not safe for concurrent use. The frame loop owns it exclusively.
package heatmap
