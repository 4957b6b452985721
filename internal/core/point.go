// Package core defines domain models for the logistics robot fleet.
package core

import "math"

// Point is an integer grid coordinate.
type Point struct {
	X, Y int
}

// DistanceTo returns the Euclidean distance to another point.
func (p Point) DistanceTo(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ManhattanTo returns the Manhattan distance to another point.
func (p Point) ManhattanTo(q Point) int {
	return absInt(p.X-q.X) + absInt(p.Y-q.Y)
}

// OrthogonalNeighbors returns the four axis-aligned neighbor points.
func (p Point) OrthogonalNeighbors() [4]Point {
	return [4]Point{
		{p.X + 1, p.Y},
		{p.X - 1, p.Y},
		{p.X, p.Y + 1},
		{p.X, p.Y - 1},
	}
}

// AdjacentTo reports whether q is exactly one orthogonal step away.
func (p Point) AdjacentTo(q Point) bool {
	return p.ManhattanTo(q) == 1
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Grid is a bounded rectangular coordinate space. Immutable after
// construction.
type Grid struct {
	Origin Point
	Width  int
	Height int
}

// NewGrid creates a grid anchored at origin.
func NewGrid(origin Point, width, height int) Grid {
	return Grid{Origin: origin, Width: width, Height: height}
}

// Contains reports whether p lies inside the grid bounds.
func (g Grid) Contains(p Point) bool {
	return p.X >= g.Origin.X && p.X < g.Origin.X+g.Width &&
		p.Y >= g.Origin.Y && p.Y < g.Origin.Y+g.Height
}

// CellCount returns the number of cells in the grid.
func (g Grid) CellCount() int {
	return g.Width * g.Height
}
