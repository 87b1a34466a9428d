package listkit

import "math"

// Point is a position in cells. Fractional values come from animated
// geometry; terminal input always lands on whole cells.
type Point struct {
	X, Y float64
}

// Rect is an axis aligned rectangle in cells.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains returns whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Bottom returns the y coordinate just below the rectangle.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Cells rounds the rectangle to whole cells for drawing.
func (r Rect) Cells() (x, y, width, height int) {
	x = int(math.Round(r.X))
	y = int(math.Round(r.Y))
	return x, y, int(math.Round(r.X+r.Width)) - x, int(math.Round(r.Y+r.Height)) - y
}

// Units converts grid units into cells.
type Units struct {
	GridUnit float64
}

// GU returns v grid units in cells.
func (u Units) GU(v float64) float64 {
	return v * u.GridUnit
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(v, hi))
}
