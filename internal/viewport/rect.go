package viewport

import "fmt"

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.Left, r.Top, r.Width, r.Height)
}
