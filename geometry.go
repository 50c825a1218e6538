package gridview

import (
	"image"
	"math"
)

// Insets are distances from the four edges of a rectangle.
type Insets struct {
	Top, Left, Bottom, Right int
}

// Leading returns the offset applied to the top-left corner.
func (i Insets) Leading() image.Point {
	return image.Pt(i.Left, i.Top)
}

// Size returns the total horizontal and vertical extent of the insets.
func (i Insets) Size() image.Point {
	return image.Pt(i.Left+i.Right, i.Top+i.Bottom)
}

// Shrink returns r with the insets removed from each edge.
func (i Insets) Shrink(r image.Rectangle) image.Rectangle {
	return image.Rect(r.Min.X+i.Left, r.Min.Y+i.Top, r.Max.X-i.Right, r.Max.Y-i.Bottom).Canon()
}

// Vector is a two-dimensional velocity or sub-cell offset.
type Vector struct {
	X, Y float64
}

// Add returns v+w.
func (v Vector) Add(w Vector) Vector {
	return Vector{v.X + w.X, v.Y + w.Y}
}

// Sub returns v-w.
func (v Vector) Sub(w Vector) Vector {
	return Vector{v.X - w.X, v.Y - w.Y}
}

// Scale returns v multiplied by k.
func (v Vector) Scale(k float64) Vector {
	return Vector{v.X * k, v.Y * k}
}

// IsZero reports whether both components are exactly zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Point rounds v to the nearest cell.
func (v Vector) Point() image.Point {
	return image.Pt(int(math.Round(v.X)), int(math.Round(v.Y)))
}

func vectorOf(p image.Point) Vector {
	return Vector{float64(p.X), float64(p.Y)}
}

// rectOf returns the rect a primitive currently occupies.
func rectOf(p Primitive) image.Rectangle {
	x, y, width, height := p.GetRect()
	return image.Rect(x, y, x+width, y+height)
}

func setRect(p Primitive, r image.Rectangle) {
	p.SetRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// moveBy shifts a primitive's rect by delta.
func moveBy(p Primitive, delta image.Point) {
	if delta == (image.Point{}) {
		return
	}
	setRect(p, rectOf(p).Add(delta))
}

// unionWithOrigin returns the union of all frames together with the origin.
func unionWithOrigin(frames []image.Rectangle) image.Rectangle {
	var union image.Rectangle
	for _, frame := range frames {
		if frame.Empty() {
			continue
		}
		union = union.Union(frame)
	}
	if union.Min.X > 0 {
		union.Min.X = 0
	}
	if union.Min.Y > 0 {
		union.Min.Y = 0
	}
	return union
}

func clamp[T int | float64](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
