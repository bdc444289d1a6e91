package shape

import (
	"image"
	"image/color"
)

// Primitive is a filled figure the arrow is assembled from.
type Primitive interface {
	Bounds() image.Rectangle
}

// Rectangle is an axis aligned square block of Size×Size pixels whose
// top-left pixel is TopLeft.
type Rectangle struct {
	TopLeft image.Point
	Size    int
}

func (r Rectangle) Bounds() image.Rectangle {
	return image.Rectangle{Min: r.TopLeft, Max: r.TopLeft.Add(image.Pt(r.Size, r.Size))}
}

type Triangle struct {
	A, B, C image.Point
}

// Bounds covers every vertex pixel, so Max is one past the largest vertex.
func (t Triangle) Bounds() image.Rectangle {
	min, max := t.A, t.A
	for _, p := range []image.Point{t.B, t.C} {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return image.Rectangle{Min: min, Max: max.Add(image.Pt(1, 1))}
}

// Target is the in-memory framebuffer side of the display.
type Target interface {
	ClearBuffer(c color.Color)
	Draw(p Primitive, c color.Color) error
}
