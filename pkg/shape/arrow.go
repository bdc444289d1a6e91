package shape

import (
	"fmt"
	"image"

	"inkarrow/pkg/bitmap"
)

// Heading is one of the four directions the arrow can point to.
type Heading uint8

const (
	Heading0 Heading = iota
	Heading90
	Heading180
	Heading270
)

// Next returns the heading a quarter turn further.
func (h Heading) Next() Heading {
	switch h {
	case Heading0:
		return Heading90
	case Heading90:
		return Heading180
	case Heading180:
		return Heading270
	}
	return Heading0
}

func (h Heading) Degrees() int {
	return int(h%4) * 90
}

func (h Heading) String() string {
	return fmt.Sprintf("%d°", h.Degrees())
}

func NewArrow(radius int) Arrow {
	return Arrow{
		X:       radius,
		Y:       radius,
		Radius:  radius,
		Heading: Heading0,
	}
}

// Arrow is a shaft and a head anchored at (X, Y). Radius is the glyph size
// and stays fixed once the arrow is built.
type Arrow struct {
	X       int
	Y       int
	Radius  int
	Heading Heading
}

func (a *Arrow) Rotate() {
	a.Heading = a.Heading.Next()
}

// MoveForward shifts the anchor along the heading. Negative distances move
// backwards; nothing is clamped to the panel.
func (a *Arrow) MoveForward(distance int) {
	switch a.Heading {
	case Heading0:
		a.Y += distance
	case Heading90:
		a.X -= distance
	case Heading180:
		a.Y -= distance
	case Heading270:
		a.X += distance
	}
}

// Primitives returns the shaft and head for the current heading.
func (a Arrow) Primitives() (Rectangle, Triangle) {
	x, y, r := a.X, a.Y, a.Radius
	half := r / 2

	switch a.Heading {
	case Heading90:
		return Rectangle{TopLeft: image.Pt(x, y-half), Size: r},
			Triangle{A: image.Pt(x, y-r), B: image.Pt(x-r, y), C: image.Pt(x, y+r)}
	case Heading180:
		return Rectangle{TopLeft: image.Pt(x-half, y), Size: r},
			Triangle{A: image.Pt(x-r, y), B: image.Pt(x, y-r), C: image.Pt(x+r, y)}
	case Heading270:
		return Rectangle{TopLeft: image.Pt(x-r, y-half), Size: r},
			Triangle{A: image.Pt(x, y-r), B: image.Pt(x+r, y), C: image.Pt(x, y+r)}
	}
	return Rectangle{TopLeft: image.Pt(x-half, y-r), Size: r},
		Triangle{A: image.Pt(x-r, y), B: image.Pt(x, y+r), C: image.Pt(x+r, y)}
}

// Apex is the head vertex the arrow points at.
func (a Arrow) Apex() image.Point {
	_, tri := a.Primitives()
	return tri.B
}

// Draw clears t and paints the arrow in black. Primitive failures are
// dropped; whatever was drawn before the failure stays on the frame.
func (a Arrow) Draw(t Target) {
	t.ClearBuffer(bitmap.White)

	rect, tri := a.Primitives()
	_ = t.Draw(rect, bitmap.Black)
	_ = t.Draw(tri, bitmap.Black)
}
