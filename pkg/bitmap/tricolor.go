package bitmap

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

var (
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = color.RGBA{A: 0xFF}
	Red   = color.RGBA{R: 0xFF, A: 0xFF}
)

// Model snaps any color to the nearest of the three inks the panel can show.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	return triColor(classify(c))
})

type ink uint8

const (
	inkWhite ink = iota
	inkBlack
	inkRed
)

// classify treats strongly red pixels as red ink and everything else by
// luminance, so antialiased edges fall on one side of the 50% threshold.
func classify(c color.Color) ink {
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return inkWhite
	}
	if r >= 0x8000 && g < 0x8000 && b < 0x8000 {
		return inkRed
	}
	// ITU-R 601 luma weights, scaled to 16 bit channels.
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
	if y < 0x8000 {
		return inkBlack
	}
	return inkWhite
}

type triColor ink

// RGBA implements the color.Color interface.
func (c triColor) RGBA() (r, g, b, a uint32) {
	switch ink(c) {
	case inkBlack:
		return Black.RGBA()
	case inkRed:
		return Red.RGBA()
	}
	return White.RGBA()
}

func NewTriColor(r image.Rectangle) *TriColor {
	stride := (r.Dx() + 7) / 8
	return &TriColor{
		black:  make([]byte, stride*r.Dy()),
		red:    make([]byte, stride*r.Dy()),
		stride: stride,
		bounds: r,
	}
}

// FromPlanes wraps already packed planes, e.g. ones received over the wire.
func FromPlanes(width, height int, black, red []byte) (*TriColor, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid frame size")
	}
	t := NewTriColor(image.Rect(0, 0, width, height))
	if len(black) != len(t.black) || len(red) != len(t.red) {
		return nil, errors.Errorf("plane size mismatch, want %d bytes", len(t.black))
	}
	copy(t.black, black)
	copy(t.red, red)
	return t, nil
}

// TriColor is a black/red/white frame stored as two 1 bit planes, one row
// after another, most significant bit first. A set bit means ink. It
// implements the draw.Image interface.
type TriColor struct {
	black  []byte
	red    []byte
	stride int
	bounds image.Rectangle
}

// Bounds implements the image.Image (and draw.Image) interface.
func (t *TriColor) Bounds() image.Rectangle {
	return t.bounds
}

// ColorModel implements the image.Image (and draw.Image) interface.
func (t *TriColor) ColorModel() color.Model {
	return Model
}

// At implements the image.Image (and draw.Image) interface.
func (t *TriColor) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(t.bounds)) {
		return triColor(inkWhite)
	}
	i, mask := t.offset(x, y)
	switch {
	case t.red[i]&mask != 0:
		return triColor(inkRed)
	case t.black[i]&mask != 0:
		return triColor(inkBlack)
	}
	return triColor(inkWhite)
}

// Set implements the draw.Image interface.
func (t *TriColor) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(t.bounds)) {
		return
	}
	i, mask := t.offset(x, y)
	t.black[i] &^= mask
	t.red[i] &^= mask
	switch classify(c) {
	case inkBlack:
		t.black[i] |= mask
	case inkRed:
		t.red[i] |= mask
	}
}

func (t *TriColor) offset(x, y int) (int, byte) {
	x -= t.bounds.Min.X
	y -= t.bounds.Min.Y
	return y*t.stride + x/8, 0x80 >> (uint(x) % 8)
}

// Black returns the packed black plane. The slice is shared with the frame.
func (t *TriColor) Black() []byte {
	return t.black
}

// Red returns the packed red plane. The slice is shared with the frame.
func (t *TriColor) Red() []byte {
	return t.red
}

// Fill paints the whole frame with c.
func (t *TriColor) Fill(c color.Color) {
	var b, r byte
	switch classify(c) {
	case inkBlack:
		b = 0xFF
	case inkRed:
		r = 0xFF
	}
	for i := range t.black {
		t.black[i] = b
		t.red[i] = r
	}
}
