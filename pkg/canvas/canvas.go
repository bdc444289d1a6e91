package canvas

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"inkarrow/pkg/bitmap"
	"inkarrow/pkg/shape"
)

var (
	ErrEmptyPrimitive   = errors.New("primitive has no area")
	ErrOffCanvas        = errors.New("primitive is outside the canvas")
	ErrUnknownPrimitive = errors.New("unknown primitive")
)

func New(width, height int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := &Canvas{
		img: img,
		gc:  gg.NewContextForRGBA(img),
	}
	c.ClearBuffer(bitmap.White)
	return c
}

// Canvas is the in-memory framebuffer the arrow is drawn into before it is
// packed and sent to the panel.
type Canvas struct {
	img *image.RGBA
	gc  *gg.Context
}

func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

func (c *Canvas) ClearBuffer(col color.Color) {
	c.gc.SetColor(col)
	c.gc.Clear()
}

func (c *Canvas) Draw(p shape.Primitive, col color.Color) error {
	b := p.Bounds()
	if b.Empty() {
		return ErrEmptyPrimitive
	}
	if !b.Overlaps(c.img.Bounds()) {
		return ErrOffCanvas
	}

	switch v := p.(type) {
	case shape.Rectangle:
		c.gc.DrawRectangle(float64(v.TopLeft.X), float64(v.TopLeft.Y), float64(v.Size), float64(v.Size))
	case shape.Triangle:
		if area2(v) == 0 {
			return ErrEmptyPrimitive
		}
		c.gc.SetColor(col)
		c.fillTriangle(v, b.Intersect(c.img.Bounds()))
		return nil
	default:
		return errors.Wrapf(ErrUnknownPrimitive, "%T", p)
	}

	c.gc.SetColor(col)
	c.gc.Fill()
	return nil
}

// Frame packs the current surface into panel planes.
func (c *Canvas) Frame() *bitmap.TriColor {
	return bitmap.Encode(c.img)
}

// fillTriangle inks every pixel of clip on or inside t, edges and vertices
// included.
func (c *Canvas) fillTriangle(t shape.Triangle, clip image.Rectangle) {
	sign := 1
	if area2(t) < 0 {
		sign = -1
	}

	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			p := image.Pt(x, y)
			if sign*cross(t.A, t.B, p) >= 0 &&
				sign*cross(t.B, t.C, p) >= 0 &&
				sign*cross(t.C, t.A, p) >= 0 {
				c.gc.SetPixel(x, y)
			}
		}
	}
}

func cross(a, b, p image.Point) int {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func area2(t shape.Triangle) int {
	return cross(t.A, t.B, t.C)
}
