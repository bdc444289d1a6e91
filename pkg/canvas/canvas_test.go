package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkarrow/pkg/bitmap"
	"inkarrow/pkg/shape"
)

type circle struct{}

func (circle) Bounds() image.Rectangle { return image.Rect(0, 0, 4, 4) }

func ink(f *bitmap.TriColor, x, y int) color.RGBA {
	return color.RGBAModel.Convert(f.At(x, y)).(color.RGBA)
}

func TestDrawArrow(t *testing.T) {
	c := New(176, 264)
	shape.Arrow{X: 40, Y: 60, Radius: 20}.Draw(c)

	f := c.Frame()
	assert.Equal(t, image.Rect(0, 0, 176, 264), f.Bounds())
	assert.Equal(t, bitmap.Black, ink(f, 40, 50), "shaft")
	assert.Equal(t, bitmap.Black, ink(f, 30, 40), "shaft corner")
	assert.Equal(t, bitmap.White, ink(f, 50, 50), "right of shaft")
	assert.Equal(t, bitmap.Black, ink(f, 40, 66), "head")
	assert.Equal(t, bitmap.White, ink(f, 22, 76), "outside head")
	assert.Equal(t, bitmap.White, ink(f, 5, 5), "background")
}

func inked(f *bitmap.TriColor) int {
	n := 0
	b := f.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if ink(f, x, y) == bitmap.Black {
				n++
			}
		}
	}
	return n
}

func TestTriangleIncludesEdges(t *testing.T) {
	a := shape.Arrow{X: 60, Y: 60, Radius: 20}
	for i := 0; i < 4; i++ {
		c := New(128, 128)
		_, tri := a.Primitives()
		require.NoError(t, c.Draw(tri, bitmap.Black))

		f := c.Frame()
		for _, v := range []image.Point{tri.A, tri.B, tri.C} {
			assert.Equal(t, bitmap.Black, ink(f, v.X, v.Y), "%s vertex %v", a.Heading, v)
		}
		// 361 interior + 80 boundary lattice points
		assert.Equal(t, 441, inked(f), a.Heading.String())
		assert.Equal(t, tri.Bounds(), boundsOfInk(f), a.Heading.String())

		a.Rotate()
	}
}

func TestArrowApexInked(t *testing.T) {
	a := shape.Arrow{X: 60, Y: 60, Radius: 20}
	for i := 0; i < 4; i++ {
		c := New(128, 128)
		a.Draw(c)

		apex := a.Apex()
		assert.Equal(t, bitmap.Black, ink(c.Frame(), apex.X, apex.Y), a.Heading.String())
		a.Rotate()
	}
}

func boundsOfInk(f *bitmap.TriColor) image.Rectangle {
	var r image.Rectangle
	b := f.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if ink(f, x, y) == bitmap.Black {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestClearBuffer(t *testing.T) {
	c := New(16, 16)
	require.NoError(t, c.Draw(shape.Rectangle{TopLeft: image.Pt(0, 0), Size: 16}, bitmap.Red))
	assert.Equal(t, bitmap.Red, ink(c.Frame(), 8, 8))

	c.ClearBuffer(bitmap.White)
	f := c.Frame()
	assert.Equal(t, make([]byte, len(f.Red())), f.Red())
	assert.Equal(t, make([]byte, len(f.Black())), f.Black())
}

func TestDrawClipsPartiallyVisible(t *testing.T) {
	c := New(16, 16)
	require.NoError(t, c.Draw(shape.Rectangle{TopLeft: image.Pt(-4, -4), Size: 8}, bitmap.Black))
	assert.Equal(t, bitmap.Black, ink(c.Frame(), 1, 1))
	assert.Equal(t, bitmap.White, ink(c.Frame(), 5, 5))
}

func TestDrawErrors(t *testing.T) {
	c := New(16, 16)

	err := c.Draw(shape.Rectangle{TopLeft: image.Pt(2, 2), Size: 0}, bitmap.Black)
	assert.True(t, errors.Is(err, ErrEmptyPrimitive))

	err = c.Draw(shape.Triangle{A: image.Pt(0, 0), B: image.Pt(2, 2), C: image.Pt(4, 4)}, bitmap.Black)
	assert.True(t, errors.Is(err, ErrEmptyPrimitive))

	err = c.Draw(shape.Rectangle{TopLeft: image.Pt(-100, 3), Size: 10}, bitmap.Black)
	assert.True(t, errors.Is(err, ErrOffCanvas))

	err = c.Draw(circle{}, bitmap.Black)
	assert.True(t, errors.Is(err, ErrUnknownPrimitive))

	assert.Equal(t, make([]byte, len(c.Frame().Black())), c.Frame().Black())
}

func TestOffCanvasArrowLeavesBlankFrame(t *testing.T) {
	c := New(32, 32)
	a := shape.NewArrow(20)
	a.Rotate()
	a.MoveForward(100)
	a.Draw(c)

	f := c.Frame()
	assert.Equal(t, make([]byte, len(f.Black())), f.Black())
}
