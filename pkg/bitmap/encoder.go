package bitmap

import (
	"image"
)

func Encode(src image.Image) *TriColor {
	b := src.Bounds()
	d := NewTriColor(b)

	for x := b.Min.X; x < b.Max.X; x++ {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			d.Set(x, y, src.At(x, y))
		}
	}

	return d
}
