package outfit

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ToNRGBA returns src as a zero-origin, tightly packed *image.NRGBA holding
// straight (non-premultiplied) RGBA bytes. Decoded PNGs with an alpha
// channel are already NRGBA and are only repacked when their layout differs.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// CloneNRGBA returns a deep copy of img.
func CloneNRGBA(img *image.NRGBA) *image.NRGBA {
	out := &image.NRGBA{
		Pix:    make([]byte, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)
	return out
}

func sameSize(a, b *image.NRGBA) error {
	if a.Rect.Size() != b.Rect.Size() || a.Stride != b.Stride {
		return fmt.Errorf("%w: %v vs %v", ErrDimensionMismatch, a.Rect.Size(), b.Rect.Size())
	}
	return nil
}
