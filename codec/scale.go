package codec

import (
	"image"

	"github.com/anthonynsimon/bild/transform"

	"github.com/gunzino/tibia-outfit-worker/outfit"
)

// Scale enlarges img by an integer factor with nearest-neighbour sampling,
// keeping pixel art crisp. Factors below 2 return img unchanged.
func Scale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	scaled := transform.Resize(img, b.Dx()*factor, b.Dy()*factor, transform.NearestNeighbor)
	return outfit.ToNRGBA(scaled)
}

// ScaleAll applies Scale to every frame.
func ScaleAll(frames []*image.NRGBA, factor int) []*image.NRGBA {
	if factor < 2 {
		return frames
	}
	out := make([]*image.NRGBA, len(frames))
	for i, f := range frames {
		if i > 0 && f == frames[i-1] {
			out[i] = out[i-1]
			continue
		}
		out[i] = Scale(f, factor)
	}
	return out
}
