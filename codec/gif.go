package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
)

// alphaThreshold is the lowest alpha drawn as opaque; GIF has no partial transparency.
const alphaThreshold = 128

var transparent = color.NRGBA{}

// EncodeGIF encodes frames as a looping animated GIF. durations are in
// milliseconds and must pair with frames; every frame must be width x height.
// All frames share one palette: the exact colours when they fit in 255
// entries, the web-safe palette otherwise. Index 0 is transparent.
func EncodeGIF(frames []*image.NRGBA, durations []int, width, height int) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("gif: no frames")
	}
	if len(frames) != len(durations) {
		return nil, fmt.Errorf("gif: %d frames but %d durations", len(frames), len(durations))
	}
	for i, f := range frames {
		if f.Rect.Dx() != width || f.Rect.Dy() != height {
			return nil, fmt.Errorf("gif: frame %d is %v, want %dx%d", i, f.Rect.Size(), width, height)
		}
	}

	pal, exact := buildPalette(frames)
	anim := &gif.GIF{
		Image:    make([]*image.Paletted, len(frames)),
		Delay:    make([]int, len(frames)),
		Disposal: make([]byte, len(frames)),
		Config: image.Config{
			ColorModel: pal,
			Width:      width,
			Height:     height,
		},
	}
	for i, f := range frames {
		anim.Image[i] = quantize(f, pal, exact)
		anim.Delay[i] = durations[i] / 10
		anim.Disposal[i] = gif.DisposalBackground
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}

// buildPalette collects the distinct visible colours of all frames.
func buildPalette(frames []*image.NRGBA) (color.Palette, map[color.NRGBA]uint8) {
	exact := map[color.NRGBA]uint8{}
	pal := color.Palette{transparent}
	for _, f := range frames {
		for i := 0; i+3 < len(f.Pix); i += 4 {
			if f.Pix[i+3] < alphaThreshold {
				continue
			}
			c := color.NRGBA{f.Pix[i], f.Pix[i+1], f.Pix[i+2], 255}
			if _, ok := exact[c]; ok {
				continue
			}
			if len(pal) == 256 {
				fallback := append(color.Palette{transparent}, palette.WebSafe...)
				return fallback, nil
			}
			exact[c] = uint8(len(pal))
			pal = append(pal, c)
		}
	}
	return pal, exact
}

func quantize(f *image.NRGBA, pal color.Palette, exact map[color.NRGBA]uint8) *image.Paletted {
	w, h := f.Rect.Dx(), f.Rect.Dy()
	out := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := f.PixOffset(f.Rect.Min.X+x, f.Rect.Min.Y+y)
			if f.Pix[i+3] < alphaThreshold {
				continue // zero value is the transparent index
			}
			c := opaque(color.NRGBA{f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]})
			if exact != nil {
				out.Pix[y*out.Stride+x] = exact[c]
				continue
			}
			// skip index 0 so opaque pixels never match the transparent entry
			out.Pix[y*out.Stride+x] = uint8(pal[1:].Index(c) + 1)
		}
	}
	return out
}
