package outfit

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    Region
	}{
		{255, 255, 0, RegionHead},
		{1, 1, 0, RegionHead},
		{255, 0, 0, RegionBody},
		{0, 255, 0, RegionLegs},
		{0, 0, 255, RegionFeet},
		{0, 0, 0, RegionNone},
		{255, 255, 255, RegionNone},
		{255, 0, 255, RegionNone},
		{0, 255, 255, RegionNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.r, c.g, c.b), "(%d,%d,%d)", c.r, c.g, c.b)
	}
}

func TestPaletteRGB(t *testing.T) {
	r, g, b := PaletteRGB(0)
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{r, g, b})
	r, g, b = PaletteRGB(94)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	for _, i := range []int{-1, len(Palette), 146, 255} {
		r, g, b = PaletteRGB(i)
		assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b}, "index %d", i)
	}
}

func TestRecolorBody(t *testing.T) {
	mask := solid(2, 2, color.NRGBA{255, 0, 0, 255})
	target := solid(2, 2, color.NRGBA{200, 200, 200, 255})

	require.NoError(t, Recolor(mask, target, Colors{0, 94, 0, 0}))
	assert.Equal(t, color.NRGBA{200, 0, 0, 255}, rgba(target, 1, 1))
}

func TestRecolorTruncates(t *testing.T) {
	mask := solid(1, 1, color.NRGBA{0, 0, 255, 255})
	target := solid(1, 1, color.NRGBA{100, 100, 100, 77})
	require.NoError(t, Recolor(mask, target, Colors{0, 0, 0, 112}))
	r, g, b := PaletteRGB(112)
	want := color.NRGBA{uint8(100 * uint32(r) / 255), uint8(100 * uint32(g) / 255), uint8(100 * uint32(b) / 255), 77}
	assert.Equal(t, want, rgba(target, 0, 0))
}

func TestRecolorLeavesUnmaskedPixels(t *testing.T) {
	mask := solid(3, 1, color.NRGBA{255, 255, 255, 255})
	mask.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 255})
	mask.SetNRGBA(2, 0, color.NRGBA{255, 0, 255, 255})
	target := solid(3, 1, color.NRGBA{10, 20, 30, 128})
	before := CloneNRGBA(target)

	require.NoError(t, Recolor(mask, target, Colors{94, 94, 94, 94}))
	assert.Equal(t, before.Pix, target.Pix)
}

func TestRecolorWhiteIsIdentity(t *testing.T) {
	mask := solid(2, 1, color.NRGBA{255, 255, 0, 255})
	target := solid(2, 1, color.NRGBA{12, 34, 56, 200})
	before := CloneNRGBA(target)

	require.NoError(t, Recolor(mask, target, Colors{}))
	assert.Equal(t, before.Pix, target.Pix)
}

func TestRecolorSizeMismatch(t *testing.T) {
	err := Recolor(solid(1, 1, color.NRGBA{}), solid(2, 1, color.NRGBA{}), Colors{})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestOverlay(t *testing.T) {
	t.Run("opaque replaces", func(t *testing.T) {
		dst := solid(1, 1, color.NRGBA{10, 10, 10, 255})
		require.NoError(t, Overlay(dst, solid(1, 1, color.NRGBA{200, 100, 50, 255})))
		assert.Equal(t, color.NRGBA{200, 100, 50, 255}, rgba(dst, 0, 0))
	})
	t.Run("transparent is skipped", func(t *testing.T) {
		dst := solid(1, 1, color.NRGBA{10, 20, 30, 40})
		require.NoError(t, Overlay(dst, solid(1, 1, color.NRGBA{200, 100, 50, 0})))
		assert.Equal(t, color.NRGBA{10, 20, 30, 40}, rgba(dst, 0, 0))
	})
	t.Run("partial alpha snaps to opaque", func(t *testing.T) {
		dst := solid(1, 1, color.NRGBA{0, 0, 0, 0})
		require.NoError(t, Overlay(dst, solid(1, 1, color.NRGBA{255, 100, 0, 128})))
		want := color.NRGBA{
			uint8((255*128 + 127) / 255),
			uint8((100*128 + 127) / 255),
			0,
			255,
		}
		assert.Equal(t, want, rgba(dst, 0, 0))
	})
	t.Run("size mismatch", func(t *testing.T) {
		err := Overlay(solid(2, 2, color.NRGBA{}), solid(2, 1, color.NRGBA{}))
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}
