package outfit

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngDecoder = DecoderFunc(func(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
})

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func encodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// archiveOf builds an in-memory archive from name/image pairs plus optional
// raw entries such as metadata.
func archiveOf(t testing.TB, sprites map[string]image.Image, raw ...Entry) Archive {
	t.Helper()
	entries := append([]Entry(nil), raw...)
	for name, img := range sprites {
		entries = append(entries, Entry{Name: name, Data: encodePNG(t, img)})
	}
	data, err := WriteArchive(entries)
	require.NoError(t, err)
	arc, err := ParseArchive(data)
	require.NoError(t, err)
	return arc
}

func metadataEntry(json string) Entry {
	return Entry{Name: MetadataEntry, Data: []byte(json)}
}

func rgba(img *image.NRGBA, x, y int) color.NRGBA {
	return img.NRGBAAt(x, y)
}
