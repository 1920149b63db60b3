// Package codec converts between encoded image bytes and rasters: sprite
// entries are decoded by content sniffing, renders are encoded as PNG
// stills or animated GIFs.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"

	"github.com/h2non/filetype"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat reports entry bytes that are not a supported image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Formats that Decode accepts, keyed by the sniffed file extension.
var decoders = map[string]func([]byte) (image.Image, error){
	"png": func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) },
	"gif": func(b []byte) (image.Image, error) { return gif.Decode(bytes.NewReader(b)) },
	"webp": func(b []byte) (image.Image, error) {
		return webp.Decode(bytes.NewReader(b))
	},
}

// Decoder decodes PNG, GIF and WebP entries regardless of their names.
type Decoder struct{}

// Decode sniffs data and decodes it with the matching codec.
func (Decoder) Decode(data []byte) (image.Image, error) {
	return Decode(data)
}

// Decode sniffs data and decodes it with the matching codec.
func Decode(data []byte) (image.Image, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	dec, ok := decoders[kind.Extension]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind.Extension)
	}
	img, err := dec(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.Extension, err)
	}
	return img, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
