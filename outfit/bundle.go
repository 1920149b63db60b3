package outfit

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// BundleCompression indicates the compression wrapped around a bundle's tar stream.
type BundleCompression uint8

const (
	BundleCompNone BundleCompression = 0
	BundleCompGzip BundleCompression = 1
	BundleCompZstd BundleCompression = 2
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (c BundleCompression) String() string {
	switch c {
	case BundleCompNone:
		return "none"
	case BundleCompGzip:
		return "gzip"
	case BundleCompZstd:
		return "zstd"
	}
	return fmt.Sprintf("BundleCompression(%d)", uint8(c))
}

// Ext returns the file suffix appended after ".tar" for this compression.
func (c BundleCompression) Ext() string {
	switch c {
	case BundleCompGzip:
		return ".gz"
	case BundleCompZstd:
		return ".zst"
	}
	return ""
}

// DetectCompression sniffs the compression of a bundle from its leading bytes.
func DetectCompression(data []byte) BundleCompression {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return BundleCompZstd
	case bytes.HasPrefix(data, gzipMagic):
		return BundleCompGzip
	}
	return BundleCompNone
}

// DecodeBundle decompresses data if needed and parses the resulting tar stream.
func DecodeBundle(data []byte) (Archive, BundleCompression, error) {
	comp := DetectCompression(data)
	switch comp {
	case BundleCompNone:
		// no-op
	case BundleCompGzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, comp, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		b, err := io.ReadAll(zr)
		if err != nil {
			return nil, comp, fmt.Errorf("gzip: %w", err)
		}
		data = b
	case BundleCompZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, comp, err
		}
		defer dec.Close()
		b, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, comp, fmt.Errorf("zstd: %w", err)
		}
		data = b
	}
	arc, err := ParseArchive(data)
	return arc, comp, err
}

// MarshalBundle writes entries as a tar stream wrapped in the given compression.
func MarshalBundle(entries []Entry, comp BundleCompression) ([]byte, error) {
	raw, err := WriteArchive(entries)
	if err != nil {
		return nil, err
	}
	switch comp {
	case BundleCompNone:
		return raw, nil
	case BundleCompGzip:
		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(raw); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case BundleCompZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil
	}
	return nil, fmt.Errorf("unsupported compression: %d", comp)
}
