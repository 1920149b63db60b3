package outfit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveRoundtrip(t *testing.T) {
	entries := []Entry{
		{Name: "1_1_1_1_3.png", Data: bytes.Repeat([]byte{7}, 700)},
		{Name: "empty.bin", Data: nil},
		{Name: MetadataEntry, Data: []byte(`{"frameCount":2}`)},
	}
	data, err := WriteArchive(entries)
	require.NoError(t, err)
	assert.Zero(t, len(data)%blockSize)

	arc, err := ParseArchive(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"1_1_1_1_3.png", "empty.bin", MetadataEntry}, arc.Names())
	for _, e := range entries {
		got, ok := arc.Get(e.Name)
		require.True(t, ok, e.Name)
		assert.Equal(t, len(e.Data), len(got))
		assert.True(t, bytes.Equal(e.Data, got))
	}
	assert.Equal(t, 700+16, arc.Size())
}

func TestParseArchiveEmpty(t *testing.T) {
	arc, err := ParseArchive(nil)
	require.NoError(t, err)
	assert.Empty(t, arc)

	arc, err = ParseArchive(make([]byte, 300))
	require.NoError(t, err)
	assert.Empty(t, arc)
}

func TestParseArchiveStopsAtZeroBlock(t *testing.T) {
	first, err := WriteArchive([]Entry{{Name: "a", Data: []byte("x")}})
	require.NoError(t, err)
	second, err := WriteArchive([]Entry{{Name: "b", Data: []byte("y")}})
	require.NoError(t, err)

	arc, err := ParseArchive(append(first, second...))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, arc.Names())
}

func TestParseArchiveTruncated(t *testing.T) {
	data, err := WriteArchive([]Entry{{Name: "big", Data: make([]byte, 1000)}})
	require.NoError(t, err)

	_, err = ParseArchive(data[:blockSize+100])
	assert.ErrorIs(t, err, ErrMalformedArchive)
}

func TestParseArchiveBadSize(t *testing.T) {
	data, err := WriteArchive([]Entry{{Name: "x", Data: []byte("1")}})
	require.NoError(t, err)
	copy(data[sizeOffset:], "9z9        ")

	_, err = ParseArchive(data)
	assert.ErrorIs(t, err, ErrMalformedArchive)
}

func TestParseArchiveBlankSize(t *testing.T) {
	data, err := WriteArchive([]Entry{{Name: "x", Data: nil}})
	require.NoError(t, err)
	copy(data[sizeOffset:sizeOffset+sizeLen], bytes.Repeat([]byte{' '}, sizeLen))

	arc, err := ParseArchive(data)
	require.NoError(t, err)
	got, ok := arc.Get("x")
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestParseArchiveDuplicateNamesKeepLast(t *testing.T) {
	data, err := WriteArchive([]Entry{
		{Name: "dup", Data: []byte("first")},
		{Name: "dup", Data: []byte("second")},
	})
	require.NoError(t, err)
	arc, err := ParseArchive(data)
	require.NoError(t, err)
	got, _ := arc.Get("dup")
	assert.Equal(t, "second", string(got))
}

func TestWriteArchiveRejectsBadNames(t *testing.T) {
	_, err := WriteArchive([]Entry{{Name: ""}})
	assert.Error(t, err)
	_, err = WriteArchive([]Entry{{Name: string(bytes.Repeat([]byte{'n'}, 101))}})
	assert.Error(t, err)
}

func TestBundleCompressions(t *testing.T) {
	entries := []Entry{{Name: "a.png", Data: bytes.Repeat([]byte("abc"), 400)}}
	for _, comp := range []BundleCompression{BundleCompNone, BundleCompGzip, BundleCompZstd} {
		t.Run(comp.String(), func(t *testing.T) {
			data, err := MarshalBundle(entries, comp)
			require.NoError(t, err)
			assert.Equal(t, comp, DetectCompression(data))

			arc, got, err := DecodeBundle(data)
			require.NoError(t, err)
			assert.Equal(t, comp, got)
			b, ok := arc.Get("a.png")
			require.True(t, ok)
			assert.Equal(t, entries[0].Data, b)
		})
	}
}

func TestDecodeBundleCorruptGzip(t *testing.T) {
	_, _, err := DecodeBundle([]byte{0x1f, 0x8b, 0, 1, 2})
	assert.Error(t, err)
}

func TestCompressionExt(t *testing.T) {
	assert.Equal(t, "", BundleCompNone.Ext())
	assert.Equal(t, ".gz", BundleCompGzip.Ext())
	assert.Equal(t, ".zst", BundleCompZstd.Ext())
}
