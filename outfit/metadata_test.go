package outfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadataFrameCounts(t *testing.T) {
	md, err := ParseMetadata([]byte(`{"frameCounts":[1,8]}`))
	require.NoError(t, err)
	n, err := md.Frames(0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = md.Frames(1)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestParseMetadataSingleCount(t *testing.T) {
	md, err := ParseMetadata([]byte(`{"frameCount":3,"name":"citizen"}`))
	require.NoError(t, err)
	for walk := 0; walk <= 1; walk++ {
		n, err := md.Frames(walk)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	}
}

func TestMetadataMissing(t *testing.T) {
	for _, body := range []string{`{}`, `not json`, `{"frameCounts":[]}`} {
		_, err := ParseMetadata([]byte(body))
		assert.ErrorIs(t, err, ErrMissingMetadata, body)
	}

	md, err := ParseMetadata([]byte(`{"frameCounts":[2,0]}`))
	require.NoError(t, err)
	_, err = md.Frames(1)
	assert.ErrorIs(t, err, ErrMissingMetadata)

	_, err = Archive{}.Metadata()
	assert.ErrorIs(t, err, ErrMissingMetadata)
}

func TestFrameDuration(t *testing.T) {
	want := map[int]int{1: 500, 2: 350, 3: 300, 4: 150, 5: 150, 6: 150, 7: 150, 8: 80, 9: 80}
	for n, ms := range want {
		assert.Equal(t, ms, FrameDuration(n), "n=%d", n)
	}
	assert.Equal(t, 80, FrameDuration(12))
	assert.Equal(t, 500, FrameDuration(0))
}
