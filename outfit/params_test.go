package outfit

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, path, query string) Params {
	t.Helper()
	q, err := url.ParseQuery(query)
	require.NoError(t, err)
	p, err := ParseRequest(path, q)
	require.NoError(t, err)
	return p
}

func TestParseRequestDefaults(t *testing.T) {
	p := parse(t, "/static/128", "")
	want := DefaultParams()
	want.ID = 128
	assert.Equal(t, want, p)
	assert.Equal(t, ModeStatic, p.Mode)
	assert.Equal(t, 1, p.MountState())
}

func TestParseRequestModes(t *testing.T) {
	assert.Equal(t, ModeAnimate, parse(t, "/animate/5", "").Mode)
	assert.Equal(t, ModeModel, parse(t, "/model/5", "").Mode)
	assert.Equal(t, ModeAnimate, parse(t, "/AniMate/5", "").Mode)
	assert.True(t, parse(t, "/animate/5", "").Animate())
}

func TestParseRequestQuery(t *testing.T) {
	p := parse(t, "/animate/130", "addons=3&head=78&body=69&legs=58&feet=76&mount=368&mounthead=1&mountbody=2&mountlegs=3&mountfeet=4&direction=2&animation=2&walk=0&rotate=1&scale=2")
	assert.Equal(t, 3, p.Addons)
	assert.Equal(t, Colors{78, 69, 58, 76}, p.Colors)
	assert.Equal(t, 368, p.MountID())
	assert.Equal(t, 2, p.MountState())
	assert.Equal(t, Colors{1, 2, 3, 4}, p.MountColors)
	assert.Equal(t, 2, p.Direction)
	assert.Equal(t, 2, p.Animation)
	assert.Equal(t, 0, p.Walk)
	assert.True(t, p.Rotate)
	assert.Equal(t, 2, p.Scale)
}

func TestParseRequestClampsAndFallsBack(t *testing.T) {
	p := parse(t, "/static/1", "addons=9&head=-4&body=999&direction=7&animation=0&walk=5&scale=12&feet=12px&legs=abc")
	assert.Equal(t, 3, p.Addons)
	assert.Equal(t, Colors{0, 255, 0, 12}, p.Colors)
	assert.Equal(t, 4, p.Direction)
	assert.Equal(t, 1, p.Animation)
	assert.Equal(t, 1, p.Walk)
	assert.Equal(t, 4, p.Scale)
}

func TestParseRequestMountMask(t *testing.T) {
	p := parse(t, "/static/1", "mount=65537")
	assert.Equal(t, 1, p.MountID())
	p = parse(t, "/static/1", "mount=65536")
	assert.Equal(t, 0, p.MountID())
	assert.Equal(t, 1, p.MountState())
}

func TestParseRequestInvalid(t *testing.T) {
	for _, path := range []string{"/", "/static", "/static/", "/static/0", "/walk/12", "/static/abc"} {
		_, err := ParseRequest(path, nil)
		assert.ErrorIs(t, err, ErrInvalidParams, path)
	}
}

func TestCacheKeyDistinguishesParams(t *testing.T) {
	a := parse(t, "/animate/1", "")
	b := parse(t, "/animate/1", "rotate=1")
	c := parse(t, "/static/1", "")
	d := parse(t, "/animate/1", "scale=2")
	keys := map[string]bool{a.CacheKey(): true, b.CacheKey(): true, c.CacheKey(): true, d.CacheKey(): true}
	assert.Len(t, keys, 4)
	assert.Equal(t, a.CacheKey(), parse(t, "/animate/1", "head=0").CacheKey())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "static", ModeStatic.String())
	assert.Equal(t, "animate", ModeAnimate.String())
	assert.Equal(t, "model", ModeModel.String())
	assert.Equal(t, "Mode(9)", Mode(9).String())
}
