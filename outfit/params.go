package outfit

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Mode selects the kind of output a request produces.
type Mode int

const (
	ModeStatic Mode = iota
	ModeAnimate
	ModeModel
)

func (m Mode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeAnimate:
		return "animate"
	case ModeModel:
		return "model"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// Params is the full parameter vector of one render. Values are expected to
// be in range already; ParseRequest and Normalize clamp them.
type Params struct {
	ID     int
	Addons int
	Colors Colors

	Mount       int
	MountColors Colors

	Direction int
	Animation int
	Walk      int
	Rotate    bool
	Mode      Mode
	Scale     int
}

// DefaultParams returns the parameters used for every field a request omits.
func DefaultParams() Params {
	return Params{
		Direction: 3,
		Animation: 1,
		Walk:      1,
		Scale:     1,
	}
}

// MountID returns the mount looktype, 0 when riding nothing.
func (p Params) MountID() int {
	return p.Mount & 0xffff
}

// MountState is 2 when a mount is present and 1 otherwise.
func (p Params) MountState() int {
	if p.MountID() > 0 {
		return 2
	}
	return 1
}

// Animate reports whether the request asks for a multi-frame result.
func (p Params) Animate() bool {
	return p.Mode == ModeAnimate
}

// Normalize clamps every field to its valid range.
func (p Params) Normalize() Params {
	p.Addons = clamp(p.Addons, 0, 3)
	for i := range p.Colors {
		p.Colors[i] = clamp(p.Colors[i], 0, 255)
		p.MountColors[i] = clamp(p.MountColors[i], 0, 255)
	}
	p.Direction = clamp(p.Direction, 1, 4)
	if p.Animation < 1 {
		p.Animation = 1
	}
	p.Walk = clamp(p.Walk, 0, 1)
	p.Scale = clamp(p.Scale, 1, 4)
	return p
}

// CacheKey identifies the rendered output. Bump the version prefix whenever
// rendering changes.
func (p Params) CacheKey() string {
	return fmt.Sprintf("v4_%d_%d_%d_%d_%d_%d_%d_%d_%d_%d_%d_%d_%d_%d_%d_%s_%d",
		p.ID, p.Walk, p.Addons,
		p.Colors[0], p.Colors[1], p.Colors[2], p.Colors[3],
		p.MountColors[0], p.MountColors[1], p.MountColors[2], p.MountColors[3],
		p.Mount, p.Direction, p.Animation, b2i(p.Rotate), p.Mode, p.Scale)
}

var requestPath = regexp.MustCompile(`^/(static|animate|model)/(\d+)`)

// ParseRequest builds Params from a request path such as "/animate/128" and
// its query. Missing or unparseable query values fall back to defaults and
// everything is clamped; only a malformed path or a zero id is an error.
func ParseRequest(path string, query url.Values) (Params, error) {
	m := requestPath.FindStringSubmatch(strings.ToLower(path))
	if m == nil {
		return Params{}, fmt.Errorf("%w: path %q", ErrInvalidParams, path)
	}
	id, err := strconv.Atoi(m[2])
	if err != nil || id <= 0 {
		return Params{}, fmt.Errorf("%w: id %q", ErrInvalidParams, m[2])
	}

	p := DefaultParams()
	p.ID = id
	switch m[1] {
	case "animate":
		p.Mode = ModeAnimate
	case "model":
		p.Mode = ModeModel
	}
	p.Addons = intParam(query, "addons", 0)
	p.Colors = Colors{
		intParam(query, "head", 0),
		intParam(query, "body", 0),
		intParam(query, "legs", 0),
		intParam(query, "feet", 0),
	}
	p.Mount = intParam(query, "mount", 0)
	p.MountColors = Colors{
		intParam(query, "mounthead", 0),
		intParam(query, "mountbody", 0),
		intParam(query, "mountlegs", 0),
		intParam(query, "mountfeet", 0),
	}
	p.Direction = intParam(query, "direction", p.Direction)
	p.Animation = intParam(query, "animation", p.Animation)
	p.Walk = intParam(query, "walk", p.Walk)
	p.Rotate = intParam(query, "rotate", 0) != 0
	p.Scale = intParam(query, "scale", p.Scale)
	return p.Normalize(), nil
}

// intParam reads a leading integer, parseInt style:
// "12px" is 12, an empty or non-numeric value yields def.
func intParam(q url.Values, key string, def int) int {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return def
	}
	end := 0
	if s[0] == '-' || s[0] == '+' {
		end = 1
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return def
	}
	return n
}

func clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
