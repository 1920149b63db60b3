package outfit

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// MetadataEntry is the reserved archive entry holding animation metadata.
const MetadataEntry = "outfit_data.json"

// Metadata declares how many animation frames a bundle has per walk state.
// A bundle either lists frameCounts indexed by walk state or a single
// frameCount shared by all states.
type Metadata struct {
	FrameCounts []int
	FrameCount  int
}

// ParseMetadata reads the metadata record.
func ParseMetadata(data []byte) (Metadata, error) {
	if !gjson.ValidBytes(data) {
		return Metadata{}, fmt.Errorf("%w: %s is not valid JSON", ErrMissingMetadata, MetadataEntry)
	}
	var md Metadata
	if counts := gjson.GetBytes(data, "frameCounts"); counts.IsArray() {
		for _, c := range counts.Array() {
			md.FrameCounts = append(md.FrameCounts, int(c.Int()))
		}
	}
	if fc := gjson.GetBytes(data, "frameCount"); fc.Exists() {
		md.FrameCount = int(fc.Int())
	}
	if len(md.FrameCounts) == 0 && md.FrameCount == 0 {
		return Metadata{}, fmt.Errorf("%w: no frame counts declared", ErrMissingMetadata)
	}
	return md, nil
}

// Frames returns the frame count for a walk state.
func (m Metadata) Frames(walk int) (int, error) {
	n := m.FrameCount
	if walk >= 0 && walk < len(m.FrameCounts) {
		n = m.FrameCounts[walk]
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: no frames for walk state %d", ErrMissingMetadata, walk)
	}
	return n, nil
}

// Metadata loads and parses the bundle's animation metadata.
func (a Archive) Metadata() (Metadata, error) {
	data, ok := a.Get(MetadataEntry)
	if !ok {
		return Metadata{}, fmt.Errorf("%w: %s absent", ErrMissingMetadata, MetadataEntry)
	}
	return ParseMetadata(data)
}

// speeds maps a frame count to the per-frame display duration in ms.
var speeds = [...]int{1: 500, 2: 350, 3: 300, 4: 150, 5: 150, 6: 150, 7: 150, 8: 80, 9: 80}

// FrameDuration returns the display duration for animations of n frames.
// Counts beyond the table use the fastest speed.
func FrameDuration(n int) int {
	if n < 1 {
		return speeds[1]
	}
	if n >= len(speeds) {
		return speeds[len(speeds)-1]
	}
	return speeds[n]
}
