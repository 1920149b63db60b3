package utils

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/gunzino/tibia-outfit-worker/outfit"
)

// BundleInfo summarises a bundle for the inspect command.
type BundleInfo struct {
	Compression outfit.BundleCompression
	Entries     int
	Bytes       int
	Sprites     int
	Masks       int
	// Frames per walk state, empty when the bundle has no metadata.
	Frames     []int
	Addons     []int
	Mounted    bool
	Directions []int
}

var spriteEntry = regexp.MustCompile(`^(\d+)_(\d+)_(\d+)_(\d+)_(\d+)(_template)?\.png$`)

// Inspect reads a bundle and reports what it holds.
func Inspect(bundleFile string) (*BundleInfo, error) {
	data, err := os.ReadFile(bundleFile)
	if err != nil {
		return nil, err
	}
	arc, comp, err := outfit.DecodeBundle(data)
	if err != nil {
		return nil, err
	}
	info := &BundleInfo{Compression: comp, Entries: len(arc), Bytes: arc.Size()}

	layers := map[int]bool{}
	dirs := map[int]bool{}
	for _, name := range arc.Names() {
		m := spriteEntry.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if m[6] != "" {
			info.Masks++
			continue
		}
		info.Sprites++
		state, _ := strconv.Atoi(m[3])
		layer, _ := strconv.Atoi(m[4])
		dir, _ := strconv.Atoi(m[5])
		if state == 2 {
			info.Mounted = true
		}
		layers[layer] = true
		dirs[dir] = true
	}
	for _, l := range []int{outfit.LayerAddon1, outfit.LayerAddon2} {
		if layers[l] {
			info.Addons = append(info.Addons, l-outfit.LayerBase)
		}
	}
	for d := 1; d <= 4; d++ {
		if dirs[d] {
			info.Directions = append(info.Directions, d)
		}
	}

	if md, err := arc.Metadata(); err == nil {
		for walk := 0; walk <= 1; walk++ {
			n, err := md.Frames(walk)
			if err != nil {
				n = 0
			}
			info.Frames = append(info.Frames, n)
		}
	}
	return info, nil
}

// RunInspect prints the summary of bundleFile to w.
func RunInspect(bundleFile string, w io.Writer) error {
	info, err := Inspect(bundleFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "compression: %s\n", info.Compression)
	fmt.Fprintf(w, "entries:     %d (%d bytes)\n", info.Entries, info.Bytes)
	fmt.Fprintf(w, "sprites:     %d (+%d masks)\n", info.Sprites, info.Masks)
	fmt.Fprintf(w, "directions:  %v\n", info.Directions)
	fmt.Fprintf(w, "addons:      %v\n", info.Addons)
	fmt.Fprintf(w, "mounted:     %v\n", info.Mounted)
	if info.Frames == nil {
		fmt.Fprintln(w, "frames:      no metadata")
	} else {
		fmt.Fprintf(w, "frames:      idle %d, walk %d\n", info.Frames[0], info.Frames[1])
	}
	return nil
}
