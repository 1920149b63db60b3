package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gunzino/tibia-outfit-worker/outfit"
)

// CompressionFor picks the bundle compression from an output file name:
// ".tar.zst" is zstd, ".tar.gz" gzip, anything else a plain tar.
func CompressionFor(path string) outfit.BundleCompression {
	switch {
	case strings.HasSuffix(path, ".zst"):
		return outfit.BundleCompZstd
	case strings.HasSuffix(path, ".gz"):
		return outfit.BundleCompGzip
	}
	return outfit.BundleCompNone
}

// CreatePack reads every regular file of inputDir and writes them as one
// outfit bundle to outputFile. A metadata entry, when present, must parse.
func CreatePack(inputDir, outputFile string) error {
	dirEntries, err := os.ReadDir(inputDir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range dirEntries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no files in %s", inputDir)
	}
	sort.Strings(names)

	type item struct {
		data []byte
		err  error
	}
	items := make([]item, len(names))
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			items[i].data, items[i].err = os.ReadFile(filepath.Join(inputDir, names[i]))
		}(i)
	}
	wg.Wait()

	entries := make([]outfit.Entry, len(names))
	for i, it := range items {
		if it.err != nil {
			return it.err
		}
		if names[i] == outfit.MetadataEntry {
			if _, err := outfit.ParseMetadata(it.data); err != nil {
				return err
			}
		}
		entries[i] = outfit.Entry{Name: names[i], Data: it.data}
	}

	start := time.Now()
	data, err := outfit.MarshalBundle(entries, CompressionFor(outputFile))
	if err != nil {
		return err
	}
	fmt.Printf("Packed %d entries in %d ms\n", len(entries), time.Since(start).Milliseconds())
	return os.WriteFile(outputFile, data, 0o644)
}

// UnpackToMemory decodes a bundle file into its entries.
func UnpackToMemory(bundleFile string) (outfit.Archive, error) {
	data, err := os.ReadFile(bundleFile)
	if err != nil {
		return nil, err
	}
	arc, _, err := outfit.DecodeBundle(data)
	return arc, err
}

// UnpackToDir writes every entry of a bundle into outputDir. Entry names
// that would escape outputDir are rejected.
func UnpackToDir(bundleFile, outputDir string) error {
	arc, err := UnpackToMemory(bundleFile)
	if err != nil {
		return err
	}
	for name := range arc {
		if !filepath.IsLocal(name) {
			return fmt.Errorf("unsafe entry name %q", name)
		}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	// Parallel write
	var wg sync.WaitGroup
	errCh := make(chan error, len(arc))
	for name, data := range arc {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path := filepath.Join(outputDir, name)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				errCh <- err
				return
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}
