package outfit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Source fetches raw bundle bytes by entity id. Implementations return an
// error wrapping ErrNotFound when the id has no bundle.
type Source interface {
	FetchBundle(ctx context.Context, id int) ([]byte, error)
}

// MapSource serves bundles from memory.
type MapSource map[int][]byte

func (m MapSource) FetchBundle(_ context.Context, id int) ([]byte, error) {
	b, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("bundle %d: %w", id, ErrNotFound)
	}
	return b, nil
}

// bundleSuffixes are tried in order when looking up a bundle on disk.
var bundleSuffixes = []string{".tar", ".tar.zst", ".tar.gz"}

// DirSource serves bundles stored as "{id}.tar" (optionally ".tar.zst" or
// ".tar.gz") inside Root.
type DirSource struct {
	Root string
}

func (d DirSource) FetchBundle(ctx context.Context, id int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, suffix := range bundleSuffixes {
		b, err := os.ReadFile(filepath.Join(d.Root, strconv.Itoa(id)+suffix))
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("bundle %d in %s: %w", id, d.Root, ErrNotFound)
}

// BundleID extracts the entity id from a bundle file name such as
// "128.tar.zst".
func BundleID(name string) (int, bool) {
	base := filepath.Base(name)
	for _, suffix := range bundleSuffixes {
		if s, ok := strings.CutSuffix(base, suffix); ok {
			id, err := strconv.Atoi(s)
			return id, err == nil && id > 0
		}
	}
	return 0, false
}

// Watch calls onChange with the id of every bundle file that is written,
// replaced or removed under Root until ctx is done.
func (d DirSource) Watch(ctx context.Context, onChange func(id int)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(d.Root); err != nil {
		return fmt.Errorf("watch %s: %w", d.Root, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if id, ok := BundleID(ev.Name); ok {
				onChange(id)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", d.Root, err)
		}
	}
}
