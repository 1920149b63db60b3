package outfit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultStoreSize is the number of parsed archives a Store keeps by default.
const DefaultStoreSize = 256

// Store caches parsed bundle archives by entity id. It holds at most size
// archives and evicts the least recently used one beyond that. Concurrent
// first requests for the same id share a single fetch and parse, which runs
// to completion even when the caller that started it goes away.
type Store struct {
	source Source
	cache  *lru.Cache[int, Archive]
	group  singleflight.Group
	logger *slog.Logger

	mu sync.Mutex
	// generation per id, bumped by Purge; loads that straddle a bump are
	// not cached
	gens map[int]uint64
}

// NewStore returns a Store reading bundles from src.
func NewStore(src Source, size int, logger *slog.Logger) (*Store, error) {
	if size <= 0 {
		size = DefaultStoreSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{source: src, logger: logger, gens: map[int]uint64{}}
	cache, err := lru.NewWithEvict(size, func(id int, _ Archive) {
		s.logger.Debug("archive evicted", "id", id)
	})
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

// Get returns the archive for id, loading it on first use. Absent bundles
// yield an error wrapping ErrNotFound and are not cached. Cancelling ctx
// abandons the wait but not a load other callers may share.
func (s *Store) Get(ctx context.Context, id int) (Archive, error) {
	if arc, ok := s.cache.Get(id); ok {
		return arc, nil
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.Itoa(id), func() (any, error) {
		return s.load(loadCtx, id)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Archive), nil
	}
}

func (s *Store) load(ctx context.Context, id int) (Archive, error) {
	if arc, ok := s.cache.Get(id); ok {
		return arc, nil
	}
	gen := s.generation(id)
	start := time.Now()
	data, err := s.source.FetchBundle(ctx, id)
	if err != nil {
		return nil, err
	}
	arc, comp, err := DecodeBundle(data)
	if err != nil {
		return nil, fmt.Errorf("bundle %d: %w", id, err)
	}

	s.mu.Lock()
	fresh := s.gens[id] == gen
	if fresh {
		s.cache.Add(id, arc)
	}
	s.mu.Unlock()
	if !fresh {
		s.logger.Info("archive purged during load, not cached", "id", id)
	}
	s.logger.Info("archive loaded", "id", id, "bytes", len(data), "compression", comp,
		"entries", len(arc), "took", time.Since(start))
	return arc, nil
}

func (s *Store) generation(id int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[id]
}

// Purge drops the cached archive for id so the next Get reloads it. A load
// already in flight for id still answers its callers but is not cached.
func (s *Store) Purge(id int) bool {
	s.mu.Lock()
	s.gens[id]++
	s.group.Forget(strconv.Itoa(id))
	ok := s.cache.Remove(id)
	s.mu.Unlock()
	if ok {
		s.logger.Info("archive purged", "id", id)
	}
	return ok
}

// Len returns the number of cached archives.
func (s *Store) Len() int {
	return s.cache.Len()
}
