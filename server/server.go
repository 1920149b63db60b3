// Package server exposes outfit rendering over HTTP:
//
//	GET /static/{id}?head=..&body=..   PNG still
//	GET /animate/{id}?rotate=1         animated GIF
//	GET /model/{id}                    GLB model of the still
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gunzino/tibia-outfit-worker/api"
	"github.com/gunzino/tibia-outfit-worker/outfit"
)

// Options tune a Server. Zero values pick the defaults.
type Options struct {
	// AllowedReferers lists the referer hosts allowed to embed renders.
	// Empty allows everyone.
	AllowedReferers   []string
	ResponseCacheSize int
	CacheControl      string
	Logger            *slog.Logger
}

// Server renders outfits for HTTP requests and caches the encoded results.
type Server struct {
	archives     api.Archives
	renderer     *outfit.Renderer
	allowed      map[string]struct{}
	responses    *lru.Cache[uint64, api.Result]
	cacheControl string
	logger       *slog.Logger
	// bumped by PurgeResponses so stale entity tags stop matching
	generation atomic.Uint64
}

// New returns a Server rendering with r from archives.
func New(archives api.Archives, r *outfit.Renderer, opts Options) (*Server, error) {
	size := opts.ResponseCacheSize
	if size <= 0 {
		size = 1024
	}
	responses, err := lru.New[uint64, api.Result](size)
	if err != nil {
		return nil, err
	}
	s := &Server{
		archives:     archives,
		renderer:     r,
		responses:    responses,
		cacheControl: opts.CacheControl,
		logger:       opts.Logger,
	}
	if s.cacheControl == "" {
		s.cacheControl = "public, max-age=2592000, immutable"
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if len(opts.AllowedReferers) > 0 {
		s.allowed = make(map[string]struct{}, len(opts.AllowedReferers))
		for _, h := range opts.AllowedReferers {
			s.allowed[strings.ToLower(h)] = struct{}{}
		}
	}
	return s, nil
}

// AllowedReferer reports whether a request carrying referer may be served.
// Requests without a referer are always served.
func (s *Server) AllowedReferer(referer string) bool {
	if referer == "" || s.allowed == nil {
		return true
	}
	u, err := url.Parse(referer)
	if err != nil {
		return false
	}
	_, ok := s.allowed[strings.ToLower(u.Hostname())]
	return ok
}

// PurgeResponses drops every cached response and retires the entity tags
// handed out so far. Call it when a bundle changes.
func (s *Server) PurgeResponses() {
	s.generation.Add(1)
	s.responses.Purge()
}

// ETag is the entity tag of a render, derived from its cache key and the
// response generation it was produced in.
func ETag(p outfit.Params, generation uint64) (uint64, string) {
	key := xxhash.Sum64String(p.CacheKey() + "@" + strconv.FormatUint(generation, 10))
	return key, `"` + strconv.FormatUint(key, 16) + `"`
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path == "/healthz" {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.AllowedReferer(req.Referer()) {
		http.Error(w, "Alien detected", http.StatusBadRequest)
		return
	}
	p, err := outfit.ParseRequest(req.URL.Path, req.URL.Query())
	if err != nil {
		s.fail(w, req, err)
		return
	}

	key, etag := ETag(p, s.generation.Load())
	match := req.Header.Get("If-None-Match")
	notModified := match != "" && strings.Contains(match, etag)

	// a cached response proves the bundles existed in this generation;
	// otherwise they are looked up before any 304 goes out
	res, ok := s.responses.Get(key)
	if !ok {
		outfitArc, mountArc, err := api.LoadArchives(req.Context(), s.archives, p)
		if err != nil {
			s.fail(w, req, err)
			return
		}
		if notModified {
			s.notModified(w, etag)
			return
		}
		start := time.Now()
		res, err = api.RenderArchives(req.Context(), s.renderer, p, outfitArc, mountArc)
		if err != nil {
			s.fail(w, req, err)
			return
		}
		s.responses.Add(key, res)
		s.logger.Debug("rendered", "key", p.CacheKey(), "bytes", len(res.Body), "took", time.Since(start))
	} else if notModified {
		s.notModified(w, etag)
		return
	}

	h := w.Header()
	h.Set("Content-Type", res.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(res.Body)))
	h.Set("Cache-Control", s.cacheControl)
	h.Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodGet {
		_, _ = w.Write(res.Body)
	}
}

func (s *Server) notModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", s.cacheControl)
	w.WriteHeader(http.StatusNotModified)
}

func (s *Server) fail(w http.ResponseWriter, req *http.Request, err error) {
	if errors.Is(err, context.Canceled) && req.Context().Err() != nil {
		s.logger.Debug("request cancelled", "path", req.URL.Path)
		return
	}
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "path", req.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", req.URL.Path, "status", status, "err", err)
	}
	http.Error(w, msg, status)
}

// Status maps a parse or render error to an HTTP status and a short body.
func Status(err error) (int, string) {
	var nf *api.NotFoundError
	switch {
	case errors.Is(err, outfit.ErrInvalidParams):
		return http.StatusBadRequest, "Invalid parameters"
	case errors.As(err, &nf) && errors.Is(err, outfit.ErrNotFound):
		return http.StatusNotFound, nf.Kind + " not found"
	case errors.Is(err, outfit.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, outfit.ErrMissingBaseAsset):
		return http.StatusNotFound, "Sprite not found"
	case errors.Is(err, outfit.ErrMissingMetadata):
		return http.StatusNotFound, "Animation not found"
	}
	return http.StatusInternalServerError, "Something strange happened"
}
