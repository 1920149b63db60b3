package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gunzino/tibia-outfit-worker/codec"
	"github.com/gunzino/tibia-outfit-worker/outfit"
)

// Content types of the encoded results.
const (
	ContentTypePNG = "image/png"
	ContentTypeGIF = "image/gif"
	ContentTypeGLB = "model/gltf-binary"
)

// Result is an encoded render.
type Result struct {
	Body        []byte
	ContentType string
}

// Archives resolves bundle archives by entity id; *outfit.Store implements it.
type Archives interface {
	Get(ctx context.Context, id int) (outfit.Archive, error)
}

// NotFoundError names which bundle of a request is missing.
type NotFoundError struct {
	Kind string // "Outfit" or "Mount"
	ID   int
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Kind, e.ID, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func bundleError(kind string, id int, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, outfit.ErrNotFound):
		return &NotFoundError{Kind: kind, ID: id, Err: err}
	}
	return fmt.Errorf("%s %d: %w", strings.ToLower(kind), id, err)
}

// LoadArchives fetches the outfit archive and, when riding, the mount
// archive concurrently.
func LoadArchives(ctx context.Context, src Archives, p outfit.Params) (outfitArc, mountArc outfit.Archive, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		outfitArc, err = src.Get(gctx, p.ID)
		return bundleError("Outfit", p.ID, err)
	})
	if id := p.MountID(); id > 0 {
		g.Go(func() error {
			var err error
			mountArc, err = src.Get(gctx, id)
			return bundleError("Mount", id, err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return outfitArc, mountArc, nil
}

// Render loads the archives p needs from src and renders them.
func Render(ctx context.Context, src Archives, r *outfit.Renderer, p outfit.Params) (Result, error) {
	outfitArc, mountArc, err := LoadArchives(ctx, src, p)
	if err != nil {
		return Result{}, err
	}
	return RenderArchives(ctx, r, p, outfitArc, mountArc)
}

// RenderArchives renders p from already loaded archives: a PNG still, an
// animated GIF or a GLB model depending on p.Mode.
func RenderArchives(ctx context.Context, r *outfit.Renderer, p outfit.Params, outfitArc, mountArc outfit.Archive) (Result, error) {
	switch p.Mode {
	case outfit.ModeAnimate:
		anim, err := r.Assemble(ctx, p, outfitArc, mountArc)
		if err != nil {
			return Result{}, err
		}
		frames := codec.ScaleAll(anim.Frames, p.Scale)
		w, h := frames[0].Rect.Dx(), frames[0].Rect.Dy()
		body, err := codec.EncodeGIF(frames, anim.Durations, w, h)
		if err != nil {
			return Result{}, fmt.Errorf("encode gif: %w", err)
		}
		return Result{Body: body, ContentType: ContentTypeGIF}, nil
	case outfit.ModeModel:
		img, err := r.RenderStill(ctx, p, outfitArc, mountArc)
		if err != nil {
			return Result{}, err
		}
		body, err := FrameToGLB(img)
		if err != nil {
			return Result{}, fmt.Errorf("encode glb: %w", err)
		}
		return Result{Body: body, ContentType: ContentTypeGLB}, nil
	default:
		img, err := r.RenderStill(ctx, p, outfitArc, mountArc)
		if err != nil {
			return Result{}, err
		}
		body, err := codec.EncodePNG(codec.Scale(img, p.Scale))
		if err != nil {
			return Result{}, fmt.Errorf("encode png: %w", err)
		}
		return Result{Body: body, ContentType: ContentTypePNG}, nil
	}
}
