package outfit

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Layer ids used in sprite entry names.
const (
	LayerBase   = 1
	LayerAddon1 = 2
	LayerAddon2 = 3
)

// addonLayers pairs each addon bit with the layer it draws.
var addonLayers = [...]struct {
	bit   int
	layer int
}{
	{1, LayerAddon1},
	{2, LayerAddon2},
}

// SpriteName returns the archive entry of the sprite for a pose key.
func SpriteName(walk, animation, mountState, layer, direction int) string {
	return fmt.Sprintf("%d_%d_%d_%d_%d.png", walk, animation, mountState, layer, direction)
}

// MaskName returns the archive entry of the recolour mask for a pose key.
func MaskName(walk, animation, mountState, layer, direction int) string {
	return fmt.Sprintf("%d_%d_%d_%d_%d_template.png", walk, animation, mountState, layer, direction)
}

// Decoder turns an archive entry into an image.
type Decoder interface {
	Decode(data []byte) (image.Image, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(data []byte) (image.Image, error)

func (f DecoderFunc) Decode(data []byte) (image.Image, error) { return f(data) }

// Renderer composites outfit frames out of bundle archives. A zero Workers
// value uses one worker per CPU.
type Renderer struct {
	Decoder Decoder
	// Workers bounds how many frames of an animation render at once.
	Workers int
	// StrictMount makes a missing mount sprite fatal instead of falling
	// back to the outfit alone.
	StrictMount bool
	Logger      *slog.Logger
}

// NewRenderer returns a Renderer using dec with default settings.
func NewRenderer(dec Decoder, logger *slog.Logger) *Renderer {
	return &Renderer{Decoder: dec, Logger: logger}
}

func (r *Renderer) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Renderer) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.NumCPU()
}

// load decodes the named entry. An absent entry yields nil without error.
// Decode failures are fatal for required layers and skipped otherwise.
func (r *Renderer) load(arc Archive, name string, required bool) (*image.NRGBA, error) {
	data, ok := arc.Get(name)
	if !ok {
		return nil, nil
	}
	img, err := r.Decoder.Decode(data)
	if err != nil {
		if required {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		r.log().Debug("skipping undecodable layer", "entry", name, "err", err)
		return nil, nil
	}
	return ToNRGBA(img), nil
}

// loadPair loads a sprite and, when wantMask is set, its mask concurrently.
func (r *Renderer) loadPair(ctx context.Context, arc Archive, walk, anim, state, layer, dir int, required, wantMask bool) (sprite, mask *image.NRGBA, err error) {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sprite, err = r.load(arc, SpriteName(walk, anim, state, layer, dir), required)
		return err
	})
	if wantMask {
		g.Go(func() error {
			var err error
			mask, err = r.load(arc, MaskName(walk, anim, state, layer, dir), false)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sprite, mask, nil
}

// RenderFrame composites one animation frame: the base sprite, its addon
// layers, palette recolouring and, when riding, the mount underneath.
func (r *Renderer) RenderFrame(ctx context.Context, p Params, outfitArc, mountArc Archive) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state := p.MountState()
	base, mask, err := r.loadPair(ctx, outfitArc, p.Walk, p.Animation, state, LayerBase, p.Direction, true, true)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingBaseAsset, SpriteName(p.Walk, p.Animation, state, LayerBase, p.Direction))
	}

	if err := r.applyAddons(ctx, p, outfitArc, state, base, mask); err != nil {
		return nil, err
	}
	if mask != nil {
		if err := Recolor(mask, base, p.Colors); err != nil {
			return nil, fmt.Errorf("recolor outfit: %w", err)
		}
	}
	if state != 2 {
		return base, nil
	}

	mountImg, mountMask, err := r.loadPair(ctx, mountArc, p.Walk, p.Animation, 1, LayerBase, p.Direction, true, true)
	if err != nil {
		return nil, err
	}
	if mountImg == nil {
		name := SpriteName(p.Walk, p.Animation, 1, LayerBase, p.Direction)
		if r.StrictMount {
			return nil, fmt.Errorf("%w: mount %d %s", ErrMissingBaseAsset, p.MountID(), name)
		}
		r.log().Warn("cannot find mount image", "mount", p.MountID(), "entry", name)
		return base, nil
	}
	if mountMask != nil {
		if err := Recolor(mountMask, mountImg, p.MountColors); err != nil {
			return nil, fmt.Errorf("recolor mount: %w", err)
		}
	}
	if err := Overlay(mountImg, base); err != nil {
		return nil, fmt.Errorf("overlay outfit on mount: %w", err)
	}
	return mountImg, nil
}

// applyAddons loads every requested addon layer concurrently, then overlays
// them in layer order onto base (and their masks onto mask, when present).
// Missing addon sprites are skipped.
func (r *Renderer) applyAddons(ctx context.Context, p Params, arc Archive, state int, base, mask *image.NRGBA) error {
	type loaded struct{ sprite, mask *image.NRGBA }
	var layers [len(addonLayers)]loaded

	g, gctx := errgroup.WithContext(ctx)
	for i, a := range addonLayers {
		if p.Addons&a.bit == 0 {
			continue
		}
		g.Go(func() error {
			s, m, err := r.loadPair(gctx, arc, p.Walk, p.Animation, state, a.layer, p.Direction, false, mask != nil)
			layers[i] = loaded{s, m}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, l := range layers {
		if l.sprite != nil {
			if err := Overlay(base, l.sprite); err != nil {
				return fmt.Errorf("addon layer %d: %w", addonLayers[i].layer, err)
			}
		}
		if mask != nil && l.mask != nil {
			if err := Overlay(mask, l.mask); err != nil {
				return fmt.Errorf("addon mask %d: %w", addonLayers[i].layer, err)
			}
		}
	}
	return nil
}

// RenderStill renders the idle pose (walk state 0) as a single image.
func (r *Renderer) RenderStill(ctx context.Context, p Params, outfitArc, mountArc Archive) (*image.NRGBA, error) {
	p.Walk = 0
	return r.RenderFrame(ctx, p, outfitArc, mountArc)
}
