package outfit

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

// Animation is an ordered frame sequence ready for an animated encoder.
type Animation struct {
	Frames []*image.NRGBA
	// Durations holds the display time of each frame in milliseconds.
	Durations []int
	Width     int
	Height    int
}

// FrameSequence enumerates the per-frame parameters of an animation with
// frameCount frames. Rotating requests walk directions 1..4, each through
// every frame; others keep the requested direction.
func FrameSequence(p Params, frameCount int) []Params {
	dirs := []int{p.Direction}
	if p.Rotate {
		dirs = []int{1, 2, 3, 4}
	}
	seq := make([]Params, 0, len(dirs)*frameCount)
	for _, d := range dirs {
		for f := 1; f <= frameCount; f++ {
			fp := p
			fp.Direction = d
			fp.Animation = f
			seq = append(seq, fp)
		}
	}
	return seq
}

// Assemble renders every frame of the requested animation with at most
// Workers frames in flight. Output order follows FrameSequence exactly. A
// single-frame result is duplicated since animated containers need two.
func (r *Renderer) Assemble(ctx context.Context, p Params, outfitArc, mountArc Archive) (*Animation, error) {
	md, err := outfitArc.Metadata()
	if err != nil {
		return nil, err
	}
	count, err := md.Frames(p.Walk)
	if err != nil {
		return nil, err
	}
	duration := FrameDuration(count)
	seq := FrameSequence(p, count)

	frames := make([]*image.NRGBA, len(seq))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, fp := range seq {
		g.Go(func() error {
			img, err := r.RenderFrame(gctx, fp, outfitArc, mountArc)
			if err != nil {
				return fmt.Errorf("frame %d (direction %d, animation %d): %w", i, fp.Direction, fp.Animation, err)
			}
			frames[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	anim := &Animation{
		Frames:    frames,
		Durations: make([]int, len(frames)),
	}
	for i := range anim.Durations {
		anim.Durations[i] = duration
	}
	if len(anim.Frames) == 1 {
		anim.Frames = append(anim.Frames, anim.Frames[0])
		anim.Durations = append(anim.Durations, anim.Durations[0])
	}

	size := anim.Frames[0].Rect.Size()
	for i, f := range anim.Frames {
		if f.Rect.Size() != size {
			return nil, fmt.Errorf("%w: frame %d is %v, frame 0 is %v", ErrDimensionMismatch, i, f.Rect.Size(), size)
		}
	}
	anim.Width, anim.Height = size.X, size.Y
	return anim, nil
}
