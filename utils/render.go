package utils

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/gunzino/tibia-outfit-worker/api"
	"github.com/gunzino/tibia-outfit-worker/codec"
	"github.com/gunzino/tibia-outfit-worker/outfit"
)

// ParseTarget turns a request such as "/animate/128?head=94&rotate=1" into
// render parameters.
func ParseTarget(target string) (outfit.Params, error) {
	u, err := url.Parse(target)
	if err != nil {
		return outfit.Params{}, fmt.Errorf("%w: %v", outfit.ErrInvalidParams, err)
	}
	return outfit.ParseRequest(u.Path, u.Query())
}

// RunRender renders target from the bundles in assetDir and writes the
// encoded result to outPath.
func RunRender(ctx context.Context, assetDir, target, outPath string) error {
	p, err := ParseTarget(target)
	if err != nil {
		return err
	}
	return renderToFile(ctx, assetDir, p, outPath)
}

// RunOutfit2GLB writes the still pose of target as a .glb model, whatever
// mode the target path names.
func RunOutfit2GLB(ctx context.Context, assetDir, target, outPath string) error {
	p, err := ParseTarget(target)
	if err != nil {
		return err
	}
	p.Mode = outfit.ModeModel
	return renderToFile(ctx, assetDir, p, outPath)
}

func renderToFile(ctx context.Context, assetDir string, p outfit.Params, outPath string) error {
	logger := slog.Default()
	store, err := outfit.NewStore(outfit.DirSource{Root: assetDir}, 2, logger)
	if err != nil {
		return err
	}
	res, err := api.Render(ctx, store, outfit.NewRenderer(codec.Decoder{}, logger), p)
	if err != nil {
		return err
	}
	fmt.Printf("Rendered %s (%s, %d bytes)\n", p.CacheKey(), res.ContentType, len(res.Body))
	return os.WriteFile(outPath, res.Body, 0o644)
}
