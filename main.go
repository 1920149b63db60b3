//go:build !(js && wasm)

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gunzino/tibia-outfit-worker/codec"
	"github.com/gunzino/tibia-outfit-worker/config"
	"github.com/gunzino/tibia-outfit-worker/outfit"
	"github.com/gunzino/tibia-outfit-worker/server"
	"github.com/gunzino/tibia-outfit-worker/utils"
)

func usage() {
	fmt.Println("Usage: outfitworker <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  serve [config.toml]                          (serve /static, /animate and /model over HTTP)")
	fmt.Println("  render asset_dir \"/animate/128?head=94\" out  (render one request to a file)")
	fmt.Println("  outfit2glb asset_dir \"/static/128\" out.glb   (export the still pose as a .glb model)")
	fmt.Println("  pack input_dir output.tar[.gz|.zst]          (bundle loose sprites and outfit_data.json)")
	fmt.Println("  unpack input.tar[.gz|.zst] output_dir        (extract a bundle into a directory)")
	fmt.Println("  inspect input.tar[.gz|.zst]                  (summarise a bundle)")
}

func fail(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "serve":
		if len(os.Args) > 3 {
			usage()
			os.Exit(1)
		}
		path := ""
		if len(os.Args) == 3 {
			path = os.Args[2]
		}
		cfg, err := config.Load(path)
		if err != nil {
			fail(err)
		}
		if err := serve(ctx, cfg); err != nil {
			fail(err)
		}
		return
	case "render":
		if len(os.Args) != 5 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunRender(ctx, os.Args[2], os.Args[3], os.Args[4]); err != nil {
			fail(err)
		}
	case "outfit2glb":
		if len(os.Args) != 5 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunOutfit2GLB(ctx, os.Args[2], os.Args[3], os.Args[4]); err != nil {
			fail(err)
		}
	case "pack":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		if err := utils.CreatePack(os.Args[2], os.Args[3]); err != nil {
			fail(err)
		}
	case "unpack":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		if err := utils.UnpackToDir(os.Args[2], os.Args[3]); err != nil {
			fail(err)
		}
	case "inspect":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunInspect(os.Args[2], os.Stdout); err != nil {
			fail(err)
		}
		return
	default:
		usage()
		os.Exit(1)
	}

	fmt.Println("Operation completed!")
}

func serve(ctx context.Context, cfg config.Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	src := outfit.DirSource{Root: cfg.AssetDir}
	store, err := outfit.NewStore(src, cfg.ArchiveCacheSize, logger)
	if err != nil {
		return err
	}
	renderer := outfit.NewRenderer(codec.Decoder{}, logger)
	renderer.Workers = cfg.Workers
	renderer.StrictMount = cfg.StrictMount

	srv, err := server.New(store, renderer, server.Options{
		AllowedReferers:   cfg.AllowedReferers,
		ResponseCacheSize: cfg.ResponseCacheSize,
		CacheControl:      cfg.CacheControl,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	if cfg.WatchAssets {
		go func() {
			err := src.Watch(ctx, func(id int) {
				store.Purge(id)
				srv.PurgeResponses()
			})
			if err != nil {
				logger.Error("asset watcher stopped", "err", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Listen, "assets", cfg.AssetDir)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
