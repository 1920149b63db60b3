// Package config loads the outfit worker settings from an optional TOML file
// and the environment.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gunzino/tibia-outfit-worker/outfit"
)

// Environment variables overriding file values.
const (
	EnvAssetDir        = "OUTFIT_ASSET_DIR"
	EnvListen          = "OUTFIT_LISTEN"
	EnvAllowedReferers = "ALLOWED_REFERERS"
)

// DefaultCacheControl is sent with every rendered response.
const DefaultCacheControl = "public, max-age=2592000, immutable"

type Config struct {
	Listen            string   `toml:"listen"`
	AssetDir          string   `toml:"asset_dir"`
	ArchiveCacheSize  int      `toml:"archive_cache_size"`
	ResponseCacheSize int      `toml:"response_cache_size"`
	Workers           int      `toml:"workers"`
	AllowedReferers   []string `toml:"allowed_referers"`
	StrictMount       bool     `toml:"strict_mount"`
	WatchAssets       bool     `toml:"watch_assets"`
	LogLevel          string   `toml:"log_level"`
	CacheControl      string   `toml:"cache_control"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Listen:            ":8080",
		AssetDir:          "outfits_tar",
		ArchiveCacheSize:  outfit.DefaultStoreSize,
		ResponseCacheSize: 1024,
		LogLevel:          "info",
		CacheControl:      DefaultCacheControl,
	}
}

// Load layers the file at path (skipped when path is empty) and then the
// environment over Default, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAssetDir); ok && v != "" {
		c.AssetDir = v
	}
	if v, ok := lookup(EnvListen); ok && v != "" {
		c.Listen = v
	}
	if v, ok := lookup(EnvAllowedReferers); ok && v != "" {
		c.AllowedReferers = SplitList(v)
	}
}

// SplitList splits a comma separated list, dropping blank items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.AssetDir == "" {
		return fmt.Errorf("asset_dir must be set")
	}
	if c.ArchiveCacheSize <= 0 {
		return fmt.Errorf("archive_cache_size must be positive, got %d", c.ArchiveCacheSize)
	}
	if c.ResponseCacheSize <= 0 {
		return fmt.Errorf("response_cache_size must be positive, got %d", c.ResponseCacheSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel to a slog level.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", c.LogLevel)
}
