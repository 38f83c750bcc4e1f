// Package web wires the web command: configuration, the locale manifest,
// and the HTTP server.
package web

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/louisbranch/localegate/internal/platform/cmd"
	"github.com/louisbranch/localegate/internal/platform/i18n/manifest"
	"github.com/louisbranch/localegate/internal/platform/logging"
	"github.com/louisbranch/localegate/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr     string `env:"WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	ManifestPath string `env:"WEB_MANIFEST" envDefault:""`
	// LocalesDir overrides the manifest's locales directory.
	LocalesDir   string `env:"WEB_LOCALES_DIR" envDefault:""`
	LoadPoolSize int    `env:"WEB_LOAD_POOL_SIZE" envDefault:"8"`
	Logging      logging.Config
}

// ParseConfig reads LOCALEGATE_* env defaults and then flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := cmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.ManifestPath, "manifest", cfg.ManifestPath, "Locale manifest file (YAML or JSON)")
	fs.StringVar(&cfg.LocalesDir, "locales-dir", cfg.LocalesDir, "Directory holding locale files")
	fs.IntVar(&cfg.LoadPoolSize, "load-pool-size", cfg.LoadPoolSize, "Concurrent background locale loads")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Log level (debug, info, warn, error)")
	if err := cmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadManifest builds the locale manifest for cfg: the manifest file when
// one is named, then LOCALEGATE_* overrides, then command flags.
func LoadManifest(cfg Config) (*manifest.Manifest, error) {
	m := manifest.New()
	if path := strings.TrimSpace(cfg.ManifestPath); path != "" {
		loaded, err := manifest.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load manifest: %w", err)
		}
		m = loaded
	}
	if err := m.FromEnv(); err != nil {
		return nil, fmt.Errorf("manifest env: %w", err)
	}
	if dir := strings.TrimSpace(cfg.LocalesDir); dir != "" {
		m.LocalesDir = dir
	}
	return m, nil
}

// Run starts the web server and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger := logging.Setup(cmd.ServiceWeb, cfg.Logging)

	m, err := LoadManifest(cfg)
	if err != nil {
		return err
	}
	manifest.SetDefault(m)
	logger.Info("locale manifest loaded",
		slog.String("default_locale", m.DefaultLocale),
		slog.Any("locales", m.Locales),
		slog.String("locales_dir", m.LocalesDir),
	)

	server, err := web.NewServer(web.Config{
		HTTPAddr:     cfg.HTTPAddr,
		Manifest:     m,
		LoadPoolSize: cfg.LoadPoolSize,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}
