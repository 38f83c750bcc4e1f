package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/louisbranch/localegate/internal/platform/i18n/intlstate"
	"github.com/louisbranch/localegate/internal/platform/i18n/localeutil"
	"github.com/louisbranch/localegate/internal/platform/i18n/manifest"
	"github.com/louisbranch/localegate/internal/platform/logging"
	"github.com/louisbranch/localegate/internal/platform/timeouts"
	"github.com/louisbranch/localegate/internal/services/shared/i18nhttp"
	"github.com/louisbranch/localegate/internal/services/web/localeassets"
	"github.com/louisbranch/localegate/internal/services/web/platform/httpx"
	"github.com/louisbranch/localegate/internal/services/web/platform/pagerender"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultLocalesDir is used when the manifest names no locales directory.
const DefaultLocalesDir = "public/locales"

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// Manifest defaults to manifest.Default().
	Manifest *manifest.Manifest
	// LoadPoolSize bounds concurrent background locale loads.
	LoadPoolSize int
	Logger       *slog.Logger
}

// Server hosts the web HTTP surface.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *intlstate.Store
	logger     *slog.Logger
}

// NewServer builds the status store and HTTP handler for cfg.
func NewServer(cfg Config) (*Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, errors.New("http address is required")
	}
	logger := logging.OrDefault(cfg.Logger)

	m := manifest.Default()
	if cfg.Manifest != nil {
		m = cfg.Manifest
	}
	resolved := *m
	if resolved.LocalesDir == "" {
		resolved.LocalesDir = DefaultLocalesDir
	}
	localesDir, err := filepath.Abs(resolved.LocalesDir)
	if err != nil {
		return nil, fmt.Errorf("resolve locales dir: %w", err)
	}
	resolved.LocalesDir = localesDir

	store, err := intlstate.NewStore(localeutil.New(&resolved), os.DirFS(filepath.Dir(localesDir)), intlstate.Options{
		PoolSize: cfg.LoadPoolSize,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init locale store: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(NewHandler(&resolved, store, logger), "web"),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return &Server{
		httpAddr:   cfg.HTTPAddr,
		httpServer: httpServer,
		store:      store,
		logger:     logger,
	}, nil
}

// NewHandler routes pages and locale files behind the locale middleware.
func NewHandler(m *manifest.Manifest, store *intlstate.Store, logger *slog.Logger) http.Handler {
	logger = logging.OrDefault(logger)
	p := newPages(m)
	renderOptions := pagerender.Options{Logger: logger}

	mux := http.NewServeMux()
	mux.Handle(m.LocalesPath+"/", localeassets.Handler(store, logger))
	mux.Handle("GET /{$}", pagerender.Handler(p.home, renderOptions))
	mux.Handle("GET /emails", pagerender.Handler(p.emails, renderOptions))
	return httpx.Chain(mux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		i18nhttp.Middleware(m, store),
	)
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Info("web listening", slog.String("addr", s.httpAddr))
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close waits for background locale loads and releases the load pool.
func (s *Server) Close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close locale store", slog.Any("error", err))
	}
}
