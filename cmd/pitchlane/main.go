package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/pitchlane/internal/adapters/http/api"
	"github.com/okian/pitchlane/internal/adapters/http/swagger"
	"github.com/okian/pitchlane/internal/adapters/tabular"
	"github.com/okian/pitchlane/internal/app"
	"github.com/okian/pitchlane/internal/config"
	"github.com/okian/pitchlane/internal/domain/model"
	"github.com/okian/pitchlane/internal/synthmatch"
	"github.com/okian/pitchlane/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

// run loads configuration, serves the read API and analyses the configured
// frames once. It returns when ctx ends.
func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitWithOptions(logger.Options{Format: logger.Format(cfg.LogFormat)}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	frames, err := loadFrames(ctx, cfg, log)
	if err != nil {
		return err
	}

	analyzer, err := app.NewFromConfig(cfg, app.WithLogger(log.Named("analyzer")))
	if err != nil {
		return fmt.Errorf("failed to build analyzer: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(analyzer),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Report routes answer 503 until the analysis below finishes.
	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if _, err := analyzer.Run(ctx, frames); err != nil && ctx.Err() == nil {
		log.Error(ctx, "analysis failed", logger.Error(err))
	}

	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// loadFrames reads frames_path, or generates a synthetic match when no path
// is configured.
func loadFrames(ctx context.Context, cfg *config.Config, log logger.Logger) ([]model.TrackingFrame, error) {
	if cfg.FramesPath == "" {
		log.Info(ctx, "no frames_path configured; analysing a synthetic match")
		return synthmatch.Generate(), nil
	}
	frames, err := tabular.ReadFile(cfg.FramesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read frames: %w", err)
	}
	log.Info(ctx, "frames loaded", logger.String("path", cfg.FramesPath), logger.Int("frames", len(frames)))
	return frames, nil
}

// newMux registers the read API and its docs.
func newMux(analyzer *app.Analyzer) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(mux)
	api.NewServer(analyzer, analyzer).Register(mux)
	return mux
}
