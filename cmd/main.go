package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/arenalab/duelrank/internal/adapters/catalog"
	"github.com/arenalab/duelrank/internal/adapters/http/api"
	"github.com/arenalab/duelrank/internal/adapters/media"
	"github.com/arenalab/duelrank/internal/adapters/persistence"
	"github.com/arenalab/duelrank/internal/app"
	"github.com/arenalab/duelrank/internal/config"
	"github.com/arenalab/duelrank/internal/domain/scheduler"
	"github.com/arenalab/duelrank/pkg/logger"
	"github.com/arenalab/duelrank/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := persistence.NewFileStore(cfg.RatingsDir)
	if err != nil {
		os.Stderr.WriteString("failed to open ratings store: " + err.Error() + "\n")
		return
	}

	defaultStrategy, err := scheduler.ParseStrategy(cfg.DefaultStrategy)
	if err != nil {
		os.Stderr.WriteString("invalid default_strategy: " + err.Error() + "\n")
		return
	}

	lookup := media.NewDirLookup(cfg.MediaDir, "/media")
	svc := app.New(
		catalog.NewDirLoader(cfg.CatalogDir),
		store,
		lookup,
		app.WithLogger(log),
		app.WithKFactor(cfg.KFactor),
		app.WithInitialRating(cfg.InitialRating),
		app.WithDefaultStrategy(defaultStrategy),
	)

	go startSystemMetricsUpdater(ctx)

	apiServer := api.NewServer(svc,
		api.WithMaxRankingLimit(cfg.MaxRankingLimit),
		api.WithMediaDir(lookup.Dir()),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater updates process-level metrics periodically.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
