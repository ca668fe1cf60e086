package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/clout/internal/adapters/cache"
	"github.com/okian/clout/internal/adapters/http/api"
	"github.com/okian/clout/internal/adapters/ratelimit"
	"github.com/okian/clout/internal/adapters/spotify"
	"github.com/okian/clout/internal/adapters/store"
	"github.com/okian/clout/internal/app"
	"github.com/okian/clout/internal/config"
	"github.com/okian/clout/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 60 * time.Second // analyses may take a while
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
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

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	timeoutUntil, err := cfg.TimeoutUntilTime()
	if err != nil {
		os.Stderr.WriteString("invalid timeout_until: " + err.Error() + "\n")
		return
	}

	historyStore, err := store.New(cfg.DBPath)
	if err != nil {
		os.Stderr.WriteString("failed to open history store: " + err.Error() + "\n")
		return
	}

	fetcher := spotify.NewClient(
		spotify.WithCredentials(cfg.SpotifyClientID, cfg.SpotifyClientSecret),
		spotify.WithAPIURL(cfg.SpotifyAPIURL),
		spotify.WithAuthURL(cfg.SpotifyAuthURL),
		spotify.WithMaxTracks(cfg.MaxTracks),
		spotify.WithConcurrency(cfg.FetchConcurrency),
		spotify.WithLogger(log),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithFetcher(fetcher),
		app.WithStore(historyStore),
		app.WithCache(cache.New(
			cache.WithMaxSize(cfg.CacheSize),
			cache.WithTTL(time.Duration(cfg.CacheTTLSeconds)*time.Second),
		)),
		app.WithLimiter(ratelimit.New(
			ratelimit.WithPerMinute(cfg.RateLimitPerMinute),
			ratelimit.WithTimeoutUntil(timeoutUntil),
		)),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	api.NewServer(svc, svc, cfg.HistoryLimit).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
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
