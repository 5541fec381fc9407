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

	"github.com/go-chi/chi/v5"
	"github.com/okian/hirematch/internal/adapters/cache"
	"github.com/okian/hirematch/internal/adapters/http/api"
	"github.com/okian/hirematch/internal/adapters/http/swagger"
	"github.com/okian/hirematch/internal/adapters/repository"
	service "github.com/okian/hirematch/internal/app"
	"github.com/okian/hirematch/internal/config"
	"github.com/okian/hirematch/internal/domain/scoring"
	"github.com/okian/hirematch/pkg/logger"
	"github.com/okian/hirematch/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 35 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	backendDialTimeout     = 10 * time.Second
	serviceMetricsInterval = 15 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("invalid log_format: " + err.Error() + "\n")
	}
	loggerInstance := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "server exited with error", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run wires the backends and serves HTTP until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error(ctx, "closing backends failed", logger.Error(err))
		}
	}()

	updaterCtx, stopUpdater := context.WithCancel(ctx)
	defer stopUpdater()
	go startServiceMetricsUpdater(updaterCtx, svc, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(svc, cfg, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.Store),
			logger.String("cache", cfg.Cache),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the store, cache and scorer named by cfg.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	dialCtx, cancel := context.WithTimeout(ctx, backendDialTimeout)
	defer cancel()

	store, err := newStore(dialCtx, cfg, log)
	if err != nil {
		return nil, err
	}
	c, err := newCache(dialCtx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return service.New(
		service.WithStore(store),
		service.WithCache(c),
		service.WithScorer(scoring.NewScorer(scoring.WithPolicy(cfg.Policy()))),
		service.WithLogger(log.Named("service")),
	), nil
}

func newStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		return repository.OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		var opts []repository.Option
		if cfg.SeedFile != "" {
			seed, err := repository.LoadSeed(cfg.SeedFile)
			if err != nil {
				return nil, err
			}
			opts = append(opts, repository.WithSeed(seed))
			log.Info(ctx, "seed loaded",
				logger.String("file", cfg.SeedFile),
				logger.Int("positions", len(seed.Positions)),
				logger.Int("candidates", len(seed.Candidates)),
			)
		}
		return repository.NewMemoryStore(opts...), nil
	}
}

func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache {
	case config.CacheRedis:
		return cache.DialRedis(ctx, cfg.RedisURL, cache.WithRedisTTL(cfg.CacheTTL()))
	case config.CacheMemory:
		return cache.NewMemoryCache(cache.WithMaxEntries(cfg.CacheSize), cache.WithTTL(cfg.CacheTTL())), nil
	default:
		return cache.Nop{}, nil
	}
}

// newHandler mounts the business API and the docs routes on one router.
func newHandler(svc *service.Service, cfg *config.Config, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	api.NewServer(svc, cfg.MaxMatchLimit, log.Named("api")).Register(r)
	swagger.Register(r)
	return r
}

// startServiceMetricsUpdater refreshes the store gauges until ctx ends.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service, log logger.Logger) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	updateServiceMetrics(ctx, svc, log)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc, log)
		}
	}
}

func updateServiceMetrics(ctx context.Context, svc *service.Service, log logger.Logger) {
	stats, err := svc.GetStats(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn(ctx, "stats unavailable", logger.Error(err))
		}
		return
	}
	metrics.UpdateStoreSize(stats.Candidates, stats.Positions)
}
