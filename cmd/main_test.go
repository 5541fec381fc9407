package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/hirematch/internal/adapters/cache"
	"github.com/okian/hirematch/internal/adapters/repository"
	"github.com/okian/hirematch/internal/config"
	"github.com/okian/hirematch/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

var fixture = filepath.Join("..", "internal", "rankcli", "testdata", "candidates.yaml")

func TestBackendSelection(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When building the store without a seed", func() {
			store, err := newStore(ctx, cfg, logger.Nop())

			convey.Convey("Then it is an empty memory store", func() {
				convey.So(err, convey.ShouldBeNil)
				_, isMemory := store.(*repository.MemoryStore)
				convey.So(isMemory, convey.ShouldBeTrue)
				c, p, err := store.Count(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(c+p, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When a seed file is configured", func() {
			cfg.SeedFile = fixture
			store, err := newStore(ctx, cfg, logger.Nop())

			convey.Convey("Then the store is preloaded", func() {
				convey.So(err, convey.ShouldBeNil)
				c, p, _ := store.Count(ctx)
				convey.So(c, convey.ShouldEqual, 5)
				convey.So(p, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the seed file is missing", func() {
			cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")
			_, err := newStore(ctx, cfg, logger.Nop())

			convey.Convey("Then building fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When postgres is unreachable", func() {
			cfg.Store = config.StorePostgres
			cfg.DatabaseURL = "postgres://%zz"
			_, err := newStore(ctx, cfg, logger.Nop())

			convey.Convey("Then building fails as unavailable", func() {
				convey.So(errors.Is(err, repository.ErrStoreUnavailable), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When choosing each cache backend", func() {
			memory, err := newCache(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			_, isMemory := memory.(*cache.MemoryCache)
			convey.So(isMemory, convey.ShouldBeTrue)

			cfg.Cache = config.CacheNone
			none, err := newCache(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(none, convey.ShouldHaveSameTypeAs, cache.Nop{})

			cfg.Cache = config.CacheRedis
			cfg.RedisURL = "not a url"
			_, err = newCache(ctx, cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestHandler(t *testing.T) {
	convey.Convey("Given a service over the fixture", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.SeedFile = fixture
		svc, err := newService(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer func() { _ = svc.Close() }()

		h := newHandler(svc, cfg, logger.Nop())

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("Then API and docs routes share the router", func() {
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)

			w := get("/positions/11111111-1111-4111-8111-111111111111/matches?limit=1")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Ada Lovelace")
		})

		convey.Convey("Then the configured limit cap applies", func() {
			w := get("/positions/11111111-1111-4111-8111-111111111111/matches?limit=101")
			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			convey.So(strings.Contains(w.Body.String(), "limit_exceeded"), convey.ShouldBeTrue)
		})

		convey.Convey("When the metrics updater runs until cancelled", func() {
			runCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			convey.So(func() { startServiceMetricsUpdater(runCtx, svc, logger.Nop()) }, convey.ShouldNotPanic)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a server on a free port", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.ShutdownTimeoutSeconds = 1

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.Nop()) }()
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(3 * time.Second):
					convey.So("timeout", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When the address is unusable", func() {
			cfg.Addr = "256.0.0.1:bad"
			err := run(context.Background(), cfg, logger.Nop())

			convey.Convey("Then the listen error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
