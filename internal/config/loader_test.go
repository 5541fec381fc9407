package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/hirematch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
				convey.So(cfg.MaxMatchLimit, convey.ShouldEqual, 100)
				convey.So(cfg.SkillWeight, convey.ShouldEqual, 0.7)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HIREMATCH_ADDR", ":8080")
			_ = os.Setenv("HIREMATCH_MAX_MATCH_LIMIT", "25")
			_ = os.Setenv("HIREMATCH_CACHE", "none")
			_ = os.Setenv("HIREMATCH_SKILL_WEIGHT", "0.6")
			_ = os.Setenv("HIREMATCH_EXPERIENCE_WEIGHT", "0.4")
			_ = os.Setenv("HIREMATCH_SEED_FILE", "/data/seed.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxMatchLimit, convey.ShouldEqual, 25)
				convey.So(cfg.Cache, convey.ShouldEqual, config.CacheNone)
				convey.So(cfg.SkillWeight, convey.ShouldEqual, 0.6)
				convey.So(cfg.ExperienceWeight, convey.ShouldEqual, 0.4)
				convey.So(cfg.SeedFile, convey.ShouldEqual, "/data/seed.yaml")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "hirematch.yaml")
			content := `
addr: ":7070"
store: postgres
database_url: "postgres://db/hirematch"
cache_ttl_seconds: 60
log_format: json
`
			convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("HIREMATCH_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load values from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Store, convey.ShouldEqual, config.StorePostgres)
				convey.So(cfg.DatabaseURL, convey.ShouldEqual, "postgres://db/hirematch")
				convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 60)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.CacheSize, convey.ShouldEqual, 1024)
			})

			convey.Convey("Then environment variables take precedence over the file", func() {
				_ = os.Setenv("HIREMATCH_ADDR", ":6060")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("HIREMATCH_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the loaded values are invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("HIREMATCH_SKILL_WEIGHT", "0.9")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, name := range []string{
		"HIREMATCH_CONFIG",
		"HIREMATCH_ADDR",
		"HIREMATCH_MAX_MATCH_LIMIT",
		"HIREMATCH_CACHE",
		"HIREMATCH_SKILL_WEIGHT",
		"HIREMATCH_EXPERIENCE_WEIGHT",
		"HIREMATCH_SEED_FILE",
	} {
		_ = os.Unsetenv(name)
	}
}
