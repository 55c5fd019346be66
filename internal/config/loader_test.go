package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/okian/pitchlane/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"PITCHLANE_CONFIG",
	"PITCHLANE_ADDR",
	"PITCHLANE_WORKER_COUNT",
	"PITCHLANE_QUEUE_SIZE",
	"PITCHLANE_WINDOW_SIZE_FRAMES",
	"PITCHLANE_INTERCEPTION_RADIUS_CONSTANT",
	"PITCHLANE_OUTLIER_PAIR_REMOVAL",
	"PITCHLANE_TRANSITION_PREDICATE",
	"PITCHLANE_LOG_FORMAT",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "pitchlane.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.WindowSizeFrames, convey.ShouldEqual, 3)
				convey.So(cfg.InterceptionRadiusConstant, convey.ShouldEqual, 0.8)
				convey.So(cfg.OutlierPairRemoval, convey.ShouldBeTrue)
				convey.So(cfg.PairingTieBreak, convey.ShouldEqual, "stable-by-input-order")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PITCHLANE_ADDR", ":8080")
			_ = os.Setenv("PITCHLANE_WORKER_COUNT", "16")
			_ = os.Setenv("PITCHLANE_WINDOW_SIZE_FRAMES", "5")
			_ = os.Setenv("PITCHLANE_INTERCEPTION_RADIUS_CONSTANT", "1.25")
			_ = os.Setenv("PITCHLANE_OUTLIER_PAIR_REMOVAL", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.WindowSizeFrames, convey.ShouldEqual, 5)
				convey.So(cfg.InterceptionRadiusConstant, convey.ShouldEqual, 1.25)
				convey.So(cfg.OutlierPairRemoval, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
queue_size: 512
scope: all
transition_predicate: alive_to_alive
outlier_pair_policy: drop_candidate
`)
			_ = os.Setenv("PITCHLANE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge the file over the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 512)
				convey.So(cfg.Scope, convey.ShouldEqual, config.ScopeAll)
				convey.So(cfg.TransitionPredicate, convey.ShouldEqual, "alive_to_alive")
				convey.So(cfg.OutlierPairPolicy, convey.ShouldEqual, "drop_candidate")
				convey.So(cfg.SamplingRateHz, convey.ShouldEqual, 25.0)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\nqueue_size: 512\n")
			_ = os.Setenv("PITCHLANE_CONFIG", tmpFile)
			_ = os.Setenv("PITCHLANE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 512)
			})
		})

		convey.Convey("When loading config with invalid YAML", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("PITCHLANE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-existent file", func() {
			_ = os.Setenv("PITCHLANE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the environment sets an invalid window size", func() {
			_ = os.Setenv("PITCHLANE_WINDOW_SIZE_FRAMES", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation should reject it before anything runs", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "window_size_frames")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
