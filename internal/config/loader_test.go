package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/clout/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		ctx := context.Background()
		os.Unsetenv("CLOUT_CONFIG")
		os.Unsetenv("CLOUT_ADDR")
		os.Unsetenv("CLOUT_RATE_LIMIT_PER_MINUTE")

		Convey("When loading with no file and no env", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults come through", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.RateLimitPerMinute, ShouldEqual, 10)
			})
		})

		Convey("When env vars override defaults", func() {
			os.Setenv("CLOUT_ADDR", ":7070")
			os.Setenv("CLOUT_RATE_LIMIT_PER_MINUTE", "3")
			defer os.Unsetenv("CLOUT_ADDR")
			defer os.Unsetenv("CLOUT_RATE_LIMIT_PER_MINUTE")

			cfg, err := config.Load(ctx)

			Convey("Then env wins", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.RateLimitPerMinute, ShouldEqual, 3)
			})
		})

		Convey("When a YAML file is provided", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "clout.yaml")
			So(os.WriteFile(path, []byte("addr: \":6060\"\nmax_tracks: 50\n"), 0o600), ShouldBeNil)
			os.Setenv("CLOUT_CONFIG", path)
			defer os.Unsetenv("CLOUT_CONFIG")

			cfg, err := config.Load(ctx)

			Convey("Then file values override defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.MaxTracks, ShouldEqual, 50)
			})

			Convey("And env still overrides the file", func() {
				os.Setenv("CLOUT_ADDR", ":5050")
				defer os.Unsetenv("CLOUT_ADDR")

				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
			})
		})

		Convey("When the config is invalid", func() {
			os.Setenv("CLOUT_TIMEOUT_UNTIL", "not-a-timestamp")
			defer os.Unsetenv("CLOUT_TIMEOUT_UNTIL")

			_, err := config.Load(ctx)

			Convey("Then it fails with ErrInvalidConfig", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
