package config_test

import (
	"testing"
	"time"

	"github.com/okian/clout/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given default configuration", t, func() {
		cfg := config.New()

		Convey("Then sensible defaults are set", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.SpotifyAPIURL, ShouldEqual, "https://api.spotify.com/v1")
			So(cfg.FetchConcurrency, ShouldBeGreaterThan, 0)
			So(cfg.MaxTracks, ShouldBeGreaterThan, 0)
			So(cfg.RateLimitPerMinute, ShouldBeGreaterThan, 0)
			So(cfg.TimeoutUntil, ShouldBeEmpty)
		})
	})
}

func TestTimeoutUntilTime(t *testing.T) {
	Convey("Given the timeout_until gate", t, func() {
		cfg := config.New()

		Convey("When unset", func() {
			Convey("Then the gate is disabled (zero time)", func() {
				ts, err := cfg.TimeoutUntilTime()
				So(err, ShouldBeNil)
				So(ts.IsZero(), ShouldBeTrue)
			})
		})

		Convey("When set to a valid RFC3339 instant", func() {
			cfg.TimeoutUntil = "2025-12-01T00:00:00Z"

			Convey("Then it parses", func() {
				ts, err := cfg.TimeoutUntilTime()
				So(err, ShouldBeNil)
				So(ts, ShouldEqual, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
			})
		})

		Convey("When set to garbage", func() {
			cfg.TimeoutUntil = "next tuesday"

			Convey("Then it fails with ErrInvalidConfig", func() {
				_, err := cfg.TimeoutUntilTime()
				So(err, ShouldEqual, config.ErrInvalidConfig)
			})
		})
	})
}
