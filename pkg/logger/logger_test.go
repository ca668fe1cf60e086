package logger_test

import (
	"context"
	"testing"

	"github.com/okian/clout/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging at each level", func() {
			l := logger.Get()

			Convey("Then no call panics", func() {
				So(func() {
					l.Debug(ctx, "debug message", logger.String("k", "v"))
					l.Info(ctx, "info message", logger.Int("n", 1))
					l.Warn(ctx, "warn message", logger.Float64("f", 1.5))
					l.Error(ctx, "error message", logger.Any("x", struct{}{}))
				}, ShouldNotPanic)
			})
		})

		Convey("When creating a named sub-logger", func() {
			named := logger.Named("scoring")

			Convey("Then it logs without panicking", func() {
				So(func() { named.Info(ctx, "named log") }, ShouldNotPanic)
			})
		})

		Convey("When parsing level strings", func() {
			Convey("Then known levels are accepted", func() {
				for _, lvl := range []string{"debug", "info", "WARN", "warning", "Error", ""} {
					So(logger.SetLevelString(lvl), ShouldBeNil)
				}
			})

			Convey("Then unknown levels are rejected", func() {
				So(logger.SetLevelString("verbose"), ShouldNotBeNil)
			})
		})
	})
}
