package logger_test

import (
	"bytes"
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/arenalab/duelrank/pkg/logger"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized logger on a buffer", t, func() {
		ctx := context.Background()
		var buf bytes.Buffer
		So(logger.InitWithWriter(&buf), ShouldBeNil)
		So(logger.SetLevelString("info"), ShouldBeNil)
		log := logger.Get()

		Convey("When logging at info level", func() {
			log.Info(ctx, "pair served", logger.String("set", "films"), logger.Int("cursor", 3))
			out := buf.String()
			So(out, ShouldContainSubstring, "pair served")
			So(out, ShouldContainSubstring, "set=films")
			So(out, ShouldContainSubstring, "cursor=3")
		})

		Convey("When logging below the configured level", func() {
			log.Debug(ctx, "hidden")
			So(buf.String(), ShouldBeEmpty)

			Convey("And raising verbosity makes it visible", func() {
				So(logger.SetLevelString("debug"), ShouldBeNil)
				log.Debug(ctx, "visible")
				So(buf.String(), ShouldContainSubstring, "visible")
			})
		})

		Convey("When using a named logger", func() {
			logger.Named("api").Warn(ctx, "slow request", logger.Float64("ms", 120.5))
			out := buf.String()
			So(out, ShouldContainSubstring, "slow request")
			So(out, ShouldContainSubstring, "api.ms=120.5")
		})

		Convey("When carrying persistent fields", func() {
			log.With(logger.String("user", "ann")).Info(ctx, "sandbox toggled", logger.Bool("enabled", true))
			out := buf.String()
			So(out, ShouldContainSubstring, "user=ann")
			So(out, ShouldContainSubstring, "enabled=true")
		})

		Convey("When parsing level strings", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", "", "  INFO "} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
