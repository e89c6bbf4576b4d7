package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldside/ultilog/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	ctx := context.Background()

	Convey("Given an initialized logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then the global logger is available", func() {
			So(logger.Get(), ShouldNotBeNil)
		})

		Convey("Then logging at each level does not panic", func() {
			log := logger.Get()
			So(func() {
				log.Debug(ctx, "debug message", logger.String("k", "v"))
				log.Info(ctx, "info message", logger.Int("count", 3))
				log.Warn(ctx, "warn message", logger.Bool("flag", true))
				log.Error(ctx, "error message", logger.Error(errors.New("boom")))
			}, ShouldNotPanic)
		})

		Convey("Then named loggers derive from the global one", func() {
			named := logger.Named("writer")
			So(named, ShouldNotBeNil)
			So(func() {
				named.Info(ctx, "named message", logger.Any("payload", map[string]int{"a": 1}))
			}, ShouldNotPanic)
		})

		Convey("Then Sync is a no-op", func() {
			So(logger.Sync(), ShouldBeNil)
		})
	})

	Convey("Given level parsing", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then known levels parse", func() {
			for _, level := range []string{"debug", "info", "warn", "warning", "error", "DEBUG", " info ", ""} {
				So(logger.SetLevelString(level), ShouldBeNil)
			}
		})

		Convey("Then unknown levels are rejected", func() {
			So(logger.SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}

func TestFields(t *testing.T) {
	Convey("Given the field constructors", t, func() {
		Convey("Then each carries its key and value", func() {
			So(logger.String("s", "v"), ShouldResemble, logger.Field{Key: "s", Value: "v"})
			So(logger.Int("n", 7), ShouldResemble, logger.Field{Key: "n", Value: 7})
			So(logger.Bool("b", true), ShouldResemble, logger.Field{Key: "b", Value: true})

			err := errors.New("boom")
			So(logger.Error(err), ShouldResemble, logger.Field{Key: "error", Value: err})
		})
	})
}
