package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInit(t *testing.T) {
	Convey("Given the default options", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then the global logger is available", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})
	})

	Convey("Given an unknown format", t, func() {
		So(Init(WithFormat("xml")), ShouldNotBeNil)
	})
}

func TestTextOutput(t *testing.T) {
	Convey("Given a text logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging at info", func() {
			Get().Info(ctx, "raid logged", String("id", "r1"), Int("squad", 2))
			line := buf.String()

			Convey("Then fields and the calling file appear", func() {
				So(line, ShouldContainSubstring, "msg=\"raid logged\"")
				So(line, ShouldContainSubstring, "id=r1")
				So(line, ShouldContainSubstring, "squad=2")
				So(line, ShouldContainSubstring, "logger_test.go:")
			})
		})

		Convey("When logging below the level", func() {
			Get().Debug(ctx, "hidden")
			So(buf.String(), ShouldBeEmpty)

			Convey("And the level is lowered", func() {
				So(SetLevelString("DEBUG"), ShouldBeNil)
				Get().Debug(ctx, "shown")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When a named logger is used", func() {
			Named("store").Warn(ctx, "slow", Float64("ms", 12.5))
			So(buf.String(), ShouldContainSubstring, "store.ms=12.5")
		})
	})
}

func TestJSONOutput(t *testing.T) {
	Convey("Given a json logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("JSON"), WithWriter(&buf)), ShouldBeNil)

		Get().Error(context.Background(), "save failed", Error(errors.New("disk full")), Bool("retry", false))

		Convey("Then each line is a JSON object", func() {
			var rec map[string]any
			So(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec), ShouldBeNil)
			So(rec["msg"], ShouldEqual, "save failed")
			So(rec["level"], ShouldEqual, "ERROR")
			So(rec["error"], ShouldEqual, "disk full")
			So(rec["retry"], ShouldEqual, false)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error", " Error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
	})
}

func TestNop(t *testing.T) {
	Convey("Given a no-op logger", t, func() {
		l := Nop()
		So(func() {
			l.Info(context.Background(), "ignored")
			l.Named("x").Error(context.Background(), "ignored")
		}, ShouldNotPanic)
	})
}
