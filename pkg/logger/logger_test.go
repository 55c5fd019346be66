package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the default initializer", t, func() {
		err := Init()
		So(err, ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then the global logger should be available", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
		})
	})

	Convey("Given an unknown output format", t, func() {
		err := InitWithOptions(Options{Format: "xml"})

		Convey("Then initialization should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithOptions(Options{Format: FormatJSON, Output: &buf}), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with typed fields", func() {
			Get().Warn(ctx, "frame rejected", Int("frame_num", 42), String("reason", "missing ball"), Bool("skipped", true))

			Convey("Then the record should carry every field and the caller", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "frame rejected")
				So(rec["level"], ShouldEqual, "WARN")
				So(rec["frame_num"], ShouldEqual, 42.0)
				So(rec["reason"], ShouldEqual, "missing ball")
				So(rec["skipped"], ShouldEqual, true)
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging through a named logger", func() {
			Named("pairing").Info(ctx, "paired", Int("pairs", 10))

			Convey("Then the fields should be grouped under the name", func() {
				So(buf.String(), ShouldContainSubstring, `"pairing":{`)
			})
		})

		Convey("When the level is raised above debug", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Debug(ctx, "hidden")
			Get().Info(ctx, "hidden too")

			Convey("Then nothing should be written", func() {
				So(strings.TrimSpace(buf.String()), ShouldBeEmpty)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then known levels should be accepted case-insensitively", func() {
			for _, lvl := range []string{"debug", "INFO", "", "warn", "Warning", "error"} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Then unknown levels should be rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
