package synthmatch_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/pitchlane/internal/domain/model"
	"github.com/okian/pitchlane/internal/domain/transition"
	"github.com/okian/pitchlane/internal/synthmatch"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given the default synthetic match", t, func() {
		frames := synthmatch.Generate()

		Convey("Then every frame should be valid and numbered in order", func() {
			So(frames, ShouldHaveLength, 250)
			for i, f := range frames {
				So(f.FrameNum, ShouldEqual, i+1)
				So(f.Validate(), ShouldBeNil)
				So(f.Players, ShouldHaveLength, 22)
			}
		})

		Convey("Then generation should be deterministic", func() {
			So(cmp.Diff(frames, synthmatch.Generate()), ShouldBeEmpty)
		})

		Convey("Then a different seed should move the players", func() {
			other := synthmatch.Generate(synthmatch.WithSeed(99))
			So(cmp.Equal(frames, other), ShouldBeFalse)
		})

		Convey("Then each restart after the first phase should change possession", func() {
			events := transition.NewDetector().Detect(frames)
			// 250 frames of 40 alive + 10 dead give four restarts.
			So(events, ShouldHaveLength, 4)
			So(events[0].FrameNum, ShouldEqual, 51)
			So(events[0].FromPossession, ShouldEqual, model.Home)
			So(events[0].ToPossession, ShouldEqual, model.Away)
		})
	})

	Convey("Given a match with injected defects", t, func() {
		frames := synthmatch.Generate(
			synthmatch.WithFrames(20),
			synthmatch.WithPlayersPerSide(3),
			synthmatch.WithMissingBallEvery(5),
			synthmatch.WithDuplicateEvery(10),
		)

		Convey("Then duplicates and ball-less frames should be present", func() {
			So(frames, ShouldHaveLength, 22)
			So(frames[4].Ball, ShouldBeNil)
			So(frames[10].FrameNum, ShouldEqual, frames[9].FrameNum)
			So(frames[0].Players, ShouldHaveLength, 6)
		})
	})
}
