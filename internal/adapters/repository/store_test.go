package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/pitchlane/internal/adapters/repository"
	"github.com/okian/pitchlane/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func frame(num int) model.TrackingFrame {
	return model.TrackingFrame{
		FrameNum:   num,
		PlayStatus: model.Alive,
		Possession: model.Home,
		Ball:       &model.BallObservation{Position: model.Point{X: 1, Y: 2}},
		Players: []model.PlayerObservation{
			{PlayerID: "h1", TeamID: model.Home, Position: model.Point{X: 3, Y: 4}},
		},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty memory store", t, func() {
		s := repository.NewMemoryStore(repository.WithCapacity(8))

		Convey("When frames are appended out of numeric order", func() {
			for _, n := range []int{30, 10, 20} {
				So(s.Append(ctx, frame(n)), ShouldBeNil)
			}

			Convey("Then stream order should be preserved", func() {
				So(s.Len(ctx), ShouldEqual, 3)
				got := s.Frames(ctx)
				So([]int{got[0].FrameNum, got[1].FrameNum, got[2].FrameNum}, ShouldResemble, []int{30, 10, 20})
			})

			Convey("Then Select should follow the requested order and skip unknowns", func() {
				got := s.Select(ctx, []int{20, 99, 30})
				So(got, ShouldHaveLength, 2)
				So(got[0].FrameNum, ShouldEqual, 20)
				So(got[1].FrameNum, ShouldEqual, 30)
			})
		})

		Convey("When the same frame number arrives twice", func() {
			So(s.Append(ctx, frame(5)), ShouldBeNil)
			err := s.Append(ctx, frame(5))

			Convey("Then the second copy should be rejected", func() {
				So(errors.Is(err, repository.ErrDuplicateFrame), ShouldBeTrue)
				So(s.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the caller edits a frame after appending it", func() {
			f := frame(7)
			So(s.Append(ctx, f), ShouldBeNil)
			f.Players[0].Position.X = 100
			f.Ball.Position.X = 100

			Convey("Then the stored copy should be unchanged", func() {
				got := s.Select(ctx, []int{7})
				So(got, ShouldHaveLength, 1)
				So(got[0].Players[0].Position.X, ShouldEqual, 3.0)
				So(got[0].Ball.Position.X, ShouldEqual, 1.0)
			})
		})
	})
}
