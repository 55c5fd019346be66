package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/okian/pitchlane/internal/app"
	"github.com/okian/pitchlane/internal/config"
	"github.com/okian/pitchlane/internal/domain/model"
	"github.com/okian/pitchlane/internal/domain/transition"
	"github.com/okian/pitchlane/internal/synthmatch"
	"github.com/okian/pitchlane/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

var ignoreRunMeta = cmp.Options{
	cmpopts.IgnoreFields(app.Report{}, "RunID", "StartedAt", "Duration"),
	cmpopts.IgnoreUnexported(app.Report{}),
}

func frameNums(results []model.PairingResult) []int {
	nums := make([]int, 0, len(results))
	for _, r := range results {
		nums = append(nums, r.FrameNum)
	}
	return nums
}

func TestAnalyzerRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given the default synthetic match", t, func() {
		frames := synthmatch.Generate()

		Convey("When analysing the windows around each restart", func() {
			a := app.New(app.WithWorkerCount(4))
			rep, err := a.Run(ctx, frames)

			Convey("Then each possession change on restart should be reported", func() {
				So(err, ShouldBeNil)
				So(rep.RunID, ShouldNotBeEmpty)
				So(rep.FramesRead, ShouldEqual, 250)
				So(rep.FramesKept, ShouldEqual, 250)
				So(rep.Events, ShouldHaveLength, 4)
				So(rep.Windows, ShouldHaveLength, 4)
			})

			Convey("Then three preceding frames should join each event frame", func() {
				for _, w := range rep.Windows {
					e := w.Event.FrameNum
					So(w.FrameNums, ShouldResemble, []int{e - 3, e - 2, e - 1, e})
				}
				So(rep.Windows[0].FrameNums, ShouldResemble, []int{48, 49, 50, 51})
				So(rep.Pairings, ShouldHaveLength, 16)
			})

			Convey("Then every analysed frame should drop one outlier pair", func() {
				for _, p := range rep.Pairings {
					So(p.Pairs, ShouldHaveLength, 10)
				}
				So(rep.Interceptions, ShouldHaveLength, 16)
			})

			Convey("Then the ball distance means should cover both teams' nearest players", func() {
				So(rep.MeanDistances, ShouldHaveLength, 16)
				for _, m := range rep.MeanDistances {
					So(m.Count, ShouldEqual, 10)
					So(m.MeanDistance, ShouldBeGreaterThan, 0.0)
				}
			})

			Convey("Then the report should be the latest one", func() {
				So(a.Latest(), ShouldPointTo, rep)
			})
		})

		Convey("When the windows are cleaned to alive frames", func() {
			a := app.New(app.WithDetector(transition.NewDetector(transition.WithAliveOnly(true))))
			rep, err := a.Run(ctx, frames)

			Convey("Then only the restart frame should survive the dead stoppage", func() {
				So(err, ShouldBeNil)
				for _, w := range rep.Windows {
					So(w.FrameNums, ShouldResemble, []int{w.Event.FrameNum})
				}
				So(frameNums(rep.Pairings), ShouldResemble, []int{51, 101, 151, 201})
			})
		})

		Convey("When the analyzer is built from the default configuration", func() {
			for _, size := range []int{1, 3, 10} {
				cfg := config.New()
				cfg.WindowSizeFrames = size
				rep, err := app.New(app.OptionsFromConfig(cfg)...).Run(ctx, frames)

				Convey(fmt.Sprintf("Then a window size of %d should add that many preceding frames", size), func() {
					So(err, ShouldBeNil)
					So(rep.Windows, ShouldHaveLength, 4)
					for _, w := range rep.Windows {
						So(w.FrameNums, ShouldHaveLength, size+1)
						So(w.FrameNums[size], ShouldEqual, w.Event.FrameNum)
						So(w.FrameNums[0], ShouldEqual, w.Event.FrameNum-size)
					}
					So(rep.Pairings, ShouldHaveLength, 4*(size+1))
				})
			}
		})

		Convey("When analysing every frame", func() {
			rep, err := app.New(app.WithScope(config.ScopeAll)).Run(ctx, frames)

			Convey("Then all frames should be analysed in frame order", func() {
				So(err, ShouldBeNil)
				So(rep.Windows, ShouldBeEmpty)
				So(rep.Pairings, ShouldHaveLength, 250)
				nums := frameNums(rep.Pairings)
				for i := 1; i < len(nums); i++ {
					So(nums[i], ShouldBeGreaterThan, nums[i-1])
				}
				So(rep.Warnings.UnobstructedFrames+len(rep.Obstructions), ShouldEqual, 250)
			})
		})

		Convey("When the same frames are analysed with different worker counts", func() {
			one, err1 := app.New(app.WithWorkerCount(1), app.WithScope(config.ScopeAll)).Run(ctx, frames)
			many, err2 := app.New(app.WithWorkerCount(8), app.WithScope(config.ScopeAll)).Run(ctx, frames)

			Convey("Then the reports should be identical apart from run metadata", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(cmp.Diff(one, many, ignoreRunMeta), ShouldBeEmpty)
				So(one.RunID, ShouldNotEqual, many.RunID)
			})
		})
	})

	Convey("Given a match with ball-less and repeated frames", t, func() {
		frames := synthmatch.Generate(
			synthmatch.WithFrames(100),
			synthmatch.WithMissingBallEvery(10),
			synthmatch.WithDuplicateEvery(25),
		)

		Convey("When analysing it", func() {
			rep, err := app.New().Run(ctx, frames)

			Convey("Then bad frames should be skipped and counted without failing the run", func() {
				So(err, ShouldBeNil)
				So(rep.FramesRead, ShouldEqual, 104)
				// Frames 50 and 100 lose the ball before being repeated.
				So(rep.Warnings.MalformedFrames, ShouldEqual, 12)
				So(rep.Warnings.MalformedByReason[model.ReasonMissingBall], ShouldEqual, 12)
				So(rep.Warnings.DuplicateFrames, ShouldEqual, 2)
				So(rep.FramesKept, ShouldEqual, 90)
			})

			Convey("Then the remaining restart should still be detected", func() {
				So(rep.Events, ShouldHaveLength, 1)
				So(rep.Events[0].FrameNum, ShouldEqual, 51)
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		a := app.New(app.WithScope(config.ScopeAll))

		Convey("When running an analysis", func() {
			rep, err := a.Run(cctx, synthmatch.Generate(synthmatch.WithFrames(50)))

			Convey("Then the run should abort without a report", func() {
				So(rep, ShouldBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(a.Latest(), ShouldBeNil)
			})
		})
	})

	Convey("Given a stream with no possession change", t, func() {
		frames := synthmatch.Generate(synthmatch.WithFrames(30))

		Convey("When analysing windows", func() {
			rep, err := app.New().Run(ctx, frames)

			Convey("Then the report should be empty but valid", func() {
				So(err, ShouldBeNil)
				So(rep.Events, ShouldBeEmpty)
				So(rep.Pairings, ShouldBeEmpty)
				So(rep.Obstructions, ShouldBeEmpty)
			})
		})
	})
}

// recordingLogger keeps the fields of every entry and the names it was given.
type recordingLogger struct {
	mu      sync.Mutex
	entries [][]logger.Field
	names   []string
}

func (l *recordingLogger) record(fields []logger.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fields)
}

func (l *recordingLogger) Info(_ context.Context, _ string, f ...logger.Field)  { l.record(f) }
func (l *recordingLogger) Error(_ context.Context, _ string, f ...logger.Field) { l.record(f) }
func (l *recordingLogger) Debug(_ context.Context, _ string, f ...logger.Field) { l.record(f) }
func (l *recordingLogger) Warn(_ context.Context, _ string, f ...logger.Field)  { l.record(f) }
func (l *recordingLogger) Fatal(_ context.Context, _ string, f ...logger.Field) { l.record(f) }

func (l *recordingLogger) Named(name string) logger.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
	return l
}

func TestAnalyzerRunLogging(t *testing.T) {
	Convey("Given an analyzer with a recording logger", t, func() {
		rec := &recordingLogger{}
		a := app.New(app.WithLogger(rec))

		Convey("When a run skips a malformed frame", func() {
			frames := synthmatch.Generate(synthmatch.WithFrames(60), synthmatch.WithMissingBallEvery(20))
			rep, err := a.Run(context.Background(), frames)
			So(err, ShouldBeNil)

			Convey("Then every entry should carry the run id as a field", func() {
				So(len(rec.entries), ShouldBeGreaterThan, 2)
				for _, fields := range rec.entries {
					So(fields, ShouldContain, logger.String("run_id", rep.RunID))
				}
			})

			Convey("Then the run id should not become a logger name", func() {
				So(rec.names, ShouldNotContain, rep.RunID)
			})
		})
	})
}

func TestAnalyzerStats(t *testing.T) {
	Convey("Given a new analyzer", t, func() {
		a := app.New(app.WithWorkerCount(2))

		Convey("Then stats should report it is not ready", func() {
			stats := a.GetStats()
			So(stats["ready"], ShouldEqual, false)
			So(stats["worker_count"], ShouldEqual, 2)
			So(stats["predicate"], ShouldEqual, string(transition.DeadToAlive))
		})

		Convey("When a run finishes", func() {
			rep, err := a.Run(context.Background(), synthmatch.Generate())
			So(err, ShouldBeNil)

			Convey("Then stats should describe the run", func() {
				stats := a.GetStats()
				So(stats["ready"], ShouldEqual, true)
				So(stats["run_id"], ShouldEqual, rep.RunID)
				So(stats["events"], ShouldEqual, 4)
				So(stats["analysed_frames"], ShouldEqual, 16)
			})
		})
	})
}

func TestOptionsFromConfig(t *testing.T) {
	Convey("Given a configuration with non-default choices", t, func() {
		cfg := config.New()
		cfg.Scope = config.ScopeAll
		cfg.TransitionPredicate = string(transition.AliveToAlive)
		cfg.WorkerCount = 3

		Convey("When building an analyzer from it", func() {
			a := app.New(app.OptionsFromConfig(cfg)...)

			Convey("Then the choices should be applied", func() {
				stats := a.GetStats()
				So(stats["scope"], ShouldEqual, config.ScopeAll)
				So(stats["worker_count"], ShouldEqual, 3)
				So(stats["predicate"], ShouldEqual, string(transition.AliveToAlive))
			})
		})
	})
}

func TestNewFromConfig(t *testing.T) {
	Convey("Given configurations a library caller might build", t, func() {
		Convey("When the configuration is valid", func() {
			cfg := config.New()
			cfg.WorkerCount = 2
			a, err := app.NewFromConfig(cfg)

			Convey("Then the analyzer should be built", func() {
				So(err, ShouldBeNil)
				So(a.GetStats()["worker_count"], ShouldEqual, 2)
			})
		})

		Convey("When the window size or radius constant is invalid", func() {
			zeroWindow := config.New()
			zeroWindow.WindowSizeFrames = 0
			negativeRadius := config.New()
			negativeRadius.InterceptionRadiusConstant = -1

			Convey("Then construction should fail instead of using defaults", func() {
				for _, cfg := range []*config.Config{zeroWindow, negativeRadius} {
					a, err := app.NewFromConfig(cfg)
					So(a, ShouldBeNil)
					So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
				}
			})
		})
	})
}
