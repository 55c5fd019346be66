// Package app runs analyses over a recorded match: it validates and stores the
// frames, finds possession changes, fans per-frame pairing and interception
// work out to a worker pool and assembles the results into a Report.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pitchlane/internal/adapters/mq/queue"
	"github.com/okian/pitchlane/internal/adapters/mq/worker"
	"github.com/okian/pitchlane/internal/adapters/repository"
	"github.com/okian/pitchlane/internal/config"
	"github.com/okian/pitchlane/internal/domain/aggregate"
	"github.com/okian/pitchlane/internal/domain/interception"
	"github.com/okian/pitchlane/internal/domain/model"
	"github.com/okian/pitchlane/internal/domain/pairing"
	"github.com/okian/pitchlane/internal/domain/transition"
	"github.com/okian/pitchlane/pkg/logger"
	"github.com/okian/pitchlane/pkg/metrics"
)

// Analyzer runs analyses. It is safe to call Run from several goroutines; each
// run gets its own store, queue and pool.
type Analyzer struct {
	detector    *transition.Detector
	pairer      *pairing.Engine
	interceptor *interception.Engine

	windowSize  int
	scope       string
	referenceK  int
	workerCount int
	queueSize   int
	samplingHz  float64

	logger logger.Logger

	mu     sync.RWMutex
	latest *Report
}

// New constructs an Analyzer with default configuration.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		detector:    transition.NewDetector(),
		pairer:      pairing.NewEngine(),
		interceptor: interception.NewEngine(),
		windowSize:  transition.DefaultWindowSize,
		scope:       config.ScopeWindows,
		referenceK:  5,
		workerCount: runtime.NumCPU(),
		queueSize:   4096,
		samplingHz:  25,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Get().Named("analyzer")
	}
	return a
}

// Latest returns the report of the most recent successful run, or nil.
func (a *Analyzer) Latest() *Report {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

// GetStats summarises the latest report for the stats endpoint.
func (a *Analyzer) GetStats() map[string]any {
	rep := a.Latest()
	stats := map[string]any{
		"ready":        rep != nil,
		"scope":        a.scope,
		"worker_count": a.workerCount,
		"predicate":    string(a.detector.Predicate()),
	}
	if rep == nil {
		return stats
	}
	stats["run_id"] = rep.RunID
	stats["started_at"] = rep.StartedAt
	stats["duration_ms"] = rep.Duration.Milliseconds()
	stats["frames_read"] = rep.FramesRead
	stats["frames_kept"] = rep.FramesKept
	stats["events"] = len(rep.Events)
	stats["windows"] = len(rep.Windows)
	stats["analysed_frames"] = len(rep.Pairings)
	stats["obstructed_frames"] = len(rep.Obstructions)
	stats["warnings"] = rep.Warnings
	return stats
}

// Process analyses one frame. It implements worker.Processor.
func (a *Analyzer) Process(_ context.Context, f *model.TrackingFrame) (model.FrameAnalysis, error) {
	start := time.Now()
	res := model.FrameAnalysis{
		FrameNum:     f.FrameNum,
		Pairing:      a.pairer.PairFrame(f),
		Interception: a.interceptor.Detect(f),
		References:   pairing.ReferenceDistances(f, a.referenceK),
	}
	metrics.RecordFrameAnalyzed(
		len(res.Pairing.Pairs),
		len(res.Interception.Interceptors),
		float64(time.Since(start).Microseconds())/1000,
	)
	return res, nil
}

// Run analyses frames in stream order. Malformed and duplicate frames are
// logged, counted and skipped. The error is non-nil only when ctx ends or the
// run cannot be set up.
func (a *Analyzer) Run(ctx context.Context, frames []model.TrackingFrame) (*Report, error) {
	report := &Report{
		RunID:          uuid.NewString(),
		StartedAt:      time.Now(),
		FramesRead:     len(frames),
		Warnings:       Warnings{MalformedByReason: map[string]int{}},
		samplingRateHz: a.samplingHz,
	}
	runID := logger.String("run_id", report.RunID)
	a.logger.Info(ctx, "analysis started", runID, logger.Int("frames", len(frames)), logger.String("scope", a.scope))

	store := a.ingest(ctx, runID, frames, &report.Warnings)
	stream := store.Frames(ctx)
	report.FramesKept = store.Len(ctx)
	report.frames = stream

	report.Events = a.detector.Detect(stream)
	for _, ev := range report.Events {
		metrics.RecordPossessionEvent(string(ev.FromPossession), string(ev.ToPossession))
	}

	selection := stream
	if a.scope == config.ScopeWindows {
		windows, err := a.detector.Windows(stream, report.Events, a.windowSize)
		if err != nil {
			return nil, fmt.Errorf("build windows: %w", err)
		}
		report.Windows = windows
		metrics.RecordWindowsBuilt(len(windows))
		selection = store.Select(ctx, windowFrames(windows))
	}

	results, err := a.fanOut(ctx, selection)
	if err != nil {
		return nil, err
	}

	var refs []model.DistanceRecord
	report.Pairings = make([]model.PairingResult, 0, len(results))
	report.Interceptions = make([]model.InterceptionEvent, 0, len(results))
	for _, r := range results {
		report.Pairings = append(report.Pairings, r.Pairing)
		report.Interceptions = append(report.Interceptions, r.Interception)
		refs = append(refs, r.References...)
		if len(r.Pairing.Pairs) == 0 {
			report.Warnings.EmptyPairings++
		}
		if len(r.Interception.Interceptors) == 0 {
			report.Warnings.UnobstructedFrames++
		}
	}
	report.Obstructions = interception.Summarize(report.Interceptions)
	report.ObstructionsByTeam = aggregate.ObstructionCountsByTeam(report.Obstructions)
	report.MeanDistances = aggregate.MeanDistanceByFrame(refs)

	report.Duration = time.Since(report.StartedAt)
	metrics.RecordRunCompleted(report.Duration.Seconds(), len(selection), time.Now().UnixMilli())
	a.logger.Info(ctx, "analysis finished",
		runID,
		logger.Int("events", len(report.Events)),
		logger.Int("analysed_frames", len(results)),
		logger.Int("obstructed_frames", len(report.Obstructions)),
		logger.Int("malformed_frames", report.Warnings.MalformedFrames),
		logger.Int("duplicate_frames", report.Warnings.DuplicateFrames),
		logger.Duration("duration", report.Duration),
	)

	a.mu.Lock()
	a.latest = report
	a.mu.Unlock()
	return report, nil
}

// ingest validates frames and loads the good ones into a fresh store.
func (a *Analyzer) ingest(ctx context.Context, runID logger.Field, frames []model.TrackingFrame, w *Warnings) repository.FrameStore {
	store := repository.NewMemoryStore(repository.WithCapacity(len(frames)))
	for i := range frames {
		f := frames[i]
		if err := f.Validate(); err != nil {
			reason := "unknown"
			var fe *model.FrameError
			if errors.As(err, &fe) {
				reason = fe.Reason
			}
			w.MalformedFrames++
			w.MalformedByReason[reason]++
			metrics.RecordFrameMalformed(reason)
			a.logger.Warn(ctx, "skipping malformed frame",
				runID,
				logger.Int("frame_num", f.FrameNum),
				logger.String("reason", reason),
			)
			continue
		}
		if err := store.Append(ctx, f); err != nil {
			w.DuplicateFrames++
			a.logger.Warn(ctx, "skipping duplicate frame", runID, logger.Int("frame_num", f.FrameNum), logger.Error(err))
		}
	}
	return store
}

// windowFrames returns the distinct frame numbers of all windows in order of
// first appearance.
func windowFrames(windows []model.Window) []int {
	seen := make(map[int]struct{})
	var nums []int
	for _, w := range windows {
		for _, n := range w.FrameNums {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			nums = append(nums, n)
		}
	}
	return nums
}

// sink gathers worker results.
type sink struct {
	mu      sync.Mutex
	results []worker.Result
}

func (s *sink) Collect(_ context.Context, r worker.Result) {
	s.mu.Lock()
	s.results = append(s.results, r)
	s.mu.Unlock()
}

// fanOut analyses frames on the worker pool and returns the analyses sorted
// by frame number, then by position in frames.
func (a *Analyzer) fanOut(ctx context.Context, frames []model.TrackingFrame) ([]model.FrameAnalysis, error) {
	if len(frames) == 0 {
		return nil, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := queue.NewInMemoryQueue(queue.WithCapacity(a.queueSize))
	out := &sink{results: make([]worker.Result, 0, len(frames))}
	pool := worker.NewPool(min(a.workerCount, len(frames)), q, a, out)
	pool.Start(runCtx)

	for i := range frames {
		if err := q.Put(runCtx, queue.Job{Seq: i, Frame: &frames[i]}); err != nil {
			_ = q.Close()
			return nil, fmt.Errorf("queue frame %d: %w", frames[i].FrameNum, err)
		}
	}
	_ = q.Close()
	if err := pool.Wait(runCtx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(out.results, func(x, y worker.Result) int {
		if x.Analysis.FrameNum != y.Analysis.FrameNum {
			return x.Analysis.FrameNum - y.Analysis.FrameNum
		}
		return x.Seq - y.Seq
	})
	analyses := make([]model.FrameAnalysis, 0, len(out.results))
	for _, r := range out.results {
		analyses = append(analyses, r.Analysis)
	}
	return analyses, nil
}
