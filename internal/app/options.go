package app

import (
	"github.com/okian/pitchlane/internal/config"
	"github.com/okian/pitchlane/internal/domain/interception"
	"github.com/okian/pitchlane/internal/domain/pairing"
	"github.com/okian/pitchlane/internal/domain/transition"
	"github.com/okian/pitchlane/pkg/logger"
)

// Option applies a configuration option to the Analyzer. Options ignore
// invalid values and keep the default; NewFromConfig rejects them instead.
type Option func(*Analyzer)

// WithWorkerCount sets the number of per-frame workers. Non-positive counts
// are ignored.
func WithWorkerCount(count int) Option {
	return func(a *Analyzer) {
		if count > 0 {
			a.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the frame job queue. Non-positive sizes
// are ignored.
func WithQueueSize(size int) Option {
	return func(a *Analyzer) {
		if size > 0 {
			a.queueSize = size
		}
	}
}

// WithWindowSize sets how many distinct frames precede each event frame.
// Non-positive sizes are ignored.
func WithWindowSize(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.windowSize = n
		}
	}
}

// WithScope selects which frames are analysed: config.ScopeWindows or
// config.ScopeAll. Other values are ignored.
func WithScope(scope string) Option {
	return func(a *Analyzer) {
		if scope == config.ScopeWindows || scope == config.ScopeAll {
			a.scope = scope
		}
	}
}

// WithReferenceK sets how many players per team are measured to the ball.
// k <= 0 measures every player.
func WithReferenceK(k int) Option {
	return func(a *Analyzer) {
		a.referenceK = k
	}
}

// WithSamplingRate sets the tracking feed rate used to size time buckets.
// Non-positive rates are ignored.
func WithSamplingRate(hz float64) Option {
	return func(a *Analyzer) {
		if hz > 0 {
			a.samplingHz = hz
		}
	}
}

// WithDetector replaces the possession-transition detector.
func WithDetector(d *transition.Detector) Option {
	return func(a *Analyzer) {
		if d != nil {
			a.detector = d
		}
	}
}

// WithPairingEngine replaces the pairing engine.
func WithPairingEngine(e *pairing.Engine) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.pairer = e
		}
	}
}

// WithInterceptionEngine replaces the interception engine.
func WithInterceptionEngine(e *interception.Engine) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.interceptor = e
		}
	}
}

// WithLogger sets a custom logger for the analyzer.
func WithLogger(l logger.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// OptionsFromConfig translates a validated Config into Analyzer options.
func OptionsFromConfig(cfg *config.Config) []Option {
	return []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithWindowSize(cfg.WindowSizeFrames),
		WithScope(cfg.Scope),
		WithReferenceK(cfg.ReferenceNearestK),
		WithSamplingRate(cfg.SamplingRateHz),
		WithDetector(transition.NewDetector(
			transition.WithPredicate(transition.Predicate(cfg.TransitionPredicate)),
			transition.WithLookaheadFrames(cfg.LookaheadFrames),
			transition.WithAliveOnly(cfg.WindowAliveOnly),
		)),
		WithPairingEngine(pairing.NewEngine(
			pairing.WithOutlierRemoval(cfg.OutlierPairRemoval),
			pairing.WithOutlierPolicy(pairing.OutlierPolicy(cfg.OutlierPairPolicy)),
			pairing.WithTieBreak(pairing.TieBreak(cfg.PairingTieBreak)),
		)),
		WithInterceptionEngine(interception.NewEngine(
			interception.WithRadiusConstant(cfg.InterceptionRadiusConstant),
		)),
	}
}

// NewFromConfig validates cfg and builds an Analyzer from it. opts are applied
// after the configuration. The error wraps config.ErrInvalidConfig.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(append(OptionsFromConfig(cfg), opts...)...), nil
}
