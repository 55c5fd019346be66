// Package config defines process configuration and its validation.
//
// Conventions:
// - New returns a Config holding every default.
// - Load layers a YAML file and PITCHLANE_* environment variables on top.
// - Validate runs before any frame is read; its errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/pitchlane/internal/domain/pairing"
	"github.com/okian/pitchlane/internal/domain/transition"
)

// Analysis scopes.
const (
	ScopeWindows = "windows"
	ScopeAll     = "all"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// FramesPath points at the player_and_ball table to analyse.
	FramesPath string `koanf:"frames_path"`

	// SamplingRateHz is the tracking feed rate used for bucketing.
	SamplingRateHz float64 `koanf:"sampling_rate_hz"`

	// WorkerCount sets the number of per-frame analysis workers.
	WorkerCount int `koanf:"worker_count"`
	// QueueSize bounds the frame job queue.
	QueueSize int `koanf:"queue_size"`

	// Scope is "windows" (frames around possession events) or "all".
	Scope string `koanf:"scope"`

	PairingTieBreak    string `koanf:"pairing_tie_break"`
	OutlierPairRemoval bool   `koanf:"outlier_pair_removal"`
	OutlierPairPolicy  string `koanf:"outlier_pair_policy"`

	InterceptionRadiusConstant float64 `koanf:"interception_radius_constant"`

	WindowSizeFrames    int    `koanf:"window_size_frames"`
	// WindowAliveOnly drops dead and backward frames from windows. It suits
	// the alive_to_alive predicate; under dead_to_alive the frames before a
	// restart are dead, so cleaning leaves only the event frame.
	WindowAliveOnly     bool   `koanf:"window_alive_only"`
	TransitionPredicate string `koanf:"transition_predicate"`
	LookaheadFrames     int    `koanf:"lookahead_frames"`

	// ReferenceNearestK is how many players per team are measured to the ball.
	ReferenceNearestK int `koanf:"reference_nearest_k"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:                   "info",
		LogFormat:                  "text",
		Addr:                       ":9080",
		SamplingRateHz:             25,
		WorkerCount:                runtime.NumCPU(),
		QueueSize:                  4096,
		Scope:                      ScopeWindows,
		PairingTieBreak:            string(pairing.StableByInputOrder),
		OutlierPairRemoval:         true,
		OutlierPairPolicy:          string(pairing.ExcludePlayers),
		InterceptionRadiusConstant: 0.8,
		WindowSizeFrames:           transition.DefaultWindowSize,
		WindowAliveOnly:            false,
		TransitionPredicate:        string(transition.DeadToAlive),
		LookaheadFrames:            transition.DefaultLookaheadFrames,
		ReferenceNearestK:          5,
	}
}

// Validate rejects values the analysis cannot run with.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Addr == "" {
		add("addr must not be empty")
	}
	if c.InterceptionRadiusConstant < 0 {
		add("interception_radius_constant must not be negative, got %g", c.InterceptionRadiusConstant)
	}
	if c.WindowSizeFrames <= 0 {
		add("window_size_frames must be positive, got %d", c.WindowSizeFrames)
	}
	if c.SamplingRateHz <= 0 {
		add("sampling_rate_hz must be positive, got %g", c.SamplingRateHz)
	}
	if c.QueueSize <= 0 {
		add("queue_size must be positive, got %d", c.QueueSize)
	}
	if c.LookaheadFrames <= 0 {
		add("lookahead_frames must be positive, got %d", c.LookaheadFrames)
	}
	if pairing.TieBreak(c.PairingTieBreak) != pairing.StableByInputOrder {
		add("unknown pairing_tie_break %q", c.PairingTieBreak)
	}
	if !pairing.OutlierPolicy(c.OutlierPairPolicy).Valid() {
		add("unknown outlier_pair_policy %q", c.OutlierPairPolicy)
	}
	if !transition.Predicate(c.TransitionPredicate).Valid() {
		add("unknown transition_predicate %q", c.TransitionPredicate)
	}
	if c.Scope != ScopeWindows && c.Scope != ScopeAll {
		add("unknown scope %q", c.Scope)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		add("unknown log_format %q", c.LogFormat)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
