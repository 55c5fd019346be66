// Package synthmatch generates deterministic synthetic matches for tests,
// benchmarks and local runs of the analysis service.
//
// A match alternates phases of open play with short stoppages. After every
// stoppage the other team restarts, so each stoppage after the first phase is
// a possession change on restart.
package synthmatch

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/okian/pitchlane/internal/domain/model"
)

// Pitch dimensions in metres.
const (
	PitchLength = 105.0
	PitchWidth  = 68.0
)

// Config describes the match to generate.
type Config struct {
	Frames         int
	PlayersPerSide int
	Seed           uint64
	// PhaseLength is the number of Alive frames per phase.
	PhaseLength int
	// StoppageLength is the number of Dead frames between phases.
	StoppageLength int
	// MissingBallEvery drops the ball from every n-th frame (0 disables).
	MissingBallEvery int
	// DuplicateEvery repeats every n-th frame number (0 disables).
	DuplicateEvery int
}

// Option configures a Config.
type Option func(*Config)

// WithFrames sets the number of distinct frames.
func WithFrames(n int) Option { return func(c *Config) { c.Frames = n } }

// WithPlayersPerSide sets the squad size on the pitch.
func WithPlayersPerSide(n int) Option { return func(c *Config) { c.PlayersPerSide = n } }

// WithSeed sets the random seed.
func WithSeed(seed uint64) Option { return func(c *Config) { c.Seed = seed } }

// WithPhases sets the open-play and stoppage lengths.
func WithPhases(alive, dead int) Option {
	return func(c *Config) {
		c.PhaseLength = alive
		c.StoppageLength = dead
	}
}

// WithMissingBallEvery makes every n-th frame malformed.
func WithMissingBallEvery(n int) Option { return func(c *Config) { c.MissingBallEvery = n } }

// WithDuplicateEvery emits every n-th frame twice.
func WithDuplicateEvery(n int) Option { return func(c *Config) { c.DuplicateEvery = n } }

type mover struct {
	obs     model.PlayerObservation
	heading float64
}

// Generate builds the frame stream. The same options always produce the
// same frames.
func Generate(opts ...Option) []model.TrackingFrame {
	cfg := Config{
		Frames:         250,
		PlayersPerSide: 11,
		Seed:           7,
		PhaseLength:    40,
		StoppageLength: 10,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.PhaseLength < 1 {
		cfg.PhaseLength = 1
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	players := make([]mover, 0, 2*cfg.PlayersPerSide)
	for _, team := range []model.Team{model.Home, model.Away} {
		for i := 0; i < cfg.PlayersPerSide; i++ {
			players = append(players, mover{
				obs: model.PlayerObservation{
					PlayerID:    model.PlayerID(fmt.Sprintf("%s-%02d", team, i+1)),
					TeamID:      team,
					SquadNumber: i + 1,
					Position:    model.Point{X: rng.Float64() * PitchLength, Y: rng.Float64() * PitchWidth},
				},
				heading: rng.Float64() * 2 * math.Pi,
			})
		}
	}

	ball := model.Point{X: PitchLength / 2, Y: PitchWidth / 2}
	possession := model.Home
	cycle := cfg.PhaseLength + cfg.StoppageLength

	frames := make([]model.TrackingFrame, 0, cfg.Frames)
	for i := 0; i < cfg.Frames; i++ {
		status := model.Alive
		if cycle > 0 && i%cycle >= cfg.PhaseLength {
			status = model.Dead
		}
		// The restarting side takes the ball at the first Alive frame after a stoppage.
		if i > 0 && status == model.Alive && frames[len(frames)-1].PlayStatus == model.Dead {
			possession = possession.Opponent()
		}

		for j := range players {
			p := &players[j]
			speed := 0.0
			if status == model.Alive {
				p.heading += (rng.Float64() - 0.5) * 0.6
				speed = 1 + rng.Float64()*6
			}
			step := speed / 25
			p.obs.Position = clamp(model.Point{
				X: p.obs.Position.X + math.Cos(p.heading)*step,
				Y: p.obs.Position.Y + math.Sin(p.heading)*step,
			})
			p.obs.Speed = speed
		}
		if status == model.Alive {
			ball = clamp(model.Point{X: ball.X + (rng.Float64()-0.5)*2, Y: ball.Y + (rng.Float64()-0.5)*2})
		}

		f := model.TrackingFrame{
			FrameNum:   i + 1,
			PlayStatus: status,
			Possession: possession,
			Ball:       &model.BallObservation{Position: ball, Speed: rng.Float64() * 20},
			Players:    make([]model.PlayerObservation, 0, len(players)),
		}
		for _, p := range players {
			f.Players = append(f.Players, p.obs)
		}
		if cfg.MissingBallEvery > 0 && (i+1)%cfg.MissingBallEvery == 0 {
			f.Ball = nil
		}
		frames = append(frames, f)
		if cfg.DuplicateEvery > 0 && (i+1)%cfg.DuplicateEvery == 0 {
			dup := f
			dup.Players = append([]model.PlayerObservation(nil), f.Players...)
			frames = append(frames, dup)
		}
	}
	return frames
}

func clamp(p model.Point) model.Point {
	return model.Point{
		X: math.Min(math.Max(p.X, 0), PitchLength),
		Y: math.Min(math.Max(p.Y, 0), PitchWidth),
	}
}
