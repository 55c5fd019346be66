// Package interception models passing lanes as segments and defenders as
// speed-scaled disks, and reports which defenders can cut a lane.
package interception

import (
	"slices"

	"github.com/okian/pitchlane/internal/domain/geometry"
	"github.com/okian/pitchlane/internal/domain/model"
)

// DefaultRadiusConstant scales a defender's speed into the radius of the disk
// it can cover.
const DefaultRadiusConstant = 0.8

// Engine computes per-frame interception events.
type Engine struct {
	k float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRadiusConstant sets the speed to radius constant. Negative values are
// ignored; config validation rejects them first.
func WithRadiusConstant(k float64) Option {
	return func(e *Engine) {
		if k >= 0 {
			e.k = k
		}
	}
}

// NewEngine creates an engine with the default radius constant.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{k: DefaultRadiusConstant}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RadiusConstant returns the configured constant.
func (e *Engine) RadiusConstant() float64 { return e.k }

// Lanes builds one lane from the ball to every player of the possessing team.
func (e *Engine) Lanes(f *model.TrackingFrame) []model.PassingLane {
	if f.Ball == nil {
		return nil
	}
	attackers := f.TeamPlayers(f.Possession)
	lanes := make([]model.PassingLane, 0, len(attackers))
	for _, p := range attackers {
		lanes = append(lanes, model.PassingLane{
			FrameNum: f.FrameNum,
			Receiver: p.PlayerID,
			Segment:  geometry.Segment{A: f.Ball.Position, B: p.Position},
		})
	}
	return lanes
}

// Disks builds one disk per player of the non-possessing team.
func (e *Engine) Disks(f *model.TrackingFrame) []model.InterceptionDisk {
	defenders := f.TeamPlayers(f.Possession.Opponent())
	disks := make([]model.InterceptionDisk, 0, len(defenders))
	for _, p := range defenders {
		disks = append(disks, model.InterceptionDisk{
			FrameNum: f.FrameNum,
			PlayerID: p.PlayerID,
			Circle:   geometry.Circle{Center: p.Position, Radius: p.Speed * e.k},
		})
	}
	return disks
}

// Detect tests every lane against every disk and returns the distinct
// defenders that reach at least one lane, in the order they were first found.
// Lanes are the outer loop. A frame without attackers or defenders yields an
// event with no interceptors.
func (e *Engine) Detect(f *model.TrackingFrame) model.InterceptionEvent {
	ev := model.InterceptionEvent{
		FrameNum:     f.FrameNum,
		Possession:   f.Possession,
		Interceptors: []model.Interceptor{},
	}
	lanes := e.Lanes(f)
	disks := e.Disks(f)
	if len(lanes) == 0 || len(disks) == 0 {
		return ev
	}

	index := make(map[model.PlayerID]int, len(disks))
	for _, lane := range lanes {
		for _, disk := range disks {
			if !geometry.SegmentIntersectsCircle(lane.Segment, disk.Circle) {
				continue
			}
			i, ok := index[disk.PlayerID]
			if !ok {
				p, _ := f.Player(disk.PlayerID)
				ev.Interceptors = append(ev.Interceptors, model.Interceptor{
					PlayerID:    p.PlayerID,
					TeamID:      p.TeamID,
					SquadNumber: p.SquadNumber,
				})
				i = len(ev.Interceptors) - 1
				index[disk.PlayerID] = i
			}
			ev.Interceptors[i].BlockedReceivers = append(ev.Interceptors[i].BlockedReceivers, lane.Receiver)
		}
	}
	return ev
}

// Summarize reduces events to one summary per obstructed frame. Frames with no
// interceptors are left out. Team ids are sorted.
func Summarize(events []model.InterceptionEvent) []model.ObstructionSummary {
	out := make([]model.ObstructionSummary, 0, len(events))
	for _, ev := range events {
		if len(ev.Interceptors) == 0 {
			continue
		}
		var teams []model.Team
		for _, it := range ev.Interceptors {
			if !slices.Contains(teams, it.TeamID) {
				teams = append(teams, it.TeamID)
			}
		}
		slices.Sort(teams)
		out = append(out, model.ObstructionSummary{
			FrameNum:      ev.FrameNum,
			DefenderCount: len(ev.Interceptors),
			TeamIDs:       teams,
		})
	}
	return out
}
