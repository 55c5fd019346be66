// Package transition finds possession changes in a frame stream and builds the
// analysis windows that precede them.
//
// Detection is a single sequential pass: every step depends on the state left
// by the previous frame, so frames are never split across goroutines here.
package transition

import (
	"fmt"

	"github.com/okian/pitchlane/internal/domain/model"
)

// Predicate selects how a possession change is recognised.
type Predicate string

// Supported predicates.
const (
	// DeadToAlive reports a restart whose possession differs from the last
	// Alive frame before the stoppage.
	DeadToAlive Predicate = "dead_to_alive"
	// AliveToAlive reports a possession flip between two consecutive Alive
	// frames.
	AliveToAlive Predicate = "alive_to_alive"
	// Lookahead reports a restart that is followed by a possession change
	// within a fixed number of frame numbers.
	Lookahead Predicate = "lookahead"
)

// Valid reports whether p is a known predicate.
func (p Predicate) Valid() bool {
	switch p {
	case DeadToAlive, AliveToAlive, Lookahead:
		return true
	}
	return false
}

// Default values.
const (
	DefaultLookaheadFrames = 750 // 30 seconds at 25 Hz
	DefaultWindowSize      = 3
)

// Detector emits possession events and windows.
type Detector struct {
	predicate       Predicate
	lookaheadFrames int
	aliveOnly       bool
}

// NewDetector creates a detector using the Dead to Alive predicate and raw,
// uncleaned windows unless configured otherwise.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		predicate:       DeadToAlive,
		lookaheadFrames: DefaultLookaheadFrames,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Predicate returns the active predicate.
func (d *Detector) Predicate() Predicate { return d.predicate }

// Detect returns the possession events of frames in input order.
func (d *Detector) Detect(frames []model.TrackingFrame) []model.PossessionEvent {
	switch d.predicate {
	case AliveToAlive:
		return detectAliveToAlive(frames)
	case Lookahead:
		return detectLookahead(frames, d.lookaheadFrames)
	default:
		return detectDeadToAlive(frames)
	}
}

func detectDeadToAlive(frames []model.TrackingFrame) []model.PossessionEvent {
	var events []model.PossessionEvent
	var lastAlive model.Team
	seenAlive := false

	for i, f := range frames {
		if i > 0 && frames[i-1].PlayStatus == model.Dead && f.PlayStatus == model.Alive &&
			seenAlive && lastAlive != f.Possession {
			events = append(events, model.PossessionEvent{
				FrameNum:       f.FrameNum,
				FromPossession: lastAlive,
				ToPossession:   f.Possession,
			})
		}
		if f.PlayStatus == model.Alive {
			lastAlive = f.Possession
			seenAlive = true
		}
	}
	return events
}

func detectAliveToAlive(frames []model.TrackingFrame) []model.PossessionEvent {
	var events []model.PossessionEvent
	for i := 1; i < len(frames); i++ {
		prev, cur := frames[i-1], frames[i]
		if prev.PlayStatus == model.Alive && cur.PlayStatus == model.Alive && prev.Possession != cur.Possession {
			events = append(events, model.PossessionEvent{
				FrameNum:       cur.FrameNum,
				FromPossession: prev.Possession,
				ToPossession:   cur.Possession,
			})
		}
	}
	return events
}

func detectLookahead(frames []model.TrackingFrame, horizon int) []model.PossessionEvent {
	var events []model.PossessionEvent
	for i := 1; i < len(frames); i++ {
		restart := frames[i]
		if frames[i-1].PlayStatus != model.Dead || restart.PlayStatus != model.Alive {
			continue
		}
		for j := i + 1; j < len(frames) && frames[j].FrameNum-restart.FrameNum <= horizon; j++ {
			if frames[j].Possession != restart.Possession {
				events = append(events, model.PossessionEvent{
					FrameNum:       restart.FrameNum,
					FromPossession: restart.Possession,
					ToPossession:   frames[j].Possession,
				})
				break
			}
		}
	}
	return events
}

// PrecedingFrames returns up to n distinct frame numbers that appear in the
// stream before the first occurrence of target, oldest first. Fewer than n are
// returned when the stream does not hold enough earlier frames.
func PrecedingFrames(frames []model.TrackingFrame, target, n int) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidWindow, n)
	}
	idx := -1
	for i, f := range frames {
		if f.FrameNum == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrFrameNotFound, target)
	}

	// Walk backwards so the most recent distinct numbers win.
	seen := make(map[int]struct{}, n)
	picked := make([]int, 0, n)
	for i := idx - 1; i >= 0 && len(picked) < n; i-- {
		num := frames[i].FrameNum
		if num == target {
			continue
		}
		if _, ok := seen[num]; ok {
			continue
		}
		seen[num] = struct{}{}
		picked = append(picked, num)
	}

	for l, r := 0, len(picked)-1; l < r; l, r = l+1, r-1 {
		picked[l], picked[r] = picked[r], picked[l]
	}
	return picked, nil
}

// Windows builds one window per event: the n preceding distinct frames
// followed by the event frame. When the detector is alive-only, dead frames
// and frame numbers that step backwards are removed from the window.
func (d *Detector) Windows(frames []model.TrackingFrame, events []model.PossessionEvent, n int) ([]model.Window, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidWindow, n)
	}

	status := make(map[int]model.PlayStatus, len(frames))
	for _, f := range frames {
		if _, ok := status[f.FrameNum]; !ok {
			status[f.FrameNum] = f.PlayStatus
		}
	}

	windows := make([]model.Window, 0, len(events))
	for _, ev := range events {
		prev, err := PrecedingFrames(frames, ev.FrameNum, n)
		if err != nil {
			return nil, err
		}
		nums := append(prev, ev.FrameNum)
		if d.aliveOnly {
			nums = cleanWindow(nums, status)
		}
		windows = append(windows, model.Window{Event: ev, FrameNums: nums})
	}
	return windows, nil
}

func cleanWindow(nums []int, status map[int]model.PlayStatus) []int {
	out := nums[:0]
	last := 0
	for _, num := range nums {
		if status[num] != model.Alive {
			continue
		}
		if len(out) > 0 && num < last {
			continue
		}
		out = append(out, num)
		last = num
	}
	return out
}
