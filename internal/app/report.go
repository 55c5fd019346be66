package app

import (
	"time"

	"github.com/okian/pitchlane/internal/domain/aggregate"
	"github.com/okian/pitchlane/internal/domain/model"
	"github.com/okian/pitchlane/internal/domain/types"
)

// Warnings counts the conditions a run skipped over instead of failing.
type Warnings struct {
	MalformedFrames   int            `json:"malformed_frames"`
	MalformedByReason map[string]int `json:"malformed_by_reason"`
	DuplicateFrames   int            `json:"duplicate_frames"`
	// EmptyPairings counts analysed frames that produced no pair.
	EmptyPairings int `json:"empty_pairings"`
	// UnobstructedFrames counts analysed frames with no interceptor.
	UnobstructedFrames int `json:"unobstructed_frames"`
}

// Report is the outcome of one analysis run. Every per-frame sequence is
// ordered by frame number.
type Report struct {
	RunID         string                     `json:"run_id"`
	StartedAt     time.Time                  `json:"started_at"`
	Duration      time.Duration              `json:"duration"`
	FramesRead    int                        `json:"frames_read"`
	FramesKept    int                        `json:"frames_kept"`
	Events        []model.PossessionEvent    `json:"events"`
	Windows       []model.Window             `json:"windows"`
	Pairings      []model.PairingResult      `json:"pairings"`
	Interceptions []model.InterceptionEvent  `json:"interceptions"`
	Obstructions  []model.ObstructionSummary `json:"obstructions"`
	MeanDistances []model.FrameMeanDistance  `json:"mean_distances"`
	// ObstructionsByTeam counts obstructed frames per defending team.
	ObstructionsByTeam map[model.Team]int `json:"obstructions_by_team"`
	Warnings           Warnings           `json:"warnings"`

	// frames is the cleaned stream the run analysed, kept for player queries.
	frames         []model.TrackingFrame
	samplingRateHz float64
}

// Pairing returns the pairing result of frameNum.
func (r *Report) Pairing(frameNum int) (model.PairingResult, bool) {
	for _, p := range r.Pairings {
		if p.FrameNum == frameNum {
			return p, true
		}
	}
	return model.PairingResult{}, false
}

// Interception returns the interception event of frameNum.
func (r *Report) Interception(frameNum int) (model.InterceptionEvent, bool) {
	for _, ev := range r.Interceptions {
		if ev.FrameNum == frameNum {
			return ev, true
		}
	}
	return model.InterceptionEvent{}, false
}

// BallDistances returns the distance from id to the ball in every stored
// frame holding both.
func (r *Report) BallDistances(id model.PlayerID) []model.DistanceSample {
	return aggregate.BallDistanceSeries(r.frames, id)
}

// Positions returns the positions of id in stored frame order.
func (r *Report) Positions(id model.PlayerID) []model.Point {
	var out []model.Point
	for i := range r.frames {
		if p, ok := r.frames[i].Player(id); ok {
			out = append(out, p.Position)
		}
	}
	return out
}

// SeriesDistance compares the movement of two players over buckets of
// interval at the feed's sampling rate.
func (r *Report) SeriesDistance(a, b model.PlayerID, interval time.Duration) (model.SeriesDistance, error) {
	return aggregate.SeriesDistance(r.Positions(a), r.Positions(b), interval, r.samplingRateHz)
}

// Rows flattens the report into named-column tables.
func (r *Report) Rows() types.Rows {
	rows := types.Rows{
		Events:        make([]types.EventRow, 0, len(r.Events)),
		Pairs:         []types.PairRow{},
		Interceptions: []types.InterceptionRow{},
	}

	windowSize := make(map[int]int, len(r.Windows))
	for _, w := range r.Windows {
		windowSize[w.Event.FrameNum] = len(w.FrameNums)
	}
	for _, ev := range r.Events {
		rows.Events = append(rows.Events, types.EventRow{
			FrameNum:   ev.FrameNum,
			From:       string(ev.FromPossession),
			To:         string(ev.ToPossession),
			WindowSize: windowSize[ev.FrameNum],
		})
	}

	for _, pr := range r.Pairings {
		for _, p := range pr.Pairs {
			rows.Pairs = append(rows.Pairs, types.PairRow{
				FrameNum:   pr.FrameNum,
				Possession: string(pr.Possession),
				PlayerA:    string(p.PlayerA),
				SquadA:     p.SquadA,
				XA:         p.PositionA.X,
				YA:         p.PositionA.Y,
				PlayerB:    string(p.PlayerB),
				SquadB:     p.SquadB,
				XB:         p.PositionB.X,
				YB:         p.PositionB.Y,
				Distance:   p.Distance,
			})
		}
	}

	for _, ev := range r.Interceptions {
		for _, it := range ev.Interceptors {
			rows.Interceptions = append(rows.Interceptions, types.InterceptionRow{
				FrameNum:    ev.FrameNum,
				Possession:  string(ev.Possession),
				PlayerID:    string(it.PlayerID),
				TeamID:      string(it.TeamID),
				SquadNumber: it.SquadNumber,
				Blocked:     len(it.BlockedReceivers),
			})
		}
	}
	return rows
}
