// Package pairing matches players of two sets by greedy nearest distance.
//
// The matching is a heuristic, not an optimal assignment: candidates are
// taken in ascending distance order and a candidate is skipped when either of
// its players is already paired.
package pairing

import (
	"cmp"
	"slices"

	"github.com/okian/pitchlane/internal/domain/geometry"
	"github.com/okian/pitchlane/internal/domain/model"
)

// TieBreak names the ordering used between equal-distance candidates.
type TieBreak string

// StableByInputOrder keeps equal-distance candidates in enumeration order.
const StableByInputOrder TieBreak = "stable-by-input-order"

// OutlierPolicy controls what the largest-distance candidate removes.
type OutlierPolicy string

// Outlier policies.
const (
	// ExcludePlayers removes both players of the largest candidate from the
	// matching, so N by N sets give at most N-1 pairs.
	ExcludePlayers OutlierPolicy = "exclude_players"
	// DropCandidate removes only that single candidate; its players may
	// still be paired with someone else.
	DropCandidate OutlierPolicy = "drop_candidate"
)

// Valid reports whether p is a known policy.
func (p OutlierPolicy) Valid() bool { return p == ExcludePlayers || p == DropCandidate }

// Engine computes pairings. The zero value is not usable; call NewEngine.
type Engine struct {
	outlierRemoval bool
	outlierPolicy  OutlierPolicy
	tieBreak       TieBreak
}

// NewEngine creates a pairing engine with outlier removal enabled.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		outlierRemoval: true,
		outlierPolicy:  ExcludePlayers,
		tieBreak:       StableByInputOrder,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TieBreak returns the active tie-break rule.
func (e *Engine) TieBreak() TieBreak { return e.tieBreak }

type candidate struct {
	a, b     model.PlayerObservation
	distance float64
}

// Pair matches a against b. Candidates are enumerated with a as the outer
// loop, which fixes the order of equal distances.
func (e *Engine) Pair(a, b []model.PlayerObservation) []model.Pair {
	if len(a) == 0 || len(b) == 0 {
		return []model.Pair{}
	}

	cands := make([]candidate, 0, len(a)*len(b))
	for _, pa := range a {
		for _, pb := range b {
			cands = append(cands, candidate{a: pa, b: pb, distance: geometry.Distance(pa.Position, pb.Position)})
		}
	}
	slices.SortStableFunc(cands, func(x, y candidate) int { return cmp.Compare(x.distance, y.distance) })

	excluded := make(map[model.PlayerID]struct{}, 2)
	if e.outlierRemoval {
		worst := cands[len(cands)-1]
		cands = cands[:len(cands)-1]
		if e.outlierPolicy == ExcludePlayers {
			excluded[worst.a.PlayerID] = struct{}{}
			excluded[worst.b.PlayerID] = struct{}{}
		}
	}

	pairedA := make(map[model.PlayerID]struct{}, len(a))
	pairedB := make(map[model.PlayerID]struct{}, len(b))
	pairs := make([]model.Pair, 0, min(len(a), len(b)))
	for _, c := range cands {
		if _, ok := excluded[c.a.PlayerID]; ok {
			continue
		}
		if _, ok := excluded[c.b.PlayerID]; ok {
			continue
		}
		if _, ok := pairedA[c.a.PlayerID]; ok {
			continue
		}
		if _, ok := pairedB[c.b.PlayerID]; ok {
			continue
		}
		pairedA[c.a.PlayerID] = struct{}{}
		pairedB[c.b.PlayerID] = struct{}{}
		pairs = append(pairs, model.Pair{
			PlayerA:   c.a.PlayerID,
			PlayerB:   c.b.PlayerID,
			SquadA:    c.a.SquadNumber,
			SquadB:    c.b.SquadNumber,
			PositionA: c.a.Position,
			PositionB: c.b.Position,
			Distance:  c.distance,
		})
	}
	return pairs
}

// PairFrame pairs the home players of f against its away players.
func (e *Engine) PairFrame(f *model.TrackingFrame) model.PairingResult {
	return model.PairingResult{
		FrameNum:   f.FrameNum,
		Possession: f.Possession,
		Pairs:      e.Pair(f.TeamPlayers(model.Home), f.TeamPlayers(model.Away)),
	}
}

// Ranked is a player with its distance to a reference point.
type Ranked struct {
	Player   model.PlayerObservation
	Distance float64
}

// NearestToReference ranks players by distance to ref, keeping input order for
// ties, and returns the first k. k <= 0 returns every player.
func NearestToReference(players []model.PlayerObservation, ref model.Point, k int) []Ranked {
	ranked := make([]Ranked, 0, len(players))
	for _, p := range players {
		ranked = append(ranked, Ranked{Player: p, Distance: geometry.Distance(p.Position, ref)})
	}
	slices.SortStableFunc(ranked, func(x, y Ranked) int { return cmp.Compare(x.Distance, y.Distance) })
	if k > 0 && k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}

// ReferenceDistances returns, for each team, the distances of its k players
// nearest to the ball, tagged with the frame and its possession. Home records
// come first.
func ReferenceDistances(f *model.TrackingFrame, k int) []model.DistanceRecord {
	if f.Ball == nil {
		return nil
	}
	var out []model.DistanceRecord
	for _, team := range []model.Team{model.Home, model.Away} {
		for _, r := range NearestToReference(f.TeamPlayers(team), f.Ball.Position, k) {
			out = append(out, model.DistanceRecord{
				FrameNum:   f.FrameNum,
				Possession: f.Possession,
				Distance:   r.Distance,
			})
		}
	}
	return out
}
