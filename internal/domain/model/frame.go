// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/pitchlane/internal/domain/geometry"
)

// Point is a pitch position in metres.
type Point = geometry.Point

// Team identifies one side of the match.
type Team string

// Teams.
const (
	Home Team = "home"
	Away Team = "away"
)

// Valid reports whether t is a known team.
func (t Team) Valid() bool { return t == Home || t == Away }

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == Home {
		return Away
	}
	return Home
}

// ParseTeam accepts "home"/"away" and the feed shorthands "H"/"A".
func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home", "h":
		return Home, nil
	case "away", "a":
		return Away, nil
	}
	return "", fmt.Errorf("unknown team %q", s)
}

// PlayStatus reports whether the ball is in play.
type PlayStatus string

// Play statuses.
const (
	Alive PlayStatus = "alive"
	Dead  PlayStatus = "dead"
)

// Valid reports whether s is a known play status.
func (s PlayStatus) Valid() bool { return s == Alive || s == Dead }

// ParsePlayStatus accepts "alive"/"dead" in any case.
func ParsePlayStatus(s string) (PlayStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alive":
		return Alive, nil
	case "dead":
		return Dead, nil
	}
	return "", fmt.Errorf("unknown play status %q", s)
}

// PlayerID identifies a player for the whole match.
type PlayerID string

// BallObservation is the ball sample of one frame.
type BallObservation struct {
	Position Point
	Speed    float64
}

// PlayerObservation is one player's sample in a frame.
type PlayerObservation struct {
	PlayerID    PlayerID
	TeamID      Team
	SquadNumber int // display label, not unique across teams
	Position    Point
	Speed       float64
}

// TrackingFrame is one synchronized sample of ball and players. Frames are
// read-only once they reach the frame store.
type TrackingFrame struct {
	FrameNum   int
	PlayStatus PlayStatus
	Possession Team
	Ball       *BallObservation
	Players    []PlayerObservation
}

// TeamPlayers returns the players of team t in frame order.
func (f *TrackingFrame) TeamPlayers(t Team) []PlayerObservation {
	out := make([]PlayerObservation, 0, len(f.Players))
	for _, p := range f.Players {
		if p.TeamID == t {
			out = append(out, p)
		}
	}
	return out
}

// Player returns the observation of id in this frame.
func (f *TrackingFrame) Player(id PlayerID) (PlayerObservation, bool) {
	for _, p := range f.Players {
		if p.PlayerID == id {
			return p, true
		}
	}
	return PlayerObservation{}, false
}

// Validate checks the fields every core component relies on. The returned
// error wraps ErrMalformedFrame and carries a stable reason.
func (f *TrackingFrame) Validate() error {
	switch {
	case f.Ball == nil:
		return &FrameError{FrameNum: f.FrameNum, Reason: ReasonMissingBall}
	case !f.Ball.Position.IsFinite():
		return &FrameError{FrameNum: f.FrameNum, Reason: ReasonBadCoordinates}
	case !f.PlayStatus.Valid():
		return &FrameError{FrameNum: f.FrameNum, Reason: ReasonBadPlayStatus}
	case !f.Possession.Valid():
		return &FrameError{FrameNum: f.FrameNum, Reason: ReasonBadPossession}
	}

	seen := make(map[PlayerID]struct{}, len(f.Players))
	for _, p := range f.Players {
		switch {
		case p.PlayerID == "":
			return &FrameError{FrameNum: f.FrameNum, Reason: ReasonMissingPlayerID}
		case !p.TeamID.Valid():
			return &FrameError{FrameNum: f.FrameNum, Reason: ReasonBadTeam, PlayerID: p.PlayerID}
		case !p.Position.IsFinite():
			return &FrameError{FrameNum: f.FrameNum, Reason: ReasonBadCoordinates, PlayerID: p.PlayerID}
		case p.Speed < 0 || math.IsNaN(p.Speed) || math.IsInf(p.Speed, 0):
			return &FrameError{FrameNum: f.FrameNum, Reason: ReasonBadSpeed, PlayerID: p.PlayerID}
		}
		if _, dup := seen[p.PlayerID]; dup {
			return &FrameError{FrameNum: f.FrameNum, Reason: ReasonDuplicatePlayer, PlayerID: p.PlayerID}
		}
		seen[p.PlayerID] = struct{}{}
	}
	return nil
}
