package model

import (
	"errors"
	"fmt"
)

// ErrMalformedFrame marks a frame that is rejected at the ingestion boundary.
var ErrMalformedFrame = errors.New("malformed frame")

// Stable reasons reported for malformed frames.
const (
	ReasonMissingBall     = "missing_ball"
	ReasonBadCoordinates  = "bad_coordinates"
	ReasonBadPlayStatus   = "bad_play_status"
	ReasonBadPossession   = "bad_possession"
	ReasonMissingPlayerID = "missing_player_id"
	ReasonBadTeam         = "bad_team"
	ReasonBadSpeed        = "bad_speed"
	ReasonDuplicatePlayer = "duplicate_player"
)

// FrameError describes why a frame was rejected.
type FrameError struct {
	FrameNum int
	Reason   string
	PlayerID PlayerID
}

func (e *FrameError) Error() string {
	if e.PlayerID != "" {
		return fmt.Sprintf("frame %d: %s (player %s)", e.FrameNum, e.Reason, e.PlayerID)
	}
	return fmt.Sprintf("frame %d: %s", e.FrameNum, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedFrame.
func (e *FrameError) Unwrap() error { return ErrMalformedFrame }
