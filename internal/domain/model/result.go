package model

import "github.com/okian/pitchlane/internal/domain/geometry"

// PossessionEvent marks a frame where possession changed.
type PossessionEvent struct {
	FrameNum       int  `json:"frame_num"`
	FromPossession Team `json:"from_possession"`
	ToPossession   Team `json:"to_possession"`
}

// Window is the set of frames analysed around one possession event. FrameNums
// is oldest first and ends with the event frame.
type Window struct {
	Event     PossessionEvent `json:"event"`
	FrameNums []int           `json:"frame_nums"`
}

// Pair is one accepted home/away matchup.
type Pair struct {
	PlayerA   PlayerID `json:"player_a"`
	PlayerB   PlayerID `json:"player_b"`
	SquadA    int      `json:"squad_a"`
	SquadB    int      `json:"squad_b"`
	PositionA Point    `json:"position_a"`
	PositionB Point    `json:"position_b"`
	Distance  float64  `json:"distance"`
}

// PairingResult holds the pairs chosen for one frame.
type PairingResult struct {
	FrameNum   int    `json:"frame_num"`
	Possession Team   `json:"possession"`
	Pairs      []Pair `json:"pairs"`
}

// PassingLane runs from the ball to a player of the possessing team.
type PassingLane struct {
	FrameNum int              `json:"frame_num"`
	Receiver PlayerID         `json:"receiver"`
	Segment  geometry.Segment `json:"segment"`
}

// InterceptionDisk is the reach of a defender within the short horizon.
type InterceptionDisk struct {
	FrameNum int             `json:"frame_num"`
	PlayerID PlayerID        `json:"player_id"`
	Circle   geometry.Circle `json:"circle"`
}

// Interceptor is a defender whose disk crossed at least one lane.
type Interceptor struct {
	PlayerID         PlayerID   `json:"player_id"`
	TeamID           Team       `json:"team_id"`
	SquadNumber      int        `json:"squad_number"`
	BlockedReceivers []PlayerID `json:"blocked_receivers"`
}

// InterceptionEvent lists the distinct interceptors of a frame in first
// detection order.
type InterceptionEvent struct {
	FrameNum     int           `json:"frame_num"`
	Possession   Team          `json:"possession"`
	Interceptors []Interceptor `json:"interceptors"`
}

// ObstructionSummary condenses one frame's interception event.
type ObstructionSummary struct {
	FrameNum      int    `json:"frame_num"`
	DefenderCount int    `json:"defender_count"`
	TeamIDs       []Team `json:"team_ids"`
}

// DistanceRecord is one distance measurement attributed to a frame.
type DistanceRecord struct {
	FrameNum   int     `json:"frame_num"`
	Possession Team    `json:"possession"`
	Distance   float64 `json:"distance"`
}

// FrameMeanDistance is the mean of the records of one (frame, possession).
type FrameMeanDistance struct {
	FrameNum     int     `json:"frame_num"`
	Possession   Team    `json:"possession"`
	MeanDistance float64 `json:"mean_distance"`
	Count        int     `json:"count"`
}

// BucketMean is the mean position over one fixed-size run of samples.
type BucketMean struct {
	Index int   `json:"index"`
	Size  int   `json:"size"`
	Mean  Point `json:"mean"`
}

// SeriesDistance is the mean distance between two bucketed series. NoData is
// set when either series was empty and Mean carries no value.
type SeriesDistance struct {
	NoData    bool      `json:"no_data"`
	Mean      float64   `json:"mean"`
	PerBucket []float64 `json:"per_bucket,omitempty"`
}

// FrameAnalysis bundles everything computed for a single frame. Frames are
// independent, so analyses may be produced in any order and sorted later.
type FrameAnalysis struct {
	FrameNum     int               `json:"frame_num"`
	Pairing      PairingResult     `json:"pairing"`
	Interception InterceptionEvent `json:"interception"`
	References   []DistanceRecord  `json:"references"`
}

// DistanceSample is one player-to-reference distance.
type DistanceSample struct {
	FrameNum int      `json:"frame_num"`
	PlayerID PlayerID `json:"player_id"`
	Distance float64  `json:"distance"`
}
