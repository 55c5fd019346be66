// Package types contains flat row types shared by the report and API layers.
package types

// PairRow is one accepted pair flattened for tabular output.
type PairRow struct {
	FrameNum   int     `json:"frame_num"`
	Possession string  `json:"possession"`
	PlayerA    string  `json:"player_a"`
	SquadA     int     `json:"squad_a"`
	XA         float64 `json:"x_a"`
	YA         float64 `json:"y_a"`
	PlayerB    string  `json:"player_b"`
	SquadB     int     `json:"squad_b"`
	XB         float64 `json:"x_b"`
	YB         float64 `json:"y_b"`
	Distance   float64 `json:"distance"`
}

// InterceptionRow is one (frame, interceptor) pair flattened for output.
type InterceptionRow struct {
	FrameNum    int    `json:"frame_num"`
	Possession  string `json:"possession"`
	PlayerID    string `json:"player_id"`
	TeamID      string `json:"team_id"`
	SquadNumber int    `json:"squad_number"`
	Blocked     int    `json:"blocked_lanes"`
}

// EventRow is one possession event with the size of its window.
type EventRow struct {
	FrameNum   int    `json:"frame_num"`
	From       string `json:"from_possession"`
	To         string `json:"to_possession"`
	WindowSize int    `json:"window_size"`
}

// Rows groups every flat table of a report.
type Rows struct {
	Events        []EventRow        `json:"events"`
	Pairs         []PairRow         `json:"pairs"`
	Interceptions []InterceptionRow `json:"interceptions"`
}
