// Package tabular turns pre-cleansed player_and_ball rows into frames.
//
// Each row holds one player together with the ball and the frame-level
// fields of its frame. Consecutive rows with the same frame_num form one
// frame. Columns are located by header name, so their order is free.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/pitchlane/internal/domain/model"
)

// Column names.
const (
	ColFrameNum    = "frame_num"
	ColTeamID      = "team_id"
	ColPlayerID    = "player_id"
	ColSquadNum    = "squadNum"
	ColXPlayer     = "x_player"
	ColYPlayer     = "y_player"
	ColSpeedPlayer = "speed_player"
	ColXBall       = "x_ball"
	ColYBall       = "y_ball"
	ColSpeedBall   = "speed_ball"
	ColPossession  = "poss"
	ColInPlay      = "inPlay"
)

var required = []string{
	ColFrameNum, ColTeamID, ColPlayerID, ColSquadNum,
	ColXPlayer, ColYPlayer, ColSpeedPlayer,
	ColXBall, ColYBall, ColPossession, ColInPlay,
}

// ReadFile opens path and reads every frame in it.
func ReadFile(path string) ([]model.TrackingFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frames file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses rows from r. An empty ball coordinate leaves the frame without a
// ball so that validation can reject it later. Rows with an empty player_id
// carry only frame data.
func Read(r io.Reader) ([]model.TrackingFrame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrBadHeader)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadHeader, c)
		}
	}

	var frames []model.TrackingFrame
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := rowReader{rec: rec, cols: cols, line: line}

		num := row.intCol(ColFrameNum)
		if row.err != nil {
			return nil, row.err
		}
		if len(frames) == 0 || frames[len(frames)-1].FrameNum != num {
			frames = append(frames, row.frame(num))
		}
		if row.err != nil {
			return nil, row.err
		}

		if row.str(ColPlayerID) == "" {
			continue
		}
		p := row.player()
		if row.err != nil {
			return nil, row.err
		}
		cur := &frames[len(frames)-1]
		cur.Players = append(cur.Players, p)
	}
	return frames, nil
}

type rowReader struct {
	rec  []string
	cols map[string]int
	line int
	err  error
}

func (r *rowReader) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *rowReader) fail(col string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: line %d column %s: %w", ErrBadRow, r.line, col, err)
	}
}

func (r *rowReader) intCol(col string) int {
	v, err := strconv.Atoi(r.str(col))
	if err != nil {
		r.fail(col, err)
	}
	return v
}

// floatCol parses col, returning blank for an empty cell.
func (r *rowReader) floatCol(col string, blank float64) float64 {
	s := r.str(col)
	if s == "" {
		return blank
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.fail(col, err)
	}
	return v
}

// frame builds the frame-level part of a row. Unknown possession or play
// status values are kept as-is and rejected by validation.
func (r *rowReader) frame(num int) model.TrackingFrame {
	f := model.TrackingFrame{FrameNum: num}

	if poss, err := model.ParseTeam(r.str(ColPossession)); err == nil {
		f.Possession = poss
	} else {
		f.Possession = model.Team(r.str(ColPossession))
	}
	if st, err := model.ParsePlayStatus(r.str(ColInPlay)); err == nil {
		f.PlayStatus = st
	} else {
		f.PlayStatus = model.PlayStatus(r.str(ColInPlay))
	}

	if r.str(ColXBall) != "" && r.str(ColYBall) != "" {
		f.Ball = &model.BallObservation{
			Position: model.Point{X: r.floatCol(ColXBall, 0), Y: r.floatCol(ColYBall, 0)},
			Speed:    r.floatCol(ColSpeedBall, 0),
		}
	}
	return f
}

// player builds the player part of a row. Blank coordinates or speed become
// NaN so validation rejects the frame instead of placing the player at the
// origin.
func (r *rowReader) player() model.PlayerObservation {
	missing := math.NaN()
	return model.PlayerObservation{
		PlayerID:    model.PlayerID(r.str(ColPlayerID)),
		TeamID:      parseTeamID(r.str(ColTeamID)),
		SquadNumber: r.intCol(ColSquadNum),
		Position:    model.Point{X: r.floatCol(ColXPlayer, missing), Y: r.floatCol(ColYPlayer, missing)},
		Speed:       r.floatCol(ColSpeedPlayer, missing),
	}
}

// parseTeamID maps the feed's numeric team ids (1 home, 0 away) and the
// named forms. Anything else is kept and rejected by validation.
func parseTeamID(s string) model.Team {
	switch s {
	case "1":
		return model.Home
	case "0":
		return model.Away
	}
	if t, err := model.ParseTeam(s); err == nil {
		return t
	}
	return model.Team(s)
}
