package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/pitchlane/internal/app"
	"github.com/okian/pitchlane/internal/domain/aggregate"
	"github.com/okian/pitchlane/internal/domain/model"
)

// ReportHandler serves sections of the latest report.
type ReportHandler struct {
	src ReportSource
}

// NewReportHandler creates a new report handler.
func NewReportHandler(src ReportSource) *ReportHandler {
	return &ReportHandler{src: src}
}

// latest writes 404 for non-GET requests and 503 when no report exists yet.
func (h *ReportHandler) latest(w http.ResponseWriter, r *http.Request) (*app.Report, bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return nil, false
	}
	rep := h.src.Latest()
	if rep == nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", ErrNotReady)
		return nil, false
	}
	return rep, true
}

// frameParam parses the optional ?frame=N query parameter.
func frameParam(r *http.Request) (int, bool, error) {
	raw := r.URL.Query().Get("frame")
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: frame must be an integer, got %q", ErrBadRequest, raw)
	}
	return n, true, nil
}

// HandleEvents handles GET /events.
func (h *ReportHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.latest(w, r); ok {
		writeJSON(w, http.StatusOK, rep.Events)
	}
}

// HandleWindows handles GET /windows.
func (h *ReportHandler) HandleWindows(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.latest(w, r); ok {
		writeJSON(w, http.StatusOK, rep.Windows)
	}
}

// HandlePairings handles GET /pairings and GET /pairings?frame=N.
func (h *ReportHandler) HandlePairings(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.latest(w, r)
	if !ok {
		return
	}
	frame, single, err := frameParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if !single {
		writeJSON(w, http.StatusOK, rep.Pairings)
		return
	}
	res, found := rep.Pairing(frame)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%w: %d", ErrNotFound, frame))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleInterceptions handles GET /interceptions and GET /interceptions?frame=N.
func (h *ReportHandler) HandleInterceptions(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.latest(w, r)
	if !ok {
		return
	}
	frame, single, err := frameParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if !single {
		writeJSON(w, http.StatusOK, rep.Interceptions)
		return
	}
	ev, found := rep.Interception(frame)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%w: %d", ErrNotFound, frame))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleObstructions handles GET /obstructions.
func (h *ReportHandler) HandleObstructions(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.latest(w, r); ok {
		writeJSON(w, http.StatusOK, rep.Obstructions)
	}
}

// HandleRows handles GET /rows: the report flattened into named-column tables.
func (h *ReportHandler) HandleRows(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.latest(w, r); ok {
		writeJSON(w, http.StatusOK, rep.Rows())
	}
}

// HandleMeanDistances handles GET /mean-distances.
func (h *ReportHandler) HandleMeanDistances(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.latest(w, r); ok {
		writeJSON(w, http.StatusOK, rep.MeanDistances)
	}
}

// HandleBallDistances handles GET /ball-distances?player=ID with an optional
// below=X or above=X threshold.
func (h *ReportHandler) HandleBallDistances(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.latest(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	player := q.Get("player")
	if player == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing player", ErrBadRequest))
		return
	}
	samples := rep.BallDistances(model.PlayerID(player))

	for _, side := range []struct {
		key string
		cmp aggregate.Comparison
	}{{"below", aggregate.Below}, {"above", aggregate.Above}} {
		raw := q.Get(side.key)
		if raw == "" {
			continue
		}
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s must be a number, got %q", ErrBadRequest, side.key, raw))
			return
		}
		samples = aggregate.FilterByThreshold(samples, threshold, side.cmp)
	}
	writeJSON(w, http.StatusOK, samples)
}

// HandleSeriesDistance handles GET /series-distance?a=ID&b=ID&interval=D.
// interval is a Go duration and defaults to one second.
func (h *ReportHandler) HandleSeriesDistance(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.latest(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	a, b := q.Get("a"), q.Get("b")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: both a and b are required", ErrBadRequest))
		return
	}
	interval := time.Second
	if raw := q.Get("interval"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: interval: %v", ErrBadRequest, err))
			return
		}
		interval = d
	}

	res, err := rep.SeriesDistance(model.PlayerID(a), model.PlayerID(b), interval)
	if errors.Is(err, aggregate.ErrInvalidBucket) {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
