// Package api serves the latest analysis report over HTTP as read-only JSON.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/pitchlane/internal/app"
)

// ReportSource yields the most recent analysis report, or nil before the
// first run has finished.
type ReportSource interface {
	Latest() *app.Report
}

// Server wires HTTP routes for the read API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	reportHandler *ReportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(src ReportSource, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		reportHandler: NewReportHandler(src),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.reportHandler.HandleEvents, "events"))
	mux.HandleFunc("/windows", MetricsMiddleware(s.reportHandler.HandleWindows, "windows"))
	mux.HandleFunc("/pairings", MetricsMiddleware(s.reportHandler.HandlePairings, "pairings"))
	mux.HandleFunc("/interceptions", MetricsMiddleware(s.reportHandler.HandleInterceptions, "interceptions"))
	mux.HandleFunc("/obstructions", MetricsMiddleware(s.reportHandler.HandleObstructions, "obstructions"))
	mux.HandleFunc("/mean-distances", MetricsMiddleware(s.reportHandler.HandleMeanDistances, "mean_distances"))
	mux.HandleFunc("/rows", MetricsMiddleware(s.reportHandler.HandleRows, "rows"))
	mux.HandleFunc("/ball-distances", MetricsMiddleware(s.reportHandler.HandleBallDistances, "ball_distances"))
	mux.HandleFunc("/series-distance", MetricsMiddleware(s.reportHandler.HandleSeriesDistance, "series_distance"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
