package server

import (
	"context"
	"df-boss-monitor/internal/domain"
	"df-boss-monitor/internal/metrics"
	"df-boss-monitor/internal/middleware"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// SpawnLister is the read side of the dedup tracker.
type SpawnLister interface {
	Snapshot() map[domain.Category][]domain.Spawn
}

type spawnView struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	Name            string    `json:"name"`
	X               int       `json:"x"`
	Y               int       `json:"y"`
	Start           time.Time `json:"start_time"`
	End             time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	BunkerDirection string    `json:"bunker_direction,omitempty"`
}

type spawnsResponse struct {
	Mode  string      `json:"mode"`
	Big   []spawnView `json:"big"`
	Small []spawnView `json:"small"`
}

// StatusServer exposes read-only health, tracked spawns and metrics.
type StatusServer struct {
	spawns  SpawnLister
	metrics *metrics.Metrics
	mode    string
	started time.Time
	logger  zerolog.Logger
}

func NewStatusServer(spawns SpawnLister, m *metrics.Metrics, mode string, logger zerolog.Logger) *StatusServer {
	return &StatusServer{spawns: spawns, metrics: m, mode: mode, started: time.Now(), logger: logger}
}

func (s *StatusServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/spawns", s.handleSpawns)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return middleware.RequestID(s.logger)(c.Handler(mux))
}

func (s *StatusServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, map[string]any{
		"status": "ok",
		"mode":   s.mode,
		"uptime": time.Since(s.started).Truncate(time.Second).String(),
	})
}

func (s *StatusServer) handleSpawns(w http.ResponseWriter, r *http.Request) {
	snap := s.spawns.Snapshot()
	writeJSON(r.Context(), w, spawnsResponse{
		Mode:  s.mode,
		Big:   toViews(snap[domain.CategoryMajor]),
		Small: toViews(snap[domain.CategoryMinor]),
	})
}

func toViews(spawns []domain.Spawn) []spawnView {
	out := make([]spawnView, 0, len(spawns))
	for _, sp := range spawns {
		out = append(out, spawnView{
			ID:              sp.ID,
			EventID:         sp.EventID,
			Name:            sp.Name,
			X:               sp.Location.X,
			Y:               sp.Location.Y,
			Start:           sp.Start,
			End:             sp.End,
			DurationMinutes: sp.DurationMinutes,
			BunkerDirection: sp.BunkerDirection,
		})
	}
	return out
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to write response")
	}
}
