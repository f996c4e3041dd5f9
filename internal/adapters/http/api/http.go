// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/busfactor/guardian/internal/domain/guardian"
	"github.com/busfactor/guardian/internal/domain/linchpin"
	"github.com/busfactor/guardian/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Recommend runs the proposal engine over a validated request.
	Recommend(ctx context.Context, req guardian.Request) ([]guardian.Proposal, error)

	// Linchpins runs the organization-wide risk scan.
	Linchpins(ctx context.Context) ([]linchpin.Record, error)

	// People lists the directory.
	People(ctx context.Context) ([]model.Person, error)

	// Profiles lists the supported mission profiles.
	Profiles() []guardian.Profile

	// RecomputeLevels rebuilds every skill level from evidence.
	RecomputeLevels(ctx context.Context) (int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler
	linchpinHandler  *LinchpinHandler
	profilesHandler  *ProfilesHandler
	peopleHandler    *PeopleHandler
	adminHandler     *AdminHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxTeamSize int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		recommendHandler: NewRecommendHandler(deps, maxTeamSize),
		linchpinHandler:  NewLinchpinHandler(deps),
		profilesHandler:  NewProfilesHandler(deps),
		peopleHandler:    NewPeopleHandler(deps),
		adminHandler:     NewAdminHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/people", MetricsMiddleware(s.peopleHandler.HandleGetPeople, "people"))
	mux.HandleFunc("/api/recommend", MetricsMiddleware(s.recommendHandler.HandleRecommend, "recommend"))
	mux.HandleFunc("/api/linchpins", MetricsMiddleware(s.linchpinHandler.HandleGetLinchpins, "linchpins"))
	mux.HandleFunc("/api/mission-profiles", MetricsMiddleware(s.profilesHandler.HandleGetProfiles, "mission_profiles"))
	mux.HandleFunc("/admin/recompute", MetricsMiddleware(s.adminHandler.HandleRecompute, "recompute"))
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
