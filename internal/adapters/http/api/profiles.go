// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/busfactor/guardian/internal/domain/guardian"
)

// ProfileDependencies defines the interface for mission profile lookups.
type ProfileDependencies interface {
	Profiles() []guardian.Profile
}

// ProfilesHandler handles mission profile requests.
type ProfilesHandler struct {
	deps ProfileDependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps ProfileDependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

type profileWeights struct {
	SkillLevel      float64 `json:"skill_level"`
	Availability    float64 `json:"availability"`
	Collaboration   float64 `json:"collaboration"`
	LinchpinPenalty float64 `json:"linchpin_penalty"`
}

type missionProfile struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Weights           profileWeights `json:"weights"`
	StrategyHint      string         `json:"strategy_hint"`
	MinSkillThreshold float64        `json:"min_skill_threshold"`
}

// HandleGetProfiles handles GET /api/mission-profiles requests.
func (h *ProfilesHandler) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	profiles := h.deps.Profiles()
	out := make([]missionProfile, len(profiles))
	for i, p := range profiles {
		out[i] = missionProfile{
			ID:                p.ID,
			Name:              p.Name,
			Description:       p.Description,
			Weights:           profileWeights(p.Weights),
			StrategyHint:      p.StrategyHint,
			MinSkillThreshold: p.MinSkillThreshold,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
