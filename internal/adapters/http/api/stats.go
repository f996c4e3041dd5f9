// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// StatsProvider supplies the loosely typed service snapshot behind /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the operational snapshot of the recommendation service.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// statsResponse is the typed wire shape for /stats. Keys the provider does
// not report serialize as zero values.
type statsResponse struct {
	Started     bool   `json:"started"`
	Optimizer   string `json:"optimizer"`
	TeamSize    int    `json:"team_size"`
	MaxTeamSize int    `json:"max_team_size"`
	TotalPeople int    `json:"total_people"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := h.statsProvider.GetStats()
	writeJSON(w, http.StatusOK, statsResponse{
		Started:     boolStat(stats, "started"),
		Optimizer:   stringStat(stats, "optimizer"),
		TeamSize:    intStat(stats, "teamSize"),
		MaxTeamSize: intStat(stats, "maxTeamSize"),
		TotalPeople: intStat(stats, "totalPeople"),
	})
}

func boolStat(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func stringStat(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

func intStat(m map[string]interface{}, key string) int {
	v, _ := m[key].(int)
	return v
}
