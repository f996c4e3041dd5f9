// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/busfactor/guardian/internal/domain/linchpin"
)

// LinchpinDependencies defines the interface for linchpin scan operations.
type LinchpinDependencies interface {
	Linchpins(ctx context.Context) ([]linchpin.Record, error)
}

// LinchpinHandler handles linchpin scan requests.
type LinchpinHandler struct {
	deps LinchpinDependencies
}

// NewLinchpinHandler creates a new linchpin handler.
func NewLinchpinHandler(deps LinchpinDependencies) *LinchpinHandler {
	return &LinchpinHandler{deps: deps}
}

type linchpinRecord struct {
	PersonID       string   `json:"person_id"`
	Centrality     float64  `json:"centrality"`
	UniqueSkills   []string `json:"unique_skills"`
	Risk           string   `json:"risk"`
	Recommendation string   `json:"recommendation"`
}

// HandleGetLinchpins handles GET /api/linchpins requests.
func (h *LinchpinHandler) HandleGetLinchpins(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_linchpins"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	records, err := h.deps.Linchpins(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]linchpinRecord, len(records))
	for i, rec := range records {
		out[i] = linchpinRecord{
			PersonID:       rec.ID,
			Centrality:     rec.Centrality,
			UniqueSkills:   emptyIfNil(rec.UniqueSkills),
			Risk:           rec.Risk.String(),
			Recommendation: rec.Recommendation,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
