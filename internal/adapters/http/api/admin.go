// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// AdminDependencies defines the interface for administrative operations.
type AdminDependencies interface {
	RecomputeLevels(ctx context.Context) (int, error)
}

// AdminHandler handles administrative requests.
type AdminHandler struct {
	deps AdminDependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

type recomputeResponse struct {
	Updated int `json:"updated"`
}

// HandleRecompute handles POST /admin/recompute requests.
func (h *AdminHandler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "api.recompute"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	updated, err := h.deps.RecomputeLevels(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, recomputeResponse{Updated: updated})
}
