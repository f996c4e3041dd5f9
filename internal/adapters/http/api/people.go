// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/busfactor/guardian/internal/domain/model"
)

// PeopleDependencies defines the interface for directory lookups.
type PeopleDependencies interface {
	People(ctx context.Context) ([]model.Person, error)
}

// PeopleHandler handles directory requests.
type PeopleHandler struct {
	deps PeopleDependencies
}

// NewPeopleHandler creates a new people handler.
func NewPeopleHandler(deps PeopleDependencies) *PeopleHandler {
	return &PeopleHandler{deps: deps}
}

type person struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Zone       string   `json:"zone"`
	AccessTags []string `json:"access_tags"`
}

// HandleGetPeople handles GET /people requests.
func (h *PeopleHandler) HandleGetPeople(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_people"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	people, err := h.deps.People(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]person, len(people))
	for i, p := range people {
		out[i] = person{
			ID:         p.ID,
			Name:       p.Name,
			Role:       p.Role,
			Zone:       p.Zone,
			AccessTags: emptyIfNil(p.AccessTags),
		}
	}
	writeJSON(w, http.StatusOK, out)
}
