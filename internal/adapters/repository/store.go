// Package repository provides the organization store backing the engine's
// Source port, plus the organization-wide queries the linchpin detector
// needs.
package repository

import (
	"context"

	"github.com/busfactor/guardian/internal/domain/guardian"
	"github.com/busfactor/guardian/internal/domain/model"
)

// Demonstration is one (person, skill) relationship as stored, used by the
// batch level recompute.
type Demonstration struct {
	PersonID string
	model.SkillDemonstration
}

// Store is the synchronous read (and narrow write) capability the service
// needs. It extends the engine's Source port with organization-wide scans
// and the atomic level batch apply.
type Store interface {
	guardian.Source

	// People lists everyone in the directory, ordered by id.
	People(ctx context.Context) ([]model.Person, error)

	// AllCollaborationEdges returns the unscoped organization-wide
	// collaboration scan used for centrality.
	AllCollaborationEdges(ctx context.Context) ([]model.CollaborationEdge, error)

	// SkillHolders maps every skill name to the ids demonstrating it.
	SkillHolders(ctx context.Context) (map[string][]string, error)

	// Demonstrations flattens every stored (person, skill) relationship.
	Demonstrations(ctx context.Context) ([]Demonstration, error)

	// ApplyLevels applies a fully computed batch of level updates
	// atomically and reports how many relationships changed. A failed
	// batch leaves no relationship half-recomputed.
	ApplyLevels(ctx context.Context, batch []model.LevelUpdate) (int, error)

	// Count returns the number of people tracked.
	Count(ctx context.Context) int
}
