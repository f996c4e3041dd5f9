package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/busfactor/guardian/internal/domain/model"
)

// Snapshot is the on-disk dataset format: a full organization dump suitable
// for bootstrapping a store. Evidence entries may be plain URL strings or
// legacy JSON objects; both are normalized on load.
type Snapshot struct {
	People         []SnapshotPerson              `json:"people"`
	Collaborations []SnapshotEdge                `json:"collaborations"`
	Conflicts      []SnapshotConflict            `json:"conflicts"`
	Availability   map[string]map[string]float64 `json:"availability"` // period -> person id -> hours
}

type SnapshotPerson struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	Zone       string          `json:"zone"`
	AccessTags []string        `json:"access_tags"`
	Skills     []SnapshotSkill `json:"skills"`
}

type SnapshotSkill struct {
	Name      string            `json:"name"`
	Level     float64           `json:"level"`
	LastShown string            `json:"last_shown"`
	Evidence  []json.RawMessage `json:"evidence"`
}

type SnapshotEdge struct {
	A               string  `json:"a"`
	B               string  `json:"b"`
	SharedProjects  int     `json:"shared_projects"`
	Positive        int     `json:"positive"`
	Conflictive     int     `json:"conflictive"`
	Frequency       float64 `json:"frequency"`
	LastInteraction string  `json:"last_interaction"`
}

type SnapshotConflict struct {
	A    string `json:"a"`
	B    string `json:"b"`
	Kind string `json:"kind"`
}

// ReadSnapshot parses a snapshot file.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshot, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshot, err)
	}
	return &snap, nil
}

// Load seeds the store from a snapshot. Existing entries with the same keys
// are replaced.
func (m *MemoryStore) Load(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrSnapshot)
	}
	for _, sp := range snap.People {
		if sp.ID == "" {
			return fmt.Errorf("%w: person with empty id", ErrSnapshot)
		}
		m.AddPerson(model.Person{
			ID:         sp.ID,
			Name:       sp.Name,
			Role:       sp.Role,
			Zone:       sp.Zone,
			AccessTags: sp.AccessTags,
		})
		for _, sk := range sp.Skills {
			d := model.SkillDemonstration{
				Skill: sk.Name,
				Level: sk.Level,
			}
			if ls, ok := model.ParseEvidenceDate(sk.LastShown); ok {
				d.LastShown = ls
			}
			for _, raw := range sk.Evidence {
				d.Evidence = append(d.Evidence, parseRawEvidence(raw))
			}
			m.AddDemonstration(sp.ID, d)
		}
	}
	for _, se := range snap.Collaborations {
		e := model.CollaborationEdge{
			A:              se.A,
			B:              se.B,
			SharedProjects: se.SharedProjects,
			Positive:       se.Positive,
			Conflictive:    se.Conflictive,
			Frequency:      se.Frequency,
		}
		if li, ok := model.ParseEvidenceDate(se.LastInteraction); ok {
			e.LastInteraction = li
		}
		m.SetCollaboration(e)
	}
	for _, sc := range snap.Conflicts {
		m.SetConflict(model.Conflict{
			A:    sc.A,
			B:    sc.B,
			Kind: model.ConflictKind(sc.Kind),
		})
	}
	for period, byperson := range snap.Availability {
		for id, hours := range byperson {
			m.SetAvailability(period, id, hours)
		}
	}
	return nil
}

// parseRawEvidence accepts either a JSON string (plain URL or encoded legacy
// object) or an inline JSON object.
func parseRawEvidence(raw json.RawMessage) model.Evidence {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return model.ParseEvidence(s)
	}
	return model.ParseEvidence(string(raw))
}
