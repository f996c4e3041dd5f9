package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/busfactor/guardian/internal/domain/guardian"
	"github.com/busfactor/guardian/internal/domain/model"
)

// pairKey is an order-insensitive key for a pair of person ids.
type pairKey struct {
	lo, hi string
}

func newPairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// MemoryStore is an in-memory Store guarded by a single RWMutex. All reads
// return copies so callers never alias internal state.
type MemoryStore struct {
	mu           sync.RWMutex
	people       map[string]model.Person
	demos        map[string]map[string]model.SkillDemonstration
	collabs      map[pairKey]model.CollaborationEdge
	conflicts    map[pairKey]model.Conflict
	availability map[string]map[string]float64
}

// NewMemoryStore creates an empty store and applies the options.
func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	m := &MemoryStore{
		people:       make(map[string]model.Person),
		demos:        make(map[string]map[string]model.SkillDemonstration),
		collabs:      make(map[pairKey]model.CollaborationEdge),
		conflicts:    make(map[pairKey]model.Conflict),
		availability: make(map[string]map[string]float64),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddPerson registers or replaces a person.
func (m *MemoryStore) AddPerson(p model.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.people[p.ID] = p
	if _, ok := m.demos[p.ID]; !ok {
		m.demos[p.ID] = make(map[string]model.SkillDemonstration)
	}
}

// AddDemonstration registers or replaces a (person, skill) relationship.
func (m *MemoryStore) AddDemonstration(personID string, d model.SkillDemonstration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byskill, ok := m.demos[personID]
	if !ok {
		byskill = make(map[string]model.SkillDemonstration)
		m.demos[personID] = byskill
	}
	byskill[d.Skill] = d
}

// SetCollaboration registers or replaces the edge between the two people
// named on it. Self edges are ignored.
func (m *MemoryStore) SetCollaboration(e model.CollaborationEdge) {
	if e.A == e.B {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collabs[newPairKey(e.A, e.B)] = e
}

// SetConflict registers or replaces the conflict between two people.
func (m *MemoryStore) SetConflict(c model.Conflict) {
	if c.A == c.B {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts[newPairKey(c.A, c.B)] = c
}

// SetAvailability records declared hours for one person in one period.
func (m *MemoryStore) SetAvailability(period, personID string, hours float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byperson, ok := m.availability[period]
	if !ok {
		byperson = make(map[string]float64)
		m.availability[period] = byperson
	}
	byperson[personID] = hours
}

// FindCandidates returns everyone demonstrating every required skill, in id
// order. Existence of the relationship is the gate, not its level.
func (m *MemoryStore) FindCandidates(ctx context.Context, skills []string) ([]guardian.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]guardian.Candidate, 0, len(m.people))
	for id, p := range m.people {
		if m.hasAll(id, skills) {
			out = append(out, m.candidate(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// candidate projects a person plus their demonstrated levels. Callers hold
// at least a read lock.
func (m *MemoryStore) candidate(p model.Person) guardian.Candidate {
	levels := make(map[string]float64)
	for skill, d := range m.demos[p.ID] {
		levels[skill] = d.Level
	}
	return guardian.Candidate{
		ID:         p.ID,
		Name:       p.Name,
		Role:       p.Role,
		Zone:       p.Zone,
		AccessTags: p.AccessTags,
		Levels:     levels,
	}
}

func (m *MemoryStore) hasAll(personID string, skills []string) bool {
	byskill := m.demos[personID]
	for _, s := range skills {
		if _, ok := byskill[s]; !ok {
			return false
		}
	}
	return true
}

// Availability returns declared hours for the given people in the period.
// People with no declaration are simply absent.
func (m *MemoryStore) Availability(ctx context.Context, ids []string, period string) (map[string]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]float64, len(ids))
	byperson := m.availability[period]
	for _, id := range ids {
		if h, ok := byperson[id]; ok {
			out[id] = h
		}
	}
	return out, nil
}

// CollaborationEdges returns the edges whose both endpoints are in ids.
func (m *MemoryStore) CollaborationEdges(ctx context.Context, ids []string) ([]model.CollaborationEdge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	in := idSet(ids)
	out := make([]model.CollaborationEdge, 0)
	for _, e := range m.collabs {
		if in[e.A] && in[e.B] {
			out = append(out, e)
		}
	}
	sortEdges(out)
	return out, nil
}

// Conflicts returns the declared conflicts whose both endpoints are in ids.
func (m *MemoryStore) Conflicts(ctx context.Context, ids []string) ([]model.Conflict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	in := idSet(ids)
	out := make([]model.Conflict, 0)
	for _, c := range m.conflicts {
		if in[c.A] && in[c.B] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out, nil
}

// EvidenceFor returns the person's demonstrations keyed by skill, restricted
// to the listed skills, or all of them when skills is empty.
func (m *MemoryStore) EvidenceFor(ctx context.Context, personID string, skills []string) (map[string]model.SkillDemonstration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byskill, ok := m.demos[personID]
	if !ok {
		if _, known := m.people[personID]; !known {
			return nil, fmt.Errorf("person %q: %w", personID, ErrNotFound)
		}
		return map[string]model.SkillDemonstration{}, nil
	}
	out := make(map[string]model.SkillDemonstration, len(byskill))
	if len(skills) == 0 {
		for skill, d := range byskill {
			out[skill] = copyDemo(d)
		}
	} else {
		for _, s := range skills {
			if d, ok := byskill[s]; ok {
				out[s] = copyDemo(d)
			}
		}
	}
	return out, nil
}

// Person resolves a single person by id.
func (m *MemoryStore) Person(ctx context.Context, id string) (model.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.people[id]
	if !ok {
		return model.Person{}, fmt.Errorf("person %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// People lists the whole directory in id order.
func (m *MemoryStore) People(ctx context.Context) ([]model.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Person, 0, len(m.people))
	for _, p := range m.people {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AllCollaborationEdges returns every stored edge.
func (m *MemoryStore) AllCollaborationEdges(ctx context.Context) ([]model.CollaborationEdge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.CollaborationEdge, 0, len(m.collabs))
	for _, e := range m.collabs {
		out = append(out, e)
	}
	sortEdges(out)
	return out, nil
}

// SkillHolders maps each skill to the sorted ids demonstrating it.
func (m *MemoryStore) SkillHolders(ctx context.Context) (map[string][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]string)
	for id, byskill := range m.demos {
		for skill := range byskill {
			out[skill] = append(out[skill], id)
		}
	}
	for skill := range out {
		sort.Strings(out[skill])
	}
	return out, nil
}

// Demonstrations flattens every stored relationship, ordered by person then
// skill.
func (m *MemoryStore) Demonstrations(ctx context.Context) ([]Demonstration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Demonstration, 0)
	for id, byskill := range m.demos {
		for _, d := range byskill {
			out = append(out, Demonstration{PersonID: id, SkillDemonstration: copyDemo(d)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PersonID != out[j].PersonID {
			return out[i].PersonID < out[j].PersonID
		}
		return out[i].Skill < out[j].Skill
	})
	return out, nil
}

// ApplyLevels applies a precomputed batch under a single write lock. Updates
// naming a missing relationship are skipped, the rest still land.
func (m *MemoryStore) ApplyLevels(ctx context.Context, batch []model.LevelUpdate) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	applied := 0
	for _, u := range batch {
		byskill, ok := m.demos[u.PersonID]
		if !ok {
			continue
		}
		d, ok := byskill[u.Skill]
		if !ok {
			continue
		}
		d.Level = u.Level
		byskill[u.Skill] = d
		applied++
	}
	return applied, nil
}

// Count returns the number of people tracked.
func (m *MemoryStore) Count(ctx context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.people)
}

func copyDemo(d model.SkillDemonstration) model.SkillDemonstration {
	out := d
	out.Evidence = make([]model.Evidence, len(d.Evidence))
	copy(out.Evidence, d.Evidence)
	return out
}

func idSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func sortEdges(edges []model.CollaborationEdge) {
	sort.Slice(edges, func(i, j int) bool {
		ki, kj := newPairKey(edges[i].A, edges[i].B), newPairKey(edges[j].A, edges[j].B)
		if ki.lo != kj.lo {
			return ki.lo < kj.lo
		}
		return ki.hi < kj.hi
	})
}
