// Package model contains domain models passed between layers.
package model

import "time"

// Person is an organization member as the directory knows them.
// The engine treats people as read-mostly input; it never mutates them.
type Person struct {
	ID         string   // unique, stable identifier
	Name       string   // display name
	Role       string   // free-text role, e.g. "backend engineer"
	Zone       string   // location tag, e.g. "PE/Lima"
	AccessTags []string // systems/clearances this person holds
}

// SkillDemonstration relates a person to a skill. Level is derived from the
// evidence list and is recomputed on demand, never hand-edited.
type SkillDemonstration struct {
	Skill     string
	Level     float64   // [1.0, 5.0], derived
	LastShown time.Time // most recent demonstration; zero when unknown
	Evidence  []Evidence
}

// CollaborationEdge carries the raw pairwise interaction counters between two
// people. The engine only derives an edge strength from it.
type CollaborationEdge struct {
	A, B            string
	SharedProjects  int
	Positive        int
	Conflictive     int
	Frequency       float64
	LastInteraction time.Time // zero when unknown
}

// ConflictKind distinguishes organically recorded conflicts from HR-imposed
// manual constraints. Both are equally disqualifying for a team.
type ConflictKind string

const (
	ConflictOrganic ConflictKind = "organic"
	ConflictManual  ConflictKind = "manual"
)

// Conflict is a hard-exclusion relation between two people.
type Conflict struct {
	A, B string
	Kind ConflictKind
}

// LevelUpdate is one element of an immutable recompute batch: the new level
// for a (person, skill) pair. Batches are computed fully before any write.
type LevelUpdate struct {
	PersonID   string
	Skill      string
	Level      float64
	ComputedAt time.Time
}
