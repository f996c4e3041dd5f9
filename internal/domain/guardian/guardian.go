// Package guardian assembles mission teams from hard constraints and a
// strategy choice.
//
// The package implements two optimizer lineages behind one Engine interface:
// an iterative search (greedy construction refined by hill-climbing swaps)
// and a set of fixed named strategies. A deployment instantiates exactly one
// of them; they are never mixed in a single response.
//
// Everything here is a pure function of the graph snapshot handed in through
// the Source port: no internal caches, no retries, no shared mutable state.
// Concurrent Propose calls are safe as long as each holds its own Source
// session.
package guardian

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/busfactor/guardian/internal/domain/linchpin"
	"github.com/busfactor/guardian/internal/domain/model"
)

// ErrNotFound signals that an identifier does not exist in the data source.
// Force-include overrides naming unknown people are skipped, not failed.
var ErrNotFound = errors.New("person not found")

// Request describes one team recommendation call.
type Request struct {
	Skills       []string // every member candidate must hold all of these
	AccessTags   []string // optional: at least one tag must match
	Zones        []string // optional: candidate zone must be listed
	TeamSize     int      // target size; 0 falls back to the engine default
	Period       string   // availability period, e.g. "2026-W10"
	MinHours     float64  // availability threshold; 0 disables the filter
	Profile      string   // mission profile name; empty for baseline weights
	ForceInclude []string
	ForceExclude []string
}

// Candidate is a person projected against the request's required skills.
type Candidate struct {
	ID         string
	Name       string
	Role       string
	Zone       string
	AccessTags []string
	Levels     map[string]float64 // required skill -> level
	Hours      float64            // availability for the requested period
	Forced     bool               // included by override, not by criteria
}

// Source is the synchronous read capability the engine needs from the graph
// store. Implementations must scope edge and conflict lookups to the given
// id set. Lookup failures surface as errors of the calling operation; the
// engine never substitutes empty data for a hard dependency.
type Source interface {
	// FindCandidates returns only people possessing every listed skill.
	FindCandidates(ctx context.Context, skills []string) ([]Candidate, error)

	// Availability maps person id to hours for the period; missing entries
	// mean 0 hours.
	Availability(ctx context.Context, ids []string, period string) (map[string]float64, error)

	// CollaborationEdges returns interaction records restricted to pairs
	// where both endpoints are in ids.
	CollaborationEdges(ctx context.Context, ids []string) ([]model.CollaborationEdge, error)

	// Conflicts returns conflict and manual-constraint edges within ids.
	Conflicts(ctx context.Context, ids []string) ([]model.Conflict, error)

	// EvidenceFor returns the skill demonstrations of one person, restricted
	// to the listed skills.
	EvidenceFor(ctx context.Context, id string, skills []string) (map[string]model.SkillDemonstration, error)

	// Person resolves display identity; ErrNotFound for unknown ids.
	Person(ctx context.Context, id string) (model.Person, error)
}

// RiskRater exposes per-person linchpin risk to the dossier builder.
type RiskRater interface {
	RiskFor(ctx context.Context, id string) (linchpin.Risk, error)
}

// Engine produces team proposals for a request.
type Engine interface {
	// Propose returns zero or more proposals. An empty result is not an
	// error: it means no candidate survived the hard filters.
	Propose(ctx context.Context, req Request) ([]Proposal, error)
}

// Member is one proposed team member with display identity attached.
type Member struct {
	ID     string
	Name   string
	Role   string
	Score  float64 // mean level over required skills
	Hours  float64
	Forced bool
	Risk   linchpin.Risk
}

// TeamMetrics is the explainable metrics snapshot attached to a proposal.
type TeamMetrics struct {
	SkillCoverage float64 // fraction of required skills covered
	Experience    float64 // mean level / 5
	Cohesion      float64 // normalized intra-team edge strength
	SPOFRisk      float64 // fraction of skills held competently by one member
}

// SkillJustification backs one member's claim on one skill with evidence.
type SkillJustification struct {
	Skill    string
	Level    float64
	Evidence []model.Evidence // most recent first, capped
}

// Justification groups a member's per-skill evidence.
type Justification struct {
	MemberID string
	Skills   []SkillJustification
}

// Verdict is the executive summary's categorical recommendation.
type Verdict string

const (
	VerdictApprove Verdict = "APPROVE"
	VerdictReview  Verdict = "REVIEW"
	VerdictReject  Verdict = "REJECT"
)

// Summary condenses a proposal into at most three positive and three
// negative observations plus a verdict.
type Summary struct {
	Pros    []string
	Cons    []string
	Verdict Verdict
}

// Proposal is one immutable team dossier.
type Proposal struct {
	Strategy       string // e.g. "balance" or "safe_bet"
	Title          string
	Description    string
	Members        []Member
	Metrics        TeamMetrics
	Justifications []Justification
	Summary        Summary
	RiskNotes      []string
	TotalScore     float64
}

// settings holds tuning shared by both engine lineages. The local-search
// constants are heuristics without a derivation; they stay configurable
// rather than hard-coded.
type settings struct {
	teamSize           int
	defaultHours       float64
	nucleusSize        int
	maxPasses          int
	epsilon            float64
	maxEdgeWeight      float64
	topEvidence        int
	now                func() time.Time
	onConflictRejected func()
}

// rejectConflict reports a candidate team dropped for violating a declared
// conflict.
func (s settings) rejectConflict() {
	if s.onConflictRejected != nil {
		s.onConflictRejected()
	}
}

// Default engine tuning.
const (
	defaultTeamSize      = 5
	defaultFullTimeHours = 40
	defaultNucleusSize   = 2
	defaultMaxPasses     = 10
	defaultSwapEpsilon   = 1e-6
	// Empirical ceiling for a single edge strength, used to normalize
	// cohesion into [0,1].
	defaultMaxEdgeWeight = 10.0
	defaultTopEvidence   = 3
)

func defaultSettings() settings {
	return settings{
		teamSize:      defaultTeamSize,
		defaultHours:  defaultFullTimeHours,
		nucleusSize:   defaultNucleusSize,
		maxPasses:     defaultMaxPasses,
		epsilon:       defaultSwapEpsilon,
		maxEdgeWeight: defaultMaxEdgeWeight,
		topEvidence:   defaultTopEvidence,
		now:           time.Now,
	}
}

func (s settings) targetSize(req Request) int {
	if req.TeamSize > 0 {
		return req.TeamSize
	}
	return s.teamSize
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
