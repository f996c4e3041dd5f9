package guardian

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/busfactor/guardian/internal/domain/graph"
	"github.com/busfactor/guardian/internal/domain/model"
)

// assemble runs the shared front half of the pipeline: hard filtering,
// availability filtering and overrides. The returned slice preserves the
// source's natural candidate ordering, which later stages use to break ties.
func (s settings) assemble(ctx context.Context, src Source, req Request) ([]Candidate, error) {
	candidates, err := src.FindCandidates(ctx, req.Skills)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	candidates = filterAccessZone(candidates, req)

	candidates, err = s.filterAvailability(ctx, src, candidates, req)
	if err != nil {
		return nil, err
	}

	return s.applyOverrides(ctx, src, candidates, req)
}

// filterAccessZone drops candidates failing the optional access-tag and zone
// constraints. Both are hard gates when specified.
func filterAccessZone(candidates []Candidate, req Request) []Candidate {
	if len(req.AccessTags) == 0 && len(req.Zones) == 0 {
		return candidates
	}
	out := candidates[:0]
	for _, c := range candidates {
		if len(req.AccessTags) > 0 && !hasAnyTag(c.AccessTags, req.AccessTags) {
			continue
		}
		if len(req.Zones) > 0 && !slices.Contains(req.Zones, c.Zone) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

// filterAvailability excludes candidates below the hours threshold for the
// requested period. Without a period and threshold, everyone is assumed
// full-time and nothing is filtered. Missing availability entries mean 0
// hours, which the threshold then excludes.
func (s settings) filterAvailability(ctx context.Context, src Source, candidates []Candidate, req Request) ([]Candidate, error) {
	if req.Period == "" || req.MinHours <= 0 {
		for i := range candidates {
			candidates[i].Hours = s.defaultHours
		}
		return candidates, nil
	}

	ids := candidateIDs(candidates)
	hours, err := src.Availability(ctx, ids, req.Period)
	if err != nil {
		return nil, fmt.Errorf("availability lookup: %w", err)
	}

	out := candidates[:0]
	for _, c := range candidates {
		c.Hours = hours[c.ID]
		if c.Hours >= req.MinHours {
			out = append(out, c)
		}
	}
	return out, nil
}

// applyOverrides removes force-excluded ids unconditionally and appends
// force-included people even when they failed earlier filters. Includes that
// do not exist in the data source are skipped silently.
func (s settings) applyOverrides(ctx context.Context, src Source, candidates []Candidate, req Request) ([]Candidate, error) {
	if len(req.ForceExclude) > 0 {
		out := candidates[:0]
		for _, c := range candidates {
			if !slices.Contains(req.ForceExclude, c.ID) {
				out = append(out, c)
			}
		}
		candidates = out
	}

	for _, id := range req.ForceInclude {
		if slices.Contains(req.ForceExclude, id) {
			continue
		}
		if slices.ContainsFunc(candidates, func(c Candidate) bool { return c.ID == id }) {
			continue
		}
		p, err := src.Person(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve override %s: %w", id, err)
		}
		demos, err := src.EvidenceFor(ctx, id, req.Skills)
		if err != nil {
			return nil, fmt.Errorf("resolve override %s: %w", id, err)
		}
		levels := make(map[string]float64, len(demos))
		for skill, d := range demos {
			levels[skill] = d.Level
		}
		candidates = append(candidates, Candidate{
			ID:         p.ID,
			Name:       p.Name,
			Role:       p.Role,
			Zone:       p.Zone,
			AccessTags: p.AccessTags,
			Levels:     levels,
			Hours:      s.defaultHours,
			Forced:     true,
		})
	}
	return candidates, nil
}

// conflictFree reports whether a team has no conflict or manual-constraint
// edge between any two members. Teams that fail are discarded, never
// repaired.
func conflictFree(ctx context.Context, src Source, team []Candidate) (bool, error) {
	if len(team) < 2 {
		return true, nil
	}
	ids := candidateIDs(team)
	conflicts, err := src.Conflicts(ctx, ids)
	if err != nil {
		return false, fmt.Errorf("conflict lookup: %w", err)
	}
	for _, c := range conflicts {
		if slices.Contains(ids, c.A) && slices.Contains(ids, c.B) {
			return false, nil
		}
	}
	return true, nil
}

// competentLevel is the threshold above which a member counts for nucleus
// coverage and SPoF redundancy.
const competentLevel = 3.0

// teamMetrics computes the explainable metrics snapshot for a team.
func (s settings) teamMetrics(team []Candidate, skills []string, g *graph.Graph) TeamMetrics {
	var m TeamMetrics
	if len(skills) == 0 || len(team) == 0 {
		return m
	}

	covered := make(map[string]bool, len(skills))
	var levels []float64
	for _, c := range team {
		for _, skill := range skills {
			if lvl, ok := c.Levels[skill]; ok && lvl >= 1 {
				covered[skill] = true
				levels = append(levels, lvl)
			}
		}
	}
	m.SkillCoverage = float64(len(covered)) / float64(len(skills))
	if len(levels) > 0 {
		m.Experience = mean(levels) / 5.0
	}

	if len(team) > 1 {
		pairs := float64(len(team)*(len(team)-1)) / 2
		cohesion := g.PairStrengthSum(candidateIDs(team)) / (pairs * s.maxEdgeWeight)
		m.Cohesion = min(1.0, cohesion)
	}

	var spof int
	for _, skill := range skills {
		holders := 0
		for _, c := range team {
			if c.Levels[skill] >= competentLevel {
				holders++
			}
		}
		if holders == 1 {
			spof++
		}
	}
	m.SPOFRisk = float64(spof) / float64(len(skills))
	return m
}

// modeWeights parameterize a utility function over the metric components.
type modeWeights struct {
	coverage   float64
	cohesion   float64
	experience float64
	spofAvoid  float64 // weight on (1 - SPoF)
	spofPen    float64 // direct penalty on SPoF
}

var utilityModes = map[string]modeWeights{
	ModeBalance:    {coverage: 0.5, cohesion: 0.35, experience: 0.2, spofPen: 0.15},
	ModeCohesion:   {coverage: 0.2, cohesion: 0.7, spofAvoid: 0.1},
	ModeRedundancy: {coverage: 0.5, experience: 0.1, spofAvoid: 0.4},
}

// Iterative search modes.
const (
	ModeBalance    = "balance"
	ModeCohesion   = "cohesion"
	ModeRedundancy = "redundancy"
)

// availTermWeight keeps the profile availability term from dominating the
// metric components, which all live in [0,1].
const availTermWeight = 0.1

// utility evaluates a team under a mode's weights, biased by the mission
// profile when one is active.
func (s settings) utility(mode string, m TeamMetrics, team []Candidate, prof *Profile) float64 {
	w := utilityModes[mode]
	if prof == nil {
		return w.coverage*m.SkillCoverage +
			w.cohesion*m.Cohesion +
			w.experience*m.Experience +
			w.spofAvoid*(1-m.SPOFRisk) -
			w.spofPen*m.SPOFRisk
	}

	pw := prof.Weights
	u := w.coverage*m.SkillCoverage +
		w.cohesion*pw.Collaboration*m.Cohesion +
		w.experience*pw.SkillLevel*m.Experience +
		w.spofAvoid*(1-pw.LinchpinPenalty*m.SPOFRisk) -
		w.spofPen*pw.LinchpinPenalty*m.SPOFRisk
	if len(team) > 0 {
		var hours []float64
		for _, c := range team {
			hours = append(hours, c.Hours)
		}
		u += availTermWeight * pw.Availability * (mean(hours) / s.defaultHours)
	}
	return u
}

// candidateScore is the mean level over required skills, the per-person
// score shown on dossiers.
func candidateScore(c Candidate, skills []string) float64 {
	if len(skills) == 0 {
		return 1.0
	}
	var total float64
	for _, skill := range skills {
		total += c.Levels[skill]
	}
	return round2(total / float64(len(skills)))
}

func candidateIDs(cs []Candidate) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sortEvidence orders evidence most recent first; undated items sort last
// and keep their relative order.
func sortEvidence(evs []model.Evidence) []model.Evidence {
	out := make([]model.Evidence, len(evs))
	copy(out, evs)
	sort.SliceStable(out, func(i, j int) bool {
		switch {
		case out[i].Dated() && !out[j].Dated():
			return true
		case !out[i].Dated():
			return false
		default:
			return out[i].Date.After(out[j].Date)
		}
	})
	return out
}
