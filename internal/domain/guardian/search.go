package guardian

import (
	"context"
	"fmt"
	"sort"

	"github.com/busfactor/guardian/internal/domain/graph"
)

// Nucleus scoring puts one covered skill on par with ten points of weighted
// degree: coverage first, connectivity second.
const nucleusCoverageWeight = 10.0

// SearchEngine is the iterative-optimization lineage: a linchpin nucleus is
// grown greedily under a mode-specific utility, then refined by
// first-improvement member swaps. The refinement is hill-climbing with a
// bounded pass count; it terminates without external timeouts but does not
// guarantee a global optimum.
type SearchEngine struct {
	src   Source
	rater RiskRater
	cfg   settings
}

// NewSearchEngine creates the iterative search engine.
func NewSearchEngine(src Source, rater RiskRater, opts ...Option) *SearchEngine {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &SearchEngine{src: src, rater: rater, cfg: cfg}
}

// Propose produces one proposal per search mode (balance, cohesion,
// redundancy). Proposals whose team carries a conflict edge are dropped, not
// repaired. An empty candidate pool yields an empty list.
func (e *SearchEngine) Propose(ctx context.Context, req Request) ([]Proposal, error) {
	pool, err := e.cfg.assemble(ctx, e.src, req)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	edges, err := e.src.CollaborationEdges(ctx, candidateIDs(pool))
	if err != nil {
		return nil, fmt.Errorf("collaboration edges: %w", err)
	}
	g := graph.Build(candidateIDs(pool), edges, graph.WithNow(e.cfg.now))

	k := e.cfg.targetSize(req)
	prof := ProfileByID(req.Profile)
	nucleus := e.nucleus(pool, req.Skills, g, k)

	proposals := make([]Proposal, 0, len(utilityModes))
	for _, mode := range []string{ModeBalance, ModeCohesion, ModeRedundancy} {
		team := e.grow(mode, nucleus, pool, req.Skills, g, k, prof)
		team = e.refine(team, pool, req.Skills, g, prof)

		ok, err := conflictFree(ctx, e.src, team)
		if err != nil {
			return nil, err
		}
		if !ok {
			e.cfg.rejectConflict()
			continue
		}

		p, err := e.cfg.buildProposal(ctx, e.src, e.rater, mode, team, req.Skills, g)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

// nucleus picks up to nucleusSize seed members by local linchpin score:
// competent coverage of required skills, then weighted connectivity. Ties
// keep the pool's natural order.
func (e *SearchEngine) nucleus(pool []Candidate, skills []string, g *graph.Graph, k int) []Candidate {
	type scored struct {
		c     Candidate
		score float64
	}
	ranked := make([]scored, 0, len(pool))
	for _, c := range pool {
		coverage := 0
		for _, skill := range skills {
			if c.Levels[skill] >= competentLevel {
				coverage++
			}
		}
		ranked = append(ranked, scored{
			c:     c,
			score: nucleusCoverageWeight*float64(coverage) + g.WeightedDegree(c.ID),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := min(e.cfg.nucleusSize, min(len(ranked), k))
	seeds := make([]Candidate, n)
	for i := range seeds {
		seeds[i] = ranked[i].c
	}
	return seeds
}

// grow augments the nucleus greedily: each step adds the remaining candidate
// that maximizes the mode utility of the resulting team. Strictly-greater
// comparison keeps the earliest candidate on ties.
func (e *SearchEngine) grow(mode string, nucleus, pool []Candidate, skills []string, g *graph.Graph, k int, prof *Profile) []Candidate {
	team := make([]Candidate, len(nucleus))
	copy(team, nucleus)
	remaining := subtract(pool, team)

	for len(team) < k && len(remaining) > 0 {
		bestIdx := -1
		bestUtility := 0.0
		for i, cand := range remaining {
			trial := append(append([]Candidate{}, team...), cand)
			u := e.cfg.utility(mode, e.cfg.teamMetrics(trial, skills, g), trial, prof)
			if bestIdx < 0 || u > bestUtility {
				bestIdx = i
				bestUtility = u
			}
		}
		team = append(team, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return team
}

// refine hill-climbs with single-member swaps: the first substitution that
// improves the balance utility by more than epsilon is accepted and the scan
// restarts. Stops after a full pass with no improvement or after maxPasses.
func (e *SearchEngine) refine(team, pool []Candidate, skills []string, g *graph.Graph, prof *Profile) []Candidate {
	remaining := subtract(pool, team)

	for pass := 0; pass < e.cfg.maxPasses; pass++ {
		current := e.cfg.utility(ModeBalance, e.cfg.teamMetrics(team, skills, g), team, prof)
		improved := false
		for i := range team {
			for j, cand := range remaining {
				trial := make([]Candidate, len(team))
				copy(trial, team)
				trial[i] = cand
				u := e.cfg.utility(ModeBalance, e.cfg.teamMetrics(trial, skills, g), trial, prof)
				if u > current+e.cfg.epsilon {
					out := team[i]
					team = trial
					remaining[j] = out
					improved = true
					break
				}
			}
			if improved {
				break
			}
		}
		if !improved {
			break
		}
	}
	return team
}

// subtract returns pool minus the members of team, preserving pool order.
func subtract(pool, team []Candidate) []Candidate {
	out := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		in := false
		for _, t := range team {
			if t.ID == c.ID {
				in = true
				break
			}
		}
		if !in {
			out = append(out, c)
		}
	}
	return out
}
