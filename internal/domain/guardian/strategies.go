package guardian

import (
	"context"
	"fmt"
	"sort"

	"github.com/busfactor/guardian/internal/domain/graph"
	"github.com/busfactor/guardian/internal/domain/model"
)

// Named strategies of the fixed-strategy lineage.
const (
	StrategySafeBet = "safe_bet"
	StrategyGrowth  = "growth"
	StrategySpeed   = "speed"
)

// Growth team stratification thresholds and mix.
const (
	seniorLevel     = 4.0
	juniorLevel     = 3.0
	seniorShare     = 0.4
	juniorShare     = 0.2
	speedFreqWeight = 0.5
)

// StrategyEngine is the named-strategy lineage: three fixed compositions
// (Safe Bet, Growth Team, Speed Squad) ranked without graph search. Each
// strategy passes the conflict filter independently; one with a
// disqualifying pair is dropped from the response.
type StrategyEngine struct {
	src   Source
	rater RiskRater
	cfg   settings
}

// NewStrategyEngine creates the named-strategy engine.
func NewStrategyEngine(src Source, rater RiskRater, opts ...Option) *StrategyEngine {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &StrategyEngine{src: src, rater: rater, cfg: cfg}
}

// Propose produces up to three named-strategy proposals.
func (e *StrategyEngine) Propose(ctx context.Context, req Request) ([]Proposal, error) {
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
	teams := map[string][]Candidate{
		StrategySafeBet: e.safeBet(pool, req.Skills, k),
		StrategyGrowth:  e.growth(pool, req.Skills, k),
		StrategySpeed:   e.speed(pool, edges, k),
	}

	proposals := make([]Proposal, 0, len(teams))
	for _, strategy := range []string{StrategySafeBet, StrategyGrowth, StrategySpeed} {
		team := teams[strategy]
		ok, err := conflictFree(ctx, e.src, team)
		if err != nil {
			return nil, err
		}
		if !ok {
			e.cfg.rejectConflict()
			continue
		}
		p, err := e.cfg.buildProposal(ctx, e.src, e.rater, strategy, team, req.Skills, g)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

// safeBet ranks by skill score, then availability, both descending.
func (e *StrategyEngine) safeBet(pool []Candidate, skills []string, k int) []Candidate {
	ranked := make([]Candidate, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := candidateScore(ranked[i], skills), candidateScore(ranked[j], skills)
		if si != sj {
			return si > sj
		}
		return ranked[i].Hours > ranked[j].Hours
	})
	return takeN(ranked, k)
}

// growth stratifies the pool into seniors, mid-levels and juniors and
// assembles roughly a 40/40/20 mix, padding from the remainder when a
// stratum runs short.
func (e *StrategyEngine) growth(pool []Candidate, skills []string, k int) []Candidate {
	var seniors, mids, juniors []Candidate
	for _, c := range pool {
		switch score := candidateScore(c, skills); {
		case score >= seniorLevel:
			seniors = append(seniors, c)
		case score < juniorLevel:
			juniors = append(juniors, c)
		default:
			mids = append(mids, c)
		}
	}

	seniorCount := max(1, int(float64(k)*seniorShare))
	juniorCount := max(1, int(float64(k)*juniorShare))
	midCount := max(0, k-seniorCount-juniorCount)

	team := takeN(seniors, seniorCount)
	team = append(team, takeN(mids, midCount)...)
	team = append(team, takeN(juniors, juniorCount)...)
	team = takeN(team, k)

	// Pad from anyone left when the strata were under-filled.
	for _, c := range subtract(pool, team) {
		if len(team) >= k {
			break
		}
		team = append(team, c)
	}
	return team
}

// speed ranks purely by aggregated historical collaboration weight: shared
// projects plus half the interaction frequency, summed over a person's
// edges within the pool.
func (e *StrategyEngine) speed(pool []Candidate, edges []model.CollaborationEdge, k int) []Candidate {
	weight := make(map[string]float64, len(pool))
	for _, edge := range edges {
		w := float64(edge.SharedProjects) + speedFreqWeight*edge.Frequency
		weight[edge.A] += w
		weight[edge.B] += w
	}
	ranked := make([]Candidate, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return weight[ranked[i].ID] > weight[ranked[j].ID]
	})
	return takeN(ranked, k)
}

func takeN(cs []Candidate, n int) []Candidate {
	if n > len(cs) {
		n = len(cs)
	}
	out := make([]Candidate, n)
	copy(out, cs[:n])
	return out
}
