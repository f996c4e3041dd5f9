// Package graph builds the in-memory collaboration graph over a candidate
// set. Graphs are created fresh per recommendation call and discarded after;
// nothing here persists or mutates the underlying interaction records.
package graph

import (
	"math"
	"time"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/busfactor/guardian/internal/domain/model"
)

// Edge strength constants. Conflict is penalized twice as heavily as positive
// interaction rewards; frequency only counts logarithmically.
const (
	conflictPenaltyFactor = 2.0
	freshWindowDays       = 90
	freshnessFloor        = 0.2
	freshnessWindowDays   = 365.0
)

// Graph is an undirected weighted collaboration graph over a candidate set.
// Candidates that never co-occur in an interaction record stay as isolated
// nodes with weighted degree 0.
type Graph struct {
	g     *simple.WeightedUndirectedGraph
	idOf  map[string]int64
	keyOf map[int64]string
	now   func() time.Time
}

// Option applies a configuration option to Build.
type Option func(*Graph)

// WithNow fixes the reference clock used for edge freshness.
func WithNow(now func() time.Time) Option {
	return func(g *Graph) {
		if now != nil {
			g.now = now
		}
	}
}

// Build constructs the collaboration graph for candidateIDs from pairwise
// interaction records. Edges whose endpoints are not both in the candidate
// set are ignored.
func Build(candidateIDs []string, edges []model.CollaborationEdge, opts ...Option) *Graph {
	g := &Graph{
		g:     simple.NewWeightedUndirectedGraph(0, 0),
		idOf:  make(map[string]int64, len(candidateIDs)),
		keyOf: make(map[int64]string, len(candidateIDs)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, id := range candidateIDs {
		g.addNode(id)
	}
	asOf := g.now()
	for _, e := range edges {
		a, okA := g.idOf[e.A]
		b, okB := g.idOf[e.B]
		if !okA || !okB || a == b {
			continue
		}
		w := Strength(e, asOf)
		g.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(a), T: simple.Node(b), W: w})
	}
	return g
}

func (g *Graph) addNode(id string) {
	if _, ok := g.idOf[id]; ok {
		return
	}
	n := int64(len(g.idOf))
	g.idOf[id] = n
	g.keyOf[n] = id
	g.g.AddNode(simple.Node(n))
}

// Strength derives the weight of a collaboration edge as of a reference date:
//
//	max(0, positive - 2*conflictive) * log(1 + frequency + 1) * freshness
//
// Freshness is 1.0 for interactions under 90 days old, decaying to a floor of
// 0.2 over a year. A missing interaction date is treated as fresh: unknown is
// not the same as stale.
func Strength(e model.CollaborationEdge, asOf time.Time) float64 {
	base := float64(e.Positive) - conflictPenaltyFactor*float64(e.Conflictive)
	if base < 0 {
		base = 0
	}
	return base * math.Log(1+e.Frequency+1) * freshness(e.LastInteraction, asOf)
}

func freshness(last, asOf time.Time) float64 {
	if last.IsZero() {
		return 1.0
	}
	days := asOf.Sub(last).Hours() / 24
	if days < freshWindowDays {
		return 1.0
	}
	return math.Max(freshnessFloor, 1-days/freshnessWindowDays)
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.idOf[id]
	return ok
}

// Order returns the number of nodes.
func (g *Graph) Order() int { return len(g.idOf) }

// EdgeWeight returns the derived strength between a and b, or 0 when no edge
// exists between them.
func (g *Graph) EdgeWeight(a, b string) float64 {
	ia, okA := g.idOf[a]
	ib, okB := g.idOf[b]
	if !okA || !okB || ia == ib {
		return 0
	}
	w, ok := g.g.Weight(ia, ib)
	if !ok {
		return 0
	}
	return w
}

// WeightedDegree returns the sum of edge strengths incident to id. Unknown
// ids and isolated nodes report 0.
func (g *Graph) WeightedDegree(id string) float64 {
	n, ok := g.idOf[id]
	if !ok {
		return 0
	}
	var sum float64
	it := g.g.From(n)
	for it.Next() {
		if w, ok := g.g.Weight(n, it.Node().ID()); ok {
			sum += w
		}
	}
	return sum
}

// PairStrengthSum returns the sum of edge strengths over all unordered pairs
// within team. Teams of fewer than two members sum to 0.
func (g *Graph) PairStrengthSum(team []string) float64 {
	var sum float64
	for i := 0; i < len(team); i++ {
		for j := i + 1; j < len(team); j++ {
			sum += g.EdgeWeight(team[i], team[j])
		}
	}
	return sum
}
