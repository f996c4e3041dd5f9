// Package linchpin identifies people whose removal would disproportionately
// fragment collaboration paths or remove unique skill coverage.
package linchpin

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/busfactor/guardian/internal/domain/model"
)

// Risk classifies how critical a person is, from least to most severe.
type Risk int

const (
	RiskLow Risk = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

// Centrality thresholds for risk classification.
const (
	criticalCentrality = 0.7
	highCentrality     = 0.5
	mediumCentrality   = 0.3
)

func (r Risk) String() string {
	switch r {
	case RiskCritical:
		return "CRITICAL"
	case RiskHigh:
		return "HIGH"
	case RiskMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// Record describes one person's bus-factor risk. Records are recomputed on
// demand and never stored between calls.
type Record struct {
	ID             string
	Centrality     float64
	UniqueSkills   []string
	Risk           Risk
	Recommendation string
}

// Detector runs betweenness centrality and a unique-skill scan over the
// organization-wide collaboration graph. It is a pure function of its inputs.
type Detector struct {
	centrality map[string]float64
	unique     map[string][]string
}

// NewDetector computes both signals up front. edges is the organization-wide
// collaboration scan (shortest paths weighted by shared-project count);
// holdersBySkill maps each skill name to everyone who demonstrates it.
func NewDetector(edges []model.CollaborationEdge, holdersBySkill map[string][]string) *Detector {
	return &Detector{
		centrality: betweenness(edges),
		unique:     uniqueSkills(holdersBySkill),
	}
}

// Records returns every person classified CRITICAL, HIGH or MEDIUM, ordered
// by severity (CRITICAL first) then by descending centrality. LOW-risk people
// are suppressed from the batch listing; use RiskFor for individual lookups.
func (d *Detector) Records() []Record {
	ids := make(map[string]struct{}, len(d.centrality)+len(d.unique))
	for id := range d.centrality {
		ids[id] = struct{}{}
	}
	for id := range d.unique {
		ids[id] = struct{}{}
	}

	records := make([]Record, 0, len(ids))
	for id := range ids {
		rec := d.recordFor(id)
		if rec.Risk == RiskLow {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Risk != records[j].Risk {
			return records[i].Risk > records[j].Risk
		}
		if records[i].Centrality != records[j].Centrality {
			return records[i].Centrality > records[j].Centrality
		}
		return records[i].ID < records[j].ID
	})
	return records
}

// RiskFor returns the risk classification for one person, LOW included. It is
// a projection of the same computation that backs Records.
func (d *Detector) RiskFor(id string) Risk {
	return classify(d.centrality[id], d.unique[id])
}

// Centrality returns the normalized betweenness score for one person.
func (d *Detector) Centrality(id string) float64 { return d.centrality[id] }

func (d *Detector) recordFor(id string) Record {
	unique := d.unique[id]
	risk := classify(d.centrality[id], unique)
	return Record{
		ID:             id,
		Centrality:     round3(d.centrality[id]),
		UniqueSkills:   unique,
		Risk:           risk,
		Recommendation: recommendation(risk, unique),
	}
}

// classify applies the risk rules in order; the first match wins.
func classify(centrality float64, unique []string) Risk {
	hasUnique := len(unique) > 0
	switch {
	case centrality > criticalCentrality && hasUnique:
		return RiskCritical
	case centrality > highCentrality || (hasUnique && len(unique) >= 2):
		return RiskHigh
	case centrality > mediumCentrality || hasUnique:
		return RiskMedium
	default:
		return RiskLow
	}
}

func recommendation(risk Risk, unique []string) string {
	switch risk {
	case RiskCritical:
		skills := unique
		if len(skills) > 2 {
			skills = skills[:2]
		}
		return "Urgent: cross-train others on " + strings.Join(skills, ", ") + "; high bus-factor risk."
	case RiskHigh:
		return "Schedule knowledge-transfer sessions or pairing."
	case RiskMedium:
		return "Document this person's expertise and processes."
	default:
		return "No action needed."
	}
}

// betweenness computes normalized weighted betweenness centrality with
// shared-project counts as path weights. An empty edge set yields an empty
// map, not an error.
func betweenness(edges []model.CollaborationEdge) map[string]float64 {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	idOf := make(map[string]int64)
	keyOf := make(map[int64]string)
	node := func(id string) int64 {
		if n, ok := idOf[id]; ok {
			return n
		}
		n := int64(len(idOf))
		idOf[id] = n
		keyOf[n] = id
		g.AddNode(simple.Node(n))
		return n
	}
	for _, e := range edges {
		if e.A == e.B {
			continue
		}
		a, b := node(e.A), node(e.B)
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(a), T: simple.Node(b), W: float64(e.SharedProjects)})
	}

	out := make(map[string]float64, len(idOf))
	n := len(idOf)
	if n == 0 {
		return out
	}
	scores := network.BetweennessWeighted(g, path.DijkstraAllPaths(g))

	// Normalize to [0,1] so the risk thresholds hold on any graph size.
	// BetweennessWeighted accumulates shortest paths from every source, so
	// each unordered pair is counted twice; (n-1)(n-2) undoes both the pair
	// double-count and the undirected normalization.
	scale := 1.0
	if n > 2 {
		scale = 1.0 / (float64(n-1) * float64(n-2))
	}
	for id := range idOf {
		out[id] = 0
	}
	for nid, s := range scores {
		out[keyOf[nid]] = s * scale
	}
	return out
}

// uniqueSkills inverts the holders map to person -> skills held by no one
// else, sorted for deterministic output.
func uniqueSkills(holdersBySkill map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for skill, holders := range holdersBySkill {
		if len(holders) == 1 {
			out[holders[0]] = append(out[holders[0]], skill)
		}
	}
	for id := range out {
		sort.Strings(out[id])
	}
	return out
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
