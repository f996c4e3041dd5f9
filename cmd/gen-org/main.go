// Command gen-org generates a synthetic organization snapshot for local
// development and load testing. The output is a dataset file the service
// loads via GUARDIAN_DATASET.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/busfactor/guardian/internal/adapters/repository"
)

// Default configuration constants.
const (
	defaultPeople    = 40
	defaultSkills    = 12
	defaultEdgeProb  = 0.15
	defaultConflicts = 2
	defaultPeriod    = "2026-W36"
)

var skillNames = []string{
	"go", "postgres", "kubernetes", "react", "terraform", "kafka",
	"python", "redis", "grafana", "rust", "ansible", "elasticsearch",
	"graphql", "spark", "airflow", "swift",
}

var roles = []string{
	"backend engineer", "frontend engineer", "site reliability engineer",
	"data engineer", "platform engineer", "engineering manager",
}

var zones = []string{"PE/Lima", "AR/Buenos Aires", "CL/Santiago", "MX/CDMX"}

var accessTags = []string{"prod-db", "payments", "pii", "infra", "billing"}

var firstNames = []string{
	"Lucia", "Mateo", "Valentina", "Santiago", "Camila", "Sebastian",
	"Isabella", "Diego", "Martina", "Nicolas", "Sofia", "Tomas",
}

var lastNames = []string{
	"Garcia", "Rodriguez", "Fernandez", "Lopez", "Martinez", "Torres",
	"Ramirez", "Flores", "Castro", "Vargas", "Rojas", "Mendoza",
}

func main() {
	var (
		numPeople = flag.Int("people", defaultPeople, "Number of people to generate")
		numSkills = flag.Int("skills", defaultSkills, "Number of distinct skills to draw from")
		edgeProb  = flag.Float64("edge-prob", defaultEdgeProb, "Probability of a collaboration edge between any two people")
		conflicts = flag.Int("conflicts", defaultConflicts, "Number of conflict pairs to inject")
		period    = flag.String("period", defaultPeriod, "Availability period to populate")
		seed      = flag.Int64("seed", 0, "Random seed (0 uses current time)")
		output    = flag.String("output", "org.json", "Output file for the generated snapshot")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	if *numSkills > len(skillNames) {
		*numSkills = len(skillNames)
	}

	snap := generate(rng, *numPeople, *numSkills, *edgeProb, *conflicts, *period)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		os.Stderr.WriteString("failed to encode snapshot: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		os.Stderr.WriteString("failed to write snapshot: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Printf("wrote %s: %d people, %d collaborations, %d conflicts (seed %d)\n",
		*output, len(snap.People), len(snap.Collaborations), len(snap.Conflicts), *seed)
}

func generate(rng *rand.Rand, numPeople, numSkills int, edgeProb float64, conflicts int, period string) *repository.Snapshot {
	now := time.Now()
	snap := &repository.Snapshot{
		Availability: map[string]map[string]float64{period: {}},
	}

	ids := make([]string, numPeople)
	for i := 0; i < numPeople; i++ {
		id := uuid.New().String()
		ids[i] = id

		person := repository.SnapshotPerson{
			ID:   id,
			Name: firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
			Role: roles[rng.Intn(len(roles))],
			Zone: zones[rng.Intn(len(zones))],
		}
		for _, tag := range accessTags {
			if rng.Float64() < 0.3 {
				person.AccessTags = append(person.AccessTags, tag)
			}
		}

		// Between 2 and 5 skills each, with dated evidence trails of
		// varying depth so recomputed levels spread over the scale.
		for _, si := range rng.Perm(numSkills)[:2+rng.Intn(4)] {
			skill := repository.SnapshotSkill{Name: skillNames[si]}
			evCount := 1 + rng.Intn(12)
			var latest time.Time
			for e := 0; e < evCount; e++ {
				age := rng.Intn(540)
				date := now.AddDate(0, 0, -age)
				if date.After(latest) {
					latest = date
				}
				skill.Evidence = append(skill.Evidence, rawEvidence(rng, date))
			}
			skill.LastShown = latest.Format("2006-01-02")
			person.Skills = append(person.Skills, skill)
		}
		snap.People = append(snap.People, person)

		snap.Availability[period][id] = float64(10 + 10*rng.Intn(4))
	}

	for i := 0; i < numPeople; i++ {
		for j := i + 1; j < numPeople; j++ {
			if rng.Float64() >= edgeProb {
				continue
			}
			snap.Collaborations = append(snap.Collaborations, repository.SnapshotEdge{
				A:               ids[i],
				B:               ids[j],
				SharedProjects:  1 + rng.Intn(5),
				Positive:        rng.Intn(10),
				Conflictive:     rng.Intn(3),
				Frequency:       float64(rng.Intn(20)),
				LastInteraction: now.AddDate(0, 0, -rng.Intn(365)).Format("2006-01-02"),
			})
		}
	}

	for c := 0; c < conflicts && numPeople > 1; c++ {
		i, j := rng.Intn(numPeople), rng.Intn(numPeople)
		if i == j {
			continue
		}
		kind := "organic"
		if rng.Float64() < 0.5 {
			kind = "manual"
		}
		snap.Conflicts = append(snap.Conflicts, repository.SnapshotConflict{
			A:    ids[i],
			B:    ids[j],
			Kind: kind,
		})
	}

	return snap
}

// rawEvidence emits a mix of the record shapes seen in real exports: plain
// URLs, structured objects, and the occasional undated legacy payload.
func rawEvidence(rng *rand.Rand, date time.Time) json.RawMessage {
	url := fmt.Sprintf("https://git.example.com/pr/%d", rng.Intn(100000))
	switch rng.Intn(4) {
	case 0:
		return mustJSON(url)
	case 1:
		return mustJSON(map[string]string{
			"url":  url,
			"date": date.Format("2006-01-02"),
		})
	case 2:
		impacts := []string{"High", "Medium", "Low"}
		return mustJSON(map[string]string{
			"url":    url,
			"date":   date.Format(time.RFC3339),
			"actor":  "reviewer",
			"source": "code-review",
			"impact": impacts[rng.Intn(len(impacts))],
		})
	default:
		// legacy record with an unparseable date key
		return mustJSON(map[string]string{"url": url, "timestamp": "n/a"})
	}
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
