package guardian

import (
	"fmt"

	"github.com/busfactor/guardian/internal/domain/linchpin"
)

// Executive summary thresholds.
const (
	highScore       = 4.0
	solidScore      = 3.5
	weakScore       = 3.0
	rejectScore     = 2.5
	goodHours       = 30.0
	adequateHours   = 20.0
	wideHoursSpread = 20.0
	maxBullets      = 3
)

// signal is one summary observation. Critical signals weigh more than
// warnings in the verdict.
type signal struct {
	text     string
	critical bool
}

// summarize derives up to three pros and cons from the team's aggregate
// score, availability spread and linchpin membership, and applies the
// verdict threshold rules.
func summarize(strategy string, members []Member) Summary {
	if len(members) == 0 {
		return Summary{
			Pros:    []string{"No team members available"},
			Cons:    []string{"Cannot form team"},
			Verdict: VerdictReject,
		}
	}

	var scores, hours []float64
	var linchpins int
	for _, m := range members {
		scores = append(scores, m.Score)
		hours = append(hours, m.Hours)
		if m.Risk >= linchpin.RiskHigh {
			linchpins++
		}
	}
	avgScore := mean(scores)
	minHours, maxHours := hours[0], hours[0]
	for _, h := range hours[1:] {
		minHours = min(minHours, h)
		maxHours = max(maxHours, h)
	}

	var pros []string
	switch {
	case avgScore >= highScore:
		pros = append(pros, fmt.Sprintf("High average skill level (%.1f/5.0)", avgScore))
	case avgScore >= solidScore:
		pros = append(pros, fmt.Sprintf("Solid skill levels (%.1f/5.0)", avgScore))
	}
	switch {
	case minHours >= goodHours:
		pros = append(pros, "All members have good availability (30+ hrs/week)")
	case minHours >= adequateHours:
		pros = append(pros, "Adequate availability across team")
	}
	if linchpins == 0 {
		pros = append(pros, "No critical dependencies (low bus-factor risk)")
	}
	switch strategy {
	case StrategyGrowth:
		pros = append(pros, "Mentorship opportunities built-in")
	case StrategySpeed, ModeCohesion:
		pros = append(pros, "Pre-existing collaboration history")
	}

	var cons []signal
	if avgScore < weakScore {
		cons = append(cons, signal{text: fmt.Sprintf("Below-average skill levels (%.1f/5.0)", avgScore)})
	}
	if minHours < adequateHours {
		cons = append(cons, signal{text: fmt.Sprintf("Some members have limited availability (%.0f hrs/week)", minHours)})
	}
	if linchpins == 1 {
		cons = append(cons, signal{text: "Team includes 1 linchpin employee", critical: true})
	} else if linchpins > 1 {
		cons = append(cons, signal{text: fmt.Sprintf("Team includes %d linchpin employees", linchpins), critical: true})
	}
	if maxHours-minHours > wideHoursSpread {
		cons = append(cons, signal{text: "Large availability variance across team"})
	}

	// Verdict counts every signal, including ones trimmed from display.
	// Linchpin membership collapses into one critical signal however many
	// members carry it.
	var criticals, warnings int
	for _, c := range cons {
		if c.critical {
			criticals++
		} else {
			warnings++
		}
	}
	verdict := VerdictApprove
	switch {
	case criticals >= 2 || avgScore < rejectScore:
		verdict = VerdictReject
	case criticals == 1 || warnings >= 2:
		verdict = VerdictReview
	}

	if len(pros) == 0 {
		pros = []string{"No significant advantages identified"}
	}
	if len(pros) > maxBullets {
		pros = pros[:maxBullets]
	}
	conTexts := make([]string, 0, len(cons))
	for _, c := range cons {
		conTexts = append(conTexts, c.text)
	}
	if len(conTexts) > maxBullets {
		conTexts = conTexts[:maxBullets]
	}

	return Summary{Pros: pros, Cons: conTexts, Verdict: verdict}
}
