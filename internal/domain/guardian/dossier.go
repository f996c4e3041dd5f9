package guardian

import (
	"context"
	"fmt"

	"github.com/busfactor/guardian/internal/domain/graph"
	"github.com/busfactor/guardian/internal/domain/linchpin"
)

// strategyText carries the fixed presentation attached to each strategy.
type strategyText struct {
	title       string
	description string
	riskNotes   []string
}

var strategyTexts = map[string]strategyText{
	ModeBalance: {
		title:       "Balanced Team",
		description: "Broad trade-off between coverage, cohesion and redundancy.",
		riskNotes: []string{
			"Coverage, cohesion and redundancy traded off evenly",
			"Hill-climbing refinement; result is good, not provably optimal",
		},
	},
	ModeCohesion: {
		title:       "Cohesion-First Team",
		description: "Favors collaboration density over everything else.",
		riskNotes: []string{
			"Dense collaboration history between members",
			"May reinforce existing silos",
		},
	},
	ModeRedundancy: {
		title:       "Redundancy-First Team",
		description: "Favors single-point-of-failure avoidance over cohesion.",
		riskNotes: []string{
			"Critical skills covered by more than one member where possible",
			"May sacrifice collaboration density",
		},
	},
	StrategySafeBet: {
		title:       "The Safe Bet",
		description: "High-skill, high-availability team optimized for reliable delivery.",
		riskNotes: []string{
			"All members have strong skill levels",
			"High availability ensures focus",
			"May lack diversity in experience levels",
		},
	},
	StrategyGrowth: {
		title:       "The Growth Team",
		description: "Balanced mix of senior and junior talent for knowledge transfer.",
		riskNotes: []string{
			"Mentorship opportunities for juniors",
			"Knowledge sharing built-in",
			"May require more coordination time",
		},
	},
	StrategySpeed: {
		title:       "The Speed Squad",
		description: "Members with proven collaboration history for rapid execution.",
		riskNotes: []string{
			"Pre-existing working relationships",
			"Reduced onboarding friction",
			"May reinforce existing silos",
		},
	},
}

// buildProposal attaches identity, metrics, justifications and the executive
// summary to a finished team. Member order is preserved.
func (s settings) buildProposal(ctx context.Context, src Source, rater RiskRater, strategy string, team []Candidate, skills []string, g *graph.Graph) (Proposal, error) {
	text := strategyTexts[strategy]
	p := Proposal{
		Strategy:    strategy,
		Title:       text.title,
		Description: text.description,
		RiskNotes:   text.riskNotes,
		Metrics:     s.teamMetrics(team, skills, g),
	}

	var total float64
	for _, c := range team {
		risk := linchpin.RiskLow
		if rater != nil {
			var err error
			risk, err = rater.RiskFor(ctx, c.ID)
			if err != nil {
				return Proposal{}, fmt.Errorf("linchpin risk for %s: %w", c.ID, err)
			}
		}
		score := candidateScore(c, skills)
		total += score
		p.Members = append(p.Members, Member{
			ID:     c.ID,
			Name:   displayName(c),
			Role:   c.Role,
			Score:  score,
			Hours:  c.Hours,
			Forced: c.Forced,
			Risk:   risk,
		})

		just, err := s.justify(ctx, src, c.ID, skills)
		if err != nil {
			return Proposal{}, err
		}
		p.Justifications = append(p.Justifications, just)
	}
	p.TotalScore = round2(total)
	p.Summary = summarize(strategy, p.Members)
	return p, nil
}

// justify lists the top most-recent evidence per demonstrated required skill.
func (s settings) justify(ctx context.Context, src Source, id string, skills []string) (Justification, error) {
	demos, err := src.EvidenceFor(ctx, id, skills)
	if err != nil {
		return Justification{}, fmt.Errorf("evidence for %s: %w", id, err)
	}
	just := Justification{MemberID: id}
	for _, skill := range skills {
		d, ok := demos[skill]
		if !ok || d.Level < 1 {
			continue
		}
		evs := sortEvidence(d.Evidence)
		if len(evs) > s.topEvidence {
			evs = evs[:s.topEvidence]
		}
		just.Skills = append(just.Skills, SkillJustification{
			Skill:    skill,
			Level:    d.Level,
			Evidence: evs,
		})
	}
	return just, nil
}

func displayName(c Candidate) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
