package guardian

// ProfileWeights bias the optimizer's utility components. skill_level scales
// the experience term, collaboration the cohesion term, linchpin_penalty the
// SPoF penalty; availability adds a normalized mean-hours term that only
// exists when a profile is active.
type ProfileWeights struct {
	SkillLevel      float64
	Availability    float64
	Collaboration   float64
	LinchpinPenalty float64
}

// Profile is a named mission context biasing team composition.
type Profile struct {
	ID                string
	Name              string
	Description       string
	Weights           ProfileWeights
	StrategyHint      string  // the named strategy this profile leans toward
	MinSkillThreshold float64 // advisory floor, reported not enforced
}

var missionProfiles = []Profile{
	{
		ID:          "maintenance",
		Name:        "Maintenance",
		Description: "Stability and reliability over speed. Prioritizes experienced members.",
		Weights: ProfileWeights{
			SkillLevel:      1.5,
			Availability:    1.0,
			Collaboration:   0.5,
			LinchpinPenalty: 0.3,
		},
		StrategyHint:      "safe_bet",
		MinSkillThreshold: 3.5,
	},
	{
		ID:          "innovation",
		Name:        "Innovation",
		Description: "Experimentation and learning. Encourages knowledge sharing and growth.",
		Weights: ProfileWeights{
			SkillLevel:      0.8,
			Availability:    0.7,
			Collaboration:   1.2,
			LinchpinPenalty: 0.0,
		},
		StrategyHint:      "growth",
		MinSkillThreshold: 2.5,
	},
	{
		ID:          "fast_delivery",
		Name:        "Fast Delivery",
		Description: "Speed and proven synergy. Leverages existing collaboration patterns.",
		Weights: ProfileWeights{
			SkillLevel:      1.0,
			Availability:    1.5,
			Collaboration:   2.0,
			LinchpinPenalty: 0.5,
		},
		StrategyHint:      "speed",
		MinSkillThreshold: 3.0,
	},
}

// Profiles lists every mission profile.
func Profiles() []Profile {
	out := make([]Profile, len(missionProfiles))
	copy(out, missionProfiles)
	return out
}

// ProfileByID resolves a profile by id. Unknown or empty names return nil:
// the caller falls back to baseline mode weights.
func ProfileByID(id string) *Profile {
	for i := range missionProfiles {
		if missionProfiles[i].ID == id {
			p := missionProfiles[i]
			return &p
		}
	}
	return nil
}
