package guardian_test

import (
	"context"
	"testing"
	"time"

	"github.com/busfactor/guardian/internal/domain/guardian"
	"github.com/busfactor/guardian/internal/domain/linchpin"
	"github.com/busfactor/guardian/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// stubSource is a canned Source. Each test builds a fresh one; the engine
// filters candidate slices in place.
type stubSource struct {
	candidates []guardian.Candidate
	hours      map[string]float64
	edges      []model.CollaborationEdge
	conflicts  []model.Conflict
	people     map[string]model.Person
	demos      map[string]map[string]model.SkillDemonstration
}

func (s *stubSource) FindCandidates(ctx context.Context, skills []string) ([]guardian.Candidate, error) {
	out := make([]guardian.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out, nil
}

func (s *stubSource) Availability(ctx context.Context, ids []string, period string) (map[string]float64, error) {
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		if h, ok := s.hours[id]; ok {
			out[id] = h
		}
	}
	return out, nil
}

func (s *stubSource) CollaborationEdges(ctx context.Context, ids []string) ([]model.CollaborationEdge, error) {
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	var out []model.CollaborationEdge
	for _, e := range s.edges {
		if in[e.A] && in[e.B] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubSource) Conflicts(ctx context.Context, ids []string) ([]model.Conflict, error) {
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	var out []model.Conflict
	for _, c := range s.conflicts {
		if in[c.A] && in[c.B] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubSource) EvidenceFor(ctx context.Context, id string, skills []string) (map[string]model.SkillDemonstration, error) {
	byskill := s.demos[id]
	out := make(map[string]model.SkillDemonstration, len(skills))
	for _, skill := range skills {
		if d, ok := byskill[skill]; ok {
			out[skill] = d
		}
	}
	return out, nil
}

func (s *stubSource) Person(ctx context.Context, id string) (model.Person, error) {
	p, ok := s.people[id]
	if !ok {
		return model.Person{}, guardian.ErrNotFound
	}
	return p, nil
}

// stubRater rates everyone LOW unless listed.
type stubRater struct {
	risks map[string]linchpin.Risk
}

func (r *stubRater) RiskFor(ctx context.Context, id string) (linchpin.Risk, error) {
	return r.risks[id], nil
}

func noRisk() *stubRater { return &stubRater{risks: map[string]linchpin.Risk{}} }

func candidate(id string, levels map[string]float64) guardian.Candidate {
	return guardian.Candidate{ID: id, Name: id, Role: "engineer", Levels: levels}
}

func memberIDs(p guardian.Proposal) []string {
	ids := make([]string, len(p.Members))
	for i, m := range p.Members {
		ids[i] = m.ID
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func TestSearchEngine(t *testing.T) {
	ctx := context.Background()
	skills := []string{"go", "sql"}

	newPool := func() *stubSource {
		return &stubSource{
			candidates: []guardian.Candidate{
				candidate("ana", map[string]float64{"go": 4.8, "sql": 4.2}),
				candidate("bruno", map[string]float64{"go": 4.1, "sql": 3.6}),
				candidate("carla", map[string]float64{"go": 3.4, "sql": 4.4}),
				candidate("diego", map[string]float64{"go": 3.0, "sql": 2.2}),
				candidate("elena", map[string]float64{"go": 2.1, "sql": 3.1}),
				candidate("felix", map[string]float64{"go": 1.5, "sql": 1.2}),
			},
			edges: []model.CollaborationEdge{
				{A: "ana", B: "bruno", SharedProjects: 3, Positive: 8, Frequency: 6},
				{A: "bruno", B: "carla", SharedProjects: 2, Positive: 5, Frequency: 3},
				{A: "diego", B: "elena", SharedProjects: 1, Positive: 3, Frequency: 2},
			},
		}
	}

	Convey("Given a healthy candidate pool", t, func() {
		engine := guardian.NewSearchEngine(newPool(), noRisk())

		Convey("When proposing a team of three", func() {
			proposals, err := engine.Propose(ctx, guardian.Request{Skills: skills, TeamSize: 3})

			Convey("Then one proposal per search mode comes back", func() {
				So(err, ShouldBeNil)
				So(len(proposals), ShouldEqual, 3)
				So(proposals[0].Strategy, ShouldEqual, "balance")
				So(proposals[1].Strategy, ShouldEqual, "cohesion")
				So(proposals[2].Strategy, ShouldEqual, "redundancy")
			})

			Convey("Then every team has the requested size", func() {
				So(err, ShouldBeNil)
				for _, p := range proposals {
					So(len(p.Members), ShouldEqual, 3)
				}
			})

			Convey("Then dossiers are complete", func() {
				So(err, ShouldBeNil)
				for _, p := range proposals {
					So(p.Title, ShouldNotBeBlank)
					So(len(p.Justifications), ShouldEqual, len(p.Members))
					So(p.TotalScore, ShouldBeGreaterThan, 0)
					So(p.Metrics.SkillCoverage, ShouldBeBetweenOrEqual, 0, 1)
					So(p.Metrics.Cohesion, ShouldBeBetweenOrEqual, 0, 1)
					So(p.Summary.Verdict, ShouldBeIn, guardian.VerdictApprove, guardian.VerdictReview, guardian.VerdictReject)
				}
			})
		})

		Convey("When the requested size is zero", func() {
			proposals, err := guardian.NewSearchEngine(newPool(), noRisk()).
				Propose(ctx, guardian.Request{Skills: skills})

			Convey("Then the engine default applies", func() {
				So(err, ShouldBeNil)
				So(len(proposals), ShouldBeGreaterThan, 0)
				So(len(proposals[0].Members), ShouldEqual, 5)
			})
		})
	})

	Convey("Given an empty candidate pool", t, func() {
		engine := guardian.NewSearchEngine(&stubSource{}, noRisk())

		Convey("Then no proposals and no error come back", func() {
			proposals, err := engine.Propose(ctx, guardian.Request{Skills: skills, TeamSize: 3})
			So(err, ShouldBeNil)
			So(proposals, ShouldBeEmpty)
		})
	})

	Convey("Given a conflict between the two strongest candidates", t, func() {
		src := newPool()
		src.conflicts = []model.Conflict{{A: "ana", B: "bruno", Kind: model.ConflictManual}}
		engine := guardian.NewSearchEngine(src, noRisk())

		Convey("Then no returned team contains both", func() {
			proposals, err := engine.Propose(ctx, guardian.Request{Skills: skills, TeamSize: 3})
			So(err, ShouldBeNil)
			for _, p := range proposals {
				ids := memberIDs(p)
				So(contains(ids, "ana") && contains(ids, "bruno"), ShouldBeFalse)
			}
		})
	})

	Convey("Given a pool where every pairing conflicts", t, func() {
		src := &stubSource{
			candidates: []guardian.Candidate{
				candidate("ana", map[string]float64{"go": 4.0}),
				candidate("bruno", map[string]float64{"go": 3.8}),
			},
			conflicts: []model.Conflict{{A: "ana", B: "bruno", Kind: model.ConflictManual}},
		}
		var rejected int
		engine := guardian.NewSearchEngine(src, noRisk(),
			guardian.WithConflictRejected(func() { rejected++ }))

		Convey("Then every mode is dropped and each drop is reported", func() {
			proposals, err := engine.Propose(ctx, guardian.Request{Skills: []string{"go"}, TeamSize: 2})
			So(err, ShouldBeNil)
			So(proposals, ShouldBeEmpty)
			So(rejected, ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given manual overrides", t, func() {
		Convey("When the best candidate is force-excluded", func() {
			engine := guardian.NewSearchEngine(newPool(), noRisk())
			proposals, err := engine.Propose(ctx, guardian.Request{
				Skills: skills, TeamSize: 3, ForceExclude: []string{"ana"},
			})

			Convey("Then she appears in no team", func() {
				So(err, ShouldBeNil)
				So(len(proposals), ShouldBeGreaterThan, 0)
				for _, p := range proposals {
					So(contains(memberIDs(p), "ana"), ShouldBeFalse)
				}
			})
		})

		Convey("When someone outside the filtered pool is force-included", func() {
			src := newPool()
			src.people = map[string]model.Person{
				"gina": {ID: "gina", Name: "Gina", Role: "analyst"},
			}
			src.demos = map[string]map[string]model.SkillDemonstration{
				"gina": {"go": {Skill: "go", Level: 1.5}},
			}
			engine := guardian.NewSearchEngine(src, noRisk())
			proposals, err := engine.Propose(ctx, guardian.Request{
				Skills: skills, TeamSize: 7, ForceInclude: []string{"gina"},
			})

			Convey("Then she joins the pool flagged as forced", func() {
				So(err, ShouldBeNil)
				So(len(proposals), ShouldBeGreaterThan, 0)
				for _, p := range proposals {
					So(contains(memberIDs(p), "gina"), ShouldBeTrue)
					for _, m := range p.Members {
						if m.ID == "gina" {
							So(m.Forced, ShouldBeTrue)
						}
					}
				}
			})
		})

		Convey("When a force-include names an unknown id", func() {
			engine := guardian.NewSearchEngine(newPool(), noRisk())
			proposals, err := engine.Propose(ctx, guardian.Request{
				Skills: skills, TeamSize: 3, ForceInclude: []string{"nobody"},
			})

			Convey("Then it is skipped silently", func() {
				So(err, ShouldBeNil)
				So(len(proposals), ShouldBeGreaterThan, 0)
				for _, p := range proposals {
					So(contains(memberIDs(p), "nobody"), ShouldBeFalse)
				}
			})
		})
	})

	Convey("Given a pool with no collaboration history", t, func() {
		src := newPool()
		src.edges = nil
		engine := guardian.NewSearchEngine(src, noRisk())

		Convey("Then cohesion reads exactly zero, not unknown", func() {
			proposals, err := engine.Propose(ctx, guardian.Request{Skills: skills, TeamSize: 3})
			So(err, ShouldBeNil)
			So(len(proposals), ShouldBeGreaterThan, 0)
			for _, p := range proposals {
				So(p.Metrics.Cohesion, ShouldEqual, 0)
			}
		})
	})
}

func TestStrategyEngine(t *testing.T) {
	ctx := context.Background()

	Convey("Given candidates with mixed availability", t, func() {
		src := &stubSource{
			candidates: []guardian.Candidate{
				candidate("ana", map[string]float64{"go": 5.0}),
				candidate("bruno", map[string]float64{"go": 4.0}),
				candidate("carla", map[string]float64{"go": 3.2}),
				candidate("diego", map[string]float64{"go": 2.0}),
			},
			hours: map[string]float64{
				"ana":   10,
				"bruno": 40,
				"carla": 40,
				"diego": 40,
			},
		}
		engine := guardian.NewStrategyEngine(src, noRisk())

		Convey("When requesting two people with a 20 hour floor", func() {
			proposals, err := engine.Propose(ctx, guardian.Request{
				Skills:   []string{"go"},
				TeamSize: 2,
				Period:   "2026-W10",
				MinHours: 20,
			})

			Convey("Then the Safe Bet takes the best available, not the best overall", func() {
				So(err, ShouldBeNil)
				So(len(proposals), ShouldEqual, 3)
				So(proposals[0].Strategy, ShouldEqual, "safe_bet")
				So(proposals[0].Title, ShouldEqual, "The Safe Bet")
				So(memberIDs(proposals[0]), ShouldResemble, []string{"bruno", "carla"})
			})

			Convey("Then nobody under the availability floor appears anywhere", func() {
				So(err, ShouldBeNil)
				for _, p := range proposals {
					So(contains(memberIDs(p), "ana"), ShouldBeFalse)
				}
			})
		})
	})

	Convey("Given a stratified pool", t, func() {
		src := &stubSource{
			candidates: []guardian.Candidate{
				candidate("s1", map[string]float64{"go": 4.5}),
				candidate("s2", map[string]float64{"go": 4.2}),
				candidate("s3", map[string]float64{"go": 4.8}),
				candidate("m1", map[string]float64{"go": 3.5}),
				candidate("m2", map[string]float64{"go": 3.2}),
				candidate("m3", map[string]float64{"go": 3.8}),
				candidate("j1", map[string]float64{"go": 2.0}),
				candidate("j2", map[string]float64{"go": 2.4}),
			},
		}
		engine := guardian.NewStrategyEngine(src, noRisk())

		Convey("When building a growth team of five", func() {
			proposals, err := engine.Propose(ctx, guardian.Request{Skills: []string{"go"}, TeamSize: 5})
			So(err, ShouldBeNil)
			So(len(proposals), ShouldEqual, 3)

			var growth guardian.Proposal
			for _, p := range proposals {
				if p.Strategy == "growth" {
					growth = p
				}
			}

			Convey("Then the mix is two seniors, two mids, one junior", func() {
				var seniors, mids, juniors int
				for _, m := range growth.Members {
					switch {
					case m.Score >= 4.0:
						seniors++
					case m.Score < 3.0:
						juniors++
					default:
						mids++
					}
				}
				So(seniors, ShouldEqual, 2)
				So(mids, ShouldEqual, 2)
				So(juniors, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a pool with one proven pair", t, func() {
		src := &stubSource{
			candidates: []guardian.Candidate{
				candidate("solo", map[string]float64{"go": 5.0}),
				candidate("pair1", map[string]float64{"go": 3.0}),
				candidate("pair2", map[string]float64{"go": 3.0}),
			},
			edges: []model.CollaborationEdge{
				{A: "pair1", B: "pair2", SharedProjects: 8, Positive: 10, Frequency: 12},
			},
		}
		engine := guardian.NewStrategyEngine(src, noRisk())

		Convey("When building the speed squad", func() {
			proposals, err := engine.Propose(ctx, guardian.Request{Skills: []string{"go"}, TeamSize: 2})
			So(err, ShouldBeNil)

			var speed guardian.Proposal
			for _, p := range proposals {
				if p.Strategy == "speed" {
					speed = p
				}
			}

			Convey("Then history beats raw skill", func() {
				So(memberIDs(speed), ShouldResemble, []string{"pair1", "pair2"})
			})
		})
	})

	Convey("Given a conflicted pair dominating one strategy", t, func() {
		src := &stubSource{
			candidates: []guardian.Candidate{
				candidate("ana", map[string]float64{"go": 5.0}),
				candidate("bruno", map[string]float64{"go": 4.9}),
				candidate("carla", map[string]float64{"go": 1.1}),
			},
			conflicts: []model.Conflict{{A: "ana", B: "bruno", Kind: model.ConflictOrganic}},
		}
		var rejected int
		engine := guardian.NewStrategyEngine(src, noRisk(),
			guardian.WithConflictRejected(func() { rejected++ }))

		Convey("Then that strategy is dropped while the others survive", func() {
			proposals, err := engine.Propose(ctx, guardian.Request{Skills: []string{"go"}, TeamSize: 2})
			So(err, ShouldBeNil)
			for _, p := range proposals {
				ids := memberIDs(p)
				So(contains(ids, "ana") && contains(ids, "bruno"), ShouldBeFalse)
			}
			So(rejected, ShouldBeGreaterThan, 0)
		})
	})
}

func TestJustifications(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	Convey("Given a candidate with a deep evidence trail", t, func() {
		evidence := []model.Evidence{
			{URL: "https://x/pr/1", Date: now.AddDate(0, 0, -300)},
			{URL: "https://x/pr/2", Date: now.AddDate(0, 0, -10)},
			{URL: "https://x/pr/3"},
			{URL: "https://x/pr/4", Date: now.AddDate(0, 0, -100)},
			{URL: "https://x/pr/5", Date: now.AddDate(0, 0, -50)},
		}
		src := &stubSource{
			candidates: []guardian.Candidate{
				candidate("ana", map[string]float64{"go": 4.5}),
			},
			demos: map[string]map[string]model.SkillDemonstration{
				"ana": {"go": {Skill: "go", Level: 4.5, Evidence: evidence}},
			},
		}
		engine := guardian.NewSearchEngine(src, noRisk())

		Convey("When proposing", func() {
			proposals, err := engine.Propose(ctx, guardian.Request{Skills: []string{"go"}, TeamSize: 1})
			So(err, ShouldBeNil)
			So(len(proposals), ShouldBeGreaterThan, 0)
			just := proposals[0].Justifications[0]

			Convey("Then citations are capped and most recent first", func() {
				So(just.MemberID, ShouldEqual, "ana")
				So(len(just.Skills), ShouldEqual, 1)
				evs := just.Skills[0].Evidence
				So(len(evs), ShouldEqual, 3)
				So(evs[0].URL, ShouldEqual, "https://x/pr/2")
				So(evs[1].URL, ShouldEqual, "https://x/pr/5")
				So(evs[2].URL, ShouldEqual, "https://x/pr/4")
			})
		})
	})
}

func TestMissionProfiles(t *testing.T) {
	Convey("Given the profile catalog", t, func() {
		profiles := guardian.Profiles()

		Convey("Then all three missions are present", func() {
			So(len(profiles), ShouldEqual, 3)
			ids := make([]string, len(profiles))
			for i, p := range profiles {
				ids[i] = p.ID
			}
			So(ids, ShouldContain, "maintenance")
			So(ids, ShouldContain, "innovation")
			So(ids, ShouldContain, "fast_delivery")
		})

		Convey("Then lookups resolve and unknown ids return nil", func() {
			So(guardian.ProfileByID("innovation"), ShouldNotBeNil)
			So(guardian.ProfileByID("conquest"), ShouldBeNil)
		})
	})
}
