package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/busfactor/guardian/internal/adapters/http/api"
	"github.com/busfactor/guardian/internal/domain/guardian"
	"github.com/busfactor/guardian/internal/domain/linchpin"
	"github.com/busfactor/guardian/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps satisfies api.Dependencies and api.StatsProvider with canned
// responses.
type stubDeps struct {
	proposals []guardian.Proposal
	records   []linchpin.Record
	people    []model.Person
	updated   int
	fail      error

	lastRequest guardian.Request
}

func (s *stubDeps) Recommend(ctx context.Context, req guardian.Request) ([]guardian.Proposal, error) {
	s.lastRequest = req
	return s.proposals, s.fail
}

func (s *stubDeps) Linchpins(ctx context.Context) ([]linchpin.Record, error) {
	return s.records, s.fail
}

func (s *stubDeps) People(ctx context.Context) ([]model.Person, error) {
	return s.people, s.fail
}

func (s *stubDeps) Profiles() []guardian.Profile { return guardian.Profiles() }

func (s *stubDeps) RecomputeLevels(ctx context.Context) (int, error) {
	return s.updated, s.fail
}

func (s *stubDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"started":     true,
		"optimizer":   "search",
		"teamSize":    5,
		"maxTeamSize": 12,
		"totalPeople": 3,
	}
}

func newMux(deps *stubDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, deps, 12).Register(context.Background(), mux)
	return mux
}

func TestRecommendEndpoint(t *testing.T) {
	Convey("Given a recommendation API", t, func() {
		deps := &stubDeps{
			proposals: []guardian.Proposal{{
				Strategy:   "balance",
				Title:      "Balanced Team",
				Members:    []guardian.Member{{ID: "ana", Name: "Ana", Score: 4.2, Risk: linchpin.RiskLow}},
				TotalScore: 4.2,
				Summary:    guardian.Summary{Verdict: guardian.VerdictApprove},
			}},
		}
		mux := newMux(deps)

		Convey("When posting a valid request", func() {
			body := `{"skills":["go","sql"],"team_size":3,"profile":"maintenance"}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body)))

			Convey("Then the proposals come back with a request id", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					RequestID string `json:"request_id"`
					Proposals []struct {
						Strategy string `json:"strategy"`
						Members  []struct {
							ID   string `json:"id"`
							Risk string `json:"risk"`
						} `json:"members"`
						Summary struct {
							Verdict string `json:"verdict"`
						} `json:"summary"`
					} `json:"proposals"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.RequestID, ShouldNotBeBlank)
				So(len(resp.Proposals), ShouldEqual, 1)
				So(resp.Proposals[0].Strategy, ShouldEqual, "balance")
				So(resp.Proposals[0].Members[0].ID, ShouldEqual, "ana")
				So(resp.Proposals[0].Members[0].Risk, ShouldEqual, "LOW")
				So(resp.Proposals[0].Summary.Verdict, ShouldEqual, "APPROVE")
			})

			Convey("Then the wire request reached the engine unchanged", func() {
				So(deps.lastRequest.Skills, ShouldResemble, []string{"go", "sql"})
				So(deps.lastRequest.TeamSize, ShouldEqual, 3)
				So(deps.lastRequest.Profile, ShouldEqual, "maintenance")
			})
		})

		Convey("When the body is not JSON", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader("nope")))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			var resp struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, "bad_request")
			So(resp.Message, ShouldContainSubstring, "bad request")
		})

		Convey("When skills are missing", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"team_size":3}`)))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			var resp struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, "bad_request")
			So(resp.Message, ShouldContainSubstring, "skills")
		})

		Convey("When the team size exceeds the cap", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"skills":["go"],"team_size":13}`)))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the profile is unknown", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"skills":["go"],"profile":"conquest"}`)))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the method is GET", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recommend", nil))

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the engine fails", func() {
			deps.fail = errors.New("boom")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"skills":["go"]}`)))

			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestReadEndpoints(t *testing.T) {
	Convey("Given the read-side API", t, func() {
		deps := &stubDeps{
			records: []linchpin.Record{{
				ID:             "bruno",
				Centrality:     0.82,
				UniqueSkills:   []string{"cobol"},
				Risk:           linchpin.RiskCritical,
				Recommendation: "Urgent: document critical knowledge, assign a backup",
			}},
			people: []model.Person{
				{ID: "ana", Name: "Ana", Role: "backend", Zone: "PE/Lima", AccessTags: []string{"prod"}},
			},
			updated: 7,
		}
		mux := newMux(deps)

		Convey("When fetching linchpins", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/linchpins", nil))

			Convey("Then records serialize with readable risk names", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var out []struct {
					PersonID     string   `json:"person_id"`
					Centrality   float64  `json:"centrality"`
					UniqueSkills []string `json:"unique_skills"`
					Risk         string   `json:"risk"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &out), ShouldBeNil)
				So(len(out), ShouldEqual, 1)
				So(out[0].PersonID, ShouldEqual, "bruno")
				So(out[0].Risk, ShouldEqual, "CRITICAL")
				So(out[0].UniqueSkills, ShouldResemble, []string{"cobol"})
			})
		})

		Convey("When fetching mission profiles", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/mission-profiles", nil))

			Convey("Then the catalog serializes with weights", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var out []struct {
					ID      string `json:"id"`
					Weights struct {
						SkillLevel float64 `json:"skill_level"`
					} `json:"weights"`
					StrategyHint string `json:"strategy_hint"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &out), ShouldBeNil)
				So(len(out), ShouldEqual, 3)
				So(out[0].ID, ShouldEqual, "maintenance")
				So(out[0].Weights.SkillLevel, ShouldEqual, 1.5)
				So(out[0].StrategyHint, ShouldEqual, "safe_bet")
			})
		})

		Convey("When listing people", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/people", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var out []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &out), ShouldBeNil)
			So(len(out), ShouldEqual, 1)
			So(out[0].ID, ShouldEqual, "ana")
		})

		Convey("When asking stats", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)

			var out struct {
				Started     bool   `json:"started"`
				Optimizer   string `json:"optimizer"`
				TeamSize    int    `json:"team_size"`
				MaxTeamSize int    `json:"max_team_size"`
				TotalPeople int    `json:"total_people"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &out), ShouldBeNil)
			So(out.Started, ShouldBeTrue)
			So(out.Optimizer, ShouldEqual, "search")
			So(out.TeamSize, ShouldEqual, 5)
			So(out.MaxTeamSize, ShouldEqual, 12)
			So(out.TotalPeople, ShouldEqual, 3)
		})

		Convey("When hitting the health endpoint", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestAdminEndpoint(t *testing.T) {
	Convey("Given the admin API", t, func() {
		deps := &stubDeps{updated: 7}
		mux := newMux(deps)

		Convey("When triggering a recompute", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/recompute", nil))

			Convey("Then the applied count comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var out struct {
					Updated int `json:"updated"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &out), ShouldBeNil)
				So(out.Updated, ShouldEqual, 7)
			})
		})

		Convey("When using GET", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/recompute", nil))

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the recompute fails", func() {
			deps.fail = errors.New("store torn down")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/recompute", nil))

			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}
