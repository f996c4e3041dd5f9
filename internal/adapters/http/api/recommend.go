// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/busfactor/guardian/internal/domain/guardian"
	"github.com/busfactor/guardian/internal/domain/model"
)

// RecommendDependencies defines the interface for recommendation operations.
type RecommendDependencies interface {
	Recommend(ctx context.Context, req guardian.Request) ([]guardian.Proposal, error)
}

// RecommendHandler handles team recommendation requests.
type RecommendHandler struct {
	deps        RecommendDependencies
	maxTeamSize int
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps RecommendDependencies, maxTeamSize int) *RecommendHandler {
	return &RecommendHandler{
		deps:        deps,
		maxTeamSize: maxTeamSize,
	}
}

// recommendRequest mirrors the JSON schema for POST /api/recommend.
type recommendRequest struct {
	Skills       []string `json:"skills"`
	AccessTags   []string `json:"access_tags"`
	Zones        []string `json:"zones"`
	TeamSize     int      `json:"team_size"`
	Period       string   `json:"period"`
	MinHours     float64  `json:"min_hours"`
	Profile      string   `json:"profile"`
	ForceInclude []string `json:"force_include"`
	ForceExclude []string `json:"force_exclude"`
}

func (r recommendRequest) validate(maxTeamSize int) error {
	if len(r.Skills) == 0 {
		return errors.New("missing skills")
	}
	for _, s := range r.Skills {
		if strings.TrimSpace(s) == "" {
			return errors.New("empty skill name")
		}
	}
	if r.TeamSize < 0 || r.TeamSize > maxTeamSize {
		return errors.New("team_size out of range")
	}
	if r.MinHours < 0 {
		return errors.New("min_hours must not be negative")
	}
	if r.Profile != "" && guardian.ProfileByID(r.Profile) == nil {
		return errors.New("unknown profile")
	}
	return nil
}

type recommendResponse struct {
	RequestID string     `json:"request_id"`
	Proposals []proposal `json:"proposals"`
}

type proposal struct {
	Strategy       string          `json:"strategy"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Members        []member        `json:"members"`
	Metrics        teamMetrics     `json:"metrics"`
	Justifications []justification `json:"justifications"`
	Summary        summary         `json:"summary"`
	RiskNotes      []string        `json:"risk_notes"`
	TotalScore     float64         `json:"total_score"`
}

type member struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Score  float64 `json:"score"`
	Hours  float64 `json:"hours"`
	Forced bool    `json:"forced"`
	Risk   string  `json:"risk"`
}

type teamMetrics struct {
	SkillCoverage float64 `json:"skill_coverage"`
	Experience    float64 `json:"experience"`
	Cohesion      float64 `json:"cohesion"`
	SPOFRisk      float64 `json:"spof_risk"`
}

type justification struct {
	MemberID string               `json:"member_id"`
	Skills   []skillJustification `json:"skills"`
}

type skillJustification struct {
	Skill    string     `json:"skill"`
	Level    float64    `json:"level"`
	Evidence []evidence `json:"evidence"`
}

type evidence struct {
	URL    string `json:"url,omitempty"`
	Date   string `json:"date,omitempty"`
	Actor  string `json:"actor,omitempty"`
	Source string `json:"source,omitempty"`
	Impact string `json:"impact,omitempty"`
}

type summary struct {
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
	Verdict string   `json:"verdict"`
}

// HandleRecommend handles POST /api/recommend requests.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := req.validate(h.maxTeamSize); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	proposals, err := h.deps.Recommend(r.Context(), guardian.Request{
		Skills:       req.Skills,
		AccessTags:   req.AccessTags,
		Zones:        req.Zones,
		TeamSize:     req.TeamSize,
		Period:       req.Period,
		MinHours:     req.MinHours,
		Profile:      req.Profile,
		ForceInclude: req.ForceInclude,
		ForceExclude: req.ForceExclude,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		RequestID: uuid.New().String(),
		Proposals: toProposals(proposals),
	})
}

func toProposals(in []guardian.Proposal) []proposal {
	out := make([]proposal, len(in))
	for i, p := range in {
		out[i] = proposal{
			Strategy:       p.Strategy,
			Title:          p.Title,
			Description:    p.Description,
			Members:        toMembers(p.Members),
			Metrics:        teamMetrics(p.Metrics),
			Justifications: toJustifications(p.Justifications),
			Summary: summary{
				Pros:    emptyIfNil(p.Summary.Pros),
				Cons:    emptyIfNil(p.Summary.Cons),
				Verdict: string(p.Summary.Verdict),
			},
			RiskNotes:  emptyIfNil(p.RiskNotes),
			TotalScore: p.TotalScore,
		}
	}
	return out
}

func toMembers(in []guardian.Member) []member {
	out := make([]member, len(in))
	for i, m := range in {
		out[i] = member{
			ID:     m.ID,
			Name:   m.Name,
			Role:   m.Role,
			Score:  m.Score,
			Hours:  m.Hours,
			Forced: m.Forced,
			Risk:   m.Risk.String(),
		}
	}
	return out
}

func toJustifications(in []guardian.Justification) []justification {
	out := make([]justification, len(in))
	for i, j := range in {
		skills := make([]skillJustification, len(j.Skills))
		for k, sj := range j.Skills {
			skills[k] = skillJustification{
				Skill:    sj.Skill,
				Level:    sj.Level,
				Evidence: toEvidence(sj.Evidence),
			}
		}
		out[i] = justification{MemberID: j.MemberID, Skills: skills}
	}
	return out
}

func toEvidence(in []model.Evidence) []evidence {
	out := make([]evidence, len(in))
	for i, ev := range in {
		e := evidence{
			URL:    ev.URL,
			Actor:  ev.Actor,
			Source: ev.Source,
			Impact: string(ev.Impact),
		}
		if ev.Dated() {
			e.Date = ev.Date.Format("2006-01-02")
		}
		out[i] = e
	}
	return out
}

// emptyIfNil keeps JSON arrays instead of null in responses.
func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
