package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Impact is an optional per-evidence weight hint.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// Evidence is the single normalized evidence shape the scoring engine sees.
// Legacy representations (plain URL strings, JSON-encoded objects) are
// converted to this shape at the ingestion boundary via ParseEvidence.
type Evidence struct {
	ID     string // stable id when the source assigned one
	URL    string
	Date   time.Time // zero when no date could be resolved
	Actor  string
	Source string
	Impact Impact // empty means unspecified
	Raw    string // original payload for legacy records
}

// Dated reports whether the evidence carries a resolvable date.
func (e Evidence) Dated() bool { return !e.Date.IsZero() }

// legacy JSON payloads used several keys for the demonstration date.
var evidenceDateKeys = []string{"date", "fecha", "created_at", "when"}

// ParseEvidence converts a legacy evidence record into the normalized shape.
// Accepted inputs: a plain URL string, or a JSON-encoded object with url/date/
// actor/source/id/impact fields (date under any historical key). Parsing never
// fails: anything unrecognized degrades to an evidence item with no date.
func ParseEvidence(raw string) Evidence {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(s), &obj); err == nil {
			return evidenceFromObject(obj, s)
		}
		// malformed JSON: keep the payload, treat the rest as unknown
		return Evidence{Raw: s}
	}
	return Evidence{URL: s, Raw: s}
}

func evidenceFromObject(obj map[string]any, raw string) Evidence {
	ev := Evidence{Raw: raw}
	if v, ok := obj["url"].(string); ok {
		ev.URL = v
	}
	if v, ok := obj["actor"].(string); ok {
		ev.Actor = v
	}
	if v, ok := obj["source"].(string); ok {
		ev.Source = v
	}
	if v, ok := obj["id"].(string); ok {
		ev.ID = v
	}
	if v, ok := obj["impacto"].(string); ok {
		ev.Impact = Impact(v)
	}
	if v, ok := obj["impact"].(string); ok {
		ev.Impact = Impact(v)
	}
	for _, key := range evidenceDateKeys {
		v, ok := obj[key].(string)
		if !ok || v == "" {
			continue
		}
		if d, ok := ParseEvidenceDate(v); ok {
			ev.Date = d
			break
		}
	}
	return ev
}

// ParseEvidenceDate resolves a calendar date from an ISO date or a full
// timestamp. The time-of-day portion, when present, is discarded.
func ParseEvidenceDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if i := strings.IndexByte(v, 'T'); i > 0 {
		v = v[:i]
	}
	if len(v) > 10 {
		v = v[:10]
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// LatestEvidenceDate returns the maximum resolvable date across items, or a
// zero time when none carries a date.
func LatestEvidenceDate(evs []Evidence) time.Time {
	var latest time.Time
	for _, ev := range evs {
		if ev.Date.After(latest) {
			latest = ev.Date
		}
	}
	return latest
}
