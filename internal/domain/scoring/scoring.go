// Package scoring computes skill levels from evidence.
//
// The level of a (person, skill) pair is a pure function of the evidence list
// and the reference date: recomputing with the same inputs yields the same
// output. There is no internal state and no caching.
package scoring

import (
	"math"
	"time"

	"github.com/busfactor/guardian/internal/domain/model"
)

// Default scoring constants. The frequency component saturates around
// defaultSaturation evidence items; more volume adds little.
const (
	minLevel          = 1.0
	maxLevel          = 5.0
	levelSpan         = 4.0
	defaultFreqWeight = 0.6
	defaultRecWeight  = 0.4
	defaultSaturation = 10
	// Recency of an undated demonstration. Deliberately between "fresh" and
	// "forgotten" so missing data neither rewards nor punishes.
	defaultUnknownRecency = 0.2
	recencyWindowDays     = 365.0
)

// Impact weights applied per evidence item when impact weighting is enabled.
const (
	impactHighWeight    = 1.5
	impactMediumWeight  = 1.0
	impactLowWeight     = 0.5
	impactDefaultWeight = 1.0
)

// Staged decay factors by evidence age in days.
const (
	decayFreshDays  = 60
	decayAgingDays  = 180
	decayStaleDays  = 300
	decayFresh      = 1.0
	decayAging      = 0.9
	decayStale      = 0.7
	decayOld        = 0.5
	decayUnknownAge = 1.0 // unknown is not stale
)

// Calculator derives a level in [1.0, 5.0] from evidence.
type Calculator struct {
	freqWeight      float64
	recencyWeight   float64
	saturation      int
	impactWeighting bool
	now             func() time.Time
}

// New creates a Calculator with default configuration.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		freqWeight:    defaultFreqWeight,
		recencyWeight: defaultRecWeight,
		saturation:    defaultSaturation,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Level computes the skill level for an evidence list. lastShown is the
// explicit most-recent demonstration date; pass a zero time to have it
// inferred from the evidence items themselves.
func (c *Calculator) Level(evs []model.Evidence, lastShown time.Time) float64 {
	asOf := c.now()

	freq := c.frequencyScore(evs, asOf)
	rec := c.recencyScore(evs, lastShown, asOf)

	level := minLevel + levelSpan*(c.freqWeight*freq+c.recencyWeight*rec)
	level = math.Max(minLevel, math.Min(maxLevel, level))
	return math.Round(level*100) / 100
}

func (c *Calculator) frequencyScore(evs []model.Evidence, asOf time.Time) float64 {
	if len(evs) == 0 {
		return 0
	}
	count := float64(len(evs))
	if c.impactWeighting {
		count = 0
		for _, ev := range evs {
			count += impactWeight(ev.Impact) * decayFactor(ev, asOf)
		}
	}
	if count <= 0 {
		return 0
	}
	return math.Log(1+count) / math.Log(1+float64(c.saturation))
}

func (c *Calculator) recencyScore(evs []model.Evidence, lastShown, asOf time.Time) float64 {
	last := lastShown
	if last.IsZero() {
		last = model.LatestEvidenceDate(evs)
	}
	if last.IsZero() {
		return defaultUnknownRecency
	}
	days := daysBetween(last, asOf)
	return math.Max(0, 1-float64(days)/recencyWindowDays)
}

func impactWeight(i model.Impact) float64 {
	switch i {
	case model.ImpactHigh:
		return impactHighWeight
	case model.ImpactMedium:
		return impactMediumWeight
	case model.ImpactLow:
		return impactLowWeight
	default:
		return impactDefaultWeight
	}
}

func decayFactor(ev model.Evidence, asOf time.Time) float64 {
	if !ev.Dated() {
		return decayUnknownAge
	}
	switch age := daysBetween(ev.Date, asOf); {
	case age < decayFreshDays:
		return decayFresh
	case age < decayAgingDays:
		return decayAging
	case age < decayStaleDays:
		return decayStale
	default:
		return decayOld
	}
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
