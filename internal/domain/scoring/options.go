package scoring

import "time"

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWeights sets the frequency/recency combination weights.
func WithWeights(freq, recency float64) Option {
	return func(c *Calculator) {
		if freq > 0 && recency > 0 {
			c.freqWeight = freq
			c.recencyWeight = recency
		}
	}
}

// WithSaturation sets the evidence count at which the frequency component
// approaches its maximum.
func WithSaturation(n int) Option {
	return func(c *Calculator) {
		if n > 1 {
			c.saturation = n
		}
	}
}

// WithImpactWeighting enables per-evidence impact weights and staged age
// decay when computing the frequency component.
func WithImpactWeighting() Option {
	return func(c *Calculator) {
		c.impactWeighting = true
	}
}

// WithNow fixes the reference clock. Tests use this to make levels
// reproducible for a given "today".
func WithNow(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}
