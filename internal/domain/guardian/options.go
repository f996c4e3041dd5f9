package guardian

import "time"

// Option applies a configuration option to an engine.
type Option func(*settings)

// WithTeamSize sets the default team size used when a request omits one.
func WithTeamSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.teamSize = n
		}
	}
}

// WithDefaultHours sets the full-time hours assumed when no availability
// filtering is requested or for force-included members.
func WithDefaultHours(h float64) Option {
	return func(s *settings) {
		if h > 0 {
			s.defaultHours = h
		}
	}
}

// WithNucleusSize caps how many linchpin candidates seed each proposal.
func WithNucleusSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.nucleusSize = n
		}
	}
}

// WithMaxPasses caps local-search refinement passes.
func WithMaxPasses(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxPasses = n
		}
	}
}

// WithSwapEpsilon sets the minimum utility improvement for accepting a swap.
func WithSwapEpsilon(e float64) Option {
	return func(s *settings) {
		if e > 0 {
			s.epsilon = e
		}
	}
}

// WithMaxEdgeWeight sets the empirical edge-strength ceiling used to
// normalize cohesion.
func WithMaxEdgeWeight(w float64) Option {
	return func(s *settings) {
		if w > 0 {
			s.maxEdgeWeight = w
		}
	}
}

// WithTopEvidence caps how many evidence items back each skill
// justification.
func WithTopEvidence(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.topEvidence = n
		}
	}
}

// WithConflictRejected registers a callback invoked each time a candidate
// team is dropped for violating a declared conflict.
func WithConflictRejected(fn func()) Option {
	return func(s *settings) {
		if fn != nil {
			s.onConflictRejected = fn
		}
	}
}

// WithNow fixes the reference clock used for edge freshness.
func WithNow(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
