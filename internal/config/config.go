// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Optimizer engine selection. Exactly one lineage runs per deployment.
const (
	OptimizerSearch     = "search"
	OptimizerStrategies = "strategies"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Optimizer picks the proposal engine: "search" (iterative greedy plus
	// local search) or "strategies" (the three named archetypes).
	Optimizer string `koanf:"optimizer"`

	// Dataset points at an optional JSON organization snapshot loaded at
	// startup. Empty means start with an empty directory.
	Dataset string `koanf:"dataset"`

	// TeamSize is the default requested team size.
	TeamSize int `koanf:"team_size"`

	// MaxTeamSize caps the team size accepted from requests.
	MaxTeamSize int `koanf:"max_team_size"`

	// DefaultHours are the weekly hours assumed when a request carries no
	// availability constraint.
	DefaultHours float64 `koanf:"default_hours"`

	// NucleusSize is how many anchor members seed the iterative search.
	NucleusSize int `koanf:"nucleus_size"`

	// SearchMaxPasses bounds the local-search refinement loop.
	SearchMaxPasses int `koanf:"search_max_passes"`

	// SearchSwapEpsilon is the minimum utility gain for accepting a swap.
	SearchSwapEpsilon float64 `koanf:"search_swap_epsilon"`

	// MaxEdgeWeight normalizes cohesion; the practical ceiling of an edge
	// strength in the collaboration graph.
	MaxEdgeWeight float64 `koanf:"max_edge_weight"`

	// TopEvidence caps the evidence items cited per justification.
	TopEvidence int `koanf:"top_evidence"`

	// ImpactWeighting toggles impact-and-decay weighted evidence counting
	// in the level formula.
	ImpactWeighting bool `koanf:"impact_weighting"`

	// RecomputeOnStart triggers a full level recompute against the loaded
	// dataset before serving.
	RecomputeOnStart bool `koanf:"recompute_on_start"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9070",
		Optimizer:         OptimizerSearch,
		Dataset:           "",
		TeamSize:          5,
		MaxTeamSize:       12,
		DefaultHours:      40,
		NucleusSize:       2,
		SearchMaxPasses:   10,
		SearchSwapEpsilon: 1e-6,
		MaxEdgeWeight:     10.0,
		TopEvidence:       3,
		ImpactWeighting:   false,
		RecomputeOnStart:  true,
	}
}
