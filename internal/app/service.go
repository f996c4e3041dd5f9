// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/busfactor/guardian/internal/adapters/repository"
	"github.com/busfactor/guardian/internal/domain/guardian"
	"github.com/busfactor/guardian/internal/domain/linchpin"
	"github.com/busfactor/guardian/internal/domain/model"
	"github.com/busfactor/guardian/internal/domain/scoring"
	"github.com/busfactor/guardian/pkg/logger"
	"github.com/busfactor/guardian/pkg/metrics"
)

// Sentinel error kinds for this package.
var (
	ErrNotStarted  = errors.New("service not started")
	ErrTeamSize    = errors.New("team size out of range")
	ErrNoSkills    = errors.New("at least one required skill is needed")
	ErrBadStrategy = errors.New("unknown optimizer")
)

// Optimizer engine names accepted by WithOptimizer.
const (
	OptimizerSearch     = "search"
	OptimizerStrategies = "strategies"
)

// Service implements the API dependencies for the recommendation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	engine   guardian.Engine
	calc     *scoring.Calculator
	detector *linchpin.Detector

	// Configuration
	optimizer       string
	teamSize        int
	maxTeamSize     int
	defaultHours    float64
	nucleusSize     int
	maxPasses       int
	swapEpsilon     float64
	maxEdgeWeight   float64
	topEvidence     int
	impactWeighting bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore sets the organization store backing the service.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithOptimizer picks the proposal engine lineage.
func WithOptimizer(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.optimizer = strings.ToLower(name)
		}
	}
}

// WithTeamSize sets the default requested team size.
func WithTeamSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.teamSize = n
		}
	}
}

// WithMaxTeamSize caps the team size accepted from requests.
func WithMaxTeamSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTeamSize = n
		}
	}
}

// WithDefaultHours sets the hours assumed without an availability constraint.
func WithDefaultHours(h float64) Option {
	return func(s *Service) {
		if h > 0 {
			s.defaultHours = h
		}
	}
}

// WithNucleusSize sets how many anchors seed the iterative search.
func WithNucleusSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.nucleusSize = n
		}
	}
}

// WithSearchLimits bounds the local-search refinement loop.
func WithSearchLimits(passes int, epsilon float64) Option {
	return func(s *Service) {
		if passes > 0 {
			s.maxPasses = passes
		}
		if epsilon > 0 {
			s.swapEpsilon = epsilon
		}
	}
}

// WithMaxEdgeWeight sets the cohesion normalization ceiling.
func WithMaxEdgeWeight(w float64) Option {
	return func(s *Service) {
		if w > 0 {
			s.maxEdgeWeight = w
		}
	}
}

// WithTopEvidence caps the evidence citations per justification.
func WithTopEvidence(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topEvidence = n
		}
	}
}

// WithImpactWeighting toggles impact-and-decay weighted evidence counting.
func WithImpactWeighting(enabled bool) Option {
	return func(s *Service) {
		s.impactWeighting = enabled
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		optimizer:     OptimizerSearch,
		teamSize:      5,
		maxTeamSize:   12,
		defaultHours:  40,
		nucleusSize:   2,
		maxPasses:     10,
		swapEpsilon:   1e-6,
		maxEdgeWeight: 10.0,
		topEvidence:   3,
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting guardian service...")

	if s.store == nil {
		store, err := repository.NewMemoryStore()
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		s.store = store
	}

	scoringOpts := []scoring.Option{}
	if s.impactWeighting {
		scoringOpts = append(scoringOpts, scoring.WithImpactWeighting())
	}
	s.calc = scoring.New(scoringOpts...)

	engineOpts := []guardian.Option{
		guardian.WithTeamSize(s.teamSize),
		guardian.WithDefaultHours(s.defaultHours),
		guardian.WithNucleusSize(s.nucleusSize),
		guardian.WithMaxPasses(s.maxPasses),
		guardian.WithSwapEpsilon(s.swapEpsilon),
		guardian.WithMaxEdgeWeight(s.maxEdgeWeight),
		guardian.WithTopEvidence(s.topEvidence),
		guardian.WithConflictRejected(metrics.RecordConflictRejection),
	}
	switch s.optimizer {
	case OptimizerSearch:
		s.engine = guardian.NewSearchEngine(s.store, s, engineOpts...)
	case OptimizerStrategies:
		s.engine = guardian.NewStrategyEngine(s.store, s, engineOpts...)
	default:
		return fmt.Errorf("%w: %q", ErrBadStrategy, s.optimizer)
	}

	s.started = true
	s.logger.Info(ctx, "guardian service started",
		logger.String("optimizer", s.optimizer),
		logger.Int("teamSize", s.teamSize),
		logger.Int("people", s.store.Count(ctx)),
	)

	return nil
}

// Stop shuts the service down. The store is in-memory, so there is nothing
// to flush; the flag keeps late requests from running against a torn-down
// process.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "guardian service stopped")
}

// Recommend runs the selected engine over a validated request.
func (s *Service) Recommend(ctx context.Context, req guardian.Request) ([]guardian.Proposal, error) {
	s.mu.RLock()
	engine, started, maxSize := s.engine, s.started, s.maxTeamSize
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}
	if len(req.Skills) == 0 {
		return nil, ErrNoSkills
	}
	if req.TeamSize < 0 || req.TeamSize > maxSize {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTeamSize, req.TeamSize, maxSize)
	}

	start := time.Now()
	proposals, err := engine.Propose(ctx, req)
	metrics.RecordRecommendation()
	metrics.RecordRecommendationLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordRecommendationError()
		return nil, err
	}

	if len(proposals) == 0 {
		metrics.RecordEmptyRecommendation()
		s.logger.Warn(ctx, "no viable team for request",
			logger.Any("skills", req.Skills),
			logger.Int("teamSize", req.TeamSize),
		)
	}
	metrics.RecordProposals(len(proposals))
	return proposals, nil
}

// Linchpins runs an organization-wide scan and returns the flagged people,
// most severe first.
func (s *Service) Linchpins(ctx context.Context) ([]linchpin.Record, error) {
	start := time.Now()
	det, err := s.detectorFor(ctx)
	if err != nil {
		return nil, err
	}
	records := det.Records()

	critical := 0
	for _, r := range records {
		if r.Risk == linchpin.RiskCritical {
			critical++
		}
	}
	metrics.RecordLinchpinScan()
	metrics.RecordLinchpinScanLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateLinchpinCritical(critical)
	return records, nil
}

// RiskFor rates one person's linchpin risk. This is the engine's RiskRater.
func (s *Service) RiskFor(ctx context.Context, id string) (linchpin.Risk, error) {
	det, err := s.detectorFor(ctx)
	if err != nil {
		return linchpin.RiskLow, err
	}
	return det.RiskFor(id), nil
}

// detectorFor returns the cached detector, rebuilding it when the underlying
// organization data changed since the last scan.
func (s *Service) detectorFor(ctx context.Context) (*linchpin.Detector, error) {
	s.mu.RLock()
	det, started := s.detector, s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	if det != nil {
		return det, nil
	}

	edges, err := s.store.AllCollaborationEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collaboration graph: %w", err)
	}
	holders, err := s.store.SkillHolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load skill holders: %w", err)
	}
	det = linchpin.NewDetector(edges, holders)

	s.mu.Lock()
	s.detector = det
	s.mu.Unlock()
	return det, nil
}

// invalidateDetector drops the cached centrality analysis after a data change.
func (s *Service) invalidateDetector() {
	s.mu.Lock()
	s.detector = nil
	s.mu.Unlock()
}

// People lists the directory.
func (s *Service) People(ctx context.Context) ([]model.Person, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	return s.store.People(ctx)
}

// Profiles lists the supported mission profiles.
func (s *Service) Profiles() []guardian.Profile {
	return guardian.Profiles()
}

// RecomputeLevels recalculates every skill level from evidence and applies
// the batch atomically. It returns the number of relationships updated.
func (s *Service) RecomputeLevels(ctx context.Context) (int, error) {
	s.mu.RLock()
	calc, started := s.calc, s.started
	s.mu.RUnlock()
	if !started {
		return 0, ErrNotStarted
	}

	start := time.Now()
	demos, err := s.store.Demonstrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("load demonstrations: %w", err)
	}

	now := time.Now()
	batch := make([]model.LevelUpdate, 0, len(demos))
	for _, d := range demos {
		for _, ev := range d.Evidence {
			if !ev.Dated() && strings.HasPrefix(ev.Raw, "{") {
				metrics.RecordEvidenceParseFailure()
			}
		}
		batch = append(batch, model.LevelUpdate{
			PersonID:   d.PersonID,
			Skill:      d.Skill,
			Level:      calc.Level(d.Evidence, d.LastShown),
			ComputedAt: now,
		})
	}

	applied, err := s.store.ApplyLevels(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("apply levels: %w", err)
	}
	s.invalidateDetector()

	metrics.RecordLevelRecompute()
	metrics.RecordLevelsApplied(applied)
	metrics.RecordRecomputeLatency(float64(time.Since(start).Milliseconds()))
	s.logger.Info(ctx, "levels recomputed",
		logger.Int("relationships", len(batch)),
		logger.Int("applied", applied),
		logger.Duration("took", time.Since(start)),
	)
	return applied, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"optimizer":   s.optimizer,
		"teamSize":    s.teamSize,
		"maxTeamSize": s.maxTeamSize,
	}

	if s.started {
		total := s.store.Count(ctx)
		stats["totalPeople"] = total
		metrics.UpdateTotalPeople(total)
	}

	return stats
}
