package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/platform/metrics"
	"fulfillment-cutoff-service/internal/platform/obs"
	"fulfillment-cutoff-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

const (
	defaultFetchTimeout   = 2 * time.Second
	defaultMaxConcurrency = 8
)

// RankingService gathers each candidate's facts from the external
// collaborators and hands them to RankBranches.
//
// Fetches run concurrently. A fetch that fails or times out degrades only
// that candidate; cancelling ctx discards the whole run.
type RankingService struct {
	Branches  ports.BranchDirectory
	Rules     ports.CutoffRuleStore
	Inventory ports.InventorySource
	Scoring   ScoringConfig

	FetchTimeout   time.Duration
	MaxConcurrency int
	Now            func() time.Time
}

func NewRankingService(
	branches ports.BranchDirectory,
	rules ports.CutoffRuleStore,
	inventory ports.InventorySource,
	scoring ScoringConfig,
	fetchTimeout time.Duration,
) *RankingService {
	return &RankingService{
		Branches:       branches,
		Rules:          rules,
		Inventory:      inventory,
		Scoring:        scoring,
		FetchTimeout:   fetchTimeout,
		MaxConcurrency: defaultMaxConcurrency,
		Now:            time.Now,
	}
}

// Rank returns every eligible branch ordered best first, or an error when
// the candidate list itself cannot be read or ctx is cancelled. It never
// returns a partially ranked list.
func (s *RankingService) Rank(ctx context.Context, req RankRequest) (_ []domain.FulfillmentSuggestion, err error) {
	defer obs.Time(ctx, "ranking.Rank")(&err)
	defer func() { metrics.RankingRunsTotal.WithLabelValues(runOutcome(err)).Inc() }()

	if _, ok := req.Division.Label(); !ok {
		return nil, fmt.Errorf("rank branches: unknown division %q", req.Division)
	}

	now := req.At
	if now.IsZero() {
		now = s.now()
	}

	branches, err := s.Branches.ListBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("rank branches: list branches: %w", err)
	}

	eligible := make([]domain.Branch, 0, len(branches))
	for _, b := range branches {
		if req.ExcludeLocationID != "" && strings.EqualFold(b.LocationID, req.ExcludeLocationID) {
			continue
		}
		eligible = append(eligible, b)
	}
	if len(eligible) == 0 {
		return []domain.FulfillmentSuggestion{}, nil
	}

	candidates := make([]Candidate, len(eligible))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency())
	for i, b := range eligible {
		g.Go(func() error {
			candidates[i] = s.fetchCandidate(gctx, b, req.Division)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rank branches: %w", err)
	}

	metrics.RankingCandidates.Observe(float64(len(candidates)))

	return RankBranches(candidates, req, now, s.Scoring), nil
}

// fetchCandidate resolves one branch's rule set and inventory. Failures are
// logged and leave the corresponding facts unknown.
func (s *RankingService) fetchCandidate(ctx context.Context, b domain.Branch, division domain.Division) Candidate {
	c := Candidate{Facts: domain.BranchFacts{Branch: b}}

	rules, err := s.fetchRules(ctx, b.LocationID)
	switch {
	case err == nil:
		c.Rules = rules
	case errors.Is(err, domain.ErrNotFound):
		log.Printf("req_id=%s location_id=%s source=rules msg=%q", obs.RequestID(ctx), b.LocationID, "no cutoff rules")
	default:
		s.degraded(ctx, &domain.TransientFetchError{LocationID: b.LocationID, Source: "rules", Err: err})
	}

	snapshot, err := s.fetchInventory(ctx, b.LocationID, division)
	if err != nil {
		s.degraded(ctx, &domain.TransientFetchError{LocationID: b.LocationID, Source: "inventory", Err: err})
		c.InventoryUnknown = true
	} else {
		c.Facts.PerDivisionInventory = map[domain.Division]domain.InventorySnapshot{division: snapshot}
	}

	return c
}

func (s *RankingService) fetchRules(ctx context.Context, locationID string) (*domain.LocationCutoffRuleSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout())
	defer cancel()
	return s.Rules.GetRuleSet(ctx, locationID)
}

func (s *RankingService) fetchInventory(ctx context.Context, locationID string, division domain.Division) (domain.InventorySnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout())
	defer cancel()
	return s.Inventory.GetInventory(ctx, locationID, division)
}

func (s *RankingService) degraded(ctx context.Context, err *domain.TransientFetchError) {
	// Failures caused by the caller going away are not the collaborator's fault.
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return
	}
	metrics.CandidateFetchFailuresTotal.WithLabelValues(err.Source).Inc()
	log.Printf("req_id=%s location_id=%s source=%s err=%v", obs.RequestID(ctx), err.LocationID, err.Source, err.Err)
}

func (s *RankingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *RankingService) fetchTimeout() time.Duration {
	if s.FetchTimeout > 0 {
		return s.FetchTimeout
	}
	return defaultFetchTimeout
}

func (s *RankingService) maxConcurrency() int {
	if s.MaxConcurrency > 0 {
		return s.MaxConcurrency
	}
	return defaultMaxConcurrency
}

func runOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
