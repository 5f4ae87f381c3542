package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"fulfillment-cutoff-service/internal/domain"
)

// In-memory implementation of the CutoffRuleStore port.
// Rule sets are copied on the way in and out. Safe for concurrent use.
type CutoffRuleStore struct {
	mu   sync.RWMutex
	sets map[string]*domain.LocationCutoffRuleSet
	now  func() time.Time
}

func NewCutoffRuleStore(sets ...*domain.LocationCutoffRuleSet) *CutoffRuleStore {
	s := &CutoffRuleStore{
		sets: make(map[string]*domain.LocationCutoffRuleSet, len(sets)),
		now:  time.Now,
	}
	for _, rs := range sets {
		s.sets[rs.LocationID] = rs.Clone()
	}
	return s
}

func (s *CutoffRuleStore) GetRuleSet(ctx context.Context, locationID string) (*domain.LocationCutoffRuleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rs, ok := s.sets[strings.TrimSpace(locationID)]
	if !ok {
		return nil, fmt.Errorf("memory rule store: location %q: %w", locationID, domain.ErrNotFound)
	}
	return rs.Clone(), nil
}

func (s *CutoffRuleStore) ListRuleSets(ctx context.Context) ([]*domain.LocationCutoffRuleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.LocationCutoffRuleSet, 0, len(s.sets))
	for _, rs := range s.sets {
		out = append(out, rs.Clone())
	}
	slices.SortFunc(out, func(a, b *domain.LocationCutoffRuleSet) int {
		return strings.Compare(a.LocationID, b.LocationID)
	})
	return out, nil
}

func (s *CutoffRuleStore) PutRuleSet(ctx context.Context, rs *domain.LocationCutoffRuleSet) error {
	return s.PutAll(ctx, []*domain.LocationCutoffRuleSet{rs})
}

func (s *CutoffRuleStore) PutAll(ctx context.Context, sets []*domain.LocationCutoffRuleSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	for _, rs := range sets {
		c := rs.Clone()
		c.UpdatedAt = now
		s.sets[c.LocationID] = c
	}
	return nil
}
