package ports

import (
	"context"

	"fulfillment-cutoff-service/internal/domain"
)

// Port: read/write access to per-location cutoff configuration.
type CutoffRuleStore interface {
	// Return the rule set for one location, or an error wrapping domain.ErrNotFound.
	GetRuleSet(ctx context.Context, locationID string) (*domain.LocationCutoffRuleSet, error)
	// Return every stored rule set ordered by location id.
	ListRuleSets(ctx context.Context) ([]*domain.LocationCutoffRuleSet, error)
	// Replace the rule set for its location (last write wins).
	PutRuleSet(ctx context.Context, rs *domain.LocationCutoffRuleSet) error
	// Replace many rule sets in one unit of work.
	PutAll(ctx context.Context, sets []*domain.LocationCutoffRuleSet) error
}
