package memory

import (
	"context"
	"fmt"
	"sync"

	"fulfillment-cutoff-service/internal/domain"
)

// Fixed branch registry, kept in registration order.
type BranchDirectory struct {
	Branches []domain.Branch
}

func (d *BranchDirectory) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Branch(nil), d.Branches...), nil
}

// In-memory InventorySource keyed by location and division.
type InventorySource struct {
	mu        sync.RWMutex
	snapshots map[string]domain.InventorySnapshot
}

func NewInventorySource() *InventorySource {
	return &InventorySource{snapshots: map[string]domain.InventorySnapshot{}}
}

func inventoryKey(locationID string, division domain.Division) string {
	return fmt.Sprintf("%s|%s", locationID, division)
}

func (s *InventorySource) Set(locationID string, division domain.Division, snap domain.InventorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[inventoryKey(locationID, division)] = snap
}

func (s *InventorySource) GetInventory(ctx context.Context, locationID string, division domain.Division) (domain.InventorySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.InventorySnapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[inventoryKey(locationID, division)], nil
}
