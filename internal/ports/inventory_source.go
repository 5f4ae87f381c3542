package ports

import (
	"context"

	"fulfillment-cutoff-service/internal/domain"
)

// Port: point-in-time inventory per branch and division.
type InventorySource interface {
	// Return the snapshot for one branch and division. A branch that carries
	// nothing in the division returns a zero snapshot, not an error.
	GetInventory(ctx context.Context, locationID string, division domain.Division) (domain.InventorySnapshot, error)
}
