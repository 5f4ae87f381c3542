package ports

import (
	"context"

	"fulfillment-cutoff-service/internal/domain"
)

// Port: the registry of fulfillment locations and their declared capabilities.
type BranchDirectory interface {
	// Return all active branches in a stable order.
	ListBranches(ctx context.Context) ([]domain.Branch, error)
}
