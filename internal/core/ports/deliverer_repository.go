package ports

import (
	"context"

	"routing/internal/core/domain/model/deliverer"
	"routing/internal/core/domain/model/kernel"
)

// DelivererRepository defines the persistence contract for deliverer aggregates.
type DelivererRepository interface {
	// Add persists a new deliverer aggregate to storage.
	Add(ctx context.Context, aggregate *deliverer.Deliverer) error

	// Update persists changes to an existing deliverer aggregate.
	Update(ctx context.Context, aggregate *deliverer.Deliverer) error

	// Get retrieves a deliverer aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*deliverer.Deliverer, error)
}
