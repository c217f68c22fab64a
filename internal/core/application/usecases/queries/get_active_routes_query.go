package queries

import (
	"errors"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/route"
	"routing/internal/pkg/guard"
)

var ErrGetActiveRoutesQueryIsNotConstructed = errors.New(
	"GetActiveRoutesQuery must be created via NewGetActiveRoutesQuery constructor",
)

// GetActiveRoutesQuery retrieves every route that has not reached a terminal
// status, with per-route delivery progress.
type GetActiveRoutesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveRoutesQuery creates a query to retrieve active routes.
// This is a parameterless query.
func NewGetActiveRoutesQuery() GetActiveRoutesQuery {
	return GetActiveRoutesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveRoutesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveRoutesQueryIsNotConstructed)
}

// GetActiveRoutesQueryResponse represents the progress of one active route.
type GetActiveRoutesQueryResponse struct {
	ID             kernel.UUID
	Number         string
	Status         route.Status
	DelivererID    *kernel.UUID
	TotalStops     int
	FinalizedStops int
	StartedAt      *time.Time
}
