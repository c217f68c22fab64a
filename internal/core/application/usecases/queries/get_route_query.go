// Package queries contains read-only operations over the persistence layer.
// Implements the Query side of the CQRS architecture: handlers read denormalized
// rows with raw SQL and never load or mutate domain aggregates.
package queries

import (
	"errors"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/route"
	"routing/internal/pkg/guard"
)

var ErrGetRouteQueryIsNotConstructed = errors.New(
	"GetRouteQuery must be created via NewGetRouteQuery constructor",
)

// GetRouteQuery retrieves one route together with all of its stops.
type GetRouteQuery struct {
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetRouteQuery creates a query for the given route.
func NewGetRouteQuery(routeID kernel.UUID) (GetRouteQuery, error) {
	if err := routeID.Validate(); err != nil {
		return GetRouteQuery{}, err
	}

	return GetRouteQuery{
		routeID: routeID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteQueryIsNotConstructed)
}

// RouteID returns the identifier of the route to read.
func (q GetRouteQuery) RouteID() kernel.UUID {
	return q.routeID
}

// GetRouteStopResponse represents one stop row of a route read.
type GetRouteStopResponse struct {
	ID            kernel.UUID
	Sequence      int
	Status        route.StopStatus
	OrderID       kernel.UUID
	OrderNumber   string
	CustomerName  string
	Phone         string
	Street        string
	DeliveredAt   *time.Time
	FailedAt      *time.Time
	FailureReason string
}

// GetRouteQueryResponse represents a route with its ordered stops.
type GetRouteQueryResponse struct {
	ID          kernel.UUID
	Number      string
	Status      route.Status
	DelivererID *kernel.UUID
	TotalStops  int
	StartedAt   *time.Time
	CompletedAt *time.Time
	Stops       []GetRouteStopResponse
}
