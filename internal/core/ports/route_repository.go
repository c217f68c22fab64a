package ports

import (
	"context"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/route"
)

// RouteRepository defines the persistence contract for route aggregates.
// A route is always loaded and stored together with all of its stops.
type RouteRepository interface {
	// Add persists a new route aggregate with all its stops atomically.
	Add(ctx context.Context, aggregate *route.Route) error

	// Update persists changes to an existing route aggregate and its stops.
	// Stop writes are conditioned on the version read at load time; a
	// concurrent modification surfaces as a VersionIsInvalidError.
	Update(ctx context.Context, aggregate *route.Route) error

	// Get retrieves a route aggregate with its stops by route identifier.
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)

	// GetByStopID retrieves the route aggregate owning the given stop.
	GetByStopID(ctx context.Context, stopID kernel.UUID) (*route.Route, error)

	// GetAllActive retrieves every route that is not yet in a terminal status.
	GetAllActive(ctx context.Context) ([]*route.Route, error)

	// CountForDay returns how many routes were created on the given calendar day.
	// Used to derive the next collision-free route number for that day.
	CountForDay(ctx context.Context, day time.Time) (int, error)
}
