package ports

import (
	"context"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"
)

// DepotService resolves the coordinates routes depart from and answers
// delivery-radius questions around them.
type DepotService interface {
	// Depot returns the departure point used as the sequencing origin.
	Depot() kernel.GeoPoint

	// DeliveryRadiusKm returns the configured serviceable radius.
	DeliveryRadiusKm() float64

	// DistanceFromDepotKm returns the straight-line distance from the depot.
	DistanceFromDepotKm(point kernel.GeoPoint) float64

	// IsWithinDeliveryRadius reports whether the point is serviceable.
	IsWithinDeliveryRadius(point kernel.GeoPoint) bool
}

// GeofencingService answers whether a location falls inside a configured
// exclusion zone where deliveries are not attempted.
type GeofencingService interface {
	// IsInsideExclusionZone reports whether the point is inside any zone.
	IsInsideExclusionZone(point kernel.GeoPoint) bool

	// ExclusionZones returns the names of the zones containing the point.
	// Used for error messages; empty when the point is clear.
	ExclusionZones(point kernel.GeoPoint) []string
}

// RouteSideClassifier splits geocoded orders into route sides.
// Orders on different sides never share a route.
type RouteSideClassifier interface {
	// FilterBySide returns the orders belonging to the given side, plus
	// human-readable warnings for orders too close to the dividing axis to
	// classify confidently.
	FilterBySide(orders []*order.Order, side string) ([]*order.Order, []string)
}

// TravelTimeOracle provides pairwise travel times between locations.
// Implementations typically call an external routing engine and may fail;
// callers fall back to straight-line estimates when they do.
type TravelTimeOracle interface {
	// Matrix returns an NxN matrix of travel durations in seconds between the
	// given points, where element [i][j] is the time from points[i] to points[j].
	Matrix(ctx context.Context, points []kernel.GeoPoint) ([][]float64, error)
}
