package geo

import (
	"fmt"
	"math"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"
)

// Route side labels produced by the classifier.
const (
	SideA = "A"
	SideB = "B"
)

// defaultNearAxisDegrees is the angular band around the dividing axis in
// which classification is considered unreliable.
const defaultNearAxisDegrees = 5.0

// RouteSideClassifier splits geocoded orders into sides A and B by their
// bearing from the depot relative to a configured dividing axis.
//
// An order whose bearing falls in the half-plane clockwise from the axis is
// side A, the other half-plane is side B. Orders within a few degrees of the
// axis are still classified but reported as warnings, since a small
// geocoding error could flip their side.
type RouteSideClassifier struct {
	depot           kernel.GeoPoint
	axisBearing     float64
	nearAxisDegrees float64
}

// NewRouteSideClassifier creates a classifier dividing the plane along the
// given axis bearing in degrees (0 is north, increasing clockwise).
func NewRouteSideClassifier(depot kernel.GeoPoint, axisBearing float64) (*RouteSideClassifier, error) {
	if err := depot.Validate(); err != nil {
		return nil, err
	}

	return &RouteSideClassifier{
		depot:           depot,
		axisBearing:     math.Mod(math.Mod(axisBearing, 360)+360, 360),
		nearAxisDegrees: defaultNearAxisDegrees,
	}, nil
}

// FilterBySide returns the orders belonging to the given side, plus
// human-readable warnings for orders that could not be classified
// confidently. Orders without coordinates are never classified.
func (c *RouteSideClassifier) FilterBySide(orders []*order.Order, side string) ([]*order.Order, []string) {
	var filtered []*order.Order
	var warnings []string

	for _, o := range orders {
		if !o.HasLocation() {
			warnings = append(warnings, fmt.Sprintf("order %s has no coordinates and cannot be classified", o.Number()))
			continue
		}

		orderSide, nearAxis := c.classify(*o.Location())
		if nearAxis {
			warnings = append(warnings, fmt.Sprintf("order %s is within %.0f degrees of the dividing axis, classified as side %s",
				o.Number(), c.nearAxisDegrees, orderSide))
		}
		if orderSide == side {
			filtered = append(filtered, o)
		}
	}

	return filtered, warnings
}

// classify returns the side of the point and whether it lies close enough
// to the dividing axis to be ambiguous.
func (c *RouteSideClassifier) classify(point kernel.GeoPoint) (string, bool) {
	bearing, err := c.depot.BearingTo(point)
	if err != nil {
		return SideA, true
	}

	relative := math.Mod(bearing-c.axisBearing+360, 360)

	side := SideA
	if relative >= 180 {
		side = SideB
	}

	// Distance in degrees to the nearer end of the axis line.
	distToAxis := math.Min(
		math.Min(relative, math.Abs(360-relative)),
		math.Abs(relative-180),
	)

	return side, distToAxis < c.nearAxisDegrees
}
