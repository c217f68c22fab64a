// Package geo implements the geographic collaborators of route planning:
// the depot service, exclusion-zone geofencing, the A/B route side
// classifier, and the travel-time matrix oracle.
package geo

import (
	"routing/internal/core/domain/model/kernel"
)

// DepotService answers distance and serviceability questions relative to a
// single configured depot.
type DepotService struct {
	depot    kernel.GeoPoint
	radiusKm float64
}

// NewDepotService creates a DepotService for the given depot coordinates
// and delivery radius in kilometers.
func NewDepotService(depot kernel.GeoPoint, radiusKm float64) (*DepotService, error) {
	if err := depot.Validate(); err != nil {
		return nil, err
	}

	return &DepotService{
		depot:    depot,
		radiusKm: radiusKm,
	}, nil
}

// Depot returns the depot coordinates used as the sequencing origin.
func (s *DepotService) Depot() kernel.GeoPoint {
	return s.depot
}

// DeliveryRadiusKm returns the configured serviceable radius.
func (s *DepotService) DeliveryRadiusKm() float64 {
	return s.radiusKm
}

// DistanceFromDepotKm returns the great-circle distance from the depot.
func (s *DepotService) DistanceFromDepotKm(point kernel.GeoPoint) float64 {
	km, err := s.depot.DistanceKm(point)
	if err != nil {
		return 0
	}
	return km
}

// IsWithinDeliveryRadius reports whether the point is serviceable.
func (s *DepotService) IsWithinDeliveryRadius(point kernel.GeoPoint) bool {
	return s.DistanceFromDepotKm(point) <= s.radiusKm
}
