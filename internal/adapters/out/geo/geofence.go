package geo

import (
	"routing/internal/core/domain/model/kernel"
	"routing/internal/pkg/errs"
)

// ExclusionZone is a named circular area where deliveries are disallowed
// regardless of the delivery radius.
type ExclusionZone struct {
	Name     string
	Center   kernel.GeoPoint
	RadiusKm float64
}

// GeofencingService checks points against a configured set of circular
// exclusion zones.
type GeofencingService struct {
	zones []ExclusionZone
}

// NewGeofencingService creates a GeofencingService over the given zones.
// An empty zone list is valid and clears every point.
func NewGeofencingService(zones []ExclusionZone) (*GeofencingService, error) {
	for _, zone := range zones {
		if zone.Name == "" {
			return nil, errs.NewValueIsRequiredError("exclusion zone name")
		}
		if err := zone.Center.Validate(); err != nil {
			return nil, err
		}
		if zone.RadiusKm <= 0 {
			return nil, errs.NewValueIsOutOfRangeError("exclusion zone radius", zone.RadiusKm, 0, kernel.LatitudeMax)
		}
	}

	return &GeofencingService{zones: zones}, nil
}

// IsInsideExclusionZone reports whether the point falls inside any zone.
func (s *GeofencingService) IsInsideExclusionZone(point kernel.GeoPoint) bool {
	return len(s.ExclusionZones(point)) > 0
}

// ExclusionZones returns the names of the zones containing the point.
// Empty when the point is clear.
func (s *GeofencingService) ExclusionZones(point kernel.GeoPoint) []string {
	var names []string
	for _, zone := range s.zones {
		km, err := zone.Center.DistanceKm(point)
		if err != nil {
			continue
		}
		if km <= zone.RadiusKm {
			names = append(names, zone.Name)
		}
	}
	return names
}
