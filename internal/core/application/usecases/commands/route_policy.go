package commands

// GeoPolicy selects how a geo validation step treats an offending order.
type GeoPolicy int

const (
	// Exclude drops offending orders from the candidate set with a diagnostic.
	Exclude GeoPolicy = iota

	// Fail aborts route creation when any order offends.
	Fail
)

// RoutePolicy configures the asymmetry of the route creation pipeline:
// which geo violations exclude the single order and which abort the batch.
type RoutePolicy struct {
	// MissingCoordinates applies to orders that were never geocoded.
	MissingCoordinates GeoPolicy

	// OutOfRadius applies to orders beyond the depot's delivery radius.
	OutOfRadius GeoPolicy

	// ExclusionZone applies to orders inside a configured exclusion zone.
	ExclusionZone GeoPolicy
}

// DefaultRoutePolicy returns the standard pipeline behavior: ungeocoded
// orders are silently excluded, while out-of-radius and exclusion-zone
// orders abort the whole batch.
func DefaultRoutePolicy() RoutePolicy {
	return RoutePolicy{
		MissingCoordinates: Exclude,
		OutOfRadius:        Fail,
		ExclusionZone:      Fail,
	}
}
