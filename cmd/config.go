package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"routing/internal/adapters/out/geo"
	"routing/internal/core/application/usecases/commands"
	"routing/internal/core/domain/model/kernel"
)

// Config carries the environment-driven settings of the application.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	DepotLatitude    float64
	DepotLongitude   float64
	DeliveryRadiusKm float64

	// ExclusionZones is a semicolon-separated list of circular zones in the
	// form "Name:lat:lon:radiusKm".
	ExclusionZones string

	// RouteSideAxisBearing is the bearing in degrees of the axis dividing
	// sides A and B, measured from the depot.
	RouteSideAxisBearing float64

	MatrixBaseURL string
	MatrixAPIKey  string
	MatrixTimeout time.Duration

	// Geo policies: "exclude" drops the offending order, "fail" aborts the
	// whole batch.
	MissingCoordinatesPolicy string
	OutOfRadiusPolicy        string
	ExclusionZonePolicy      string

	StaleRouteAfter time.Duration
}

// DBConnectionString builds the postgres DSN from the DB settings.
func (c Config) DBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// ParseExclusionZones parses the ExclusionZones setting into zone values.
func (c Config) ParseExclusionZones() ([]geo.ExclusionZone, error) {
	if strings.TrimSpace(c.ExclusionZones) == "" {
		return nil, nil
	}

	var zones []geo.ExclusionZone
	for _, entry := range strings.Split(c.ExclusionZones, ";") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("exclusion zone %q must have the form Name:lat:lon:radiusKm", entry)
		}

		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("exclusion zone %q has an invalid latitude: %w", entry, err)
		}
		lon, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("exclusion zone %q has an invalid longitude: %w", entry, err)
		}
		radius, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return nil, fmt.Errorf("exclusion zone %q has an invalid radius: %w", entry, err)
		}

		center, err := kernel.NewGeoPoint(lat, lon)
		if err != nil {
			return nil, fmt.Errorf("exclusion zone %q: %w", entry, err)
		}

		zones = append(zones, geo.ExclusionZone{
			Name:     parts[0],
			Center:   center,
			RadiusKm: radius,
		})
	}

	return zones, nil
}

// ParseRoutePolicy resolves the configured geo policies, falling back to the
// defaults for unset values.
func (c Config) ParseRoutePolicy() (commands.RoutePolicy, error) {
	policy := commands.DefaultRoutePolicy()

	var err error
	if policy.MissingCoordinates, err = parseGeoPolicy(c.MissingCoordinatesPolicy, policy.MissingCoordinates); err != nil {
		return commands.RoutePolicy{}, fmt.Errorf("missing coordinates policy: %w", err)
	}
	if policy.OutOfRadius, err = parseGeoPolicy(c.OutOfRadiusPolicy, policy.OutOfRadius); err != nil {
		return commands.RoutePolicy{}, fmt.Errorf("out of radius policy: %w", err)
	}
	if policy.ExclusionZone, err = parseGeoPolicy(c.ExclusionZonePolicy, policy.ExclusionZone); err != nil {
		return commands.RoutePolicy{}, fmt.Errorf("exclusion zone policy: %w", err)
	}

	return policy, nil
}

func parseGeoPolicy(value string, fallback commands.GeoPolicy) (commands.GeoPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return fallback, nil
	case "exclude":
		return commands.Exclude, nil
	case "fail":
		return commands.Fail, nil
	default:
		return fallback, fmt.Errorf("unknown policy %q, expected \"exclude\" or \"fail\"", value)
	}
}
