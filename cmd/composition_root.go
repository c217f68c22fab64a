package cmd

import (
	"fmt"
	"log/slog"

	"routing/internal/adapters/out/geo"
	"routing/internal/adapters/out/postgres"
	"routing/internal/core/application/usecases/commands"
	"routing/internal/core/application/usecases/queries"
	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/services"
	"routing/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services, and use case handlers.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	sequencer services.Sequencer
	depot     ports.DepotService
	geofence  ports.GeofencingService
	sides     ports.RouteSideClassifier
	policy    commands.RoutePolicy
	logger    *slog.Logger
}

// NewCompositionRoot builds the object graph from the configuration.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	depotPoint, err := kernel.NewGeoPoint(config.DepotLatitude, config.DepotLongitude)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("depot coordinates: %w", err)
	}

	depotService, err := geo.NewDepotService(depotPoint, config.DeliveryRadiusKm)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("depot service: %w", err)
	}

	zones, err := config.ParseExclusionZones()
	if err != nil {
		return CompositionRoot{}, err
	}
	geofence, err := geo.NewGeofencingService(zones)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("geofencing service: %w", err)
	}

	sides, err := geo.NewRouteSideClassifier(depotPoint, config.RouteSideAxisBearing)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("route side classifier: %w", err)
	}

	policy, err := config.ParseRoutePolicy()
	if err != nil {
		return CompositionRoot{}, err
	}

	// Without a configured matrix endpoint all sequencing runs on haversine.
	var oracle ports.TravelTimeOracle
	if config.MatrixBaseURL != "" {
		oracle, err = geo.NewMatrixOracle(config.MatrixBaseURL, config.MatrixAPIKey, config.MatrixTimeout)
		if err != nil {
			return CompositionRoot{}, fmt.Errorf("matrix oracle: %w", err)
		}
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		sequencer:  services.NewSequencer(oracle, logger),
		depot:      depotService,
		geofence:   geofence,
		sides:      sides,
		policy:     policy,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateRouteCommandHandler() commands.CreateRouteCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateRouteCommandHandler(f, c.sequencer, c.depot, c.geofence, c.sides, c.policy, c.logger)
}

func (c *CompositionRoot) CreateStartRouteCommandHandler() commands.StartRouteCommandHandler {
	var f commands.RouteUoWFactory = FuncRouteUoWFactory(func() commands.RouteUoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartRouteCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkStopDeliveredCommandHandler() commands.MarkStopDeliveredCommandHandler {
	return commands.NewMarkStopDeliveredCommandHandler(c.stopUoWFactory())
}

func (c *CompositionRoot) CreateMarkStopFailedCommandHandler() commands.MarkStopFailedCommandHandler {
	return commands.NewMarkStopFailedCommandHandler(c.stopUoWFactory())
}

func (c *CompositionRoot) CreateMarkStopSkippedCommandHandler() commands.MarkStopSkippedCommandHandler {
	return commands.NewMarkStopSkippedCommandHandler(c.stopUoWFactory())
}

func (c *CompositionRoot) CreateGetRouteQueryHandler() queries.GetRouteQueryHandler {
	return queries.NewGetRouteQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveRoutesQueryHandler() queries.GetActiveRoutesQueryHandler {
	return queries.NewGetActiveRoutesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) stopUoWFactory() commands.StopUoWFactory {
	return FuncStopUoWFactory(func() commands.StopUoW {
		return c.uowFactory.Create()
	})
}

type FuncRouteUoWFactory func() commands.RouteUoW

func (f FuncRouteUoWFactory) Create() commands.RouteUoW {
	return f()
}

type FuncStopUoWFactory func() commands.StopUoW

func (f FuncStopUoWFactory) Create() commands.StopUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
