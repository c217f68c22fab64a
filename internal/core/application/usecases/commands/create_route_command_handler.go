package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"
	"routing/internal/core/domain/model/route"
	"routing/internal/core/domain/services"
	"routing/internal/core/ports"
)

var (
	ErrDelivererIsNotActive = errors.New("deliverer is not active")
	ErrOrderIsNotReady      = errors.New("order is not ready for delivery")
	ErrOrderIsNotGeocoded   = errors.New("order has no coordinates")
	ErrOrderIsOutOfRadius   = errors.New("order is outside the delivery radius")
	ErrOrderInExclusionZone = errors.New("order is inside an exclusion zone")
	ErrNoRoutableOrders     = errors.New("no routable orders remain after filtering")
)

// Route numbers restart daily; the suffix starts at 100 to keep three digits.
const routeNumberOffset = 100

// CreateRouteCommandHandler runs the route creation pipeline: it validates
// the deliverer and the order batch, applies the geo policies, sequences the
// surviving orders, and persists the route together with the order status
// mutations in a single transaction.
//
// Pipeline failures persist nothing. The asymmetry between excluding a
// single order and aborting the batch is configured via RoutePolicy.
type CreateRouteCommandHandler struct {
	uowFactory UoWFactory
	sequencer  services.Sequencer
	depot      ports.DepotService
	geofence   ports.GeofencingService
	sides      ports.RouteSideClassifier
	policy     RoutePolicy
	log        *slog.Logger
}

// NewCreateRouteCommandHandler creates a handler for route creation.
// Requires a UoWFactory for transactional persistence plus the geo
// collaborators consulted by the validation pipeline.
func NewCreateRouteCommandHandler(
	uowFactory UoWFactory,
	sequencer services.Sequencer,
	depot ports.DepotService,
	geofence ports.GeofencingService,
	sides ports.RouteSideClassifier,
	policy RoutePolicy,
	log *slog.Logger,
) CreateRouteCommandHandler {
	if log == nil {
		log = slog.Default()
	}
	return CreateRouteCommandHandler{
		uowFactory: uowFactory,
		sequencer:  sequencer,
		depot:      depot,
		geofence:   geofence,
		sides:      sides,
		policy:     policy,
		log:        log,
	}
}

// Handle processes the route creation command.
//
// Steps run strictly in order and short-circuit on failure: deliverer
// lookup, order resolution, status check, geo policies, optional side
// filter, sequencing, materialization, and the ReadyForDelivery to
// OutForDelivery transition of every included order. Everything commits
// atomically or not at all.
func (h CreateRouteCommandHandler) Handle(ctx context.Context, cmd CreateRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DelivererRepository().Get(ctx, cmd.DelivererID())
	if err != nil {
		return err
	}
	if !d.IsActive() {
		return fmt.Errorf("deliverer %s: %w", d.Name(), ErrDelivererIsNotActive)
	}

	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetAllByIDs(ctx, cmd.OrderIDs())
	if err != nil {
		return err
	}

	for _, o := range orders {
		if o.Status() != order.ReadyForDelivery {
			return fmt.Errorf("order %s is %s: %w", o.Number(), o.Status(), ErrOrderIsNotReady)
		}
	}

	candidates, err := h.applyGeoPolicies(orders)
	if err != nil {
		return err
	}

	if cmd.HasRouteSide() {
		filtered, warnings := h.sides.FilterBySide(candidates, cmd.RouteSide())
		for _, warning := range warnings {
			h.log.Warn("route side classification warning", "warning", warning)
		}
		if len(filtered) == 0 {
			return fmt.Errorf("no orders on route side %s: %w", cmd.RouteSide(), ErrNoRoutableOrders)
		}
		candidates = filtered
	}

	var depotPoint *kernel.GeoPoint
	if cmd.HasRouteSide() {
		point := h.depot.Depot()
		depotPoint = &point
	}
	sequenced := h.sequencer.Sequence(ctx, candidates, depotPoint)

	routeRepo := uow.RouteRepository()
	number, err := nextRouteNumber(ctx, routeRepo, time.Now().UTC())
	if err != nil {
		return err
	}

	r, err := route.NewRoute(cmd.RouteID(), number, cmd.DelivererID(), sequenced)
	if err != nil {
		return err
	}

	for _, o := range sequenced {
		if err = o.StartDelivery(); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
	}

	if err = routeRepo.Add(ctx, r); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// applyGeoPolicies runs the geocoding, radius, and exclusion-zone checks
// over the batch, excluding or aborting per the configured policy.
func (h CreateRouteCommandHandler) applyGeoPolicies(orders []*order.Order) ([]*order.Order, error) {
	candidates := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if !o.HasLocation() {
			if h.policy.MissingCoordinates == Fail {
				return nil, fmt.Errorf("order %s: %w", o.Number(), ErrOrderIsNotGeocoded)
			}
			h.log.Warn("excluding order without coordinates", "order", o.Number())
			continue
		}

		point := *o.Location()

		if !h.depot.IsWithinDeliveryRadius(point) {
			if h.policy.OutOfRadius == Fail {
				return nil, fmt.Errorf("order %s is %.1f km from the depot, delivery radius is %.1f km: %w",
					o.Number(), h.depot.DistanceFromDepotKm(point), h.depot.DeliveryRadiusKm(), ErrOrderIsOutOfRadius)
			}
			h.log.Warn("excluding order outside the delivery radius",
				"order", o.Number(), "distanceKm", h.depot.DistanceFromDepotKm(point))
			continue
		}

		if h.geofence.IsInsideExclusionZone(point) {
			if h.policy.ExclusionZone == Fail {
				zones := h.geofence.ExclusionZones(point)
				return nil, fmt.Errorf("order %s is inside exclusion zone %s: %w",
					o.Number(), strings.Join(zones, ", "), ErrOrderInExclusionZone)
			}
			h.log.Warn("excluding order inside an exclusion zone", "order", o.Number())
			continue
		}

		candidates = append(candidates, o)
	}

	if len(candidates) == 0 {
		return nil, ErrNoRoutableOrders
	}

	return candidates, nil
}

// nextRouteNumber derives the day-scoped route number RT-<yyyyMMdd>-<NNN>
// from the count of routes already created that day.
func nextRouteNumber(ctx context.Context, repo ports.RouteRepository, now time.Time) (string, error) {
	count, err := repo.CountForDay(ctx, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RT-%s-%d", now.Format("20060102"), routeNumberOffset+count), nil
}
