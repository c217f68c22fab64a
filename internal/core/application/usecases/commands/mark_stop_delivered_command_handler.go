package commands

import (
	"context"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"
	"routing/internal/core/domain/model/route"
)

// StopTransitionResult reports the outcome of a stop lifecycle transition.
// Shared by the delivered, failed, and skipped handlers. RouteCompleted is
// true when the transition finalized the last open stop and auto-completed
// the route; RouteCompletedAt is set in that case only.
type StopTransitionResult struct {
	RouteID          kernel.UUID
	StopID           kernel.UUID
	OldStatus        route.StopStatus
	NewStatus        route.StopStatus
	DeliveredAt      *time.Time
	FailedAt         *time.Time
	RouteCompleted   bool
	RouteCompletedAt *time.Time
}

// stopTransitionResult snapshots the transition outcome from the mutated
// route and stop.
func stopTransitionResult(r *route.Route, stop *route.Stop, oldStatus route.StopStatus) StopTransitionResult {
	return StopTransitionResult{
		RouteID:          r.ID(),
		StopID:           stop.ID(),
		OldStatus:        oldStatus,
		NewStatus:        stop.Status(),
		DeliveredAt:      stop.DeliveredAt(),
		FailedAt:         stop.FailedAt(),
		RouteCompleted:   r.Status() == route.Completed,
		RouteCompletedAt: r.CompletedAt(),
	}
}

// stopStatusBefore reads the current status of the stop before a transition.
// Missing stops are left to the transition itself to report.
func stopStatusBefore(r *route.Route, stopID kernel.UUID) route.StopStatus {
	if stop := r.FindStop(stopID); stop != nil {
		return stop.Status()
	}
	return route.StopUnknown
}

// MarkStopDeliveredCommandHandler finalizes a stop as Delivered.
// Advances the associated order from OutForDelivery to Delivered, moves the
// Next pointer forward, and auto-completes the route when this was the last
// open stop. Route, stop, and order mutations commit atomically.
type MarkStopDeliveredCommandHandler struct {
	uowFactory StopUoWFactory
}

// NewMarkStopDeliveredCommandHandler creates a handler for stop delivery operations.
// Requires a StopUoWFactory for coordinating transactional updates across repositories.
func NewMarkStopDeliveredCommandHandler(uowFactory StopUoWFactory) MarkStopDeliveredCommandHandler {
	return MarkStopDeliveredCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the stop delivered command.
// Fails without mutation when the route is not InProgress, the stop is not
// part of the route, or the stop is already finalized.
func (h MarkStopDeliveredCommandHandler) Handle(
	ctx context.Context, cmd MarkStopDeliveredCommand,
) (StopTransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return StopTransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return StopTransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	r, err := routeRepo.Get(ctx, cmd.RouteID())
	if err != nil {
		return StopTransitionResult{}, err
	}

	oldStatus := stopStatusBefore(r, cmd.StopID())
	stop, err := r.MarkStopDelivered(cmd.StopID(), time.Now().UTC())
	if err != nil {
		return StopTransitionResult{}, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, stop.OrderID())
	if err != nil {
		return StopTransitionResult{}, err
	}

	if o.Status() == order.OutForDelivery {
		if err = o.Deliver(); err != nil {
			return StopTransitionResult{}, err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return StopTransitionResult{}, err
		}
	}

	if err = routeRepo.Update(ctx, r); err != nil {
		return StopTransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return StopTransitionResult{}, err
	}

	return stopTransitionResult(r, stop, oldStatus), nil
}
