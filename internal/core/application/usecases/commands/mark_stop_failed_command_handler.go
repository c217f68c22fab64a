package commands

import (
	"context"
	"time"

	"routing/internal/core/domain/model/order"
)

// MarkStopFailedCommandHandler finalizes a stop as Failed with a reason.
// Reverts the associated order from OutForDelivery to ReadyForDelivery so it
// can be routed again, advances the Next pointer, and auto-completes the
// route when this was the last open stop.
type MarkStopFailedCommandHandler struct {
	uowFactory StopUoWFactory
}

// NewMarkStopFailedCommandHandler creates a handler for stop failure operations.
// Requires a StopUoWFactory for coordinating transactional updates across repositories.
func NewMarkStopFailedCommandHandler(uowFactory StopUoWFactory) MarkStopFailedCommandHandler {
	return MarkStopFailedCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the stop failed command.
// Fails without mutation when the route is not InProgress, the stop is not
// part of the route, or the stop is already finalized.
func (h MarkStopFailedCommandHandler) Handle(
	ctx context.Context, cmd MarkStopFailedCommand,
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
	stop, err := r.MarkStopFailed(cmd.StopID(), cmd.Reason(), time.Now().UTC())
	if err != nil {
		return StopTransitionResult{}, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, stop.OrderID())
	if err != nil {
		return StopTransitionResult{}, err
	}

	if o.Status() == order.OutForDelivery {
		if err = o.Requeue(); err != nil {
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
