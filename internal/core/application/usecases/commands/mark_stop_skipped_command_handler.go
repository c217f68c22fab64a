package commands

import (
	"context"
	"time"

	"routing/internal/core/domain/model/order"
)

// MarkStopSkippedCommandHandler finalizes a stop as Skipped.
// The associated order is reverted to ReadyForDelivery only when the command
// asks for it; otherwise the order stays OutForDelivery. Advances the Next
// pointer and auto-completes the route when this was the last open stop.
type MarkStopSkippedCommandHandler struct {
	uowFactory StopUoWFactory
}

// NewMarkStopSkippedCommandHandler creates a handler for stop skip operations.
// Requires a StopUoWFactory for coordinating transactional updates across repositories.
func NewMarkStopSkippedCommandHandler(uowFactory StopUoWFactory) MarkStopSkippedCommandHandler {
	return MarkStopSkippedCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the stop skipped command.
// Fails without mutation when the route is not InProgress, the stop is not
// part of the route, or the stop is already finalized.
func (h MarkStopSkippedCommandHandler) Handle(
	ctx context.Context, cmd MarkStopSkippedCommand,
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
	stop, err := r.MarkStopSkipped(cmd.StopID(), cmd.Reason(), time.Now().UTC())
	if err != nil {
		return StopTransitionResult{}, err
	}

	if cmd.RequeueOrder() {
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
	}

	if err = routeRepo.Update(ctx, r); err != nil {
		return StopTransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return StopTransitionResult{}, err
	}

	return stopTransitionResult(r, stop, oldStatus), nil
}
