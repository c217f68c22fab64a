package commands

import (
	"context"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/route"
)

// StartRouteResult reports the status transition performed by StartRoute.
type StartRouteResult struct {
	RouteID     kernel.UUID
	RouteNumber string
	OldStatus   route.Status
	NewStatus   route.Status
	StartedAt   time.Time
}

// StartRouteCommandHandler handles the business logic for starting a route.
// Moves the route to InProgress, records the start time, and promotes the
// first pending stop to Next.
type StartRouteCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewStartRouteCommandHandler creates a handler for route start operations.
// Requires a RouteUoWFactory for transactional persistence.
func NewStartRouteCommandHandler(uowFactory RouteUoWFactory) StartRouteCommandHandler {
	return StartRouteCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the route start command.
// Fails without mutation when the route is not in Created or Assigned status.
func (h StartRouteCommandHandler) Handle(ctx context.Context, cmd StartRouteCommand) (StartRouteResult, error) {
	if err := cmd.Validate(); err != nil {
		return StartRouteResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return StartRouteResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	r, err := routeRepo.Get(ctx, cmd.RouteID())
	if err != nil {
		return StartRouteResult{}, err
	}

	oldStatus := r.Status()
	if err = r.Start(time.Now().UTC()); err != nil {
		return StartRouteResult{}, err
	}

	if err = routeRepo.Update(ctx, r); err != nil {
		return StartRouteResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return StartRouteResult{}, err
	}

	return StartRouteResult{
		RouteID:     r.ID(),
		RouteNumber: r.Number(),
		OldStatus:   oldStatus,
		NewStatus:   r.Status(),
		StartedAt:   *r.StartedAt(),
	}, nil
}
