package commands

import (
	"errors"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/pkg/guard"
)

// Route sides recognized by the side classifier.
const (
	RouteSideA = "A"
	RouteSideB = "B"
)

var (
	ErrCreateRouteCommandIsNotConstructed = errors.New(
		"CreateRouteCommand must be created via NewCreateRouteCommand constructor",
	)
	ErrOrderIDsAreRequired = errors.New("at least one order id is required")
	ErrDuplicateOrderIDs   = errors.New("order ids must be distinct")
	ErrRouteSideIsInvalid  = errors.New(`route side must be "A" or "B"`)
)

// CreateRouteCommand represents a request to build a delivery route for a
// deliverer from a batch of ready orders. An optional route side restricts
// the batch to orders on one side of the service area.
//
// Example:
//
//	routeID := kernel.NewUUID()
//	cmd, err := NewCreateRouteCommand(routeID, delivererID, orderIDs, "")
//	if err != nil {
//	    return fmt.Errorf("invalid route data: %w", err)
//	}
//
//	handler := NewCreateRouteCommandHandler(uowFactory, sequencer, depot, geofence, sides, policy, nil)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create route: %w", err)
//	}
type CreateRouteCommand struct { //nolint:recvcheck //using for validation
	routeID     kernel.UUID
	delivererID kernel.UUID
	orderIDs    []kernel.UUID
	routeSide   string

	guard guard.ConstructorGuard
}

// NewCreateRouteCommand creates a command to build a new route.
// Validates that the IDs are valid, the order list is non-empty with no
// duplicates, and the route side is "A", "B", or empty.
func NewCreateRouteCommand(
	routeID kernel.UUID, delivererID kernel.UUID, orderIDs []kernel.UUID, routeSide string,
) (CreateRouteCommand, error) {
	routeCommand := CreateRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		routeCommand.setRouteID(routeID),
		routeCommand.setDelivererID(delivererID),
		routeCommand.setOrderIDs(orderIDs),
		routeCommand.setRouteSide(routeSide),
	); err != nil {
		return CreateRouteCommand{}, err
	}

	return routeCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateRouteCommandIsNotConstructed if validation fails.
func (c CreateRouteCommand) Validate() error {
	return c.guard.Validate(ErrCreateRouteCommandIsNotConstructed)
}

// RouteID returns the unique identifier for the route to create.
func (c CreateRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// DelivererID returns the identifier of the deliverer to assign.
func (c CreateRouteCommand) DelivererID() kernel.UUID {
	return c.delivererID
}

// OrderIDs returns the identifiers of the orders to route.
func (c CreateRouteCommand) OrderIDs() []kernel.UUID {
	return c.orderIDs
}

// RouteSide returns the requested side, or empty when no side was requested.
func (c CreateRouteCommand) RouteSide() string {
	return c.routeSide
}

// HasRouteSide reports whether a side restriction was requested.
func (c CreateRouteCommand) HasRouteSide() bool {
	return c.routeSide != ""
}

func (c *CreateRouteCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *CreateRouteCommand) setDelivererID(delivererID kernel.UUID) error {
	if err := delivererID.Validate(); err != nil {
		return err
	}

	c.delivererID = delivererID
	return nil
}

func (c *CreateRouteCommand) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return ErrOrderIDsAreRequired
	}

	seen := make(map[kernel.UUID]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, ok := seen[id]; ok {
			return ErrDuplicateOrderIDs
		}
		seen[id] = struct{}{}
	}

	c.orderIDs = orderIDs
	return nil
}

func (c *CreateRouteCommand) setRouteSide(routeSide string) error {
	if routeSide != "" && routeSide != RouteSideA && routeSide != RouteSideB {
		return ErrRouteSideIsInvalid
	}

	c.routeSide = routeSide
	return nil
}
