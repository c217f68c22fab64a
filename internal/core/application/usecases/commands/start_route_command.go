package commands

import (
	"errors"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/pkg/guard"
)

var ErrStartRouteCommandIsNotConstructed = errors.New(
	"StartRouteCommand must be created via NewStartRouteCommand constructor",
)

// StartRouteCommand represents a request to start driving a route.
type StartRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartRouteCommand creates a command to start the given route.
func NewStartRouteCommand(routeID kernel.UUID) (StartRouteCommand, error) {
	routeCommand := StartRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := routeCommand.setRouteID(routeID); err != nil {
		return StartRouteCommand{}, err
	}

	return routeCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c StartRouteCommand) Validate() error {
	return c.guard.Validate(ErrStartRouteCommandIsNotConstructed)
}

// RouteID returns the identifier of the route to start.
func (c StartRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

func (c *StartRouteCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}
