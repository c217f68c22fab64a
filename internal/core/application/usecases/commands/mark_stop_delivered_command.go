package commands

import (
	"errors"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/pkg/guard"
)

var ErrMarkStopDeliveredCommandIsNotConstructed = errors.New(
	"MarkStopDeliveredCommand must be created via NewMarkStopDeliveredCommand constructor",
)

// MarkStopDeliveredCommand represents a successful delivery at a stop.
type MarkStopDeliveredCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID
	stopID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkStopDeliveredCommand creates a command to finalize a stop as delivered.
func NewMarkStopDeliveredCommand(routeID kernel.UUID, stopID kernel.UUID) (MarkStopDeliveredCommand, error) {
	stopCommand := MarkStopDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stopCommand.setRouteID(routeID),
		stopCommand.setStopID(stopID),
	); err != nil {
		return MarkStopDeliveredCommand{}, err
	}

	return stopCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkStopDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkStopDeliveredCommandIsNotConstructed)
}

// RouteID returns the identifier of the route owning the stop.
func (c MarkStopDeliveredCommand) RouteID() kernel.UUID {
	return c.routeID
}

// StopID returns the identifier of the stop to finalize.
func (c MarkStopDeliveredCommand) StopID() kernel.UUID {
	return c.stopID
}

func (c *MarkStopDeliveredCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *MarkStopDeliveredCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}
