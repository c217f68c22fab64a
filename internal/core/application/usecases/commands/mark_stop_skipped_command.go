package commands

import (
	"errors"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/pkg/guard"
)

var ErrMarkStopSkippedCommandIsNotConstructed = errors.New(
	"MarkStopSkippedCommand must be created via NewMarkStopSkippedCommand constructor",
)

// MarkStopSkippedCommand represents skipping a stop without attempting it.
// The reason is optional. RequeueOrder controls whether the associated order
// goes back to ReadyForDelivery or stays OutForDelivery for a later attempt
// on the same run.
type MarkStopSkippedCommand struct { //nolint:recvcheck //using for validation
	routeID      kernel.UUID
	stopID       kernel.UUID
	reason       string
	requeueOrder bool

	guard guard.ConstructorGuard
}

// NewMarkStopSkippedCommand creates a command to finalize a stop as skipped.
func NewMarkStopSkippedCommand(
	routeID kernel.UUID, stopID kernel.UUID, reason string, requeueOrder bool,
) (MarkStopSkippedCommand, error) {
	stopCommand := MarkStopSkippedCommand{
		reason:       reason,
		requeueOrder: requeueOrder,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stopCommand.setRouteID(routeID),
		stopCommand.setStopID(stopID),
	); err != nil {
		return MarkStopSkippedCommand{}, err
	}

	return stopCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkStopSkippedCommand) Validate() error {
	return c.guard.Validate(ErrMarkStopSkippedCommandIsNotConstructed)
}

// RouteID returns the identifier of the route owning the stop.
func (c MarkStopSkippedCommand) RouteID() kernel.UUID {
	return c.routeID
}

// StopID returns the identifier of the stop to finalize.
func (c MarkStopSkippedCommand) StopID() kernel.UUID {
	return c.stopID
}

// Reason returns the optional skip reason. May be empty.
func (c MarkStopSkippedCommand) Reason() string {
	return c.reason
}

// RequeueOrder reports whether the associated order should be made
// available for routing again.
func (c MarkStopSkippedCommand) RequeueOrder() bool {
	return c.requeueOrder
}

func (c *MarkStopSkippedCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *MarkStopSkippedCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}
