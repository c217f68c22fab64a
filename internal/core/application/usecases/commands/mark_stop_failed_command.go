package commands

import (
	"errors"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/pkg/errs"
	"routing/internal/pkg/guard"
)

var (
	ErrMarkStopFailedCommandIsNotConstructed = errors.New(
		"MarkStopFailedCommand must be created via NewMarkStopFailedCommand constructor",
	)
	ErrFailureReasonIsRequired = errs.NewValueIsRequiredError("reason")
)

// MarkStopFailedCommand represents a failed delivery attempt at a stop.
// A reason is mandatory; the associated order goes back to ReadyForDelivery
// so it can be routed again.
type MarkStopFailedCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID
	stopID  kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewMarkStopFailedCommand creates a command to finalize a stop as failed.
func NewMarkStopFailedCommand(routeID kernel.UUID, stopID kernel.UUID, reason string) (MarkStopFailedCommand, error) {
	stopCommand := MarkStopFailedCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stopCommand.setRouteID(routeID),
		stopCommand.setStopID(stopID),
		stopCommand.setReason(reason),
	); err != nil {
		return MarkStopFailedCommand{}, err
	}

	return stopCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkStopFailedCommand) Validate() error {
	return c.guard.Validate(ErrMarkStopFailedCommandIsNotConstructed)
}

// RouteID returns the identifier of the route owning the stop.
func (c MarkStopFailedCommand) RouteID() kernel.UUID {
	return c.routeID
}

// StopID returns the identifier of the stop to finalize.
func (c MarkStopFailedCommand) StopID() kernel.UUID {
	return c.stopID
}

// Reason returns the failure reason to persist with the stop.
func (c MarkStopFailedCommand) Reason() string {
	return c.reason
}

func (c *MarkStopFailedCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *MarkStopFailedCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}

func (c *MarkStopFailedCommand) setReason(reason string) error {
	if reason == "" {
		return ErrFailureReasonIsRequired
	}

	c.reason = reason
	return nil
}
