package order

import (
	"fmt"

	"routing/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct business workflow.
//
// State transitions relevant to routing:
//
//	Received ──> Preparing ──> ReadyForDelivery ──> OutForDelivery ──> Delivered
//	                                 ^                    │
//	                                 └────────────────────┘
//	                              (requeue on failed delivery)
//
// Cancelled is reachable from any non-terminal state; its trigger lives
// outside the routing core but the transition rules are enforced here.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Received is the initial status when an order enters the system.
	Received

	// Preparing indicates the order is being assembled.
	Preparing

	// ReadyForDelivery indicates the order is packed and eligible for route creation.
	ReadyForDelivery

	// OutForDelivery indicates the order is assigned to an active route.
	OutForDelivery

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was aborted. Terminal.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "Unknown",
		Received:         "Received",
		Preparing:        "Preparing",
		ReadyForDelivery: "ReadyForDelivery",
		OutForDelivery:   "OutForDelivery",
		Delivered:        "Delivered",
		Cancelled:        "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Received:         "Received",
		Preparing:        "Preparing",
		ReadyForDelivery: "ReadyForDelivery",
		OutForDelivery:   "OutForDelivery",
		Delivered:        "Delivered",
		Cancelled:        "Cancelled",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other unmapped values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status allows no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Prepare transitions the status to Preparing.
//
// Valid transitions:
//   - Received -> Preparing
func (s Status) Prepare() (Status, error) {
	if s != Received {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start preparing", s.String()),
		)
	}

	return Preparing, nil
}

// MarkReady transitions the status to ReadyForDelivery.
//
// Valid transitions:
//   - Preparing -> ReadyForDelivery
func (s Status) MarkReady() (Status, error) {
	if s != Preparing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to mark ready for delivery", s.String()),
		)
	}

	return ReadyForDelivery, nil
}

// StartDelivery transitions the status to OutForDelivery.
// Only orders that are ReadyForDelivery may enter a route.
//
// Valid transitions:
//   - ReadyForDelivery -> OutForDelivery
func (s Status) StartDelivery() (Status, error) {
	if s != ReadyForDelivery {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to go out for delivery", s.String()),
		)
	}

	return OutForDelivery, nil
}

// Deliver transitions the status to Delivered.
//
// Valid transitions:
//   - OutForDelivery -> Delivered
func (s Status) Deliver() (Status, error) {
	if s != OutForDelivery {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}

	return Delivered, nil
}

// Requeue transitions the status back to ReadyForDelivery after a failed or
// skipped delivery so the order can enter a future route.
//
// Valid transitions:
//   - OutForDelivery -> ReadyForDelivery
func (s Status) Requeue() (Status, error) {
	if s != OutForDelivery {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to requeue", s.String()),
		)
	}

	return ReadyForDelivery, nil
}

// Cancel transitions the status to Cancelled.
// Allowed from any valid, non-terminal status.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}

	return Cancelled, nil
}
