package route

import (
	"fmt"

	"routing/internal/pkg/errs"
)

// Status represents the lifecycle state of a route.
//
// State transitions:
//
//	Created ──> Assigned ──> InProgress ──> Completed
//	    │           │             │
//	    └───────────┴─────────────┴──> Cancelled
//
// Completed and Cancelled are terminal. Completion happens automatically
// when the last stop reaches a terminal status.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Created is the initial status of a freshly built route.
	Created

	// Assigned indicates the route has been (re)assigned to a deliverer.
	Assigned

	// InProgress indicates the deliverer has started driving the route.
	InProgress

	// Completed indicates every stop reached a terminal status. Terminal.
	Completed

	// Cancelled indicates the route was aborted. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Created:    "Created",
		Assigned:   "Assigned",
		InProgress: "InProgress",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Created:    "Created",
		Assigned:   "Assigned",
		InProgress: "InProgress",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer; safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status allows no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Start transitions the status to InProgress.
//
// Valid transitions:
//   - Created -> InProgress
//   - Assigned -> InProgress
func (s Status) Start() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("route is already %s", s.String()),
		)
	}
	if s != Created && s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start", s.String()),
		)
	}

	return InProgress, nil
}

// Assign transitions the status to Assigned.
//
// Valid transitions:
//   - Created -> Assigned (initial assignment)
//   - Assigned -> Assigned (reassignment to a different deliverer)
func (s Status) Assign() (Status, error) {
	if s != Created && s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign", s.String()),
		)
	}

	return Assigned, nil
}

// Complete transitions the status to Completed.
//
// Valid transitions:
//   - InProgress -> Completed
func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}

	return Completed, nil
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
