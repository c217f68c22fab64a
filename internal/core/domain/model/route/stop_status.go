package route

import (
	"fmt"

	"routing/internal/pkg/errs"
)

// StopStatus represents the lifecycle state of a single stop within a route.
//
// State transitions:
//
//	Pending ──> Next ──> Delivered | Failed | Skipped
//	    ^         │
//	    └─────────┘
//	 (demoted when another stop is finalized out of order)
//
// Delivered, Failed, and Skipped are terminal and immutable once reached.
// While the route is InProgress at most one stop holds the Next status.
type StopStatus int

const (
	// StopUnknown represents an invalid or undefined stop status.
	StopUnknown StopStatus = iota

	// StopPending indicates the stop is waiting for its turn.
	StopPending

	// StopNext indicates the stop is the single one currently eligible for action.
	StopNext

	// StopDelivered indicates the delivery succeeded. Terminal.
	StopDelivered

	// StopFailed indicates the delivery attempt failed. Terminal.
	StopFailed

	// StopSkipped indicates the stop was skipped. Terminal.
	StopSkipped
)

func getStopStatusStrings() map[StopStatus]string {
	return map[StopStatus]string{
		StopUnknown:   "Unknown",
		StopPending:   "Pending",
		StopNext:      "Next",
		StopDelivered: "Delivered",
		StopFailed:    "Failed",
		StopSkipped:   "Skipped",
	}
}

func getValidStopStatusStrings() map[StopStatus]string {
	//nolint:exhaustive // StopUnknown is intentionally excluded as it's invalid
	return map[StopStatus]string{
		StopPending:   "Pending",
		StopNext:      "Next",
		StopDelivered: "Delivered",
		StopFailed:    "Failed",
		StopSkipped:   "Skipped",
	}
}

// Validate checks if the StopStatus value is valid.
func (s StopStatus) Validate() error {
	if _, ok := getValidStopStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"stop status is invalid", fmt.Errorf("%d is not a valid stop status", s))
	}
	return nil
}

// String returns the human-readable name of the stop status.
// Implements fmt.Stringer; safe on any value.
func (s StopStatus) String() string {
	if str, ok := getStopStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the stop status is final.
// A terminal stop is never revisited.
func (s StopStatus) IsTerminal() bool {
	return s == StopDelivered || s == StopFailed || s == StopSkipped
}
