package route

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"
	"routing/internal/pkg/errs"
)

var (
	// ErrRouteIsNotConstructed is returned when using an improperly initialized Route.
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute or RestoreRoute constructor")

	// ErrNumberIsRequired is returned when attempting to create a route without a number.
	ErrNumberIsRequired = errs.NewValueIsRequiredError("number")

	// ErrOrdersAreRequired is returned when attempting to create a route with no orders.
	ErrOrdersAreRequired = errs.NewValueIsRequiredError("orders")

	// ErrReasonIsRequired is returned when failing a stop without a reason.
	ErrReasonIsRequired = errs.NewValueIsRequiredError("reason")

	// ErrStopAlreadyFinalized is returned when a lifecycle operation targets a stop
	// that already reached a terminal status. Terminal stops are never revisited.
	ErrStopAlreadyFinalized = errors.New("stop is already finalized")

	// ErrSequenceIsNotContiguous is returned when restored stops do not form the
	// contiguous range 1..totalStops.
	ErrSequenceIsNotContiguous = errors.New("stop sequence numbers must form the contiguous range 1..totalStops")

	// ErrMultipleNextStops is returned when restored stops hold more than one Next.
	ErrMultipleNextStops = errors.New("at most one stop may have status Next")
)

// Route is the aggregate root for a planned multi-stop delivery run.
//
// A route and its stops are created atomically; afterwards only the lifecycle
// operations below mutate them. Invariants:
//   - totalStops equals the number of stops
//   - stop sequence numbers are exactly 1..totalStops, fixed at creation
//   - while InProgress, at most one stop has status Next
//   - a terminal stop is never revisited
//   - the route auto-completes when its last stop reaches a terminal status
type Route struct {
	// id is the unique identifier for the route
	id kernel.UUID
	// number is the human-readable route number
	number string
	// status is the current state in the route lifecycle
	status Status
	// delivererID references the assigned deliverer (nil until assigned)
	delivererID *kernel.UUID
	// startedAt is set when the route enters InProgress
	startedAt *time.Time
	// completedAt is set when the route enters Completed
	completedAt *time.Time
	// stops is the ordered list of deliveries, sorted by sequence
	stops []*Stop

	isConstructed bool
}

// NewRoute creates a Route in Created status from orders already arranged in
// visiting order. Stops receive sequence numbers 1..N following that order,
// each snapshotting its order's customer fields. The first stop starts as
// Next, the rest as Pending.
func NewRoute(id kernel.UUID, number string, delivererID kernel.UUID, orders []*order.Order) (*Route, error) {
	if err := errors.Join(id.Validate(), delivererID.Validate()); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, ErrNumberIsRequired
	}
	if len(orders) == 0 {
		return nil, ErrOrdersAreRequired
	}

	r := &Route{
		id:            id,
		number:        number,
		status:        Created,
		delivererID:   &delivererID,
		isConstructed: true,
	}

	stops := make([]*Stop, 0, len(orders))
	for i, o := range orders {
		status := StopPending
		if i == 0 {
			status = StopNext
		}

		stop, err := newStopFromOrder(id, o, i+1, status)
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	r.stops = stops
	return r, nil
}

// RestoreRoute reconstructs a Route from persistence.
// Stops may arrive in any order; they are sorted by sequence and the
// contiguity and single-Next invariants are re-checked.
func RestoreRoute(
	id kernel.UUID,
	number string,
	status Status,
	delivererID *kernel.UUID,
	startedAt *time.Time,
	completedAt *time.Time,
	stops []*Stop,
) (*Route, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, ErrNumberIsRequired
	}
	if delivererID != nil {
		if err := delivererID.Validate(); err != nil {
			return nil, err
		}
	}
	if len(stops) == 0 {
		return nil, ErrOrdersAreRequired
	}

	sorted := make([]*Stop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Sequence() < sorted[j].Sequence() })

	nextCount := 0
	for i, stop := range sorted {
		if err := stop.Validate(); err != nil {
			return nil, err
		}
		if stop.Sequence() != i+1 {
			return nil, ErrSequenceIsNotContiguous
		}
		if stop.Status() == StopNext {
			nextCount++
		}
	}
	if nextCount > 1 {
		return nil, ErrMultipleNextStops
	}

	return &Route{
		id:            id,
		number:        number,
		status:        status,
		delivererID:   delivererID,
		startedAt:     startedAt,
		completedAt:   completedAt,
		stops:         sorted,
		isConstructed: true,
	}, nil
}

// Validate ensures the Route instance was properly constructed.
func (r *Route) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRouteIsNotConstructed
	}
	return nil
}

// IsEqual compares two routes by their unique identifiers.
func (r *Route) IsEqual(other *Route) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the route's unique identifier.
func (r *Route) ID() kernel.UUID {
	return r.id
}

// Number returns the human-readable route number.
func (r *Route) Number() string {
	return r.number
}

// Status returns the current status of the route.
func (r *Route) Status() Status {
	return r.status
}

// DelivererID returns the assigned deliverer's ID, or nil if unassigned.
func (r *Route) DelivererID() *kernel.UUID {
	return r.delivererID
}

// TotalStops returns the number of stops on the route.
func (r *Route) TotalStops() int {
	return len(r.stops)
}

// StartedAt returns when the route entered InProgress. Nil before that.
func (r *Route) StartedAt() *time.Time {
	return r.startedAt
}

// CompletedAt returns when the route entered Completed. Nil before that.
func (r *Route) CompletedAt() *time.Time {
	return r.completedAt
}

// Stops returns the stops ordered by sequence.
func (r *Route) Stops() []*Stop {
	return r.stops
}

// NextStop returns the single stop currently marked Next, or nil.
func (r *Route) NextStop() *Stop {
	for _, stop := range r.stops {
		if stop.Status() == StopNext {
			return stop
		}
	}
	return nil
}

// FindStop returns the stop with the given ID, or nil if not part of this route.
func (r *Route) FindStop(stopID kernel.UUID) *Stop {
	for _, stop := range r.stops {
		if stop.ID().IsEqual(stopID) {
			return stop
		}
	}
	return nil
}

// Assign assigns the route to a deliverer and updates the status to Assigned.
// Reassignment is allowed while the route has not started.
func (r *Route) Assign(delivererID kernel.UUID) error {
	if err := delivererID.Validate(); err != nil {
		return err
	}

	newStatus, err := r.status.Assign()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.delivererID = &delivererID
	return nil
}

// Start moves the route to InProgress and records the start time.
// The earliest Pending stop is promoted to Next if no stop holds Next yet.
func (r *Route) Start(now time.Time) error {
	newStatus, err := r.status.Start()
	if err != nil {
		return err
	}

	startedAt := now.UTC()
	r.status = newStatus
	r.startedAt = &startedAt

	if r.NextStop() == nil {
		r.promoteEarliestPending()
	}

	return nil
}

// Cancel aborts the route from any non-terminal status.
func (r *Route) Cancel() error {
	newStatus, err := r.status.Cancel()
	if err != nil {
		return err
	}

	r.status = newStatus
	return nil
}

// MarkStopDelivered finalizes a stop as Delivered, advances the Next pointer,
// and auto-completes the route if this was the last open stop.
// Returns the finalized stop so the caller can apply the order side effect.
func (r *Route) MarkStopDelivered(stopID kernel.UUID, now time.Time) (*Stop, error) {
	stop, err := r.openStopForTransition(stopID)
	if err != nil {
		return nil, err
	}

	stop.markDelivered(now)
	r.advanceNext()
	r.completeIfFinished(now)
	return stop, nil
}

// MarkStopFailed finalizes a stop as Failed with a mandatory reason,
// advances the Next pointer, and auto-completes the route if finished.
// The associated order is expected to be requeued by the caller.
func (r *Route) MarkStopFailed(stopID kernel.UUID, reason string, now time.Time) (*Stop, error) {
	if reason == "" {
		return nil, ErrReasonIsRequired
	}

	stop, err := r.openStopForTransition(stopID)
	if err != nil {
		return nil, err
	}

	stop.markFailed(reason, now)
	r.advanceNext()
	r.completeIfFinished(now)
	return stop, nil
}

// MarkStopSkipped finalizes a stop as Skipped with an optional reason,
// advances the Next pointer, and auto-completes the route if finished.
func (r *Route) MarkStopSkipped(stopID kernel.UUID, reason string, now time.Time) (*Stop, error) {
	stop, err := r.openStopForTransition(stopID)
	if err != nil {
		return nil, err
	}

	stop.markSkipped(reason, now)
	r.advanceNext()
	r.completeIfFinished(now)
	return stop, nil
}

// openStopForTransition validates the common preconditions of all stop
// transitions: the route must be InProgress, the stop must belong to the
// route, and the stop must not already be terminal.
func (r *Route) openStopForTransition(stopID kernel.UUID) (*Stop, error) {
	if r.status != InProgress {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"route status is invalid",
			fmt.Errorf("route %s is %s, stops can only be updated while InProgress", r.number, r.status),
		)
	}

	stop := r.FindStop(stopID)
	if stop == nil {
		return nil, errs.NewObjectNotFoundError("stop", stopID.String())
	}

	if stop.Status().IsTerminal() {
		return nil, fmt.Errorf("stop %d of route %s is %s: %w",
			stop.Sequence(), r.number, stop.Status(), ErrStopAlreadyFinalized)
	}

	return stop, nil
}

// advanceNext demotes any stop currently Next back to Pending and promotes
// the earliest remaining Pending stop. Keeps the single-Next invariant.
func (r *Route) advanceNext() {
	for _, stop := range r.stops {
		if stop.Status() == StopNext {
			stop.demote()
		}
	}
	r.promoteEarliestPending()
}

// promoteEarliestPending promotes the lowest-sequence Pending stop to Next.
// No-op when every stop is terminal.
func (r *Route) promoteEarliestPending() {
	for _, stop := range r.stops {
		if stop.Status() == StopPending {
			stop.promote()
			return
		}
	}
}

// completeIfFinished sets the route to Completed once every stop is terminal.
func (r *Route) completeIfFinished(now time.Time) {
	for _, stop := range r.stops {
		if !stop.Status().IsTerminal() {
			return
		}
	}

	newStatus, err := r.status.Complete()
	if err != nil {
		return
	}

	completedAt := now.UTC()
	r.status = newStatus
	r.completedAt = &completedAt
}
