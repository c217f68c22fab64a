package route

import (
	"errors"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"
	"routing/internal/pkg/errs"
)

var (
	// ErrStopIsNotConstructed is returned when using an improperly initialized Stop.
	ErrStopIsNotConstructed = errors.New("Stop must be created via newStopFromOrder or RestoreStop constructor")
	// ErrSequenceIsInvalid is returned when a stop sequence number is not positive.
	ErrSequenceIsInvalid = errs.NewValueIsRequiredError("sequence")
	// ErrOrderNumberIsRequired is returned when a stop snapshot lacks the order number.
	ErrOrderNumberIsRequired = errs.NewValueIsRequiredError("orderNumber")
)

// Stop is one delivery within a route, bound to exactly one order.
//
// A stop carries an immutable snapshot of the order and customer fields taken
// at route-creation time, decoupling the stop from later edits to the order.
// The sequence number is fixed at creation and never renumbered. A version
// counter is bumped on every mutation so persistence can condition writes on
// the version read at validation time.
type Stop struct {
	// id uniquely identifies the stop
	id kernel.UUID
	// routeID references the owning route
	routeID kernel.UUID
	// orderID references the delivered order
	orderID kernel.UUID
	// sequence is the 1-based visiting position, fixed at creation
	sequence int
	// status is the current state in the stop lifecycle
	status StopStatus

	// Snapshot of order/customer fields at route-creation time.
	orderNumber  string
	customerName string
	phone        string
	street       string
	location     *kernel.GeoPoint

	// deliveredAt is set when the stop reaches Delivered
	deliveredAt *time.Time
	// failedAt is set when the stop reaches Failed or Skipped
	failedAt *time.Time
	// failureReason holds the reason for a failed or skipped delivery
	failureReason string

	// version supports optimistic concurrency on stop writes.
	// baseVersion holds the version as read from persistence; writes are
	// conditioned on it so concurrent transitions surface as conflicts.
	version     int
	baseVersion int

	isConstructed bool
}

// newStopFromOrder builds a Stop snapshotting the given order.
// Used by NewRoute; stops are never created outside their route.
func newStopFromOrder(routeID kernel.UUID, o *order.Order, sequence int, status StopStatus) (*Stop, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if sequence <= 0 {
		return nil, ErrSequenceIsInvalid
	}

	var location *kernel.GeoPoint
	if o.HasLocation() {
		point := *o.Location()
		location = &point
	}

	return &Stop{
		id:            kernel.NewUUID(),
		routeID:       routeID,
		orderID:       o.ID(),
		sequence:      sequence,
		status:        status,
		orderNumber:   o.Number(),
		customerName:  o.CustomerName(),
		phone:         o.Phone(),
		street:        o.Street(),
		location:      location,
		version:       1,
		baseVersion:   0,
		isConstructed: true,
	}, nil
}

// RestoreStop reconstructs a Stop from persistence.
func RestoreStop(
	id kernel.UUID,
	routeID kernel.UUID,
	orderID kernel.UUID,
	sequence int,
	status StopStatus,
	orderNumber string,
	customerName string,
	phone string,
	street string,
	location *kernel.GeoPoint,
	deliveredAt *time.Time,
	failedAt *time.Time,
	failureReason string,
	version int,
) (*Stop, error) {
	if err := errors.Join(id.Validate(), routeID.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if sequence <= 0 {
		return nil, ErrSequenceIsInvalid
	}
	if orderNumber == "" {
		return nil, ErrOrderNumberIsRequired
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
	}
	if version <= 0 {
		return nil, errs.NewVersionIsInvalidError("stop version")
	}

	return &Stop{
		id:            id,
		routeID:       routeID,
		orderID:       orderID,
		sequence:      sequence,
		status:        status,
		orderNumber:   orderNumber,
		customerName:  customerName,
		phone:         phone,
		street:        street,
		location:      location,
		deliveredAt:   deliveredAt,
		failedAt:      failedAt,
		failureReason: failureReason,
		version:       version,
		baseVersion:   version,
		isConstructed: true,
	}, nil
}

// Validate ensures the Stop instance was properly constructed.
func (s *Stop) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStopIsNotConstructed
	}
	return nil
}

// ID returns the stop's unique identifier.
func (s *Stop) ID() kernel.UUID {
	return s.id
}

// RouteID returns the owning route's identifier.
func (s *Stop) RouteID() kernel.UUID {
	return s.routeID
}

// OrderID returns the identifier of the order delivered at this stop.
func (s *Stop) OrderID() kernel.UUID {
	return s.orderID
}

// Sequence returns the 1-based visiting position within the route.
func (s *Stop) Sequence() int {
	return s.sequence
}

// Status returns the current status of the stop.
func (s *Stop) Status() StopStatus {
	return s.status
}

// OrderNumber returns the snapshotted public order code.
func (s *Stop) OrderNumber() string {
	return s.orderNumber
}

// CustomerName returns the snapshotted customer name.
func (s *Stop) CustomerName() string {
	return s.customerName
}

// Phone returns the snapshotted customer phone. May be empty.
func (s *Stop) Phone() string {
	return s.phone
}

// Street returns the snapshotted street address.
func (s *Stop) Street() string {
	return s.street
}

// Location returns the snapshotted coordinates. Nil if the order was not geocoded.
func (s *Stop) Location() *kernel.GeoPoint {
	return s.location
}

// DeliveredAt returns when the stop was delivered. Nil unless Delivered.
func (s *Stop) DeliveredAt() *time.Time {
	return s.deliveredAt
}

// FailedAt returns when the stop failed or was skipped. Nil otherwise.
func (s *Stop) FailedAt() *time.Time {
	return s.failedAt
}

// FailureReason returns the reason recorded on failure or skip. May be empty for skips.
func (s *Stop) FailureReason() string {
	return s.failureReason
}

// Version returns the optimistic concurrency version of the stop.
func (s *Stop) Version() int {
	return s.version
}

// BaseVersion returns the version the stop carried when it was read from
// persistence, or zero for a stop that has never been persisted. Writes
// compare against it to detect concurrent modifications.
func (s *Stop) BaseVersion() int {
	return s.baseVersion
}

// markDelivered finalizes the stop as Delivered.
// Caller (the Route) has already checked the stop is not terminal.
func (s *Stop) markDelivered(now time.Time) {
	deliveredAt := now.UTC()
	s.status = StopDelivered
	s.deliveredAt = &deliveredAt
	s.version++
}

// markFailed finalizes the stop as Failed with a reason.
func (s *Stop) markFailed(reason string, now time.Time) {
	failedAt := now.UTC()
	s.status = StopFailed
	s.failedAt = &failedAt
	s.failureReason = reason
	s.version++
}

// markSkipped finalizes the stop as Skipped with an optional reason.
func (s *Stop) markSkipped(reason string, now time.Time) {
	failedAt := now.UTC()
	s.status = StopSkipped
	s.failedAt = &failedAt
	s.failureReason = reason
	s.version++
}

// promote moves a Pending stop to Next.
func (s *Stop) promote() {
	s.status = StopNext
	s.version++
}

// demote moves a Next stop back to Pending.
func (s *Stop) demote() {
	s.status = StopPending
	s.version++
}
