package order

import (
	"errors"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrNumberIsRequired is returned when attempting to create an order without a public number.
	ErrNumberIsRequired = errs.NewValueIsRequiredError("number")

	// ErrCustomerNameIsRequired is returned when attempting to create an order without a customer name.
	ErrCustomerNameIsRequired = errs.NewValueIsRequiredError("customerName")

	// ErrStreetIsRequired is returned when attempting to create an order without a street address.
	ErrStreetIsRequired = errs.NewValueIsRequiredError("street")
)

// Order represents a customer delivery order. It is an aggregate root that
// manages the order lifecycle from intake through delivery.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a non-empty public number
//   - Must have a customer name and a street address
//   - Location is optional: orders may lack coordinates until geocoded
//   - Status transitions follow the rules defined on Status
//   - Can only be created through NewOrder or RestoreOrder
//
// Only the status transitions used by route planning and execution live here;
// intake and catalog concerns are owned elsewhere.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// number is the human-readable public order code
	number string

	// customerName is the recipient's name
	customerName string

	// phone is the recipient's contact number (optional)
	phone string

	// street is the delivery street address
	street string

	// location is the geocoded delivery destination (nil until geocoded)
	location *kernel.GeoPoint

	// status represents the current state in the order lifecycle
	status Status

	// createdAt is when the order entered the system
	createdAt time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Received status with validation.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - number: public order code (must be non-empty)
//   - customerName: recipient name (must be non-empty)
//   - phone: recipient contact number (may be empty)
//   - street: delivery street address (must be non-empty)
//   - location: geocoded destination, nil when not yet geocoded
//   - createdAt: intake timestamp
//
// Returns a validation error if any required parameter is invalid.
func NewOrder(
	id kernel.UUID,
	number string,
	customerName string,
	phone string,
	street string,
	location *kernel.GeoPoint,
	createdAt time.Time,
) (*Order, error) {
	order := &Order{
		status:        Received,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setNumber(number),
		order.setCustomerName(customerName),
		order.setStreet(street),
		order.setLocation(location),
	); err != nil {
		return nil, err
	}

	order.phone = phone
	order.createdAt = createdAt.UTC()

	return order, nil
}

// RestoreOrder reconstructs an Order from persistence with an explicit status.
// All the invariants of NewOrder apply; the status must itself be valid.
func RestoreOrder(
	id kernel.UUID,
	number string,
	customerName string,
	phone string,
	street string,
	location *kernel.GeoPoint,
	status Status,
	createdAt time.Time,
) (*Order, error) {
	order, err := NewOrder(id, number, customerName, phone, street, location, createdAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	order.status = status
	return order, nil
}

// Validate ensures the Order instance was properly constructed through a factory method.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-readable public order code.
func (o *Order) Number() string {
	return o.number
}

// CustomerName returns the recipient's name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// Phone returns the recipient's contact number. May be empty.
func (o *Order) Phone() string {
	return o.phone
}

// Street returns the delivery street address.
func (o *Order) Street() string {
	return o.street
}

// Location returns the geocoded delivery destination.
// Returns nil if the order has not been geocoded.
func (o *Order) Location() *kernel.GeoPoint {
	return o.location
}

// HasLocation reports whether the order carries geocoded coordinates.
func (o *Order) HasLocation() bool {
	return o.location != nil
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns the intake timestamp (UTC).
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// StartDelivery moves the order to OutForDelivery.
// The order must currently be ReadyForDelivery; route creation calls this
// for every order included in a new route.
func (o *Order) StartDelivery() error {
	newStatus, err := o.status.StartDelivery()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Deliver marks the order as delivered to the customer.
// The order must currently be OutForDelivery.
func (o *Order) Deliver() error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Requeue returns the order to ReadyForDelivery after a failed or skipped
// delivery attempt so it can be picked up by a future route.
func (o *Order) Requeue() error {
	newStatus, err := o.status.Requeue()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel aborts the order from any non-terminal status.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return ErrNumberIsRequired
	}
	o.number = number
	return nil
}

func (o *Order) setCustomerName(customerName string) error {
	if customerName == "" {
		return ErrCustomerNameIsRequired
	}
	o.customerName = customerName
	return nil
}

func (o *Order) setStreet(street string) error {
	if street == "" {
		return ErrStreetIsRequired
	}
	o.street = street
	return nil
}

func (o *Order) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		o.location = nil
		return nil
	}

	if err := location.Validate(); err != nil {
		return err
	}

	point := *location
	o.location = &point
	return nil
}
