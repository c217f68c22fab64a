// Package deliverer provides the Deliverer aggregate for the routing system.
// A deliverer is the person who drives a route; only active deliverers may be
// assigned new routes.
package deliverer

import (
	"errors"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/pkg/errs"
)

var (
	// ErrNameIsRequired is returned when attempting to create a deliverer without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDelivererIsNotConstructed is returned when using an improperly initialized Deliverer.
	ErrDelivererIsNotConstructed = errors.New("Deliverer must be created via NewDeliverer or RestoreDeliverer constructor")
)

// Deliverer represents a person eligible to drive delivery routes.
//
// Business rules:
//   - Must have a valid UUID and a non-empty name
//   - Only active deliverers may be assigned a new route
type Deliverer struct {
	// id uniquely identifies the deliverer
	id kernel.UUID
	// name is the human-readable name of the deliverer
	name string
	// active reports whether the deliverer may receive new routes
	active bool
	// isConstructed ensures the deliverer was created via a constructor
	isConstructed bool
}

// NewDeliverer creates a new, active Deliverer with validation.
func NewDeliverer(id kernel.UUID, name string) (*Deliverer, error) {
	d := &Deliverer{
		active:        true,
		isConstructed: true,
	}

	if err := errors.Join(d.setID(id), d.setName(name)); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDeliverer reconstructs a Deliverer from persistence with an explicit active flag.
func RestoreDeliverer(id kernel.UUID, name string, active bool) (*Deliverer, error) {
	d, err := NewDeliverer(id, name)
	if err != nil {
		return nil, err
	}

	d.active = active
	return d, nil
}

// Validate ensures the Deliverer instance was properly constructed.
func (d *Deliverer) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDelivererIsNotConstructed
	}

	return nil
}

// IsEqual compares two deliverers by their unique identifiers.
func (d *Deliverer) IsEqual(other *Deliverer) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the deliverer's unique identifier.
func (d *Deliverer) ID() kernel.UUID {
	return d.id
}

// Name returns the deliverer's name.
func (d *Deliverer) Name() string {
	return d.name
}

// IsActive reports whether the deliverer may be assigned new routes.
func (d *Deliverer) IsActive() bool {
	return d.active
}

// Activate makes the deliverer eligible for new routes.
func (d *Deliverer) Activate() {
	d.active = true
}

// Deactivate removes the deliverer from new route assignment.
// Routes already assigned are unaffected.
func (d *Deliverer) Deactivate() {
	d.active = false
}

func (d *Deliverer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Deliverer) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}
