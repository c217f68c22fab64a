// Package delivererrepo provides data transfer objects and mapping functions
// for deliverer persistence.
package delivererrepo

import (
	"routing/internal/core/domain/model/deliverer"
	"routing/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DelivererDTO represents the database structure for persisting deliverer aggregates.
type DelivererDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string
	Active bool `gorm:"index"`
}

// TableName specifies the database table name for deliverer entities.
func (DelivererDTO) TableName() string {
	return "deliverers"
}

// fromDomain converts a deliverer domain aggregate to its database representation.
func fromDomain(aggregate *deliverer.Deliverer) DelivererDTO {
	return DelivererDTO{
		ID:     aggregate.ID().Bytes(),
		Name:   aggregate.Name(),
		Active: aggregate.IsActive(),
	}
}

// toDomain converts a database DTO to a deliverer domain aggregate.
func toDomain(dto DelivererDTO) (*deliverer.Deliverer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return deliverer.RestoreDeliverer(id, dto.Name, dto.Active)
}
