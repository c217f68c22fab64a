// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Latitude and longitude are nullable because orders may arrive before
// geocoding resolves their address.
type OrderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number       string    `gorm:"uniqueIndex"`
	CustomerName string
	Phone        string
	Street       string
	Latitude     *float64
	Longitude    *float64
	Status       int `gorm:"index"`
	CreatedAt    time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var latitude, longitude *float64
	if aggregate.HasLocation() {
		lat := aggregate.Location().Latitude()
		lon := aggregate.Location().Longitude()
		latitude = &lat
		longitude = &lon
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		Number:       aggregate.Number(),
		CustomerName: aggregate.CustomerName(),
		Phone:        aggregate.Phone(),
		Street:       aggregate.Street(),
		Latitude:     latitude,
		Longitude:    longitude,
		Status:       int(aggregate.Status()),
		CreatedAt:    aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		dto.CustomerName,
		dto.Phone,
		dto.Street,
		location,
		order.Status(dto.Status),
		dto.CreatedAt,
	)
}
