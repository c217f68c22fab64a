// Package routerepo provides data transfer objects and mapping functions
// for route persistence. Routes and their stops are stored in separate
// tables and loaded together; stops carry a version column used to detect
// concurrent modifications.
package routerepo

import (
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// RouteDTO represents the database structure for persisting route aggregates.
type RouteDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number      string    `gorm:"uniqueIndex"`
	Status      int       `gorm:"index"`
	DelivererID *uuid.UUID `gorm:"type:uuid"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	Stops       []StopDTO `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for route entities.
func (RouteDTO) TableName() string {
	return "routes"
}

// StopDTO represents the database structure for persisting stops.
// Latitude and longitude are nullable because a stop may snapshot an
// order that was never geocoded.
type StopDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RouteID       uuid.UUID `gorm:"type:uuid;index"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	Sequence      int
	Status        int
	OrderNumber   string
	CustomerName  string
	Phone         string
	Street        string
	Latitude      *float64
	Longitude     *float64
	DeliveredAt   *time.Time
	FailedAt      *time.Time
	FailureReason string
	Version       int
}

// TableName specifies the database table name for stop entities.
func (StopDTO) TableName() string {
	return "stops"
}

// fromDomain converts a route domain aggregate to its database representation.
func fromDomain(aggregate *route.Route) RouteDTO {
	var delivererID *uuid.UUID
	if aggregate.DelivererID() != nil {
		raw := aggregate.DelivererID().Bytes()
		delivererID = &raw
	}

	stops := make([]StopDTO, 0, aggregate.TotalStops())
	for _, stop := range aggregate.Stops() {
		stops = append(stops, stopFromDomain(stop))
	}

	return RouteDTO{
		ID:          aggregate.ID().Bytes(),
		Number:      aggregate.Number(),
		Status:      int(aggregate.Status()),
		DelivererID: delivererID,
		StartedAt:   aggregate.StartedAt(),
		CompletedAt: aggregate.CompletedAt(),
		Stops:       stops,
	}
}

// stopFromDomain converts a stop entity to its database representation.
func stopFromDomain(stop *route.Stop) StopDTO {
	var latitude, longitude *float64
	if stop.Location() != nil {
		lat := stop.Location().Latitude()
		lon := stop.Location().Longitude()
		latitude = &lat
		longitude = &lon
	}

	return StopDTO{
		ID:            stop.ID().Bytes(),
		RouteID:       stop.RouteID().Bytes(),
		OrderID:       stop.OrderID().Bytes(),
		Sequence:      stop.Sequence(),
		Status:        int(stop.Status()),
		OrderNumber:   stop.OrderNumber(),
		CustomerName:  stop.CustomerName(),
		Phone:         stop.Phone(),
		Street:        stop.Street(),
		Latitude:      latitude,
		Longitude:     longitude,
		DeliveredAt:   stop.DeliveredAt(),
		FailedAt:      stop.FailedAt(),
		FailureReason: stop.FailureReason(),
		Version:       stop.Version(),
	}
}

// toDomain converts a route DTO and its stop DTOs to a route domain aggregate.
func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var delivererID *kernel.UUID
	if dto.DelivererID != nil {
		restored, restoreErr := kernel.UUIDFromBytes(dto.DelivererID[:])
		if restoreErr != nil {
			return nil, restoreErr
		}
		delivererID = &restored
	}

	stops := make([]*route.Stop, 0, len(dto.Stops))
	for _, stopDTO := range dto.Stops {
		stop, stopErr := stopToDomain(stopDTO)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	return route.RestoreRoute(
		id,
		dto.Number,
		route.Status(dto.Status),
		delivererID,
		dto.StartedAt,
		dto.CompletedAt,
		stops,
	)
}

// stopToDomain converts a stop DTO to a stop entity using RestoreStop.
func stopToDomain(dto StopDTO) (*route.Stop, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	routeID, err := kernel.UUIDFromBytes(dto.RouteID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
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

	return route.RestoreStop(
		id,
		routeID,
		orderID,
		dto.Sequence,
		route.StopStatus(dto.Status),
		dto.OrderNumber,
		dto.CustomerName,
		dto.Phone,
		dto.Street,
		location,
		dto.DeliveredAt,
		dto.FailedAt,
		dto.FailureReason,
		dto.Version,
	)
}
