package routerepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/route"
	"routing/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRouteRepository implements RouteRepository using GORM.
type GormRouteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRouteRepository creates a new GORM route repository.
func NewGormRouteRepository(db *gorm.DB, tracker aggregateTracker) *GormRouteRepository {
	return &GormRouteRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new route and all of its stops to the database.
func (r *GormRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing route to the database.
//
// Stop rows are written with an optimistic concurrency check: each update is
// conditioned on the version the stop carried when it was loaded. A stop that
// was modified concurrently affects zero rows and surfaces as a
// VersionIsInvalidError, leaving the caller to roll back the transaction.
func (r *GormRouteRepository) Update(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&RouteDTO{}).
		Where("id = ?", dto.ID).
		Select("Number", "Status", "DelivererID", "StartedAt", "CompletedAt").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for _, stop := range aggregate.Stops() {
		if err := r.updateStop(ctx, stop); err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// updateStop writes a single stop row if the stop changed since it was loaded.
func (r *GormRouteRepository) updateStop(ctx context.Context, stop *route.Stop) error {
	if stop.Version() == stop.BaseVersion() {
		return nil
	}

	dto := stopFromDomain(stop)
	if stop.BaseVersion() == 0 {
		return r.db.WithContext(ctx).Create(&dto).Error
	}

	result := r.db.WithContext(ctx).
		Model(&StopDTO{}).
		Where("id = ? AND version = ?", dto.ID, stop.BaseVersion()).
		Select("Status", "DeliveredAt", "FailedAt", "FailureReason", "Version").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause(
			"stop version",
			fmt.Errorf("stop %s was modified concurrently", stop.ID()),
		)
	}

	return nil
}

// Get retrieves a route with its stops by ID.
func (r *GormRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RouteDTO
	if err := r.db.WithContext(ctx).Preload("Stops").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("route", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByStopID retrieves the route owning the given stop.
func (r *GormRouteRepository) GetByStopID(ctx context.Context, stopID kernel.UUID) (*route.Route, error) {
	if err := stopID.Validate(); err != nil {
		return nil, err
	}

	var stop StopDTO
	if err := r.db.WithContext(ctx).First(&stop, "id = ?", stopID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stop", stopID.String())
		}
		return nil, err
	}

	routeID, err := kernel.UUIDFromBytes(stop.RouteID[:])
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, routeID)
}

// GetAllActive retrieves all routes that have not reached a terminal status.
func (r *GormRouteRepository) GetAllActive(ctx context.Context) ([]*route.Route, error) {
	var dtos []RouteDTO
	err := r.db.WithContext(ctx).
		Preload("Stops").
		Where("status NOT IN ?", []int{int(route.Completed), int(route.Cancelled)}).
		Order("number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	routes := make([]*route.Route, 0, len(dtos))
	for _, dto := range dtos {
		restored, restoreErr := toDomain(dto)
		if restoreErr != nil {
			return nil, restoreErr
		}
		routes = append(routes, restored)
	}

	return routes, nil
}

// CountForDay returns how many routes were created on the given calendar day (UTC).
func (r *GormRouteRepository) CountForDay(ctx context.Context, day time.Time) (int, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&RouteDTO{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}
