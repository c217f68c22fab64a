package delivererrepo

import (
	"context"
	"errors"

	"routing/internal/core/domain/model/deliverer"
	"routing/internal/core/domain/model/kernel"
	"routing/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDelivererRepository implements DelivererRepository using GORM.
type GormDelivererRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDelivererRepository creates a new GORM deliverer repository.
func NewGormDelivererRepository(db *gorm.DB, tracker aggregateTracker) *GormDelivererRepository {
	return &GormDelivererRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new deliverer to the database.
func (r *GormDelivererRepository) Add(ctx context.Context, aggregate *deliverer.Deliverer) error {
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

// Update saves an existing deliverer to the database.
func (r *GormDelivererRepository) Update(ctx context.Context, aggregate *deliverer.Deliverer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DelivererDTO{}).
		Where("id = ?", dto.ID).
		Select("Name", "Active").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a deliverer by ID.
func (r *GormDelivererRepository) Get(ctx context.Context, id kernel.UUID) (*deliverer.Deliverer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DelivererDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("deliverer", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
