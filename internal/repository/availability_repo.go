package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// AvailabilityRepository persists listing time slots.
type AvailabilityRepository interface {
	ListByListing(ctx context.Context, listingID uint) ([]models.Availability, error)
	CreateBatch(ctx context.Context, slots []models.Availability) error
	Update(ctx context.Context, listingID, id uint, start, end time.Time) error
	Delete(ctx context.Context, listingID, id uint) error
}

type availabilityRepository struct {
	db *gorm.DB
}

// NewAvailabilityRepository constructs the availability repository.
func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) ListByListing(ctx context.Context, listingID uint) ([]models.Availability, error) {
	var slots []models.Availability
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *availabilityRepository) CreateBatch(ctx context.Context, slots []models.Availability) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

func (r *availabilityRepository) Update(ctx context.Context, listingID, id uint, start, end time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Availability{}).
		Where("id = ? AND listing_id = ?", id, listingID).
		Updates(map[string]interface{}{"start_time": start, "end_time": end})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, listingID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND listing_id = ?", id, listingID).
		Delete(&models.Availability{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
