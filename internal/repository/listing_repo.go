package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// ListingFilter narrows browse and admin listing queries.
type ListingFilter struct {
	Status      string
	CategoryID  uint
	ProviderID  uint
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}

// ListingAggregates captures rating and moderation counts for a listing.
type ListingAggregates struct {
	AvgRating   *float64
	ReviewCount int64
	ReportCount int64
}

// ListingRepository persists service listings.
type ListingRepository interface {
	List(ctx context.Context, filter ListingFilter) ([]models.Listing, int64, error)
	GetByID(ctx context.Context, id uint) (models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	Aggregates(ctx context.Context, id uint) (ListingAggregates, error)
	RemoveActiveByProvider(ctx context.Context, providerID uint) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository constructs the listing repository.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) List(ctx context.Context, filter ListingFilter) ([]models.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Listing{})

	if filter.Status != "" {
		query = query.Where("listing_status = ?", filter.Status)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ProviderID > 0 {
		query = query.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []models.Listing
	err := Page(query, filter.Page, filter.PageSize).
		Preload("Provider").
		Preload("Category").
		Order("created_at DESC").
		Order("id DESC").
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Category").
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		return models.Listing{}, err
	}
	return listing, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Omit("Provider", "Category").Create(listing).Error
}

func (r *listingRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *listingRepository) Aggregates(ctx context.Context, id uint) (ListingAggregates, error) {
	db := r.db.WithContext(ctx)

	var ratings struct {
		AvgRating *float64
		Total     int64
	}
	err := db.Model(&models.Review{}).
		Select("AVG(rating) AS avg_rating, COUNT(id) AS total").
		Where("listing_id = ?", id).
		Scan(&ratings).Error
	if err != nil {
		return ListingAggregates{}, err
	}

	aggregates := ListingAggregates{AvgRating: ratings.AvgRating, ReviewCount: ratings.Total}
	if err := db.Model(&models.Report{}).Where("reported_listing_id = ?", id).Count(&aggregates.ReportCount).Error; err != nil {
		return ListingAggregates{}, err
	}

	return aggregates, nil
}

// RemoveActiveByProvider marks every active listing of the provider as removed.
func (r *listingRepository) RemoveActiveByProvider(ctx context.Context, providerID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("provider_id = ? AND listing_status = ?", providerID, models.ListingStatusActive).
		Updates(map[string]interface{}{
			"listing_status": models.ListingStatusRemoved,
			"updated_at":     time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}
