package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// ReviewRepository persists listing reviews.
type ReviewRepository interface {
	ListByProvider(ctx context.Context, providerID uint) ([]models.Review, error)
	ListByListing(ctx context.Context, listingID uint) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository constructs the review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) ListByProvider(ctx context.Context, providerID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Joins("JOIN listings ON listings.id = reviews.listing_id").
		Where("listings.provider_id = ?", providerID).
		Preload("Listing").
		Preload("Reviewer").
		Order("reviews.created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ListByListing(ctx context.Context, listingID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Preload("Listing").
		Preload("Reviewer").
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}
