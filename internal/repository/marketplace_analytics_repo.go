package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// MarketplaceCounts are the headline numbers on the admin moderation dashboard.
type MarketplaceCounts struct {
	ActiveStudents          int64
	SuspendedStudents       int64
	ActiveListings          int64
	OutstandingTransactions int64
	OpenReports             int64
	ActiveSuspensions       int64
}

// MarketplaceAnalyticsRepository supplies aggregate counts for administrators.
type MarketplaceAnalyticsRepository interface {
	Counts(ctx context.Context, now time.Time) (MarketplaceCounts, error)
}

type marketplaceAnalyticsRepository struct {
	db *gorm.DB
}

// NewMarketplaceAnalyticsRepository constructs the analytics repository.
func NewMarketplaceAnalyticsRepository(db *gorm.DB) MarketplaceAnalyticsRepository {
	return &marketplaceAnalyticsRepository{db: db}
}

func (r *marketplaceAnalyticsRepository) Counts(ctx context.Context, now time.Time) (MarketplaceCounts, error) {
	db := r.db.WithContext(ctx)
	var counts MarketplaceCounts

	steps := []struct {
		query  *gorm.DB
		target *int64
	}{
		{db.Model(&models.Student{}).Where("account_status = ?", models.AccountStatusActive), &counts.ActiveStudents},
		{db.Model(&models.Student{}).Where("account_status = ?", models.AccountStatusSuspended), &counts.SuspendedStudents},
		{db.Model(&models.Listing{}).Where("listing_status = ?", models.ListingStatusActive), &counts.ActiveListings},
		{db.Model(&models.Transaction{}).Where("transact_status IN ?", models.OutstandingTransactionStatuses()), &counts.OutstandingTransactions},
		{db.Model(&models.Report{}).Where("resolution_date IS NULL"), &counts.OpenReports},
		{db.Model(&models.Suspension{}).Where("end_date IS NULL OR end_date > ?", now), &counts.ActiveSuspensions},
	}

	for _, step := range steps {
		if err := step.query.Count(step.target).Error; err != nil {
			return MarketplaceCounts{}, err
		}
	}

	return counts, nil
}
