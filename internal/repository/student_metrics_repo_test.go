package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

func reviewListing(t *testing.T, db *gorm.DB, listingID, reviewerID uint, rating int) {
	t.Helper()
	review := models.Review{ListingID: listingID, ReviewerID: reviewerID, Rating: rating}
	require.NoError(t, db.Omit("Listing", "Reviewer").Create(&review).Error)
}

func TestStudentRepositoryProviderLeaderboard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	busy := seedStudent(t, db, "Busy", "Provider", models.AccountStatusActive)
	loved := seedStudent(t, db, "Loved", "Provider", models.AccountStatusActive)
	idle := seedStudent(t, db, "Idle", "Provider", models.AccountStatusActive)
	buyer := seedStudent(t, db, "Casey", "Buyer", models.AccountStatusActive)
	category := seedCategory(t, db, "Tutoring")

	busyListing := seedListing(t, db, busy.ID, category.ID, "Calculus", models.ListingStatusActive)
	lovedListing := seedListing(t, db, loved.ID, category.ID, "Guitar", models.ListingStatusActive)
	idleListing := seedListing(t, db, idle.ID, category.ID, "Chess", models.ListingStatusActive)

	for i := 0; i < 3; i++ {
		seedTransaction(t, db, buyer.ID, busyListing.ID, models.TransactionStatusCompleted, 20)
	}
	seedTransaction(t, db, buyer.ID, busyListing.ID, models.TransactionStatusRequested, 20)
	seedTransaction(t, db, buyer.ID, lovedListing.ID, models.TransactionStatusCompleted, 40)
	seedTransaction(t, db, buyer.ID, idleListing.ID, models.TransactionStatusCancelled, 10)

	reviewListing(t, db, busyListing.ID, buyer.ID, 3)
	reviewListing(t, db, busyListing.ID, buyer.ID, 4)
	reviewListing(t, db, lovedListing.ID, buyer.ID, 5)
	reviewListing(t, db, idleListing.ID, buyer.ID, 5)

	byTransactions, err := repo.ProviderLeaderboard(ctx, ProviderSortTransactions, 100)
	require.NoError(t, err)
	require.Len(t, byTransactions, 2)
	require.Equal(t, busy.ID, byTransactions[0].ID)
	require.Equal(t, int64(3), byTransactions[0].CompletedTransactions)
	require.NotNil(t, byTransactions[0].AvgRating)
	require.InDelta(t, 3.5, *byTransactions[0].AvgRating, 0.001)
	require.Equal(t, "busy.provider@husky.edu", byTransactions[0].Email)
	require.Equal(t, loved.ID, byTransactions[1].ID)

	byRating, err := repo.ProviderLeaderboard(ctx, ProviderSortRating, 100)
	require.NoError(t, err)
	require.Len(t, byRating, 2)
	require.Equal(t, loved.ID, byRating[0].ID)
	require.Equal(t, busy.ID, byRating[1].ID)

	limited, err := repo.ProviderLeaderboard(ctx, ProviderSortTransactions, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestStudentRepositoryConsumerActivity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	provider := seedStudent(t, db, "Jordan", "Provider", models.AccountStatusActive)
	frequent := seedStudent(t, db, "Frequent", "Buyer", models.AccountStatusActive)
	once := seedStudent(t, db, "Once", "Buyer", models.AccountStatusActive)
	seedStudent(t, db, "Never", "Buyer", models.AccountStatusActive)
	category := seedCategory(t, db, "Tutoring")
	listing := seedListing(t, db, provider.ID, category.ID, "Calculus", models.ListingStatusActive)

	seedTransaction(t, db, frequent.ID, listing.ID, models.TransactionStatusCompleted, 20)
	seedTransaction(t, db, frequent.ID, listing.ID, models.TransactionStatusCancelled, 20)
	seedTransaction(t, db, once.ID, listing.ID, models.TransactionStatusRequested, 20)

	standings, err := repo.ConsumerActivity(context.Background())
	require.NoError(t, err)
	require.Len(t, standings, 2)
	require.Equal(t, frequent.ID, standings[0].ID)
	require.Equal(t, int64(2), standings[0].TransactionCount)
	require.Equal(t, once.ID, standings[1].ID)
	require.Equal(t, int64(1), standings[1].TransactionCount)
}

func TestStudentRepositoryJoinedSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	now := time.Now().UTC()

	veteran := seedStudent(t, db, "Veteran", "Husky", models.AccountStatusActive)
	require.NoError(t, db.Model(&veteran).Update("join_date", now.AddDate(-1, 0, 0)).Error)
	earlier := seedStudent(t, db, "Earlier", "Husky", models.AccountStatusActive)
	require.NoError(t, db.Model(&earlier).Update("join_date", now.AddDate(0, 0, -60)).Error)
	latest := seedStudent(t, db, "Latest", "Husky", models.AccountStatusActive)
	require.NoError(t, db.Model(&latest).Update("join_date", now.AddDate(0, 0, -2)).Error)

	category := seedCategory(t, db, "Tutoring")
	second := seedListing(t, db, earlier.ID, category.ID, "Second", models.ListingStatusActive)
	first := seedListing(t, db, earlier.ID, category.ID, "First", models.ListingStatusActive)
	require.NoError(t, db.Model(&second).Update("created_at", now.AddDate(0, 0, -40)).Error)
	require.NoError(t, db.Model(&first).Update("created_at", now.AddDate(0, 0, -50)).Error)

	newcomers, err := repo.JoinedSince(context.Background(), now.AddDate(0, 0, -90))
	require.NoError(t, err)
	require.Len(t, newcomers, 2)
	require.Equal(t, latest.ID, newcomers[0].Student.ID)
	require.Empty(t, newcomers[0].ListingCreatedAt)
	require.Equal(t, earlier.ID, newcomers[1].Student.ID)
	require.Len(t, newcomers[1].ListingCreatedAt, 2)
	require.True(t, newcomers[1].ListingCreatedAt[0].Before(newcomers[1].ListingCreatedAt[1]))

	none, err := repo.JoinedSince(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, none)
}
