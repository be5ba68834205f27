package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{}, &models.Category{}, &models.Listing{}, &models.Availability{},
		&models.Transaction{}, &models.Review{}, &models.Report{}, &models.Suspension{}, &models.ActivityLog{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, first, last string, status models.AccountStatus) models.Student {
	t.Helper()
	student := models.Student{
		FirstName:     first,
		LastName:      last,
		Email:         strings.ToLower(first+"."+last) + "@husky.edu",
		Campus:        "Boston",
		AccountStatus: status,
		JoinDate:      time.Now().UTC().Add(-30 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func seedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func seedListing(t *testing.T, db *gorm.DB, providerID, categoryID uint, title string, status models.ListingStatus) models.Listing {
	t.Helper()
	listing := models.Listing{
		ProviderID:    providerID,
		CategoryID:    categoryID,
		Title:         title,
		Description:   title + " description",
		Price:         25,
		Unit:          "hour",
		ListingStatus: status,
	}
	require.NoError(t, db.Omit("Provider", "Category").Create(&listing).Error)
	return listing
}

func seedTransaction(t *testing.T, db *gorm.DB, buyerID, listingID uint, status models.TransactionStatus, amount float64) models.Transaction {
	t.Helper()
	transaction := models.Transaction{
		BuyerID:        buyerID,
		ListingID:      listingID,
		BookDate:       time.Now().UTC(),
		PaymentAmount:  amount,
		TransactStatus: status,
	}
	require.NoError(t, db.Omit("Buyer", "Listing").Create(&transaction).Error)
	return transaction
}
