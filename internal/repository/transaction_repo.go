package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// TransactionFilter narrows booking queries.
type TransactionFilter struct {
	BuyerID    uint
	ProviderID uint
	Status     string
	Page       int
	PageSize   int
}

// TransactionRepository persists bookings.
type TransactionRepository interface {
	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error)
	GetByID(ctx context.Context, id uint) (models.Transaction, error)
	Create(ctx context.Context, transaction *models.Transaction) error
	UpdateStatus(ctx context.Context, id uint, from, to models.TransactionStatus) error
	CancelOutstandingByProvider(ctx context.Context, providerID uint) (int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository constructs the transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})

	if filter.BuyerID > 0 {
		query = query.Where("transactions.buyer_id = ?", filter.BuyerID)
	}
	if filter.ProviderID > 0 {
		query = query.Joins("JOIN listings ON listings.id = transactions.listing_id").
			Where("listings.provider_id = ?", filter.ProviderID)
	}
	if filter.Status != "" {
		query = query.Where("transactions.transact_status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.Transaction
	err := Page(query, filter.Page, filter.PageSize).
		Preload("Buyer").
		Preload("Listing").
		Preload("Listing.Provider").
		Order("transactions.book_date DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Buyer").
		Preload("Listing").
		Preload("Listing.Provider").
		Where("id = ?", id).
		First(&transaction).Error
	if err != nil {
		return models.Transaction{}, err
	}
	return transaction, nil
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(transaction).Error
}

// UpdateStatus changes the status only if the row still holds the expected current status,
// so a concurrent terminal transition is never overwritten.
func (r *transactionRepository) UpdateStatus(ctx context.Context, id uint, from, to models.TransactionStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND transact_status = ?", id, from).
		Updates(map[string]interface{}{
			"transact_status": to,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrInvalidTransition
	}
	return nil
}

// CancelOutstandingByProvider cancels requested and confirmed bookings on the provider's listings.
func (r *transactionRepository) CancelOutstandingByProvider(ctx context.Context, providerID uint) (int64, error) {
	providerListings := r.db.Model(&models.Listing{}).Select("id").Where("provider_id = ?", providerID)

	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("listing_id IN (?)", providerListings).
		Where("transact_status IN ?", models.OutstandingTransactionStatuses()).
		Updates(map[string]interface{}{
			"transact_status": models.TransactionStatusCancelled,
			"updated_at":      time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}
