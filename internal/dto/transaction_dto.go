package dto

import (
	"time"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// TransactionListRequest defines booking filters.
type TransactionListRequest struct {
	Page       int
	PageSize   int
	BuyerID    uint
	ProviderID uint
	Status     string
}

// TransactionCreateRequest books a listing.
type TransactionCreateRequest struct {
	BuyerID   uint      `json:"buyerId" validate:"required"`
	ListingID uint      `json:"listingId" validate:"required"`
	BookDate  time.Time `json:"bookDate" validate:"required"`
}

// TransactionStatusRequest moves a booking along its lifecycle.
type TransactionStatusRequest struct {
	TransactStatus string `json:"transactStatus" validate:"required,oneof=requested confirmed completed cancelled"`
}

// TransactionResponse serializes a booking.
type TransactionResponse struct {
	ID             uint      `json:"id"`
	BuyerID        uint      `json:"buyer_id"`
	BuyerName      string    `json:"buyer_name"`
	ListingID      uint      `json:"listing_id"`
	ListingTitle   string    `json:"listing_title"`
	ProviderID     uint      `json:"provider_id"`
	ProviderName   string    `json:"provider_name"`
	BookDate       time.Time `json:"book_date"`
	PaymentAmount  float64   `json:"payment_amount"`
	TransactStatus string    `json:"transact_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TransactionListResponse wraps a paginated booking list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// ReviewCreateRequest captures a buyer review.
type ReviewCreateRequest struct {
	ListingID  uint   `json:"listingId" validate:"required"`
	ReviewerID uint   `json:"reviewerId" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"reviewText" validate:"omitempty,max=2000"`
}

// ReviewResponse serializes a review.
type ReviewResponse struct {
	ID           uint      `json:"id"`
	ListingID    uint      `json:"listing_id"`
	ListingTitle string    `json:"listing_title"`
	ReviewerID   uint      `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	ReviewText   string    `json:"review_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewTransactionResponse converts a booking with preloaded buyer and listing into a DTO.
func NewTransactionResponse(transaction models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             transaction.ID,
		BuyerID:        transaction.BuyerID,
		BuyerName:      transaction.Buyer.FullName(),
		ListingID:      transaction.ListingID,
		ListingTitle:   transaction.Listing.Title,
		ProviderID:     transaction.Listing.ProviderID,
		ProviderName:   transaction.Listing.Provider.FullName(),
		BookDate:       transaction.BookDate,
		PaymentAmount:  transaction.PaymentAmount,
		TransactStatus: string(transaction.TransactStatus),
		CreatedAt:      transaction.CreatedAt,
		UpdatedAt:      transaction.UpdatedAt,
	}
}

// NewReviewResponse converts a review with preloaded listing and reviewer into a DTO.
func NewReviewResponse(review models.Review) ReviewResponse {
	return ReviewResponse{
		ID:           review.ID,
		ListingID:    review.ListingID,
		ListingTitle: review.Listing.Title,
		ReviewerID:   review.ReviewerID,
		ReviewerName: review.Reviewer.FullName(),
		Rating:       review.Rating,
		ReviewText:   review.ReviewText,
		CreatedAt:    review.CreatedAt,
	}
}
