package models

import "time"

// Transaction is a booking of a listing by a buyer.
type Transaction struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	BuyerID        uint              `gorm:"not null;index" json:"buyer_id"`
	Buyer          Student           `gorm:"foreignKey:BuyerID" json:"-"`
	ListingID      uint              `gorm:"not null;index" json:"listing_id"`
	Listing        Listing           `gorm:"foreignKey:ListingID" json:"-"`
	BookDate       time.Time         `gorm:"not null" json:"book_date"`
	PaymentAmount  float64           `gorm:"not null;default:0" json:"payment_amount"`
	TransactStatus TransactionStatus `gorm:"size:16;not null;default:requested;index" json:"transact_status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Review is a buyer's rating of a listing.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingID  uint      `gorm:"not null;index" json:"listing_id"`
	Listing    Listing   `gorm:"foreignKey:ListingID" json:"-"`
	ReviewerID uint      `gorm:"not null;index" json:"reviewer_id"`
	Reviewer   Student   `gorm:"foreignKey:ReviewerID" json:"-"`
	Rating     int       `gorm:"not null" json:"rating"`
	ReviewText string    `gorm:"type:text" json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
}
