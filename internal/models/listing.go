package models

import "time"

// Category groups listings for browsing.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Listing is a service offered by a provider. Listings are never hard-deleted.
type Listing struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	ProviderID    uint          `gorm:"not null;index" json:"provider_id"`
	Provider      Student       `gorm:"foreignKey:ProviderID" json:"-"`
	CategoryID    uint          `gorm:"not null;index" json:"category_id"`
	Category      Category      `gorm:"foreignKey:CategoryID" json:"-"`
	Title         string        `gorm:"size:200;not null" json:"title"`
	Description   string        `gorm:"type:text" json:"description"`
	Price         float64       `gorm:"not null" json:"price"`
	Unit          string        `gorm:"size:32;not null" json:"unit"`
	ImageURL      string        `gorm:"size:512" json:"image_url"`
	ListingStatus ListingStatus `gorm:"size:16;not null;default:active;index" json:"listing_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Availability is a bookable time slot belonging to a listing.
type Availability struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null;index" json:"listing_id"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the singular table name used by the marketplace schema.
func (Availability) TableName() string {
	return "availability"
}
