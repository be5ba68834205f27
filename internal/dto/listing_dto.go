package dto

import (
	"time"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// ListingListRequest defines browse filters. Dates are RFC 3339 or YYYY-MM-DD.
type ListingListRequest struct {
	Page        int
	PageSize    int
	Status      string
	CategoryID  uint
	ProviderID  uint
	Search      string
	CreatedFrom string
	CreatedTo   string
}

// ListingResponse serializes a listing with provider and category names.
type ListingResponse struct {
	ID            uint      `json:"id"`
	ProviderID    uint      `json:"provider_id"`
	ProviderName  string    `json:"provider_name"`
	CategoryID    uint      `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Unit          string    `json:"unit"`
	ImageURL      string    `json:"image_url"`
	ListingStatus string    `json:"listing_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListingDetailResponse adds rating, moderation and schedule data to a listing.
type ListingDetailResponse struct {
	ListingResponse
	AvgRating    *float64               `json:"avg_rating"`
	ReviewCount  int64                  `json:"review_count"`
	ReportCount  int64                  `json:"report_count"`
	Availability []AvailabilityResponse `json:"availability"`
}

// ListingListResponse wraps a paginated listing list.
type ListingListResponse struct {
	Items      []ListingResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// ListingCreateRequest captures a new listing.
type ListingCreateRequest struct {
	ProviderID  uint    `json:"providerId" validate:"required"`
	CategoryID  uint    `json:"categoryId" validate:"required"`
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"required,max=32"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
}

// ListingUpdateRequest holds one optional slot per mutable listing attribute.
type ListingUpdateRequest struct {
	CategoryID    *uint    `json:"categoryId" validate:"omitempty,gt=0"`
	Title         *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=5000"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	Unit          *string  `json:"unit" validate:"omitempty,min=1,max=32"`
	ImageURL      *string  `json:"imageUrl" validate:"omitempty,url"`
	ListingStatus *string  `json:"listingStatus" validate:"omitempty,oneof=active inactive removed"`
}

// AvailabilitySlotRequest is a single bookable window.
type AvailabilitySlotRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
}

// AvailabilityCreateRequest adds one or more slots to a listing.
type AvailabilityCreateRequest struct {
	Slots []AvailabilitySlotRequest `json:"slots" validate:"required,min=1,max=50,dive"`
}

// AvailabilityResponse serializes a slot.
type AvailabilityResponse struct {
	ID        uint      `json:"id"`
	ListingID uint      `json:"listing_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// CategoryResponse serializes a category.
type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewListingResponse converts a listing with preloaded provider and category into a DTO.
func NewListingResponse(listing models.Listing) ListingResponse {
	return ListingResponse{
		ID:            listing.ID,
		ProviderID:    listing.ProviderID,
		ProviderName:  listing.Provider.FullName(),
		CategoryID:    listing.CategoryID,
		CategoryName:  listing.Category.Name,
		Title:         listing.Title,
		Description:   listing.Description,
		Price:         listing.Price,
		Unit:          listing.Unit,
		ImageURL:      listing.ImageURL,
		ListingStatus: string(listing.ListingStatus),
		CreatedAt:     listing.CreatedAt,
		UpdatedAt:     listing.UpdatedAt,
	}
}

// NewAvailabilityResponse converts a slot into a DTO.
func NewAvailabilityResponse(slot models.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:        slot.ID,
		ListingID: slot.ListingID,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}
}

// NewCategoryResponse converts a category into a DTO.
func NewCategoryResponse(category models.Category) CategoryResponse {
	return CategoryResponse{ID: category.ID, Name: category.Name, Description: category.Description}
}
