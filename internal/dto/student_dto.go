package dto

import (
	"time"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// StudentListRequest defines filters for browsing students.
type StudentListRequest struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	Campus   string
	Sort     string
}

// StudentResponse serializes a student profile.
type StudentResponse struct {
	ID              uint      `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Major           string    `json:"major"`
	Bio             string    `json:"bio"`
	Campus          string    `json:"campus"`
	ProfilePhotoURL string    `json:"profile_photo_url"`
	AccountStatus   string    `json:"account_status"`
	VerifiedStatus  bool      `json:"verified_status"`
	JoinDate        time.Time `json:"join_date"`
}

// StudentDetailResponse adds provider aggregates to a profile.
type StudentDetailResponse struct {
	StudentResponse
	TotalServices int64    `json:"total_services"`
	AvgRating     *float64 `json:"avg_rating"`
	TotalReviews  int64    `json:"total_reviews"`
}

// StudentListResponse wraps a paginated student list.
type StudentListResponse struct {
	Items      []StudentResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// StudentUpdateRequest captures the self-service profile fields. Status is only changed by moderation.
type StudentUpdateRequest struct {
	Phone           *string `json:"phone" validate:"omitempty,max=32"`
	Major           *string `json:"major" validate:"omitempty,max=120"`
	Bio             *string `json:"bio" validate:"omitempty,max=2000"`
	ProfilePhotoURL *string `json:"profile_photo_url" validate:"omitempty,url"`
	VerifiedStatus  *bool   `json:"verified_status"`
}

// ProviderMetricsResponse is the provider performance dashboard.
type ProviderMetricsResponse struct {
	StudentID         uint     `json:"student_id"`
	TotalServices     int64    `json:"total_services"`
	ActiveServices    int64    `json:"active_services"`
	TotalBookings     int64    `json:"total_bookings"`
	CompletedBookings int64    `json:"completed_bookings"`
	TotalEarnings     float64  `json:"total_earnings"`
	AvgRating         *float64 `json:"avg_rating"`
	TotalReviews      int64    `json:"total_reviews"`
	CompletionRate    float64  `json:"completion_rate"`
}

// NewStudentResponse converts a student model into a DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:              student.ID,
		FirstName:       student.FirstName,
		LastName:        student.LastName,
		Name:            student.FullName(),
		Email:           student.Email,
		Phone:           student.Phone,
		Major:           student.Major,
		Bio:             student.Bio,
		Campus:          student.Campus,
		ProfilePhotoURL: student.ProfilePhotoURL,
		AccountStatus:   string(student.AccountStatus),
		VerifiedStatus:  student.VerifiedStatus,
		JoinDate:        student.JoinDate,
	}
}

// ProviderLeaderboardRequest selects the leaderboard ordering and size.
type ProviderLeaderboardRequest struct {
	SortBy string
	Limit  int
}

// ProviderStandingResponse is one provider on the leaderboard.
type ProviderStandingResponse struct {
	StudentID             uint     `json:"stuId"`
	FirstName             string   `json:"first_name"`
	LastName              string   `json:"last_name"`
	Email                 string   `json:"email"`
	Campus                string   `json:"campus"`
	AvgRating             *float64 `json:"avg_rating"`
	CompletedTransactions int64    `json:"completed_transactions"`
}

// ConsumerStandingResponse is one buyer with their booking count.
type ConsumerStandingResponse struct {
	StudentID        uint   `json:"stuId"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Campus           string `json:"campus"`
	TransactionCount int64  `json:"transaction_count"`
}

// NewUserMetricsResponse tracks how quickly a recently joined student starts offering services.
// FirstListingDate and DaysToFirstListing stay null when no listing followed within the window.
type NewUserMetricsResponse struct {
	StudentID          uint       `json:"stuId"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Campus             string     `json:"campus"`
	JoinDate           time.Time  `json:"join_date"`
	FirstListingDate   *time.Time `json:"first_listing_date"`
	DaysToFirstListing *int       `json:"days_to_first_listing"`
}

// StudentRatingsResponse is a provider's average rating across all of their listings.
type StudentRatingsResponse struct {
	ProviderID    uint    `json:"providerId"`
	ProviderName  string  `json:"provider_name"`
	AvgRating     float64 `json:"avg_rating"`
	TotalReviews  int64   `json:"total_reviews"`
	AccountStatus string  `json:"account_status"`
}
