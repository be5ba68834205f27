package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/models"
	"github.com/arsverma5/huskyhub-api/internal/repository"
)

// ReviewService reads and records listing reviews.
type ReviewService interface {
	ListByProvider(ctx context.Context, providerID uint) ([]dto.ReviewResponse, error)
	ListByListing(ctx context.Context, listingID uint) ([]dto.ReviewResponse, error)
	Create(ctx context.Context, payload dto.ReviewCreateRequest, actor ActivityActor) (dto.ReviewResponse, error)
}

type reviewService struct {
	repos     repository.Repositories
	validator *validator.Validate
	activity  ActivityRecorder
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewReviewService constructs the review service.
func NewReviewService(repos repository.Repositories, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ReviewService {
	return &reviewService{
		repos:     repos,
		validator: validator,
		activity:  activity,
		policy:    bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "review_service").Logger(),
	}
}

func (s *reviewService) ListByProvider(ctx context.Context, providerID uint) ([]dto.ReviewResponse, error) {
	if _, err := s.repos.Students.GetByID(ctx, providerID); err != nil {
		return nil, notFound(err, ErrStudentNotFound)
	}
	reviews, err := s.repos.Reviews.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return reviewResponses(reviews), nil
}

func (s *reviewService) ListByListing(ctx context.Context, listingID uint) ([]dto.ReviewResponse, error) {
	if _, err := s.repos.Listings.GetByID(ctx, listingID); err != nil {
		return nil, notFound(err, ErrListingNotFound)
	}
	reviews, err := s.repos.Reviews.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return reviewResponses(reviews), nil
}

func (s *reviewService) Create(ctx context.Context, payload dto.ReviewCreateRequest, actor ActivityActor) (dto.ReviewResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReviewResponse{}, err
	}

	reviewer, err := s.repos.Students.GetByID(ctx, payload.ReviewerID)
	if err != nil {
		return dto.ReviewResponse{}, notFound(err, ErrStudentNotFound)
	}
	if reviewer.AccountStatus != models.AccountStatusActive {
		return dto.ReviewResponse{}, ErrAccountInactive
	}

	listing, err := s.repos.Listings.GetByID(ctx, payload.ListingID)
	if err != nil {
		return dto.ReviewResponse{}, notFound(err, ErrListingNotFound)
	}
	if listing.ProviderID == reviewer.ID {
		return dto.ReviewResponse{}, invalidArgument("providers cannot review their own listing")
	}

	review := models.Review{
		ListingID:  listing.ID,
		ReviewerID: reviewer.ID,
		Rating:     payload.Rating,
		ReviewText: strings.TrimSpace(s.policy.Sanitize(payload.ReviewText)),
	}
	if err := s.repos.Reviews.Create(ctx, &review); err != nil {
		return dto.ReviewResponse{}, err
	}
	review.Listing = listing
	review.Reviewer = reviewer

	record(ctx, s.activity, s.logger, actor, "review.created", "review", review.ID, map[string]interface{}{
		"listing_id": listing.ID,
		"rating":     review.Rating,
	})

	return dto.NewReviewResponse(review), nil
}

func reviewResponses(reviews []models.Review) []dto.ReviewResponse {
	items := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, dto.NewReviewResponse(review))
	}
	return items
}
