package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/models"
	"github.com/arsverma5/huskyhub-api/internal/repository"
)

// ListingService manages provider listings, their schedules and categories.
type ListingService interface {
	List(ctx context.Context, req dto.ListingListRequest) (dto.ListingListResponse, error)
	Get(ctx context.Context, id uint) (dto.ListingDetailResponse, error)
	Create(ctx context.Context, payload dto.ListingCreateRequest, actor ActivityActor) (dto.ListingResponse, error)
	Update(ctx context.Context, id uint, payload dto.ListingUpdateRequest, actor ActivityActor) (dto.ListingResponse, error)
	Remove(ctx context.Context, id uint, actor ActivityActor) (dto.ListingResponse, error)
	Categories(ctx context.Context) ([]dto.CategoryResponse, error)

	ListAvailability(ctx context.Context, listingID uint) ([]dto.AvailabilityResponse, error)
	AddAvailability(ctx context.Context, listingID uint, payload dto.AvailabilityCreateRequest) ([]dto.AvailabilityResponse, error)
	UpdateAvailability(ctx context.Context, listingID, slotID uint, payload dto.AvailabilitySlotRequest) ([]dto.AvailabilityResponse, error)
	DeleteAvailability(ctx context.Context, listingID, slotID uint) error
}

type listingService struct {
	repos     repository.Repositories
	uow       repository.UnitOfWork
	validator *validator.Validate
	activity  ActivityRecorder
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewListingService constructs the listing service.
func NewListingService(repos repository.Repositories, uow repository.UnitOfWork, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ListingService {
	return &listingService{
		repos:     repos,
		uow:       uow,
		validator: validator,
		activity:  activity,
		policy:    bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "listing_service").Logger(),
	}
}

func (s *listingService) List(ctx context.Context, req dto.ListingListRequest) (dto.ListingListResponse, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != "" && !models.ListingStatus(status).Valid() {
		return dto.ListingListResponse{}, invalidArgument("status must be one of active, inactive or removed")
	}

	filter := repository.ListingFilter{
		Status:     status,
		CategoryID: req.CategoryID,
		ProviderID: req.ProviderID,
		Search:     strings.TrimSpace(req.Search),
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if raw := strings.TrimSpace(req.CreatedFrom); raw != "" {
		from, err := parseDateInput(raw)
		if err != nil {
			return dto.ListingListResponse{}, invalidArgument("createdFrom must be an RFC 3339 timestamp or a YYYY-MM-DD date")
		}
		filter.CreatedFrom = &from
	}
	if raw := strings.TrimSpace(req.CreatedTo); raw != "" {
		to, err := parseDateInput(raw)
		if err != nil {
			return dto.ListingListResponse{}, invalidArgument("createdTo must be an RFC 3339 timestamp or a YYYY-MM-DD date")
		}
		filter.CreatedTo = &to
	}

	listings, total, err := s.repos.Listings.List(ctx, filter)
	if err != nil {
		return dto.ListingListResponse{}, err
	}

	items := make([]dto.ListingResponse, 0, len(listings))
	for _, listing := range listings {
		items = append(items, dto.NewListingResponse(listing))
	}

	return dto.ListingListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *listingService) Get(ctx context.Context, id uint) (dto.ListingDetailResponse, error) {
	listing, err := s.repos.Listings.GetByID(ctx, id)
	if err != nil {
		return dto.ListingDetailResponse{}, notFound(err, ErrListingNotFound)
	}

	aggregates, err := s.repos.Listings.Aggregates(ctx, id)
	if err != nil {
		return dto.ListingDetailResponse{}, err
	}

	slots, err := s.ListAvailability(ctx, id)
	if err != nil {
		return dto.ListingDetailResponse{}, err
	}

	return dto.ListingDetailResponse{
		ListingResponse: dto.NewListingResponse(listing),
		AvgRating:       aggregates.AvgRating,
		ReviewCount:     aggregates.ReviewCount,
		ReportCount:     aggregates.ReportCount,
		Availability:    slots,
	}, nil
}

func (s *listingService) Create(ctx context.Context, payload dto.ListingCreateRequest, actor ActivityActor) (dto.ListingResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ListingResponse{}, err
	}

	var created models.Listing
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		provider, err := repos.Students.GetByID(ctx, payload.ProviderID)
		if err != nil {
			return notFound(err, ErrStudentNotFound)
		}
		if err := requireActiveProvider(provider); err != nil {
			return err
		}
		if _, err := repos.Categories.GetByID(ctx, payload.CategoryID); err != nil {
			return notFound(err, ErrCategoryNotFound)
		}

		listing := models.Listing{
			ProviderID:    payload.ProviderID,
			CategoryID:    payload.CategoryID,
			Title:         strings.TrimSpace(s.policy.Sanitize(payload.Title)),
			Description:   strings.TrimSpace(s.policy.Sanitize(payload.Description)),
			Price:         payload.Price,
			Unit:          strings.TrimSpace(payload.Unit),
			ImageURL:      strings.TrimSpace(payload.ImageURL),
			ListingStatus: models.ListingStatusActive,
		}
		if listing.Title == "" {
			return invalidArgument("title must contain text")
		}
		if err := repos.Listings.Create(ctx, &listing); err != nil {
			return err
		}

		created, err = repos.Listings.GetByID(ctx, listing.ID)
		return err
	})
	if err != nil {
		return dto.ListingResponse{}, err
	}

	record(ctx, s.activity, s.logger, actor, "listing.created", "listing", created.ID, map[string]interface{}{
		"provider_id": created.ProviderID,
		"category_id": created.CategoryID,
	})

	return dto.NewListingResponse(created), nil
}

func (s *listingService) Update(ctx context.Context, id uint, payload dto.ListingUpdateRequest, actor ActivityActor) (dto.ListingResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ListingResponse{}, err
	}

	updates := make(map[string]interface{})
	changedFields := make([]string, 0)

	if payload.Title != nil {
		title := strings.TrimSpace(s.policy.Sanitize(*payload.Title))
		if title == "" {
			return dto.ListingResponse{}, invalidArgument("title must contain text")
		}
		updates["title"] = title
		changedFields = append(changedFields, "title")
	}
	if payload.Description != nil {
		updates["description"] = strings.TrimSpace(s.policy.Sanitize(*payload.Description))
		changedFields = append(changedFields, "description")
	}
	if payload.Price != nil {
		updates["price"] = *payload.Price
		changedFields = append(changedFields, "price")
	}
	if payload.Unit != nil {
		updates["unit"] = strings.TrimSpace(*payload.Unit)
		changedFields = append(changedFields, "unit")
	}
	if payload.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*payload.ImageURL)
		changedFields = append(changedFields, "image_url")
	}
	if payload.CategoryID != nil {
		updates["category_id"] = *payload.CategoryID
		changedFields = append(changedFields, "category_id")
	}
	if payload.ListingStatus != nil {
		changedFields = append(changedFields, "listing_status")
	}

	if len(changedFields) == 0 {
		return dto.ListingResponse{}, invalidArgument("no updatable fields supplied")
	}

	var updated models.Listing
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		current, err := repos.Listings.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrListingNotFound)
		}
		if current.ListingStatus == models.ListingStatusRemoved {
			return fmt.Errorf("%w: removed listings cannot be edited", models.ErrInvalidTransition)
		}

		if payload.CategoryID != nil {
			if _, err := repos.Categories.GetByID(ctx, *payload.CategoryID); err != nil {
				return notFound(err, ErrCategoryNotFound)
			}
		}

		if payload.ListingStatus != nil {
			next := models.ListingStatus(strings.ToLower(*payload.ListingStatus))
			if next != current.ListingStatus {
				if _, err := current.ListingStatus.TransitionTo(next); err != nil {
					return err
				}
				if next == models.ListingStatusActive {
					if err := requireActiveProvider(current.Provider); err != nil {
						return err
					}
				}
				updates["listing_status"] = next
			}
		}

		if len(updates) > 0 {
			updates["updated_at"] = time.Now().UTC()
			if err := repos.Listings.Update(ctx, id, updates); err != nil {
				return notFound(err, ErrListingNotFound)
			}
		}

		updated, err = repos.Listings.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return dto.ListingResponse{}, err
	}

	record(ctx, s.activity, s.logger, actor, "listing.updated", "listing", id, map[string]interface{}{
		"fields":         changedFields,
		"listing_status": string(updated.ListingStatus),
	})

	return dto.NewListingResponse(updated), nil
}

// Remove soft-deletes a listing; the row is kept with status removed.
func (s *listingService) Remove(ctx context.Context, id uint, actor ActivityActor) (dto.ListingResponse, error) {
	var removed models.Listing
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		current, err := repos.Listings.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrListingNotFound)
		}
		next, err := current.ListingStatus.TransitionTo(models.ListingStatusRemoved)
		if err != nil {
			return err
		}
		if err := repos.Listings.Update(ctx, id, map[string]interface{}{
			"listing_status": next,
			"updated_at":     time.Now().UTC(),
		}); err != nil {
			return notFound(err, ErrListingNotFound)
		}
		removed, err = repos.Listings.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return dto.ListingResponse{}, err
	}

	record(ctx, s.activity, s.logger, actor, "listing.removed", "listing", id, map[string]interface{}{
		"provider_id": removed.ProviderID,
	})

	return dto.NewListingResponse(removed), nil
}

func (s *listingService) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.NewCategoryResponse(category))
	}
	return items, nil
}

func (s *listingService) ListAvailability(ctx context.Context, listingID uint) ([]dto.AvailabilityResponse, error) {
	slots, err := s.repos.Availability.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AvailabilityResponse, 0, len(slots))
	for _, slot := range slots {
		items = append(items, dto.NewAvailabilityResponse(slot))
	}
	return items, nil
}

func (s *listingService) AddAvailability(ctx context.Context, listingID uint, payload dto.AvailabilityCreateRequest) ([]dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	slots := make([]models.Availability, 0, len(payload.Slots))
	for i, slot := range payload.Slots {
		start, end := slot.StartTime.UTC(), slot.EndTime.UTC()
		if !end.After(start) {
			return nil, invalidArgument("slots[%d]: endTime must be after startTime", i)
		}
		slots = append(slots, models.Availability{ListingID: listingID, StartTime: start, EndTime: end})
	}

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := requireSchedulableListing(ctx, repos, listingID); err != nil {
			return err
		}
		return repos.Availability.CreateBatch(ctx, slots)
	})
	if err != nil {
		return nil, err
	}

	return s.ListAvailability(ctx, listingID)
}

func (s *listingService) UpdateAvailability(ctx context.Context, listingID, slotID uint, payload dto.AvailabilitySlotRequest) ([]dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}
	start, end := payload.StartTime.UTC(), payload.EndTime.UTC()
	if !end.After(start) {
		return nil, invalidArgument("endTime must be after startTime")
	}

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := requireSchedulableListing(ctx, repos, listingID); err != nil {
			return err
		}
		return notFound(repos.Availability.Update(ctx, listingID, slotID, start, end), ErrAvailabilityNotFound)
	})
	if err != nil {
		return nil, err
	}

	return s.ListAvailability(ctx, listingID)
}

func (s *listingService) DeleteAvailability(ctx context.Context, listingID, slotID uint) error {
	if _, err := s.repos.Listings.GetByID(ctx, listingID); err != nil {
		return notFound(err, ErrListingNotFound)
	}
	return notFound(s.repos.Availability.Delete(ctx, listingID, slotID), ErrAvailabilityNotFound)
}

func requireActiveProvider(provider models.Student) error {
	switch provider.AccountStatus {
	case models.AccountStatusActive:
		return nil
	case models.AccountStatusSuspended:
		return ErrProviderSuspended
	default:
		return ErrAccountInactive
	}
}

func requireSchedulableListing(ctx context.Context, repos repository.Repositories, listingID uint) error {
	listing, err := repos.Listings.GetByID(ctx, listingID)
	if err != nil {
		return notFound(err, ErrListingNotFound)
	}
	if listing.ListingStatus == models.ListingStatusRemoved {
		return ErrListingUnavailable
	}
	return nil
}
