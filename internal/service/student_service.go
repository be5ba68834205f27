package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/models"
	"github.com/arsverma5/huskyhub-api/internal/repository"
)

// StudentService serves student profiles and provider dashboards.
type StudentService interface {
	List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error)
	Get(ctx context.Context, id uint) (dto.StudentDetailResponse, error)
	Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest, actor ActivityActor) (dto.StudentResponse, error)
	Metrics(ctx context.Context, id uint) (dto.ProviderMetricsResponse, error)
	ProviderLeaderboard(ctx context.Context, req dto.ProviderLeaderboardRequest) ([]dto.ProviderStandingResponse, error)
	ConsumerMetrics(ctx context.Context) ([]dto.ConsumerStandingResponse, error)
	NewUserMetrics(ctx context.Context) ([]dto.NewUserMetricsResponse, error)
	Ratings(ctx context.Context, id uint) (dto.StudentRatingsResponse, error)
}

const (
	defaultLeaderboardLimit = 100
	maxLeaderboardLimit     = 1000
	// Onboarding metrics cover students who joined in the last newUserWindowDays calendar days and
	// count a listing as their first only when it was created within firstListingWindowDays.
	newUserWindowDays      = 90
	firstListingWindowDays = 30
)

type studentService struct {
	repo      repository.StudentRepository
	validator *validator.Validate
	activity  ActivityRecorder
	policy    *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo repository.StudentRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		policy:    bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "student_service").Logger(),
		now:       time.Now,
	}
}

func (s *studentService) List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != "" && !models.AccountStatus(status).Valid() {
		return dto.StudentListResponse{}, invalidArgument("status must be one of active, suspended or deleted")
	}

	students, total, err := s.repo.List(ctx, repository.StudentFilter{
		Search:   strings.TrimSpace(req.Search),
		Status:   status,
		Campus:   strings.TrimSpace(req.Campus),
		Sort:     req.Sort,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return dto.StudentListResponse{}, err
	}

	items := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewStudentResponse(student))
	}

	return dto.StudentListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentDetailResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.StudentDetailResponse{}, notFound(err, ErrStudentNotFound)
	}

	aggregates, err := s.repo.Aggregates(ctx, id)
	if err != nil {
		return dto.StudentDetailResponse{}, err
	}

	return dto.StudentDetailResponse{
		StudentResponse: dto.NewStudentResponse(student),
		TotalServices:   aggregates.TotalServices,
		AvgRating:       aggregates.AvgRating,
		TotalReviews:    aggregates.TotalReviews,
	}, nil
}

func (s *studentService) Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest, actor ActivityActor) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	updates := make(map[string]interface{})
	changedFields := make([]string, 0)

	if payload.Phone != nil {
		updates["phone"] = strings.TrimSpace(*payload.Phone)
		changedFields = append(changedFields, "phone")
	}
	if payload.Major != nil {
		updates["major"] = strings.TrimSpace(s.policy.Sanitize(*payload.Major))
		changedFields = append(changedFields, "major")
	}
	if payload.Bio != nil {
		updates["bio"] = strings.TrimSpace(s.policy.Sanitize(*payload.Bio))
		changedFields = append(changedFields, "bio")
	}
	if payload.ProfilePhotoURL != nil {
		updates["profile_photo_url"] = strings.TrimSpace(*payload.ProfilePhotoURL)
		changedFields = append(changedFields, "profile_photo_url")
	}
	if payload.VerifiedStatus != nil {
		updates["verified_status"] = *payload.VerifiedStatus
		changedFields = append(changedFields, "verified_status")
	}

	if len(updates) == 0 {
		return dto.StudentResponse{}, invalidArgument("no updatable fields supplied")
	}

	student, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return dto.StudentResponse{}, notFound(err, ErrStudentNotFound)
	}

	record(ctx, s.activity, s.logger, actor, "student.updated", "student", id, map[string]interface{}{
		"student_id": id,
		"fields":     changedFields,
	})

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Metrics(ctx context.Context, id uint) (dto.ProviderMetricsResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return dto.ProviderMetricsResponse{}, notFound(err, ErrStudentNotFound)
	}

	metrics, err := s.repo.Metrics(ctx, id)
	if err != nil {
		return dto.ProviderMetricsResponse{}, err
	}

	response := dto.ProviderMetricsResponse{
		StudentID:         id,
		TotalServices:     metrics.TotalServices,
		ActiveServices:    metrics.ActiveServices,
		TotalBookings:     metrics.TotalBookings,
		CompletedBookings: metrics.CompletedBookings,
		TotalEarnings:     metrics.TotalEarnings,
		AvgRating:         metrics.AvgRating,
		TotalReviews:      metrics.TotalReviews,
	}
	if metrics.TotalBookings > 0 {
		response.CompletionRate = float64(metrics.CompletedBookings) / float64(metrics.TotalBookings)
	}
	return response, nil
}

func (s *studentService) ProviderLeaderboard(ctx context.Context, req dto.ProviderLeaderboardRequest) ([]dto.ProviderStandingResponse, error) {
	sortBy := strings.ToLower(strings.TrimSpace(req.SortBy))
	switch sortBy {
	case "":
		sortBy = repository.ProviderSortTransactions
	case repository.ProviderSortTransactions, repository.ProviderSortRating:
	default:
		return nil, invalidArgument("sortBy must be rating or transactions")
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultLeaderboardLimit
	}
	if limit < 1 || limit > maxLeaderboardLimit {
		return nil, invalidArgument("limit must be between 1 and %d", maxLeaderboardLimit)
	}

	standings, err := s.repo.ProviderLeaderboard(ctx, sortBy, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProviderStandingResponse, 0, len(standings))
	for _, standing := range standings {
		items = append(items, dto.ProviderStandingResponse{
			StudentID:             standing.ID,
			FirstName:             standing.FirstName,
			LastName:              standing.LastName,
			Email:                 standing.Email,
			Campus:                standing.Campus,
			AvgRating:             standing.AvgRating,
			CompletedTransactions: standing.CompletedTransactions,
		})
	}
	return items, nil
}

func (s *studentService) ConsumerMetrics(ctx context.Context) ([]dto.ConsumerStandingResponse, error) {
	standings, err := s.repo.ConsumerActivity(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ConsumerStandingResponse, 0, len(standings))
	for _, standing := range standings {
		items = append(items, dto.ConsumerStandingResponse{
			StudentID:        standing.ID,
			FirstName:        standing.FirstName,
			LastName:         standing.LastName,
			Email:            standing.Email,
			Campus:           standing.Campus,
			TransactionCount: standing.TransactionCount,
		})
	}
	return items, nil
}

// NewUserMetrics reports onboarding speed for recent joiners. Day counts compare UTC calendar dates.
func (s *studentService) NewUserMetrics(ctx context.Context) ([]dto.NewUserMetricsResponse, error) {
	since := calendarDate(s.now()).AddDate(0, 0, -newUserWindowDays)

	newcomers, err := s.repo.JoinedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	items := make([]dto.NewUserMetricsResponse, 0, len(newcomers))
	for _, newcomer := range newcomers {
		student := newcomer.Student
		item := dto.NewUserMetricsResponse{
			StudentID: student.ID,
			FirstName: student.FirstName,
			LastName:  student.LastName,
			Campus:    student.Campus,
			JoinDate:  student.JoinDate,
		}
		for _, created := range newcomer.ListingCreatedAt {
			if created.Before(student.JoinDate) {
				continue
			}
			days := daysBetween(student.JoinDate, created)
			if days > firstListingWindowDays {
				break
			}
			first := created
			item.FirstListingDate = &first
			item.DaysToFirstListing = &days
			break
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *studentService) Ratings(ctx context.Context, id uint) (dto.StudentRatingsResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.StudentRatingsResponse{}, notFound(err, ErrStudentNotFound)
	}

	aggregates, err := s.repo.Aggregates(ctx, id)
	if err != nil {
		return dto.StudentRatingsResponse{}, err
	}
	if aggregates.TotalReviews == 0 || aggregates.AvgRating == nil {
		return dto.StudentRatingsResponse{}, ErrNoRatings
	}

	return dto.StudentRatingsResponse{
		ProviderID:    student.ID,
		ProviderName:  student.FullName(),
		AvgRating:     *aggregates.AvgRating,
		TotalReviews:  aggregates.TotalReviews,
		AccountStatus: string(student.AccountStatus),
	}, nil
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(calendarDate(to).Sub(calendarDate(from)).Hours() / 24)
}
