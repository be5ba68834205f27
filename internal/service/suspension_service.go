package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/events"
	"github.com/arsverma5/huskyhub-api/internal/models"
	"github.com/arsverma5/huskyhub-api/internal/observability"
	"github.com/arsverma5/huskyhub-api/internal/repository"
)

const suspensionTracerName = "github.com/arsverma5/huskyhub-api/internal/service/suspension"

// SuspensionService creates, adjusts and lifts account suspensions.
type SuspensionService interface {
	List(ctx context.Context, req dto.SuspensionListRequest) (dto.SuspensionListResponse, error)
	Get(ctx context.Context, id uint) (dto.SuspensionResponse, error)
	Create(ctx context.Context, payload dto.CreateSuspensionRequest, actor ActivityActor) (dto.CreateSuspensionResponse, error)
	Update(ctx context.Context, id uint, payload dto.UpdateSuspensionRequest, actor ActivityActor) (dto.SuspensionResponse, error)
	Lift(ctx context.Context, id uint, actor ActivityActor) (dto.LiftSuspensionResponse, error)
}

type suspensionService struct {
	suspensions repository.SuspensionRepository
	uow         repository.UnitOfWork
	validator   *validator.Validate
	activity    ActivityRecorder
	publisher   events.Publisher
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSuspensionService constructs the suspension engine.
func NewSuspensionService(
	suspensions repository.SuspensionRepository,
	uow repository.UnitOfWork,
	validator *validator.Validate,
	activity ActivityRecorder,
	publisher events.Publisher,
	logger zerolog.Logger,
) SuspensionService {
	return &suspensionService{
		suspensions: suspensions,
		uow:         uow,
		validator:   validator,
		activity:    activity,
		publisher:   publisher,
		logger:      logger.With().Str("component", "suspension_service").Logger(),
		tracer:      otel.Tracer(suspensionTracerName),
		now:         time.Now,
	}
}

func (s *suspensionService) List(ctx context.Context, req dto.SuspensionListRequest) (dto.SuspensionListResponse, error) {
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	switch status {
	case "", "ACTIVE", "EXPIRED", "PERMANENT":
	default:
		return dto.SuspensionListResponse{}, invalidArgument("status must be one of ACTIVE, EXPIRED or PERMANENT")
	}

	now := s.now().UTC()
	suspensions, total, err := s.suspensions.List(ctx, repository.SuspensionFilter{
		StudentID: req.StudentID,
		Status:    status,
		Now:       now,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return dto.SuspensionListResponse{}, err
	}

	items := make([]dto.SuspensionResponse, 0, len(suspensions))
	for _, suspension := range suspensions {
		items = append(items, dto.NewSuspensionResponse(suspension, now))
	}

	return dto.SuspensionListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *suspensionService) Get(ctx context.Context, id uint) (dto.SuspensionResponse, error) {
	suspension, err := s.suspensions.GetByID(ctx, id)
	if err != nil {
		return dto.SuspensionResponse{}, notFound(err, ErrSuspensionNotFound)
	}
	return dto.NewSuspensionResponse(suspension, s.now().UTC()), nil
}

// Create inserts the suspension and applies the cascade in one transaction: the student is
// suspended, their active listings are removed and outstanding bookings on them are cancelled.
func (s *suspensionService) Create(ctx context.Context, payload dto.CreateSuspensionRequest, actor ActivityActor) (dto.CreateSuspensionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CreateSuspensionResponse{}, err
	}
	suspensionType, ok := models.ParseSuspensionType(payload.Type)
	if !ok {
		return dto.CreateSuspensionResponse{}, invalidArgument("type must be temporary or permanent")
	}

	now := s.now().UTC()
	var endDate *time.Time
	if suspensionType == models.SuspensionTypeTemporary {
		parsed, err := s.futureEndDate(payload.EndDate, now)
		if err != nil {
			return dto.CreateSuspensionResponse{}, err
		}
		if parsed == nil {
			return dto.CreateSuspensionResponse{}, invalidArgument("endDate is required for temporary suspensions")
		}
		endDate = parsed
	}

	ctx, span := s.tracer.Start(ctx, "suspension.create")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("suspension.student_id", int64(payload.StudentID)),
		attribute.String("suspension.type", string(suspensionType)),
	)

	var response dto.CreateSuspensionResponse
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		student, err := repos.Students.GetForUpdate(ctx, payload.StudentID)
		if err != nil {
			return notFound(err, ErrStudentNotFound)
		}
		if payload.ReportID != nil {
			reportedID, err := repos.Reports.ReportedStudentID(ctx, *payload.ReportID)
			if err != nil {
				return notFound(err, ErrReportNotFound)
			}
			if reportedID != student.ID {
				return invalidArgument("report %d does not concern student %d", *payload.ReportID, student.ID)
			}
		}
		if student.AccountStatus != models.AccountStatusSuspended {
			if _, err := student.AccountStatus.TransitionTo(models.AccountStatusSuspended); err != nil {
				return err
			}
		}

		suspension := models.Suspension{
			StudentID: student.ID,
			ReportID:  payload.ReportID,
			Type:      suspensionType,
			StartDate: now,
			EndDate:   endDate,
		}
		if err := repos.Suspensions.Create(ctx, &suspension); err != nil {
			return err
		}

		removed, cancelled, err := applySuspensionCascade(ctx, repos, student)
		if err != nil {
			return err
		}

		response = dto.CreateSuspensionResponse{
			ID:                    suspension.ID,
			StudentID:             student.ID,
			ListingsRemoved:       removed,
			TransactionsCancelled: cancelled,
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "suspension_create_failed")
		return dto.CreateSuspensionResponse{}, err
	}

	span.SetAttributes(
		attribute.Int64("suspension.id", int64(response.ID)),
		attribute.Int64("suspension.listings_removed", response.ListingsRemoved),
		attribute.Int64("suspension.transactions_cancelled", response.TransactionsCancelled),
	)
	observability.SuspensionsCreated().WithLabelValues(string(suspensionType)).Inc()
	observability.CascadeItems().WithLabelValues("listings_removed").Add(float64(response.ListingsRemoved))
	observability.CascadeItems().WithLabelValues("transactions_cancelled").Add(float64(response.TransactionsCancelled))

	metadata := map[string]interface{}{
		"student_id":             response.StudentID,
		"type":                   string(suspensionType),
		"listings_removed":       response.ListingsRemoved,
		"transactions_cancelled": response.TransactionsCancelled,
	}
	if payload.ReportID != nil {
		metadata["report_id"] = *payload.ReportID
	}
	if endDate != nil {
		metadata["end_date"] = endDate.Format(time.RFC3339)
	}
	record(ctx, s.activity, s.logger, actor, "suspension.created", "suspension", response.ID, metadata)
	publishEvent(ctx, s.publisher, s.logger, events.New(events.SuspensionCreated, "suspension", response.ID, response.StudentID, metadata))

	s.logger.Info().
		Uint("suspension_id", response.ID).
		Uint("student_id", response.StudentID).
		Str("type", string(suspensionType)).
		Int64("listings_removed", response.ListingsRemoved).
		Int64("transactions_cancelled", response.TransactionsCancelled).
		Msg("student suspended")

	return response, nil
}

// Update applies a partial change. Switching to permanent always clears the end date.
// If the change brings an ended suspension back into force, the cascade is applied again.
func (s *suspensionService) Update(ctx context.Context, id uint, payload dto.UpdateSuspensionRequest, actor ActivityActor) (dto.SuspensionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SuspensionResponse{}, err
	}
	if payload.Empty() {
		return dto.SuspensionResponse{}, invalidArgument("no updatable fields supplied; expected type or endDate")
	}

	var requestedType *models.SuspensionType
	if payload.Type != nil {
		parsed, ok := models.ParseSuspensionType(*payload.Type)
		if !ok {
			return dto.SuspensionResponse{}, invalidArgument("type must be temporary or permanent")
		}
		requestedType = &parsed
	}

	now := s.now().UTC()
	requestedEnd, err := s.futureEndDate(payload.EndDate, now)
	if err != nil {
		return dto.SuspensionResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "suspension.update")
	defer span.End()
	span.SetAttributes(attribute.Int64("suspension.id", int64(id)))

	var (
		updated    models.Suspension
		reinstated bool
	)
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		current, err := repos.Suspensions.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrSuspensionNotFound)
		}

		nextType := current.Type
		if requestedType != nil {
			nextType = *requestedType
		}

		updates := map[string]interface{}{"type": nextType, "updated_at": now}
		var nextEnd *time.Time
		switch nextType {
		case models.SuspensionTypePermanent:
			if requestedType == nil && requestedEnd != nil {
				return invalidArgument("permanent suspensions have no endDate; set type to temporary to add one")
			}
			updates["end_date"] = nil
		default:
			nextEnd = current.EndDate
			if requestedEnd != nil {
				nextEnd = requestedEnd
			}
			if nextEnd == nil {
				return invalidArgument("endDate is required for temporary suspensions")
			}
			updates["end_date"] = *nextEnd
		}

		student, err := repos.Students.GetForUpdate(ctx, current.StudentID)
		if err != nil {
			return notFound(err, ErrStudentNotFound)
		}

		if err := repos.Suspensions.Update(ctx, id, updates); err != nil {
			return notFound(err, ErrSuspensionNotFound)
		}

		inForce := nextEnd == nil || nextEnd.After(now)
		if !current.ActiveAt(now) && inForce && student.AccountStatus == models.AccountStatusActive {
			if _, _, err := applySuspensionCascade(ctx, repos, student); err != nil {
				return err
			}
			reinstated = true
		}

		updated, err = repos.Suspensions.GetByID(ctx, id)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "suspension_update_failed")
		return dto.SuspensionResponse{}, err
	}

	metadata := map[string]interface{}{
		"student_id": updated.StudentID,
		"type":       string(updated.Type),
		"reinstated": reinstated,
	}
	if updated.EndDate != nil {
		metadata["end_date"] = updated.EndDate.Format(time.RFC3339)
	}
	record(ctx, s.activity, s.logger, actor, "suspension.updated", "suspension", updated.ID, metadata)
	publishEvent(ctx, s.publisher, s.logger, events.New(events.SuspensionUpdated, "suspension", updated.ID, updated.StudentID, metadata))

	return dto.NewSuspensionResponse(updated, now), nil
}

// Lift closes the suspension and reactivates the student only when no other suspension still
// covers them. The student row stays locked for the whole check so concurrent lifts serialise.
// Lifting a suspension that already ended keeps its end date and only re-runs the check.
func (s *suspensionService) Lift(ctx context.Context, id uint, actor ActivityActor) (dto.LiftSuspensionResponse, error) {
	now := s.now().UTC()

	ctx, span := s.tracer.Start(ctx, "suspension.lift")
	defer span.End()
	span.SetAttributes(attribute.Int64("suspension.id", int64(id)))

	var response dto.LiftSuspensionResponse
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		suspension, err := repos.Suspensions.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrSuspensionNotFound)
		}

		student, err := repos.Students.GetForUpdate(ctx, suspension.StudentID)
		if err != nil {
			return notFound(err, ErrStudentNotFound)
		}

		endDate := now
		if suspension.ActiveAt(now) {
			if err := repos.Suspensions.Update(ctx, id, map[string]interface{}{"end_date": now, "updated_at": now}); err != nil {
				return err
			}
		} else {
			endDate = *suspension.EndDate
		}

		remaining, err := repos.Suspensions.CountActiveForStudent(ctx, student.ID, id, now)
		if err != nil {
			return err
		}

		reactivated := false
		if remaining == 0 && student.AccountStatus == models.AccountStatusSuspended {
			if err := repos.Students.UpdateStatus(ctx, student.ID, models.AccountStatusActive); err != nil {
				return err
			}
			reactivated = true
		}

		response = dto.LiftSuspensionResponse{
			ID:              id,
			StudentID:       student.ID,
			EndDate:         endDate,
			Reactivated:     reactivated,
			RemainingActive: remaining,
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "suspension_lift_failed")
		return dto.LiftSuspensionResponse{}, err
	}

	outcome := "still_suspended"
	if response.Reactivated {
		outcome = "reactivated"
	}
	span.SetAttributes(attribute.String("suspension.lift_outcome", outcome))
	observability.SuspensionsLifted().WithLabelValues(outcome).Inc()

	metadata := map[string]interface{}{
		"student_id":       response.StudentID,
		"reactivated":      response.Reactivated,
		"remaining_active": response.RemainingActive,
	}
	record(ctx, s.activity, s.logger, actor, "suspension.lifted", "suspension", id, metadata)
	publishEvent(ctx, s.publisher, s.logger, events.New(events.SuspensionLifted, "suspension", id, response.StudentID, metadata))

	return response, nil
}

// futureEndDate parses an optional end date and requires it to be after now.
func (s *suspensionService) futureEndDate(raw *string, now time.Time) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := parseDateInput(*raw)
	if err != nil {
		return nil, invalidArgument("endDate must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	if !parsed.After(now) {
		return nil, invalidArgument("endDate must be in the future")
	}
	return &parsed, nil
}

// applySuspensionCascade marks the student suspended and strips their provider activity.
// It must run inside the caller's transaction.
func applySuspensionCascade(ctx context.Context, repos repository.Repositories, student models.Student) (int64, int64, error) {
	if student.AccountStatus != models.AccountStatusSuspended {
		if err := repos.Students.UpdateStatus(ctx, student.ID, models.AccountStatusSuspended); err != nil {
			return 0, 0, err
		}
	}

	removed, err := repos.Listings.RemoveActiveByProvider(ctx, student.ID)
	if err != nil {
		return 0, 0, err
	}

	cancelled, err := repos.Transactions.CancelOutstandingByProvider(ctx, student.ID)
	if err != nil {
		return 0, 0, err
	}

	return removed, cancelled, nil
}
