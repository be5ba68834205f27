package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/events"
	"github.com/arsverma5/huskyhub-api/internal/moderation"
	"github.com/arsverma5/huskyhub-api/internal/observability"
	"github.com/arsverma5/huskyhub-api/internal/repository"
)

// DefaultResolutionNotes replaces omitted or blank admin notes.
const DefaultResolutionNotes = "Resolved by admin"

// ReportService serves the admin report queue and resolves reports.
type ReportService interface {
	ListOpen(ctx context.Context) (dto.ReportQueueResponse, error)
	Get(ctx context.Context, id uint) (dto.ReportResponse, error)
	Resolve(ctx context.Context, id uint, payload dto.ResolveReportRequest, actor ActivityActor) (dto.ReportResponse, error)
}

type reportService struct {
	reports   repository.ReportRepository
	uow       repository.UnitOfWork
	validator *validator.Validate
	activity  ActivityRecorder
	publisher events.Publisher
	policy    *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewReportService constructs the report resolution service.
func NewReportService(
	reports repository.ReportRepository,
	uow repository.UnitOfWork,
	validator *validator.Validate,
	activity ActivityRecorder,
	publisher events.Publisher,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		reports:   reports,
		uow:       uow,
		validator: validator,
		activity:  activity,
		publisher: publisher,
		policy:    bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "report_service").Logger(),
		now:       time.Now,
	}
}

func (s *reportService) ListOpen(ctx context.Context) (dto.ReportQueueResponse, error) {
	reports, err := s.reports.ListOpen(ctx)
	if err != nil {
		return dto.ReportQueueResponse{}, err
	}

	now := s.now().UTC()
	classified := make([]moderation.ClassifiedReport, 0, len(reports))
	byID := make(map[uint]int, len(reports))
	for i, report := range reports {
		state := moderation.StateFromReport(report)
		classified = append(classified, moderation.ClassifiedReport{
			State:          state,
			Classification: moderation.ClassifyReport(state, now),
		})
		byID[report.ID] = i
	}
	moderation.SortReports(classified)

	items := make([]dto.ReportResponse, 0, len(classified))
	for _, item := range classified {
		items = append(items, dto.NewReportResponse(reports[byID[item.State.ReportID]], item.Classification))
	}

	return dto.ReportQueueResponse{
		Items:   items,
		Summary: moderation.SummarizePriorities(classified),
	}, nil
}

func (s *reportService) Get(ctx context.Context, id uint) (dto.ReportResponse, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return dto.ReportResponse{}, notFound(err, ErrReportNotFound)
	}
	classification := moderation.ClassifyReport(moderation.StateFromReport(report), s.now().UTC())
	return dto.NewReportResponse(report, classification), nil
}

// Resolve stamps the report as resolved now. Resolving an already resolved report is an admin
// correction: the notes and timestamp are overwritten.
func (s *reportService) Resolve(ctx context.Context, id uint, payload dto.ResolveReportRequest, actor ActivityActor) (dto.ReportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReportResponse{}, err
	}

	notes := DefaultResolutionNotes
	if payload.ResolutionNotes != nil {
		if cleaned := strings.TrimSpace(s.policy.Sanitize(*payload.ResolutionNotes)); cleaned != "" {
			notes = cleaned
		}
	}

	now := s.now().UTC()
	correction := false
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		current, err := repos.Reports.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrReportNotFound)
		}
		correction = !current.Open()
		return notFound(repos.Reports.Resolve(ctx, id, now, notes), ErrReportNotFound)
	})
	if err != nil {
		return dto.ReportResponse{}, err
	}

	kind := "first"
	if correction {
		kind = "correction"
	}
	observability.ReportsResolved().WithLabelValues(kind).Inc()

	resolved, err := s.Get(ctx, id)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	metadata := map[string]interface{}{
		"reported_student_id": resolved.ReportedStudent.ID,
		"correction":          correction,
	}
	record(ctx, s.activity, s.logger, actor, "report.resolved", "report", id, metadata)
	publishEvent(ctx, s.publisher, s.logger, events.New(events.ReportResolved, "report", id, resolved.ReportedStudent.ID, metadata))

	return resolved, nil
}
