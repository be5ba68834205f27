package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/moderation"
	"github.com/arsverma5/huskyhub-api/internal/repository"
)

const moderationSummaryCacheKey = "moderation:summary"

// ModerationSummaryService aggregates the admin dashboard header.
type ModerationSummaryService interface {
	GetSummary(ctx context.Context) (dto.ModerationSummaryResponse, error)
}

type moderationSummaryService struct {
	reports  repository.ReportRepository
	counts   repository.MarketplaceAnalyticsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewModerationSummaryService constructs the summary service. A nil cache disables caching.
func NewModerationSummaryService(reports repository.ReportRepository, counts repository.MarketplaceAnalyticsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ModerationSummaryService {
	return &moderationSummaryService{
		reports:  reports,
		counts:   counts,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "moderation_summary_service").Logger(),
		now:      time.Now,
	}
}

func (s *moderationSummaryService) GetSummary(ctx context.Context) (dto.ModerationSummaryResponse, error) {
	tracer := otel.Tracer("github.com/arsverma5/huskyhub-api/internal/service/moderation_summary")
	ctx, span := tracer.Start(ctx, "moderation.summary")
	span.SetAttributes(attribute.String("moderation.cache_key", moderationSummaryCacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, moderationSummaryCacheKey).Result()
		if err == nil {
			var response dto.ModerationSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("moderation.cache_hit", true))
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read moderation summary cache")
			span.RecordError(err)
		}
	}

	now := s.now().UTC()
	reports, err := s.reports.ListOpen(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_open_reports_failed")
		return dto.ModerationSummaryResponse{}, err
	}

	counts, err := s.counts.Counts(ctx, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marketplace_counts_failed")
		return dto.ModerationSummaryResponse{}, err
	}

	classified := make([]moderation.ClassifiedReport, 0, len(reports))
	for _, report := range reports {
		state := moderation.StateFromReport(report)
		classified = append(classified, moderation.ClassifiedReport{
			State:          state,
			Classification: moderation.ClassifyReport(state, now),
		})
	}

	summary := dto.ModerationSummaryResponse{
		Reports:                 moderation.SummarizePriorities(classified),
		ActiveSuspensions:       counts.ActiveSuspensions,
		SuspendedStudents:       counts.SuspendedStudents,
		ActiveStudents:          counts.ActiveStudents,
		ActiveListings:          counts.ActiveListings,
		OutstandingTransactions: counts.OutstandingTransactions,
		GeneratedAt:             now,
	}
	span.SetAttributes(
		attribute.Int("moderation.open_reports", summary.Reports.Total),
		attribute.Int64("moderation.active_suspensions", summary.ActiveSuspensions),
	)

	if s.cache != nil {
		payload, err := json.Marshal(summary)
		if err == nil {
			if err := s.cache.Set(ctx, moderationSummaryCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store moderation summary cache")
				span.RecordError(err)
			}
		}
	}

	return summary, nil
}
