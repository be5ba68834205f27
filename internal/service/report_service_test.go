package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/events"
	"github.com/arsverma5/huskyhub-api/internal/models"
)

func TestReportServiceListOpenOrdersByPriority(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudent(t, 1, "Reporter", models.AccountStatusActive)
	env.seedStudent(t, 42, "Suspended", models.AccountStatusSuspended)
	env.seedStudent(t, 43, "Provider", models.AccountStatusActive)
	env.seedStudent(t, 44, "Quiet", models.AccountStatusActive)
	category := env.seedCategory(t, "Tutoring")
	env.seedListing(t, 100, 43, category.ID, models.ListingStatusActive)

	medium := env.seedReport(t, 1, 44, nil, fixedNow.Add(-24*time.Hour))
	stale := env.seedReport(t, 1, 44, nil, fixedNow.Add(-10*24*time.Hour))
	high := env.seedReport(t, 1, 43, uintPtr(100), fixedNow.Add(-2*time.Hour))
	urgent := env.seedReport(t, 1, 42, nil, fixedNow.Add(-30*24*time.Hour))

	resolved := env.seedReport(t, 1, 42, nil, fixedNow.Add(-time.Hour))
	resolvedAt := fixedNow
	require.NoError(t, env.db.Model(&models.Report{}).Where("id = ?", resolved.ID).Update("resolution_date", resolvedAt).Error)

	queue, err := env.reports(fixedNow).ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, queue.Items, 4)

	ids := make([]uint, 0, len(queue.Items))
	for _, item := range queue.Items {
		ids = append(ids, item.ID)
	}
	require.Equal(t, []uint{urgent.ID, high.ID, stale.ID, medium.ID}, ids)

	require.Equal(t, "URGENT", queue.Items[0].Priority)
	require.Equal(t, 1, queue.Items[0].PriorityRank)
	require.Equal(t, "HIGH", queue.Items[1].Priority)
	require.NotNil(t, queue.Items[1].ReportedListing)
	require.Equal(t, "Tutoring", queue.Items[1].ReportedListing.CategoryName)
	require.Equal(t, "HIGH", queue.Items[2].Priority)
	require.Equal(t, "MEDIUM", queue.Items[3].Priority)

	require.Equal(t, 1, queue.Summary.Urgent)
	require.Equal(t, 2, queue.Summary.High)
	require.Equal(t, 1, queue.Summary.Medium)
	require.Equal(t, 4, queue.Summary.Total)
}

func TestReportServiceResolveDefaultsAndCorrections(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudent(t, 1, "Reporter", models.AccountStatusActive)
	env.seedStudent(t, 42, "Reported", models.AccountStatusActive)
	report := env.seedReport(t, 1, 42, nil, fixedNow.Add(-24*time.Hour))
	ctx := context.Background()

	first, err := env.reports(fixedNow).Resolve(ctx, report.ID, dto.ResolveReportRequest{ResolutionNotes: strPtr("   ")}, adminActor)
	require.NoError(t, err)
	require.Equal(t, DefaultResolutionNotes, first.ReportDetails)
	require.NotNil(t, first.ResolutionDate)
	require.True(t, first.ResolutionDate.Equal(fixedNow))

	queue, err := env.reports(fixedNow).ListOpen(ctx)
	require.NoError(t, err)
	require.Empty(t, queue.Items)

	later := fixedNow.Add(2 * time.Hour)
	corrected, err := env.reports(later).Resolve(ctx, report.ID, dto.ResolveReportRequest{
		ResolutionNotes: strPtr("<b>Warned</b> the provider"),
	}, adminActor)
	require.NoError(t, err)
	require.Equal(t, "Warned the provider", corrected.ReportDetails)
	require.True(t, corrected.ResolutionDate.Equal(later))

	require.Equal(t, []string{"report.resolved", "report.resolved"}, env.activity.actions())
	require.Equal(t, []events.Type{events.ReportResolved, events.ReportResolved}, env.publisher.types())
	require.Equal(t, uint(42), env.publisher.events[0].StudentID)
	require.Equal(t, true, env.publisher.events[1].Payload["correction"])
}

func TestReportServiceResolveMissingReport(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reports(fixedNow).Resolve(context.Background(), 404, dto.ResolveReportRequest{}, adminActor)
	require.ErrorIs(t, err, ErrReportNotFound)
	require.Empty(t, env.activity.actions())

	_, err = env.reports(fixedNow).Get(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
}
