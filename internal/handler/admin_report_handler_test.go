package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/handler"
	"github.com/arsverma5/huskyhub-api/internal/moderation"
	"github.com/arsverma5/huskyhub-api/internal/service"
)

type mockReportService struct {
	queue       dto.ReportQueueResponse
	lastResolve dto.ResolveReportRequest
	resolveCnt  int
	err         error
}

func (m *mockReportService) ListOpen(context.Context) (dto.ReportQueueResponse, error) {
	if m.err != nil {
		return dto.ReportQueueResponse{}, m.err
	}
	return m.queue, nil
}

func (m *mockReportService) Get(_ context.Context, id uint) (dto.ReportResponse, error) {
	if m.err != nil {
		return dto.ReportResponse{}, m.err
	}
	return sampleReport(id), nil
}

func (m *mockReportService) Resolve(_ context.Context, id uint, payload dto.ResolveReportRequest, _ service.ActivityActor) (dto.ReportResponse, error) {
	m.lastResolve = payload
	m.resolveCnt++
	if m.err != nil {
		return dto.ReportResponse{}, m.err
	}
	report := sampleReport(id)
	resolved := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	report.ResolutionDate = &resolved
	return report, nil
}

func sampleReport(id uint) dto.ReportResponse {
	return dto.ReportResponse{
		ID:              id,
		Reason:          "No show",
		ReportDetails:   "Provider did not attend",
		ReportDate:      time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
		Reporter:        dto.ReportParty{ID: 7, Name: "Riley Husky", Email: "riley@husky.edu", AccountStatus: "active"},
		ReportedStudent: dto.ReportParty{ID: 42, Name: "Sam Husky", Email: "sam@husky.edu", AccountStatus: "active"},
		ReportedListing: &dto.ReportListing{ID: 100, Title: "Calculus tutoring", Price: 30, ListingStatus: "active", CategoryName: "Tutoring"},
		Priority:        string(moderation.PriorityUrgent),
		PriorityRank:    1,
	}
}

func newReportApp(svc service.ReportService) *fiber.App {
	app := fiber.New()
	handler.NewAdminReportHandler(svc, zerolog.Nop()).Register(app.Group("/api/admin/reports", withAdmin))
	return app
}

func TestAdminReportHandler_ListIncludesPrioritySummary(t *testing.T) {
	svc := &mockReportService{queue: dto.ReportQueueResponse{
		Items:   []dto.ReportResponse{sampleReport(1)},
		Summary: moderation.PrioritySummary{Urgent: 1, Total: 1},
	}}
	app := newReportApp(svc)

	resp := doRequest(t, app, http.MethodGet, "/api/admin/reports", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope[[]dto.ReportResponse]
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Len(t, body.Data, 1)
	require.Equal(t, "URGENT", body.Data[0].Priority)

	var summary moderation.PrioritySummary
	require.NoError(t, json.Unmarshal(body.Meta, &summary))
	require.Equal(t, 1, summary.Urgent)
	require.Equal(t, 1, summary.Total)
}

func TestAdminReportHandler_ResolveWithoutBody(t *testing.T) {
	svc := &mockReportService{}
	app := newReportApp(svc)

	resp := doRequest(t, app, http.MethodPut, "/api/admin/reports/5", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Nil(t, svc.lastResolve.ResolutionNotes)

	var body envelope[dto.ReportResponse]
	decodeResponse(t, resp, &body)
	require.Equal(t, "report resolved", body.Message)
	require.NotNil(t, body.Data.ResolutionDate)
}

func TestAdminReportHandler_ResolvePassesNotes(t *testing.T) {
	svc := &mockReportService{}
	app := newReportApp(svc)

	resp := doRequest(t, app, http.MethodPut, "/api/admin/reports/5", map[string]string{"resolution_notes": "Warned provider"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.lastResolve.ResolutionNotes)
	require.Equal(t, "Warned provider", *svc.lastResolve.ResolutionNotes)
}

func TestAdminReportHandler_NotFound(t *testing.T) {
	app := newReportApp(&mockReportService{err: service.ErrReportNotFound})

	resp := doRequest(t, app, http.MethodGet, "/api/admin/reports/77", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/api/admin/reports/77", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminReportHandler_InternalErrorHidesCause(t *testing.T) {
	app := newReportApp(&mockReportService{err: errors.New("pq: relation \"reports\" does not exist")})

	resp := doRequest(t, app, http.MethodGet, "/api/admin/reports", nil)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body envelope[interface{}]
	decodeResponse(t, resp, &body)
	require.Equal(t, "failed to list reports", body.Message)
}
