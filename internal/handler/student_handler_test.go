package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/handler"
	"github.com/arsverma5/huskyhub-api/internal/service"
)

type mockStudentService struct {
	lastLeaderboard dto.ProviderLeaderboardRequest
	fetched         uint
	ratingsErr      error
	err             error
}

func (m *mockStudentService) List(_ context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error) {
	return dto.StudentListResponse{Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, 0)}, m.err
}

func (m *mockStudentService) Get(_ context.Context, id uint) (dto.StudentDetailResponse, error) {
	m.fetched = id
	return dto.StudentDetailResponse{StudentResponse: dto.StudentResponse{ID: id}}, m.err
}

func (m *mockStudentService) Update(_ context.Context, id uint, _ dto.StudentUpdateRequest, _ service.ActivityActor) (dto.StudentResponse, error) {
	return dto.StudentResponse{ID: id}, m.err
}

func (m *mockStudentService) Metrics(_ context.Context, id uint) (dto.ProviderMetricsResponse, error) {
	return dto.ProviderMetricsResponse{StudentID: id}, m.err
}

func (m *mockStudentService) ProviderLeaderboard(_ context.Context, req dto.ProviderLeaderboardRequest) ([]dto.ProviderStandingResponse, error) {
	m.lastLeaderboard = req
	if m.err != nil {
		return nil, m.err
	}
	return []dto.ProviderStandingResponse{{StudentID: 42, FirstName: "Jordan", CompletedTransactions: 3}}, nil
}

func (m *mockStudentService) ConsumerMetrics(_ context.Context) ([]dto.ConsumerStandingResponse, error) {
	return []dto.ConsumerStandingResponse{{StudentID: 7, TransactionCount: 2}}, m.err
}

func (m *mockStudentService) NewUserMetrics(_ context.Context) ([]dto.NewUserMetricsResponse, error) {
	return []dto.NewUserMetricsResponse{{StudentID: 88}}, m.err
}

func (m *mockStudentService) Ratings(_ context.Context, id uint) (dto.StudentRatingsResponse, error) {
	if m.ratingsErr != nil {
		return dto.StudentRatingsResponse{}, m.ratingsErr
	}
	return dto.StudentRatingsResponse{ProviderID: id, AvgRating: 4.5, TotalReviews: 2}, nil
}

func studentApp(svc service.StudentService) *fiber.App {
	app := fiber.New()
	handler.NewStudentHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/students"), nil)
	return app
}

func TestStudentHandler_MetricsRoutesAreNotStudentIDs(t *testing.T) {
	svc := &mockStudentService{}
	app := studentApp(svc)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/students/provider/metrics?sortBy=rating&limit=5", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "rating", svc.lastLeaderboard.SortBy)
	require.Equal(t, 5, svc.lastLeaderboard.Limit)

	var providers envelope[[]dto.ProviderStandingResponse]
	decodeResponse(t, resp, &providers)
	require.Len(t, providers.Data, 1)
	require.Equal(t, uint(42), providers.Data[0].StudentID)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/students/consumer/metrics", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var consumers envelope[[]dto.ConsumerStandingResponse]
	decodeResponse(t, resp, &consumers)
	require.Equal(t, int64(2), consumers.Data[0].TransactionCount)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/students/new-user-metrics", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var newcomers envelope[[]dto.NewUserMetricsResponse]
	decodeResponse(t, resp, &newcomers)
	require.Equal(t, uint(88), newcomers.Data[0].StudentID)

	require.Zero(t, svc.fetched)
}

func TestStudentHandler_ProviderLeaderboardValidatesQuery(t *testing.T) {
	app := studentApp(&mockStudentService{})
	resp := doRequest(t, app, http.MethodGet, "/api/v1/students/provider/metrics?limit=ten", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	app = studentApp(&mockStudentService{err: service.ErrInvalidArgument})
	resp = doRequest(t, app, http.MethodGet, "/api/v1/students/provider/metrics?sortBy=price", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStudentHandler_Ratings(t *testing.T) {
	resp := doRequest(t, studentApp(&mockStudentService{}), http.MethodGet, "/api/v1/students/42/ratings", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ratings envelope[dto.StudentRatingsResponse]
	decodeResponse(t, resp, &ratings)
	require.Equal(t, uint(42), ratings.Data.ProviderID)
	require.InDelta(t, 4.5, ratings.Data.AvgRating, 0.001)

	resp = doRequest(t, studentApp(&mockStudentService{ratingsErr: service.ErrNoRatings}), http.MethodGet, "/api/v1/students/42/ratings", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var missing envelope[struct{}]
	decodeResponse(t, resp, &missing)
	require.Equal(t, "No ratings found", missing.Message)

	resp = doRequest(t, studentApp(&mockStudentService{ratingsErr: service.ErrStudentNotFound}), http.MethodGet, "/api/v1/students/404/ratings", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
