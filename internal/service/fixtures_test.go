package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arsverma5/huskyhub-api/internal/database"
	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/events"
	"github.com/arsverma5/huskyhub-api/internal/models"
	"github.com/arsverma5/huskyhub-api/internal/repository"
)

var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type stubActivityRecorder struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (s *stubActivityRecorder) Record(_ context.Context, entry ActivityEntry) (dto.AdminActivityResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return dto.AdminActivityResponse{Action: entry.Action, EntityType: entry.EntityType, EntityID: entry.EntityID}, nil
}

func (s *stubActivityRecorder) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.ModerationEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, event events.ModerationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *capturePublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.Type, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type testEnv struct {
	db        *gorm.DB
	repos     repository.Repositories
	uow       repository.UnitOfWork
	validate  *validator.Validate
	activity  *stubActivityRecorder
	publisher *capturePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &testEnv{
		db:        db,
		repos:     repository.NewRepositories(db),
		uow:       repository.NewUnitOfWork(db),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		activity:  &stubActivityRecorder{},
		publisher: &capturePublisher{},
	}
}

func (e *testEnv) suspensions(now time.Time) *suspensionService {
	svc := NewSuspensionService(e.repos.Suspensions, e.uow, e.validate, e.activity, e.publisher, testLogger()).(*suspensionService)
	svc.now = func() time.Time { return now }
	return svc
}

func (e *testEnv) reports(now time.Time) *reportService {
	svc := NewReportService(e.repos.Reports, e.uow, e.validate, e.activity, e.publisher, testLogger()).(*reportService)
	svc.now = func() time.Time { return now }
	return svc
}

func (e *testEnv) seedStudent(t *testing.T, id uint, first string, status models.AccountStatus) models.Student {
	t.Helper()
	student := models.Student{
		ID:            id,
		FirstName:     first,
		LastName:      "Husky",
		Email:         fmt.Sprintf("%s.%d@husky.edu", strings.ToLower(first), id),
		Campus:        "Boston",
		AccountStatus: status,
		JoinDate:      fixedNow.Add(-90 * 24 * time.Hour),
	}
	require.NoError(t, e.db.Create(&student).Error)
	return student
}

func (e *testEnv) seedCategory(t *testing.T, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, e.db.Create(&category).Error)
	return category
}

func (e *testEnv) seedListing(t *testing.T, id, providerID, categoryID uint, status models.ListingStatus) models.Listing {
	t.Helper()
	listing := models.Listing{
		ID:            id,
		ProviderID:    providerID,
		CategoryID:    categoryID,
		Title:         fmt.Sprintf("Listing %d", id),
		Description:   "Tutoring session",
		Price:         30,
		Unit:          "hour",
		ListingStatus: status,
	}
	require.NoError(t, e.db.Omit("Provider", "Category").Create(&listing).Error)
	return listing
}

func (e *testEnv) seedTransaction(t *testing.T, id, buyerID, listingID uint, status models.TransactionStatus) models.Transaction {
	t.Helper()
	transaction := models.Transaction{
		ID:             id,
		BuyerID:        buyerID,
		ListingID:      listingID,
		BookDate:       fixedNow.Add(24 * time.Hour),
		PaymentAmount:  30,
		TransactStatus: status,
	}
	require.NoError(t, e.db.Omit("Buyer", "Listing").Create(&transaction).Error)
	return transaction
}

func (e *testEnv) seedReport(t *testing.T, reporterID, reportedID uint, listingID *uint, reportedAt time.Time) models.Report {
	t.Helper()
	report := models.Report{
		ReporterID:        reporterID,
		ReportedStudentID: reportedID,
		ReportedListingID: listingID,
		Reason:            "No show",
		ReportDetails:     "Provider did not attend the session",
		ReportDate:        reportedAt,
	}
	require.NoError(t, e.db.Omit("Reporter", "ReportedStudent", "ReportedListing").Create(&report).Error)
	return report
}

func (e *testEnv) studentStatus(t *testing.T, id uint) models.AccountStatus {
	t.Helper()
	var student models.Student
	require.NoError(t, e.db.First(&student, id).Error)
	return student.AccountStatus
}

func (e *testEnv) listingStatus(t *testing.T, id uint) models.ListingStatus {
	t.Helper()
	var listing models.Listing
	require.NoError(t, e.db.First(&listing, id).Error)
	return listing.ListingStatus
}

func (e *testEnv) transactionStatus(t *testing.T, id uint) models.TransactionStatus {
	t.Helper()
	var transaction models.Transaction
	require.NoError(t, e.db.First(&transaction, id).Error)
	return transaction.TransactStatus
}

func strPtr(v string) *string {
	return &v
}

func uintPtr(v uint) *uint {
	return &v
}

func requireInvalidArgument(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidArgument), "expected invalid argument, got %v", err)
}
