package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/events"
	"github.com/arsverma5/huskyhub-api/internal/models"
)

var adminActor = ActivityActor{ID: 1, Role: "admin"}

func seedProviderWithBookings(t *testing.T, env *testEnv) {
	t.Helper()
	env.seedStudent(t, 42, "Jordan", models.AccountStatusActive)
	env.seedStudent(t, 7, "Casey", models.AccountStatusActive)
	category := env.seedCategory(t, "Tutoring")
	env.seedListing(t, 100, 42, category.ID, models.ListingStatusActive)
	env.seedListing(t, 101, 42, category.ID, models.ListingStatusInactive)
	env.seedTransaction(t, 500, 7, 100, models.TransactionStatusRequested)
	env.seedTransaction(t, 501, 7, 100, models.TransactionStatusConfirmed)
	env.seedTransaction(t, 502, 7, 100, models.TransactionStatusCompleted)
}

func TestSuspensionServiceCreatePermanentCascades(t *testing.T) {
	env := newTestEnv(t)
	seedProviderWithBookings(t, env)
	report := env.seedReport(t, 7, 42, uintPtr(100), fixedNow.Add(-48*time.Hour))
	svc := env.suspensions(fixedNow)

	response, err := svc.Create(context.Background(), dto.CreateSuspensionRequest{
		StudentID: 42,
		Type:      "permanent",
		ReportID:  uintPtr(report.ID),
	}, adminActor)
	require.NoError(t, err)
	require.Equal(t, uint(42), response.StudentID)
	require.Equal(t, int64(1), response.ListingsRemoved)
	require.Equal(t, int64(2), response.TransactionsCancelled)

	require.Equal(t, models.AccountStatusSuspended, env.studentStatus(t, 42))
	require.Equal(t, models.ListingStatusRemoved, env.listingStatus(t, 100))
	require.Equal(t, models.ListingStatusInactive, env.listingStatus(t, 101))
	require.Equal(t, models.TransactionStatusCancelled, env.transactionStatus(t, 500))
	require.Equal(t, models.TransactionStatusCancelled, env.transactionStatus(t, 501))
	require.Equal(t, models.TransactionStatusCompleted, env.transactionStatus(t, 502))

	stored, err := svc.Get(context.Background(), response.ID)
	require.NoError(t, err)
	require.Equal(t, "PERMANENT", stored.Status)
	require.Nil(t, stored.EndDate)
	require.Nil(t, stored.DaysRemaining)
	require.Equal(t, "No show", stored.ReportReason)
	require.Equal(t, "suspended", stored.AccountStatus)

	require.Equal(t, []string{"suspension.created"}, env.activity.actions())
	require.Equal(t, []events.Type{events.SuspensionCreated}, env.publisher.types())
	require.Equal(t, uint(42), env.publisher.events[0].StudentID)
}

func TestSuspensionServiceCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudent(t, 42, "Jordan", models.AccountStatusActive)
	env.seedStudent(t, 43, "Riley", models.AccountStatusDeleted)
	svc := env.suspensions(fixedNow)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateSuspensionRequest{StudentID: 42, Type: "temporary"}, adminActor)
	requireInvalidArgument(t, err)

	_, err = svc.Create(ctx, dto.CreateSuspensionRequest{StudentID: 42, Type: "temporary", EndDate: strPtr("2025-03-01")}, adminActor)
	requireInvalidArgument(t, err)

	_, err = svc.Create(ctx, dto.CreateSuspensionRequest{StudentID: 42, Type: "temporary", EndDate: strPtr("next week")}, adminActor)
	requireInvalidArgument(t, err)

	_, err = svc.Create(ctx, dto.CreateSuspensionRequest{StudentID: 42, Type: "forever"}, adminActor)
	require.Error(t, err)

	_, err = svc.Create(ctx, dto.CreateSuspensionRequest{StudentID: 99, Type: "permanent"}, adminActor)
	require.ErrorIs(t, err, ErrStudentNotFound)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, dto.CreateSuspensionRequest{StudentID: 42, Type: "permanent", ReportID: uintPtr(77)}, adminActor)
	require.ErrorIs(t, err, ErrReportNotFound)

	_, err = svc.Create(ctx, dto.CreateSuspensionRequest{StudentID: 43, Type: "permanent"}, adminActor)
	require.ErrorIs(t, err, models.ErrInvalidTransition)
	require.True(t, IsConflict(err))

	require.Equal(t, models.AccountStatusActive, env.studentStatus(t, 42))
	require.Empty(t, env.activity.actions())
	require.Empty(t, env.publisher.types())
}

func TestSuspensionServiceLiftKeepsStudentSuspendedWhileAnotherIsActive(t *testing.T) {
	env := newTestEnv(t)
	seedProviderWithBookings(t, env)
	svc := env.suspensions(fixedNow)
	ctx := context.Background()

	permanent, err := svc.Create(ctx, dto.CreateSuspensionRequest{StudentID: 42, Type: "permanent"}, adminActor)
	require.NoError(t, err)
	temporary, err := svc.Create(ctx, dto.CreateSuspensionRequest{
		StudentID: 42,
		Type:      "temporary",
		EndDate:   strPtr(fixedNow.Add(72 * time.Hour).Format(time.RFC3339)),
	}, adminActor)
	require.NoError(t, err)
	require.Zero(t, temporary.ListingsRemoved)
	require.Zero(t, temporary.TransactionsCancelled)

	lifted, err := svc.Lift(ctx, temporary.ID, adminActor)
	require.NoError(t, err)
	require.False(t, lifted.Reactivated)
	require.Equal(t, int64(1), lifted.RemainingActive)
	require.True(t, lifted.EndDate.Equal(fixedNow))
	require.Equal(t, models.AccountStatusSuspended, env.studentStatus(t, 42))

	lifted, err = svc.Lift(ctx, permanent.ID, adminActor)
	require.NoError(t, err)
	require.True(t, lifted.Reactivated)
	require.Zero(t, lifted.RemainingActive)
	require.Equal(t, models.AccountStatusActive, env.studentStatus(t, 42))

	// Reactivation does not restore cascaded listings.
	require.Equal(t, models.ListingStatusRemoved, env.listingStatus(t, 100))
}

func TestSuspensionServiceLiftIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudent(t, 42, "Jordan", models.AccountStatusActive)
	ctx := context.Background()

	created, err := env.suspensions(fixedNow).Create(ctx, dto.CreateSuspensionRequest{StudentID: 42, Type: "permanent"}, adminActor)
	require.NoError(t, err)

	first, err := env.suspensions(fixedNow).Lift(ctx, created.ID, adminActor)
	require.NoError(t, err)
	require.True(t, first.Reactivated)

	later := fixedNow.Add(time.Hour)
	second, err := env.suspensions(later).Lift(ctx, created.ID, adminActor)
	require.NoError(t, err)
	require.False(t, second.Reactivated)
	require.True(t, second.EndDate.Equal(fixedNow), "second lift must keep the original end date")
	require.Equal(t, models.AccountStatusActive, env.studentStatus(t, 42))

	stored, err := env.suspensions(later).Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "EXPIRED", stored.Status)
}

func TestSuspensionServiceTemporaryExpiresAndReleasesOnLift(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudent(t, 42, "Jordan", models.AccountStatusActive)
	ctx := context.Background()
	end := fixedNow.Add(48 * time.Hour)

	created, err := env.suspensions(fixedNow).Create(ctx, dto.CreateSuspensionRequest{
		StudentID: 42,
		Type:      "temporary",
		EndDate:   strPtr(end.Format(time.RFC3339)),
	}, adminActor)
	require.NoError(t, err)

	active, err := env.suspensions(fixedNow).Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "ACTIVE", active.Status)
	require.NotNil(t, active.DaysRemaining)
	require.Equal(t, 2, *active.DaysRemaining)

	atEnd, err := env.suspensions(end).Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "EXPIRED", atEnd.Status)

	expiredList, err := env.suspensions(end.Add(time.Hour)).List(ctx, dto.SuspensionListRequest{Status: "expired"})
	require.NoError(t, err)
	require.Len(t, expiredList.Items, 1)

	// Expiry alone never touches the account.
	require.Equal(t, models.AccountStatusSuspended, env.studentStatus(t, 42))

	lifted, err := env.suspensions(end.Add(24*time.Hour)).Lift(ctx, created.ID, adminActor)
	require.NoError(t, err)
	require.True(t, lifted.Reactivated)
	require.True(t, lifted.EndDate.Equal(end))
	require.Equal(t, models.AccountStatusActive, env.studentStatus(t, 42))
}

func TestSuspensionServiceUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudent(t, 42, "Jordan", models.AccountStatusActive)
	svc := env.suspensions(fixedNow)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateSuspensionRequest{
		StudentID: 42,
		Type:      "temporary",
		EndDate:   strPtr("2025-03-20"),
	}, adminActor)
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, dto.UpdateSuspensionRequest{}, adminActor)
	requireInvalidArgument(t, err)

	_, err = svc.Update(ctx, created.ID, dto.UpdateSuspensionRequest{EndDate: strPtr("2025-03-01")}, adminActor)
	requireInvalidArgument(t, err)

	extended, err := svc.Update(ctx, created.ID, dto.UpdateSuspensionRequest{EndDate: strPtr("2025-04-01T00:00:00Z")}, adminActor)
	require.NoError(t, err)
	require.Equal(t, "temporary", extended.Type)
	require.NotNil(t, extended.EndDate)
	require.True(t, extended.EndDate.Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))

	permanent, err := svc.Update(ctx, created.ID, dto.UpdateSuspensionRequest{Type: strPtr("permanent")}, adminActor)
	require.NoError(t, err)
	require.Equal(t, "permanent", permanent.Type)
	require.Nil(t, permanent.EndDate)
	require.Equal(t, "PERMANENT", permanent.Status)

	again, err := svc.Update(ctx, created.ID, dto.UpdateSuspensionRequest{Type: strPtr("permanent")}, adminActor)
	require.NoError(t, err)
	require.Nil(t, again.EndDate)
	require.Equal(t, permanent.Status, again.Status)

	_, err = svc.Update(ctx, created.ID, dto.UpdateSuspensionRequest{EndDate: strPtr("2025-05-01")}, adminActor)
	requireInvalidArgument(t, err)

	_, err = svc.Update(ctx, created.ID, dto.UpdateSuspensionRequest{Type: strPtr("temporary")}, adminActor)
	requireInvalidArgument(t, err)

	_, err = svc.Update(ctx, 999, dto.UpdateSuspensionRequest{Type: strPtr("permanent")}, adminActor)
	require.ErrorIs(t, err, ErrSuspensionNotFound)

	require.Equal(t, events.SuspensionUpdated, env.publisher.events[len(env.publisher.events)-1].Type)
}

func TestSuspensionServiceUpdateReinstatesEndedSuspension(t *testing.T) {
	env := newTestEnv(t)
	seedProviderWithBookings(t, env)
	ctx := context.Background()

	created, err := env.suspensions(fixedNow).Create(ctx, dto.CreateSuspensionRequest{StudentID: 42, Type: "permanent"}, adminActor)
	require.NoError(t, err)
	_, err = env.suspensions(fixedNow).Lift(ctx, created.ID, adminActor)
	require.NoError(t, err)
	require.Equal(t, models.AccountStatusActive, env.studentStatus(t, 42))

	require.NoError(t, env.db.Model(&models.Listing{}).Where("id = ?", 101).Update("listing_status", models.ListingStatusActive).Error)

	later := fixedNow.Add(time.Hour)
	updated, err := env.suspensions(later).Update(ctx, created.ID, dto.UpdateSuspensionRequest{Type: strPtr("permanent")}, adminActor)
	require.NoError(t, err)
	require.Equal(t, "PERMANENT", updated.Status)
	require.Equal(t, models.AccountStatusSuspended, env.studentStatus(t, 42))
	require.Equal(t, models.ListingStatusRemoved, env.listingStatus(t, 101))
}

func TestSuspensionServicePublishFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudent(t, 42, "Jordan", models.AccountStatusActive)
	env.publisher.err = errors.New("broker unavailable")

	response, err := env.suspensions(fixedNow).Create(context.Background(), dto.CreateSuspensionRequest{StudentID: 42, Type: "permanent"}, adminActor)
	require.NoError(t, err)
	require.NotZero(t, response.ID)
	require.Equal(t, models.AccountStatusSuspended, env.studentStatus(t, 42))
}

func TestSuspensionServiceListFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudent(t, 42, "Jordan", models.AccountStatusActive)
	env.seedStudent(t, 43, "Riley", models.AccountStatusActive)
	svc := env.suspensions(fixedNow)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateSuspensionRequest{StudentID: 42, Type: "permanent"}, adminActor)
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateSuspensionRequest{StudentID: 43, Type: "temporary", EndDate: strPtr("2025-03-15")}, adminActor)
	require.NoError(t, err)

	all, err := svc.List(ctx, dto.SuspensionListRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	require.Equal(t, int64(2), all.Pagination.TotalItems)

	permanent, err := svc.List(ctx, dto.SuspensionListRequest{Status: "PERMANENT"})
	require.NoError(t, err)
	require.Len(t, permanent.Items, 1)
	require.Equal(t, uint(42), permanent.Items[0].StudentID)

	byStudent, err := svc.List(ctx, dto.SuspensionListRequest{StudentID: 43})
	require.NoError(t, err)
	require.Len(t, byStudent.Items, 1)
	require.Equal(t, "ACTIVE", byStudent.Items[0].Status)

	_, err = svc.List(ctx, dto.SuspensionListRequest{Status: "pending"})
	requireInvalidArgument(t, err)
}

func TestSuspensionServiceCreateRollsBackWhenCascadeFails(t *testing.T) {
	env := newTestEnv(t)
	env.seedStudent(t, 42, "Jordan", models.AccountStatusActive)
	env.seedStudent(t, 7, "Casey", models.AccountStatusActive)
	category := env.seedCategory(t, "Tutoring")
	env.seedListing(t, 100, 42, category.ID, models.ListingStatusActive)
	env.seedTransaction(t, 500, 7, 100, models.TransactionStatusConfirmed)
	svc := env.suspensions(fixedNow)

	// The booking step runs last, after the suspension row, the account and the listings were written.
	require.NoError(t, env.db.Exec("DROP TABLE transactions").Error)

	_, err := svc.Create(context.Background(), dto.CreateSuspensionRequest{StudentID: 42, Type: "permanent"}, adminActor)
	require.Error(t, err)

	var suspensions int64
	require.NoError(t, env.db.Model(&models.Suspension{}).Count(&suspensions).Error)
	require.Zero(t, suspensions)
	require.Equal(t, models.AccountStatusActive, env.studentStatus(t, 42))
	require.Equal(t, models.ListingStatusActive, env.listingStatus(t, 100))
	require.Empty(t, env.activity.actions())
	require.Empty(t, env.publisher.types())
}

func TestSuspensionServiceCreateRejectsReportAboutAnotherStudent(t *testing.T) {
	env := newTestEnv(t)
	seedProviderWithBookings(t, env)
	unrelated := env.seedReport(t, 42, 7, nil, fixedNow.Add(-time.Hour))
	svc := env.suspensions(fixedNow)

	_, err := svc.Create(context.Background(), dto.CreateSuspensionRequest{
		StudentID: 42,
		Type:      "permanent",
		ReportID:  uintPtr(unrelated.ID),
	}, adminActor)
	requireInvalidArgument(t, err)
	require.Contains(t, err.Error(), "does not concern student 42")

	require.Equal(t, models.AccountStatusActive, env.studentStatus(t, 42))
	require.Equal(t, models.ListingStatusActive, env.listingStatus(t, 100))
	require.Equal(t, models.TransactionStatusRequested, env.transactionStatus(t, 500))
	require.Empty(t, env.activity.actions())
}
