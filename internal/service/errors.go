package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

var (
	// ErrInvalidArgument marks caller mistakes that carry a field-specific message.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is wrapped by every entity-specific not found error.
	ErrNotFound = errors.New("not found")

	ErrStudentNotFound      = fmt.Errorf("student %w", ErrNotFound)
	ErrReportNotFound       = fmt.Errorf("report %w", ErrNotFound)
	ErrSuspensionNotFound   = fmt.Errorf("suspension %w", ErrNotFound)
	ErrListingNotFound      = fmt.Errorf("listing %w", ErrNotFound)
	ErrCategoryNotFound     = fmt.Errorf("category %w", ErrNotFound)
	ErrAvailabilityNotFound = fmt.Errorf("availability slot %w", ErrNotFound)
	ErrTransactionNotFound  = fmt.Errorf("transaction %w", ErrNotFound)
	// ErrNoRatings reports a provider whose listings have never been reviewed.
	ErrNoRatings error = notFoundMessage("No ratings found")

	// ErrProviderSuspended blocks listing activity for a provider under suspension.
	ErrProviderSuspended = errors.New("provider account is suspended")
	// ErrAccountInactive rejects marketplace actions by suspended or deleted accounts.
	ErrAccountInactive = errors.New("account is not active")
	// ErrListingUnavailable rejects bookings and schedule changes on listings that are not active.
	ErrListingUnavailable = errors.New("listing is not available")
)

// notFoundMessage is a not found error whose text is shown to callers as is.
type notFoundMessage string

func (m notFoundMessage) Error() string { return string(m) }

func (m notFoundMessage) Is(target error) bool { return target == ErrNotFound }

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// notFound translates gorm's missing-row error into the entity sentinel.
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// IsConflict reports whether err is a state conflict the caller can resolve by re-reading.
func IsConflict(err error) bool {
	return errors.Is(err, models.ErrInvalidTransition) ||
		errors.Is(err, ErrProviderSuspended) ||
		errors.Is(err, ErrAccountInactive) ||
		errors.Is(err, ErrListingUnavailable)
}

var dateInputLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseDateInput accepts RFC 3339 timestamps or plain dates and normalises to UTC.
func parseDateInput(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range dateInputLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}
