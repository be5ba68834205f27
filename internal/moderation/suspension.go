package moderation

import (
	"math"
	"time"
)

// SuspensionStatus is the display state derived from a suspension's end date.
type SuspensionStatus string

const (
	SuspensionStatusPermanent SuspensionStatus = "PERMANENT"
	SuspensionStatusExpired   SuspensionStatus = "EXPIRED"
	SuspensionStatusActive    SuspensionStatus = "ACTIVE"
)

// DeriveSuspensionStatus maps the stored end date onto a display status.
// An end date equal to now is already expired, matching Suspension.ActiveAt.
func DeriveSuspensionStatus(endDate *time.Time, now time.Time) SuspensionStatus {
	switch {
	case endDate == nil:
		return SuspensionStatusPermanent
	case !endDate.After(now):
		return SuspensionStatusExpired
	default:
		return SuspensionStatusActive
	}
}

// DaysRemaining returns whole days left, rounded up. Nil means open-ended.
func DaysRemaining(endDate *time.Time, now time.Time) *int {
	if endDate == nil {
		return nil
	}
	remaining := endDate.Sub(now)
	days := 0
	if remaining > 0 {
		days = int(math.Ceil(remaining.Hours() / 24))
	}
	return &days
}
