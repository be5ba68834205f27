// Package moderation holds the pure rules behind the admin report queue and suspension display.
// Nothing here touches storage; results are recomputed on every read.
package moderation

import (
	"sort"
	"time"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// StaleReportAge is how long an open report may wait before it is escalated.
const StaleReportAge = 7 * 24 * time.Hour

// Priority is the urgency label shown on a report.
type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
)

// Classification pairs a label with its sort rank (lower is more urgent).
type Classification struct {
	Label Priority `json:"label"`
	Rank  int      `json:"rank"`
}

// ReportState is the snapshot of a report and its targets needed for classification.
type ReportState struct {
	ReportID       uint
	ReportDate     time.Time
	ResolutionDate *time.Time
	StudentStatus  models.AccountStatus
	HasListing     bool
	ListingStatus  models.ListingStatus
}

// ClassifyReport applies the escalation rules in order; the first match wins.
func ClassifyReport(state ReportState, now time.Time) Classification {
	switch {
	case state.StudentStatus == models.AccountStatusSuspended:
		return Classification{Label: PriorityUrgent, Rank: 1}
	case state.HasListing && state.ListingStatus == models.ListingStatusActive:
		return Classification{Label: PriorityHigh, Rank: 2}
	case state.ResolutionDate == nil && now.Sub(state.ReportDate) > StaleReportAge:
		return Classification{Label: PriorityHigh, Rank: 2}
	default:
		return Classification{Label: PriorityMedium, Rank: 3}
	}
}

// StateFromReport builds a ReportState from a report with its reported student and listing preloaded.
func StateFromReport(report models.Report) ReportState {
	state := ReportState{
		ReportID:       report.ID,
		ReportDate:     report.ReportDate,
		ResolutionDate: report.ResolutionDate,
		StudentStatus:  report.ReportedStudent.AccountStatus,
	}
	if report.ReportedListing != nil && report.ReportedListing.ID != 0 {
		state.HasListing = true
		state.ListingStatus = report.ReportedListing.ListingStatus
	}
	return state
}

// ClassifiedReport couples a report state with its computed classification.
type ClassifiedReport struct {
	State          ReportState
	Classification Classification
}

// SortReports orders the queue by rank, then newest report first, then id for a stable result.
func SortReports(items []ClassifiedReport) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Classification.Rank != b.Classification.Rank {
			return a.Classification.Rank < b.Classification.Rank
		}
		if !a.State.ReportDate.Equal(b.State.ReportDate) {
			return a.State.ReportDate.After(b.State.ReportDate)
		}
		return a.State.ReportID > b.State.ReportID
	})
}

// PrioritySummary counts reports per label for dashboard badges.
type PrioritySummary struct {
	Urgent int `json:"urgent"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Total  int `json:"total"`
}

// SummarizePriorities tallies classified reports.
func SummarizePriorities(items []ClassifiedReport) PrioritySummary {
	summary := PrioritySummary{Total: len(items)}
	for _, item := range items {
		switch item.Classification.Label {
		case PriorityUrgent:
			summary.Urgent++
		case PriorityHigh:
			summary.High++
		default:
			summary.Medium++
		}
	}
	return summary
}
