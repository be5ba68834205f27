package dto

import (
	"time"

	"github.com/arsverma5/huskyhub-api/internal/models"
	"github.com/arsverma5/huskyhub-api/internal/moderation"
)

// ReportParty identifies a student on either side of a report.
type ReportParty struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	AccountStatus string `json:"account_status"`
}

// ReportListing summarises the listing a report targets.
type ReportListing struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	ListingStatus string  `json:"listing_status"`
	CategoryName  string  `json:"category_name,omitempty"`
}

// ReportResponse is a report annotated with its current priority.
type ReportResponse struct {
	ID              uint           `json:"id"`
	Reason          string         `json:"reason"`
	ReportDetails   string         `json:"report_details"`
	ReportDate      time.Time      `json:"report_date"`
	ResolutionDate  *time.Time     `json:"resolution_date"`
	Reporter        ReportParty    `json:"reporter"`
	ReportedStudent ReportParty    `json:"reported_student"`
	ReportedListing *ReportListing `json:"reported_listing"`
	Priority        string         `json:"priority"`
	PriorityRank    int            `json:"priority_rank"`
}

// ReportQueueResponse is the ordered open-report queue with badge counts.
type ReportQueueResponse struct {
	Items   []ReportResponse           `json:"items"`
	Summary moderation.PrioritySummary `json:"summary"`
}

// ResolveReportRequest carries optional admin notes. Omitted notes fall back to a default.
type ResolveReportRequest struct {
	ResolutionNotes *string `json:"resolution_notes" validate:"omitempty,max=5000"`
}

// NewReportParty converts a student into the report party view.
func NewReportParty(student models.Student) ReportParty {
	return ReportParty{
		ID:            student.ID,
		Name:          student.FullName(),
		Email:         student.Email,
		AccountStatus: string(student.AccountStatus),
	}
}

// NewReportResponse converts a report with preloaded parties into a DTO.
func NewReportResponse(report models.Report, classification moderation.Classification) ReportResponse {
	response := ReportResponse{
		ID:              report.ID,
		Reason:          report.Reason,
		ReportDetails:   report.ReportDetails,
		ReportDate:      report.ReportDate,
		ResolutionDate:  report.ResolutionDate,
		Reporter:        NewReportParty(report.Reporter),
		ReportedStudent: NewReportParty(report.ReportedStudent),
		Priority:        string(classification.Label),
		PriorityRank:    classification.Rank,
	}
	if report.ReportedListing != nil && report.ReportedListing.ID != 0 {
		response.ReportedListing = &ReportListing{
			ID:            report.ReportedListing.ID,
			Title:         report.ReportedListing.Title,
			Price:         report.ReportedListing.Price,
			ListingStatus: string(report.ReportedListing.ListingStatus),
			CategoryName:  report.ReportedListing.Category.Name,
		}
	}
	return response
}

// SuspensionListRequest defines filters for listing suspensions.
type SuspensionListRequest struct {
	Page      int
	PageSize  int
	StudentID uint
	Status    string
}

// CreateSuspensionRequest is the admin payload for suspending a student.
// EndDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
type CreateSuspensionRequest struct {
	StudentID uint    `json:"stuId" validate:"required"`
	Type      string  `json:"type" validate:"required,oneof=temporary permanent"`
	ReportID  *uint   `json:"reportId" validate:"omitempty,gt=0"`
	EndDate   *string `json:"endDate"`
}

// UpdateSuspensionRequest holds one optional slot per mutable suspension attribute.
type UpdateSuspensionRequest struct {
	Type    *string `json:"type" validate:"omitempty,oneof=temporary permanent"`
	EndDate *string `json:"endDate"`
}

// Empty reports whether no recognised field was supplied.
func (r UpdateSuspensionRequest) Empty() bool {
	return r.Type == nil && r.EndDate == nil
}

// SuspensionResponse is a suspension with derived display status and context.
type SuspensionResponse struct {
	ID            uint       `json:"id"`
	StudentID     uint       `json:"student_id"`
	StudentName   string     `json:"student_name"`
	StudentEmail  string     `json:"student_email"`
	AccountStatus string     `json:"account_status"`
	ReportID      *uint      `json:"report_id"`
	ReportReason  string     `json:"report_reason,omitempty"`
	ReportDate    *time.Time `json:"report_date,omitempty"`
	Type          string     `json:"type"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Status        string     `json:"status"`
	DaysRemaining *int       `json:"days_remaining"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SuspensionListResponse wraps paginated suspensions.
type SuspensionListResponse struct {
	Items      []SuspensionResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// CreateSuspensionResponse reports the new suspension and how much the cascade touched.
type CreateSuspensionResponse struct {
	ID                    uint  `json:"id"`
	StudentID             uint  `json:"student_id"`
	ListingsRemoved       int64 `json:"listings_removed"`
	TransactionsCancelled int64 `json:"transactions_cancelled"`
}

// LiftSuspensionResponse reports whether lifting released the account.
type LiftSuspensionResponse struct {
	ID              uint      `json:"id"`
	StudentID       uint      `json:"student_id"`
	EndDate         time.Time `json:"end_date"`
	Reactivated     bool      `json:"reactivated"`
	RemainingActive int64     `json:"remaining_active"`
}

// NewSuspensionResponse converts a suspension with preloaded student and report into a DTO.
func NewSuspensionResponse(suspension models.Suspension, now time.Time) SuspensionResponse {
	response := SuspensionResponse{
		ID:            suspension.ID,
		StudentID:     suspension.StudentID,
		StudentName:   suspension.Student.FullName(),
		StudentEmail:  suspension.Student.Email,
		AccountStatus: string(suspension.Student.AccountStatus),
		ReportID:      suspension.ReportID,
		Type:          string(suspension.Type),
		StartDate:     suspension.StartDate,
		EndDate:       suspension.EndDate,
		Status:        string(moderation.DeriveSuspensionStatus(suspension.EndDate, now)),
		DaysRemaining: moderation.DaysRemaining(suspension.EndDate, now),
		CreatedAt:     suspension.CreatedAt,
		UpdatedAt:     suspension.UpdatedAt,
	}
	if suspension.Report != nil && suspension.Report.ID != 0 {
		response.ReportReason = suspension.Report.Reason
		reportDate := suspension.Report.ReportDate
		response.ReportDate = &reportDate
	}
	return response
}
