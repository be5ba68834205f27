package models

import "time"

// Report is a complaint filed by one student against another student or listing.
// A nil ResolutionDate means the report is still open.
type Report struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ReporterID        uint       `gorm:"not null;index" json:"reporter_id"`
	Reporter          Student    `gorm:"foreignKey:ReporterID" json:"-"`
	ReportedStudentID uint       `gorm:"not null;index" json:"reported_student_id"`
	ReportedStudent   Student    `gorm:"foreignKey:ReportedStudentID" json:"-"`
	ReportedListingID *uint      `gorm:"index" json:"reported_listing_id"`
	ReportedListing   *Listing   `gorm:"foreignKey:ReportedListingID" json:"-"`
	Reason            string     `gorm:"size:120;not null" json:"reason"`
	ReportDetails     string     `gorm:"type:text" json:"report_details"`
	ReportDate        time.Time  `gorm:"not null;index" json:"report_date"`
	ResolutionDate    *time.Time `gorm:"index" json:"resolution_date"`
}

// Open reports whether the report has not been resolved yet.
func (r Report) Open() bool {
	return r.ResolutionDate == nil
}

// Suspension restricts a student's account. Lifting sets EndDate instead of deleting the row.
type Suspension struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StudentID uint           `gorm:"not null;index" json:"student_id"`
	Student   Student        `gorm:"foreignKey:StudentID" json:"-"`
	ReportID  *uint          `gorm:"index" json:"report_id"`
	Report    *Report        `gorm:"foreignKey:ReportID" json:"-"`
	Type      SuspensionType `gorm:"size:16;not null" json:"type"`
	StartDate time.Time      `gorm:"not null;<-:create" json:"start_date"`
	EndDate   *time.Time     `gorm:"index" json:"end_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ActiveAt reports whether the suspension still covers the student at the given instant.
func (s Suspension) ActiveAt(now time.Time) bool {
	return s.EndDate == nil || s.EndDate.After(now)
}
