package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// ReportRepository persists user reports.
type ReportRepository interface {
	ListOpen(ctx context.Context) ([]models.Report, error)
	GetByID(ctx context.Context, id uint) (models.Report, error)
	ReportedStudentID(ctx context.Context, id uint) (uint, error)
	Create(ctx context.Context, report *models.Report) error
	Resolve(ctx context.Context, id uint, resolvedAt time.Time, notes string) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository constructs the report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// ListOpen returns unresolved reports with the state needed for classification preloaded.
func (r *reportRepository) ListOpen(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Where("resolution_date IS NULL").
		Preload("Reporter").
		Preload("ReportedStudent").
		Preload("ReportedListing").
		Preload("ReportedListing.Category").
		Order("report_date DESC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("ReportedStudent").
		Preload("ReportedListing").
		Preload("ReportedListing.Category").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return models.Report{}, err
	}
	return report, nil
}

// ReportedStudentID returns who the report is about, or gorm.ErrRecordNotFound.
func (r *reportRepository) ReportedStudentID(ctx context.Context, id uint) (uint, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Select("id", "reported_student_id").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return 0, err
	}
	return report.ReportedStudentID, nil
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(report).Error
}

// Resolve stamps the resolution date and replaces the details with the admin notes.
func (r *reportRepository) Resolve(ctx context.Context, id uint, resolvedAt time.Time, notes string) error {
	result := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resolution_date": resolvedAt,
			"report_details":  notes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
