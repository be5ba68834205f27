package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// SuspensionFilter narrows suspension queries. Status uses the derived display values.
type SuspensionFilter struct {
	StudentID uint
	Status    string
	Now       time.Time
	Page      int
	PageSize  int
}

// SuspensionRepository persists account suspensions.
type SuspensionRepository interface {
	Create(ctx context.Context, suspension *models.Suspension) error
	GetByID(ctx context.Context, id uint) (models.Suspension, error)
	GetForUpdate(ctx context.Context, id uint) (models.Suspension, error)
	List(ctx context.Context, filter SuspensionFilter) ([]models.Suspension, int64, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	CountActiveForStudent(ctx context.Context, studentID, excludeID uint, now time.Time) (int64, error)
}

type suspensionRepository struct {
	db *gorm.DB
}

// NewSuspensionRepository constructs the suspension repository.
func NewSuspensionRepository(db *gorm.DB) SuspensionRepository {
	return &suspensionRepository{db: db}
}

func (r *suspensionRepository) Create(ctx context.Context, suspension *models.Suspension) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(suspension).Error
}

func (r *suspensionRepository) GetByID(ctx context.Context, id uint) (models.Suspension, error) {
	var suspension models.Suspension
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Report").
		Where("id = ?", id).
		First(&suspension).Error
	if err != nil {
		return models.Suspension{}, err
	}
	return suspension, nil
}

// GetForUpdate locks the suspension row without preloading, so the transaction performs no
// consistent read before the caller locks the student.
func (r *suspensionRepository) GetForUpdate(ctx context.Context, id uint) (models.Suspension, error) {
	query := r.db.WithContext(ctx)
	if supportsRowLocks(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var suspension models.Suspension
	if err := query.Where("id = ?", id).First(&suspension).Error; err != nil {
		return models.Suspension{}, err
	}
	return suspension, nil
}

func (r *suspensionRepository) List(ctx context.Context, filter SuspensionFilter) ([]models.Suspension, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Suspension{})

	if filter.StudentID > 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}

	now := filter.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	switch strings.ToUpper(filter.Status) {
	case "PERMANENT":
		query = query.Where("end_date IS NULL")
	case "EXPIRED":
		query = query.Where("end_date IS NOT NULL AND end_date <= ?", now)
	case "ACTIVE":
		query = query.Where("end_date > ?", now)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var suspensions []models.Suspension
	err := Page(query, filter.Page, filter.PageSize).
		Preload("Student").
		Preload("Report").
		Order("start_date DESC").
		Order("id DESC").
		Find(&suspensions).Error
	if err != nil {
		return nil, 0, err
	}

	return suspensions, total, nil
}

func (r *suspensionRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Suspension{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Suspension{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// CountActiveForStudent counts suspensions still covering the student, ignoring excludeID.
func (r *suspensionRepository) CountActiveForStudent(ctx context.Context, studentID, excludeID uint, now time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Suspension{}).
		Where("student_id = ?", studentID).
		Where("end_date IS NULL OR end_date > ?", now)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
