package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// CategoryRepository reads listing categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository constructs the category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}
