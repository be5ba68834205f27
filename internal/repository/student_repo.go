package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arsverma5/huskyhub-api/internal/models"
)

// StudentFilter defines filters for listing students.
type StudentFilter struct {
	Search   string
	Status   string
	Campus   string
	Sort     string
	Page     int
	PageSize int
}

// StudentAggregates captures provider-side totals shown on a student profile.
type StudentAggregates struct {
	TotalServices int64
	AvgRating     *float64
	TotalReviews  int64
}

// ProviderMetrics captures the provider performance dashboard.
type ProviderMetrics struct {
	TotalServices     int64
	ActiveServices    int64
	TotalBookings     int64
	CompletedBookings int64
	TotalEarnings     float64
	AvgRating         *float64
	TotalReviews      int64
}

// Provider leaderboard orderings.
const (
	ProviderSortTransactions = "transactions"
	ProviderSortRating       = "rating"
)

// ProviderStanding is one row of the provider leaderboard.
type ProviderStanding struct {
	ID                    uint
	FirstName             string
	LastName              string
	Email                 string
	Campus                string
	AvgRating             *float64
	CompletedTransactions int64
}

// ConsumerStanding counts the bookings a student has made as a buyer.
type ConsumerStanding struct {
	ID               uint
	FirstName        string
	LastName         string
	Email            string
	Campus           string
	TransactionCount int64
}

// Newcomer is a recently joined student with the creation times of their listings, oldest first.
type Newcomer struct {
	Student          models.Student
	ListingCreatedAt []time.Time
}

// StudentRepository persists student accounts.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetForUpdate(ctx context.Context, id uint) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Student, error)
	UpdateStatus(ctx context.Context, id uint, status models.AccountStatus) error
	Aggregates(ctx context.Context, id uint) (StudentAggregates, error)
	Metrics(ctx context.Context, id uint) (ProviderMetrics, error)
	ProviderLeaderboard(ctx context.Context, sortBy string, limit int) ([]ProviderStanding, error)
	ConsumerActivity(ctx context.Context) ([]ConsumerStanding, error)
	JoinedSince(ctx context.Context, since time.Time) ([]Newcomer, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs the student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if search := strings.ToLower(filter.Search); search != "" {
		like := "%" + search + "%"
		conditions := r.db.Where("LOWER(first_name) LIKE ?", like).
			Or("LOWER(last_name) LIKE ?", like).
			Or("LOWER(email) LIKE ?", like).
			Or("phone LIKE ?", like)
		// "first last" searches match across both name columns.
		if first, last, ok := strings.Cut(search, " "); ok {
			conditions = conditions.Or("LOWER(first_name) LIKE ? AND LOWER(last_name) LIKE ?", "%"+first+"%", "%"+strings.TrimSpace(last)+"%")
		}
		query = query.Where(conditions)
	}
	if filter.Status != "" {
		query = query.Where("account_status = ?", filter.Status)
	}
	if filter.Campus != "" {
		query = query.Where("campus = ?", filter.Campus)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "status":
		query = query.Order("CASE account_status WHEN 'suspended' THEN 1 WHEN 'active' THEN 2 ELSE 3 END").
			Order("last_name").Order("first_name")
	case "joinDate":
		query = query.Order("join_date DESC")
	default:
		query = query.Order("last_name").Order("first_name")
	}

	var students []models.Student
	if err := Page(query, filter.Page, filter.PageSize).Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// GetForUpdate reads the student while holding a row lock for the rest of the transaction.
func (r *studentRepository) GetForUpdate(ctx context.Context, id uint) (models.Student, error) {
	query := r.db.WithContext(ctx)
	if supportsRowLocks(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var student models.Student
	if err := query.Where("id = ?", id).First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Student, error) {
	result := r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Student{}, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return models.Student{}, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *studentRepository) UpdateStatus(ctx context.Context, id uint, status models.AccountStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("id = ?", id).
		Update("account_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepository) Aggregates(ctx context.Context, id uint) (StudentAggregates, error) {
	var aggregates StudentAggregates
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Listing{}).Where("provider_id = ?", id).Count(&aggregates.TotalServices).Error; err != nil {
		return StudentAggregates{}, err
	}

	var ratings struct {
		AvgRating *float64
		Total     int64
	}
	err := db.Model(&models.Review{}).
		Select("AVG(reviews.rating) AS avg_rating, COUNT(reviews.id) AS total").
		Joins("JOIN listings ON listings.id = reviews.listing_id").
		Where("listings.provider_id = ?", id).
		Scan(&ratings).Error
	if err != nil {
		return StudentAggregates{}, err
	}
	aggregates.AvgRating = ratings.AvgRating
	aggregates.TotalReviews = ratings.Total

	return aggregates, nil
}

func (r *studentRepository) Metrics(ctx context.Context, id uint) (ProviderMetrics, error) {
	aggregates, err := r.Aggregates(ctx, id)
	if err != nil {
		return ProviderMetrics{}, err
	}

	metrics := ProviderMetrics{
		TotalServices: aggregates.TotalServices,
		AvgRating:     aggregates.AvgRating,
		TotalReviews:  aggregates.TotalReviews,
	}
	db := r.db.WithContext(ctx)

	err = db.Model(&models.Listing{}).
		Where("provider_id = ? AND listing_status = ?", id, models.ListingStatusActive).
		Count(&metrics.ActiveServices).Error
	if err != nil {
		return ProviderMetrics{}, err
	}

	var bookings struct {
		Total     int64
		Completed int64
		Earnings  float64
	}
	err = db.Model(&models.Transaction{}).
		Select(
			"COUNT(transactions.id) AS total, "+
				"COALESCE(SUM(CASE WHEN transactions.transact_status = ? THEN 1 ELSE 0 END), 0) AS completed, "+
				"COALESCE(SUM(CASE WHEN transactions.transact_status = ? THEN transactions.payment_amount ELSE 0 END), 0) AS earnings",
			models.TransactionStatusCompleted, models.TransactionStatusCompleted,
		).
		Joins("JOIN listings ON listings.id = transactions.listing_id").
		Where("listings.provider_id = ?", id).
		Scan(&bookings).Error
	if err != nil {
		return ProviderMetrics{}, err
	}
	metrics.TotalBookings = bookings.Total
	metrics.CompletedBookings = bookings.Completed
	metrics.TotalEarnings = bookings.Earnings

	return metrics, nil
}

// ProviderLeaderboard ranks providers with at least one completed transaction. Ratings and
// completions come from separate subqueries so neither is inflated by the other's join.
func (r *studentRepository) ProviderLeaderboard(ctx context.Context, sortBy string, limit int) ([]ProviderStanding, error) {
	db := r.db.WithContext(ctx)

	completed := db.Model(&models.Transaction{}).
		Select("COUNT(transactions.id)").
		Joins("JOIN listings ON listings.id = transactions.listing_id").
		Where("listings.provider_id = students.id AND transactions.transact_status = ?", models.TransactionStatusCompleted)
	rating := db.Model(&models.Review{}).
		Select("AVG(reviews.rating)").
		Joins("JOIN listings ON listings.id = reviews.listing_id").
		Where("listings.provider_id = students.id")

	ranked := db.Model(&models.Student{}).Select(
		"students.id, students.first_name, students.last_name, students.email, students.campus, "+
			"(?) AS avg_rating, (?) AS completed_transactions",
		rating, completed,
	)

	query := db.Table("(?) AS ranked", ranked).Where("completed_transactions > 0")
	if sortBy == ProviderSortRating {
		// Unrated providers go last on every dialect.
		query = query.Order("CASE WHEN avg_rating IS NULL THEN 1 ELSE 0 END").Order("avg_rating DESC")
	}
	query = query.Order("completed_transactions DESC").Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var standings []ProviderStanding
	if err := query.Scan(&standings).Error; err != nil {
		return nil, err
	}
	return standings, nil
}

func (r *studentRepository) ConsumerActivity(ctx context.Context) ([]ConsumerStanding, error) {
	var standings []ConsumerStanding
	err := r.db.WithContext(ctx).Model(&models.Student{}).
		Select("students.id, students.first_name, students.last_name, students.email, students.campus, COUNT(transactions.id) AS transaction_count").
		Joins("JOIN transactions ON transactions.buyer_id = students.id").
		Group("students.id, students.first_name, students.last_name, students.email, students.campus").
		Order("transaction_count DESC").
		Order("students.id").
		Scan(&standings).Error
	if err != nil {
		return nil, err
	}
	return standings, nil
}

// JoinedSince returns students whose join date is on or after since, newest first.
func (r *studentRepository) JoinedSince(ctx context.Context, since time.Time) ([]Newcomer, error) {
	db := r.db.WithContext(ctx)

	var students []models.Student
	if err := db.Where("join_date >= ?", since).Order("join_date DESC").Order("id").Find(&students).Error; err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return []Newcomer{}, nil
	}

	ids := make([]uint, 0, len(students))
	for _, student := range students {
		ids = append(ids, student.ID)
	}

	var listings []struct {
		ProviderID uint
		CreatedAt  time.Time
	}
	err := db.Model(&models.Listing{}).
		Select("provider_id, created_at").
		Where("provider_id IN ?", ids).
		Order("created_at").
		Scan(&listings).Error
	if err != nil {
		return nil, err
	}

	created := make(map[uint][]time.Time, len(students))
	for _, listing := range listings {
		created[listing.ProviderID] = append(created[listing.ProviderID], listing.CreatedAt)
	}

	newcomers := make([]Newcomer, 0, len(students))
	for _, student := range students {
		newcomers = append(newcomers, Newcomer{Student: student, ListingCreatedAt: created[student.ID]})
	}
	return newcomers, nil
}
