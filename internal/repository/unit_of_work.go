package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Repositories bundles every repository bound to the same database handle or transaction.
type Repositories struct {
	Students     StudentRepository
	Categories   CategoryRepository
	Listings     ListingRepository
	Availability AvailabilityRepository
	Transactions TransactionRepository
	Reviews      ReviewRepository
	Reports      ReportRepository
	Suspensions  SuspensionRepository
	Activity     ActivityLogRepository
}

// NewRepositories binds all repositories to the given handle.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Students:     NewStudentRepository(db),
		Categories:   NewCategoryRepository(db),
		Listings:     NewListingRepository(db),
		Availability: NewAvailabilityRepository(db),
		Transactions: NewTransactionRepository(db),
		Reviews:      NewReviewRepository(db),
		Reports:      NewReportRepository(db),
		Suspensions:  NewSuspensionRepository(db),
		Activity:     NewActivityLogRepository(db),
	}
}

// UnitOfWork runs a function inside one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
// On postgres and mysql the transaction runs at READ COMMITTED so every plain read after a row
// lock sees rows committed while the lock was awaited. MySQL's REPEATABLE READ default would
// otherwise pin the snapshot at the first read.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork constructs a gorm-backed unit of work.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	}, txOptions(u.db.Dialector.Name())...)
}

// txOptions picks the isolation level per dialect. sqlite serialises writers and takes no options.
func txOptions(dialect string) []*sql.TxOptions {
	switch dialect {
	case "postgres", "mysql":
		return []*sql.TxOptions{{Isolation: sql.LevelReadCommitted}}
	default:
		return nil
	}
}
