package repository

import "gorm.io/gorm"

// Page applies limit/offset when a page size is requested.
func Page(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	if page <= 0 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != "sqlite"
}
