package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Active hides cancelled sessions and events.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_cancelled = ?", false)
}

// ForUpdate takes a row lock on the selected rows for the rest of the transaction.
// SQLite ignores the clause; tests serialize on a single connection instead.
func ForUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Paginate applies 1-based page/size pagination.
func Paginate(page, size int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if size < 1 {
			size = 30
		}
		return db.Offset((page - 1) * size).Limit(size)
	}
}

// StartingAfter keeps rows whose column is at or after t.
func StartingAfter(column string, t time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ?", t)
	}
}

// MemberOf restricts a groups query to groups userID belongs to.
func MemberOf(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Table("group_members").Select("group_id").Where("user_id = ?", userID))
	}
}
