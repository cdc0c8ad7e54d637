// Package testutil opens throwaway SQLite databases for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/database"
	"github.com/playbojio/playbojio-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const JWTSecret = "test-secret"

// NewDB returns an in-memory database migrated with every domain model plus extra.
// A single pooled connection keeps the in-memory schema alive and serializes
// transactions the way row locks do on Postgres.
func NewDB(t *testing.T, extra ...interface{}) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(append(models.All(), extra...)...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewUser inserts a user with the given display name.
func NewUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{
		ID:              uuid.New(),
		Email:           name + "@example.com",
		DisplayName:     name,
		IsProfilePublic: true,
		Role:            models.RoleUser,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

// Token signs an HS256 access token for userID with JWTSecret.
func Token(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
