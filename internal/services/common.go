package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/models"
	"gorm.io/gorm"
)

func now() time.Time {
	return time.Now().UTC()
}

// exists reports whether any row of model matches the condition.
func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to query: %w", err)
	}
	return n > 0, nil
}

// existsIn is exists for link tables without a model.
func existsIn(tx *gorm.DB, table, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := tx.Table(table).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return n > 0, nil
}

// first loads one row into dest, returning notFound when nothing matches.
func first(tx *gorm.DB, dest interface{}, notFound error, query string, args ...interface{}) error {
	err := tx.Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("failed to load: %w", err)
	}
	return nil
}

type idCount struct {
	ID uuid.UUID
	N  int
}

// countBy counts rows of table grouped by column for the given ids.
func countBy(tx *gorm.DB, table, column string, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []idCount
	err := tx.Table(table).
		Select(column+" AS id, COUNT(*) AS n").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", table, err)
	}
	for _, r := range rows {
		out[r.ID] = r.N
	}
	return out, nil
}

func countWhere(tx *gorm.DB, model interface{}, query string, args ...interface{}) (int, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return int(n), nil
}

// usersByID loads the given users keyed by id.
func usersByID(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := tx.Where("id IN ?", uniqueIDs(ids)).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func requireUser(tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := first(tx, &u, ErrUserNotFound, "id = ?", id); err != nil {
		return nil, err
	}
	return &u, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// pluckIDs selects one uuid column of table.
func pluckIDs(tx *gorm.DB, table, column, query string, args ...interface{}) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := tx.Table(table).Where(query, args...).Pluck(column, &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return ids, nil
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// likeWhere is a case-insensitive contains condition on column, paired with likePattern.
func likeWhere(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '\\'"
}

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ?.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

func summary(u models.User) dto.UserSummary {
	return dto.UserSummary{ID: u.ID.String(), DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}

func pageSize(requested, fallback int) int {
	if requested < 1 || requested > 100 {
		return fallback
	}
	return requested
}
