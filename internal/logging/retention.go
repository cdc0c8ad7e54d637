package logging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playbojio/playbojio-api/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Retention deletes system_logs older than a cutoff on a cron schedule.
type Retention struct {
	cron   *cron.Cron
	db     *gorm.DB
	maxAge time.Duration
}

func NewRetention(db *gorm.DB, maxAge time.Duration) *Retention {
	return &Retention{
		cron:   cron.New(cron.WithSeconds()),
		db:     db,
		maxAge: maxAge,
	}
}

// Start registers the cleanup job with a six-field (seconds first) schedule.
func (r *Retention) Start(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return fmt.Errorf("invalid log cleanup schedule %q: %w", schedule, err)
	}
	r.cron.Start()
	return nil
}

// Stop waits for a running cleanup to finish, up to 5s.
func (r *Retention) Stop() {
	ctx := r.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (r *Retention) run() {
	deleted, err := r.Purge(context.Background(), time.Now().UTC())
	if err != nil {
		slog.Error("log cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("log cleanup completed", "deleted", deleted)
	}
}

// Purge removes records older than now minus maxAge and reports how many went.
func (r *Retention) Purge(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-r.maxAge)
	result := r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
