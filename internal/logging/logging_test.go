package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/logging"
	"github.com/playbojio/playbojio-api/internal/models"
	"github.com/playbojio/playbojio-api/internal/testutil"
)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandlerKeepsDelivering(t *testing.T) {
	var buf bytes.Buffer
	jh := slog.NewJSONHandler(&buf, nil)
	h := logging.NewMultiHandler(failingHandler{jh}, jh)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0))
	if err == nil {
		t.Fatal("expected joined error from failing handler")
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"hello"`)) {
		t.Errorf("second handler did not receive record: %s", buf.String())
	}
}

func TestPGHandlerPersistsErrors(t *testing.T) {
	db := testutil.NewDB(t)
	pg := logging.NewPGHandler(db)
	defer pg.Stop()

	logger := slog.New(pg).With("request_id", "req-1")
	logger.Info("ignored")
	logger.Error("join failed", "user_id", "u-1", "action", "session.join", "session_id", "s-1")
	pg.Flush()

	var logs []models.SystemLog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(logs))
	}
	got := logs[0]
	if got.RequestID != "req-1" || got.Action != "session.join" || got.UserID == nil || *got.UserID != "u-1" {
		t.Errorf("unexpected log row: %+v", got)
	}
	var extra map[string]interface{}
	if err := json.Unmarshal(got.Extra, &extra); err != nil {
		t.Fatalf("extra: %v", err)
	}
	if extra["session_id"] != "s-1" {
		t.Errorf("extra = %v", extra)
	}
}

func TestRetentionPurge(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.SystemLog{
		{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -45), Level: "ERROR", Message: "old"},
		{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -1), Level: "ERROR", Message: "recent"},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatal(err)
	}

	r := logging.NewRetention(db, 30*24*time.Hour)
	deleted, err := r.Purge(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	var left []models.SystemLog
	db.Find(&left)
	if len(left) != 1 || left[0].Message != "recent" {
		t.Errorf("remaining = %+v", left)
	}
}

func TestRetentionRejectsBadSchedule(t *testing.T) {
	r := logging.NewRetention(testutil.NewDB(t), time.Hour)
	if err := r.Start("not a schedule"); err == nil {
		r.Stop()
		t.Fatal("expected schedule error")
	}
}
