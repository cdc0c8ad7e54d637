package logging

import (
	"io"
	"log/slog"
	"os"

	"gorm.io/gorm"
)

var stdout io.Writer = os.Stdout

// Setup installs a JSON logger on stdout as the slog default.
func Setup() {
	slog.SetDefault(slog.New(stdoutHandler(stdout)))
}

// AttachDB adds the database sink for ERROR+ records next to stdout and
// returns it so the caller can flush it on shutdown.
func AttachDB(db *gorm.DB) *PGHandler {
	pg := NewPGHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(stdoutHandler(stdout), pg)))
	return pg
}

func stdoutHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}
