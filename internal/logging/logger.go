// Package logging wires the tracker's log pipeline: JSON records to
// stdout for the console stream, with ERROR and above additionally
// batched into the system_logs table once the store is up.
package logging

import (
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup installs the stdout JSON logger. It runs before the store
// connection exists so startup failures still log somewhere.
func Setup() {
	slog.SetDefault(slog.New(stdoutHandler()))
}

// AttachStore upgrades the default logger to also persist ERROR+ records
// through a PGHandler. The returned handler must be stopped on shutdown
// to flush its final batch.
func AttachStore(db *gorm.DB) *PGHandler {
	h := NewPGHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(stdoutHandler(), h)))
	return h
}

func stdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
