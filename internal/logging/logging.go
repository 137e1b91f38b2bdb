// Package logging provides the slog setup shared by the command-line
// tools: an interactive-aware handler choice, ULID run identifiers for log
// correlation, and run-scoped log file naming. The securefile library
// itself never logs; everything here is CLI-side.
package logging

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewRunID generates a ULID identifying one tool invocation. ULIDs sort by
// creation time, which keeps log directories chronologically ordered.
func NewRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// LogFileName builds the run-scoped log file path inside dir:
// hostname_timestamp_runID.log.
func LogFileName(dir, runID string) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.log", hostname, timestamp, runID))
}

// Options controls handler construction.
type Options struct {
	Level       slog.Level
	Interactive bool
	RunID       string
}

// NewHandler builds the slog handler for a tool run. Interactive runs get
// human-oriented text without timestamps; non-interactive runs get full
// timestamped text suitable for collection.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.Interactive {
		handlerOpts.ReplaceAttr = dropTime
	}

	var handler slog.Handler = slog.NewTextHandler(w, handlerOpts)
	if opts.RunID != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("run_id", opts.RunID)})
	}
	return handler
}

// Setup installs the handler as the process-wide default logger and
// returns the run ID chosen for this invocation.
func Setup(w io.Writer, level slog.Level, interactive bool) string {
	runID := NewRunID()
	slog.SetDefault(slog.New(NewHandler(w, Options{
		Level:       level,
		Interactive: interactive,
		RunID:       runID,
	})))
	return runID
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
