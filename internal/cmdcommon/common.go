// Package cmdcommon provides common functionality for the command-line tools.
package cmdcommon

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/isseis/go-secure-file/internal/color"
	"github.com/isseis/go-secure-file/internal/logging"
	"github.com/isseis/go-secure-file/internal/terminal"
)

// Build-time variables (set via ldflags)
var (
	Version = "dev"
)

// Exit codes shared by the tools.
const (
	ExitOK    = 0
	ExitUsage = 1
	ExitError = 2
)

// Bootstrap configures the process-wide logger for a tool run and returns
// the run ID. Interactive detection follows the terminal and CI
// environment unless forced by flags.
func Bootstrap(stderr io.Writer, level slog.Level, forceNonInteractive bool) string {
	detector := terminal.NewDetector(terminal.DetectorOptions{
		ForceNonInteractive: forceNonInteractive,
	})
	return logging.Setup(stderr, level, detector.IsInteractive())
}

// Errorf writes an error line to w. The label is colored when w is an
// interactive terminal.
func Errorf(w io.Writer, format string, args ...any) {
	label := color.None
	if terminal.NewDetector(terminal.DetectorOptions{}).IsInteractive() {
		label = color.Red
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", label("Error:"), fmt.Sprintf(format, args...))
}
