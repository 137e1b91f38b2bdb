// Package color wraps text in ANSI escape sequences for the interactive
// log output of the command-line tools.
//
//nolint:revive // package name conflicts with standard library
package color

// ANSI color codes
const (
	resetCode  = "\033[0m"
	grayCode   = "\033[90m" // Bright black/gray
	greenCode  = "\033[32m"
	yellowCode = "\033[33m"
	redCode    = "\033[31m"
	cyanCode   = "\033[36m"
)

// Color wraps text with an ANSI escape sequence.
type Color func(text string) string

// NewColor creates a color function with the specified ANSI code.
func NewColor(ansiCode string) Color {
	return func(text string) string {
		return ansiCode + text + resetCode
	}
}

// Predefined color functions
var (
	// Gray colors text in gray (bright black), used for debug output
	Gray = NewColor(grayCode)

	// Green colors text in green, used for info output
	Green = NewColor(greenCode)

	// Yellow colors text in yellow, used for warnings
	Yellow = NewColor(yellowCode)

	// Red colors text in red, used for errors
	Red = NewColor(redCode)

	// Cyan colors text in cyan, used for highlighted values
	Cyan = NewColor(cyanCode)

	// None returns the text unchanged, for non-interactive output.
	None = Color(func(text string) string { return text })
)
