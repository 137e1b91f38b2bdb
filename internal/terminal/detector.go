// Package terminal provides helpers for detecting terminal capabilities and
// determining whether the current process should be treated as interactive
// or running in a CI/non-interactive environment.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables
var ciEnvVars = []string{
	"CI",                     // Generic CI indicator
	"CONTINUOUS_INTEGRATION", // Generic CI indicator
	"GITHUB_ACTIONS",         // GitHub Actions
	"TRAVIS",                 // Travis CI
	"CIRCLECI",               // Circle CI
	"JENKINS_URL",            // Jenkins
	"GITLAB_CI",              // GitLab CI
	"BUILDKITE",              // Buildkite
	"DRONE",                  // Drone CI
	"TF_BUILD",               // Azure DevOps
}

// DetectorOptions contains options for controlling interactive detection
type DetectorOptions struct {
	ForceInteractive    bool // Force interactive mode regardless of environment
	ForceNonInteractive bool // Force non-interactive mode regardless of environment
}

// Detector reports whether the process runs attached to an interactive
// terminal.
type Detector struct {
	options DetectorOptions
}

// NewDetector creates a new Detector with the given options
func NewDetector(options DetectorOptions) *Detector {
	return &Detector{options: options}
}

// IsInteractive reports whether output should use interactive formatting:
// stderr must be a terminal and no CI environment may be detected, unless
// overridden by the options.
func (d *Detector) IsInteractive() bool {
	if d.options.ForceNonInteractive {
		return false
	}
	if d.options.ForceInteractive {
		return true
	}
	return d.IsTerminal() && !d.IsCIEnvironment()
}

// IsTerminal reports whether stderr is attached to a terminal.
func (d *Detector) IsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// IsCIEnvironment reports whether a known CI environment variable is set.
func (d *Detector) IsCIEnvironment() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
