package policy

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/isseis/go-secure-file/securefile"
)

// Loader loads and saves policy files. The files themselves are read and
// written through the secure file chain, so a policy file sitting in an
// attacker-controllable directory is rejected like any other input.
type Loader struct {
	openOpts []securefile.OpenOption
}

// NewLoader creates a loader using the default collaborators.
func NewLoader() *Loader {
	return &Loader{}
}

// NewLoaderWithOptions creates a loader that forwards the given open
// options, used by tests to inject a permissive directory checker.
func NewLoaderWithOptions(opts ...securefile.OpenOption) *Loader {
	return &Loader{openOpts: opts}
}

// Load reads, parses and validates the policy at path.
func (l *Loader) Load(path string) (*Policy, error) {
	content, err := securefile.ReadFile(path, l.openOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var p Policy
	if err := toml.Unmarshal(content, &p); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save serializes p and writes it to path with exclusive-create semantics.
func (l *Loader) Save(path string, p *Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	content, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize policy: %w", err)
	}
	if err := securefile.WriteFile(path, content, l.openOpts...); err != nil {
		return fmt.Errorf("failed to write policy file: %w", err)
	}
	return nil
}
