package securefile

import (
	"fmt"
	"os"
)

// accessMode is the parsed form of an fopen-style mode string. Exactly one
// of read/write/appendMode is set; update and exclusive refine it.
type accessMode struct {
	read       bool
	write      bool
	appendMode bool
	update     bool
	exclusive  bool
}

// parseMode parses the conventional single-letter mode codes: r, w, a,
// optionally extended with +, b and x. The x (exclusive-create) flag is
// only meaningful together with w or a; x with a plain read mode is
// rejected before any filesystem access happens. The b flag is accepted
// and ignored: there is no text/binary distinction at this level.
func parseMode(mode string) (accessMode, error) {
	var m accessMode
	if mode == "" {
		return m, fmt.Errorf("empty mode string")
	}

	for _, c := range mode {
		switch c {
		case 'r':
			m.read = true
		case 'w':
			m.write = true
		case 'a':
			m.appendMode = true
		case '+':
			m.update = true
		case 'b':
			// no-op
		case 'x':
			m.exclusive = true
		default:
			return accessMode{}, fmt.Errorf("unknown mode character %q in %q", c, mode)
		}
	}

	primaries := 0
	for _, set := range []bool{m.read, m.write, m.appendMode} {
		if set {
			primaries++
		}
	}
	if primaries != 1 {
		return accessMode{}, fmt.Errorf("mode %q must contain exactly one of r, w, a", mode)
	}
	if m.exclusive && !m.write && !m.appendMode {
		return accessMode{}, fmt.Errorf("mode %q uses x without w or a", mode)
	}
	return m, nil
}

// creating reports whether the mode creates the file if absent.
func (m accessMode) creating() bool {
	return m.write || m.appendMode
}

// flags maps the parsed mode onto os.OpenFile flags. O_EXCL is applied by
// the caller: exclusivity is also enforced manually before the open so the
// already-exists outcome is reported consistently on platforms where the
// underlying open lacks native exclusive-create support.
func (m accessMode) flags() int {
	access := os.O_RDONLY
	if m.update {
		access = os.O_RDWR
	} else if m.write || m.appendMode {
		access = os.O_WRONLY
	}

	switch {
	case m.write:
		return access | os.O_CREATE | os.O_TRUNC
	case m.appendMode:
		return access | os.O_CREATE | os.O_APPEND
	default:
		return access
	}
}
