package list

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PopMode selects what PopBack and PopFront do besides moving the list's end.
type PopMode int

const (
	// PopDetach only moves the list's head or tail handle to the neighbor of
	// the popped node. Size is not decremented, the popped node keeps its link
	// into the list, and the new end keeps its link to the popped node.
	PopDetach PopMode = iota

	// PopUnlink also decrements Size and clears the links between the popped
	// node and its neighbor.
	PopUnlink
)

var popModeNames = map[PopMode]string{
	PopDetach: "detach",
	PopUnlink: "unlink",
}

func (m PopMode) String() string {
	if s, ok := popModeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParsePopMode converts "detach" or "unlink" to a PopMode. The empty string
// selects PopDetach.
func ParsePopMode(s string) (PopMode, error) {
	if s == "" {
		return PopDetach, nil
	}
	for m, name := range popModeNames {
		if name == s {
			return m, nil
		}
	}
	return PopDetach, errors.Errorf("unknown pop mode %q", s)
}

// Config controls the behavior of a List.
type Config struct {
	PopMode PopMode

	// Log receives trace output for every mutation and an error entry before a
	// borrow conflict panics. If nil, the standard logrus logger is used.
	Log *logrus.Entry
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{PopMode: PopDetach}
}
