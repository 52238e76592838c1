package streamkit

import (
	"fmt"
	"strings"
)

// OpenMode selects the directions a device is opened for.
type OpenMode int

const (
	// ModeRead opens for reading only.
	ModeRead OpenMode = iota + 1
	// ModeWrite opens for writing only.
	ModeWrite
	// ModeReadWrite opens for both.
	ModeReadWrite
)

// String returns the mode name.
func (m OpenMode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeReadWrite:
		return "read_write"
	default:
		return fmt.Sprintf("OpenMode(%d)", int(m))
	}
}

// FileMode selects how a file's bytes are interpreted.
type FileMode int

const (
	// Binary passes bytes through unchanged.
	Binary FileMode = iota
	// Text additionally advertises line-oriented reading.
	Text
)

// String returns the mode name.
func (m FileMode) String() string {
	if m == Text {
		return "text"
	}
	return "binary"
}

// ParseOpenMode parses "read", "write" or "read_write".
func ParseOpenMode(s string) (OpenMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read", "r":
		return ModeRead, nil
	case "write", "w":
		return ModeWrite, nil
	case "read_write", "readwrite", "rw":
		return ModeReadWrite, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// ParseFileMode parses "binary" or "text".
func ParseFileMode(s string) (FileMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "binary":
		return Binary, nil
	case "text":
		return Text, nil
	default:
		return 0, fmt.Errorf("%w: file mode %q", ErrInvalidMode, s)
	}
}
