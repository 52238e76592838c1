package streamkit

import (
	"errors"
	"fmt"
)

// Common stream errors
var (
	ErrNotExist        = errors.New("file does not exist")
	ErrExist           = errors.New("file already exists")
	ErrPermission      = errors.New("permission denied")
	ErrClosed          = errors.New("stream already closed")
	ErrInvalidOffset   = errors.New("invalid offset")
	ErrInvalidWhence   = errors.New("invalid whence")
	ErrInvalidMode     = errors.New("invalid open mode")
	ErrNotSupported    = errors.New("operation not supported")
	ErrNoSpace         = errors.New("no space left on device")
	ErrShortRead       = errors.New("short read")
	ErrShortWrite      = errors.New("short write")
	ErrLengthOverflow  = errors.New("length does not fit prefix type")
	ErrCorrupt         = errors.New("corrupt stream")
	ErrAlreadyBound    = errors.New("filter already bound")
	ErrViewInvalidated = errors.New("view invalidated by owner")
	ErrLineTooLong     = errors.New("line too long")
)

// PathError records an error and the operation and file path that caused it
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// StreamError is the single error type returned by the Reader and Writer
// façades. Want and Got count bytes; Got < Want for short transfers.
type StreamError struct {
	Op   string
	Want int
	Got  int
	Err  error
}

// Error implements the error interface
func (e *StreamError) Error() string {
	if e.Want > 0 && e.Got < e.Want {
		return fmt.Sprintf("stream %s: %v (%d of %d bytes)", e.Op, e.Err, e.Got, e.Want)
	}
	return fmt.Sprintf("stream %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *StreamError) Unwrap() error {
	return e.Err
}

// CapabilityError reports a composition whose outer filter requires
// capabilities the inner component does not declare.
type CapabilityError struct {
	Filter  string
	Missing Category
}

// Error implements the error interface
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("filter %s: next component lacks %s", e.Filter, e.Missing)
}

// Unwrap lets errors.Is match ErrNotSupported.
func (e *CapabilityError) Unwrap() error {
	return ErrNotSupported
}

// IsNotExist reports whether an error indicates that a file does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// IsExist reports whether an error indicates that a file already exists
func IsExist(err error) bool {
	return errors.Is(err, ErrExist)
}

// IsPermission reports whether an error indicates that permission is denied
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission)
}

// IsShortTransfer reports whether a façade error was caused by a read or
// write that moved fewer bytes than requested.
func IsShortTransfer(err error) bool {
	return errors.Is(err, ErrShortRead) || errors.Is(err, ErrShortWrite)
}

// IsCorrupt reports whether an error was caused by malformed filter input.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorrupt)
}
