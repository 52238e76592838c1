package streamkit

import (
	"fmt"
	"io"
)

// Filter transforms bytes or positions between a caller and the next
// component in a chain. A filter is constructed on its own and bound exactly
// once; after binding, the filter value is itself the link and can be
// queried for its state (checksums, counters, ...).
type Filter interface {
	// Name identifies the filter in errors and logs.
	Name() string

	// Bind attaches the filter around next. It fails with a
	// *CapabilityError if next lacks what the filter requires, and with
	// ErrAlreadyBound on a second call.
	Bind(next Component) (Component, error)
}

// link holds the next component of a bound filter and forwards calls to it.
type link struct {
	next Component
}

// attach binds l to next after checking that next declares every tag in
// all and at least one tag in anyOf (when anyOf is non-zero).
func (l *link) attach(name string, next Component, all, anyOf Category) error {
	if l.next != nil {
		return fmt.Errorf("%s: %w", name, ErrAlreadyBound)
	}
	if next == nil {
		return fmt.Errorf("%s: %w: nil next component", name, ErrNotSupported)
	}
	cat := next.Category()
	if !cat.Has(all) {
		return &CapabilityError{Filter: name, Missing: all &^ cat}
	}
	if anyOf != 0 && !cat.HasAny(anyOf) {
		return &CapabilityError{Filter: name, Missing: anyOf}
	}
	l.next = next
	return nil
}

func (l *link) nextCategory() Category {
	if l.next == nil {
		return 0
	}
	return l.next.Category()
}

func (l *link) read(p []byte) (int, error) {
	if r, ok := l.next.(io.Reader); ok && l.nextCategory().Has(CatInput) {
		return r.Read(p)
	}
	return 0, ErrNotSupported
}

func (l *link) write(p []byte) (int, error) {
	if w, ok := l.next.(io.Writer); ok && l.nextCategory().Has(CatOutput) {
		return w.Write(p)
	}
	return 0, ErrNotSupported
}

func (l *link) seekG(offset int64, dir SeekDir) (int64, error) {
	if s, ok := l.next.(InputSeeker); ok && l.nextCategory().Has(CatInputSeekable) {
		return s.SeekG(offset, dir)
	}
	return 0, ErrNotSupported
}

func (l *link) tellG() int64 {
	if s, ok := l.next.(InputSeeker); ok && l.nextCategory().Has(CatInputSeekable) {
		return s.TellG()
	}
	return 0
}

func (l *link) seekP(offset int64, dir SeekDir) (int64, error) {
	if s, ok := l.next.(OutputSeeker); ok && l.nextCategory().Has(CatOutputSeekable) {
		return s.SeekP(offset, dir)
	}
	return 0, ErrNotSupported
}

func (l *link) tellP() int64 {
	if s, ok := l.next.(OutputSeeker); ok && l.nextCategory().Has(CatOutputSeekable) {
		return s.TellP()
	}
	return 0
}

func (l *link) flush() error {
	if f, ok := l.next.(Flusher); ok && l.nextCategory().Has(CatFlushable) {
		return f.Flush()
	}
	return nil
}

func (l *link) eof() bool {
	if e, ok := l.next.(EOFReporter); ok && l.nextCategory().Has(CatEOF) {
		return e.EOF()
	}
	return false
}

func (l *link) good() bool {
	if s, ok := l.next.(StatusReporter); ok && l.nextCategory().Has(CatStatus) {
		return s.Good()
	}
	return true
}

func (l *link) fail() bool {
	if s, ok := l.next.(StatusReporter); ok && l.nextCategory().Has(CatStatus) {
		return s.Fail()
	}
	return false
}

func (l *link) size() int64 {
	if s, ok := l.next.(Sizer); ok && l.nextCategory().Has(CatSize) {
		return s.Size()
	}
	return 0
}
