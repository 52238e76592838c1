package file

import (
	"io"
	"os"

	"github.com/gobeaver/streamkit"
)

// Source is an input-only file device.
type Source struct {
	h    *handle
	rpos int64
}

// OpenSource opens an existing file for reading. A missing file fails with
// a *streamkit.PathError wrapping streamkit.ErrNotExist.
func OpenSource(path string, fmode streamkit.FileMode, opts ...Option) (*Source, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	h, err := openHandle(path, os.O_RDONLY, fmode, o)
	if err != nil {
		return nil, err
	}
	return &Source{h: h}, nil
}

// Path returns the file path.
func (s *Source) Path() string { return s.h.path }

// Category implements streamkit.Component. Text mode adds CatLineOriented.
func (s *Source) Category() streamkit.Category {
	cat := streamkit.CatInput | streamkit.CatInputSeekable |
		streamkit.CatEOF | streamkit.CatStatus | streamkit.CatSize
	if s.h.text {
		cat |= streamkit.CatLineOriented
	}
	return cat
}

// Read reads at the read cursor.
func (s *Source) Read(p []byte) (int, error) {
	return s.h.readAt(p, &s.rpos)
}

// ReadLine reads one line at the read cursor.
func (s *Source) ReadLine() (string, error) {
	return s.h.readLine(&s.rpos)
}

// SeekG moves the read cursor.
func (s *Source) SeekG(offset int64, dir streamkit.SeekDir) (int64, error) {
	pos, err := s.h.seek(&s.rpos, s.h.statSize(), offset, dir)
	if err == nil {
		s.h.eof = false
	}
	return pos, err
}

// TellG returns the read cursor.
func (s *Source) TellG() int64 { return s.rpos }

// EOF reports whether the last read ran out of data.
func (s *Source) EOF() bool { return s.h.eof }

// Good reports whether the last operation succeeded without reaching EOF.
func (s *Source) Good() bool { return !s.h.closed && !s.h.eof && !s.h.failed }

// Fail reports whether the last operation failed.
func (s *Source) Fail() bool { return s.h.failed }

// Size returns the file size.
func (s *Source) Size() int64 { return s.h.statSize() }

// Close closes the file.
func (s *Source) Close() error { return s.h.close() }

// Verify interface compliance at compile time
var (
	_ streamkit.Component   = (*Source)(nil)
	_ io.ReadCloser         = (*Source)(nil)
	_ streamkit.InputSeeker = (*Source)(nil)
	_ streamkit.LineReader  = (*Source)(nil)
)
