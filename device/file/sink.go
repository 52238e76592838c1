package file

import (
	"io"
	"os"

	"github.com/gobeaver/streamkit"
)

// Sink is an output-only, buffered file device.
type Sink struct {
	h  *handle
	wb wbuffer
}

// OpenSink creates or truncates path for writing. With WithExclusive an
// existing file fails with a *streamkit.PathError wrapping
// streamkit.ErrExist.
func OpenSink(path string, fmode streamkit.FileMode, opts ...Option) (*Sink, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if o.exclusive {
		flag |= os.O_EXCL
	}
	h, err := openHandle(path, flag, fmode, o)
	if err != nil {
		return nil, err
	}
	return &Sink{h: h, wb: wbuffer{size: o.bufferSize}}, nil
}

// Path returns the file path.
func (s *Sink) Path() string { return s.h.path }

// Category implements streamkit.Component.
func (s *Sink) Category() streamkit.Category {
	return streamkit.CatOutput | streamkit.CatOutputSeekable | streamkit.CatFlushable |
		streamkit.CatStatus | streamkit.CatSize
}

// Write writes at the write cursor through the buffer.
func (s *Sink) Write(p []byte) (int, error) {
	return s.h.writeAt(&s.wb, p)
}

// Flush writes buffered bytes to the file.
func (s *Sink) Flush() error {
	return s.h.flushBuffer(&s.wb)
}

// SeekP flushes and moves the write cursor.
func (s *Sink) SeekP(offset int64, dir streamkit.SeekDir) (int64, error) {
	return s.h.seekP(&s.wb, offset, dir)
}

// TellP returns the write cursor, including buffered bytes.
func (s *Sink) TellP() int64 { return s.wb.tell() }

// Good reports whether the last operation succeeded.
func (s *Sink) Good() bool { return !s.h.closed && !s.h.failed }

// Fail reports whether the last operation failed.
func (s *Sink) Fail() bool { return s.h.failed }

// Size returns the file size, including buffered bytes.
func (s *Sink) Size() int64 { return max(s.h.statSize(), s.wb.tell()) }

// Close flushes and closes the file.
func (s *Sink) Close() error {
	if s.h.closed {
		return nil
	}
	ferr := s.Flush()
	if err := s.h.close(); err != nil {
		return err
	}
	return ferr
}

// Verify interface compliance at compile time
var (
	_ streamkit.Component    = (*Sink)(nil)
	_ io.WriteCloser         = (*Sink)(nil)
	_ streamkit.OutputSeeker = (*Sink)(nil)
	_ streamkit.Flusher      = (*Sink)(nil)
)
