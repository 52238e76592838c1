// Package memory provides in-memory devices: Memory, which owns a growable
// buffer, and View, which reads and writes a span it does not own.
package memory

import (
	"io"

	"github.com/gobeaver/streamkit"
)

// Memory is an owned, growable byte buffer with independent read and write
// cursors. Writing past the end grows the buffer; reading past the end
// returns what is left and sets EOF.
type Memory struct {
	buf     []byte
	rpos    int64
	wpos    int64
	maxSize int64 // 0 = unlimited

	// gen changes whenever buf is reallocated, reset or truncated; views
	// taken before the change are invalid.
	gen uint64

	eof    bool
	failed bool
}

// Config holds configuration for the memory device
type Config struct {
	// Reserve is the initial capacity in bytes
	Reserve int
	// MaxSize is the maximum buffer size in bytes (0 = unlimited)
	MaxSize int64
}

// New creates an empty memory device
func New(cfg ...Config) *Memory {
	m := &Memory{}
	if len(cfg) > 0 {
		if cfg[0].Reserve > 0 {
			m.buf = make([]byte, 0, cfg[0].Reserve)
		}
		m.maxSize = cfg[0].MaxSize
	}
	return m
}

// FromBytes creates a memory device that takes ownership of b. The caller
// must not use b afterwards.
func FromBytes(b []byte) *Memory {
	return &Memory{buf: b}
}

// CopyOf creates a memory device holding a copy of b.
func CopyOf(b []byte) *Memory {
	buf := make([]byte, len(b))
	copy(buf, b)
	return &Memory{buf: buf}
}

// Category implements streamkit.Component.
func (m *Memory) Category() streamkit.Category {
	return streamkit.CatInput | streamkit.CatOutput |
		streamkit.CatInputSeekable | streamkit.CatOutputSeekable |
		streamkit.CatFlushable | streamkit.CatEOF | streamkit.CatStatus | streamkit.CatSize
}

// Read copies up to len(p) bytes from the read cursor.
func (m *Memory) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if m.rpos >= int64(len(m.buf)) {
		m.eof = true
		m.failed = false
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.rpos:])
	m.rpos += int64(n)
	m.eof = n < len(p)
	m.failed = false
	return n, nil
}

// Write copies p to the write cursor, growing the buffer as needed. A gap
// between the current length and the cursor is zero-filled. If MaxSize
// would be exceeded, the bytes that fit are written and ErrNoSpace is
// returned.
func (m *Memory) Write(p []byte) (int, error) {
	var err error
	if m.maxSize > 0 && m.wpos+int64(len(p)) > m.maxSize {
		p = p[:max(0, m.maxSize-m.wpos)]
		err = streamkit.ErrNoSpace
	}
	m.failed = err != nil
	if len(p) == 0 {
		return 0, err
	}

	end := m.wpos + int64(len(p))
	if end > int64(len(m.buf)) {
		m.grow(int(end))
	}
	n := copy(m.buf[m.wpos:end], p)
	m.wpos += int64(n)
	return n, err
}

// grow extends buf to length n, reallocating if the capacity is exceeded.
func (m *Memory) grow(n int) {
	if n <= cap(m.buf) {
		old := len(m.buf)
		m.buf = m.buf[:n]
		clear(m.buf[old:])
		return
	}
	newCap := max(2*cap(m.buf), n, 64)
	buf := make([]byte, n, newCap)
	copy(buf, m.buf)
	m.buf = buf
	m.gen++
}

func (m *Memory) seek(cur *int64, offset int64, dir streamkit.SeekDir) (int64, error) {
	pos, err := streamkit.Resolve(*cur, int64(len(m.buf)), offset, dir)
	if err != nil {
		m.failed = true
		return *cur, err
	}
	*cur = pos
	m.failed = false
	return pos, nil
}

// SeekG moves the read cursor. Positions past the end are allowed and read
// as EOF.
func (m *Memory) SeekG(offset int64, dir streamkit.SeekDir) (int64, error) {
	pos, err := m.seek(&m.rpos, offset, dir)
	if err == nil {
		m.eof = false
	}
	return pos, err
}

// TellG returns the read cursor.
func (m *Memory) TellG() int64 { return m.rpos }

// SeekP moves the write cursor. Positions past the end are allowed; the
// next write zero-fills the gap.
func (m *Memory) SeekP(offset int64, dir streamkit.SeekDir) (int64, error) {
	return m.seek(&m.wpos, offset, dir)
}

// TellP returns the write cursor.
func (m *Memory) TellP() int64 { return m.wpos }

// Flush is a no-op.
func (m *Memory) Flush() error { return nil }

// EOF reports whether the last read ran out of data.
func (m *Memory) EOF() bool { return m.eof }

// Good reports whether the last operation succeeded without reaching EOF.
func (m *Memory) Good() bool { return !m.eof && !m.failed }

// Fail reports whether the last operation failed.
func (m *Memory) Fail() bool { return m.failed }

// Size returns the buffer length.
func (m *Memory) Size() int64 { return int64(len(m.buf)) }

// Bytes returns the buffer contents. The slice aliases the device and is
// valid until the next write, Reset or Truncate.
func (m *Memory) Bytes() []byte { return m.buf }

// Len returns the buffer length.
func (m *Memory) Len() int { return len(m.buf) }

// Reset empties the buffer and rewinds both cursors. Views are invalidated.
func (m *Memory) Reset() {
	m.buf = m.buf[:0]
	m.rpos, m.wpos = 0, 0
	m.eof, m.failed = false, false
	m.gen++
}

// Truncate shortens the buffer to n bytes and pulls both cursors inside it.
// Views are invalidated.
func (m *Memory) Truncate(n int) error {
	if n < 0 || n > len(m.buf) {
		return streamkit.ErrInvalidOffset
	}
	m.buf = m.buf[:n]
	m.rpos = min(m.rpos, int64(n))
	m.wpos = min(m.wpos, int64(n))
	m.gen++
	return nil
}

// View returns a non-owning view of the current contents. The view shares
// the bytes with m and becomes invalid when m reallocates, resets or
// truncates.
func (m *Memory) View() *View {
	n := len(m.buf)
	return &View{
		buf:   m.buf[:n:n],
		size:  int64(n),
		owner: m,
		gen:   m.gen,
	}
}

// Verify interface compliance at compile time
var (
	_ streamkit.Component    = (*Memory)(nil)
	_ io.Reader              = (*Memory)(nil)
	_ io.Writer              = (*Memory)(nil)
	_ streamkit.InputSeeker  = (*Memory)(nil)
	_ streamkit.OutputSeeker = (*Memory)(nil)
	_ streamkit.Flusher      = (*Memory)(nil)
	_ streamkit.Sizer        = (*Memory)(nil)
)
