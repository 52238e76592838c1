package memory

import (
	"io"

	"github.com/gobeaver/streamkit"
)

// View is a non-owning device over a span of bytes. It reads and writes the
// span in place and never grows past it: a write that does not fit is
// truncated at the end of the span and fails with ErrNoSpace.
//
// A View tracks a logical size separately from the span's length, so an
// empty view over a preallocated span can be filled by writes. Views taken
// from a Memory check on every call that the owner has not reallocated.
type View struct {
	buf  []byte
	size int64
	rpos int64
	wpos int64

	owner *Memory
	gen   uint64

	eof    bool
	failed bool
}

// NewView creates a view over buf whose logical size is len(buf).
func NewView(buf []byte) *View {
	n := len(buf)
	return &View{buf: buf[:n:n], size: int64(n)}
}

// NewEmptyView creates a view over buf whose logical size is 0; writes fill
// it up to len(buf).
func NewEmptyView(buf []byte) *View {
	n := len(buf)
	return &View{buf: buf[:n:n]}
}

// Sub returns a view of n bytes of the span starting at off. The sub view
// shares the bytes and the owner of v.
func (v *View) Sub(off, n int64) (*View, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	if off < 0 || n < 0 || off+n > int64(len(v.buf)) {
		return nil, streamkit.ErrInvalidOffset
	}
	return &View{
		buf:   v.buf[off : off+n : off+n],
		size:  max(0, min(n, v.size-off)),
		owner: v.owner,
		gen:   v.gen,
	}, nil
}

// Valid reports whether the view may still be used.
func (v *View) Valid() bool {
	return v.owner == nil || v.owner.gen == v.gen
}

func (v *View) check() error {
	if !v.Valid() {
		v.failed = true
		return streamkit.ErrViewInvalidated
	}
	return nil
}

// Category implements streamkit.Component.
func (v *View) Category() streamkit.Category {
	return streamkit.CatInput | streamkit.CatOutput |
		streamkit.CatInputSeekable | streamkit.CatOutputSeekable |
		streamkit.CatFlushable | streamkit.CatEOF | streamkit.CatStatus | streamkit.CatSize
}

// Read copies up to len(p) bytes of the logical contents.
func (v *View) Read(p []byte) (int, error) {
	if err := v.check(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if v.rpos >= v.size {
		v.eof = true
		v.failed = false
		return 0, io.EOF
	}
	n := copy(p, v.buf[v.rpos:v.size])
	v.rpos += int64(n)
	v.eof = n < len(p)
	v.failed = false
	return n, nil
}

// Write copies p into the span at the write cursor, extending the logical
// size up to the span's length.
func (v *View) Write(p []byte) (int, error) {
	if err := v.check(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if v.wpos >= int64(len(v.buf)) {
		v.failed = true
		return 0, streamkit.ErrNoSpace
	}
	if v.wpos > v.size {
		// Zero the gap left by a seek past the logical end.
		clear(v.buf[v.size:v.wpos])
	}
	n := copy(v.buf[v.wpos:], p)
	v.wpos += int64(n)
	v.size = max(v.size, v.wpos)
	if n < len(p) {
		v.failed = true
		return n, streamkit.ErrNoSpace
	}
	v.failed = false
	return n, nil
}

func (v *View) seek(cur *int64, offset int64, dir streamkit.SeekDir) (int64, error) {
	if err := v.check(); err != nil {
		return *cur, err
	}
	pos, err := streamkit.Resolve(*cur, v.size, offset, dir)
	if err == nil && pos > int64(len(v.buf)) {
		err = streamkit.ErrInvalidOffset
	}
	if err != nil {
		v.failed = true
		return *cur, err
	}
	*cur = pos
	v.failed = false
	return pos, nil
}

// SeekG moves the read cursor within the span.
func (v *View) SeekG(offset int64, dir streamkit.SeekDir) (int64, error) {
	pos, err := v.seek(&v.rpos, offset, dir)
	if err == nil {
		v.eof = false
	}
	return pos, err
}

// TellG returns the read cursor.
func (v *View) TellG() int64 { return v.rpos }

// SeekP moves the write cursor within the span.
func (v *View) SeekP(offset int64, dir streamkit.SeekDir) (int64, error) {
	return v.seek(&v.wpos, offset, dir)
}

// TellP returns the write cursor.
func (v *View) TellP() int64 { return v.wpos }

// Flush is a no-op.
func (v *View) Flush() error { return v.check() }

// EOF reports whether the last read ran out of data.
func (v *View) EOF() bool { return v.eof }

// Good reports whether the last operation succeeded without reaching EOF.
func (v *View) Good() bool { return v.Valid() && !v.eof && !v.failed }

// Fail reports whether the last operation failed.
func (v *View) Fail() bool { return v.failed }

// Size returns the logical size.
func (v *View) Size() int64 { return v.size }

// Cap returns the length of the span.
func (v *View) Cap() int64 { return int64(len(v.buf)) }

// Bytes returns the logical contents. The slice aliases the span.
func (v *View) Bytes() []byte { return v.buf[:v.size] }

// Verify interface compliance at compile time
var (
	_ streamkit.Component    = (*View)(nil)
	_ io.Reader              = (*View)(nil)
	_ io.Writer              = (*View)(nil)
	_ streamkit.InputSeeker  = (*View)(nil)
	_ streamkit.OutputSeeker = (*View)(nil)
	_ streamkit.Sizer        = (*View)(nil)
)
