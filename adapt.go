package streamkit

import (
	"errors"
	"io"
)

// Adapt returns v as a Component. Components are returned unchanged; plain
// io values (bytes.Buffer, os.File, net.Conn, ...) get a category derived
// from their method set, plus EOF and status tracking.
func Adapt(v any) Component {
	if c, ok := v.(Component); ok {
		return c
	}
	return &adapted{v: v, cat: CategoryOf(v) | CatEOF | CatStatus}
}

// adapted wraps a value that does not declare a category.
type adapted struct {
	v    any
	cat  Category
	eof  bool
	fail bool
}

func (a *adapted) Category() Category { return a.cat }

func (a *adapted) Read(p []byte) (int, error) {
	r, ok := a.v.(io.Reader)
	if !ok {
		return 0, ErrNotSupported
	}
	n, err := r.Read(p)
	a.eof = errors.Is(err, io.EOF)
	a.fail = err != nil && !errors.Is(err, io.EOF)
	return n, err
}

func (a *adapted) Write(p []byte) (int, error) {
	w, ok := a.v.(io.Writer)
	if !ok {
		return 0, ErrNotSupported
	}
	n, err := w.Write(p)
	a.fail = err != nil
	return n, err
}

func (a *adapted) seek(offset int64, dir SeekDir) (int64, error) {
	if s, ok := a.v.(io.Seeker); ok {
		pos, err := s.Seek(offset, int(dir))
		a.fail = err != nil
		if err == nil {
			a.eof = false
		}
		return pos, err
	}
	return 0, ErrNotSupported
}

func (a *adapted) SeekG(offset int64, dir SeekDir) (int64, error) {
	if s, ok := a.v.(InputSeeker); ok {
		return s.SeekG(offset, dir)
	}
	return a.seek(offset, dir)
}

func (a *adapted) TellG() int64 {
	if s, ok := a.v.(InputSeeker); ok {
		return s.TellG()
	}
	pos, _ := a.seek(0, SeekCurrent)
	return pos
}

func (a *adapted) SeekP(offset int64, dir SeekDir) (int64, error) {
	if s, ok := a.v.(OutputSeeker); ok {
		return s.SeekP(offset, dir)
	}
	return a.seek(offset, dir)
}

func (a *adapted) TellP() int64 {
	if s, ok := a.v.(OutputSeeker); ok {
		return s.TellP()
	}
	pos, _ := a.seek(0, SeekCurrent)
	return pos
}

func (a *adapted) Flush() error {
	if f, ok := a.v.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (a *adapted) EOF() bool {
	if e, ok := a.v.(EOFReporter); ok {
		return e.EOF()
	}
	return a.eof
}

func (a *adapted) Good() bool { return !a.eof && !a.fail }

func (a *adapted) Fail() bool { return a.fail }

func (a *adapted) Size() int64 {
	if s, ok := a.v.(Sizer); ok {
		return s.Size()
	}
	return 0
}

func (a *adapted) ReadLine() (string, error) {
	if l, ok := a.v.(LineReader); ok {
		return l.ReadLine()
	}
	return "", ErrNotSupported
}

func (a *adapted) Close() error {
	if c, ok := a.v.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ============================================================================
// Borrow
// ============================================================================

// Borrow returns a non-owning view of c. Every capability is forwarded
// unchanged, but Close is not: closing a pipeline built on a borrowed
// device leaves the device open. The view must not outlive c.
func Borrow(c Component) Component {
	return &borrowed{c: c}
}

type borrowed struct {
	c Component
}

func (b *borrowed) Category() Category { return b.c.Category() }

func (b *borrowed) Read(p []byte) (int, error) {
	if r, ok := b.c.(io.Reader); ok {
		return r.Read(p)
	}
	return 0, ErrNotSupported
}

func (b *borrowed) Write(p []byte) (int, error) {
	if w, ok := b.c.(io.Writer); ok {
		return w.Write(p)
	}
	return 0, ErrNotSupported
}

func (b *borrowed) SeekG(offset int64, dir SeekDir) (int64, error) {
	if s, ok := b.c.(InputSeeker); ok {
		return s.SeekG(offset, dir)
	}
	return 0, ErrNotSupported
}

func (b *borrowed) TellG() int64 {
	if s, ok := b.c.(InputSeeker); ok {
		return s.TellG()
	}
	return 0
}

func (b *borrowed) SeekP(offset int64, dir SeekDir) (int64, error) {
	if s, ok := b.c.(OutputSeeker); ok {
		return s.SeekP(offset, dir)
	}
	return 0, ErrNotSupported
}

func (b *borrowed) TellP() int64 {
	if s, ok := b.c.(OutputSeeker); ok {
		return s.TellP()
	}
	return 0
}

func (b *borrowed) Flush() error {
	if f, ok := b.c.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (b *borrowed) EOF() bool {
	if e, ok := b.c.(EOFReporter); ok {
		return e.EOF()
	}
	return false
}

func (b *borrowed) Good() bool {
	if s, ok := b.c.(StatusReporter); ok {
		return s.Good()
	}
	return true
}

func (b *borrowed) Fail() bool {
	if s, ok := b.c.(StatusReporter); ok {
		return s.Fail()
	}
	return false
}

func (b *borrowed) Size() int64 {
	if s, ok := b.c.(Sizer); ok {
		return s.Size()
	}
	return 0
}

func (b *borrowed) ReadLine() (string, error) {
	if l, ok := b.c.(LineReader); ok {
		return l.ReadLine()
	}
	return "", ErrNotSupported
}
