package streamkit

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const defaultLineBufferSize = 4096

// Lines is a line-buffering filter. On the read side it adds ReadLine over
// any input; on the write side it forwards only complete lines and holds a
// trailing partial line until Flush or Close. Seeking is not supported.
type Lines struct {
	link
	delim   byte
	maxLen  int
	bufSize int

	br      *bufio.Reader
	pending []byte

	atEOF  bool
	failed bool
}

// LineOption configures a Lines filter.
type LineOption func(*Lines)

// WithDelimiter sets the line delimiter. The default is '\n'; with the
// default delimiter a preceding '\r' is stripped too.
func WithDelimiter(delim byte) LineOption {
	return func(l *Lines) {
		l.delim = delim
	}
}

// WithMaxLineLength limits ReadLine to lines of at most n bytes.
// Zero means unlimited.
func WithMaxLineLength(n int) LineOption {
	return func(l *Lines) {
		l.maxLen = n
	}
}

// WithLineBufferSize sets the read-ahead buffer size.
func WithLineBufferSize(n int) LineOption {
	return func(l *Lines) {
		l.bufSize = n
	}
}

// NewLines creates a line-buffering filter.
func NewLines(opts ...LineOption) *Lines {
	l := &Lines{
		delim:   '\n',
		bufSize: defaultLineBufferSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name implements Filter.
func (l *Lines) Name() string {
	return fmt.Sprintf("lines(%q)", l.delim)
}

// Bind implements Filter. The next component must be an input or output.
func (l *Lines) Bind(next Component) (Component, error) {
	if err := l.attach(l.Name(), next, 0, CatInput|CatOutput); err != nil {
		return nil, err
	}
	if next.Category().Has(CatInput) {
		l.br = bufio.NewReaderSize(nextReader{&l.link}, l.bufSize)
	}
	return l, nil
}

// Category keeps the directions of the next component, adds line reading
// on input and flushing on output, and drops seeking and size.
func (l *Lines) Category() Category {
	next := l.nextCategory()
	cat := next&(CatInput|CatOutput) | CatStatus
	if next.Has(CatInput) {
		cat |= CatEOF | CatLineOriented
	}
	if next.Has(CatOutput) {
		cat |= CatFlushable
	}
	return cat
}

// Read reads buffered bytes.
func (l *Lines) Read(p []byte) (int, error) {
	if l.br == nil {
		return 0, ErrNotSupported
	}
	n, err := l.br.Read(p)
	if errors.Is(err, io.EOF) {
		l.atEOF = true
	} else {
		l.failed = err != nil
	}
	return n, err
}

// ReadLine returns the next line without its delimiter. A final line
// without a delimiter is returned as is; after that ReadLine returns
// io.EOF.
func (l *Lines) ReadLine() (string, error) {
	if l.br == nil {
		return "", ErrNotSupported
	}
	var line []byte
	for {
		frag, err := l.br.ReadSlice(l.delim)
		line = append(line, frag...)
		if l.maxLen > 0 && len(line) > l.maxLen+1 {
			l.failed = true
			return "", fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, l.maxLen)
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			l.atEOF = true
			if len(line) == 0 {
				return "", io.EOF
			}
			return string(line), nil
		}
		l.failed = true
		return "", err
	}

	line = line[:len(line)-1]
	if l.delim == '\n' {
		line = bytes.TrimSuffix(line, []byte{'\r'})
	}
	if l.maxLen > 0 && len(line) > l.maxLen {
		l.failed = true
		return "", fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, l.maxLen)
	}
	return string(line), nil
}

// Write buffers p and forwards every complete line.
func (l *Lines) Write(p []byte) (int, error) {
	if !l.nextCategory().Has(CatOutput) {
		return 0, ErrNotSupported
	}
	held := len(l.pending)
	l.pending = append(l.pending, p...)
	i := bytes.LastIndexByte(l.pending, l.delim)
	if i < 0 {
		return len(p), nil
	}
	written, err := l.forward(i + 1)
	if err != nil {
		// n counts the bytes of p the next component accepted. The unsent
		// tail of p is not kept.
		n := max(written-held, 0)
		l.pending = l.pending[:len(l.pending)-(len(p)-n)]
		return n, err
	}
	return len(p), nil
}

// forward writes the first n pending bytes to the next component and
// reports how many were accepted.
func (l *Lines) forward(n int) (int, error) {
	written, err := l.write(l.pending[:n])
	l.pending = l.pending[written:]
	if err == nil && written < n {
		err = io.ErrShortWrite
	}
	l.failed = err != nil
	return written, err
}

// Flush forwards a pending partial line and flushes the next component.
func (l *Lines) Flush() error {
	if len(l.pending) > 0 {
		if _, err := l.forward(len(l.pending)); err != nil {
			return err
		}
	}
	return l.flush()
}

// EOF reports whether the input is exhausted.
func (l *Lines) EOF() bool { return l.atEOF }

// Good reports whether the last operation succeeded without reaching EOF.
func (l *Lines) Good() bool { return !l.failed && !l.atEOF }

// Fail reports whether the last operation failed.
func (l *Lines) Fail() bool { return l.failed }

// Close forwards a pending partial line. It does not close the next
// component.
func (l *Lines) Close() error {
	if len(l.pending) == 0 {
		return nil
	}
	return l.Flush()
}

var (
	_ Filter     = (*Lines)(nil)
	_ LineReader = (*Lines)(nil)
	_ io.Closer  = (*Lines)(nil)
)
