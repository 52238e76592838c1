// Package file provides file devices. Source is input-only, Sink is
// output-only and Device does both; the method sets differ, so a Sink
// cannot be handed to a streamkit.Reader at all.
//
// Read and write cursors are independent: every transfer is positioned
// (pread/pwrite), and the OS file offset is never used.
package file

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/gobeaver/streamkit"
)

const (
	defaultBufferSize = 64 * 1024
	lineChunkSize     = 512
)

// Option configures how a file is opened
type Option func(*options)

type options struct {
	bufferSize int
	exclusive  bool
	truncate   bool
	perm       os.FileMode
}

func defaultOptions() options {
	return options{
		bufferSize: defaultBufferSize,
		perm:       0644,
	}
}

// WithBufferSize sets the write buffer size. Zero disables buffering.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.bufferSize = n
		}
	}
}

// WithExclusive makes opening for write fail with ErrExist if the file
// already exists.
func WithExclusive() Option {
	return func(o *options) {
		o.exclusive = true
	}
}

// WithTruncate empties an existing file opened by OpenDevice.
func WithTruncate() Option {
	return func(o *options) {
		o.truncate = true
	}
}

// WithPerm sets the permissions of a created file.
func WithPerm(perm os.FileMode) Option {
	return func(o *options) {
		o.perm = perm
	}
}

// Open opens path for mode and returns a *Source, *Sink or *Device.
func Open(path string, mode streamkit.OpenMode, fmode streamkit.FileMode, opts ...Option) (streamkit.Component, error) {
	var (
		c   streamkit.Component
		err error
	)
	switch mode {
	case streamkit.ModeRead:
		c, err = nilIfErr(OpenSource(path, fmode, opts...))
	case streamkit.ModeWrite:
		c, err = nilIfErr(OpenSink(path, fmode, opts...))
	case streamkit.ModeReadWrite:
		c, err = nilIfErr(OpenDevice(path, fmode, opts...))
	default:
		err = &streamkit.PathError{Op: "open", Path: path, Err: streamkit.ErrInvalidMode}
	}
	return c, err
}

// nilIfErr keeps a failed open from producing a non-nil interface holding
// a nil pointer.
func nilIfErr[T streamkit.Component](c T, err error) (streamkit.Component, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

// handle is the state shared by every file device.
type handle struct {
	f      *os.File
	path   string
	text   bool
	eof    bool
	failed bool
	closed bool
}

func openHandle(path string, flag int, fmode streamkit.FileMode, o options) (*handle, error) {
	f, err := os.OpenFile(path, flag, o.perm)
	if err != nil {
		return nil, pathError("open", path, err)
	}
	streamkit.Logger().Debug("file opened", "path", path, "flag", flag, "mode", fmode.String())
	return &handle{f: f, path: path, text: fmode == streamkit.Text}, nil
}

// pathError maps OS errors onto the streamkit sentinels.
func pathError(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = streamkit.ErrNotExist
	case errors.Is(err, fs.ErrExist):
		err = streamkit.ErrExist
	case errors.Is(err, fs.ErrPermission):
		err = streamkit.ErrPermission
	case errors.Is(err, fs.ErrClosed):
		err = streamkit.ErrClosed
	}
	return &streamkit.PathError{Op: op, Path: path, Err: err}
}

func (h *handle) readAt(p []byte, pos *int64) (int, error) {
	if h.closed {
		return 0, streamkit.ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, err := h.f.ReadAt(p, *pos)
	*pos += int64(n)
	if n > 0 {
		h.eof = n < len(p)
		h.failed = false
		return n, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		h.eof = true
		h.failed = false
		return 0, io.EOF
	}
	h.failed = true
	return 0, pathError("read", h.path, err)
}

// readLine scans from pos for '\n' and returns the line without "\n" or
// "\r\n". A final line without a newline is returned as is.
func (h *handle) readLine(pos *int64) (string, error) {
	if h.closed {
		return "", streamkit.ErrClosed
	}
	var (
		line  []byte
		chunk [lineChunkSize]byte
	)
	for {
		n, err := h.f.ReadAt(chunk[:], *pos)
		if i := bytes.IndexByte(chunk[:n], '\n'); i >= 0 {
			line = append(line, chunk[:i]...)
			*pos += int64(i + 1)
			h.eof, h.failed = false, false
			return string(bytes.TrimSuffix(line, []byte{'\r'})), nil
		}
		line = append(line, chunk[:n]...)
		*pos += int64(n)
		if errors.Is(err, io.EOF) {
			h.eof = true
			h.failed = false
			if len(line) == 0 {
				return "", io.EOF
			}
			return string(line), nil
		}
		if err != nil {
			h.failed = true
			return "", pathError("read", h.path, err)
		}
	}
}

func (h *handle) statSize() int64 {
	if h.closed {
		return 0
	}
	fi, err := h.f.Stat()
	if err != nil {
		return 0
	}
	return fi.Size()
}

func (h *handle) seek(cur *int64, size, offset int64, dir streamkit.SeekDir) (int64, error) {
	if h.closed {
		return *cur, streamkit.ErrClosed
	}
	pos, err := streamkit.Resolve(*cur, size, offset, dir)
	if err != nil {
		h.failed = true
		return *cur, err
	}
	*cur = pos
	h.failed = false
	return pos, nil
}

func (h *handle) close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	streamkit.Logger().Debug("file closed", "path", h.path)
	if err := h.f.Close(); err != nil {
		return pathError("close", h.path, err)
	}
	return nil
}

// wbuffer buffers writes at a file offset.
type wbuffer struct {
	buf  []byte
	size int
	base int64 // file offset of buf[0]
}

func (wb *wbuffer) tell() int64 {
	return wb.base + int64(len(wb.buf))
}

func (h *handle) writeAt(wb *wbuffer, p []byte) (int, error) {
	if h.closed {
		return 0, streamkit.ErrClosed
	}
	if len(wb.buf)+len(p) > wb.size {
		if err := h.flushBuffer(wb); err != nil {
			return 0, err
		}
	}
	if len(p) >= wb.size {
		n, err := h.f.WriteAt(p, wb.base)
		wb.base += int64(n)
		if err != nil {
			h.failed = true
			return n, pathError("write", h.path, err)
		}
		h.failed = false
		return n, nil
	}
	wb.buf = append(wb.buf, p...)
	h.failed = false
	return len(p), nil
}

func (h *handle) flushBuffer(wb *wbuffer) error {
	if h.closed {
		return streamkit.ErrClosed
	}
	if len(wb.buf) == 0 {
		return nil
	}
	n, err := h.f.WriteAt(wb.buf, wb.base)
	wb.base += int64(n)
	wb.buf = append(wb.buf[:0], wb.buf[n:]...)
	if err != nil {
		h.failed = true
		return pathError("flush", h.path, err)
	}
	return nil
}

func (h *handle) seekP(wb *wbuffer, offset int64, dir streamkit.SeekDir) (int64, error) {
	if err := h.flushBuffer(wb); err != nil {
		return wb.tell(), err
	}
	return h.seek(&wb.base, max(h.statSize(), wb.base), offset, dir)
}
