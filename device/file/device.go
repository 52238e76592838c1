package file

import (
	"io"
	"os"

	"github.com/gobeaver/streamkit"
)

// Device is a bidirectional file device with independent read and write
// cursors. Buffered writes are flushed before every read and read-side
// seek, so reads always observe earlier writes.
type Device struct {
	h    *handle
	rpos int64
	wb   wbuffer
}

// OpenDevice opens path for reading and writing, creating it if needed.
func OpenDevice(path string, fmode streamkit.FileMode, opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	flag := os.O_RDWR | os.O_CREATE
	if o.exclusive {
		flag |= os.O_EXCL
	}
	if o.truncate {
		flag |= os.O_TRUNC
	}
	h, err := openHandle(path, flag, fmode, o)
	if err != nil {
		return nil, err
	}
	return &Device{h: h, wb: wbuffer{size: o.bufferSize}}, nil
}

// Path returns the file path.
func (d *Device) Path() string { return d.h.path }

// Category implements streamkit.Component. Text mode adds CatLineOriented.
func (d *Device) Category() streamkit.Category {
	cat := streamkit.CatInput | streamkit.CatOutput |
		streamkit.CatInputSeekable | streamkit.CatOutputSeekable |
		streamkit.CatFlushable | streamkit.CatEOF | streamkit.CatStatus | streamkit.CatSize
	if d.h.text {
		cat |= streamkit.CatLineOriented
	}
	return cat
}

// Read flushes pending writes and reads at the read cursor.
func (d *Device) Read(p []byte) (int, error) {
	if err := d.h.flushBuffer(&d.wb); err != nil {
		return 0, err
	}
	return d.h.readAt(p, &d.rpos)
}

// ReadLine flushes pending writes and reads one line at the read cursor.
func (d *Device) ReadLine() (string, error) {
	if err := d.h.flushBuffer(&d.wb); err != nil {
		return "", err
	}
	return d.h.readLine(&d.rpos)
}

// Write writes at the write cursor through the buffer.
func (d *Device) Write(p []byte) (int, error) {
	return d.h.writeAt(&d.wb, p)
}

// Flush writes buffered bytes to the file.
func (d *Device) Flush() error {
	return d.h.flushBuffer(&d.wb)
}

// SeekG moves the read cursor.
func (d *Device) SeekG(offset int64, dir streamkit.SeekDir) (int64, error) {
	if err := d.h.flushBuffer(&d.wb); err != nil {
		return d.rpos, err
	}
	pos, err := d.h.seek(&d.rpos, d.h.statSize(), offset, dir)
	if err == nil {
		d.h.eof = false
	}
	return pos, err
}

// TellG returns the read cursor.
func (d *Device) TellG() int64 { return d.rpos }

// SeekP flushes and moves the write cursor.
func (d *Device) SeekP(offset int64, dir streamkit.SeekDir) (int64, error) {
	return d.h.seekP(&d.wb, offset, dir)
}

// TellP returns the write cursor, including buffered bytes.
func (d *Device) TellP() int64 { return d.wb.tell() }

// EOF reports whether the last read ran out of data.
func (d *Device) EOF() bool { return d.h.eof }

// Good reports whether the last operation succeeded without reaching EOF.
func (d *Device) Good() bool { return !d.h.closed && !d.h.eof && !d.h.failed }

// Fail reports whether the last operation failed.
func (d *Device) Fail() bool { return d.h.failed }

// Size returns the file size, including buffered bytes.
func (d *Device) Size() int64 { return max(d.h.statSize(), d.wb.tell()) }

// Close flushes and closes the file.
func (d *Device) Close() error {
	if d.h.closed {
		return nil
	}
	ferr := d.Flush()
	if err := d.h.close(); err != nil {
		return err
	}
	return ferr
}

// Verify interface compliance at compile time
var (
	_ streamkit.Component    = (*Device)(nil)
	_ io.ReadWriteCloser     = (*Device)(nil)
	_ streamkit.InputSeeker  = (*Device)(nil)
	_ streamkit.OutputSeeker = (*Device)(nil)
	_ streamkit.LineReader   = (*Device)(nil)
)
