package streamkit

import (
	"io"
)

// testDevice is a minimal in-memory device for package tests. Its category
// can be narrowed to exercise capability checks.
type testDevice struct {
	data    []byte
	rpos    int64
	wpos    int64
	cat     Category
	eof     bool
	failed  bool
	flushes int
	closes  int
}

const fullCategory = CatInput | CatOutput | CatInputSeekable | CatOutputSeekable |
	CatFlushable | CatEOF | CatStatus | CatSize

func newTestDevice(data []byte) *testDevice {
	return &testDevice{data: data, cat: fullCategory}
}

func newInputOnlyDevice(data []byte) *testDevice {
	return &testDevice{data: data, cat: CatInput | CatEOF | CatStatus}
}

func newOutputOnlyDevice() *testDevice {
	return &testDevice{cat: CatOutput | CatFlushable | CatStatus}
}

func (d *testDevice) Category() Category { return d.cat }

func (d *testDevice) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if d.rpos >= int64(len(d.data)) {
		d.eof = true
		return 0, io.EOF
	}
	n := copy(p, d.data[d.rpos:])
	d.rpos += int64(n)
	d.eof = n < len(p)
	return n, nil
}

func (d *testDevice) Write(p []byte) (int, error) {
	end := d.wpos + int64(len(p))
	if end > int64(len(d.data)) {
		grown := make([]byte, end)
		copy(grown, d.data)
		d.data = grown
	}
	copy(d.data[d.wpos:], p)
	d.wpos = end
	return len(p), nil
}

func (d *testDevice) SeekG(offset int64, dir SeekDir) (int64, error) {
	pos, err := Resolve(d.rpos, int64(len(d.data)), offset, dir)
	d.failed = err != nil
	if err != nil {
		return d.rpos, err
	}
	d.rpos, d.eof = pos, false
	return pos, nil
}

func (d *testDevice) TellG() int64 { return d.rpos }

func (d *testDevice) SeekP(offset int64, dir SeekDir) (int64, error) {
	pos, err := Resolve(d.wpos, int64(len(d.data)), offset, dir)
	d.failed = err != nil
	if err != nil {
		return d.wpos, err
	}
	d.wpos = pos
	return pos, nil
}

func (d *testDevice) TellP() int64 { return d.wpos }

func (d *testDevice) Flush() error {
	d.flushes++
	return nil
}

func (d *testDevice) EOF() bool   { return d.eof }
func (d *testDevice) Good() bool  { return !d.eof && !d.failed }
func (d *testDevice) Fail() bool  { return d.failed }
func (d *testDevice) Size() int64 { return int64(len(d.data)) }

func (d *testDevice) Close() error {
	d.closes++
	return nil
}

// rewind moves the read cursor back to the start.
func (d *testDevice) rewind() {
	d.rpos, d.eof = 0, false
}

// readChunks drains r with reads of at most chunk bytes.
func readChunks(r io.Reader, chunk int) ([]byte, error) {
	var out []byte
	buf := make([]byte, chunk)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
