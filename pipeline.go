package streamkit

import (
	"errors"
	"fmt"
	"io"
)

// Pipeline is a chain of filters bound around exactly one terminal device.
//
// Its category is derived link by link at construction and the operation
// interfaces are resolved once, so a call on the pipeline is a nil check
// and a direct call on the outermost link. Operations outside the category
// return ErrNotSupported.
//
// Example:
//
//	mem := memory.New()
//	zw := streamkit.NewCompress(streamkit.WithCodec(streamkit.CodecZlib))
//	p, err := streamkit.Pipe(mem, zw)
//	if err != nil {
//	    return err
//	}
//	w := streamkit.NewWriter(p)
//	_ = streamkit.WriteValue(w, uint32(42))
//	_ = p.Close()
type Pipeline struct {
	device  Component
	head    Component
	filters []Filter
	cat     Category
	closed  bool

	r  io.Reader
	w  io.Writer
	sg InputSeeker
	sp OutputSeeker
	fl Flusher
	ef EOFReporter
	st StatusReporter
	sz Sizer
	lr LineReader
}

// Pipe binds filters around dev from the inside out: the first filter wraps
// dev, the second wraps the first, and so on. A filter whose requirements
// are not met by the component it wraps aborts the composition.
func Pipe(dev Component, filters ...Filter) (*Pipeline, error) {
	if dev == nil {
		return nil, fmt.Errorf("pipe: %w: nil device", ErrNotSupported)
	}

	head := dev
	for _, f := range filters {
		bound, err := f.Bind(head)
		if err != nil {
			return nil, fmt.Errorf("pipe: %w", err)
		}
		head = bound
	}

	p := &Pipeline{
		device:  dev,
		head:    head,
		filters: filters,
		cat:     head.Category(),
	}
	p.resolve()

	Logger().Debug("pipeline composed",
		"device", fmt.Sprintf("%T", dev),
		"filters", len(filters),
		"category", p.cat.String())

	return p, nil
}

// resolve caches the operation interfaces the category allows.
func (p *Pipeline) resolve() {
	if p.cat.Has(CatInput) {
		p.r, _ = p.head.(io.Reader)
	}
	if p.cat.Has(CatOutput) {
		p.w, _ = p.head.(io.Writer)
	}
	if p.cat.Has(CatInputSeekable) {
		p.sg, _ = p.head.(InputSeeker)
	}
	if p.cat.Has(CatOutputSeekable) {
		p.sp, _ = p.head.(OutputSeeker)
	}
	if p.cat.Has(CatFlushable) {
		p.fl, _ = p.head.(Flusher)
	}
	if p.cat.Has(CatEOF) {
		p.ef, _ = p.head.(EOFReporter)
	}
	if p.cat.Has(CatStatus) {
		p.st, _ = p.head.(StatusReporter)
	}
	if p.cat.Has(CatSize) {
		p.sz, _ = p.head.(Sizer)
	}
	if p.cat.Has(CatLineOriented) {
		p.lr, _ = p.head.(LineReader)
	}
}

// Category returns the combined category of the chain.
func (p *Pipeline) Category() Category {
	return p.cat
}

// Device returns the terminal device.
func (p *Pipeline) Device() Component {
	return p.device
}

// Filters returns the bound filters, innermost first.
func (p *Pipeline) Filters() []Filter {
	return p.filters
}

// Read reads through the chain.
func (p *Pipeline) Read(b []byte) (int, error) {
	if p.closed {
		return 0, ErrClosed
	}
	if p.r == nil {
		return 0, ErrNotSupported
	}
	return p.r.Read(b)
}

// Write writes through the chain.
func (p *Pipeline) Write(b []byte) (int, error) {
	if p.closed {
		return 0, ErrClosed
	}
	if p.w == nil {
		return 0, ErrNotSupported
	}
	return p.w.Write(b)
}

// SeekG moves the read cursor of the chain.
func (p *Pipeline) SeekG(offset int64, dir SeekDir) (int64, error) {
	if p.closed {
		return 0, ErrClosed
	}
	if p.sg == nil {
		return 0, ErrNotSupported
	}
	return p.sg.SeekG(offset, dir)
}

// TellG returns the read cursor of the chain, or -1 if not seekable.
func (p *Pipeline) TellG() int64 {
	if p.sg == nil {
		return -1
	}
	return p.sg.TellG()
}

// SeekP moves the write cursor of the chain.
func (p *Pipeline) SeekP(offset int64, dir SeekDir) (int64, error) {
	if p.closed {
		return 0, ErrClosed
	}
	if p.sp == nil {
		return 0, ErrNotSupported
	}
	return p.sp.SeekP(offset, dir)
}

// TellP returns the write cursor of the chain, or -1 if not seekable.
func (p *Pipeline) TellP() int64 {
	if p.sp == nil {
		return -1
	}
	return p.sp.TellP()
}

// Flush flushes every buffering link down to the device.
func (p *Pipeline) Flush() error {
	if p.closed {
		return ErrClosed
	}
	if p.fl == nil {
		return ErrNotSupported
	}
	return p.fl.Flush()
}

// EOF reports whether the last read ran out of data.
func (p *Pipeline) EOF() bool {
	return p.ef != nil && p.ef.EOF()
}

// Good reports whether the last operation succeeded without reaching EOF.
func (p *Pipeline) Good() bool {
	return !p.closed && (p.st == nil || p.st.Good())
}

// Fail reports whether the last operation failed.
func (p *Pipeline) Fail() bool {
	return p.st != nil && p.st.Fail()
}

// Size returns the size reported by the chain, or -1 if it has none.
func (p *Pipeline) Size() int64 {
	if p.sz == nil {
		return -1
	}
	return p.sz.Size()
}

// ReadLine reads one line through a line-oriented chain.
func (p *Pipeline) ReadLine() (string, error) {
	if p.closed {
		return "", ErrClosed
	}
	if p.lr == nil {
		return "", ErrNotSupported
	}
	return p.lr.ReadLine()
}

// Close finishes the filters outermost first, then closes the device if it
// is an io.Closer. Wrap the device with Borrow to keep it open.
func (p *Pipeline) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for i := len(p.filters) - 1; i >= 0; i-- {
		if c, ok := p.filters[i].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", p.filters[i].Name(), err))
			}
		}
	}
	if c, ok := p.device.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close device: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		Logger().Warn("pipeline close failed", "err", err)
	}
	return err
}

// Verify interface compliance at compile time
var (
	_ Component    = (*Pipeline)(nil)
	_ io.Reader    = (*Pipeline)(nil)
	_ io.Writer    = (*Pipeline)(nil)
	_ InputSeeker  = (*Pipeline)(nil)
	_ OutputSeeker = (*Pipeline)(nil)
	_ LineReader   = (*Pipeline)(nil)
)
