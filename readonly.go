package streamkit

import (
	"errors"
)

// ErrReadOnly is returned when a write is attempted through a read-only link.
var ErrReadOnly = errors.New("stream is read-only")

// ============================================================================
// ReadOnly Filter
// ============================================================================

// ReadOnly narrows the next component to its read side. The output,
// output-seekable and flushable capabilities are removed from the
// category, so a pipeline built with it has no live Write. Calling Write
// on the filter directly fails with ErrReadOnly unless a handler allows it.
//
// Example:
//
//	dev, _ := file.OpenSource("data.bin", streamkit.Binary)
//	p, _ := streamkit.Pipe(dev, streamkit.NewReadOnly())
//	streamkit.IsOutput(p) // false
type ReadOnly struct {
	link
	opts ReadOnlyOptions
}

// ReadOnlyOptions configures the ReadOnly filter.
type ReadOnlyOptions struct {
	// OnWriteAttempt is called when Write is invoked on the filter.
	// If it returns nil the write is forwarded (use carefully).
	OnWriteAttempt func(size int) error

	// ErrorWrapper customizes the error returned for rejected writes.
	ErrorWrapper func(err error) error
}

// ReadOnlyOption is a functional option for configuring ReadOnly.
type ReadOnlyOption func(*ReadOnlyOptions)

// WithWriteAttemptHandler sets a custom handler for write attempts.
func WithWriteAttemptHandler(handler func(size int) error) ReadOnlyOption {
	return func(o *ReadOnlyOptions) {
		o.OnWriteAttempt = handler
	}
}

// WithErrorWrapper sets a custom error wrapper for write attempts.
func WithErrorWrapper(wrapper func(err error) error) ReadOnlyOption {
	return func(o *ReadOnlyOptions) {
		o.ErrorWrapper = wrapper
	}
}

// NewReadOnly creates a read-only filter.
func NewReadOnly(opts ...ReadOnlyOption) *ReadOnly {
	options := ReadOnlyOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return &ReadOnly{opts: options}
}

// Name implements Filter.
func (r *ReadOnly) Name() string {
	return "read-only"
}

// Bind implements Filter. The next component must be an input.
func (r *ReadOnly) Bind(next Component) (Component, error) {
	if err := r.attach(r.Name(), next, CatInput, 0); err != nil {
		return nil, err
	}
	return r, nil
}

// Category removes the write-side capabilities.
func (r *ReadOnly) Category() Category {
	return r.nextCategory() &^ (CatOutput | CatOutputSeekable | CatFlushable)
}

// Unwrap returns the next component.
func (r *ReadOnly) Unwrap() Component {
	return r.next
}

// IsReadOnly returns true, indicating this is a read-only link.
func (r *ReadOnly) IsReadOnly() bool {
	return true
}

func (r *ReadOnly) readOnlyError(size int) error {
	if r.opts.OnWriteAttempt != nil {
		if err := r.opts.OnWriteAttempt(size); err != nil {
			if r.opts.ErrorWrapper != nil {
				return r.opts.ErrorWrapper(err)
			}
			return err
		}
		return nil
	}
	if r.opts.ErrorWrapper != nil {
		return r.opts.ErrorWrapper(ErrReadOnly)
	}
	return ErrReadOnly
}

// Write rejects the write unless OnWriteAttempt allows it.
func (r *ReadOnly) Write(p []byte) (int, error) {
	if err := r.readOnlyError(len(p)); err != nil {
		return 0, err
	}
	return r.write(p)
}

func (r *ReadOnly) Read(p []byte) (int, error) { return r.read(p) }

func (r *ReadOnly) SeekG(offset int64, dir SeekDir) (int64, error) { return r.seekG(offset, dir) }
func (r *ReadOnly) TellG() int64                                   { return r.tellG() }

func (r *ReadOnly) EOF() bool   { return r.eof() }
func (r *ReadOnly) Good() bool  { return r.good() }
func (r *ReadOnly) Fail() bool  { return r.fail() }
func (r *ReadOnly) Size() int64 { return r.size() }

// ReadLine forwards to a line-oriented next component.
func (r *ReadOnly) ReadLine() (string, error) {
	if l, ok := r.next.(LineReader); ok && r.nextCategory().Has(CatLineOriented) {
		return l.ReadLine()
	}
	return "", ErrNotSupported
}

var (
	_ Filter     = (*ReadOnly)(nil)
	_ LineReader = (*ReadOnly)(nil)
)
