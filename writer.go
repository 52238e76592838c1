package streamkit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// Writer is a typed, non-owning façade over an output. Each value is
// written with a single Write call on the output; anything less than a
// complete transfer is returned as a *StreamError.
type Writer struct {
	w    io.Writer
	opts FacadeOptions
}

// NewWriter wraps w. It panics if w is a Component whose category lacks
// CatOutput, such as a pipeline over a read-only device.
func NewWriter(w io.Writer, opts ...FacadeOption) *Writer {
	if w == nil {
		panic("streamkit: NewWriter with nil output")
	}
	if c, ok := w.(Component); ok && !c.Category().Has(CatOutput) {
		panic(fmt.Sprintf("streamkit: NewWriter over component without output capability (%s)", c.Category()))
	}

	o := defaultFacadeOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Writer{w: w, opts: o}
}

// Underlying returns the wrapped output.
func (w *Writer) Underlying() io.Writer {
	return w.w
}

func (w *Writer) writeAll(op string, p []byte) error {
	n, err := w.w.Write(p)
	if n == len(p) && err == nil {
		return nil
	}
	if err == nil || errors.Is(err, io.ErrShortWrite) {
		err = ErrShortWrite
	} else {
		err = fmt.Errorf("%w: %w", ErrShortWrite, err)
	}
	return &StreamError{Op: op, Want: len(p), Got: n, Err: err}
}

// WriteValue writes exactly one fixed-width value.
func WriteValue[T Fixed](w *Writer, v T) error {
	buf, err := binary.Append(nil, w.opts.ByteOrder, v)
	if err != nil {
		return &StreamError{Op: fmt.Sprintf("encode %T", v), Err: err}
	}
	return w.writeAll(fmt.Sprintf("write %T", v), buf)
}

// WriteBytes writes all of p.
func (w *Writer) WriteBytes(p []byte) error {
	return w.writeAll("write bytes", p)
}

// WriteString writes the bytes of s without a length.
func (w *Writer) WriteString(s string) error {
	return w.writeAll("write string", []byte(s))
}

// WriteVector writes every one-byte element of v in a single call.
func WriteVector[E OneByte](w *Writer, v []E) error {
	if b, ok := any(v).([]byte); ok {
		return w.writeAll("write vector", b)
	}
	b := make([]byte, len(v))
	for i, e := range v {
		b[i] = byte(e)
	}
	return w.writeAll("write vector", b)
}

// WriteUUID writes the 16 bytes of id.
func (w *Writer) WriteUUID(id uuid.UUID) error {
	return w.writeAll("write uuid", id[:])
}

// WriteCBOR encodes v as CBOR and writes it with a uint32 length prefix.
func (w *Writer) WriteCBOR(v any) error {
	payload, err := cbor.Marshal(v)
	if err != nil {
		return &StreamError{Op: "encode cbor", Err: err}
	}
	return WritePrefixedBytes[uint32](w, payload)
}

// Flush flushes the output if it is flushable.
func (w *Writer) Flush() error {
	if !CategoryOf(w.w).Has(CatFlushable) {
		return nil
	}
	f, ok := w.w.(Flusher)
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		return &StreamError{Op: "flush", Err: err}
	}
	return nil
}

func (w *Writer) checkLength(n uint64) error {
	if w.opts.MaxLength > 0 && n > w.opts.MaxLength {
		return fmt.Errorf("%w: %d exceeds limit %d", ErrLengthOverflow, n, w.opts.MaxLength)
	}
	return nil
}
