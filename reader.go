package streamkit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// Fixed is the set of fixed-width values the façades encode.
type Fixed interface {
	~bool |
		~int8 | ~uint8 | ~int16 | ~uint16 |
		~int32 | ~uint32 | ~int64 | ~uint64 |
		~float32 | ~float64 | ~complex64 | ~complex128
}

// OneByte is the set of element types allowed in vector transfers.
type OneByte interface {
	~uint8 | ~int8
}

// Reader is a typed, non-owning façade over an input. Every method either
// transfers exactly what was asked or returns a *StreamError; there is no
// partial success at this layer.
type Reader struct {
	r     io.Reader
	lines LineReader
	opts  FacadeOptions
}

// NewReader wraps r. It panics if r is a Component whose category lacks
// CatInput, such as a pipeline over a write-only device.
func NewReader(r io.Reader, opts ...FacadeOption) *Reader {
	if r == nil {
		panic("streamkit: NewReader with nil input")
	}
	cat := CategoryOf(r)
	if c, ok := r.(Component); ok && !c.Category().Has(CatInput) {
		panic(fmt.Sprintf("streamkit: NewReader over component without input capability (%s)", cat))
	}

	o := defaultFacadeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rd := &Reader{r: r, opts: o}
	if cat.Has(CatLineOriented) {
		rd.lines, _ = r.(LineReader)
	}
	return rd
}

// Underlying returns the wrapped input.
func (r *Reader) Underlying() io.Reader {
	return r.r
}

// ReadFull fills p or fails with ErrShortRead.
func (r *Reader) ReadFull(p []byte) error {
	return r.readFull("read", p)
}

func (r *Reader) readFull(op string, p []byte) error {
	n, err := io.ReadFull(r.r, p)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrShortRead
	} else {
		err = fmt.Errorf("%w: %w", ErrShortRead, err)
	}
	return &StreamError{Op: op, Want: len(p), Got: n, Err: err}
}

// payloadChunk caps how far an allocation may run ahead of the bytes
// actually read, so a corrupt length cannot force a huge buffer.
const payloadChunk = 64 << 10

// readPayload reads exactly n bytes, growing the buffer as data arrives.
// With bounded set, a length past the end of a bare device fails before
// anything is read.
func (r *Reader) readPayload(op string, n int64, bounded bool) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	if bounded {
		if left, ok := r.remaining(); ok && n > left {
			return nil, &StreamError{Op: op, Want: int(n), Got: int(left), Err: ErrShortRead}
		}
	}

	var buf bytes.Buffer
	buf.Grow(int(min(n, payloadChunk)))
	got, err := io.CopyN(&buf, r.r, n)
	if got == n {
		return buf.Bytes(), nil
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrShortRead
	} else {
		err = fmt.Errorf("%w: %w", ErrShortRead, err)
	}
	return nil, &StreamError{Op: op, Want: int(n), Got: int(got), Err: err}
}

// remaining reports the bytes left before the end of a sized, seekable
// device. Filters may shift positions, so filtered inputs report false.
func (r *Reader) remaining() (int64, bool) {
	switch v := r.r.(type) {
	case Filter:
		return 0, false
	case *Pipeline:
		if len(v.Filters()) > 0 {
			return 0, false
		}
	}
	if !CategoryOf(r.r).Has(CatSize | CatInputSeekable) {
		return 0, false
	}
	sz, ok := r.r.(Sizer)
	if !ok {
		return 0, false
	}
	sk, ok := r.r.(InputSeeker)
	if !ok {
		return 0, false
	}
	size := sz.Size()
	if size < 0 {
		return 0, false
	}
	return max(size-sk.TellG(), 0), true
}

// ReadValue reads exactly one fixed-width value.
func ReadValue[T Fixed](r *Reader) (T, error) {
	var v T
	buf := make([]byte, binary.Size(v))
	if err := r.readFull(fmt.Sprintf("read %T", v), buf); err != nil {
		return v, err
	}
	if _, err := binary.Decode(buf, r.opts.ByteOrder, &v); err != nil {
		return v, &StreamError{Op: fmt.Sprintf("decode %T", v), Err: err}
	}
	return v, nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, &StreamError{Op: "read bytes", Err: ErrInvalidOffset}
	}
	return r.readPayload("read bytes", int64(n), false)
}

// ReadString reads exactly n bytes as a string.
func (r *Reader) ReadString(n int) (string, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadVector reads exactly n one-byte elements.
func ReadVector[E OneByte](r *Reader, n int) ([]E, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]E, n)
	for i, c := range b {
		out[i] = E(c)
	}
	return out, nil
}

// ReadLine returns the next line with its "\n" or "\r\n" stripped, and
// io.EOF once the input is exhausted. A line-oriented input answers
// directly; any other input is scanned one byte per call.
func (r *Reader) ReadLine() (string, error) {
	if r.lines != nil {
		line, err := r.lines.ReadLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return "", &StreamError{Op: "read line", Err: err}
		}
		return line, err
	}

	var (
		line []byte
		one  [1]byte
	)
	for {
		n, err := r.r.Read(one[:])
		if n == 1 {
			if one[0] == '\n' {
				if k := len(line); k > 0 && line[k-1] == '\r' {
					line = line[:k-1]
				}
				return string(line), nil
			}
			line = append(line, one[0])
			continue
		}
		if errors.Is(err, io.EOF) {
			if len(line) == 0 {
				return "", io.EOF
			}
			return string(line), nil
		}
		if err != nil {
			return "", &StreamError{Op: "read line", Got: len(line), Err: err}
		}
	}
}

// ReadUUID reads a 16-byte UUID.
func (r *Reader) ReadUUID() (uuid.UUID, error) {
	var id uuid.UUID
	if err := r.readFull("read uuid", id[:]); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// ReadCBOR reads a uint32 length-prefixed CBOR payload into v.
func (r *Reader) ReadCBOR(v any) error {
	payload, err := ReadPrefixedBytes[uint32](r)
	if err != nil {
		return err
	}
	if err := cbor.Unmarshal(payload, v); err != nil {
		return &StreamError{Op: "decode cbor", Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	return nil
}

// checkLength validates a decoded prefix against the configured limit.
func (r *Reader) checkLength(n uint64) error {
	if r.opts.MaxLength > 0 && n > r.opts.MaxLength {
		return fmt.Errorf("%w: %d exceeds limit %d", ErrLengthOverflow, n, r.opts.MaxLength)
	}
	if n > math.MaxInt {
		return fmt.Errorf("%w: %d", ErrLengthOverflow, n)
	}
	return nil
}
