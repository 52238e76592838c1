package streamkit

import (
	"fmt"
)

// LengthType is the set of integer types a length prefix may use.
type LengthType interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// maxLength returns the largest length representable by L.
func maxLength[L LengthType]() uint64 {
	return uint64(^L(0))
}

// WritePrefixed writes len(s) as an L followed by the bytes of s. A length
// that does not fit L fails with ErrLengthOverflow before anything is
// written.
func WritePrefixed[L LengthType](w *Writer, s string) error {
	return WritePrefixedBytes[L](w, []byte(s))
}

// WritePrefixedBytes is WritePrefixed for a byte slice.
func WritePrefixedBytes[L LengthType](w *Writer, p []byte) error {
	n := uint64(len(p))
	if limit := maxLength[L](); n > limit {
		return &StreamError{
			Op:  fmt.Sprintf("write prefixed %T", L(0)),
			Err: fmt.Errorf("%w: %d > %d", ErrLengthOverflow, n, limit),
		}
	}
	if err := w.checkLength(n); err != nil {
		return &StreamError{Op: fmt.Sprintf("write prefixed %T", L(0)), Err: err}
	}
	if err := WriteValue(w, L(n)); err != nil {
		return err
	}
	return w.writeAll("write prefixed payload", p)
}

// ReadPrefixed reads an L length followed by exactly that many bytes.
func ReadPrefixed[L LengthType](r *Reader) (string, error) {
	b, err := ReadPrefixedBytes[L](r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadPrefixedBytes is ReadPrefixed for a byte slice.
func ReadPrefixedBytes[L LengthType](r *Reader) ([]byte, error) {
	n, err := ReadValue[L](r)
	if err != nil {
		return nil, err
	}
	if err := r.checkLength(uint64(n)); err != nil {
		return nil, &StreamError{Op: fmt.Sprintf("read prefixed %T", n), Err: err}
	}
	return r.readPayload("read prefixed payload", int64(n), true)
}
