package streamkit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func TestPrefixedRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 70000} {
		s := strings.Repeat("p", n)
		d := newTestDevice(nil)
		if err := WritePrefixed[uint32](NewWriter(d), s); err != nil {
			t.Fatalf("len %d: %v", n, err)
		}
		if len(d.data) != 4+n {
			t.Errorf("len %d: wrote %d bytes", n, len(d.data))
		}
		got, err := ReadPrefixed[uint32](NewReader(d))
		if err != nil {
			t.Fatalf("len %d: %v", n, err)
		}
		if got != s {
			t.Errorf("len %d: round trip mismatch", n)
		}
	}
}

func TestPrefixedEncoding(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePrefixed[uint16](NewWriter(&buf, WithByteOrder(binary.BigEndian)), "hi"); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x00, 0x02, 'h', 'i'}) {
		t.Errorf("wrote % x", buf.Bytes())
	}
}

func TestPrefixedOverflow(t *testing.T) {
	d := newTestDevice(nil)
	w := NewWriter(d)
	if err := WritePrefixed[uint8](w, strings.Repeat("x", 255)); err != nil {
		t.Fatalf("255 bytes must fit a uint8 prefix: %v", err)
	}

	d = newTestDevice(nil)
	err := WritePrefixed[uint8](NewWriter(d), strings.Repeat("x", 256))
	if !errors.Is(err, ErrLengthOverflow) {
		t.Fatalf("expected ErrLengthOverflow, got %v", err)
	}
	var se *StreamError
	if !errors.As(err, &se) {
		t.Errorf("expected *StreamError, got %T", err)
	}
	if len(d.data) != 0 {
		t.Errorf("overflow wrote %d bytes", len(d.data))
	}
}

func TestPrefixedMaxLength(t *testing.T) {
	d := newTestDevice(nil)
	if err := WritePrefixed[uint32](NewWriter(d, WithMaxLength(4)), "toolong"); !errors.Is(err, ErrLengthOverflow) {
		t.Errorf("write over limit: %v", err)
	}
	if len(d.data) != 0 {
		t.Error("rejected write reached the device")
	}

	if err := WritePrefixed[uint32](NewWriter(d), "toolong"); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPrefixed[uint32](NewReader(d, WithMaxLength(4))); !errors.Is(err, ErrLengthOverflow) {
		t.Errorf("read over limit: %v", err)
	}
}

func TestPrefixedTruncated(t *testing.T) {
	d := newTestDevice(nil)
	if err := WritePrefixed[uint16](NewWriter(d), "complete"); err != nil {
		t.Fatal(err)
	}
	d.data = d.data[:5]
	_, err := ReadPrefixed[uint16](NewReader(d))
	var se *StreamError
	if !errors.As(err, &se) || !errors.Is(err, ErrShortRead) {
		t.Fatalf("expected short read, got %v", err)
	}
	if se.Want != 8 || se.Got != 3 {
		t.Errorf("Want=%d Got=%d", se.Want, se.Got)
	}
}

func TestPrefixedBoundary(t *testing.T) {
	d := newTestDevice(nil)
	max16 := strings.Repeat("b", 65535)
	if err := WritePrefixed[uint16](NewWriter(d), max16); err != nil {
		t.Fatalf("65535 bytes must fit a uint16 prefix: %v", err)
	}
	got, err := ReadPrefixed[uint16](NewReader(d))
	if err != nil || got != max16 {
		t.Fatalf("ReadPrefixed() = %d bytes, %v", len(got), err)
	}

	d = newTestDevice(nil)
	err = WritePrefixed[uint16](NewWriter(d), max16+"b")
	if !errors.Is(err, ErrLengthOverflow) {
		t.Errorf("65536 bytes: expected ErrLengthOverflow, got %v", err)
	}
	if len(d.data) != 0 {
		t.Errorf("overflow wrote %d bytes", len(d.data))
	}
}

func TestPrefixedCorruptLength(t *testing.T) {
	tests := []struct {
		name string
		read func(r *Reader) error
		data []byte
	}{
		{
			name: "uint64 length near MaxInt",
			read: func(r *Reader) error { _, err := ReadPrefixed[uint64](r); return err },
			data: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x3f, 'x'},
		},
		{
			name: "uint32 length of 4 GiB",
			read: func(r *Reader) error { _, err := ReadPrefixedBytes[uint32](r); return err },
			data: []byte{0xff, 0xff, 0xff, 0xff, 'x', 'y'},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewReader(bytes.NewReader(tt.data)))
			var se *StreamError
			if !errors.As(err, &se) {
				t.Fatalf("expected *StreamError, got %T %v", err, err)
			}
			if !errors.Is(err, ErrShortRead) && !errors.Is(err, ErrLengthOverflow) {
				t.Errorf("expected a short read or overflow, got %v", err)
			}
		})
	}
}

func TestPrefixedLengthPastEnd(t *testing.T) {
	d := newTestDevice(nil)
	if err := WriteValue(NewWriter(d), uint32(1000)); err != nil {
		t.Fatal(err)
	}
	if err := NewWriter(d).WriteString("abc"); err != nil {
		t.Fatal(err)
	}

	_, err := ReadPrefixed[uint32](NewReader(d))
	var se *StreamError
	if !errors.As(err, &se) || !errors.Is(err, ErrShortRead) {
		t.Fatalf("expected short read, got %v", err)
	}
	if se.Want != 1000 || se.Got != 3 {
		t.Errorf("Want=%d Got=%d", se.Want, se.Got)
	}
	if d.TellG() != 4 {
		t.Errorf("payload was consumed: read cursor at %d", d.TellG())
	}
}
