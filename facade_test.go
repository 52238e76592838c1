package streamkit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// shortWriter accepts at most limit bytes per call without reporting an
// error, like a device that ran out of space.
type shortWriter struct {
	limit int
	buf   bytes.Buffer
}

func (w *shortWriter) Write(p []byte) (int, error) {
	n := min(w.limit, len(p))
	w.buf.Write(p[:n])
	return n, nil
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func roundTripValue[T Fixed](t *testing.T, order binary.ByteOrder, v T) {
	t.Helper()
	d := newTestDevice(nil)
	if err := WriteValue(NewWriter(d, WithByteOrder(order)), v); err != nil {
		t.Fatalf("WriteValue(%T): %v", v, err)
	}
	if len(d.data) != binary.Size(v) {
		t.Errorf("%T: wrote %d bytes, want %d", v, len(d.data), binary.Size(v))
	}
	got, err := ReadValue[T](NewReader(d, WithByteOrder(order)))
	if err != nil {
		t.Fatalf("ReadValue(%T): %v", v, err)
	}
	if got != v {
		t.Errorf("%T: got %v, want %v", v, got, v)
	}
}

type level uint16

func TestValueRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			roundTripValue(t, order, true)
			roundTripValue(t, order, int8(-7))
			roundTripValue(t, order, uint8(200))
			roundTripValue(t, order, int16(-12345))
			roundTripValue(t, order, uint16(54321))
			roundTripValue(t, order, int32(math.MinInt32))
			roundTripValue(t, order, uint32(0xdeadbeef))
			roundTripValue(t, order, int64(math.MinInt64+1))
			roundTripValue(t, order, uint64(math.MaxUint64))
			roundTripValue(t, order, float32(3.25))
			roundTripValue(t, order, math.Pi)
			roundTripValue(t, order, complex64(1+2i))
			roundTripValue(t, order, complex(-1.5, 0.25))
			roundTripValue(t, order, level(9))
		})
	}
}

func TestValueByteOrder(t *testing.T) {
	tests := []struct {
		order binary.ByteOrder
		want  []byte
	}{
		{binary.LittleEndian, []byte{0x04, 0x03, 0x02, 0x01}},
		{binary.BigEndian, []byte{0x01, 0x02, 0x03, 0x04}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := WriteValue(NewWriter(&buf, WithByteOrder(tt.order)), uint32(0x01020304)); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buf.Bytes(), tt.want) {
			t.Errorf("%s: wrote % x, want % x", tt.order, buf.Bytes(), tt.want)
		}
	}

	// Little-endian is the default.
	var buf bytes.Buffer
	if err := WriteValue(NewWriter(&buf), uint16(0x0102)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x02, 0x01}) {
		t.Errorf("default order wrote % x", buf.Bytes())
	}
}

func TestReaderShortRead(t *testing.T) {
	d := newTestDevice([]byte{1, 2, 3})
	r := NewReader(d)
	_, err := ReadValue[uint64](r)

	var se *StreamError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StreamError, got %T %v", err, err)
	}
	if !errors.Is(err, ErrShortRead) || !IsShortTransfer(err) {
		t.Errorf("expected ErrShortRead, got %v", err)
	}
	if se.Want != 8 || se.Got != 3 {
		t.Errorf("Want=%d Got=%d", se.Want, se.Got)
	}

	// The device itself reports the partial transfer as a plain count.
	d.rewind()
	n, err := d.Read(make([]byte, 8))
	if n != 3 || err != nil {
		t.Errorf("device Read() = %d, %v", n, err)
	}
}

func TestReaderUnderlyingError(t *testing.T) {
	errBoom := errors.New("boom")
	_, err := NewReader(failingReader{errBoom}).ReadBytes(4)
	if !errors.Is(err, errBoom) || !errors.Is(err, ErrShortRead) {
		t.Errorf("expected both the cause and ErrShortRead, got %v", err)
	}
}

func TestWriterShortWrite(t *testing.T) {
	w := &shortWriter{limit: 3}
	err := WriteValue(NewWriter(w), uint64(1))
	var se *StreamError
	if !errors.As(err, &se) || !errors.Is(err, ErrShortWrite) {
		t.Fatalf("expected short write StreamError, got %v", err)
	}
	if se.Want != 8 || se.Got != 3 {
		t.Errorf("Want=%d Got=%d", se.Want, se.Got)
	}
}

func TestBytesAndStrings(t *testing.T) {
	d := newTestDevice(nil)
	w := NewWriter(d)
	if err := w.WriteBytes([]byte{0xca, 0xfe}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("streamkit"); err != nil {
		t.Fatal(err)
	}

	r := NewReader(d)
	b, err := r.ReadBytes(2)
	if err != nil || !bytes.Equal(b, []byte{0xca, 0xfe}) {
		t.Fatalf("ReadBytes() = % x, %v", b, err)
	}
	s, err := r.ReadString(9)
	if err != nil || s != "streamkit" {
		t.Fatalf("ReadString() = %q, %v", s, err)
	}
	if _, err := r.ReadBytes(-1); !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("negative count: %v", err)
	}
	if _, err := r.ReadString(1); !errors.Is(err, ErrShortRead) {
		t.Errorf("read past end: %v", err)
	}
}

func TestVectors(t *testing.T) {
	d := newTestDevice(nil)
	w := NewWriter(d)
	if err := WriteVector(w, []int8{-1, 2, -3}); err != nil {
		t.Fatal(err)
	}
	if err := WriteVector(w, []byte{9, 8}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(d.data, []byte{0xff, 0x02, 0xfd, 9, 8}) {
		t.Errorf("wrote % x", d.data)
	}

	r := NewReader(d)
	signed, err := ReadVector[int8](r, 3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int8{-1, 2, -3}, signed); diff != "" {
		t.Errorf("signed vector mismatch (-want +got):\n%s", diff)
	}
	unsigned, err := ReadVector[uint8](r, 2)
	if err != nil || !bytes.Equal(unsigned, []byte{9, 8}) {
		t.Errorf("ReadVector() = %v, %v", unsigned, err)
	}
}

func TestReaderReadLine(t *testing.T) {
	want := []string{"a", "b", "", "c"}
	input := "a\r\nb\n\nc"

	t.Run("byte scan", func(t *testing.T) {
		r := NewReader(strings.NewReader(input))
		var got []string
		for {
			line, err := r.ReadLine()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatal(err)
			}
			got = append(got, line)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("lines mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("line-oriented input", func(t *testing.T) {
		p, err := Pipe(newTestDevice([]byte(input)), NewLines())
		if err != nil {
			t.Fatal(err)
		}
		r := NewReader(p)
		if r.lines == nil {
			t.Fatal("expected the reader to use the pipeline's ReadLine")
		}
		got := readAllLines(t, r)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("lines mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestUUID(t *testing.T) {
	id := uuid.New()
	d := newTestDevice(nil)
	if err := NewWriter(d).WriteUUID(id); err != nil {
		t.Fatal(err)
	}
	got, err := NewReader(d).ReadUUID()
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Errorf("ReadUUID() = %s, want %s", got, id)
	}
	if _, err := NewReader(newTestDevice(id[:8])).ReadUUID(); !errors.Is(err, ErrShortRead) {
		t.Errorf("truncated uuid: %v", err)
	}
}

type record struct {
	Name  string
	Tags  []string
	Count int
}

func TestCBOR(t *testing.T) {
	in := record{Name: "pipeline", Tags: []string{"a", "b"}, Count: 3}
	d := newTestDevice(nil)
	if err := NewWriter(d).WriteCBOR(in); err != nil {
		t.Fatal(err)
	}

	var out record
	if err := NewReader(d).ReadCBOR(&out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("cbor round trip mismatch (-want +got):\n%s", diff)
	}

	bad := newTestDevice(nil)
	if err := WritePrefixedBytes[uint32](NewWriter(bad), []byte{0xff}); err != nil {
		t.Fatal(err)
	}
	if err := NewReader(bad).ReadCBOR(&out); !IsCorrupt(err) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestFacadeConstructionPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil reader", func() { NewReader(nil) }},
		{"nil writer", func() { NewWriter(nil) }},
		{"reader over output-only", func() { NewReader(newOutputOnlyDevice()) }},
		{"writer over input-only", func() { NewWriter(newInputOnlyDevice(nil)) }},
		{"writer over read-only pipeline", func() {
			p, err := Pipe(newTestDevice(nil), NewReadOnly())
			if err != nil {
				t.Fatal(err)
			}
			NewWriter(p)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestWriterFlush(t *testing.T) {
	d := newTestDevice(nil)
	if err := NewWriter(d).Flush(); err != nil {
		t.Fatal(err)
	}
	if d.flushes != 1 {
		t.Errorf("flushes = %d", d.flushes)
	}

	// Plain writers have nothing to flush.
	if err := NewWriter(&bytes.Buffer{}).Flush(); err != nil {
		t.Fatal(err)
	}
}

func TestParseByteOrder(t *testing.T) {
	tests := []struct {
		in   string
		want binary.ByteOrder
	}{
		{"", binary.LittleEndian},
		{"LE", binary.LittleEndian},
		{"big", binary.BigEndian},
		{"big-endian", binary.BigEndian},
	}
	for _, tt := range tests {
		got, err := ParseByteOrder(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseByteOrder(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseByteOrder("middle"); err == nil {
		t.Error("expected error")
	}
	if _, err := ParseByteOrder("native"); err != nil {
		t.Error(err)
	}
}
