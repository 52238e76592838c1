package streamkit

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func compressInto(t *testing.T, codec Codec, data []byte) *testDevice {
	t.Helper()
	d := newTestDevice(nil)
	p, err := Pipe(Borrow(d), NewCompress(WithCodec(codec)))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) > 0 {
		if _, err := p.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	d.rewind()
	return d
}

func testPayloads() map[string][]byte {
	rng := rand.New(rand.NewSource(1))
	random := make([]byte, 3000)
	rng.Read(random)
	return map[string][]byte{
		"empty":      {},
		"one byte":   {0x42},
		"text":       []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 40)),
		"random":     random,
		"zero block": make([]byte, 70000),
	}
}

func TestCompressRoundTrip(t *testing.T) {
	for _, codec := range []Codec{CodecZlib, CodecGzip, CodecZstd, CodecDeflate} {
		for name, data := range testPayloads() {
			chunks := []int{1, 2, 16, 32, 128, 200, max(len(data), 1), max(2*len(data), 1)}
			for _, chunk := range chunks {
				d := compressInto(t, codec, data)
				p, err := Pipe(d, NewCompress(WithCodec(codec)))
				if err != nil {
					t.Fatal(err)
				}
				got, err := readChunks(p, chunk)
				if err != nil {
					t.Fatalf("%s/%s/chunk %d: %v", codec, name, chunk, err)
				}
				if diff := cmp.Diff(data, got, cmpBytes); diff != "" {
					t.Errorf("%s/%s/chunk %d: round trip mismatch (-want +got):\n%s", codec, name, chunk, diff)
				}
				if !p.EOF() {
					t.Errorf("%s/%s/chunk %d: expected EOF", codec, name, chunk)
				}
			}
		}
	}
}

// cmpBytes treats nil and empty slices as equal.
var cmpBytes = cmp.Comparer(func(a, b []byte) bool { return bytes.Equal(a, b) })

func TestCompressPartialWrites(t *testing.T) {
	data := []byte(strings.Repeat("partial writes ", 500))
	d := newTestDevice(nil)
	z := NewCompress()
	p, err := Pipe(Borrow(d), z)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(data); i += 7 {
		end := min(i+7, len(data))
		if _, err := p.Write(data[i:end]); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	d.rewind()
	r, err := Pipe(d, NewCompress())
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("round trip mismatch")
	}
}

func TestCompressCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		data  []byte
	}{
		{"zlib garbage", CodecZlib, []byte("definitely not zlib")},
		{"gzip garbage", CodecGzip, []byte("definitely not gzip")},
		{"zstd garbage", CodecZstd, []byte("definitely not zstd")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Pipe(newTestDevice(tt.data), NewCompress(WithCodec(tt.codec)))
			if err != nil {
				t.Fatal(err)
			}
			_, err = io.ReadAll(p)
			if !IsCorrupt(err) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
			if !p.Fail() {
				t.Error("expected Fail()")
			}
			// The failure is sticky.
			if _, err := p.Read(make([]byte, 8)); !IsCorrupt(err) {
				t.Errorf("second read = %v", err)
			}
		})
	}

	t.Run("truncated zlib", func(t *testing.T) {
		d := compressInto(t, CodecZlib, []byte(strings.Repeat("truncate me ", 100)))
		d.data = d.data[:len(d.data)/2]
		p, err := Pipe(d, NewCompress())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.ReadAll(p); !IsCorrupt(err) {
			t.Errorf("expected ErrCorrupt, got %v", err)
		}
	})
}

func TestCompressCategory(t *testing.T) {
	p, err := Pipe(newTestDevice(nil), NewCompress())
	if err != nil {
		t.Fatal(err)
	}
	if IsInputSeekable(p) || IsOutputSeekable(p) || HasSize(p) {
		t.Errorf("compressed chain must not be seekable or sized: %s", p.Category())
	}
	if !IsInput(p) || !IsOutput(p) || !IsFlushable(p) || !HasEOF(p) {
		t.Errorf("unexpected category %s", p.Category())
	}

	in, err := Pipe(newInputOnlyDevice(nil), NewCompress())
	if err != nil {
		t.Fatal(err)
	}
	if IsOutput(in) || IsFlushable(in) {
		t.Errorf("input-only chain gained %s", in.Category())
	}
}

func TestCompressWriteAfterClose(t *testing.T) {
	z := NewCompress()
	if _, err := z.Bind(newTestDevice(nil)); err != nil {
		t.Fatal(err)
	}
	if _, err := z.Write([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := z.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := z.Write([]byte("b")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestParseCodec(t *testing.T) {
	tests := []struct {
		in      string
		want    Codec
		wantErr bool
	}{
		{"", CodecZlib, false},
		{"ZSTD", CodecZstd, false},
		{" gzip ", CodecGzip, false},
		{"deflate", CodecDeflate, false},
		{"lz4", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCodec(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCodec(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCodec(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectCodec(t *testing.T) {
	for _, codec := range []Codec{CodecZlib, CodecGzip, CodecZstd} {
		d := compressInto(t, codec, []byte("sniff me"))
		got, ok := DetectCodec(d.data)
		if !ok || got != codec {
			t.Errorf("DetectCodec(%s stream) = %q, %v", codec, got, ok)
		}
	}
	if _, ok := DetectCodec([]byte("plain")); ok {
		t.Error("plain text must not be detected")
	}
	if _, ok := DetectCodec(nil); ok {
		t.Error("empty header must not be detected")
	}
}
