package streamkit

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readAllLines(t *testing.T, l LineReader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := l.ReadLine()
		if errors.Is(err, io.EOF) {
			return lines
		}
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		lines = append(lines, line)
	}
}

func TestLinesReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []LineOption
		want  []string
	}{
		{"empty", "", nil, nil},
		{"single unterminated", "abc", nil, []string{"abc"}},
		{"terminated", "a\nb\n", nil, []string{"a", "b"}},
		{"crlf", "a\r\nb\r\nc", nil, []string{"a", "b", "c"}},
		{"blank lines", "\n\nx\n", nil, []string{"", "", "x"}},
		{"custom delimiter", "a;b;c", []LineOption{WithDelimiter(';')}, []string{"a", "b", "c"}},
		{"long line over small buffer", "0123456789012345678901234567890123456789\nz", []LineOption{WithLineBufferSize(16)},
			[]string{"0123456789012345678901234567890123456789", "z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Pipe(newTestDevice([]byte(tt.input)), NewLines(tt.opts...))
			if err != nil {
				t.Fatal(err)
			}
			if !IsLineOriented(p) {
				t.Fatalf("expected line-oriented pipeline, got %s", p.Category())
			}
			got := readAllLines(t, p)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
			if !p.EOF() {
				t.Error("expected EOF after the last line")
			}
			// Exhausted input keeps reporting io.EOF.
			if _, err := p.ReadLine(); !errors.Is(err, io.EOF) {
				t.Errorf("ReadLine after end = %v", err)
			}
		})
	}
}

func TestLinesMaxLength(t *testing.T) {
	p, err := Pipe(newTestDevice([]byte("short\nthis line is too long\n")), NewLines(WithMaxLineLength(8)))
	if err != nil {
		t.Fatal(err)
	}
	line, err := p.ReadLine()
	if err != nil || line != "short" {
		t.Fatalf("ReadLine() = %q, %v", line, err)
	}
	if _, err := p.ReadLine(); !errors.Is(err, ErrLineTooLong) {
		t.Errorf("expected ErrLineTooLong, got %v", err)
	}
	if !p.Fail() {
		t.Error("expected Fail()")
	}
}

func TestLinesWrite(t *testing.T) {
	d := newTestDevice(nil)
	l := NewLines()
	p, err := Pipe(Borrow(d), l)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Write([]byte("first\nsec")); err != nil {
		t.Fatal(err)
	}
	if string(d.data) != "first\n" {
		t.Errorf("after partial line: device has %q", d.data)
	}
	if _, err := p.Write([]byte("ond")); err != nil {
		t.Fatal(err)
	}
	if string(d.data) != "first\n" {
		t.Errorf("incomplete line forwarded early: %q", d.data)
	}
	if err := p.Flush(); err != nil {
		t.Fatal(err)
	}
	if string(d.data) != "first\nsecond" {
		t.Errorf("after flush: device has %q", d.data)
	}
	if d.flushes != 1 {
		t.Errorf("device flushed %d times, want 1", d.flushes)
	}

	if _, err := p.Write([]byte("\nthird")); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if string(d.data) != "first\nsecond\nthird" {
		t.Errorf("after close: device has %q", d.data)
	}
}

func TestLinesWriteShort(t *testing.T) {
	tests := []struct {
		name   string
		held   string
		p      string
		wantN  int
		wanted string
	}{
		{"nothing held", "", "ab\ncd\n", 4, "ab\ncd\n"},
		{"partial line held", "xy", "z\n12\n", 2, "xyz\n12\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &shortWriter{limit: 4}
			p, err := Pipe(Adapt(w), NewLines())
			if err != nil {
				t.Fatal(err)
			}
			if tt.held != "" {
				if n, err := p.Write([]byte(tt.held)); n != len(tt.held) || err != nil {
					t.Fatalf("Write(%q) = %d, %v", tt.held, n, err)
				}
			}

			n, err := p.Write([]byte(tt.p))
			if n != tt.wantN || !errors.Is(err, io.ErrShortWrite) {
				t.Fatalf("Write() = %d, %v; want %d, io.ErrShortWrite", n, err, tt.wantN)
			}

			// Retrying the unaccepted tail must not duplicate bytes.
			if _, err := p.Write([]byte(tt.p[n:])); err != nil {
				t.Fatal(err)
			}
			if err := p.Close(); err != nil {
				t.Fatal(err)
			}
			if got := w.buf.String(); got != tt.wanted {
				t.Errorf("writer got %q, want %q", got, tt.wanted)
			}
		})
	}
}

func TestLinesCategory(t *testing.T) {
	p, err := Pipe(newTestDevice(nil), NewLines())
	if err != nil {
		t.Fatal(err)
	}
	if IsInputSeekable(p) || IsOutputSeekable(p) || HasSize(p) {
		t.Errorf("line filter must not seek: %s", p.Category())
	}

	out, err := Pipe(newOutputOnlyDevice(), NewLines())
	if err != nil {
		t.Fatal(err)
	}
	if IsLineOriented(out) {
		t.Error("output-only chain cannot read lines")
	}
	if _, err := out.ReadLine(); !errors.Is(err, ErrNotSupported) {
		t.Errorf("expected ErrNotSupported, got %v", err)
	}
}
