package streamkit

import (
	"io"
	"strings"
)

// Category is the set of operations a device, filter or pipeline supports.
// Tags are pure markers; a component declares its category and must then
// implement the matching capability interface below.
type Category uint16

const (
	// CatInput marks components implementing Input.
	CatInput Category = 1 << iota
	// CatOutput marks components implementing Output.
	CatOutput
	// CatInputSeekable marks components implementing InputSeeker.
	CatInputSeekable
	// CatOutputSeekable marks components implementing OutputSeeker.
	CatOutputSeekable
	// CatFlushable marks components implementing Flusher.
	CatFlushable
	// CatEOF marks components implementing EOFReporter.
	CatEOF
	// CatStatus marks components implementing StatusReporter.
	CatStatus
	// CatSize marks components implementing Sizer.
	CatSize
	// CatLineOriented marks components with an optimized LineReader.
	CatLineOriented
)

var categoryNames = []struct {
	cat  Category
	name string
}{
	{CatInput, "input"},
	{CatOutput, "output"},
	{CatInputSeekable, "input_seekable"},
	{CatOutputSeekable, "output_seekable"},
	{CatFlushable, "flushable"},
	{CatEOF, "has_eof"},
	{CatStatus, "has_status"},
	{CatSize, "has_size"},
	{CatLineOriented, "line_oriented"},
}

// Has reports whether c includes every tag in want.
func (c Category) Has(want Category) bool {
	return c&want == want
}

// HasAny reports whether c includes at least one tag in want.
func (c Category) HasAny(want Category) bool {
	return c&want != 0
}

// String returns the tag names joined by "|".
func (c Category) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, n := range categoryNames {
		if c.Has(n.cat) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ============================================================================
// Capability Interfaces
// ============================================================================
// A component exposes an operation by implementing the interface and
// declaring the tag. Use the predicates below rather than bare type
// assertions: filters implement the full method set and rely on their
// declared category to say which methods are live.

// Component is implemented by every device, bound filter and pipeline.
type Component interface {
	Category() Category
}

// Input reads bytes at the read cursor. A short read is not an error:
// Read returns (n, nil) for n > 0 and (0, io.EOF) once data is exhausted.
type Input = io.Reader

// Output writes bytes at the write cursor.
type Output = io.Writer

// InputSeeker moves the read cursor.
type InputSeeker interface {
	// SeekG repositions the read cursor and returns the new position.
	// On error the cursor is unchanged.
	SeekG(offset int64, dir SeekDir) (int64, error)

	// TellG returns the read cursor position.
	TellG() int64
}

// OutputSeeker moves the write cursor.
type OutputSeeker interface {
	// SeekP repositions the write cursor and returns the new position.
	// On error the cursor is unchanged.
	SeekP(offset int64, dir SeekDir) (int64, error)

	// TellP returns the write cursor position.
	TellP() int64
}

// Flusher forces buffered writes to the backing store.
type Flusher interface {
	Flush() error
}

// EOFReporter reports whether the last read ran out of data.
type EOFReporter interface {
	EOF() bool
}

// StatusReporter mirrors the outcome of the last operation.
type StatusReporter interface {
	Good() bool
	Fail() bool
}

// Sizer reports the total addressable length of the underlying data.
type Sizer interface {
	Size() int64
}

// LineReader returns one line per call with the trailing "\n" or "\r\n"
// removed, and io.EOF once input is exhausted.
type LineReader interface {
	ReadLine() (string, error)
}

// ============================================================================
// Trait Predicates
// ============================================================================

// CategoryOf returns the declared category of a Component, or the category
// implied by the method set of any other value.
func CategoryOf(v any) Category {
	if c, ok := v.(Component); ok {
		return c.Category()
	}
	var cat Category
	_, isReader := v.(io.Reader)
	_, isWriter := v.(io.Writer)
	_, isSeeker := v.(io.Seeker)
	if isReader {
		cat |= CatInput
	}
	if isWriter {
		cat |= CatOutput
	}
	if isSeeker {
		// A plain io.Seeker has one cursor; it is attributed to the read side
		// when both directions exist.
		if isReader {
			cat |= CatInputSeekable
		} else if isWriter {
			cat |= CatOutputSeekable
		}
	}
	if _, ok := v.(InputSeeker); ok {
		cat |= CatInputSeekable
	}
	if _, ok := v.(OutputSeeker); ok {
		cat |= CatOutputSeekable
	}
	if _, ok := v.(Flusher); ok {
		cat |= CatFlushable
	}
	if _, ok := v.(EOFReporter); ok {
		cat |= CatEOF
	}
	if _, ok := v.(StatusReporter); ok {
		cat |= CatStatus
	}
	if _, ok := v.(Sizer); ok {
		cat |= CatSize
	}
	if _, ok := v.(LineReader); ok {
		cat |= CatLineOriented
	}
	return cat
}

// IsInput reports whether v supports Read.
func IsInput(v any) bool { return CategoryOf(v).Has(CatInput) }

// IsOutput reports whether v supports Write.
func IsOutput(v any) bool { return CategoryOf(v).Has(CatOutput) }

// IsInputSeekable reports whether v supports SeekG/TellG.
func IsInputSeekable(v any) bool { return CategoryOf(v).Has(CatInputSeekable) }

// IsOutputSeekable reports whether v supports SeekP/TellP.
func IsOutputSeekable(v any) bool { return CategoryOf(v).Has(CatOutputSeekable) }

// IsFlushable reports whether v supports Flush.
func IsFlushable(v any) bool { return CategoryOf(v).Has(CatFlushable) }

// HasEOF reports whether v supports EOF.
func HasEOF(v any) bool { return CategoryOf(v).Has(CatEOF) }

// HasStatus reports whether v supports Good/Fail.
func HasStatus(v any) bool { return CategoryOf(v).Has(CatStatus) }

// HasSize reports whether v supports Size.
func HasSize(v any) bool { return CategoryOf(v).Has(CatSize) }

// IsLineOriented reports whether v advertises an optimized ReadLine.
func IsLineOriented(v any) bool { return CategoryOf(v).Has(CatLineOriented) }

func anyHas(want Category, vs []any) bool {
	for _, v := range vs {
		if CategoryOf(v).Has(want) {
			return true
		}
	}
	return false
}

// AnyInput reports whether at least one of vs supports Read.
func AnyInput(vs ...any) bool { return anyHas(CatInput, vs) }

// AnyOutput reports whether at least one of vs supports Write.
func AnyOutput(vs ...any) bool { return anyHas(CatOutput, vs) }

// AnyInputSeekable reports whether at least one of vs supports SeekG.
func AnyInputSeekable(vs ...any) bool { return anyHas(CatInputSeekable, vs) }

// AnyOutputSeekable reports whether at least one of vs supports SeekP.
func AnyOutputSeekable(vs ...any) bool { return anyHas(CatOutputSeekable, vs) }

// AnyFlushable reports whether at least one of vs supports Flush.
func AnyFlushable(vs ...any) bool { return anyHas(CatFlushable, vs) }

// AnyEOF reports whether at least one of vs supports EOF.
func AnyEOF(vs ...any) bool { return anyHas(CatEOF, vs) }

// AnyStatus reports whether at least one of vs supports Good/Fail.
func AnyStatus(vs ...any) bool { return anyHas(CatStatus, vs) }

// AnySize reports whether at least one of vs supports Size.
func AnySize(vs ...any) bool { return anyHas(CatSize, vs) }

// Verify capability interfaces are satisfied by the adapter at compile time.
var (
	_ Component   = (*adapted)(nil)
	_ InputSeeker = (*adapted)(nil)
)
