package streamkit

import (
	"fmt"
	"io"
	"math"
)

// SeekDir is the origin a seek offset is relative to.
type SeekDir int

// The values match io.SeekStart, io.SeekCurrent and io.SeekEnd.
const (
	SeekBegin   SeekDir = io.SeekStart
	SeekCurrent SeekDir = io.SeekCurrent
	SeekEnd     SeekDir = io.SeekEnd
)

// String returns the direction name.
func (d SeekDir) String() string {
	switch d {
	case SeekBegin:
		return "begin"
	case SeekCurrent:
		return "current"
	case SeekEnd:
		return "end"
	default:
		return fmt.Sprintf("SeekDir(%d)", int(d))
	}
}

// Resolve computes the absolute position for a seek of offset relative to
// dir, given the current cursor and the size of the data. It does not bound
// the result from above; devices that cannot address past size check that
// themselves.
func Resolve(cur, size, offset int64, dir SeekDir) (int64, error) {
	var base int64
	switch dir {
	case SeekBegin:
		base = 0
	case SeekCurrent:
		base = cur
	case SeekEnd:
		base = size
	default:
		return 0, ErrInvalidWhence
	}
	if (offset > 0 && base > math.MaxInt64-offset) || base+offset < 0 {
		return 0, ErrInvalidOffset
	}
	return base + offset, nil
}
