package streamkit

import "fmt"

// SeekOffset shifts absolute seeks by a fixed offset so a region of the
// next component starting at Offset can be addressed from 0.
//
// SeekG(x, SeekBegin) moves the next component to x+Offset and TellG
// reports the next component's position plus Offset; the same holds for
// the write side. Relative seeks pass through unchanged. Every other
// capability of the next component is forwarded.
type SeekOffset struct {
	link
	offset int64
}

// NewSeekOffset creates a seek-offset filter for the constant k.
func NewSeekOffset(k int64) *SeekOffset {
	return &SeekOffset{offset: k}
}

// Name implements Filter.
func (s *SeekOffset) Name() string {
	return fmt.Sprintf("seek-offset(%d)", s.offset)
}

// Offset returns the constant added to absolute positions.
func (s *SeekOffset) Offset() int64 {
	return s.offset
}

// Bind implements Filter. The next component must be seekable in at least
// one direction.
func (s *SeekOffset) Bind(next Component) (Component, error) {
	if err := s.attach(s.Name(), next, 0, CatInputSeekable|CatOutputSeekable); err != nil {
		return nil, err
	}
	return s, nil
}

// Category forwards the next component's category.
func (s *SeekOffset) Category() Category {
	return s.nextCategory() &^ CatLineOriented
}

func (s *SeekOffset) Read(p []byte) (int, error)  { return s.read(p) }
func (s *SeekOffset) Write(p []byte) (int, error) { return s.write(p) }

// shift applies the offset to absolute seeks.
func (s *SeekOffset) shift(offset int64, dir SeekDir) (int64, error) {
	if dir != SeekBegin {
		return offset, nil
	}
	if offset+s.offset < 0 {
		return 0, ErrInvalidOffset
	}
	return offset + s.offset, nil
}

// SeekG seeks the read cursor; absolute seeks are shifted by the offset.
func (s *SeekOffset) SeekG(offset int64, dir SeekDir) (int64, error) {
	shifted, err := s.shift(offset, dir)
	if err != nil {
		return 0, err
	}
	if _, err := s.seekG(shifted, dir); err != nil {
		return 0, err
	}
	return s.TellG(), nil
}

// TellG returns the next component's read position plus the offset.
func (s *SeekOffset) TellG() int64 {
	return s.tellG() + s.offset
}

// SeekP seeks the write cursor; absolute seeks are shifted by the offset.
func (s *SeekOffset) SeekP(offset int64, dir SeekDir) (int64, error) {
	shifted, err := s.shift(offset, dir)
	if err != nil {
		return 0, err
	}
	if _, err := s.seekP(shifted, dir); err != nil {
		return 0, err
	}
	return s.TellP(), nil
}

// TellP returns the next component's write position plus the offset.
func (s *SeekOffset) TellP() int64 {
	return s.tellP() + s.offset
}

func (s *SeekOffset) Flush() error { return s.flush() }
func (s *SeekOffset) EOF() bool    { return s.eof() }
func (s *SeekOffset) Good() bool   { return s.good() }
func (s *SeekOffset) Fail() bool   { return s.fail() }
func (s *SeekOffset) Size() int64  { return s.size() }

var _ Filter = (*SeekOffset)(nil)
