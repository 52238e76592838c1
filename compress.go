package streamkit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Compress compresses bytes written through it and decompresses bytes read
// through it. The read side keeps decompressed bytes that did not fit the
// caller's buffer for the next Read, so any buffer size works. Corrupt
// input is a hard failure wrapping ErrCorrupt.
//
// Compressed streams have no meaningful byte positions, so the filter is
// never seekable and never sized. Close must be called to finish the
// compressed stream on the write side.
type Compress struct {
	link
	codec Codec
	level int

	zr io.ReadCloser
	zw compressWriter

	rerr     error
	atEOF    bool
	failed   bool
	finished bool
}

// maxEmptyReads bounds consecutive (0, nil) reads from a codec.
const maxEmptyReads = 100

// CompressOption configures a Compress filter.
type CompressOption func(*Compress)

// WithCodec selects the compression format. The default is CodecZlib.
func WithCodec(c Codec) CompressOption {
	return func(z *Compress) {
		z.codec = c
	}
}

// WithLevel sets the codec-specific compression level.
func WithLevel(level int) CompressOption {
	return func(z *Compress) {
		z.level = level
	}
}

// NewCompress creates a compression filter.
func NewCompress(opts ...CompressOption) *Compress {
	z := &Compress{
		codec: CodecZlib,
		level: DefaultCompressionLevel,
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Name implements Filter.
func (z *Compress) Name() string {
	return fmt.Sprintf("compress(%s)", z.codec)
}

// Codec returns the configured codec.
func (z *Compress) Codec() Codec {
	return z.codec
}

// Bind implements Filter. The next component must be an input or output.
func (z *Compress) Bind(next Component) (Component, error) {
	if _, err := ParseCodec(string(z.codec)); err != nil {
		return nil, fmt.Errorf("%s: %w", z.Name(), err)
	}
	if err := z.attach(z.Name(), next, 0, CatInput|CatOutput); err != nil {
		return nil, err
	}
	Logger().Debug("compression filter bound", "codec", z.codec, "level", z.level)
	return z, nil
}

// Category keeps the directions of the next component and drops seeking
// and size.
func (z *Compress) Category() Category {
	next := z.nextCategory()
	cat := next&(CatInput|CatOutput) | CatStatus
	if next.Has(CatInput) {
		cat |= CatEOF
	}
	if next.Has(CatOutput) {
		cat |= CatFlushable
	}
	return cat
}

// nextReader exposes the next component's read side to the codec.
type nextReader struct{ l *link }

func (n nextReader) Read(p []byte) (int, error) { return n.l.read(p) }

// nextWriter exposes the next component's write side to the codec.
type nextWriter struct{ l *link }

func (n nextWriter) Write(p []byte) (int, error) { return n.l.write(p) }

// Read returns decompressed bytes.
func (z *Compress) Read(p []byte) (int, error) {
	if !z.nextCategory().Has(CatInput) {
		return 0, ErrNotSupported
	}
	if z.rerr != nil {
		return 0, z.rerr
	}
	if len(p) == 0 {
		return 0, nil
	}
	if z.atEOF {
		return 0, io.EOF
	}

	if z.zr == nil {
		// No compressed bytes at all reads as empty content; some codecs
		// would report that as a truncated header.
		var first [1]byte
		n, err := io.ReadFull(nextReader{&z.link}, first[:])
		if n == 0 {
			if errors.Is(err, io.EOF) {
				z.atEOF = true
				return 0, io.EOF
			}
			return 0, z.readFailure(err)
		}
		src := io.MultiReader(bytes.NewReader(first[:]), nextReader{&z.link})
		zr, err := newDecompressReader(z.codec, src)
		if err != nil {
			return 0, z.readFailure(err)
		}
		z.zr = zr
	}

	for empty := 0; ; empty++ {
		n, err := z.zr.Read(p)
		switch {
		case err == nil:
			if n == 0 {
				if empty >= maxEmptyReads {
					return 0, z.readFailure(io.ErrNoProgress)
				}
				continue
			}
			z.failed = false
			return n, nil
		case errors.Is(err, io.EOF):
			z.atEOF = true
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		default:
			return n, z.readFailure(err)
		}
	}
}

func (z *Compress) readFailure(err error) error {
	z.failed = true
	z.rerr = fmt.Errorf("%w: %s: %v", ErrCorrupt, z.codec, err)
	return z.rerr
}

// Write compresses p into the next component.
func (z *Compress) Write(p []byte) (int, error) {
	if !z.nextCategory().Has(CatOutput) {
		return 0, ErrNotSupported
	}
	if z.finished {
		return 0, ErrClosed
	}
	if z.zw == nil {
		zw, err := newCompressWriter(z.codec, z.level, nextWriter{&z.link})
		if err != nil {
			z.failed = true
			return 0, fmt.Errorf("%s: %w", z.Name(), err)
		}
		z.zw = zw
	}
	n, err := z.zw.Write(p)
	z.failed = err != nil
	return n, err
}

// Flush emits a sync flush so everything written so far can be
// decompressed, then flushes the next component.
func (z *Compress) Flush() error {
	if z.zw != nil && !z.finished {
		if err := z.zw.Flush(); err != nil {
			z.failed = true
			return err
		}
	}
	return z.flush()
}

// EOF reports whether the decompressed stream is exhausted.
func (z *Compress) EOF() bool { return z.atEOF }

// Good reports whether the last operation succeeded without reaching EOF.
func (z *Compress) Good() bool { return !z.failed && !z.atEOF }

// Fail reports whether the last operation failed.
func (z *Compress) Fail() bool { return z.failed }

// Close finishes the compressed stream and releases the decompressor. It
// does not close the next component.
func (z *Compress) Close() error {
	var errs []error
	if z.zw != nil && !z.finished {
		if err := z.zw.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := z.flush(); err != nil {
			errs = append(errs, err)
		}
	}
	z.finished = true
	if z.zr != nil {
		if err := z.zr.Close(); err != nil && !errors.Is(err, io.EOF) {
			errs = append(errs, err)
		}
		z.zr = nil
	}
	return errors.Join(errs...)
}

var (
	_ Filter    = (*Compress)(nil)
	_ io.Closer = (*Compress)(nil)
)
