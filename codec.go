package streamkit

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Codec names a compression format.
type Codec string

const (
	// CodecZlib is RFC 1950 zlib, the default.
	CodecZlib Codec = "zlib"
	// CodecGzip is RFC 1952 gzip.
	CodecGzip Codec = "gzip"
	// CodecZstd is Zstandard.
	CodecZstd Codec = "zstd"
	// CodecDeflate is raw RFC 1951 deflate without framing.
	CodecDeflate Codec = "deflate"
)

// DefaultCompressionLevel selects each codec's default level.
const DefaultCompressionLevel = -1

// ParseCodec parses a codec name, case-insensitively.
func ParseCodec(name string) (Codec, error) {
	switch c := Codec(strings.ToLower(strings.TrimSpace(name))); c {
	case CodecZlib, CodecGzip, CodecZstd, CodecDeflate:
		return c, nil
	case "":
		return CodecZlib, nil
	default:
		return "", fmt.Errorf("%w: unknown codec %q", ErrNotSupported, name)
	}
}

// Magic numbers of the framed codecs. Raw deflate has none.
var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// DetectCodec guesses the codec of a compressed stream from its first bytes.
// It reports false when the header matches no framed codec.
func DetectCodec(header []byte) (Codec, bool) {
	switch {
	case bytes.HasPrefix(header, magicZstd):
		return CodecZstd, true
	case bytes.HasPrefix(header, magicGzip):
		return CodecGzip, true
	case isZlibHeader(header):
		return CodecZlib, true
	default:
		return "", false
	}
}

// isZlibHeader checks the CMF/FLG pair: deflate method, window <= 32K and
// a header checksum divisible by 31.
func isZlibHeader(h []byte) bool {
	if len(h) < 2 {
		return false
	}
	cmf, flg := h[0], h[1]
	return cmf&0x0f == 8 && cmf>>4 <= 7 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

// compressWriter is the subset of the codec encoders the filter drives.
type compressWriter interface {
	io.WriteCloser
	Flush() error
}

func newCompressWriter(c Codec, level int, w io.Writer) (compressWriter, error) {
	switch c {
	case CodecZlib:
		return zlib.NewWriterLevel(w, level)
	case CodecGzip:
		return gzip.NewWriterLevel(w, level)
	case CodecDeflate:
		return flate.NewWriter(w, level)
	case CodecZstd:
		opts := []zstd.EOption{zstd.WithEncoderConcurrency(1)}
		if level != DefaultCompressionLevel {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
		return zstd.NewWriter(w, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown codec %q", ErrNotSupported, c)
	}
}

func newDecompressReader(c Codec, r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CodecZlib:
		return zlib.NewReader(r)
	case CodecGzip:
		return gzip.NewReader(r)
	case CodecDeflate:
		return flate.NewReader(r), nil
	case CodecZstd:
		d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{d}, nil
	default:
		return nil, fmt.Errorf("%w: unknown codec %q", ErrNotSupported, c)
	}
}

// zstdReadCloser adapts *zstd.Decoder, whose Close returns nothing.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}
