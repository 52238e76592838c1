package streamkit

import (
	"crypto/md5"  //nolint:gosec // MD5 used for checksum verification, not security
	"crypto/sha1" //nolint:gosec // SHA1 used for checksum verification, not security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// ChecksumAlgorithm represents a supported checksum algorithm
type ChecksumAlgorithm string

const (
	// ChecksumMD5 is the MD5 hash algorithm (128-bit, fast but not cryptographically secure)
	ChecksumMD5 ChecksumAlgorithm = "md5"
	// ChecksumSHA1 is the SHA-1 hash algorithm (160-bit, legacy)
	ChecksumSHA1 ChecksumAlgorithm = "sha1"
	// ChecksumSHA256 is the SHA-256 hash algorithm (256-bit, recommended)
	ChecksumSHA256 ChecksumAlgorithm = "sha256"
	// ChecksumSHA512 is the SHA-512 hash algorithm (512-bit)
	ChecksumSHA512 ChecksumAlgorithm = "sha512"
	// ChecksumCRC32 is the CRC32 checksum (32-bit, fastest, for integrity only)
	ChecksumCRC32 ChecksumAlgorithm = "crc32"
	// ChecksumXXHash is the xxHash algorithm (64-bit, extremely fast)
	ChecksumXXHash ChecksumAlgorithm = "xxhash"
	// ChecksumBLAKE2b is BLAKE2b-256
	ChecksumBLAKE2b ChecksumAlgorithm = "blake2b"
)

// ParseChecksumAlgorithm parses an algorithm name, case-insensitively.
func ParseChecksumAlgorithm(name string) (ChecksumAlgorithm, error) {
	algo := ChecksumAlgorithm(strings.ToLower(strings.TrimSpace(name)))
	if _, err := NewHasher(algo); err != nil {
		return "", err
	}
	return algo, nil
}

// NewHasher creates a new hash.Hash for the given algorithm.
// Returns an error if the algorithm is not supported.
func NewHasher(algorithm ChecksumAlgorithm) (hash.Hash, error) {
	switch algorithm {
	case ChecksumMD5:
		return md5.New(), nil //nolint:gosec // MD5 used for checksum verification, not security
	case ChecksumSHA1:
		return sha1.New(), nil //nolint:gosec // SHA1 used for checksum verification, not security
	case ChecksumSHA256:
		return sha256.New(), nil
	case ChecksumSHA512:
		return sha512.New(), nil
	case ChecksumCRC32:
		return crc32.NewIEEE(), nil
	case ChecksumXXHash:
		return xxhash.New(), nil
	case ChecksumBLAKE2b:
		return blake2b.New256(nil)
	default:
		return nil, fmt.Errorf("%w: unsupported checksum algorithm: %s", ErrNotSupported, algorithm)
	}
}

// CalculateChecksum reads from the reader and calculates the checksum using
// the specified algorithm. Returns the hex-encoded checksum string.
func CalculateChecksum(r io.Reader, algorithm ChecksumAlgorithm) (string, error) {
	h, err := NewHasher(algorithm)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// ============================================================================
// Checksum Filter
// ============================================================================

// Checksum hashes every byte that passes through it, in either direction,
// with one or more algorithms in a single pass. Seeking would make the
// digest meaningless, so the filter drops the seekable capabilities.
//
// Example:
//
//	sum := streamkit.NewChecksum(streamkit.ChecksumXXHash)
//	p, _ := streamkit.Pipe(src, sum)
//	_, _ = io.Copy(io.Discard, p)
//	digest, _ := sum.Sum(streamkit.ChecksumXXHash)
type Checksum struct {
	link
	algorithms []ChecksumAlgorithm
	hashers    map[ChecksumAlgorithm]hash.Hash
	tee        io.Writer
	count      int64
}

// NewChecksum creates a checksum filter. It panics if an algorithm is not
// supported; use ParseChecksumAlgorithm to validate external input.
func NewChecksum(algorithms ...ChecksumAlgorithm) *Checksum {
	if len(algorithms) == 0 {
		algorithms = []ChecksumAlgorithm{ChecksumXXHash}
	}
	c := &Checksum{
		algorithms: algorithms,
		hashers:    make(map[ChecksumAlgorithm]hash.Hash, len(algorithms)),
	}
	writers := make([]io.Writer, 0, len(algorithms))
	for _, algo := range algorithms {
		h, err := NewHasher(algo)
		if err != nil {
			panic(err)
		}
		c.hashers[algo] = h
		writers = append(writers, h)
	}
	c.tee = io.MultiWriter(writers...)
	return c
}

// Name implements Filter.
func (c *Checksum) Name() string {
	return "checksum"
}

// Bind implements Filter. The next component must be an input or output.
func (c *Checksum) Bind(next Component) (Component, error) {
	if err := c.attach(c.Name(), next, 0, CatInput|CatOutput); err != nil {
		return nil, err
	}
	return c, nil
}

// Category forwards the next component's category without seeking.
func (c *Checksum) Category() Category {
	return c.nextCategory() &^ (CatInputSeekable | CatOutputSeekable | CatLineOriented)
}

// Read reads from the next component and hashes what it returns.
func (c *Checksum) Read(p []byte) (int, error) {
	n, err := c.read(p)
	if n > 0 {
		_, _ = c.tee.Write(p[:n])
		c.count += int64(n)
	}
	return n, err
}

// Write hashes the bytes the next component accepted.
func (c *Checksum) Write(p []byte) (int, error) {
	n, err := c.write(p)
	if n > 0 {
		_, _ = c.tee.Write(p[:n])
		c.count += int64(n)
	}
	return n, err
}

// Algorithms returns the configured algorithms in order.
func (c *Checksum) Algorithms() []ChecksumAlgorithm {
	return c.algorithms
}

// Sum returns the hex-encoded digest for one of the configured algorithms.
func (c *Checksum) Sum(algorithm ChecksumAlgorithm) (string, error) {
	h, ok := c.hashers[algorithm]
	if !ok {
		return "", fmt.Errorf("%w: %s not configured", ErrNotSupported, algorithm)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sums returns the hex-encoded digests of every configured algorithm.
func (c *Checksum) Sums() map[ChecksumAlgorithm]string {
	results := make(map[ChecksumAlgorithm]string, len(c.hashers))
	for algo, h := range c.hashers {
		results[algo] = hex.EncodeToString(h.Sum(nil))
	}
	return results
}

// Count returns the number of bytes hashed.
func (c *Checksum) Count() int64 {
	return c.count
}

// Reset clears the digests and the byte count.
func (c *Checksum) Reset() {
	for _, h := range c.hashers {
		h.Reset()
	}
	c.count = 0
}

func (c *Checksum) Flush() error { return c.flush() }
func (c *Checksum) EOF() bool    { return c.eof() }
func (c *Checksum) Good() bool   { return c.good() }
func (c *Checksum) Fail() bool   { return c.fail() }
func (c *Checksum) Size() int64  { return c.size() }

var _ Filter = (*Checksum)(nil)
