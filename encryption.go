package streamkit

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// EncryptionKeySize is the AES-256 key length.
	EncryptionKeySize = 32

	defaultEncryptionChunk = 32 * 1024
	frameFinal             = uint32(1) << 31
)

// Encryption is an AES-256-GCM framing filter.
//
// Stream layout: a random nonce prefix, then frames of
// LENGTH(4, little-endian, high bit marks the final frame) | SEALED.
// Each frame is sealed with the prefix XORed with its counter, so frames
// cannot be reordered, and the final marker is authenticated, so
// truncation is detected. Tampering and truncation fail with ErrCorrupt.
type Encryption struct {
	link
	aead      cipher.AEAD
	chunkSize int

	// write side
	started  bool
	finished bool
	wnonce   []byte
	wcounter uint64
	plain    []byte

	// read side
	rnonce   []byte
	rcounter uint64
	out      []byte
	sawFinal bool
	rerr     error

	atEOF  bool
	failed bool
}

// EncryptionOption configures an Encryption filter.
type EncryptionOption func(*Encryption)

// WithChunkSize sets the plaintext size of a full frame.
func WithChunkSize(n int) EncryptionOption {
	return func(e *Encryption) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

// NewEncryption creates an encryption filter. The key must be 32 bytes.
func NewEncryption(key []byte, opts ...EncryptionOption) (*Encryption, error) {
	if len(key) != EncryptionKeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes (got %d bytes)", EncryptionKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	e := &Encryption{
		aead:      gcm,
		chunkSize: defaultEncryptionChunk,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Name implements Filter.
func (e *Encryption) Name() string {
	return "encryption(aes-256-gcm)"
}

// Bind implements Filter. The next component must be an input or output.
func (e *Encryption) Bind(next Component) (Component, error) {
	if err := e.attach(e.Name(), next, 0, CatInput|CatOutput); err != nil {
		return nil, err
	}
	return e, nil
}

// Category keeps the directions of the next component and drops seeking
// and size.
func (e *Encryption) Category() Category {
	next := e.nextCategory()
	cat := next&(CatInput|CatOutput) | CatStatus
	if next.Has(CatInput) {
		cat |= CatEOF
	}
	if next.Has(CatOutput) {
		cat |= CatFlushable
	}
	return cat
}

// frameNonce derives the nonce of frame counter from the prefix.
func frameNonce(prefix []byte, counter uint64) []byte {
	nonce := make([]byte, len(prefix))
	copy(nonce, prefix)
	tail := nonce[len(nonce)-8:]
	binary.BigEndian.PutUint64(tail, binary.BigEndian.Uint64(tail)^counter)
	return nonce
}

func finalAAD(final bool) []byte {
	if final {
		return []byte{1}
	}
	return []byte{0}
}

// Write buffers plaintext and emits a sealed frame per full chunk.
func (e *Encryption) Write(p []byte) (int, error) {
	if !e.nextCategory().Has(CatOutput) {
		return 0, ErrNotSupported
	}
	if e.finished {
		return 0, ErrClosed
	}
	if err := e.start(); err != nil {
		return 0, err
	}

	n := 0
	for len(p) > 0 {
		room := e.chunkSize - len(e.plain)
		take := min(room, len(p))
		e.plain = append(e.plain, p[:take]...)
		p = p[take:]
		n += take
		if len(e.plain) == e.chunkSize {
			if err := e.seal(false); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// start writes the nonce prefix once.
func (e *Encryption) start() error {
	if e.started {
		return nil
	}
	e.wnonce = make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, e.wnonce); err != nil {
		return err
	}
	if err := e.writeAll(e.wnonce); err != nil {
		return err
	}
	e.started = true
	return nil
}

// seal writes the buffered plaintext as one frame.
func (e *Encryption) seal(final bool) error {
	sealed := e.aead.Seal(nil, frameNonce(e.wnonce, e.wcounter), e.plain, finalAAD(final))
	e.wcounter++
	e.plain = e.plain[:0]

	length := uint32(len(sealed))
	if final {
		length |= frameFinal
	}
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], length)
	if err := e.writeAll(hdr[:]); err != nil {
		return err
	}
	return e.writeAll(sealed)
}

func (e *Encryption) writeAll(b []byte) error {
	n, err := e.write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	e.failed = err != nil
	return err
}

// Flush seals buffered plaintext into a frame and flushes the next
// component.
func (e *Encryption) Flush() error {
	if e.started && !e.finished && len(e.plain) > 0 {
		if err := e.seal(false); err != nil {
			return err
		}
	}
	return e.flush()
}

// Close writes the final frame. It does not close the next component.
func (e *Encryption) Close() error {
	if !e.started || e.finished {
		e.finished = true
		return nil
	}
	e.finished = true
	if err := e.seal(true); err != nil {
		return err
	}
	return e.flush()
}

// Read returns decrypted plaintext.
func (e *Encryption) Read(p []byte) (int, error) {
	if !e.nextCategory().Has(CatInput) {
		return 0, ErrNotSupported
	}
	if len(p) == 0 {
		return 0, nil
	}
	for len(e.out) == 0 {
		if e.rerr != nil {
			return 0, e.rerr
		}
		if e.sawFinal {
			e.atEOF = true
			return 0, io.EOF
		}
		if err := e.open(); err != nil {
			if errors.Is(err, io.EOF) {
				e.atEOF = true
				return 0, io.EOF
			}
			e.failed = true
			e.rerr = err
			return 0, err
		}
	}
	n := copy(p, e.out)
	e.out = e.out[n:]
	return n, nil
}

// open reads and decrypts the next frame into e.out.
func (e *Encryption) open() error {
	src := nextReader{&e.link}
	if e.rnonce == nil {
		nonce := make([]byte, e.aead.NonceSize())
		n, err := io.ReadFull(src, nonce)
		if n == 0 && errors.Is(err, io.EOF) {
			// Nothing was ever written.
			return io.EOF
		}
		if err != nil {
			return fmt.Errorf("%w: nonce: %v", ErrCorrupt, err)
		}
		e.rnonce = nonce
	}

	var hdr [4]byte
	if _, err := io.ReadFull(src, hdr[:]); err != nil {
		return fmt.Errorf("%w: truncated before final frame: %v", ErrCorrupt, err)
	}
	length := binary.LittleEndian.Uint32(hdr[:])
	final := length&frameFinal != 0
	length &^= frameFinal
	if int(length) > e.chunkSize+e.aead.Overhead() || int(length) < e.aead.Overhead() {
		return fmt.Errorf("%w: frame length %d", ErrCorrupt, length)
	}

	sealed := make([]byte, length)
	if _, err := io.ReadFull(src, sealed); err != nil {
		return fmt.Errorf("%w: truncated frame: %v", ErrCorrupt, err)
	}
	plain, err := e.aead.Open(sealed[:0], frameNonce(e.rnonce, e.rcounter), sealed, finalAAD(final))
	if err != nil {
		return fmt.Errorf("%w: frame %d: %v", ErrCorrupt, e.rcounter, err)
	}
	e.rcounter++
	e.out = plain
	e.sawFinal = final
	return nil
}

// EOF reports whether the final frame has been consumed.
func (e *Encryption) EOF() bool { return e.atEOF }

// Good reports whether the last operation succeeded without reaching EOF.
func (e *Encryption) Good() bool { return !e.failed && !e.atEOF }

// Fail reports whether the last operation failed.
func (e *Encryption) Fail() bool { return e.failed }

var (
	_ Filter    = (*Encryption)(nil)
	_ io.Closer = (*Encryption)(nil)
)
