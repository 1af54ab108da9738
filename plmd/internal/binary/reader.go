package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// WordSize is the size in bytes of every field in the format.
const WordSize = 4

// RawSpanSentinel marks the start of a raw byte span.
const RawSpanSentinel uint32 = 0xFFFFFFFF

// ErrShortBuffer is returned when a read would cross the end of the buffer.
var ErrShortBuffer = errors.New("read past end of buffer")

// ShortReadError reports a read of Need bytes at Position that the buffer
// could not satisfy.
type ShortReadError struct {
	Position int
	Need     uint64
	Have     int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("at position %d: need %d bytes, %d remain: %v", e.Position, e.Need, e.Have-e.Position, ErrShortBuffer)
}

func (e *ShortReadError) Unwrap() error {
	return ErrShortBuffer
}

// Reader is a bounds-checked cursor over host-order 32-bit words.
// It never returns a view that extends past the underlying buffer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a Reader positioned at byte offset pos.
func NewReader(buf []byte, pos int) *Reader {
	return &Reader{buf: buf, pos: pos}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of bytes left after the cursor.
func (r *Reader) Remaining() int {
	if r.pos >= len(r.buf) {
		return 0
	}
	return len(r.buf) - r.pos
}

// Need checks that the next words words are inside the buffer without
// consuming them.
func (r *Reader) Need(words uint64) error {
	need := words * WordSize
	if words > uint64(len(r.buf)) || need > uint64(r.Remaining()) {
		return &ShortReadError{Position: r.pos, Need: need, Have: len(r.buf)}
	}
	return nil
}

// ReadU32 reads one host-order word.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.Need(1); err != nil {
		return 0, err
	}
	v := binary.NativeEndian.Uint32(r.buf[r.pos:])
	r.pos += WordSize
	return v, nil
}

// Skip advances the cursor by words words.
func (r *Reader) Skip(words uint64) error {
	if err := r.Need(words); err != nil {
		return err
	}
	r.pos += int(words) * WordSize
	return nil
}

// U32At reads the host-order word at off. The caller guarantees off was
// validated by a Reader; an invalid offset panics like a slice index.
func U32At(buf []byte, off int) uint32 {
	return binary.NativeEndian.Uint32(buf[off : off+WordSize])
}

// PutU32At writes v in host order at off.
func PutU32At(buf []byte, off int, v uint32) {
	binary.NativeEndian.PutUint32(buf[off:off+WordSize], v)
}
