package binary

import (
	"bytes"
	"encoding/binary"
)

// Writer builds a big-endian word stream.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteU32 writes a big-endian word.
func (w *Writer) WriteU32(v uint32) {
	var buf [WordSize]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteRawSpan writes data as a raw span: the sentinel, the payload length
// in words, then the payload NUL-padded to a word boundary. The payload
// always carries at least one NUL terminator.
func (w *Writer) WriteRawSpan(data []byte) {
	words := len(data)/WordSize + 1
	w.WriteU32(RawSpanSentinel)
	w.WriteU32(uint32(words))
	w.buf.Write(data)
	for pad := words*WordSize - len(data); pad > 0; pad-- {
		w.buf.WriteByte(0)
	}
}

// PatchU32 overwrites the big-endian word at byte offset off.
func (w *Writer) PatchU32(off int, v uint32) {
	binary.BigEndian.PutUint32(w.buf.Bytes()[off:off+WordSize], v)
}
