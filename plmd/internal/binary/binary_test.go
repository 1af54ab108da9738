package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func hostWords(words ...uint32) []byte {
	buf := make([]byte, len(words)*WordSize)
	for i, w := range words {
		binary.NativeEndian.PutUint32(buf[i*WordSize:], w)
	}
	return buf
}

func TestReaderReadU32(t *testing.T) {
	data := hostWords(1, 0xDEADBEEF, 3)
	r := NewReader(data, 0)

	for i, want := range []uint32{1, 0xDEADBEEF, 3} {
		if r.Position() != i*WordSize {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i*WordSize)
		}
		got, err := r.ReadU32()
		if err != nil {
			t.Fatalf("ReadU32 %d: %v", i, err)
		}
		if got != want {
			t.Errorf("ReadU32 %d: got 0x%08x, want 0x%08x", i, got, want)
		}
	}

	if r.Remaining() != 0 {
		t.Errorf("remaining: got %d, want 0", r.Remaining())
	}

	_, err := r.ReadU32()
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got %v", err)
	}
	if r.Position() != 12 {
		t.Errorf("failed read moved cursor to %d", r.Position())
	}
}

func TestReaderStartOffset(t *testing.T) {
	r := NewReader(hostWords(10, 20, 30), 8)
	v, err := r.ReadU32()
	if err != nil {
		t.Fatalf("ReadU32: %v", err)
	}
	if v != 30 {
		t.Errorf("got %d, want 30", v)
	}
}

func TestReaderSkip(t *testing.T) {
	data := hostWords(1, 2, 3, 4, 5)
	r := NewReader(data, 0)

	if err := r.Skip(3); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if r.Position() != 12 {
		t.Errorf("position: got %d, want 12", r.Position())
	}
	if v, err := r.ReadU32(); err != nil || v != 4 {
		t.Errorf("ReadU32 after Skip = %d, %v", v, err)
	}

	if err := r.Skip(2); err == nil {
		t.Error("expected error skipping past end")
	}
	if err := r.Skip(0xFFFFFFFF); err == nil {
		t.Error("expected error for huge skip")
	}
	if err := r.Skip(1); err != nil {
		t.Errorf("Skip(1) at last word: %v", err)
	}
	if r.Remaining() != 0 {
		t.Errorf("remaining: got %d, want 0", r.Remaining())
	}
}

func TestReaderNeed(t *testing.T) {
	r := NewReader(hostWords(1, 2), 4)
	if err := r.Need(1); err != nil {
		t.Errorf("Need(1): %v", err)
	}
	err := r.Need(2)
	var short *ShortReadError
	if !errors.As(err, &short) {
		t.Fatalf("expected ShortReadError, got %v", err)
	}
	if short.Position != 4 || short.Need != 8 || short.Have != 8 {
		t.Errorf("got %+v", short)
	}
	if err := r.Need(1 << 40); err == nil {
		t.Error("expected error for overflowing word count")
	}
}

func TestU32At(t *testing.T) {
	buf := hostWords(7, 9)
	if U32At(buf, 4) != 9 {
		t.Errorf("U32At: got %d, want 9", U32At(buf, 4))
	}
	PutU32At(buf, 0, 42)
	if U32At(buf, 0) != 42 {
		t.Errorf("PutU32At: got %d, want 42", U32At(buf, 0))
	}
}

func TestWriterWriteU32(t *testing.T) {
	w := NewWriter()
	w.WriteU32(0x01020304)
	w.WriteU32(0xDEADBEEF)

	want := []byte{0x01, 0x02, 0x03, 0x04, 0xDE, 0xAD, 0xBE, 0xEF}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got %x, want %x", w.Bytes(), want)
	}
	if w.Len() != 8 {
		t.Errorf("Len: got %d, want 8", w.Len())
	}

	w.PatchU32(0, 0xCAFEBABE)
	if !bytes.Equal(w.Bytes()[:4], []byte{0xCA, 0xFE, 0xBA, 0xBE}) {
		t.Errorf("PatchU32: got %x", w.Bytes()[:4])
	}
}

func TestWriterWriteRawSpan(t *testing.T) {
	tests := []struct {
		data  string
		words uint32
	}{
		{"", 1},
		{"foo", 1},
		{"abcd", 2},
		{"hello", 2},
	}

	for _, tt := range tests {
		w := NewWriter()
		w.WriteRawSpan([]byte(tt.data))
		out := w.Bytes()

		if got := binary.BigEndian.Uint32(out[0:4]); got != RawSpanSentinel {
			t.Errorf("%q: sentinel got 0x%08x", tt.data, got)
		}
		if got := binary.BigEndian.Uint32(out[4:8]); got != tt.words {
			t.Errorf("%q: length got %d, want %d", tt.data, got, tt.words)
		}
		payload := out[8:]
		if len(payload) != int(tt.words)*WordSize {
			t.Errorf("%q: payload length %d, want %d", tt.data, len(payload), tt.words*WordSize)
		}
		if !bytes.HasPrefix(payload, []byte(tt.data)) {
			t.Errorf("%q: payload %q lacks data", tt.data, payload)
		}
		if payload[len(payload)-1] != 0 {
			t.Errorf("%q: payload not NUL terminated", tt.data)
		}
	}
}
