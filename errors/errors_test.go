package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:     PhaseLayout,
				Kind:      KindBufferTooSmall,
				Path:      []string{"set[1]", "descriptor[3]"},
				Offset:    88,
				HasOffset: true,
				Detail:    "record runs past end",
			},
			contains: []string{"[layout]", "buffer_too_small", "set[1].descriptor[3]", "byte 88", "record runs past end"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLoad,
				Kind:  KindWeirdBufferSize,
			},
			contains: []string{"[load]", "weird_buffer_size", "not a multiple of 4"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindOutOfMemory,
				Detail: "buffer copy",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "out_of_memory", "buffer copy", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_NoOffsetWithoutFlag(t *testing.T) {
	err := &Error{Phase: PhaseHeader, Kind: KindBufferTooSmall}
	if strings.Contains(err.Error(), "byte") {
		t.Errorf("unexpected offset in %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindOutOfMemory,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseLayout,
		Kind:  KindBufferTooSmall,
		Path:  []string{"set[0]"},
	}

	if !err.Is(&Error{Phase: PhaseLayout, Kind: KindBufferTooSmall}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseHeader, Kind: KindBufferTooSmall}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseLayout, Kind: KindOutOfMemory}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Error("errors.Is should match phaseless sentinel")
	}
	if errors.Is(err, ErrMagicMismatch) {
		t.Error("errors.Is should not match other sentinel")
	}
	if err.Is(errors.New("buffer_too_small")) {
		t.Error("Is should not match foreign error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseImageCIS, KindBufferTooSmall).
		Path("entry[2]", "combined_ids").
		Offset(120).
		Value(uint32(7)).
		Cause(cause).
		Detail("need %d words, have %d", 7, 3).
		Build()

	if err.Phase != PhaseImageCIS {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseImageCIS)
	}
	if err.Kind != KindBufferTooSmall {
		t.Errorf("Kind = %v, want %v", err.Kind, KindBufferTooSmall)
	}
	if len(err.Path) != 2 || err.Path[0] != "entry[2]" || err.Path[1] != "combined_ids" {
		t.Errorf("Path = %v, want [entry[2] combined_ids]", err.Path)
	}
	if !err.HasOffset || err.Offset != 120 {
		t.Errorf("Offset = %d (set %v), want 120", err.Offset, err.HasOffset)
	}
	if err.Value != uint32(7) {
		t.Errorf("Value = %v, want 7", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "need 7 words, have 3" {
		t.Errorf("Detail = %v, want 'need 7 words, have 3'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("OutOfMemory", func(t *testing.T) {
		err := OutOfMemory(PhaseLayout, "set index", 64, errors.New("full"))
		if err.Kind != KindOutOfMemory {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfMemory)
		}
		if !strings.Contains(err.Detail, "64") || !strings.Contains(err.Detail, "set index") {
			t.Errorf("Detail = %v, should contain size and target", err.Detail)
		}
	})

	t.Run("WeirdBufferSize", func(t *testing.T) {
		err := WeirdBufferSize(13)
		if err.Kind != KindWeirdBufferSize || err.Phase != PhaseLoad {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Value != 13 {
			t.Errorf("Value = %v, want 13", err.Value)
		}
	})

	t.Run("MagicMismatch", func(t *testing.T) {
		err := MagicMismatch(0, 0xDEADBEEF)
		if err.Kind != KindMagicMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMagicMismatch)
		}
		if !strings.Contains(err.Error(), "0xDEADBEEF") {
			t.Errorf("message %q should contain expected magic", err.Error())
		}
	})

	t.Run("BufferTooSmall", func(t *testing.T) {
		err := BufferTooSmall(PhaseHeader, []string{"user_metadata_offset"}, 64, 4, 32)
		if err.Kind != KindBufferTooSmall {
			t.Errorf("Kind = %v, want %v", err.Kind, KindBufferTooSmall)
		}
		if !err.HasOffset || err.Offset != 64 {
			t.Errorf("Offset = %d, want 64", err.Offset)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		err := Malformed(PhaseUserMetadata, []string{"entry[0]", "key"}, 12, "missing sentinel")
		if err.Kind != KindMalformedRecord {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMalformedRecord)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseEncode, []string{"layout"}, "duplicate binding")
		if !errors.Is(err, ErrInvalidInput) {
			t.Error("should match ErrInvalidInput")
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("inner")
		err := Wrap(PhaseLoad, KindOutOfMemory, cause, "buffer")
		if !errors.Is(err, cause) || !errors.Is(err, ErrOutOfMemory) {
			t.Error("Wrap should match cause and kind")
		}
	})
}

func TestDescribe(t *testing.T) {
	kinds := []Kind{
		KindOutOfMemory,
		KindMagicMismatch,
		KindBufferTooSmall,
		KindWeirdBufferSize,
		KindMalformedRecord,
		KindInvalidInput,
	}
	seen := make(map[string]Kind)
	for _, k := range kinds {
		d := Describe(k)
		if d == "" || d == "unknown error" {
			t.Errorf("Describe(%s) = %q", k, d)
		}
		if prev, dup := seen[d]; dup {
			t.Errorf("Describe(%s) duplicates Describe(%s)", k, prev)
		}
		seen[d] = k
	}
	if Describe("nope") != "unknown error" {
		t.Error("unknown kind should describe as unknown error")
	}
}
