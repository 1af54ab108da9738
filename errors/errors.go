package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad         Phase = "load"          // input checks and buffer copy
	PhaseNormalize    Phase = "normalize"     // byte-order pass
	PhaseHeader       Phase = "header"        // header validation
	PhaseLayout       Phase = "layout"        // descriptor set walker
	PhaseImageCIS     Phase = "image_cis"     // image to combined image/sampler map
	PhaseSamplerCIS   Phase = "sampler_cis"   // sampler to combined image/sampler map
	PhaseUserMetadata Phase = "user_metadata" // key/value walker
	PhaseEncode       Phase = "encode"        // Document to blob
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfMemory     Kind = "out_of_memory"
	KindMagicMismatch   Kind = "magic_number_mismatch"
	KindBufferTooSmall  Kind = "buffer_too_small"
	KindWeirdBufferSize Kind = "weird_buffer_size"
	KindMalformedRecord Kind = "malformed_record"
	KindInvalidInput    Kind = "invalid_input"
)

var descriptions = map[Kind]string{
	KindOutOfMemory:     "allocator could not satisfy a request",
	KindMagicMismatch:   "header magic number does not match",
	KindBufferTooSmall:  "record or raw span extends past the end of the buffer",
	KindWeirdBufferSize: "buffer length is not a multiple of 4",
	KindMalformedRecord: "record does not follow the expected encoding",
	KindInvalidInput:    "input rejected",
}

// Describe returns the display string for a kind.
func Describe(k Kind) string {
	if d, ok := descriptions[k]; ok {
		return d
	}
	return "unknown error"
}

// Error is the structured error type used throughout the library
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Detail    string
	Path      []string
	Offset    int
	HasOffset bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.HasOffset {
		fmt.Fprintf(&b, " (byte %d)", e.Offset)
	}

	b.WriteString(": ")
	if e.Detail != "" {
		b.WriteString(e.Detail)
	} else {
		b.WriteString(Describe(e.Kind))
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is; they match any phase.
var (
	ErrOutOfMemory     = &Error{Kind: KindOutOfMemory}
	ErrMagicMismatch   = &Error{Kind: KindMagicMismatch}
	ErrBufferTooSmall  = &Error{Kind: KindBufferTooSmall}
	ErrWeirdBufferSize = &Error{Kind: KindWeirdBufferSize}
	ErrMalformedRecord = &Error{Kind: KindMalformedRecord}
	ErrInvalidInput    = &Error{Kind: KindInvalidInput}
)

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the record path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset into the buffer
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	b.err.HasOffset = true
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfMemory creates an allocation failure error
func OutOfMemory(phase Phase, what string, size int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfMemory,
		Detail: fmt.Sprintf("failed to allocate %d bytes for %s", size, what),
		Value:  size,
		Cause:  cause,
	}
}

// WeirdBufferSize creates an error for an input length that is not word aligned
func WeirdBufferSize(length int) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindWeirdBufferSize,
		Detail: fmt.Sprintf("length %d is not a multiple of 4", length),
		Value:  length,
	}
}

// MagicMismatch creates a header magic mismatch error
func MagicMismatch(got, want uint32) *Error {
	return &Error{
		Phase:     PhaseHeader,
		Kind:      KindMagicMismatch,
		Path:      []string{"magic"},
		Detail:    fmt.Sprintf("magic 0x%08X, want 0x%08X", got, want),
		Value:     got,
		HasOffset: true,
	}
}

// BufferTooSmall creates an error for a read of need bytes at offset in a
// buffer of have bytes
func BufferTooSmall(phase Phase, path []string, offset int, need uint64, have int) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindBufferTooSmall,
		Path:      path,
		Detail:    fmt.Sprintf("need %d bytes at offset %d, buffer holds %d", need, offset, have),
		Offset:    offset,
		HasOffset: true,
	}
}

// Malformed creates a malformed record error
func Malformed(phase Phase, path []string, offset int, detail string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindMalformedRecord,
		Path:      path,
		Detail:    detail,
		Offset:    offset,
		HasOffset: true,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
