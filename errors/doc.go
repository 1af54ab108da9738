// Package errors provides structured error types for the pipeline metadata library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: record path, byte offset, offending value
// and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindBufferTooSmall).
//		Path("set[2]", "descriptor[1]").
//		Offset(96).
//		Detail("record runs past end of buffer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.WeirdBufferSize(len(data))
//	err := errors.BufferTooSmall(errors.PhaseHeader, path, offset, need, have)
//
// All errors implement the standard error interface and support errors.Is/As.
// The package-level sentinels (ErrBufferTooSmall, ...) match an error of the
// same Kind regardless of phase.
package errors
