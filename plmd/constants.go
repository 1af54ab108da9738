package plmd

import "github.com/wippyai/pipeline-metadata/plmd/internal/binary"

// Pipeline metadata magic number and current format version.
const (
	// Magic is the value of the first header word.
	Magic uint32 = 0xDEADBEEF

	// VersionMajor and VersionMinor are written by Encode when a Document
	// leaves them zero.
	VersionMajor uint32 = 1
	VersionMinor uint32 = 0
)

// RawSpanSentinel introduces a span of bytes that is excluded from
// byte-order conversion. It is followed by the span length in words.
const RawSpanSentinel = binary.RawSpanSentinel

// Record geometry, in 4-byte words.
const (
	WordSize        = binary.WordSize
	HeaderWords     = 8
	HeaderSize      = HeaderWords * WordSize
	DescriptorWords = 3 // binding, type, stage mask
	CISEntryWords   = 3 // set, binding, combined id count
	UserEntryWords  = 4 // two sentinel/length pairs

	// index arrays hold one byte offset per set or CIS entry, and
	// key offset, key words, value offset, value words per user entry
	userIndexWords = 4
)

