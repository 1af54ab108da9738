package plmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/wippyai/pipeline-metadata/errors"
	"github.com/wippyai/pipeline-metadata/plmd/internal/binary"
)

// Encode serializes doc into a big-endian blob that Load accepts. Records
// follow the header in the order layout, image map, sampler map, user
// metadata.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.InvalidInput(errors.PhaseEncode, nil, "nil document")
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	if size := encodedSize(doc); size > maxEncodedSize {
		return nil, errors.InvalidInput(errors.PhaseEncode, nil,
			fmt.Sprintf("encoded size %d exceeds %d bytes", size, maxEncodedSize))
	}

	major, minor := doc.VersionMajor, doc.VersionMinor
	if major == 0 && minor == 0 {
		major, minor = VersionMajor, VersionMinor
	}

	w := binary.NewWriter()
	w.WriteU32(Magic)
	w.WriteU32(HeaderSize)
	w.WriteU32(major)
	w.WriteU32(minor)
	offsetsAt := w.Len()
	for range 4 {
		w.WriteU32(0)
	}

	var offsets [4]uint32

	offsets[0] = uint32(w.Len())
	w.WriteU32(uint32(len(doc.Layout)))
	for _, set := range doc.Layout {
		w.WriteU32(uint32(len(set.Descriptors)))
		for _, d := range set.Descriptors {
			w.WriteU32(d.Binding)
			w.WriteU32(uint32(d.Type))
			w.WriteU32(uint32(d.Stages))
		}
	}

	offsets[1] = uint32(w.Len())
	writeCISMap(w, doc.ImageToCIS)
	offsets[2] = uint32(w.Len())
	writeCISMap(w, doc.SamplerToCIS)

	offsets[3] = uint32(w.Len())
	w.WriteU32(uint32(len(doc.User)))
	for _, p := range doc.User {
		w.WriteRawSpan([]byte(p.Key))
		w.WriteRawSpan([]byte(p.Value))
	}

	for i, off := range offsets {
		w.PatchU32(offsetsAt+i*WordSize, off)
	}
	return w.Bytes(), nil
}

// maxEncodedSize is the largest blob whose offsets fit a word.
var maxEncodedSize uint64 = math.MaxUint32

// encodedSize returns the byte length Encode would produce for doc.
func encodedSize(doc *Document) uint64 {
	span := func(s string) uint64 {
		return 2*WordSize + (uint64(len(s))/WordSize+1)*WordSize
	}
	cis := func(entries []CISBinding) uint64 {
		n := uint64(WordSize)
		for _, e := range entries {
			n += CISEntryWords*WordSize + uint64(len(e.CombinedIDs))*WordSize
		}
		return n
	}

	n := uint64(HeaderSize)
	n += WordSize
	for _, set := range doc.Layout {
		n += WordSize + uint64(len(set.Descriptors))*DescriptorWords*WordSize
	}
	n += cis(doc.ImageToCIS) + cis(doc.SamplerToCIS)
	n += WordSize
	for _, p := range doc.User {
		n += span(p.Key) + span(p.Value)
	}
	return n
}

func writeCISMap(w *binary.Writer, entries []CISBinding) {
	w.WriteU32(uint32(len(entries)))
	for _, e := range entries {
		w.WriteU32(e.Set)
		w.WriteU32(e.Binding)
		w.WriteU32(uint32(len(e.CombinedIDs)))
		for _, id := range e.CombinedIDs {
			w.WriteU32(id)
		}
	}
}

// validateDocument rejects documents that would not survive a round trip:
// swappable words equal to the raw span sentinel, duplicate bindings within
// a set, and strings containing NUL bytes.
func validateDocument(doc *Document) error {
	v := &docValidator{}

	v.word(doc.VersionMajor, "version_major")
	v.word(doc.VersionMinor, "version_minor")

	for i, set := range doc.Layout {
		seen := make(map[uint32]int, len(set.Descriptors))
		for j, d := range set.Descriptors {
			path := []string{"layout", fmt.Sprintf("set[%d]", i), fmt.Sprintf("descriptor[%d]", j)}
			if prev, dup := seen[d.Binding]; dup && v.err == nil {
				v.err = errors.InvalidInput(errors.PhaseEncode, path,
					fmt.Sprintf("binding %d already declared by descriptor[%d]", d.Binding, prev))
			}
			seen[d.Binding] = j
			v.word(d.Binding, path...)
			v.word(uint32(d.Type), path...)
			v.word(uint32(d.Stages), path...)
		}
	}

	maps := []struct {
		name    string
		entries []CISBinding
	}{
		{"image_to_cis", doc.ImageToCIS},
		{"sampler_to_cis", doc.SamplerToCIS},
	}
	for _, m := range maps {
		for i, e := range m.entries {
			path := []string{m.name, fmt.Sprintf("entry[%d]", i)}
			v.word(e.Set, path...)
			v.word(e.Binding, path...)
			for _, id := range e.CombinedIDs {
				v.word(id, path...)
			}
		}
	}

	for i, p := range doc.User {
		if strings.IndexByte(p.Key, 0) >= 0 && v.err == nil {
			v.err = errors.InvalidInput(errors.PhaseEncode,
				[]string{"user", fmt.Sprintf("entry[%d]", i), "key"}, "string contains NUL byte")
		}
		if strings.IndexByte(p.Value, 0) >= 0 && v.err == nil {
			v.err = errors.InvalidInput(errors.PhaseEncode,
				[]string{"user", fmt.Sprintf("entry[%d]", i), "value"}, "string contains NUL byte")
		}
	}
	return v.err
}

type docValidator struct {
	err error
}

func (v *docValidator) word(w uint32, path ...string) {
	if v.err == nil && w == RawSpanSentinel {
		v.err = errors.InvalidInput(errors.PhaseEncode, path,
			fmt.Sprintf("value 0x%08X is reserved for raw spans", w))
	}
}
