package plmd

import (
	"fmt"

	"github.com/wippyai/pipeline-metadata/errors"
	"github.com/wippyai/pipeline-metadata/plmd/internal/binary"
)

// Each walker stores its index on the handle before filling it, so a
// failure halfway through is released by Destroy.

// walkLayout indexes the descriptor sets starting at off.
//
//	set_count, { descriptor_count, descriptor_count × {binding, type, stages} }
func (md *Metadata) walkLayout(off int) error {
	const phase = errors.PhaseLayout
	r := binary.NewReader(md.buf, off)

	count, err := r.ReadU32()
	if err != nil {
		return shortRead(phase, []string{"set_count"}, err)
	}
	// every set carries at least its descriptor count
	if err := r.Need(uint64(count)); err != nil {
		return shortRead(phase, []string{"sets"}, err)
	}
	if md.layout, err = md.allocIndex(phase, "set index", count, 1); err != nil {
		return err
	}

	for i := range count {
		setOff := r.Position()
		n, err := r.ReadU32()
		if err != nil {
			return shortRead(phase, []string{indexed("set", i), "descriptor_count"}, err)
		}
		if err := r.Skip(uint64(n) * DescriptorWords); err != nil {
			return shortRead(phase, []string{indexed("set", i), "descriptors"}, err)
		}
		binary.PutU32At(md.layout, int(i)*WordSize, uint32(setOff))
	}
	return nil
}

// walkCISMap indexes a combined image/sampler map starting at off into dst.
//
//	entry_count, { set, binding, id_count, id_count × id }
func (md *Metadata) walkCISMap(phase errors.Phase, off int, dst *[]byte) error {
	r := binary.NewReader(md.buf, off)

	count, err := r.ReadU32()
	if err != nil {
		return shortRead(phase, []string{"entry_count"}, err)
	}
	if err := r.Need(uint64(count) * CISEntryWords); err != nil {
		return shortRead(phase, []string{"entries"}, err)
	}
	if *dst, err = md.allocIndex(phase, "cis entry index", count, 1); err != nil {
		return err
	}

	for i := range count {
		entryOff := r.Position()
		if err := r.Skip(2); err != nil {
			return shortRead(phase, []string{indexed("entry", i)}, err)
		}
		n, err := r.ReadU32()
		if err != nil {
			return shortRead(phase, []string{indexed("entry", i), "combined_id_count"}, err)
		}
		if err := r.Skip(uint64(n)); err != nil {
			return shortRead(phase, []string{indexed("entry", i), "combined_ids"}, err)
		}
		binary.PutU32At(*dst, int(i)*WordSize, uint32(entryOff))
	}
	return nil
}

// walkUserMetadata indexes the key/value table starting at off.
//
//	entry_count, { key raw span, value raw span }
func (md *Metadata) walkUserMetadata(off int) error {
	const phase = errors.PhaseUserMetadata
	r := binary.NewReader(md.buf, off)

	count, err := r.ReadU32()
	if err != nil {
		return shortRead(phase, []string{"entry_count"}, err)
	}
	if err := r.Need(uint64(count) * UserEntryWords); err != nil {
		return shortRead(phase, []string{"entries"}, err)
	}
	if md.user, err = md.allocIndex(phase, "user entry index", count, userIndexWords); err != nil {
		return err
	}

	for i := range count {
		base := int(i) * userIndexWords * WordSize
		for j, field := range [...]string{"key", "value"} {
			path := []string{indexed("entry", i), field}
			spanOff, words, err := readRawSpan(r, phase, path)
			if err != nil {
				return err
			}
			binary.PutU32At(md.user, base+(2*j)*WordSize, uint32(spanOff))
			binary.PutU32At(md.user, base+(2*j+1)*WordSize, words)
		}
	}
	return nil
}

// readRawSpan consumes a sentinel, a length and the payload, returning the
// payload offset and its length in words.
func readRawSpan(r *binary.Reader, phase errors.Phase, path []string) (int, uint32, error) {
	at := r.Position()
	sentinel, err := r.ReadU32()
	if err != nil {
		return 0, 0, shortRead(phase, path, err)
	}
	if sentinel != RawSpanSentinel {
		return 0, 0, errors.Malformed(phase, path, at,
			fmt.Sprintf("expected raw span sentinel, found 0x%08X", sentinel))
	}
	words, err := r.ReadU32()
	if err != nil {
		return 0, 0, shortRead(phase, path, err)
	}
	payload := r.Position()
	if err := r.Skip(uint64(words)); err != nil {
		return 0, 0, shortRead(phase, path, err)
	}
	return payload, words, nil
}

func indexed(name string, i uint32) string {
	return fmt.Sprintf("%s[%d]", name, i)
}
