package plmd

import (
	"bytes"
	"fmt"

	"github.com/wippyai/pipeline-metadata/plmd/internal/binary"
)

// Every view below reads from the handle's normalized buffer through offsets
// validated at load time. Out-of-range indices panic, like slice indexing.

func checkIndex(what string, i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("plmd: %s index %d out of range [0:%d]", what, i, n))
	}
}

// Layout is the ordered descriptor set table. Set i corresponds to shader
// binding set i.
type Layout struct {
	buf   []byte
	index []byte
}

// Len returns the number of descriptor sets.
func (l Layout) Len() int {
	return len(l.index) / WordSize
}

// Set returns the i-th descriptor set.
func (l Layout) Set(i int) DescriptorSet {
	checkIndex("descriptor set", i, l.Len())
	return DescriptorSet{buf: l.buf, off: int(binary.U32At(l.index, i*WordSize))}
}

// Find returns the descriptor bound at (set, binding).
func (l Layout) Find(set, binding uint32) (Descriptor, bool) {
	if uint64(set) >= uint64(l.Len()) {
		return Descriptor{}, false
	}
	s := l.Set(int(set))
	for i := 0; i < s.Len(); i++ {
		if d := s.Descriptor(i); d.Binding == binding {
			return d, true
		}
	}
	return Descriptor{}, false
}

// DescriptorSet is a view of one set's descriptor records.
type DescriptorSet struct {
	buf []byte
	off int
}

// Len returns the number of descriptors in the set.
func (s DescriptorSet) Len() int {
	return int(binary.U32At(s.buf, s.off))
}

// Descriptor returns the i-th descriptor in declaration order.
func (s DescriptorSet) Descriptor(i int) Descriptor {
	checkIndex("descriptor", i, s.Len())
	at := s.off + WordSize + i*DescriptorWords*WordSize
	return Descriptor{
		Binding: binary.U32At(s.buf, at),
		Type:    DescriptorType(binary.U32At(s.buf, at+WordSize)),
		Stages:  StageMask(binary.U32At(s.buf, at+2*WordSize)),
	}
}

// Descriptors copies the set's descriptors into a new slice.
func (s DescriptorSet) Descriptors() []Descriptor {
	out := make([]Descriptor, s.Len())
	for i := range out {
		out[i] = s.Descriptor(i)
	}
	return out
}

// CISMap maps separate image or sampler bindings to the combined
// image/sampler ids synthesized for them, in producer order.
type CISMap struct {
	buf   []byte
	index []byte
}

// Len returns the number of entries.
func (m CISMap) Len() int {
	return len(m.index) / WordSize
}

// Entry returns the i-th entry.
func (m CISMap) Entry(i int) CISEntry {
	checkIndex("cis entry", i, m.Len())
	return CISEntry{buf: m.buf, off: int(binary.U32At(m.index, i*WordSize))}
}

// Lookup returns the entry for the separate binding (set, binding).
func (m CISMap) Lookup(set, binding uint32) (CISEntry, bool) {
	for i := 0; i < m.Len(); i++ {
		if e := m.Entry(i); e.SetID() == set && e.BindingID() == binding {
			return e, true
		}
	}
	return CISEntry{}, false
}

// CISEntry is a view of one separate binding and the combined ids it
// participates in.
type CISEntry struct {
	buf []byte
	off int
}

// SetID returns the descriptor set of the separate binding.
func (e CISEntry) SetID() uint32 {
	return binary.U32At(e.buf, e.off)
}

// BindingID returns the binding index of the separate binding.
func (e CISEntry) BindingID() uint32 {
	return binary.U32At(e.buf, e.off+WordSize)
}

// Len returns the number of combined ids.
func (e CISEntry) Len() int {
	return int(binary.U32At(e.buf, e.off+2*WordSize))
}

// CombinedID returns the i-th combined image/sampler id.
func (e CISEntry) CombinedID(i int) uint32 {
	checkIndex("combined id", i, e.Len())
	return binary.U32At(e.buf, e.off+(CISEntryWords+i)*WordSize)
}

// CombinedIDs copies the combined ids into a new slice.
func (e CISEntry) CombinedIDs() []uint32 {
	out := make([]uint32, e.Len())
	for i := range out {
		out[i] = e.CombinedID(i)
	}
	return out
}

// UserMetadata is the ordered user key/value table.
type UserMetadata struct {
	buf   []byte
	index []byte
}

// Len returns the number of pairs.
func (u UserMetadata) Len() int {
	return len(u.index) / (userIndexWords * WordSize)
}

// Entry returns the i-th pair.
func (u UserMetadata) Entry(i int) UserEntry {
	checkIndex("user entry", i, u.Len())
	base := i * userIndexWords * WordSize
	return UserEntry{
		rawKey:   u.span(base),
		rawValue: u.span(base + 2*WordSize),
	}
}

func (u UserMetadata) span(at int) []byte {
	off := int(binary.U32At(u.index, at))
	end := off + int(binary.U32At(u.index, at+WordSize))*WordSize
	return u.buf[off:end:end]
}

// Lookup returns the value of the first pair whose key equals key.
func (u UserMetadata) Lookup(key string) (string, bool) {
	for i := 0; i < u.Len(); i++ {
		if e := u.Entry(i); e.Key() == key {
			return e.Value(), true
		}
	}
	return "", false
}

// UserEntry is one key/value pair. The raw forms are views of the padded
// spans; Key and Value drop the trailing NUL padding.
type UserEntry struct {
	rawKey   []byte
	rawValue []byte
}

// Key returns the key without padding.
func (e UserEntry) Key() string {
	return string(trimPadding(e.rawKey))
}

// Value returns the value without padding.
func (e UserEntry) Value() string {
	return string(trimPadding(e.rawValue))
}

// RawKey returns the key span exactly as stored. It must not be modified.
func (e UserEntry) RawKey() []byte {
	return e.rawKey
}

// RawValue returns the value span exactly as stored. It must not be modified.
func (e UserEntry) RawValue() []byte {
	return e.rawValue
}

func trimPadding(b []byte) []byte {
	return bytes.TrimRight(b, "\x00")
}
