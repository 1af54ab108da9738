package plmd

import (
	"math"

	"go.uber.org/zap"

	pipemeta "github.com/wippyai/pipeline-metadata"
	"github.com/wippyai/pipeline-metadata/errors"
	"github.com/wippyai/pipeline-metadata/plmd/internal/binary"
)

// LoadOptions controls loading behavior
type LoadOptions struct {
	// Allocator supplies every array the handle owns. Nil selects the heap.
	Allocator pipemeta.Allocator
}

// DefaultLoadOptions returns the default load configuration.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Allocator: pipemeta.HeapAllocator{}}
}

// Metadata is a decoded pipeline metadata blob. It owns a private,
// host-order copy of the input; every view it hands out points into that
// copy and stays valid until Destroy.
type Metadata struct {
	alloc      pipemeta.Allocator
	buf        []byte
	layout     []byte
	imageCIS   []byte
	samplerCIS []byte
	user       []byte
	header     Header
}

// Load decodes data using the heap allocator. data is copied and never
// retained.
func Load(data []byte) (*Metadata, error) {
	return LoadWithOptions(data, DefaultLoadOptions())
}

// LoadWithOptions decodes data using the configured allocator. On failure
// every allocation made so far is released and a nil handle is returned.
func LoadWithOptions(data []byte, opts LoadOptions) (*Metadata, error) {
	if len(data)%WordSize != 0 {
		return nil, errors.WeirdBufferSize(len(data))
	}
	if uint64(len(data)) > math.MaxUint32 {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Value(len(data)).
			Detail("blob of %d bytes exceeds 32-bit offsets", len(data)).
			Build()
	}

	alloc := opts.Allocator
	if alloc == nil {
		alloc = pipemeta.HeapAllocator{}
	}

	md := &Metadata{alloc: alloc}
	if err := md.load(data); err != nil {
		Logger().Debug("pipeline metadata load failed",
			zap.Int("size", len(data)),
			zap.Error(err))
		md.Destroy()
		return nil, err
	}

	Logger().Debug("pipeline metadata loaded",
		zap.Int("size", len(data)),
		zap.Uint32("version_major", md.header.VersionMajor),
		zap.Uint32("version_minor", md.header.VersionMinor),
		zap.Int("sets", md.Layout().Len()),
		zap.Int("image_cis", md.ImageToCIS().Len()),
		zap.Int("sampler_cis", md.SamplerToCIS().Len()),
		zap.Int("user_entries", md.UserMetadata().Len()))
	return md, nil
}

func (md *Metadata) load(data []byte) error {
	var err error

	if md.buf, err = md.allocate(errors.PhaseLoad, "buffer copy", len(data)); err != nil {
		return err
	}
	copy(md.buf, data)

	if err := normalize(md.buf); err != nil {
		return err
	}

	if md.header, err = parseHeader(md.buf); err != nil {
		return err
	}

	if err := md.walkLayout(int(md.header.PipelineLayoutOffset)); err != nil {
		return err
	}
	if err := md.walkCISMap(errors.PhaseImageCIS, int(md.header.ImageToCISMapOffset), &md.imageCIS); err != nil {
		return err
	}
	if err := md.walkCISMap(errors.PhaseSamplerCIS, int(md.header.SamplerToCISMapOffset), &md.samplerCIS); err != nil {
		return err
	}
	return md.walkUserMetadata(int(md.header.UserMetadataOffset))
}

// Destroy releases every array the handle owns through the allocator it was
// loaded with. Safe on a nil handle and when called more than once. The
// handle and all views obtained from it must not be used afterwards.
// The Metadata value itself lives on the Go heap, not in the allocator.
func (md *Metadata) Destroy() {
	if md == nil || md.alloc == nil {
		return
	}
	for _, p := range []*[]byte{&md.buf, &md.layout, &md.imageCIS, &md.samplerCIS, &md.user} {
		if *p != nil {
			md.alloc.Free(*p)
			*p = nil
		}
	}
}

// Header returns the decoded header.
func (md *Metadata) Header() Header {
	return md.header
}

// Layout returns the descriptor set table.
func (md *Metadata) Layout() Layout {
	return Layout{buf: md.buf, index: md.layout}
}

// ImageToCIS returns the map from separate image bindings to the combined
// image/samplers they feed.
func (md *Metadata) ImageToCIS() CISMap {
	return CISMap{buf: md.buf, index: md.imageCIS}
}

// SamplerToCIS returns the map from separate sampler bindings to the
// combined image/samplers they feed.
func (md *Metadata) SamplerToCIS() CISMap {
	return CISMap{buf: md.buf, index: md.samplerCIS}
}

// UserMetadata returns the user key/value table.
func (md *Metadata) UserMetadata() UserMetadata {
	return UserMetadata{buf: md.buf, index: md.user}
}

// Size returns the length in bytes of the owned buffer.
func (md *Metadata) Size() int {
	return len(md.buf)
}

// allocate obtains exactly size bytes from the allocator.
func (md *Metadata) allocate(phase errors.Phase, what string, size int) ([]byte, error) {
	buf, err := md.alloc.Alloc(size)
	if err == nil && len(buf) != size {
		if buf != nil {
			md.alloc.Free(buf)
		}
		return nil, errors.New(phase, errors.KindOutOfMemory).
			Value(size).
			Detail("allocator returned %d bytes for %s, want %d", len(buf), what, size).
			Build()
	}
	if err != nil {
		return nil, errors.OutOfMemory(phase, what, size, err)
	}
	return buf, nil
}

// allocIndex obtains an index of entries records of words words each.
// An empty index is represented by nil and costs no allocation.
func (md *Metadata) allocIndex(phase errors.Phase, what string, entries uint32, words int) ([]byte, error) {
	if entries == 0 {
		return nil, nil
	}
	return md.allocate(phase, what, int(entries)*words*WordSize)
}

func parseHeader(buf []byte) (Header, error) {
	var h Header
	r := binary.NewReader(buf, 0)

	magic, err := r.ReadU32()
	if err != nil {
		return h, shortRead(errors.PhaseHeader, []string{"magic"}, err)
	}
	if magic != Magic {
		return h, errors.MagicMismatch(magic, Magic)
	}
	if err := r.Need(HeaderWords - 1); err != nil {
		return h, shortRead(errors.PhaseHeader, []string{"header"}, err)
	}

	h.Magic = magic
	fields := []*uint32{
		&h.HeaderSize,
		&h.VersionMajor,
		&h.VersionMinor,
		&h.PipelineLayoutOffset,
		&h.ImageToCISMapOffset,
		&h.SamplerToCISMapOffset,
		&h.UserMetadataOffset,
	}
	for _, f := range fields {
		// cannot fail, Need covered the whole header
		*f, _ = r.ReadU32()
	}

	offsets := []struct {
		name  string
		value uint32
	}{
		{"pipeline_layout_offset", h.PipelineLayoutOffset},
		{"image_to_cis_map_offset", h.ImageToCISMapOffset},
		{"sampler_to_cis_map_offset", h.SamplerToCISMapOffset},
		{"user_metadata_offset", h.UserMetadataOffset},
	}
	for _, o := range offsets {
		if uint64(o.value) >= uint64(len(buf)) {
			return h, errors.New(errors.PhaseHeader, errors.KindBufferTooSmall).
				Path(o.name).
				Value(o.value).
				Detail("offset %d outside buffer of %d bytes", o.value, len(buf)).
				Build()
		}
		if o.value%WordSize != 0 {
			return h, errors.New(errors.PhaseHeader, errors.KindMalformedRecord).
				Path(o.name).
				Value(o.value).
				Detail("offset %d is not word aligned", o.value).
				Build()
		}
	}
	return h, nil
}

// shortRead converts a cursor failure into a structured buffer_too_small error.
func shortRead(phase errors.Phase, path []string, err error) error {
	if short, ok := err.(*binary.ShortReadError); ok {
		return errors.BufferTooSmall(phase, path, short.Position, short.Need, short.Have)
	}
	return errors.Wrap(phase, errors.KindBufferTooSmall, err, "read failed")
}
