package plmd

import (
	"fmt"
	"strconv"
	"strings"
)

// Header is the fixed record at the start of every blob.
type Header struct {
	Magic                 uint32 `json:"magic" yaml:"magic" cbor:"magic"`
	HeaderSize            uint32 `json:"header_size" yaml:"header_size" cbor:"header_size"`
	VersionMajor          uint32 `json:"version_major" yaml:"version_major" cbor:"version_major"`
	VersionMinor          uint32 `json:"version_minor" yaml:"version_minor" cbor:"version_minor"`
	PipelineLayoutOffset  uint32 `json:"pipeline_layout_offset" yaml:"pipeline_layout_offset" cbor:"pipeline_layout_offset"`
	ImageToCISMapOffset   uint32 `json:"image_to_cis_map_offset" yaml:"image_to_cis_map_offset" cbor:"image_to_cis_map_offset"`
	SamplerToCISMapOffset uint32 `json:"sampler_to_cis_map_offset" yaml:"sampler_to_cis_map_offset" cbor:"sampler_to_cis_map_offset"`
	UserMetadataOffset    uint32 `json:"user_metadata_offset" yaml:"user_metadata_offset" cbor:"user_metadata_offset"`
}

// DescriptorType is the resource kind of a descriptor.
// Tags outside the known set are carried through unchanged.
type DescriptorType uint32

const (
	DescriptorUniformBuffer        DescriptorType = 0
	DescriptorStorageBuffer        DescriptorType = 1
	DescriptorLoadStoreImage       DescriptorType = 2
	DescriptorSampledImage         DescriptorType = 3
	DescriptorSampler              DescriptorType = 4
	DescriptorCombinedImageSampler DescriptorType = 5
)

var descriptorTypeNames = [...]string{
	DescriptorUniformBuffer:        "uniform-buffer",
	DescriptorStorageBuffer:        "storage-buffer",
	DescriptorLoadStoreImage:       "load-store-image",
	DescriptorSampledImage:         "sampled-image",
	DescriptorSampler:              "sampler",
	DescriptorCombinedImageSampler: "combined-image-sampler",
}

// Known reports whether t is one of the defined descriptor types.
func (t DescriptorType) Known() bool {
	return t <= DescriptorCombinedImageSampler
}

func (t DescriptorType) String() string {
	if t.Known() {
		return descriptorTypeNames[t]
	}
	return fmt.Sprintf("unknown(%d)", uint32(t))
}

// MarshalText encodes known types by name and others as a decimal tag.
func (t DescriptorType) MarshalText() ([]byte, error) {
	if t.Known() {
		return []byte(descriptorTypeNames[t]), nil
	}
	return []byte(strconv.FormatUint(uint64(t), 10)), nil
}

// UnmarshalText accepts a type name or a decimal tag.
func (t *DescriptorType) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range descriptorTypeNames {
		if s == name {
			*t = DescriptorType(i)
			return nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("unknown descriptor type %q", s)
	}
	*t = DescriptorType(n)
	return nil
}

// StageMask records which shader stages reference a descriptor.
type StageMask uint32

const (
	StageVertex   StageMask = 1 << 0
	StageFragment StageMask = 1 << 1
)

var stageNames = []struct {
	bit  StageMask
	name string
}{
	{StageVertex, "vertex"},
	{StageFragment, "fragment"},
}

// Has reports whether every stage in s is set.
func (m StageMask) Has(s StageMask) bool {
	return m&s == s
}

func (m StageMask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	rest := m
	for _, st := range stageNames {
		if m&st.bit != 0 {
			parts = append(parts, st.name)
			rest &^= st.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// MarshalText encodes the mask in its String form.
func (m StageMask) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts "none", or stage names and numeric bits joined by "|".
func (m *StageMask) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" || s == "none" {
		*m = 0
		return nil
	}
	var out StageMask
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		found := false
		for _, st := range stageNames {
			if part == st.name {
				out |= st.bit
				found = true
				break
			}
		}
		if found {
			continue
		}
		n, err := strconv.ParseUint(part, 0, 32)
		if err != nil {
			return fmt.Errorf("unknown shader stage %q", part)
		}
		out |= StageMask(n)
	}
	*m = out
	return nil
}

// Descriptor is a single resource binding within a descriptor set.
type Descriptor struct {
	Binding uint32         `json:"binding" yaml:"binding" cbor:"binding"`
	Type    DescriptorType `json:"type" yaml:"type" cbor:"type"`
	Stages  StageMask      `json:"stages" yaml:"stages" cbor:"stages"`
}

func (d Descriptor) String() string {
	return fmt.Sprintf("binding %d: %s [%s]", d.Binding, d.Type, d.Stages)
}
