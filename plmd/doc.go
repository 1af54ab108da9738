// Package plmd decodes and encodes pipeline metadata blobs.
//
// A blob is a sequence of big-endian 32-bit words. It starts with a fixed
// header followed by four offset-addressed records:
//
//	header          magic, header_size, version_major, version_minor,
//	                layout_offset, image_cis_offset, sampler_cis_offset,
//	                user_metadata_offset
//	layout          set_count, { descriptor_count, { binding, type, stages } }
//	image->cis      entry_count, { set, binding, id_count, { id } }
//	sampler->cis    entry_count, { set, binding, id_count, { id } }
//	user metadata   entry_count, { key span, value span }
//
// Opaque bytes such as strings are stored as raw spans: the word 0xFFFFFFFF,
// the payload length in words, then the payload. Raw span payloads keep
// their file byte order; every other word is converted to host order once,
// when the blob is loaded.
//
// # Loading
//
//	data, _ := os.ReadFile("pipeline.plmd")
//	md, err := plmd.Load(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer md.Destroy()
//
// Use LoadWithOptions to supply a custom pipemeta.Allocator. Every read
// performed while loading is bounds checked; a blob whose records run past
// the end of the buffer fails with errors.KindBufferTooSmall instead of
// being read out of bounds.
//
// # Views
//
// Accessors return small value types (Layout, DescriptorSet, CISMap,
// CISEntry, UserMetadata, UserEntry) that read directly from the handle's
// buffer. They allocate nothing and stay valid until Destroy:
//
//	if e, ok := md.ImageToCIS().Lookup(0, 3); ok {
//	    ids := e.CombinedIDs()
//	}
//	shader, _ := md.UserMetadata().Lookup("entry_point")
//
// # Encoding
//
// Encode builds a blob from a Document, the plain-data mirror of a handle:
//
//	blob, err := plmd.Encode(&plmd.Document{
//	    Layout: []plmd.Set{{Descriptors: []plmd.Descriptor{
//	        {Binding: 0, Type: plmd.DescriptorUniformBuffer, Stages: plmd.StageVertex},
//	    }}},
//	})
//
// Round-tripping preserves every field:
//
//	md, _ := plmd.Load(blob)
//	doc := md.Document()
package plmd
