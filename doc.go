// Package pipemeta provides a Go decoder for pipeline metadata blobs.
//
// Pipeline metadata is a compact, offset-addressed binary container written
// by an offline shader compiler. It describes a GPU pipeline's resource
// binding layout (descriptor sets), the combined image/sampler tables that
// back ends without separate texture and sampler binding need, and a free
// form table of user key/value strings.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	pipemeta/            Root package with the Allocator capability
//	├── plmd/            Decoder, encoder and read-only views
//	├── errors/          Structured error types for debugging
//	└── cmd/plmd/        Command line inspector and encoder
//
// # Quick Start
//
// Load a blob and walk its layout:
//
//	md, err := plmd.Load(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer md.Destroy()
//
//	layout := md.Layout()
//	for i := 0; i < layout.Len(); i++ {
//	    set := layout.Set(i)
//	    for j := 0; j < set.Len(); j++ {
//	        fmt.Println(i, set.Descriptor(j))
//	    }
//	}
//
// # Memory Model
//
// A handle owns one private copy of the input plus a handful of index
// arrays, all obtained from an Allocator. Every view returned by an accessor
// points into that copy and is valid until Destroy. Supply a custom
// Allocator through plmd.LoadOptions to account for or cap that memory.
//
// # Thread Safety
//
// A loaded handle is immutable and safe for concurrent readers. Destroy
// must not run concurrently with any accessor on the same handle.
package pipemeta
