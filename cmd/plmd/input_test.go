package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/wippyai/pipeline-metadata/plmd"
)

func sampleBlob(t *testing.T) []byte {
	t.Helper()
	data, err := plmd.Encode(&plmd.Document{
		User: []plmd.UserPair{{Key: "entry_point", Value: strings.Repeat("main", 64)}},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

func TestCompressRoundTrip(t *testing.T) {
	blob := sampleBlob(t)
	for _, method := range []string{"none", "zstd", "lz4"} {
		t.Run(method, func(t *testing.T) {
			packed, err := compress(blob, method)
			if err != nil {
				t.Fatalf("compress: %v", err)
			}
			if method != "none" && bytes.Equal(packed, blob) {
				t.Fatal("compress returned input unchanged")
			}
			out, detected, err := decompress(packed, 1<<20)
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if detected != method {
				t.Errorf("detected %q, want %q", detected, method)
			}
			if !bytes.Equal(out, blob) {
				t.Error("round trip changed the blob")
			}
		})
	}
}

func TestCompressUnknownMethod(t *testing.T) {
	if _, err := compress([]byte{1}, "gzip"); err == nil {
		t.Error("compress accepted gzip")
	}
}

func TestDecompressLimit(t *testing.T) {
	blob := sampleBlob(t)
	limit := int64(len(blob) - 4)
	for _, method := range []string{"zstd", "lz4"} {
		t.Run(method, func(t *testing.T) {
			packed, err := compress(blob, method)
			if err != nil {
				t.Fatalf("compress: %v", err)
			}
			if int64(len(packed)) > limit {
				t.Skipf("compressed size %d already above limit", len(packed))
			}
			if _, _, err := decompress(packed, limit); err == nil {
				t.Error("decompress ignored the size limit")
			}
		})
	}
}

func TestReadLimited(t *testing.T) {
	data := []byte("0123456789")
	if got, err := readLimited(bytes.NewReader(data), 10); err != nil || !bytes.Equal(got, data) {
		t.Errorf("readLimited at limit = %q, %v", got, err)
	}
	if _, err := readLimited(bytes.NewReader(data), 9); err == nil {
		t.Error("readLimited accepted input over the limit")
	}
	if got, err := readLimited(bytes.NewReader(data), math.MaxInt64); err != nil || !bytes.Equal(got, data) {
		t.Errorf("readLimited without a practical limit = %q, %v", got, err)
	}
}

func TestRawBlobIsNotMistakenForFrame(t *testing.T) {
	blob := sampleBlob(t)
	out, method, err := decompress(blob, 1<<20)
	if err != nil || method != "none" || !bytes.Equal(out, blob) {
		t.Errorf("decompress(raw) = %d bytes, %q, %v", len(out), method, err)
	}
}
