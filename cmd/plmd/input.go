package main

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Frame magics of the compressed containers accepted on input. A raw blob
// starts with 0xDEADBEEF and never collides with either.
var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// readInput reads path ("-" for stdin) and transparently decompresses it.
// The returned name is the compression that was removed, or "none".
func readInput(path string, limit int64) ([]byte, string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		r = f
	}

	data, err := readLimited(r, limit)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	out, method, err := decompress(data, limit)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return out, method, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	n := limit
	if n < math.MaxInt64 {
		n++
	}
	data, err := io.ReadAll(io.LimitReader(r, n))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("input exceeds %d bytes", limit)
	}
	return data, nil
}

func decompress(data []byte, limit int64) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(limit)))
		if err != nil {
			return nil, "", fmt.Errorf("zstd decoder: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, "", fmt.Errorf("zstd decompress: %w", err)
		}
		if int64(len(out)) > limit {
			return nil, "", fmt.Errorf("decompressed input exceeds %d bytes", limit)
		}
		return out, "zstd", nil

	case bytes.HasPrefix(data, lz4Magic):
		out, err := readLimited(lz4.NewReader(bytes.NewReader(data)), limit)
		if err != nil {
			return nil, "", fmt.Errorf("lz4 decompress: %w", err)
		}
		return out, "lz4", nil
	}
	return data, "none", nil
}

func compress(data []byte, method string) ([]byte, error) {
	switch method {
	case "", "none":
		return data, nil

	case "zstd":
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		out := enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		return out, nil

	case "lz4":
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown compression %q", method)
}
