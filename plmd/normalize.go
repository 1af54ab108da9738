package plmd

import (
	"encoding/binary"

	"github.com/wippyai/pipeline-metadata/errors"
)

// normalize rewrites every big-endian word of buf in host order, leaving the
// payload of raw spans untouched. The sentinel itself reads the same in any
// byte order; its length word is converted.
func normalize(buf []byte) error {
	n := len(buf) / WordSize
	for i := 0; i < n; {
		off := i * WordSize
		word := binary.BigEndian.Uint32(buf[off:])
		if word != RawSpanSentinel {
			binary.NativeEndian.PutUint32(buf[off:], word)
			i++
			continue
		}

		if i+1 >= n {
			return errors.New(errors.PhaseNormalize, errors.KindBufferTooSmall).
				Path("raw_span").
				Offset(off).
				Detail("raw span sentinel is the last word").
				Build()
		}
		lenOff := off + WordSize
		length := binary.BigEndian.Uint32(buf[lenOff:])
		binary.NativeEndian.PutUint32(buf[lenOff:], length)

		if uint64(length) > uint64(n-i-2) {
			return errors.New(errors.PhaseNormalize, errors.KindBufferTooSmall).
				Path("raw_span").
				Offset(off).
				Value(length).
				Detail("raw span of %d words overruns buffer, %d words remain", length, n-i-2).
				Build()
		}
		i += 2 + int(length)
	}
	return nil
}
