package plmd

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint is a 32-byte BLAKE3 digest of a raw blob.
type Fingerprint [32]byte

// fingerprintKey separates blob fingerprints from any other BLAKE3 use of
// the same bytes. ASCII of the domain name, zero-padded to 32 bytes.
var fingerprintKey = [32]byte{
	'p', 'i', 'p', 'e', 'm', 'e', 't', 'a', '.', 'b', 'l', 'o', 'b',
}

// FingerprintOf hashes data exactly as supplied, before normalization, so
// equal files have equal fingerprints on every host.
func FingerprintOf(data []byte) Fingerprint {
	h, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		// only fails for keys that are not 32 bytes
		panic("plmd: blake3 keyed hasher: " + err.Error())
	}
	h.Write(data)
	var fp Fingerprint
	h.Sum(fp[:0])
	return fp
}

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// MarshalText encodes the fingerprint as lowercase hex.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
