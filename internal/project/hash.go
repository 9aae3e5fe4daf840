package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a fixed 256-bit artifact hash.
type Digest [32]byte

// ArtifactDigest hashes one artifact's emitted bytes.
func ArtifactDigest(raw []byte) Digest {
	return sha256.Sum256(raw)
}

// Combine builds an aggregated graph hash: H(main || aux1 || aux2 ...).
// Auxiliary order must be deterministic; the artifact graph preserves it.
func Combine(main Digest, aux ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(main[:])
	for _, d := range aux {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Short returns the first eight hex characters, enough for display.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:4])
}

// String returns the full hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
