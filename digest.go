package bencode

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Digest is the SHA-1 of a value's canonical encoding. For the info
// dictionary of a torrent this is the info hash.
type Digest [sha1.Size]byte

// Sum returns the digest of v. It panics like Encode on invalid values.
func Sum(v Value) Digest { return SumEncoded(Encode(v)) }

// SumEncoded hashes already-encoded bytes as-is.
func SumEncoded(b []byte) Digest { return Digest(sha1.Sum(b)) }

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// ParseDigest parses a 40 character hex digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if hex.DecodedLen(len(s)) != len(d) {
		return d, fmt.Errorf("bencode: digest must be %d hex characters, got %d", 2*len(d), len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("bencode: invalid digest: %w", err)
	}
	return d, nil
}
