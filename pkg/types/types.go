package types

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// HashLen is the size of a locator hash in bytes.
const HashLen = 32

// Hash is the fixed-size opaque identifier a URL resolves to. It is the
// content address for resource-form URLs and the one-way name digest for
// alias-form URLs.
type Hash [HashLen]byte

// NewHash returns the SHA3-256 digest of data.
func NewHash(data []byte) Hash {
	return Hash(sha3.Sum256(data))
}

// HashOfName derives the locator hash of a human-readable name.
// It hashes the UTF-8 bytes of the name, so the mapping is deterministic
// and one-way: an alias URL whose top-level label is name always resolves
// to this hash.
func HashOfName(name string) Hash {
	return NewHash([]byte(name))
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h *Hash) FromBytes(b []byte) error {
	if len(b) != HashLen {
		return fmt.Errorf("invalid byte length for Hash: %d", len(b))
	}
	copy(h[:], b)
	return nil
}

// HashFromHex parses a hex string into a Hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hex for Hash: %w", err)
	}
	if err := h.FromBytes(b); err != nil {
		return h, err
	}
	return h, nil
}
