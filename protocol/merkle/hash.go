package merkle

import (
	"encoding/hex"
	"fmt"

	"github.com/uncomputable/simplicity/errors"
)

// Size is the length of a Hash in bytes.
const Size = 32

// Hash is a 256-bit Merkle root or SHA-256 midstate.
type Hash [Size]byte

// String returns the bytes of h encoded in hex.
func (h Hash) String() string {
	b, _ := h.MarshalText()
	return string(b)
}

// Bytes returns a copy of h as a slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

// IsZero reports whether h is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalText satisfies the TextMarshaler interface.
// It returns the bytes of h encoded in hex,
// for formats that can't hold arbitrary binary data.
// It never returns an error.
func (h Hash) MarshalText() ([]byte, error) {
	b := make([]byte, hex.EncodedLen(Size))
	hex.Encode(b, h[:])
	return b, nil
}

// UnmarshalText satisfies the TextUnmarshaler interface.
// It decodes hex data from b into h.
func (h *Hash) UnmarshalText(b []byte) error {
	if len(b) != hex.EncodedLen(Size) {
		return errors.WithDetailf(
			fmt.Errorf("bad hash hex length %d", len(b)),
			"expected hex string of length %d, but got `%s`",
			hex.EncodedLen(Size),
			b,
		)
	}
	_, err := hex.Decode(h[:], b)
	return err
}

// ParseHash decodes a hex-encoded Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	err := h.UnmarshalText([]byte(s))
	return h, err
}
