package merkle

import (
	"crypto/sha256"
	"encoding"
	"encoding/binary"
)

// sha256 exports its internal state through encoding.BinaryMarshaler
// as "sha\x03" || h[0..8] || pending block || length, all big-endian.
const (
	stateMagic = "sha\x03"
	stateSize  = len(stateMagic) + Size + sha256.BlockSize + 8
)

// Compress runs one round of the SHA-256 compression function
// starting from midstate iv over the 512-bit block a || b,
// without padding.
func Compress(iv, a, b Hash) Hash {
	state := make([]byte, 0, stateSize)
	state = append(state, stateMagic...)
	state = append(state, iv[:]...)
	state = append(state, make([]byte, sha256.BlockSize)...)
	state = binary.BigEndian.AppendUint64(state, sha256.BlockSize)

	d := sha256.New()
	if err := d.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
		panic("merkle: cannot load sha256 midstate: " + err.Error())
	}
	d.Write(a[:])
	d.Write(b[:])

	out, err := d.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		panic("merkle: cannot save sha256 midstate: " + err.Error())
	}
	var h Hash
	copy(h[:], out[len(stateMagic):])
	return h
}

// CompressBlock is Compress over a raw 64-byte block.
func CompressBlock(iv Hash, block [sha256.BlockSize]byte) Hash {
	var a, b Hash
	copy(a[:], block[:Size])
	copy(b[:], block[Size:])
	return Compress(iv, a, b)
}

// InitialIV is the SHA-256 initial hash value.
var InitialIV = Hash{
	0x6a, 0x09, 0xe6, 0x67, 0xbb, 0x67, 0xae, 0x85,
	0x3c, 0x6e, 0xf3, 0x72, 0xa5, 0x4f, 0xf5, 0x3a,
	0x51, 0x0e, 0x52, 0x7f, 0x9b, 0x05, 0x68, 0x8c,
	0x1f, 0x83, 0xd9, 0xab, 0x5b, 0xe0, 0xcd, 0x19,
}

// TagIV returns SHA256(tag), used as a midstate.
func TagIV(tag string) Hash {
	return Hash(sha256.Sum256([]byte(tag)))
}
