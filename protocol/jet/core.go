package jet

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"golang.org/x/crypto/sha3"

	"github.com/uncomputable/simplicity/protocol/merkle"
	"github.com/uncomputable/simplicity/protocol/types"
)

// Wire identifiers of the core jets.
const (
	IDVerify uint32 = iota + 1
	IDEq32
	IDAdd32
	IDSubtract32
	IDMultiply32
	IDLt32
	IDSHA256Block
	IDSHA256Hash512
	IDSHA3256Hash512
	IDBIP340Verify
)

var (
	w32  = types.Word(32)
	w64  = types.Word(64)
	w256 = types.Word(256)
	w512 = types.Word(512)
)

// Core returns the core jets, in id order.
// Each call returns fresh values that the caller may register.
func Core() []*Jet {
	jets := []*Jet{
		{ID: IDVerify, Name: "verify", Source: types.Two(), Target: types.Unit(), Exec: jetVerify},
		{ID: IDEq32, Name: "eq_32", Source: w64, Target: types.Two(), Exec: jetEq32},
		{ID: IDAdd32, Name: "add_32", Source: w64, Target: types.MustProduct(types.Two(), w32), Exec: jetAdd32},
		{ID: IDSubtract32, Name: "subtract_32", Source: w64, Target: types.MustProduct(types.Two(), w32), Exec: jetSubtract32},
		{ID: IDMultiply32, Name: "multiply_32", Source: w64, Target: w64, Exec: jetMultiply32},
		{ID: IDLt32, Name: "lt_32", Source: w64, Target: types.Two(), Exec: jetLt32},
		{ID: IDSHA256Block, Name: "sha_256_block", Source: types.MustProduct(w256, w512), Target: w256, Exec: jetSHA256Block},
		{ID: IDSHA256Hash512, Name: "sha_256_hash_512", Source: w512, Target: w256, Exec: jetSHA256Hash512},
		{ID: IDSHA3256Hash512, Name: "sha3_256_hash_512", Source: w512, Target: w256, Exec: jetSHA3256Hash512},
		{ID: IDBIP340Verify, Name: "bip_0340_verify", Source: types.MustProduct(w512, w512), Target: types.Unit(), Exec: jetBIP340Verify},
	}
	for _, j := range jets {
		j.CMR = merkle.JetCMR(j.Name)
	}
	return jets
}

// CoreTable returns a new Table holding the core jets.
func CoreTable() *Table {
	t := NewTable()
	for _, j := range Core() {
		if err := t.Register(j); err != nil {
			panic(err)
		}
	}
	return t
}

func jetVerify(in Reader, out Writer) error {
	if !in.ReadBit() {
		return ErrJetFailed
	}
	return nil
}

func jetEq32(in Reader, out Writer) error {
	a, b := in.ReadUint(32), in.ReadUint(32)
	out.WriteBit(a == b)
	return nil
}

func jetAdd32(in Reader, out Writer) error {
	a, b := in.ReadUint(32), in.ReadUint(32)
	sum := a + b
	out.WriteBit(sum>>32 != 0)
	out.WriteUint(sum, 32)
	return nil
}

func jetSubtract32(in Reader, out Writer) error {
	a, b := in.ReadUint(32), in.ReadUint(32)
	out.WriteBit(a < b)
	out.WriteUint(a-b, 32)
	return nil
}

func jetMultiply32(in Reader, out Writer) error {
	a, b := in.ReadUint(32), in.ReadUint(32)
	out.WriteUint(a*b, 64)
	return nil
}

func jetLt32(in Reader, out Writer) error {
	a, b := in.ReadUint(32), in.ReadUint(32)
	out.WriteBit(a < b)
	return nil
}

func jetSHA256Block(in Reader, out Writer) error {
	var iv, a, b merkle.Hash
	copy(iv[:], in.ReadBytes(32))
	copy(a[:], in.ReadBytes(32))
	copy(b[:], in.ReadBytes(32))
	h := merkle.Compress(iv, a, b)
	out.WriteBytes(h[:])
	return nil
}

func jetSHA256Hash512(in Reader, out Writer) error {
	h := sha256.Sum256(in.ReadBytes(64))
	out.WriteBytes(h[:])
	return nil
}

func jetSHA3256Hash512(in Reader, out Writer) error {
	h := sha3.Sum256(in.ReadBytes(64))
	out.WriteBytes(h[:])
	return nil
}

// jetBIP340Verify checks a BIP-340 signature. Its input is
// ((pubkey, message), signature): a 32-byte x-only key,
// a 32-byte message and a 64-byte signature.
func jetBIP340Verify(in Reader, out Writer) error {
	pkBytes := in.ReadBytes(32)
	msg := in.ReadBytes(32)
	sigBytes := in.ReadBytes(64)

	pk, err := schnorr.ParsePubKey(pkBytes)
	if err != nil {
		return ErrJetFailed
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return ErrJetFailed
	}
	if !sig.Verify(msg, pk) {
		return ErrJetFailed
	}
	return nil
}
