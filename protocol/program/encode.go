package program

import (
	"github.com/uncomputable/simplicity/encoding/bitstream"
	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/protocol/merkle"
)

// New returns the canonical program rooted at the last of nodes.
// Children must refer to earlier nodes. Repeated subexpressions
// are merged and unreachable nodes dropped, so the result may
// have fewer nodes than the input.
func New(nodes []Node) (*Program, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyProgram
	}
	cmrs := make([]merkle.Hash, len(nodes))
	for i, n := range nodes {
		for _, c := range n.children() {
			if c < 0 || c >= i {
				return nil, errors.WithDetailf(ErrBadIndex, "node %d refers to node %d", i, c)
			}
		}
		if n.Tag == Jet && n.Jet == nil {
			return nil, errors.WithDetailf(ErrParse, "node %d is a jet with no definition", i)
		}
		cmrs[i] = nodeCMR(n, cmrs)
	}
	return canonicalize(nodes, cmrs, len(nodes)-1)
}

// EncodeProgram writes the canonical encoding of p to w.
func EncodeProgram(p *Program, w *bitstream.Writer) {
	w.WriteNatural(uint32(len(p.Nodes)))
	for i, n := range p.Nodes {
		encodeNode(w, i, n)
	}
}

// Encode returns the canonical encoding of p followed by
// the framed witness, zero-padded to a whole byte.
func Encode(p *Program, witness []bool) []byte {
	w := new(bitstream.Writer)
	EncodeProgram(p, w)
	w.WriteFramed(witness)
	return w.Bytes()
}

var compositeCodes = map[Tag]uint64{
	Comp: 0, Case: 1, Pair: 2, Disconnect: 3,
	InjL: 4, InjR: 5, Take: 6, Drop: 7,
}

func encodeNode(w *bitstream.Writer, i int, n Node) {
	switch n.Tag {
	case Jet:
		w.WriteBit(true)
		w.WriteNatural(n.Jet.ID)
		return
	case Iden:
		w.WriteBits(0x08, 5)
		return
	case Unit:
		w.WriteBits(0x09, 5)
		return
	case Hidden:
		w.WriteBits(0x06, 4)
		w.WriteBytes(n.Hash[:])
		return
	case Witness:
		w.WriteBits(0x07, 4)
		return
	}
	w.WriteBits(compositeCodes[n.Tag], 5)
	for _, c := range n.children() {
		w.WriteNatural(uint32(i - c))
	}
}
