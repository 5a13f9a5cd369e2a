package program

import (
	"github.com/uncomputable/simplicity/encoding/bitstream"
	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/protocol/jet"
	"github.com/uncomputable/simplicity/protocol/merkle"
)

// DefaultMaxNodes is the node ceiling used when a Config leaves
// MaxNodes unset.
const DefaultMaxNodes = 1 << 20

// Config controls decoding.
type Config struct {
	// MaxNodes bounds the declared node count.
	MaxNodes int

	// Jets resolves jet identifiers. If nil, the core jets are used.
	Jets *jet.Table
}

var coreJets = jet.CoreTable()

func (c *Config) maxNodes() int {
	if c == nil || c.MaxNodes <= 0 {
		return DefaultMaxNodes
	}
	return c.MaxNodes
}

func (c *Config) jets() *jet.Table {
	if c == nil || c.Jets == nil {
		return coreJets
	}
	return c.Jets
}

// Decode parses a program followed by its framed witness from b.
// Only zero padding may follow the witness. The witness is
// returned as a reader over exactly the declared number of bits.
func Decode(b []byte, cfg *Config) (*Program, *bitstream.Reader, error) {
	r := bitstream.NewReader(b)
	p, err := DecodeProgram(r, cfg)
	if err != nil {
		return nil, nil, err
	}
	w, err := r.ReadFramed()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading witness")
	}
	if err := r.Finish(); err != nil {
		return nil, nil, err
	}
	return p, w, nil
}

// DecodeProgram parses a program from r, leaving r positioned
// after the last node. It enforces back-references, hidden node
// placement, maximal sharing and canonical order.
func DecodeProgram(r *bitstream.Reader, cfg *Config) (*Program, error) {
	if r.Len() == 0 {
		return nil, ErrEmptyProgram
	}
	n, err := r.ReadNatural()
	if err != nil {
		return nil, errors.Wrap(err, "reading node count")
	}
	if uint64(n) > uint64(cfg.maxNodes()) {
		return nil, errors.WithDetailf(ErrTooManyNodes, "%d nodes, limit %d", n, cfg.maxNodes())
	}

	// Every node code takes at least 4 bits, so a short stream
	// cannot hold more than r.Len()/4 nodes.
	size := uint64(n)
	if max := r.Len() / 4; size > max {
		size = max
	}
	var (
		jets  = cfg.jets()
		nodes = make([]Node, 0, size)
		cmrs  = make([]merkle.Hash, 0, size)
		seen  = make(map[merkle.Hash]int, size)
	)
	for i := 0; i < int(n); i++ {
		node, err := decodeNode(r, i, jets)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding node %d", i)
		}
		if err := checkHiddenChildren(nodes, i, node); err != nil {
			return nil, err
		}
		h := nodeCMR(node, cmrs)
		if prev, ok := seen[h]; ok {
			return nil, errors.WithDetailf(ErrSharingNotMaximal, "nodes %d and %d have cmr %s", prev, i, h)
		}
		seen[h] = i
		nodes = append(nodes, node)
		cmrs = append(cmrs, h)
	}

	p := newProgram(nodes, cmrs)
	if nodes[p.Root()].Tag == Hidden {
		return nil, errors.WithDetail(ErrNonCaseHiddenChild, "root is hidden")
	}
	order := canonicalOrder(nodes, cmrs, p.Root())
	for k, i := range order {
		if k != i {
			return nil, errors.WithDetailf(ErrNotInCanonicalOrder, "node %d appears at position %d", i, k)
		}
	}
	if len(order) != len(nodes) {
		return nil, errors.WithDetailf(ErrNotInCanonicalOrder, "%d of %d nodes unreachable from the root", len(nodes)-len(order), len(nodes))
	}
	return p, nil
}

// Node codes, after the leading 0 bit that distinguishes them from jets.
// 00xxx: comp, case, pair, disconnect, injl, injr, take, drop
// 0100x: iden, unit
// 0101x: reserved
// 0110:  hidden, followed by a 256-bit commitment root
// 0111:  witness
var composite = [8]Tag{Comp, Case, Pair, Disconnect, InjL, InjR, Take, Drop}

func decodeNode(r *bitstream.Reader, i int, jets *jet.Table) (Node, error) {
	isJet, err := r.ReadBit()
	if err != nil {
		return Node{}, err
	}
	if isJet {
		id, err := r.ReadNatural()
		if err != nil {
			return Node{}, err
		}
		j, err := jets.ByID(id)
		if err != nil {
			return Node{}, err
		}
		return Node{Tag: Jet, Jet: j}, nil
	}

	code, err := r.ReadBits(2)
	if err != nil {
		return Node{}, err
	}
	switch code {
	case 0, 1:
		low, err := r.ReadBits(2)
		if err != nil {
			return Node{}, err
		}
		node := Node{Tag: composite[code<<2|low]}
		if node.Left, err = decodeChild(r, i); err != nil {
			return Node{}, err
		}
		if node.Tag.Arity() == 2 {
			if node.Right, err = decodeChild(r, i); err != nil {
				return Node{}, err
			}
		}
		return node, nil
	case 2:
		low, err := r.ReadBits(2)
		if err != nil {
			return Node{}, err
		}
		switch low {
		case 0:
			return Node{Tag: Iden}, nil
		case 1:
			return Node{Tag: Unit}, nil
		}
		return Node{}, errors.WithDetailf(ErrParse, "reserved code 0101%d", low&1)
	}

	// code == 3
	isWitness, err := r.ReadBit()
	if err != nil {
		return Node{}, err
	}
	if isWitness {
		return Node{Tag: Witness}, nil
	}
	b, err := r.ReadBytes(merkle.Size)
	if err != nil {
		return Node{}, err
	}
	var h merkle.Hash
	copy(h[:], b)
	return Node{Tag: Hidden, Hash: h}, nil
}

func decodeChild(r *bitstream.Reader, i int) (int, error) {
	off, err := r.ReadNatural()
	if err != nil {
		return 0, err
	}
	if uint64(off) > uint64(i) {
		return 0, errors.WithDetailf(ErrBadIndex, "node %d refers %d nodes back", i, off)
	}
	return i - int(off), nil
}
