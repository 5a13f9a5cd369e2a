/*
Package bitmachine implements the Bit Machine, the abstract
machine that gives Simplicity programs their operational
semantics.

The machine's memory is a single array of cells, each holding one
bit. Frames are windows onto that array, each with a cursor, kept
on two stacks: the active read frame holds a node's input and the
active write frame receives its output. Every combinator is
executed as a fixed sequence of frame instructions, so a well-typed
program never reads or writes outside its frames.
*/
package bitmachine

import (
	"github.com/uncomputable/simplicity/encoding/bitstream"
	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/protocol/program"
	"github.com/uncomputable/simplicity/protocol/types"
)

var (
	ErrHiddenBranch              = errors.New("execution reached a pruned branch")
	ErrInconsistentWitnessLength = errors.New("witness length does not match the bits consumed")
	ErrCellLimit                 = errors.New("cell limit exceeded")
)

type machine struct {
	// config, doesn't change after init
	traceNode func(int, program.Node)
	cellLimit int

	prog    *program.Typed
	witness *bitstream.Reader

	cells       []bool
	read, write []frame
	maxCells    int
}

// Result describes a completed execution.
type Result struct {
	Output   types.Value
	MaxCells int // high-water mark of the cell array
}

// Exec runs p on input, which must be a value of p's source type,
// reading witness data from witness. The witness must be consumed
// exactly. Execution is deterministic: the same program, input and
// witness always give the same result.
func Exec(p *program.Typed, input types.Value, witness *bitstream.Reader, opts ...Option) (*Result, error) {
	src, tgt := p.Type()
	in, err := types.Encode(input, src)
	if err != nil {
		return nil, errors.Wrap(err, "encoding input")
	}
	out, m, err := run(p, in, witness, opts)
	if err != nil {
		return nil, err
	}
	v, err := types.Decode(out, tgt)
	if err != nil {
		return nil, errors.Wrap(err, "decoding output")
	}
	return &Result{Output: v, MaxCells: m.maxCells}, nil
}

// ExecBits is like Exec but takes and returns the
// cell representation of the input and output.
func ExecBits(p *program.Typed, in []bool, witness *bitstream.Reader, opts ...Option) ([]bool, error) {
	src, _ := p.Type()
	if uint64(len(in)) != uint64(src.BitWidth()) {
		return nil, errors.WithDetailf(types.ErrValueType, "%d input bits for %s", len(in), src)
	}
	out, _, err := run(p, in, witness, opts)
	return out, err
}

func run(p *program.Typed, in []bool, witness *bitstream.Reader, opts []Option) ([]bool, *machine, error) {
	m := &machine{
		traceNode: func(int, program.Node) {},
		prog:      p,
		witness:   witness,
	}
	for _, o := range opts {
		o(m)
	}

	_, tgt := p.Type()
	if err := m.newFrame(len(in)); err != nil {
		return nil, nil, err
	}
	m.writeBits(in)
	m.moveFrame()
	if err := m.newFrame(int(tgt.BitWidth())); err != nil {
		return nil, nil, err
	}

	if err := m.exec(p.Root()); err != nil {
		return nil, nil, err
	}
	if n := witness.Len(); n != 0 {
		return nil, nil, errors.WithDetailf(ErrInconsistentWitnessLength, "%d witness bits left over", n)
	}

	w := m.writeFrame()
	out := make([]bool, w.size)
	copy(out, m.cells[w.start:w.start+w.size])
	return out, m, nil
}

func (m *machine) exec(i int) error {
	n := m.prog.Nodes[i]
	m.traceNode(i, n)

	switch n.Tag {
	case program.Iden:
		m.copyBits(m.width(m.prog.Source[i]))

	case program.Unit:
		// nothing to write

	case program.InjL:
		m.writeBit(false)
		m.skip(int(m.prog.Target[i].PadLeft()))
		return m.exec(n.Left)

	case program.InjR:
		m.writeBit(true)
		m.skip(int(m.prog.Target[i].PadRight()))
		return m.exec(n.Left)

	case program.Take:
		return m.exec(n.Left)

	case program.Drop:
		skip := m.width(m.prog.Source[i].Left)
		m.fwd(skip)
		if err := m.exec(n.Left); err != nil {
			return err
		}
		m.bwd(skip)

	case program.Comp:
		if err := m.newFrame(m.width(m.prog.Target[n.Left])); err != nil {
			return err
		}
		if err := m.exec(n.Left); err != nil {
			return err
		}
		m.moveFrame()
		if err := m.exec(n.Right); err != nil {
			return err
		}
		m.dropFrame()

	case program.Case:
		sum := m.prog.Source[i].Left
		branch, skip := n.Left, 1+int(sum.PadLeft())
		if m.readBit() {
			branch, skip = n.Right, 1+int(sum.PadRight())
		}
		if m.prog.Nodes[branch].Tag == program.Hidden {
			return errors.WithDetailf(ErrHiddenBranch, "case at node %d", i)
		}
		m.fwd(skip)
		if err := m.exec(branch); err != nil {
			return err
		}
		m.bwd(skip)

	case program.Pair:
		if err := m.exec(n.Left); err != nil {
			return err
		}
		return m.exec(n.Right)

	case program.Disconnect:
		return m.disconnect(i, n)

	case program.Witness:
		k := m.width(m.prog.Target[i])
		bits, err := m.witness.ReadBools(uint64(k))
		if err != nil {
			err = errors.Sub(ErrInconsistentWitnessLength, err)
			return errors.WithDetailf(err, "node %d needs %d more bits", i, k)
		}
		m.writeBits(bits)

	case program.Jet:
		out, err := n.Jet.Eval(m.peek(m.width(m.prog.Source[i])))
		if err != nil {
			return err
		}
		m.writeBits(out)

	case program.Hidden:
		return errors.WithDetailf(ErrHiddenBranch, "node %d", i)
	}
	return nil
}

// disconnect runs its left child on the commitment root of its
// right child paired with the input, passes the first component
// of the result through, and runs the right child on the second.
func (m *machine) disconnect(i int, n program.Node) error {
	var (
		a  = m.width(m.prog.Source[i])
		bc = m.prog.Target[n.Left]
		b  = m.width(bc.Left)
	)

	if err := m.newFrame(256 + a); err != nil {
		return err
	}
	cmr := m.prog.NodeCMR(n.Right)
	for _, c := range cmr {
		for k := 7; k >= 0; k-- {
			m.writeBit(c&(1<<uint(k)) != 0)
		}
	}
	m.copyBits(a)
	m.moveFrame()

	if err := m.newFrame(m.width(bc)); err != nil {
		return err
	}
	if err := m.exec(n.Left); err != nil {
		return err
	}
	m.dropFrame()
	m.moveFrame()

	m.copyBits(b)
	m.fwd(b)
	if err := m.exec(n.Right); err != nil {
		return err
	}
	m.bwd(b)
	m.dropFrame()
	return nil
}

func (m *machine) width(t *types.Type) int {
	return int(t.BitWidth())
}
