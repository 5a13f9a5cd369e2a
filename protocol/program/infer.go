package program

import (
	"sync"

	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/protocol/merkle"
	"github.com/uncomputable/simplicity/protocol/types"
)

// Typed is a program together with the source and target
// type of every node. Hidden nodes have no types.
type Typed struct {
	*Program
	Source []*types.Type
	Target []*types.Type

	amrOnce sync.Once
	amrs    []merkle.Hash
}

// Infer computes the principal types of p's nodes.
// Type variables left unconstrained are instantiated with
// the unit type.
func Infer(p *Program) (*Typed, error) {
	var (
		s   = types.NewSolver()
		n   = len(p.Nodes)
		src = make([]types.Var, n)
		tgt = make([]types.Var, n)
	)
	for i := range p.Nodes {
		src[i], tgt[i] = s.Fresh(), s.Fresh()
	}
	for i, node := range p.Nodes {
		if err := constrain(s, p, i, node, src, tgt); err != nil {
			return nil, errors.WithDetailf(err, "node %d (%s)", i, node.Tag)
		}
	}

	t := &Typed{
		Program: p,
		Source:  make([]*types.Type, n),
		Target:  make([]*types.Type, n),
	}
	for i, node := range p.Nodes {
		if node.Tag == Hidden {
			continue
		}
		var err error
		if t.Source[i], err = s.Resolve(src[i]); err != nil {
			return nil, errors.WithDetailf(err, "source of node %d (%s)", i, node.Tag)
		}
		if t.Target[i], err = s.Resolve(tgt[i]); err != nil {
			return nil, errors.WithDetailf(err, "target of node %d (%s)", i, node.Tag)
		}
	}
	return t, nil
}

// constrain adds the typing rule of node i to s.
func constrain(s *types.Solver, p *Program, i int, node Node, src, tgt []types.Var) error {
	var eqs [][2]types.Var
	eq := func(a, b types.Var) { eqs = append(eqs, [2]types.Var{a, b}) }

	l, r := node.Left, node.Right
	switch node.Tag {
	case Iden:
		eq(src[i], tgt[i])
	case Unit:
		eq(tgt[i], s.Unit())
	case InjL:
		eq(src[i], src[l])
		eq(tgt[i], s.Sum(tgt[l], s.Fresh()))
	case InjR:
		eq(src[i], src[l])
		eq(tgt[i], s.Sum(s.Fresh(), tgt[l]))
	case Take:
		eq(src[i], s.Product(src[l], s.Fresh()))
		eq(tgt[i], tgt[l])
	case Drop:
		eq(src[i], s.Product(s.Fresh(), src[l]))
		eq(tgt[i], tgt[l])
	case Comp:
		eq(src[i], src[l])
		eq(tgt[l], src[r])
		eq(tgt[i], tgt[r])
	case Case:
		a, b, c := s.Fresh(), s.Fresh(), s.Fresh()
		eq(src[i], s.Product(s.Sum(a, b), c))
		if p.Nodes[l].Tag != Hidden {
			eq(src[l], s.Product(a, c))
			eq(tgt[l], tgt[i])
		}
		if p.Nodes[r].Tag != Hidden {
			eq(src[r], s.Product(b, c))
			eq(tgt[r], tgt[i])
		}
	case Pair:
		eq(src[l], src[i])
		eq(src[r], src[i])
		eq(tgt[i], s.Product(tgt[l], tgt[r]))
	case Disconnect:
		b, c := s.Fresh(), s.Fresh()
		eq(src[l], s.Product(s.Fixed(types.Word(256)), src[i]))
		eq(tgt[l], s.Product(b, c))
		eq(src[r], c)
		eq(tgt[i], s.Product(b, tgt[r]))
	case Jet:
		eq(src[i], s.Fixed(node.Jet.Source))
		eq(tgt[i], s.Fixed(node.Jet.Target))
	case Witness, Hidden:
		// unconstrained
	}

	for _, e := range eqs {
		if err := s.Unify(e[0], e[1]); err != nil {
			return err
		}
	}
	return nil
}

// Type returns the source and target types of the whole program.
func (t *Typed) Type() (source, target *types.Type) {
	root := t.Root()
	return t.Source[root], t.Target[root]
}

// AMR returns the annotated Merkle root of the program, which
// commits to its structure and the types of every node.
func (t *Typed) AMR() merkle.Hash {
	t.amrOnce.Do(func() { t.amrs = t.computeAMRs() })
	return t.amrs[t.Root()]
}

func (t *Typed) computeAMRs() []merkle.Hash {
	amrs := make([]merkle.Hash, len(t.Nodes))
	for i, n := range t.Nodes {
		if n.Tag == Hidden {
			amrs[i] = n.Hash
			continue
		}
		iv := merkle.Annotate(n.Tag.String(), t.Source[i].TMR(), t.Target[i].TMR())
		switch {
		case n.Tag == Jet:
			amrs[i] = merkle.Unary(iv, n.Jet.CMR)
		case n.Tag.Arity() == 1:
			amrs[i] = merkle.Unary(iv, amrs[n.Left])
		case n.Tag.Arity() == 2:
			amrs[i] = merkle.Binary(iv, amrs[n.Left], amrs[n.Right])
		default:
			amrs[i] = merkle.Leaf(iv)
		}
	}
	return amrs
}
