package program

import (
	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/protocol/jet"
	"github.com/uncomputable/simplicity/protocol/merkle"
	"github.com/uncomputable/simplicity/protocol/types"
)

// Expr is a handle to a subexpression held by a Builder.
type Expr int

// Builder assembles untyped programs in memory. It is the entry
// point for producers such as policy compilers. Subexpressions with
// equal commitment roots are stored once, so the programs it builds
// are maximally shared.
//
// The first invalid handle passed to a Builder is remembered and
// returned by Build.
type Builder struct {
	nodes []Node
	cmrs  []merkle.Hash
	index map[merkle.Hash]Expr
	err   error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[merkle.Hash]Expr)}
}

func (b *Builder) add(n Node) Expr {
	if b.err != nil {
		return -1
	}
	for _, c := range n.children() {
		if c < 0 || c >= len(b.nodes) {
			b.err = errors.WithDetailf(ErrBadIndex, "%s refers to expression %d", n.Tag, c)
			return -1
		}
	}
	h := nodeCMR(n, b.cmrs)
	if e, ok := b.index[h]; ok {
		return e
	}
	e := Expr(len(b.nodes))
	b.nodes = append(b.nodes, n)
	b.cmrs = append(b.cmrs, h)
	b.index[h] = e
	return e
}

func (b *Builder) Iden() Expr    { return b.add(Node{Tag: Iden}) }
func (b *Builder) Unit() Expr    { return b.add(Node{Tag: Unit}) }
func (b *Builder) Witness() Expr { return b.add(Node{Tag: Witness}) }

func (b *Builder) InjL(t Expr) Expr { return b.add(Node{Tag: InjL, Left: int(t)}) }
func (b *Builder) InjR(t Expr) Expr { return b.add(Node{Tag: InjR, Left: int(t)}) }
func (b *Builder) Take(t Expr) Expr { return b.add(Node{Tag: Take, Left: int(t)}) }
func (b *Builder) Drop(t Expr) Expr { return b.add(Node{Tag: Drop, Left: int(t)}) }

func (b *Builder) Comp(s, t Expr) Expr { return b.add(Node{Tag: Comp, Left: int(s), Right: int(t)}) }
func (b *Builder) Case(s, t Expr) Expr { return b.add(Node{Tag: Case, Left: int(s), Right: int(t)}) }
func (b *Builder) Pair(s, t Expr) Expr { return b.add(Node{Tag: Pair, Left: int(s), Right: int(t)}) }

func (b *Builder) Disconnect(s, t Expr) Expr {
	return b.add(Node{Tag: Disconnect, Left: int(s), Right: int(t)})
}

// Hidden returns a stand-in for a pruned branch with commitment root h.
// It may only be used as one child of a Case.
func (b *Builder) Hidden(h merkle.Hash) Expr {
	return b.add(Node{Tag: Hidden, Hash: h})
}

// Jet returns a use of j.
func (b *Builder) Jet(j *jet.Jet) Expr {
	if j == nil {
		if b.err == nil {
			b.err = errors.WithDetail(ErrParse, "nil jet")
		}
		return -1
	}
	return b.add(Node{Tag: Jet, Jet: j})
}

// Const returns an expression that ignores its input
// and outputs v.
func (b *Builder) Const(v types.Value) Expr {
	switch {
	case v.IsLeft():
		x, _ := v.Split()
		return b.InjL(b.Const(x))
	case v.IsRight():
		x, _ := v.Split()
		return b.InjR(b.Const(x))
	case v.IsUnit():
		return b.Unit()
	}
	x, y := v.Split()
	return b.Pair(b.Const(x), b.Const(y))
}

// CMR returns the commitment root of e.
func (b *Builder) CMR(e Expr) merkle.Hash {
	return b.cmrs[e]
}

// Build returns the canonical program rooted at root.
func (b *Builder) Build(root Expr) (*Program, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.nodes) == 0 {
		return nil, ErrEmptyProgram
	}
	if root < 0 || int(root) >= len(b.nodes) {
		return nil, errors.WithDetailf(ErrBadIndex, "root %d", root)
	}
	return canonicalize(b.nodes, b.cmrs, int(root))
}
