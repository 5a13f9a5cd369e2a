package program

import (
	"fmt"

	"github.com/uncomputable/simplicity/protocol/jet"
	"github.com/uncomputable/simplicity/protocol/merkle"
)

// Tag identifies a combinator.
type Tag uint8

const (
	Iden Tag = iota
	Unit
	InjL
	InjR
	Take
	Drop
	Comp
	Case
	Pair
	Disconnect
	Witness
	Hidden
	Jet
)

var tagNames = [...]string{
	Iden:       "iden",
	Unit:       "unit",
	InjL:       "injl",
	InjR:       "injr",
	Take:       "take",
	Drop:       "drop",
	Comp:       "comp",
	Case:       "case",
	Pair:       "pair",
	Disconnect: "disconnect",
	Witness:    "witness",
	Hidden:     "hidden",
	Jet:        "jet",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("tag%d", uint8(t))
}

// Arity returns the number of children a node with tag t has.
func (t Tag) Arity() int {
	switch t {
	case InjL, InjR, Take, Drop:
		return 1
	case Comp, Case, Pair, Disconnect:
		return 2
	}
	return 0
}

// Node is one combinator in a program. Children are
// indices of strictly earlier nodes in the same program.
type Node struct {
	Tag   Tag
	Left  int         // first child, if Tag.Arity() >= 1
	Right int         // second child, if Tag.Arity() == 2
	Hash  merkle.Hash // commitment root standing in for a Hidden node
	Jet   *jet.Jet    // for Jet nodes
}

func (n Node) String() string {
	switch n.Tag.Arity() {
	case 1:
		return fmt.Sprintf("%s %d", n.Tag, n.Left)
	case 2:
		return fmt.Sprintf("%s %d %d", n.Tag, n.Left, n.Right)
	}
	switch n.Tag {
	case Hidden:
		return fmt.Sprintf("hidden %s", n.Hash)
	case Jet:
		return fmt.Sprintf("jet %s", n.Jet.Name)
	}
	return n.Tag.String()
}

// children returns n's child indices.
func (n Node) children() []int {
	switch n.Tag.Arity() {
	case 1:
		return []int{n.Left}
	case 2:
		return []int{n.Left, n.Right}
	}
	return nil
}

// Program is an immutable untyped DAG of combinators.
// The last node is the root.
//
// A Program obtained from Decode, Builder or Assemble is
// maximally shared and in canonical order.
type Program struct {
	Nodes []Node

	cmrs []merkle.Hash
}

// newProgram wraps nodes whose commitment roots have
// already been computed.
func newProgram(nodes []Node, cmrs []merkle.Hash) *Program {
	return &Program{Nodes: nodes, cmrs: cmrs}
}

// Len returns the number of nodes in p.
func (p *Program) Len() int {
	return len(p.Nodes)
}

// Root returns the index of p's root node.
func (p *Program) Root() int {
	return len(p.Nodes) - 1
}

// CMR returns the commitment Merkle root of p,
// which identifies the program.
func (p *Program) CMR() merkle.Hash {
	return p.cmrs[p.Root()]
}

// NodeCMR returns the commitment Merkle root of the
// subexpression rooted at node i.
func (p *Program) NodeCMR(i int) merkle.Hash {
	return p.cmrs[i]
}

// nodeCMR computes the commitment root of n given
// the roots of all earlier nodes.
func nodeCMR(n Node, cmrs []merkle.Hash) merkle.Hash {
	switch n.Tag {
	case Hidden:
		return n.Hash
	case Jet:
		return n.Jet.CMR
	}
	iv := merkle.CommitmentIV(n.Tag.String())
	switch n.Tag.Arity() {
	case 1:
		return merkle.Unary(iv, cmrs[n.Left])
	case 2:
		return merkle.Binary(iv, cmrs[n.Left], cmrs[n.Right])
	}
	return merkle.Leaf(iv)
}

func (p *Program) String() string {
	return Disassemble(p)
}
