package program

import (
	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/protocol/merkle"
)

// canonicalOrder returns the indices of the nodes reachable from
// root in the order an encoder emits them: post-order, left child
// first, visiting each commitment root once.
func canonicalOrder(nodes []Node, cmrs []merkle.Hash, root int) []int {
	type item struct {
		i    int
		done bool
	}
	var (
		order []int
		seen  = make(map[merkle.Hash]bool)
		stack = []item{{i: root}}
	)
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cmrs[it.i]] {
			continue
		}
		if it.done {
			seen[cmrs[it.i]] = true
			order = append(order, it.i)
			continue
		}
		stack = append(stack, item{i: it.i, done: true})
		n := nodes[it.i]
		switch n.Tag.Arity() {
		case 2:
			stack = append(stack, item{i: n.Right}, item{i: n.Left})
		case 1:
			stack = append(stack, item{i: n.Left})
		}
	}
	return order
}

// canonicalize returns the program rooted at root, with shared
// subexpressions merged and nodes renumbered in canonical order.
// cmrs[i] must be the commitment root of nodes[i].
func canonicalize(nodes []Node, cmrs []merkle.Hash, root int) (*Program, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyProgram
	}
	order := canonicalOrder(nodes, cmrs, root)
	pos := make(map[merkle.Hash]int, len(order))
	out := make([]Node, len(order))
	outCMRs := make([]merkle.Hash, len(order))
	for k, i := range order {
		n := nodes[i]
		switch n.Tag.Arity() {
		case 2:
			n.Right = pos[cmrs[n.Right]]
			fallthrough
		case 1:
			n.Left = pos[cmrs[n.Left]]
		}
		out[k] = n
		outCMRs[k] = cmrs[i]
		pos[cmrs[i]] = k
	}
	p := newProgram(out, outCMRs)
	if err := checkHidden(p); err != nil {
		return nil, err
	}
	return p, nil
}

// checkHidden verifies that hidden nodes appear only as
// one child of a case node.
func checkHidden(p *Program) error {
	if p.Nodes[p.Root()].Tag == Hidden {
		return errors.WithDetail(ErrNonCaseHiddenChild, "root is hidden")
	}
	for i, n := range p.Nodes {
		if err := checkHiddenChildren(p.Nodes, i, n); err != nil {
			return err
		}
	}
	return nil
}

func checkHiddenChildren(nodes []Node, i int, n Node) error {
	hidden := 0
	for _, c := range n.children() {
		if nodes[c].Tag == Hidden {
			hidden++
		}
	}
	switch {
	case hidden == 0:
		return nil
	case n.Tag != Case:
		return errors.WithDetailf(ErrNonCaseHiddenChild, "node %d is %s", i, n.Tag)
	case hidden > 1:
		return errors.WithDetailf(ErrCaseMultipleHiddenChildren, "node %d", i)
	}
	return nil
}
