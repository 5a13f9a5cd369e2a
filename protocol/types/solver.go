package types

import (
	"github.com/uncomputable/simplicity/errors"
)

var (
	ErrTypeCheck   = errors.New("unable to unify types")
	ErrOccursCheck = errors.New("a recursive type was inferred, violating the occurs check")
)

// Var is a type variable allocated by a Solver.
type Var int

type bound uint8

const (
	boundFree bound = iota
	boundUnit
	boundSum
	boundProduct
	boundFixed // a complete Type, expanded on demand
)

type varNode struct {
	parent      Var
	rank        uint8
	bound       bound
	left, right Var
	fixed       *Type
}

// Solver performs first-order unification over type variables
// held in a flat arena, using union-find with union by rank
// and path compression.
//
// Unify merges equivalence classes before comparing their
// structure, so it terminates even when the constraints describe
// an infinite type. Such types are detected by Resolve, which
// reports ErrOccursCheck.
type Solver struct {
	vars []varNode

	// per root, filled in by Resolve
	resolved map[Var]*Type
	visiting map[Var]bool
}

// NewSolver returns an empty Solver.
func NewSolver() *Solver {
	return &Solver{
		resolved: make(map[Var]*Type),
		visiting: make(map[Var]bool),
	}
}

func (s *Solver) alloc(n varNode) Var {
	v := Var(len(s.vars))
	n.parent = v
	s.vars = append(s.vars, n)
	return v
}

// Fresh returns a new unconstrained variable.
func (s *Solver) Fresh() Var {
	return s.alloc(varNode{bound: boundFree})
}

// Unit returns a new variable bound to 1.
func (s *Solver) Unit() Var {
	return s.alloc(varNode{bound: boundUnit})
}

// Sum returns a new variable bound to left + right.
func (s *Solver) Sum(left, right Var) Var {
	return s.alloc(varNode{bound: boundSum, left: left, right: right})
}

// Product returns a new variable bound to left × right.
func (s *Solver) Product(left, right Var) Var {
	return s.alloc(varNode{bound: boundProduct, left: left, right: right})
}

// Fixed returns a new variable bound to the complete type t.
func (s *Solver) Fixed(t *Type) Var {
	if t.Kind == KindUnit {
		return s.Unit()
	}
	return s.alloc(varNode{bound: boundFixed, fixed: t})
}

// Len returns the number of variables allocated.
func (s *Solver) Len() int {
	return len(s.vars)
}

func (s *Solver) find(v Var) Var {
	root := v
	for s.vars[root].parent != root {
		root = s.vars[root].parent
	}
	for s.vars[v].parent != root {
		next := s.vars[v].parent
		s.vars[v].parent = root
		v = next
	}
	return root
}

// expand replaces a fixed bound on root r with one level of
// structure whose children are fixed to t's components.
func (s *Solver) expand(r Var) {
	n := &s.vars[r]
	if n.bound != boundFixed {
		return
	}
	t := n.fixed
	switch t.Kind {
	case KindUnit:
		s.vars[r].bound = boundUnit
		s.vars[r].fixed = nil
		return
	}
	l := s.Fixed(t.Left)
	rt := s.Fixed(t.Right)
	n = &s.vars[r] // s.vars may have moved
	if t.Kind == KindSum {
		n.bound = boundSum
	} else {
		n.bound = boundProduct
	}
	n.left, n.right, n.fixed = l, rt, nil
}

// Unify constrains a and b to be the same type.
// It returns ErrTypeCheck if their structures conflict.
// After an error the Solver must not be used further.
func (s *Solver) Unify(a, b Var) error {
	work := [][2]Var{{a, b}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]

		ra, rb := s.find(p[0]), s.find(p[1])
		if ra == rb {
			continue
		}
		na, nb := s.vars[ra], s.vars[rb]

		switch {
		case na.bound == boundFree:
			s.vars[ra].parent = rb
			continue
		case nb.bound == boundFree:
			s.vars[rb].parent = ra
			continue
		case na.bound == boundFixed && nb.bound == boundFixed:
			if !na.fixed.Equal(nb.fixed) {
				return errors.WithDetailf(ErrTypeCheck, "%s does not match %s", na.fixed, nb.fixed)
			}
			s.link(ra, rb)
			continue
		}

		s.expand(ra)
		s.expand(rb)
		na, nb = s.vars[ra], s.vars[rb]
		if na.bound != nb.bound {
			return errors.WithDetailf(ErrTypeCheck, "cannot unify a %s with a %s", na.bound, nb.bound)
		}
		// Merge first, so that a cyclic constraint meets an
		// already-merged class instead of recursing forever.
		s.link(ra, rb)
		if na.bound == boundSum || na.bound == boundProduct {
			work = append(work, [2]Var{na.left, nb.left}, [2]Var{na.right, nb.right})
		}
	}
	return nil
}

// link makes the lower-ranked root point at the other.
// Both roots carry equivalent bounds, so the surviving
// root's bound stands for the merged class.
func (s *Solver) link(ra, rb Var) {
	switch {
	case s.vars[ra].rank < s.vars[rb].rank:
		s.vars[ra].parent = rb
	case s.vars[ra].rank > s.vars[rb].rank:
		s.vars[rb].parent = ra
	default:
		s.vars[rb].parent = ra
		s.vars[ra].rank++
	}
}

// Resolve returns the complete type of v. It must only be called
// once every constraint has been added with Unify. Variables left
// unconstrained are closed with the unit type. It returns
// ErrOccursCheck if v's type would be infinite, and an
// overflow error if its bit width does not fit in 32 bits.
func (s *Solver) Resolve(v Var) (*Type, error) {
	r := s.find(v)
	if t, ok := s.resolved[r]; ok {
		return t, nil
	}
	if s.visiting[r] {
		return nil, ErrOccursCheck
	}

	n := s.vars[r]
	var (
		t   *Type
		err error
	)
	switch n.bound {
	case boundFree, boundUnit:
		t = Unit()
	case boundFixed:
		t = n.fixed
	case boundSum, boundProduct:
		s.visiting[r] = true
		var l, rt *Type
		l, err = s.Resolve(n.left)
		if err == nil {
			rt, err = s.Resolve(n.right)
		}
		delete(s.visiting, r)
		if err != nil {
			return nil, err
		}
		if n.bound == boundSum {
			t, err = Sum(l, rt)
		} else {
			t, err = Product(l, rt)
		}
		if err != nil {
			return nil, err
		}
	}
	s.resolved[r] = t
	return t, nil
}

func (b bound) String() string {
	switch b {
	case boundFree:
		return "free variable"
	case boundUnit:
		return "unit type"
	case boundSum:
		return "sum type"
	case boundProduct:
		return "product type"
	case boundFixed:
		return "complete type"
	}
	return "unknown bound"
}
