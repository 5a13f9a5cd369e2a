package types

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/math/checked"
	"github.com/uncomputable/simplicity/protocol/merkle"
)

func TestBitWidth(t *testing.T) {
	cases := []struct {
		typ  *Type
		want uint32
	}{
		{Unit(), 0},
		{Two(), 1},
		{Word(8), 8},
		{Word(256), 256},
		{MustSum(Word(32), Unit()), 33},
		{MustSum(Unit(), Word(32)), 33},
		{MustProduct(Word(32), MustSum(Two(), Unit())), 34},
	}
	for _, c := range cases {
		if got := c.typ.BitWidth(); got != c.want {
			t.Errorf("BitWidth(%s) = %d want %d", c.typ, got, c.want)
		}
	}
}

func TestWidthOverflow(t *testing.T) {
	w := Word(1024)
	var err error
	for i := 0; i < 40 && err == nil; i++ {
		w, err = Product(w, w)
	}
	if errors.Root(err) != checked.ErrOverflow {
		t.Errorf("doubling a word past 2^32 bits: error = %v want %v", err, checked.ErrOverflow)
	}
}

func TestTypeString(t *testing.T) {
	typ := MustSum(MustProduct(Word(32), Word(32)), Unit())
	if got, want := typ.String(), "2^64 + 1"; got != want {
		t.Errorf("String() = %q want %q", got, want)
	}
	typ = MustProduct(MustSum(Unit(), Word(8)), Two())
	if got, want := typ.String(), "(1 + 2^8) × 2"; got != want {
		t.Errorf("String() = %q want %q", got, want)
	}
}

func TestValueEncoding(t *testing.T) {
	bit := Two()
	maybeByte := MustSum(Unit(), Word(8))
	cases := []struct {
		val  Value
		typ  *Type
		want string
	}{
		{UnitValue(), Unit(), ""},
		{Bit(false), bit, "0"},
		{Bit(true), bit, "1"},
		{Uint(0xa5, 8), Word(8), "10100101"},
		{Left(UnitValue()), maybeByte, "000000000"},
		{Right(Uint(0xff, 8)), maybeByte, "111111111"},
		{Pair(Bit(true), Left(UnitValue())), MustProduct(bit, maybeByte), "1000000000"},
		{WordValue([]byte{0x12, 0x34}), Word(16), "0001001000110100"},
	}
	for _, c := range cases {
		bits, err := Encode(c.val, c.typ)
		if err != nil {
			t.Errorf("Encode(%s, %s) error: %v", c.val, c.typ, err)
			continue
		}
		if got := bitString(bits); got != c.want {
			t.Errorf("Encode(%s, %s) = %s want %s", c.val, c.typ, got, c.want)
		}
		back, err := Decode(bits, c.typ)
		if err != nil {
			t.Errorf("Decode(%s) error: %v", c.want, err)
			continue
		}
		if back.String() != c.val.String() {
			t.Errorf("Decode(%s) = %s want %s", c.want, back, c.val)
		}
	}
}

func TestValueTypeMismatch(t *testing.T) {
	_, err := Encode(Pair(UnitValue(), UnitValue()), Two())
	if errors.Root(err) != ErrValueType {
		t.Errorf("Encode pair as bit: error = %v want %v", err, ErrValueType)
	}
	_, err = Decode(make([]bool, 3), Two())
	if errors.Root(err) != ErrValueType {
		t.Errorf("Decode 3 bits as bit: error = %v want %v", err, ErrValueType)
	}
}

func TestSolverUnify(t *testing.T) {
	s := NewSolver()
	a, b, c := s.Fresh(), s.Fresh(), s.Fresh()

	// a = b × c, b = 2^32, a = 2^32 × (1 + ?)
	if err := s.Unify(a, s.Product(b, c)); err != nil {
		t.Fatal(err)
	}
	if err := s.Unify(b, s.Fixed(Word(32))); err != nil {
		t.Fatal(err)
	}
	if err := s.Unify(a, s.Product(s.Fixed(Word(32)), s.Sum(s.Unit(), s.Fresh()))); err != nil {
		t.Fatal(err)
	}

	got, err := s.Resolve(a)
	if err != nil {
		t.Fatal(err)
	}
	want := MustProduct(Word(32), MustSum(Unit(), Unit()))
	if !got.Equal(want) {
		t.Errorf("Resolve(a) = %s want %s\n%s", got, want, spew.Sdump(s.vars))
	}
	if ct, _ := s.Resolve(c); !ct.Equal(Two()) {
		t.Errorf("Resolve(c) = %s want 2", ct)
	}
}

func TestSolverFixedExpansion(t *testing.T) {
	s := NewSolver()
	x, y := s.Fresh(), s.Fresh()
	if err := s.Unify(s.Fixed(Word(64)), s.Product(x, y)); err != nil {
		t.Fatal(err)
	}
	xt, _ := s.Resolve(x)
	yt, _ := s.Resolve(y)
	if !xt.Equal(Word(32)) || !yt.Equal(Word(32)) {
		t.Errorf("halves of 2^64 = %s, %s want 2^32, 2^32", xt, yt)
	}
}

func TestSolverConflict(t *testing.T) {
	cases := []struct {
		name string
		mk   func(s *Solver) (Var, Var)
	}{
		{"unit vs sum", func(s *Solver) (Var, Var) { return s.Unit(), s.Sum(s.Fresh(), s.Fresh()) }},
		{"sum vs product", func(s *Solver) (Var, Var) {
			return s.Sum(s.Fresh(), s.Fresh()), s.Product(s.Fresh(), s.Fresh())
		}},
		{"fixed vs fixed", func(s *Solver) (Var, Var) { return s.Fixed(Word(8)), s.Fixed(Word(16)) }},
		{"fixed vs nested", func(s *Solver) (Var, Var) {
			return s.Fixed(Word(2)), s.Product(s.Unit(), s.Fresh())
		}},
	}
	for _, c := range cases {
		s := NewSolver()
		a, b := c.mk(s)
		if err := s.Unify(a, b); errors.Root(err) != ErrTypeCheck {
			t.Errorf("%s: error = %v want %v", c.name, err, ErrTypeCheck)
		}
	}
}

func TestSolverOccursCheck(t *testing.T) {
	s := NewSolver()
	x := s.Fresh()
	if err := s.Unify(x, s.Product(x, s.Unit())); err != nil {
		t.Fatalf("Unify should defer the occurs check, got %v", err)
	}
	if _, err := s.Resolve(x); errors.Root(err) != ErrOccursCheck {
		t.Errorf("Resolve(x = x × 1) error = %v want %v", err, ErrOccursCheck)
	}

	// Two separately cyclic classes unify without looping.
	s = NewSolver()
	a, b := s.Fresh(), s.Fresh()
	s.Unify(a, s.Sum(a, s.Unit()))
	s.Unify(b, s.Sum(b, s.Unit()))
	if err := s.Unify(a, b); err != nil {
		t.Fatalf("Unify(a, b) = %v", err)
	}
	if _, err := s.Resolve(b); errors.Root(err) != ErrOccursCheck {
		t.Errorf("Resolve(b) error = %v want %v", err, ErrOccursCheck)
	}
}

func TestSolverWidthOverflow(t *testing.T) {
	s := NewSolver()
	v := s.Fixed(Word(1024))
	for i := 0; i < 30; i++ {
		v = s.Product(v, v)
	}
	_, err := s.Resolve(v)
	if errors.Root(err) != checked.ErrOverflow {
		t.Errorf("Resolve(huge) error = %v want %v", err, checked.ErrOverflow)
	}
}

func bitString(bits []bool) string {
	b := make([]byte, len(bits))
	for i, v := range bits {
		b[i] = '0'
		if v {
			b[i] = '1'
		}
	}
	return string(b)
}

func TestTMR(t *testing.T) {
	if got, want := Two().TMR(), merkle.TypeSum(merkle.TypeUnit(), merkle.TypeUnit()); got != want {
		t.Errorf("TMR(2) = %s want %s", got, want)
	}
	sum := MustSum(Two(), Unit())
	prod := MustProduct(Two(), Unit())
	if sum.TMR() == prod.TMR() {
		t.Error("2 + 1 and 2 × 1 have the same TMR")
	}
	if !MustProduct(Two(), Two()).Equal(Word(2)) {
		t.Error("2 × 2 is not equal to the 2-bit word")
	}
}
