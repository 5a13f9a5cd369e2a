package types

import (
	"fmt"
	"strings"

	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/math/checked"
	"github.com/uncomputable/simplicity/protocol/merkle"
)

// Kind distinguishes the three type constructors.
type Kind uint8

const (
	KindUnit Kind = iota
	KindSum
	KindProduct
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindSum:
		return "sum"
	case KindProduct:
		return "product"
	}
	return fmt.Sprintf("kind%d", uint8(k))
}

// Type is a finite Simplicity type. Types are immutable and
// freely shared; two types are equal exactly when their TMRs are.
type Type struct {
	Kind        Kind
	Left, Right *Type // nil for unit

	width uint32
	tmr   merkle.Hash
}

var unit = &Type{Kind: KindUnit, tmr: merkle.TypeUnit()}

// Unit returns the unit type 1.
func Unit() *Type {
	return unit
}

// Sum returns the type left + right.
// It fails if the bit width would not fit in 32 bits.
func Sum(left, right *Type) (*Type, error) {
	w, ok := checked.IncUint32(checked.MaxUint32(left.width, right.width))
	if !ok {
		return nil, errors.WithDetailf(checked.ErrOverflow, "width of %s + %s", left.abbrev(), right.abbrev())
	}
	return &Type{
		Kind:  KindSum,
		Left:  left,
		Right: right,
		width: w,
		tmr:   merkle.TypeSum(left.tmr, right.tmr),
	}, nil
}

// Product returns the type left × right.
// It fails if the bit width would not fit in 32 bits.
func Product(left, right *Type) (*Type, error) {
	w, ok := checked.AddUint32(left.width, right.width)
	if !ok {
		return nil, errors.WithDetailf(checked.ErrOverflow, "width of %s × %s", left.abbrev(), right.abbrev())
	}
	return &Type{
		Kind:  KindProduct,
		Left:  left,
		Right: right,
		width: w,
		tmr:   merkle.TypeProduct(left.tmr, right.tmr),
	}, nil
}

// MustSum is like Sum but panics on overflow.
// It is for building fixed types in package initialization.
func MustSum(left, right *Type) *Type {
	t, err := Sum(left, right)
	if err != nil {
		panic(err)
	}
	return t
}

// MustProduct is like Product but panics on overflow.
func MustProduct(left, right *Type) *Type {
	t, err := Product(left, right)
	if err != nil {
		panic(err)
	}
	return t
}

// two is the bit type 1 + 1.
var two = MustSum(unit, unit)

// words[k] is the type of 2^k-bit words.
var words = func() []*Type {
	w := []*Type{two}
	for i := 1; i <= 10; i++ {
		w = append(w, MustProduct(w[i-1], w[i-1]))
	}
	return w
}()

var wordNames = func() map[merkle.Hash]string {
	m := map[merkle.Hash]string{two.tmr: "2"}
	for k := 1; k < len(words); k++ {
		m[words[k].tmr] = fmt.Sprintf("2^%d", 1<<uint(k))
	}
	return m
}()

// Two returns the bit type 2 = 1 + 1.
func Two() *Type {
	return two
}

// Word returns the type of n-bit words, where n is a power
// of two between 1 and 1024. Words are balanced products of bits,
// most significant half on the left.
func Word(n int) *Type {
	for k, w := range words {
		if 1<<uint(k) == n {
			return w
		}
	}
	panic(fmt.Sprintf("types: no word type of %d bits", n))
}

// BitWidth returns the number of Bit Machine cells
// used to represent a value of t.
func (t *Type) BitWidth() uint32 {
	return t.width
}

// TMR returns the type Merkle root of t.
func (t *Type) TMR() merkle.Hash {
	return t.tmr
}

// Equal reports whether t and u are the same type.
func (t *Type) Equal(u *Type) bool {
	return t == u || t.tmr == u.tmr
}

// String formats t with words abbreviated, e.g. (2^32 × 2^32) + 1.
func (t *Type) String() string {
	var b strings.Builder
	t.format(&b, true)
	return b.String()
}

// abbrev is used while the word types themselves are being
// built, so it must not consult wordNames.
func (t *Type) abbrev() string {
	if t.Kind == KindUnit {
		return "1"
	}
	return fmt.Sprintf("<%d-bit %s>", t.width, t.Kind)
}

func (t *Type) format(b *strings.Builder, top bool) {
	if name, ok := wordNames[t.tmr]; ok {
		b.WriteString(name)
		return
	}
	switch t.Kind {
	case KindUnit:
		b.WriteString("1")
		return
	}
	if !top {
		b.WriteByte('(')
	}
	t.Left.format(b, false)
	if t.Kind == KindSum {
		b.WriteString(" + ")
	} else {
		b.WriteString(" × ")
	}
	t.Right.format(b, false)
	if !top {
		b.WriteByte(')')
	}
}

// PadLeft returns the number of padding cells between the tag bit
// and the payload of a left injection into t, which must be a sum.
func (t *Type) PadLeft() uint32 {
	return t.width - 1 - t.Left.width
}

// PadRight is PadLeft for right injections.
func (t *Type) PadRight() uint32 {
	return t.width - 1 - t.Right.width
}
