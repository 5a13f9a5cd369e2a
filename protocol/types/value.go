package types

import (
	"fmt"
	"strings"

	"github.com/uncomputable/simplicity/errors"
)

// ErrValueType means a value does not inhabit the type it
// was encoded or decoded against.
var ErrValueType = errors.New("value does not match type")

type valueKind uint8

const (
	valueUnit valueKind = iota
	valueLeft
	valueRight
	valuePair
)

// Value is a Simplicity value: the unit value, a left or right
// injection, or a pair. The zero Value is the unit value.
type Value struct {
	kind        valueKind
	left, right *Value
}

// UnitValue returns the only value of type 1.
func UnitValue() Value {
	return Value{}
}

// Left returns the left injection of v.
func Left(v Value) Value {
	return Value{kind: valueLeft, left: &v}
}

// Right returns the right injection of v.
func Right(v Value) Value {
	return Value{kind: valueRight, left: &v}
}

// Pair returns the pair (a, b).
func Pair(a, b Value) Value {
	return Value{kind: valuePair, left: &a, right: &b}
}

// Bit returns the value of type 2 for b.
func Bit(b bool) Value {
	if b {
		return Right(UnitValue())
	}
	return Left(UnitValue())
}

// WordValue returns the value of the word type with len(b)*8 bits
// holding b big-endian. len(b) must be a power of two.
func WordValue(b []byte) Value {
	bits := make([]bool, 8*len(b))
	for i := range bits {
		bits[i] = b[i/8]&(0x80>>uint(i%8)) != 0
	}
	return wordFromBits(bits)
}

// Uint returns the value of the n-bit word type holding x,
// n a power of two no larger than 64.
func Uint(x uint64, n int) Value {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = x&(1<<uint(n-1-i)) != 0
	}
	return wordFromBits(bits)
}

func wordFromBits(bits []bool) Value {
	if len(bits) == 1 {
		return Bit(bits[0])
	}
	h := len(bits) / 2
	return Pair(wordFromBits(bits[:h]), wordFromBits(bits[h:]))
}

// IsLeft reports whether v is a left injection.
func (v Value) IsLeft() bool { return v.kind == valueLeft }

// IsRight reports whether v is a right injection.
func (v Value) IsRight() bool { return v.kind == valueRight }

// IsUnit reports whether v is the unit value.
func (v Value) IsUnit() bool { return v.kind == valueUnit }

// Split returns the components of a pair,
// or the payload of an injection as the first result.
func (v Value) Split() (Value, Value) {
	var a, b Value
	if v.left != nil {
		a = *v.left
	}
	if v.right != nil {
		b = *v.right
	}
	return a, b
}

// Encode returns the Bit Machine representation of v at type t:
// nothing for unit, a tag bit, zero padding and the payload for a
// sum, and the two halves in order for a product.
func Encode(v Value, t *Type) ([]bool, error) {
	out := make([]bool, 0, t.width)
	return encode(out, v, t)
}

func encode(out []bool, v Value, t *Type) ([]bool, error) {
	switch {
	case t.Kind == KindUnit && v.kind == valueUnit:
		return out, nil
	case t.Kind == KindSum && v.kind == valueLeft:
		out = append(out, false)
		out = append(out, make([]bool, t.PadLeft())...)
		return encode(out, *v.left, t.Left)
	case t.Kind == KindSum && v.kind == valueRight:
		out = append(out, true)
		out = append(out, make([]bool, t.PadRight())...)
		return encode(out, *v.left, t.Right)
	case t.Kind == KindProduct && v.kind == valuePair:
		out, err := encode(out, *v.left, t.Left)
		if err != nil {
			return nil, err
		}
		return encode(out, *v.right, t.Right)
	}
	return nil, errors.WithDetailf(ErrValueType, "%s is not a value of %s", v, t)
}

// Decode reads a value of type t from its Bit Machine
// representation. len(bits) must equal t's bit width.
func Decode(bits []bool, t *Type) (Value, error) {
	if uint64(len(bits)) != uint64(t.width) {
		return Value{}, errors.WithDetailf(ErrValueType, "%d bits for a %d-bit type", len(bits), t.width)
	}
	v, _ := decode(bits, t)
	return v, nil
}

func decode(bits []bool, t *Type) (Value, []bool) {
	switch t.Kind {
	case KindSum:
		if !bits[0] {
			v, rest := decode(bits[1+t.PadLeft():], t.Left)
			return Left(v), rest
		}
		v, rest := decode(bits[1+t.PadRight():], t.Right)
		return Right(v), rest
	case KindProduct:
		a, rest := decode(bits, t.Left)
		b, rest := decode(rest, t.Right)
		return Pair(a, b), rest
	}
	return UnitValue(), bits
}

// String formats v as (), L(v), R(v) or (a, b).
func (v Value) String() string {
	var b strings.Builder
	v.format(&b)
	return b.String()
}

func (v Value) format(b *strings.Builder) {
	switch v.kind {
	case valueUnit:
		b.WriteString("()")
	case valueLeft:
		b.WriteString("L(")
		v.left.format(b)
		b.WriteByte(')')
	case valueRight:
		b.WriteString("R(")
		v.left.format(b)
		b.WriteByte(')')
	case valuePair:
		b.WriteByte('(')
		v.left.format(b)
		b.WriteString(", ")
		v.right.format(b)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<value kind %d>", v.kind)
	}
}
