package bitmachine

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/uncomputable/simplicity/encoding/bitstream"
	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/protocol/jet"
	"github.com/uncomputable/simplicity/protocol/merkle"
	"github.com/uncomputable/simplicity/protocol/program"
	"github.com/uncomputable/simplicity/protocol/types"
	"github.com/uncomputable/simplicity/testutil"
)

var core = jet.CoreTable()

func coreJet(id uint32) *jet.Jet {
	j, err := core.ByID(id)
	if err != nil {
		panic(err)
	}
	return j
}

func build(t *testing.T, f func(b *program.Builder) program.Expr) *program.Typed {
	t.Helper()
	b := program.NewBuilder()
	p, err := b.Build(f(b))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	typed, err := program.Infer(p)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	return typed
}

func not(b *program.Builder) program.Expr {
	return b.Comp(b.Pair(b.Iden(), b.Iden()), b.Case(b.InjR(b.Unit()), b.InjL(b.Unit())))
}

func TestUnitProgram(t *testing.T) {
	p, wit, err := program.Decode([]byte{0x24}, nil)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	typed, err := program.Infer(p)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	res, err := Exec(typed, types.UnitValue(), wit)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if !res.Output.IsUnit() {
		t.Errorf("output = %s want ()", res.Output)
	}
	if res.MaxCells != 0 {
		t.Errorf("MaxCells = %d want 0", res.MaxCells)
	}
}

func TestExec(t *testing.T) {
	cases := []struct {
		name string
		prog func(b *program.Builder) program.Expr
		in   types.Value
		want types.Value
	}{
		{"not 0", not, types.Bit(false), types.Bit(true)},
		{"not 1", not, types.Bit(true), types.Bit(false)},
		{
			"drop",
			func(b *program.Builder) program.Expr {
				return b.Comp(b.Const(types.Pair(types.Bit(true), types.Bit(false))), b.Drop(b.Iden()))
			},
			types.UnitValue(),
			types.Bit(false),
		},
		{
			"take",
			func(b *program.Builder) program.Expr { return b.Take(b.Iden()) },
			types.Pair(types.UnitValue(), types.UnitValue()),
			types.UnitValue(),
		},
		{
			"injl then duplicate",
			func(b *program.Builder) program.Expr {
				return b.Comp(b.InjL(b.Unit()), b.Pair(b.Iden(), b.Iden()))
			},
			types.UnitValue(),
			types.Pair(types.Bit(false), types.Bit(false)),
		},
		{
			"add_32",
			func(b *program.Builder) program.Expr {
				return b.Comp(b.Const(types.Pair(types.Uint(3, 32), types.Uint(4, 32))), b.Jet(coreJet(jet.IDAdd32)))
			},
			types.UnitValue(),
			types.Pair(types.Bit(false), types.Uint(7, 32)),
		},
		{
			"lt_32 on input",
			func(b *program.Builder) program.Expr { return b.Jet(coreJet(jet.IDLt32)) },
			types.Pair(types.Uint(1, 32), types.Uint(2, 32)),
			types.Bit(true),
		},
	}
	for _, c := range cases {
		typed := build(t, c.prog)
		res, err := Exec(typed, c.in, nil)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if res.Output.String() != c.want.String() {
			t.Errorf("%s: output = %s want %s", c.name, res.Output, c.want)
		}
	}
}

func TestWitnessExactness(t *testing.T) {
	// Reads 64 witness bits and compares the halves.
	b := program.NewBuilder()
	p, err := b.Build(b.Comp(b.Witness(), b.Jet(coreJet(jet.IDEq32))))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	typed, err := program.Infer(p)
	if err != nil {
		testutil.FatalErr(t, err)
	}

	word := make([]bool, 64)
	word[31], word[63] = true, true

	cases := []struct {
		name    string
		witness []bool
		wantErr error
	}{
		{"exact", word, nil},
		{"one short", word[:63], ErrInconsistentWitnessLength},
		{"one over", append(append([]bool{}, word...), false), ErrInconsistentWitnessLength},
		{"empty", nil, ErrInconsistentWitnessLength},
	}
	for _, c := range cases {
		_, wit, err := program.Decode(program.Encode(p, c.witness), nil)
		if err != nil {
			t.Fatalf("%s: Decode: %v", c.name, err)
		}
		res, err := Exec(typed, types.UnitValue(), wit)
		if errors.Root(err) != c.wantErr {
			t.Errorf("%s: error = %v want %v", c.name, err, c.wantErr)
		}
		if c.name == "one short" && !strings.Contains(err.Error(), bitstream.ErrEndOfStream.Error()) {
			t.Errorf("%s: error %q lost the underlying %q", c.name, err, bitstream.ErrEndOfStream)
		}
		if err == nil && res.Output.String() != types.Bit(true).String() {
			t.Errorf("%s: output = %s want R(())", c.name, res.Output)
		}
	}
}

func TestDeterminism(t *testing.T) {
	typed := build(t, func(b *program.Builder) program.Expr {
		return b.Comp(b.Witness(), b.Jet(coreJet(jet.IDSHA256Hash512)))
	})
	witness := make([]bool, 512)
	for i := range witness {
		witness[i] = i%3 == 0
	}
	var results []*Result
	for i := 0; i < 2; i++ {
		res, err := Exec(typed, types.UnitValue(), bitstream.NewBitReader(witness))
		if err != nil {
			testutil.FatalErr(t, err)
		}
		results = append(results, res)
	}
	if !testutil.DeepEqual(results[0], results[1]) {
		t.Errorf("runs differ:\n%s\n%s", spew.Sdump(results[0]), spew.Sdump(results[1]))
	}
}

func TestDisconnect(t *testing.T) {
	// disconnect (take (pair iden iden)) iden : 1 → 2^256 × 2^256
	// outputs the commitment root of iden twice.
	typed := build(t, func(b *program.Builder) program.Expr {
		return b.Disconnect(b.Take(b.Pair(b.Iden(), b.Iden())), b.Iden())
	})
	res, err := Exec(typed, types.UnitValue(), nil)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	iv := merkle.CommitmentIV("iden")
	want := types.Pair(types.WordValue(iv[:]), types.WordValue(iv[:]))
	if res.Output.String() != want.String() {
		t.Errorf("output = %s", res.Output)
	}
}

func TestHiddenBranch(t *testing.T) {
	var h merkle.Hash
	h[0] = 0xee
	typed := build(t, func(b *program.Builder) program.Expr {
		return b.Comp(b.Pair(b.Iden(), b.Iden()), b.Case(b.InjR(b.Unit()), b.Hidden(h)))
	})
	if _, err := Exec(typed, types.Bit(false), nil); err != nil {
		t.Errorf("left branch: %v", err)
	}
	if _, err := Exec(typed, types.Bit(true), nil); errors.Root(err) != ErrHiddenBranch {
		t.Errorf("right branch: error = %v want %v", err, ErrHiddenBranch)
	}
}

func TestJetFailure(t *testing.T) {
	for _, ok := range []bool{true, false} {
		typed := build(t, func(b *program.Builder) program.Expr {
			return b.Comp(b.Const(types.Bit(ok)), b.Jet(coreJet(jet.IDVerify)))
		})
		_, err := Exec(typed, types.UnitValue(), nil)
		if ok && err != nil {
			t.Errorf("verify(1): %v", err)
		}
		if !ok && errors.Root(err) != jet.ErrJetFailed {
			t.Errorf("verify(0): error = %v want %v", err, jet.ErrJetFailed)
		}
	}
}

func TestOptions(t *testing.T) {
	typed := build(t, not)

	var traced []int
	res, err := Exec(typed, types.Bit(false), nil, TraceNode(func(i int, n program.Node) {
		traced = append(traced, i)
	}))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if len(traced) == 0 || traced[0] != typed.Root() {
		t.Errorf("traced = %v, want root %d first", traced, typed.Root())
	}

	// input, output and the frame between comp's halves
	if res.MaxCells != 4 {
		t.Errorf("MaxCells = %d want 4", res.MaxCells)
	}
	if _, err := Exec(typed, types.Bit(false), nil, CellLimit(4)); err != nil {
		t.Errorf("CellLimit(4): %v", err)
	}
	if _, err := Exec(typed, types.Bit(false), nil, CellLimit(3)); errors.Root(err) != ErrCellLimit {
		t.Errorf("CellLimit(3): error = %v want %v", err, ErrCellLimit)
	}
}

func TestBadInput(t *testing.T) {
	typed := build(t, not)
	_, err := Exec(typed, types.UnitValue(), nil)
	if errors.Root(err) != types.ErrValueType {
		t.Errorf("error = %v want %v", err, types.ErrValueType)
	}
	_, err = ExecBits(typed, []bool{true, true}, nil)
	if errors.Root(err) != types.ErrValueType {
		t.Errorf("ExecBits error = %v want %v", err, types.ErrValueType)
	}
	out, err := ExecBits(typed, []bool{true}, nil)
	if err != nil || !testutil.DeepEqual(out, []bool{false}) {
		t.Errorf("ExecBits(not, 1) = %v, %v", out, err)
	}
}
