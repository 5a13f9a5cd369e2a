package protocol

import (
	"context"

	"github.com/uncomputable/simplicity/encoding/bitstream"
	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/math/checked"
	"github.com/uncomputable/simplicity/protocol/bitmachine"
	"github.com/uncomputable/simplicity/protocol/jet"
	"github.com/uncomputable/simplicity/protocol/program"
	"github.com/uncomputable/simplicity/protocol/types"
)

// Error categories returned by Category.
const (
	CategoryDecode   = "decode"
	CategoryType     = "type"
	CategoryNumeric  = "numeric"
	CategoryWitness  = "witness"
	CategoryRuntime  = "runtime"
	CategoryUpstream = "upstream"
	CategoryUnknown  = "unknown"
)

var categories = map[error]string{
	program.ErrBadIndex:                   CategoryDecode,
	program.ErrNonCaseHiddenChild:         CategoryDecode,
	program.ErrCaseMultipleHiddenChildren: CategoryDecode,
	program.ErrEmptyProgram:               CategoryDecode,
	program.ErrTooManyNodes:               CategoryDecode,
	program.ErrParse:                      CategoryDecode,
	program.ErrNotInCanonicalOrder:        CategoryDecode,
	program.ErrSharingNotMaximal:          CategoryDecode,
	program.ErrSyntax:                     CategoryDecode,
	bitstream.ErrEndOfStream:              CategoryDecode,
	bitstream.ErrTrailingBits:             CategoryDecode,
	jet.ErrUnknownJet:                     CategoryDecode,

	types.ErrTypeCheck:   CategoryType,
	types.ErrOccursCheck: CategoryType,
	ErrNotProgram:        CategoryType,

	bitstream.ErrNaturalOverflow: CategoryNumeric,
	checked.ErrOverflow:          CategoryNumeric,

	bitmachine.ErrInconsistentWitnessLength: CategoryWitness,

	bitmachine.ErrHiddenBranch: CategoryRuntime,
	bitmachine.ErrCellLimit:    CategoryRuntime,
	jet.ErrJetFailed:           CategoryRuntime,
	types.ErrValueType:         CategoryRuntime,
	context.Canceled:           CategoryRuntime,
	context.DeadlineExceeded:   CategoryRuntime,
}

// Category classifies err by the phase and kind of failure.
// It returns CategoryUnknown for errors from outside this module.
func Category(err error) string {
	if program.IsUpstream(err) {
		return CategoryUpstream
	}
	if c, ok := categories[errors.Root(err)]; ok {
		return c
	}
	return CategoryUnknown
}
