package program

import "github.com/uncomputable/simplicity/errors"

// Structural errors, returned by Decode and by Builder.Build.
var (
	ErrBadIndex                   = errors.New("node refers to a child that does not precede it")
	ErrNonCaseHiddenChild         = errors.New("hidden node is not the child of a case")
	ErrCaseMultipleHiddenChildren = errors.New("case node has two hidden children")
	ErrEmptyProgram               = errors.New("program has no nodes")
	ErrTooManyNodes               = errors.New("program has too many nodes")
	ErrParse                      = errors.New("unrecognized node code")
	ErrNotInCanonicalOrder        = errors.New("nodes are not in canonical order")
	ErrSharingNotMaximal          = errors.New("program contains a repeated subexpression")
)

// WrapUpstream annotates err, returned by a producer of untyped
// programs, so that errors.Root still finds the original error
// and callers can tell it apart from decode and type failures.
func WrapUpstream(err error, producer string) error {
	if err == nil {
		return nil
	}
	return errors.WithData(errors.Wrapf(err, "%s", producer), "upstream", producer)
}

// IsUpstream reports whether err was annotated with WrapUpstream.
func IsUpstream(err error) bool {
	_, ok := errors.Data(err)["upstream"]
	return ok
}
