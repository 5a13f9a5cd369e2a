package errors_test

import (
	"fmt"

	"github.com/uncomputable/simplicity/errors"
)

var ErrBadIndex = errors.New("bad index")

func Example() {
	err := errors.WithDetailf(ErrBadIndex, "node %d refers to node %d", 2, 5)
	fmt.Println(errors.Root(err) == ErrBadIndex)
	fmt.Println(errors.Detail(err))
	// Output:
	// true
	// node 2 refers to node 5
}
