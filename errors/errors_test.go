package errors

import (
	stderrors "errors"
	"reflect"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	err := New("0")
	err1 := Wrap(err, "1")
	err2 := Wrap(err1, "2")
	err3 := Wrap(err2)

	if got := Root(err1); got != err {
		t.Fatalf("Root(%v)=%v want %v", err1, got, err)
	}

	if got := Root(err2); got != err {
		t.Fatalf("Root(%v)=%v want %v", err2, got, err)
	}

	if err2.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err2.Error())
	}

	if err3.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err3.Error())
	}

	if len(Stack(err1)) == 0 {
		t.Fatal("expected a stack trace on the wrapped error")
	}
}

func TestWrapNil(t *testing.T) {
	var err error

	if Wrap(err, "1") != nil {
		t.Fatal("wrapping nil error should yield nil")
	}
	if WithDetail(err, "x") != nil || WithData(err, "k", 1) != nil || Sub(New("a"), err) != nil {
		t.Fatal("decorating a nil error should yield nil")
	}
}

func TestWrapf(t *testing.T) {
	err := New("0")
	err1 := Wrapf(err, "node %d failed", 3)
	if err1.Error() != "node 3 failed: 0" {
		t.Fatalf("err msg = %s want 'node 3 failed: 0'", err1.Error())
	}
}

func TestDetail(t *testing.T) {
	root := New("bad index")
	err := WithDetailf(root, "node %d", 4)
	err = WithDetail(err, "decoding program")

	if got, want := Detail(err), "node 4; decoding program"; got != want {
		t.Errorf("Detail = %q want %q", got, want)
	}
	if got, want := err.Error(), "decoding program: node 4: bad index"; got != want {
		t.Errorf("Error = %q want %q", got, want)
	}
	if Root(err) != root {
		t.Errorf("Root = %v want %v", Root(err), root)
	}
}

func TestData(t *testing.T) {
	err := WithData(New("x"), "a", 1)
	err = WithData(err, "b", "two")
	want := map[string]interface{}{"a": 1, "b": "two"}
	if got := Data(err); !reflect.DeepEqual(got, want) {
		t.Errorf("Data = %v want %v", got, want)
	}
}

func TestSub(t *testing.T) {
	low := New("end of stream")
	high := New("bad witness")
	err := Sub(high, Wrap(low, "reading"))

	if Root(err) != high {
		t.Errorf("Root = %v want %v", Root(err), high)
	}
	if !strings.HasSuffix(err.Error(), "reading: end of stream") {
		t.Errorf("Error = %q, want the underlying message kept", err.Error())
	}
}

func TestStdlibIs(t *testing.T) {
	root := New("type check")
	err := WithDetailf(root, "node %d", 1)
	if !stderrors.Is(err, root) {
		t.Error("errors.Is should see through the wrapper")
	}
	if !Is(err, root) {
		t.Error("Is should match the root")
	}
}
