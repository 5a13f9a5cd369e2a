package env

import (
	"strings"
	"testing"
	"time"

	"github.com/uncomputable/simplicity/errors"
)

func TestDefaults(t *testing.T) {
	s := NewSet("ENVTEST_UNSET_")
	n := s.Int("N", 15)
	b := s.Bool("B", true)
	d := s.Duration("D", 15*time.Second)
	str := s.String("S", "x")
	if err := s.Parse(); err != nil {
		t.Fatal(err)
	}
	if *n != 15 || *b != true || *d != 15*time.Second || *str != "x" {
		t.Errorf("got %d %t %v %q, want defaults", *n, *b, *d, *str)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("ENVTEST_N", "25")
	t.Setenv("ENVTEST_B", "false")
	t.Setenv("ENVTEST_D", "25s")
	t.Setenv("ENVTEST_S", "y")

	s := NewSet("ENVTEST_")
	var n int
	s.IntVar(&n, "N", 15)
	b := s.Bool("B", true)
	d := s.Duration("D", 15*time.Second)
	str := s.String("S", "x")
	if err := s.Parse(); err != nil {
		t.Fatal(err)
	}
	if n != 25 || *b != false || *d != 25*time.Second || *str != "y" {
		t.Errorf("got %d %t %v %q, want 25 false 25s y", n, *b, *d, *str)
	}
}

func TestBadValues(t *testing.T) {
	t.Setenv("ENVTEST_BAD_N", "lots")
	t.Setenv("ENVTEST_BAD_M", "-1")
	t.Setenv("ENVTEST_BAD_D", "soon")

	s := NewSet("ENVTEST_BAD_")
	n := s.Int("N", 1)
	s.Int("M", 1)
	s.Duration("D", time.Second)
	err := s.Parse()
	if errors.Root(err) != ErrBadValue {
		t.Fatalf("Parse() = %v want %v", err, ErrBadValue)
	}
	detail := errors.Detail(err)
	for _, name := range []string{"ENVTEST_BAD_N", "ENVTEST_BAD_M", "ENVTEST_BAD_D"} {
		if !strings.Contains(detail, name) {
			t.Errorf("detail %q does not name %s", detail, name)
		}
	}
	if *n != 1 {
		t.Errorf("n = %d, want default 1 after bad value", *n)
	}
}
