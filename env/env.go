// Package env converts environment variables into Go data.
// It is similar in design to package flag: variables are
// declared on a Set, then filled in by one call to Parse.
package env

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/uncomputable/simplicity/errors"
)

// ErrBadValue is returned by Parse when a variable is set
// but cannot be converted to its declared type.
var ErrBadValue = errors.New("bad environment value")

// A Set is a group of environment variables sharing a name prefix.
type Set struct {
	prefix string
	vars   []variable
}

type variable struct {
	name  string
	parse func(string) error
}

// NewSet returns an empty Set whose variable names
// are all preceded by prefix.
func NewSet(prefix string) *Set {
	return &Set{prefix: prefix}
}

// Name returns the full environment name of a variable in s.
func (s *Set) Name(name string) string {
	return s.prefix + name
}

func (s *Set) add(name string, parse func(string) error) {
	s.vars = append(s.vars, variable{s.Name(name), parse})
}

// Int returns a new int pointer.
// When Parse is called, the variable is parsed
// and the result stored in the returned location.
func (s *Set) Int(name string, value int) *int {
	p := new(int)
	s.IntVar(p, name, value)
	return p
}

// IntVar defines an int variable with the specified
// name and default value.
func (s *Set) IntVar(p *int, name string, value int) {
	*p = value
	s.add(name, func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if n < 0 {
			return errors.New("must not be negative")
		}
		*p = n
		return nil
	})
}

// Bool returns a new bool pointer.
// Parsing uses strconv.ParseBool.
func (s *Set) Bool(name string, value bool) *bool {
	p := new(bool)
	*p = value
	s.add(name, func(v string) (err error) {
		*p, err = strconv.ParseBool(v)
		return err
	})
	return p
}

// Duration returns a new time.Duration pointer.
// Parsing uses time.ParseDuration.
func (s *Set) Duration(name string, value time.Duration) *time.Duration {
	p := new(time.Duration)
	*p = value
	s.add(name, func(v string) (err error) {
		*p, err = time.ParseDuration(v)
		return err
	})
	return p
}

// String returns a new string pointer.
func (s *Set) String(name string, value string) *string {
	p := new(string)
	*p = value
	s.add(name, func(v string) error {
		*p = v
		return nil
	})
	return p
}

// Parse reads every variable declared on s from the environment.
// Variables that are unset or empty keep their defaults.
// If any value cannot be parsed, Parse reports all of them
// in a single ErrBadValue.
func (s *Set) Parse() error {
	var bad []string
	for _, v := range s.vars {
		val := os.Getenv(v.name)
		if val == "" {
			continue
		}
		if err := v.parse(val); err != nil {
			bad = append(bad, v.name+": "+err.Error())
		}
	}
	if len(bad) > 0 {
		return errors.WithDetail(ErrBadValue, strings.Join(bad, "; "))
	}
	return nil
}
