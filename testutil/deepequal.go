package testutil

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var deepOpts = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// DeepEqual is similar to reflect.DeepEqual, but treats nil as equal
// to empty maps and slices, and compares unexported fields.
func DeepEqual(x, y interface{}) bool {
	if isEmpty(reflect.ValueOf(x)) && isEmpty(reflect.ValueOf(y)) {
		return true
	}
	return cmp.Equal(x, y, deepOpts...)
}

// Diff returns a human-readable report of the differences
// between x and y, using the same rules as DeepEqual.
func Diff(x, y interface{}) string {
	return cmp.Diff(x, y, deepOpts...)
}

func isEmpty(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Type().Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Ptr:
		return v.IsNil()

	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	}
	return false
}
