package assert

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// Equal checks if values are equal
func Equal(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if a == b {
		return
	}
	t.Errorf("Received %v (type %v), expected %v (type %v)",
		a, reflect.TypeOf(a), b, reflect.TypeOf(b))
}

// DeepEqual checks slices, maps and structs
func DeepEqual(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		return
	}
	t.Errorf("Received %#v, expected %#v", a, b)
}

func True(t *testing.T, value bool, msgAndArgs ...interface{}) bool {
	t.Helper()
	if value {
		return true
	}
	if len(msgAndArgs) > 0 {
		t.Errorf("Should be true: "+msgAndArgs[0].(string), msgAndArgs[1:]...)
	} else {
		t.Error("Should be true")
	}
	return false
}

func Contains(t *testing.T, text string, substring string) bool {
	t.Helper()
	if strings.Contains(text, substring) {
		return true
	}
	t.Errorf("%q does not contain %q", text, substring)
	return false
}

// NoError stops the test on unexpected errors
func NoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
}

// ErrorAs checks that err wraps an error of target's type
func ErrorAs(t *testing.T, err error, target interface{}) bool {
	t.Helper()
	if err != nil && errors.As(err, target) {
		return true
	}
	t.Errorf("Error %v is not a %v", err, reflect.TypeOf(target).Elem())
	return false
}
