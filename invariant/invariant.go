// Package invariant provides contract assertions for the shellcore
// executor.
//
// Assertions are a force multiplier for discovering bugs: use
// Precondition/Postcondition to express function contracts, and
// Invariant for internal consistency checks. All functions panic on
// violation — these are programming errors in the executor itself or
// in a host implementation, never ordinary script failures.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
)

// Precondition checks an input contract at function entry.
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including a typed nil pointer/
// interface/slice/map/chan/func.
func NotNil(value interface{}, name string) {
	if value == nil {
		fail("PRECONDITION", "%s must not be nil", name)
	}
	if isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value interface{}) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// InRange panics if value is outside [min, max].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d", name, minVal, maxVal, value)
	}
}

// ExpectNoError panics if err is not nil. Use for operations that are
// contractually infallible given valid preconditions.
func ExpectNoError(err error, msg string) {
	if err != nil {
		fail("POSTCONDITION", "%s must not fail: %v", msg, err)
	}
}

// fail panics with a formatted message including call stack context.
func fail(kind, format string, args ...interface{}) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}
	panic(msg)
}
