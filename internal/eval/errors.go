package eval

import "fmt"

// FatalError is a runtime fault raised while evaluating a compiled
// program: integer division by zero, an index out of range, head of an
// empty array, an invalid dynamic regex. Run recovers it and returns
// it as the error.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string { return "fatal error: " + e.Msg }

func fatalf(format string, args ...any) {
	panic(&FatalError{Msg: fmt.Sprintf(format, args...)})
}
