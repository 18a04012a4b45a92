package errors

import (
	"errors"
	"fmt"
)

// CompilationError is raised by the compiler. Reason already holds the
// fully-formatted "Error ...: message" clause (see vm.Parser.ErrorAt), so
// Error() only has to prepend the source line.
type CompilationError struct {
	Line   int
	Reason string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Line, e.Reason)
}

// RuntimeError is raised by the VM. Error() is the exact two-line
// diagnostic that belongs on the diagnostic stream: the message, then
// the "[line L] in script" trailer.
type RuntimeError struct {
	Line   int
	Reason string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d] in script", e.Reason, e.Line)
}

// Unreachable marks a switch arm that the parse-rule table guarantees can
// never be taken.
var Unreachable = errors.New("internal error: entered unreachable code")
