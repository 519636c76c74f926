package terminal

import (
	"errors"
	"fmt"
)

// ErrInvalidCommand is matched by every parse failure. Callers surface it as
// a single "invalid command" indicator; the wrapped reason is for logs.
var ErrInvalidCommand = errors.New("invalid command")

// ErrIncomplete is returned by a submit whose required form fields are empty.
// Nothing is sent and the bound continuation stays in place.
var ErrIncomplete = errors.New("required fields are empty")

type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid command %q: %s", e.Line, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrInvalidCommand }

func parseErrorf(line, format string, args ...any) error {
	return &ParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
}
