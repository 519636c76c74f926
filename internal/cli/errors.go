package cli

import (
	"errors"
	"fmt"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

var errNothingToSubmit = errors.New("nothing to submit: the response has no submit button")

// usageError marks bad flag combinations.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }
