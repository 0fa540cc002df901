package main

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrNotFound        = errors.New("not found")
)

// invalidArgumentError reports a missing or malformed argument. It
// matches ErrInvalidArgument with errors.Is while keeping the user
// facing message free of the sentinel text.
type invalidArgumentError struct {
	field  string
	reason string
}

func (e invalidArgumentError) Error() string {
	return e.field + " " + e.reason
}

func (e invalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// Field returns the name of the rejected argument.
func (e invalidArgumentError) Field() string {
	return e.field
}

// blankFieldError builds the error returned when a required text field is blank.
func blankFieldError(field string) error {
	return invalidArgumentError{field: field, reason: "must be a non empty string"}
}

// keyedError carries a readable message and matches its sentinel kind.
type keyedError struct {
	kind error
	msg  string
}

func (e *keyedError) Error() string {
	return e.msg
}

func (e *keyedError) Unwrap() error {
	return e.kind
}

func duplicateTitleError(title string) error {
	return &keyedError{kind: ErrDuplicateKey, msg: fmt.Sprintf(`"%s" already exists`, title)}
}

func unknownTitleError(title string) error {
	return &keyedError{kind: ErrNotFound, msg: fmt.Sprintf(`No books with title "%s"`, title)}
}
