package analysis

import (
	"errors"
	"fmt"
)

// ErrInputFormat matches every InputFormatError via errors.Is.
var ErrInputFormat = errors.New("input is not a usable table")

// InputFormatError reports input that cannot be turned into a dataset:
// unparseable CSV, no rows, no columns, or ambiguous headers.
type InputFormatError struct {
	Reason string
	Err    error
}

func (e *InputFormatError) Error() string {
	if e == nil {
		return "invalid input"
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InputFormatError) Unwrap() error { return e.Err }

func (e *InputFormatError) Is(target error) bool { return target == ErrInputFormat }

func inputError(reason string, err error) error {
	return &InputFormatError{Reason: reason, Err: err}
}
