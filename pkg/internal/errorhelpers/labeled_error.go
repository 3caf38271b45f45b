package errorhelpers

import (
	"fmt"
)

// Labeled is implemented by errors that name the thing they describe, such
// as an advisory ID or a document field. Renderers use the label to group an
// error's underlying causes under a heading instead of repeating the context
// in every message.
type Labeled interface {
	Label() string
	Unwrap() error
}

type LabeledError struct {
	label string
	err   error
}

// Error returns the error as a message string (to implement the error
// interface).
func (l LabeledError) Error() string {
	return fmt.Sprintf("%s: %s", l.label, l.err.Error())
}

// Label returns the label for the error.
func (l LabeledError) Label() string {
	return l.label
}

// Unwrap returns the underlying error.
func (l LabeledError) Unwrap() error {
	return l.err
}

// LabelError attaches label to err. A nil err stays nil, so callers can
// label the result of errors.Join unconditionally.
func LabelError(label string, err error) error {
	if err == nil {
		return nil
	}

	return &LabeledError{label, err}
}
