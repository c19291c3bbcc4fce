package cli

import (
	"errors"

	"github.com/llehouerou/mpdlive/internal/errmsg"
)

// opError pairs an error with the operation it failed, so Execute can
// print it through errmsg.
type opError struct {
	op      errmsg.Op
	context string
	err     error
}

func (e *opError) Error() string {
	return errmsg.FormatWith(e.op, e.context, e.err)
}

func (e *opError) Unwrap() error {
	return e.err
}

func userError(op errmsg.Op, err error) error {
	return &opError{op: op, err: err}
}

func userErrorAt(op errmsg.Op, context string, err error) error {
	return &opError{op: op, context: context, err: err}
}

// Message returns the text to show for err.
func Message(err error) string {
	var oe *opError
	if errors.As(err, &oe) {
		return oe.Error()
	}
	return err.Error()
}
