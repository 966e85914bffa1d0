package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTransition is returned when an order item status change is
	// not permitted from the current status. The entity is left unmutated.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOrderNotClosable is returned when closing an order that is not
	// fully served or is already closed.
	ErrOrderNotClosable = errors.New("order is not in a closable state")
)

// ValidationError describes a single violated business rule together with
// the offending field names.
type ValidationError struct {
	Fields  []string `json:"fields"`
	Message string   `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Fields, ", "), e.Message)
}

// ValidationErrors collects every rule a candidate entity violates; the
// checks are non-exclusive, so several can be reported at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}
