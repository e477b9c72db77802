package sale

import (
	"errors"
	"strings"

	"go.uber.org/multierr"
)

// ItemError is one reason a cart line was refused. Its message is shown to the
// cashier as is; Kind classifies it (validation, not found, insufficient stock).
type ItemError struct {
	Kind    error
	Message string
}

func (e *ItemError) Error() string { return e.Message }

func (e *ItemError) Is(target error) bool { return target == e.Kind }

// RejectedError aggregates every reason a sale could not be completed.
type RejectedError struct {
	Reasons error
}

func (e *RejectedError) Error() string {
	return "Sale cannot be completed: " + strings.Join(e.Messages(), " ")
}

// Is reports whether any reason matches target.
func (e *RejectedError) Is(target error) bool {
	for _, err := range multierr.Errors(e.Reasons) {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Messages lists the individual refusal messages.
func (e *RejectedError) Messages() []string {
	errs := multierr.Errors(e.Reasons)
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
