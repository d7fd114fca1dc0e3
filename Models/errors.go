package Models

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConfigurationError is returned when required setup is missing, e.g. no
// active inspection template for the company.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// ValidationError is returned when a business rule blocks an operation.
// Items carries the names of the offending checklist items, when any.
type ValidationError struct {
	Reason string
	Items  []string
}

func (e *ValidationError) Error() string {
	if len(e.Items) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Items, ", "))
}

// InvalidStateError is returned when an operation is attempted in a
// lifecycle state that forbids it.
type InvalidStateError struct {
	Operation string
	State     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s an inspection in state %q", e.Operation, e.State)
}
