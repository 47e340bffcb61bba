package todo

import (
	"fmt"
	"strings"
)

// ValidationError reports caller-supplied data that violates a task
// invariant. The store is left unchanged.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an id that is not present in the collection the
// operation looked at.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

// InvalidStateError reports an operation that does not apply to a task in
// its current status, such as toggling completion on a draft.
type InvalidStateError struct {
	ID     string
	Status Status
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s task %q: task is %s", e.Op, e.ID, e.Status)
}

// AmbiguousIDError reports an id prefix matching more than one task.
type AmbiguousIDError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousIDError) Error() string {
	return fmt.Sprintf("id prefix %q is ambiguous: matches %s", e.Prefix, strings.Join(e.Matches, ", "))
}

// SchemaError is a single structural problem found while decoding a
// store, located by a dotted JSON path.
type SchemaError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// CorruptionError reports encoded data that does not describe a valid
// store. No partial store is ever recovered from it.
type CorruptionError struct {
	Errors []error
}

func (e *CorruptionError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "corrupt task data"
	case 1:
		return "corrupt task data: " + e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("corrupt task data (%d problems): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *CorruptionError) Unwrap() []error {
	return e.Errors
}
