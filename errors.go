package invoicekit

import (
	"errors"
	"fmt"
)

// Sentinel errors for the caller-visible failure conditions around rendering.
// The renderer itself never returns them; they come from the collaborators
// invoked before and after a render.
var (
	ErrValidation    = errors.New("invoicekit: validation failed")
	ErrQuotaExceeded = errors.New("invoicekit: monthly document limit reached")
	ErrNotFound      = errors.New("invoicekit: not found")
	ErrStorage       = errors.New("invoicekit: storage failure")
	ErrInvalidParam  = errors.New("invoicekit: invalid parameter")
)

// Error represents an error that occurred during a specific operation.
// It wraps an underlying error and includes the operation name for context.
type Error struct {
	Op  string // operation name, e.g. "SaveDraft", "Render"
	Err error  // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invoicekit.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("invoicekit.%s: unknown error", e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError returns err wrapped with the operation name, or nil if err is nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// StorageError wraps err so that it matches both ErrStorage and err.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: fmt.Errorf("%w: %w", ErrStorage, err)}
}
