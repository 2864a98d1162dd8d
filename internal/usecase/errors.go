package usecase

import (
	"errors"
	"fmt"

	"cleaning-hub/pkg/utils"
)

// Error kinds. Handlers map them to status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrPersistence  = errors.New("persistence failure")
)

// Error is a kinded error. Message is safe to show to clients; Cause is not.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func persistenceError(message string, cause error) error {
	return &Error{Kind: ErrPersistence, Message: message, Cause: cause}
}

// PublicMessage returns the client-facing text of err.
func PublicMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ValidationError reports the first failed field and all failures by field.
type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Fields: map[string]string{field: message}}
}

// validate runs struct rules. A missing field is always reported before any
// other rule failure, in declaration order.
func validate(data any) *ValidationError {
	fields := utils.ValidateFields(data)
	if len(fields) == 0 {
		return nil
	}

	first := fields[0]
	for _, fe := range fields {
		if fe.Tag == "required" {
			first = fe
			break
		}
	}

	all := make(map[string]string, len(fields))
	for _, fe := range fields {
		if _, seen := all[fe.Field]; !seen {
			all[fe.Field] = fe.Message
		}
	}

	return &ValidationError{Field: first.Field, Message: first.Message, Fields: all}
}

// NotificationError records a failed delivery. It is logged, never returned
// to request handlers.
type NotificationError struct {
	Channel   string
	Recipient string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s via %s: %v", e.Recipient, e.Channel, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
