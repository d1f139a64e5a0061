package service

import (
	"fmt"

	"github.com/Abhinavj12/hackfest-2025/internal/validation"
)

type ErrorCode string

const (
	ErrorCodeValidation   ErrorCode = "VALIDATION_FAILED"
	ErrorCodeConflict     ErrorCode = "CONFLICT"
	ErrorCodeCapacity     ErrorCode = "CAPACITY_REACHED"
	ErrorCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrorCodeInvalidID    ErrorCode = "INVALID_ID"
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeRateLimited  ErrorCode = "RATE_LIMITED"
	ErrorCodeInternal     ErrorCode = "INTERNAL"
)

// Conflicting fields reported by ErrorCodeConflict.
const (
	FieldTeamName = "teamName"
	FieldEmail    = "email"
)

// Error is the error body returned to API clients.
type Error struct {
	Message  string    `json:"error"`
	Code     ErrorCode `json:"code"`
	Field    string    `json:"field,omitempty"`
	Details  []string  `json:"details,omitempty"`
	Required []string  `json:"required,omitempty"`
	Waitlist bool      `json:"waitlist,omitempty"`

	cause error
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewValidationError(p validation.Problems) *Error {
	if p.Empty() {
		return NewError(ErrorCodeValidation, "Invalid request body")
	}

	if len(p.Missing) > 0 {
		return &Error{
			Code:     ErrorCodeValidation,
			Message:  "All required fields must be provided",
			Field:    p.Missing[0],
			Required: p.Missing,
		}
	}

	e := &Error{
		Code:    ErrorCodeValidation,
		Message: "Validation failed",
		Details: p.Details,
	}
	if len(p.Fields) > 0 {
		e.Field = p.Fields[0]
	}
	return e
}

func NewConflictError(field string) *Error {
	label := "email"
	if field == FieldTeamName {
		label = "team name"
	}
	return &Error{
		Code:    ErrorCodeConflict,
		Message: fmt.Sprintf("A team with this %s already exists", label),
		Field:   field,
	}
}

func NewCapacityError() *Error {
	return &Error{
		Code:     ErrorCodeCapacity,
		Message:  "Registration is full. Please join the waitlist.",
		Waitlist: true,
	}
}

// NewInternalError hides cause from the message. Cause is kept for diagnostics.
func NewInternalError(message string, cause error) *Error {
	return &Error{
		Code:    ErrorCodeInternal,
		Message: message,
		cause:   cause,
	}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Cause() error {
	return e.cause
}
