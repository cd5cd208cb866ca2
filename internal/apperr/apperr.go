package apperr

import (
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeBusinessRule     Code = "BUSINESS_RULE"
	CodeConflict         Code = "CONFLICT"
	CodeExternalService  Code = "EXTERNAL_SERVICE"
	CodeInternal         Code = "INTERNAL"
)

// Error is the single error type crossing layer boundaries. BusinessRule
// errors carry a stable Key that callers branch on; Message is for humans.
type Error struct {
	Code        Code
	Key         string
	Message     string
	ShouldThrow bool
	Fields      map[string][]string
	cause       error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidationFailed:
		return http.StatusBadRequest
	case CodeBusinessRule:
		return http.StatusUnprocessableEntity
	case CodeConflict:
		return http.StatusConflict
	case CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(entity, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

func BusinessRule(key, message string) *Error {
	return &Error{
		Code:        CodeBusinessRule,
		Key:         key,
		Message:     message,
		ShouldThrow: true,
	}
}

func Validation(fields map[string][]string) *Error {
	return &Error{
		Code:    CodeValidationFailed,
		Message: "validation failed",
		Fields:  fields,
	}
}

func Conflict(message string) *Error {
	return &Error{
		Code:    CodeConflict,
		Message: message,
	}
}

func External(op string, cause error) *Error {
	return &Error{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s failed", op),
		cause:   cause,
	}
}

func Internal(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: "internal error",
		cause:   cause,
	}
}
