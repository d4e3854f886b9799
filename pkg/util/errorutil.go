package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors. Retriable tells the
// triage step runner whether repeating the failed operation can help.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Retriable  bool
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewClassificationFault reports a failed or unparseable model call.
// Retrying the same malformed response is futile within one attempt.
func NewClassificationFault(err error) error {
	return &DomainError{
		Code:       "CLASSIFICATION_FAILED",
		Message:    "classification failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewAssignmentFault reports that no eligible assignee exists. The
// directory may gain a moderator later, so the fault is retriable up to
// the attempt budget.
func NewAssignmentFault(message string) error {
	return &DomainError{
		Code:       "ASSIGNMENT_FAILED",
		Message:    message,
		HTTPStatus: http.StatusConflict,
		Retriable:  true,
	}
}

// NewNotificationFault reports a failed email delivery. It is recorded
// for logs only and never escalates past the workflow boundary.
func NewNotificationFault(err error) error {
	return &DomainError{
		Code:       "NOTIFICATION_FAILED",
		Message:    "notification failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Retriable:  true,
		Err:        err,
	}
}

// IsRetriable reports whether err may succeed on a repeat attempt.
// Unknown errors are assumed transient.
func IsRetriable(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Retriable
	}
	return true
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Retriable:  true,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
