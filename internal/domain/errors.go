package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies failures across tiers, services and handlers.
type ErrorCode string

const (
	CodeValidationRejected ErrorCode = "validation_rejected"
	CodeTierUnavailable    ErrorCode = "tier_unavailable"
	CodeMissingParent      ErrorCode = "missing_parent"
	CodeDataIntegrity      ErrorCode = "data_integrity"
	CodeEnrollmentNotFound ErrorCode = "enrollment_not_found"
	CodeInvalidRubric      ErrorCode = "invalid_rubric"
	CodeConflictOnCreate   ErrorCode = "conflict_on_create"
	CodeNotFound           ErrorCode = "not_found"
	CodeInternal           ErrorCode = "internal"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap keeps an existing *Error's code unless the caller passes a non-empty
// override, so re-wrapping on the way up never downgrades a classification.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	if existing := CodeOf(err); existing != "" && code == "" {
		code = existing
	}
	if code == "" {
		code = CodeInternal
	}
	return NewError(code, op, err.Error(), err)
}

func Rejected(op, format string, args ...any) error {
	return NewError(CodeValidationRejected, op, fmt.Sprintf(format, args...), nil)
}

func Unavailable(op string, cause error) error {
	msg := "tier unavailable"
	if cause != nil {
		msg = cause.Error()
	}
	return NewError(CodeTierUnavailable, op, msg, cause)
}

func IsCode(err error, code ErrorCode) bool {
	var derr *Error
	if !errors.As(err, &derr) {
		return false
	}
	return derr.Code == code
}

func CodeOf(err error) ErrorCode {
	var derr *Error
	if !errors.As(err, &derr) {
		return ""
	}
	return derr.Code
}

// IsRetryable reports whether another tier (or another attempt) could succeed
// where this one failed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch CodeOf(err) {
	case CodeValidationRejected, CodeConflictOnCreate, CodeInvalidRubric:
		return false
	}
	return true
}
