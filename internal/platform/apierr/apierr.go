package apierr

import (
	"errors"
	"fmt"
	"net/http"

	types "github.com/yungbote/solbot-backend/internal/domain"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// StatusFor maps a domain code to its HTTP status. Storage and integrity
// failures, tier_unavailable included, are 500s.
func StatusFor(code types.ErrorCode) int {
	switch code {
	case types.CodeValidationRejected:
		return http.StatusBadRequest
	case types.CodeNotFound:
		return http.StatusNotFound
	case types.CodeConflictOnCreate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// From classifies err. An *Error passes through; domain errors get their
// mapped status; anything else is a 500 "internal".
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	code := types.CodeOf(err)
	if code == "" {
		code = types.CodeInternal
	}
	return New(StatusFor(code), string(code), err)
}
