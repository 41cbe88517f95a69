// Package httpx classifies responses from the record service.
package httpx

import (
	"fmt"
	"net/http"

	types "github.com/yungbote/solbot-backend/internal/domain"
)

// StatusError is a non-2xx response. Message is the remote error text when
// the body carried one.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("record service returned %d", e.Status)
	}
	return fmt.Sprintf("record service returned %d: %s", e.Status, e.Message)
}

// CodeForStatus maps a record service status onto the error codes the
// gateway acts on. Only a rejected body or a duplicate id is final; every
// other status leaves the next attempt or tier free to try.
func CodeForStatus(status int) types.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return types.CodeValidationRejected
	case http.StatusConflict:
		return types.CodeConflictOnCreate
	default:
		return types.CodeTierUnavailable
	}
}

// Classify wraps a non-2xx response as a domain error under op.
func Classify(op string, status int, message string) error {
	se := &StatusError{Status: status, Message: message}
	return types.NewError(CodeForStatus(status), op, se.Error(), se)
}
