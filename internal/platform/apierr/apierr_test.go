package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	types "github.com/yungbote/solbot-backend/internal/domain"
)

func TestFrom(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{types.Rejected("op", "bad"), http.StatusBadRequest, "validation_rejected"},
		{types.NewError(types.CodeNotFound, "op", "gone", nil), http.StatusNotFound, "not_found"},
		{types.NewError(types.CodeConflictOnCreate, "op", "dup", nil), http.StatusConflict, "conflict_on_create"},
		{types.NewError(types.CodeEnrollmentNotFound, "op", "none", nil), http.StatusInternalServerError, "enrollment_not_found"},
		{types.NewError(types.CodeDataIntegrity, "op", "dup rows", nil), http.StatusInternalServerError, "data_integrity"},
		{types.Unavailable("op", errors.New("down")), http.StatusInternalServerError, "tier_unavailable"},
		{fmt.Errorf("wrapped: %w", types.Rejected("op", "x")), http.StatusBadRequest, "validation_rejected"},
		{errors.New("plain"), http.StatusInternalServerError, "internal"},
		{New(http.StatusTeapot, "teapot", nil), http.StatusTeapot, "teapot"},
	}
	for _, tc := range cases {
		got := From(tc.err)
		if got.Status != tc.status || got.Code != tc.code {
			t.Fatalf("From(%v) = %d %s, want %d %s", tc.err, got.Status, got.Code, tc.status, tc.code)
		}
	}
	if From(nil) != nil {
		t.Fatalf("From(nil) should be nil")
	}
}
