package httpapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gramv/onbdev-sub001/internal/core/employee"
	"github.com/gramv/onbdev-sub001/internal/core/formupdate"
	"github.com/gramv/onbdev-sub001/internal/core/onboarding"
)

func TestMapDomainError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"onboarding not found", onboarding.ErrSessionNotFound, http.StatusNotFound, "not_found"},
		{"form update not found", formupdate.ErrSessionNotFound, http.StatusNotFound, "not_found"},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound, "not_found"},
		{"onboarding expired", onboarding.ErrSessionExpired, http.StatusGone, "session_expired"},
		{"form update expired", formupdate.ErrSessionExpired, http.StatusGone, "session_expired"},
		{"terminal session", onboarding.ErrSessionTerminal, http.StatusConflict, "invalid_state"},
		{"invalid transition", onboarding.ErrInvalidTransition, http.StatusConflict, "invalid_state"},
		{"step outside phase", onboarding.ErrStepNotInPhase, http.StatusConflict, "invalid_state"},
		{"completed session", formupdate.ErrSessionCompleted, http.StatusConflict, "invalid_state"},
		{"missing actor", onboarding.ErrInvalidActor, http.StatusBadRequest, "invalid_request"},
		{"missing reason", onboarding.ErrInvalidReason, http.StatusBadRequest, "invalid_request"},
		{"unknown step", onboarding.ErrUnknownStep, http.StatusBadRequest, "invalid_request"},
		{"empty update", formupdate.ErrEmptyUpdate, http.StatusBadRequest, "invalid_request"},
		{"missing signature", formupdate.ErrSignatureRequired, http.StatusBadRequest, "invalid_request"},
		{"unknown form type", employee.ErrUnknownFormType, http.StatusBadRequest, "invalid_request"},
		{"unexpected error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, code, _ := mapDomainError(tc.err)
			if status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, status)
			}
			if code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, code)
			}
		})
	}
}
