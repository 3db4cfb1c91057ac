package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gramv/onbdev-sub001/internal/core/employee"
	"github.com/gramv/onbdev-sub001/internal/core/formupdate"
	"github.com/gramv/onbdev-sub001/internal/core/onboarding"
)

type errorResponse struct {
	RequestID string        `json:"request_id,omitempty"`
	Error     responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// mapDomainError はドメインエラーを HTTP ステータスとエラーコードへ変換します。
// 404: 見つからない / 410: 失効 / 409: 状態が許さない / 400: 入力不正 / 500: それ以外。
func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, onboarding.ErrSessionNotFound),
		errors.Is(err, formupdate.ErrSessionNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound):
		return http.StatusNotFound, "not_found", "resource not found"

	case errors.Is(err, onboarding.ErrSessionExpired),
		errors.Is(err, formupdate.ErrSessionExpired):
		return http.StatusGone, "session_expired", "session has expired"

	case errors.Is(err, onboarding.ErrSessionTerminal),
		errors.Is(err, onboarding.ErrInvalidTransition),
		errors.Is(err, onboarding.ErrStepNotInPhase),
		errors.Is(err, onboarding.ErrDuplicateToken),
		errors.Is(err, formupdate.ErrSessionCompleted),
		errors.Is(err, formupdate.ErrDuplicateToken):
		return http.StatusConflict, "invalid_state", err.Error()

	case errors.Is(err, onboarding.ErrInvalidID),
		errors.Is(err, onboarding.ErrInvalidToken),
		errors.Is(err, onboarding.ErrInvalidApplicationID),
		errors.Is(err, onboarding.ErrInvalidEmployeeID),
		errors.Is(err, onboarding.ErrInvalidPropertyID),
		errors.Is(err, onboarding.ErrInvalidManagerID),
		errors.Is(err, onboarding.ErrInvalidExpiry),
		errors.Is(err, onboarding.ErrInvalidActor),
		errors.Is(err, onboarding.ErrInvalidReason),
		errors.Is(err, onboarding.ErrUnknownStep),
		errors.Is(err, formupdate.ErrInvalidID),
		errors.Is(err, formupdate.ErrInvalidToken),
		errors.Is(err, formupdate.ErrInvalidEmployeeID),
		errors.Is(err, formupdate.ErrInvalidRequester),
		errors.Is(err, formupdate.ErrInvalidExpiry),
		errors.Is(err, formupdate.ErrEmptyUpdate),
		errors.Is(err, formupdate.ErrSignatureRequired),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrUnknownFormType):
		return http.StatusBadRequest, "invalid_request", err.Error()

	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := mapDomainError(err)
	writeError(w, r, status, code, message)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		RequestID: requestIDFromContext(r.Context()),
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
