package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gramv/onbdev-sub001/internal/core/formupdate"
	"github.com/gramv/onbdev-sub001/internal/core/onboarding"
)

type fakeOnboardingUseCase struct {
	initiateFn    func(ctx context.Context, in onboarding.InitiateInput) (*onboarding.Session, error)
	byTokenFn     func(ctx context.Context, tok string) (*onboarding.Session, error)
	byIDFn        func(ctx context.Context, id string) (*onboarding.Session, error)
	updateStepFn  func(ctx context.Context, in onboarding.UpdateStepInput) (*onboarding.Session, error)
	approveFn     func(ctx context.Context, sessionID, approvedBy string) (*onboarding.Session, error)
	rejectFn      func(ctx context.Context, sessionID, rejectedBy, reason string) (*onboarding.Session, error)
	pendingMgrFn  func(ctx context.Context, managerID string) ([]*onboarding.Session, error)
	pendingHRFn   func(ctx context.Context) ([]*onboarding.Session, error)
}

func (f fakeOnboardingUseCase) InitiateOnboarding(ctx context.Context, in onboarding.InitiateInput) (*onboarding.Session, error) {
	return f.initiateFn(ctx, in)
}

func (f fakeOnboardingUseCase) GetSessionByToken(ctx context.Context, tok string) (*onboarding.Session, error) {
	return f.byTokenFn(ctx, tok)
}

func (f fakeOnboardingUseCase) GetSessionByID(ctx context.Context, id string) (*onboarding.Session, error) {
	return f.byIDFn(ctx, id)
}

func (f fakeOnboardingUseCase) UpdateStepProgress(ctx context.Context, in onboarding.UpdateStepInput) (*onboarding.Session, error) {
	return f.updateStepFn(ctx, in)
}

func (f fakeOnboardingUseCase) CompleteEmployeePhase(ctx context.Context, sessionID string) (*onboarding.Session, error) {
	return nil, nil
}

func (f fakeOnboardingUseCase) CompleteManagerPhase(ctx context.Context, sessionID string) (*onboarding.Session, error) {
	return nil, nil
}

func (f fakeOnboardingUseCase) ApproveOnboarding(ctx context.Context, sessionID, approvedBy string) (*onboarding.Session, error) {
	return f.approveFn(ctx, sessionID, approvedBy)
}

func (f fakeOnboardingUseCase) RejectOnboarding(ctx context.Context, sessionID, rejectedBy, reason string) (*onboarding.Session, error) {
	return f.rejectFn(ctx, sessionID, rejectedBy, reason)
}

func (f fakeOnboardingUseCase) PendingManagerReviews(ctx context.Context, managerID string) ([]*onboarding.Session, error) {
	return f.pendingMgrFn(ctx, managerID)
}

func (f fakeOnboardingUseCase) PendingHRApprovals(ctx context.Context) ([]*onboarding.Session, error) {
	return f.pendingHRFn(ctx)
}

type fakeFormUpdateUseCase struct {
	generateFn  func(ctx context.Context, in formupdate.GenerateInput) (*formupdate.Session, error)
	byTokenFn   func(ctx context.Context, tok string) (*formupdate.Session, error)
	submitFn    func(ctx context.Context, in formupdate.SubmitInput) (*formupdate.Session, error)
	pendingFn   func(ctx context.Context, employeeID string) ([]*formupdate.Session, error)
	completedFn func(ctx context.Context, employeeID string) ([]*formupdate.Session, error)
}

func (f fakeFormUpdateUseCase) GenerateUpdateLink(ctx context.Context, in formupdate.GenerateInput) (*formupdate.Session, error) {
	return f.generateFn(ctx, in)
}

func (f fakeFormUpdateUseCase) GetSessionByToken(ctx context.Context, tok string) (*formupdate.Session, error) {
	return f.byTokenFn(ctx, tok)
}

func (f fakeFormUpdateUseCase) SubmitFormUpdate(ctx context.Context, in formupdate.SubmitInput) (*formupdate.Session, error) {
	return f.submitFn(ctx, in)
}

func (f fakeFormUpdateUseCase) PendingUpdatesForEmployee(ctx context.Context, employeeID string) ([]*formupdate.Session, error) {
	return f.pendingFn(ctx, employeeID)
}

func (f fakeFormUpdateUseCase) CompletedUpdatesForEmployee(ctx context.Context, employeeID string) ([]*formupdate.Session, error) {
	return f.completedFn(ctx, employeeID)
}

func sampleSession() *onboarding.Session {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return &onboarding.Session{
		ID:            "session-1",
		Token:         "token-1",
		ApplicationID: "app-1",
		EmployeeID:    "emp-1",
		PropertyID:    "prop-1",
		ManagerID:     "mgr-1",
		Status:        onboarding.StatusInProgress,
		Phase:         onboarding.PhaseEmployee,
		CurrentStep:   onboarding.StepPersonalInfo,
		ExpiresAt:     now.Add(72 * time.Hour),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestInitiateOnboarding_Created(t *testing.T) {
	t.Parallel()

	var captured onboarding.InitiateInput
	handler := NewHandler(fakeOnboardingUseCase{
		initiateFn: func(_ context.Context, in onboarding.InitiateInput) (*onboarding.Session, error) {
			captured = in
			return sampleSession(), nil
		},
	}, fakeFormUpdateUseCase{}, nil)

	body, _ := json.Marshal(initiateRequest{
		ApplicationID: "app-1",
		EmployeeID:    "emp-1",
		PropertyID:    "prop-1",
		ManagerID:     "mgr-1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/sessions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.EmployeeID != "emp-1" || captured.ManagerID != "mgr-1" {
		t.Fatalf("unexpected input forwarded: %+v", captured)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != "token-1" || resp.CurrentStep != string(onboarding.StepPersonalInfo) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestInitiateOnboarding_InvalidJSON(t *testing.T) {
	t.Parallel()

	handler := NewHandler(fakeOnboardingUseCase{}, fakeFormUpdateUseCase{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/sessions", bytes.NewReader([]byte("{not-json")))
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error.Code != "invalid_json" {
		t.Fatalf("expected invalid_json code, got %s", resp.Error.Code)
	}
}

func TestGetSessionByToken_Expired(t *testing.T) {
	t.Parallel()

	handler := NewHandler(fakeOnboardingUseCase{
		byTokenFn: func(_ context.Context, tok string) (*onboarding.Session, error) {
			return nil, onboarding.ErrSessionExpired
		},
	}, fakeFormUpdateUseCase{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/onboarding/sessions/stale-token", nil)
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusGone {
		t.Fatalf("expected 410, got %d", rec.Code)
	}
}

func TestGetSessionByToken_NotFound(t *testing.T) {
	t.Parallel()

	handler := NewHandler(fakeOnboardingUseCase{
		byTokenFn: func(_ context.Context, tok string) (*onboarding.Session, error) {
			return nil, onboarding.ErrSessionNotFound
		},
	}, fakeFormUpdateUseCase{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/onboarding/sessions/missing", nil)
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateStepProgress_PhaseMismatch(t *testing.T) {
	t.Parallel()

	handler := NewHandler(fakeOnboardingUseCase{
		updateStepFn: func(_ context.Context, in onboarding.UpdateStepInput) (*onboarding.Session, error) {
			return nil, onboarding.ErrStepNotInPhase
		},
	}, fakeFormUpdateUseCase{}, nil)

	body, _ := json.Marshal(stepRequest{FormData: map[string]any{"key": "value"}, ActorID: "emp-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/sessions/session-1/steps/i9_section2", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestUpdateStepProgress_ForwardsPathParams(t *testing.T) {
	t.Parallel()

	var captured onboarding.UpdateStepInput
	handler := NewHandler(fakeOnboardingUseCase{
		updateStepFn: func(_ context.Context, in onboarding.UpdateStepInput) (*onboarding.Session, error) {
			captured = in
			return sampleSession(), nil
		},
	}, fakeFormUpdateUseCase{}, nil)

	body, _ := json.Marshal(stepRequest{FormData: map[string]any{"first_name": "Maria"}, ActorID: "emp-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/sessions/session-1/steps/personal_info", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.SessionID != "session-1" || captured.Step != onboarding.StepPersonalInfo {
		t.Fatalf("unexpected input forwarded: %+v", captured)
	}
	if captured.FormData["first_name"] != "Maria" {
		t.Fatalf("expected form data forwarded, got %+v", captured.FormData)
	}
}

func TestRejectOnboarding_Terminal(t *testing.T) {
	t.Parallel()

	handler := NewHandler(fakeOnboardingUseCase{
		rejectFn: func(_ context.Context, sessionID, rejectedBy, reason string) (*onboarding.Session, error) {
			return nil, onboarding.ErrSessionTerminal
		},
	}, fakeFormUpdateUseCase{}, nil)

	body, _ := json.Marshal(decisionRequest{ActorID: "hr-1", Reason: "incomplete i9"})
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/sessions/session-1/reject", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestPendingManagerReviews_ReturnsList(t *testing.T) {
	t.Parallel()

	handler := NewHandler(fakeOnboardingUseCase{
		pendingMgrFn: func(_ context.Context, managerID string) ([]*onboarding.Session, error) {
			if managerID != "mgr-1" {
				t.Errorf("unexpected manager id %s", managerID)
			}
			return []*onboarding.Session{sampleSession()}, nil
		},
	}, fakeFormUpdateUseCase{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/onboarding/pending/manager/mgr-1", nil)
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp sessionListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Sessions) != 1 || resp.Sessions[0].ID != "session-1" {
		t.Fatalf("unexpected list response: %+v", resp)
	}
}

func TestGenerateUpdateLink_UnknownFormType(t *testing.T) {
	t.Parallel()

	handler := NewHandler(fakeOnboardingUseCase{}, fakeFormUpdateUseCase{}, nil)

	body, _ := json.Marshal(generateUpdateRequest{
		EmployeeID:  "emp-1",
		FormType:    "resume",
		RequestedBy: "hr-1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/form-updates/", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitFormUpdate_Completed(t *testing.T) {
	t.Parallel()

	handler := NewHandler(fakeOnboardingUseCase{}, fakeFormUpdateUseCase{
		submitFn: func(_ context.Context, in formupdate.SubmitInput) (*formupdate.Session, error) {
			return nil, formupdate.ErrSessionCompleted
		},
	}, nil)

	body, _ := json.Marshal(submitUpdateRequest{UpdatedData: map[string]any{"account_number": "222"}})
	req := httptest.NewRequest(http.MethodPost, "/api/form-updates/update-1/submit", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	handler := NewHandler(fakeOnboardingUseCase{}, fakeFormUpdateUseCase{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header to be set")
	}
}
