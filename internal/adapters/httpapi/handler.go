package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gramv/onbdev-sub001/internal/core/employee"
	"github.com/gramv/onbdev-sub001/internal/core/formupdate"
	"github.com/gramv/onbdev-sub001/internal/core/onboarding"
)

// Handler はオンボーディング API の HTTP ハンドラです。
type Handler struct {
	onboarding  onboarding.UseCase
	formUpdates formupdate.UseCase
	logger      *zap.Logger
}

// NewHandler は Handler を生成します。
func NewHandler(onboardingUC onboarding.UseCase, formUpdateUC formupdate.UseCase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		onboarding:  onboardingUC,
		formUpdates: formUpdateUC,
		logger:      logger,
	}
}

// Router はルーティングを構築します。
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(h.logger))
	r.Use(loggingMiddleware(h.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/onboarding", func(r chi.Router) {
			r.Post("/sessions", h.initiateOnboarding)
			r.Get("/sessions/{token}", h.getSessionByToken)
			r.Post("/sessions/{id}/steps/{step}", h.updateStepProgress)
			r.Post("/sessions/{id}/approve", h.approveOnboarding)
			r.Post("/sessions/{id}/reject", h.rejectOnboarding)
			r.Get("/pending/manager/{managerID}", h.pendingManagerReviews)
			r.Get("/pending/hr", h.pendingHRApprovals)
		})

		r.Route("/form-updates", func(r chi.Router) {
			r.Post("/", h.generateUpdateLink)
			r.Get("/{token}", h.getFormUpdateByToken)
			r.Post("/{id}/submit", h.submitFormUpdate)
		})

		r.Route("/employees/{employeeID}/form-updates", func(r chi.Router) {
			r.Get("/pending", h.pendingFormUpdates)
			r.Get("/completed", h.completedFormUpdates)
		})
	})

	return r
}

type initiateRequest struct {
	ApplicationID string `json:"application_id"`
	EmployeeID    string `json:"employee_id"`
	PropertyID    string `json:"property_id"`
	ManagerID     string `json:"manager_id"`
	ExpiresHours  int    `json:"expires_hours,omitempty"`
}

type stepRequest struct {
	FormData      map[string]any `json:"form_data"`
	SignatureData string         `json:"signature_data,omitempty"`
	ActorID       string         `json:"actor_id"`
}

type decisionRequest struct {
	ActorID string `json:"actor_id"`
	Reason  string `json:"reason,omitempty"`
}

type generateUpdateRequest struct {
	EmployeeID   string `json:"employee_id"`
	FormType     string `json:"form_type"`
	RequestedBy  string `json:"requested_by"`
	ExpiresHours int    `json:"expires_hours,omitempty"`
}

type submitUpdateRequest struct {
	UpdatedData   map[string]any `json:"updated_data"`
	SignatureData string         `json:"signature_data,omitempty"`
}

type sessionResponse struct {
	ID              string     `json:"id"`
	Token           string     `json:"token"`
	ApplicationID   string     `json:"application_id"`
	EmployeeID      string     `json:"employee_id"`
	PropertyID      string     `json:"property_id"`
	ManagerID       string     `json:"manager_id"`
	Status          string     `json:"status"`
	Phase           string     `json:"phase"`
	CurrentStep     string     `json:"current_step"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      *string    `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type sessionListResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type formUpdateResponse struct {
	ID          string         `json:"id"`
	UpdateToken string         `json:"update_token"`
	EmployeeID  string         `json:"employee_id"`
	RequestedBy string         `json:"requested_by"`
	FormType    string         `json:"form_type"`
	CurrentData map[string]any `json:"current_data,omitempty"`
	UpdatedData map[string]any `json:"updated_data,omitempty"`
	Status      string         `json:"status"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	ExpiresAt   time.Time      `json:"expires_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type formUpdateListResponse struct {
	Sessions []formUpdateResponse `json:"sessions"`
}

func (h *Handler) initiateOnboarding(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.onboarding.InitiateOnboarding(r.Context(), onboarding.InitiateInput{
		ApplicationID: req.ApplicationID,
		EmployeeID:    req.EmployeeID,
		PropertyID:    req.PropertyID,
		ManagerID:     req.ManagerID,
		ExpiresHours:  req.ExpiresHours,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) getSessionByToken(w http.ResponseWriter, r *http.Request) {
	session, err := h.onboarding.GetSessionByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) updateStepProgress(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.onboarding.UpdateStepProgress(r.Context(), onboarding.UpdateStepInput{
		SessionID:     chi.URLParam(r, "id"),
		Step:          onboarding.Step(chi.URLParam(r, "step")),
		FormData:      req.FormData,
		SignatureData: req.SignatureData,
		ActorID:       req.ActorID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) approveOnboarding(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.onboarding.ApproveOnboarding(r.Context(), chi.URLParam(r, "id"), req.ActorID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) rejectOnboarding(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.onboarding.RejectOnboarding(r.Context(), chi.URLParam(r, "id"), req.ActorID, req.Reason)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) pendingManagerReviews(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.onboarding.PendingManagerReviews(r.Context(), chi.URLParam(r, "managerID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionListResponse(sessions))
}

func (h *Handler) pendingHRApprovals(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.onboarding.PendingHRApprovals(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionListResponse(sessions))
}

func (h *Handler) generateUpdateLink(w http.ResponseWriter, r *http.Request) {
	var req generateUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	formType, err := employee.ParseFormType(req.FormType)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	session, err := h.formUpdates.GenerateUpdateLink(r.Context(), formupdate.GenerateInput{
		EmployeeID:   req.EmployeeID,
		FormType:     formType,
		RequestedBy:  req.RequestedBy,
		ExpiresHours: req.ExpiresHours,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFormUpdateResponse(session))
}

func (h *Handler) getFormUpdateByToken(w http.ResponseWriter, r *http.Request) {
	session, err := h.formUpdates.GetSessionByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFormUpdateResponse(session))
}

func (h *Handler) submitFormUpdate(w http.ResponseWriter, r *http.Request) {
	var req submitUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.formUpdates.SubmitFormUpdate(r.Context(), formupdate.SubmitInput{
		SessionID:     chi.URLParam(r, "id"),
		UpdatedData:   req.UpdatedData,
		SignatureData: req.SignatureData,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFormUpdateResponse(session))
}

func (h *Handler) pendingFormUpdates(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.formUpdates.PendingUpdatesForEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFormUpdateListResponse(sessions))
}

func (h *Handler) completedFormUpdates(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.formUpdates.CompletedUpdatesForEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFormUpdateListResponse(sessions))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func toSessionResponse(s *onboarding.Session) sessionResponse {
	return sessionResponse{
		ID:              s.ID,
		Token:           s.Token,
		ApplicationID:   s.ApplicationID,
		EmployeeID:      s.EmployeeID,
		PropertyID:      s.PropertyID,
		ManagerID:       s.ManagerID,
		Status:          string(s.Status),
		Phase:           string(s.Phase),
		CurrentStep:     string(s.CurrentStep),
		ApprovedBy:      s.ApprovedBy,
		ApprovedAt:      s.ApprovedAt,
		RejectedBy:      s.RejectedBy,
		RejectedAt:      s.RejectedAt,
		RejectionReason: s.RejectionReason,
		ExpiresAt:       s.ExpiresAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func toSessionListResponse(sessions []*onboarding.Session) sessionListResponse {
	out := sessionListResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		out.Sessions = append(out.Sessions, toSessionResponse(s))
	}
	return out
}

func toFormUpdateResponse(s *formupdate.Session) formUpdateResponse {
	return formUpdateResponse{
		ID:          s.ID,
		UpdateToken: s.UpdateToken,
		EmployeeID:  s.EmployeeID,
		RequestedBy: s.RequestedBy,
		FormType:    string(s.FormType),
		CurrentData: s.CurrentData,
		UpdatedData: s.UpdatedData,
		Status:      string(s.Status),
		CompletedAt: s.CompletedAt,
		ExpiresAt:   s.ExpiresAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toFormUpdateListResponse(sessions []*formupdate.Session) formUpdateListResponse {
	out := formUpdateListResponse{Sessions: make([]formUpdateResponse, 0, len(sessions))}
	for _, s := range sessions {
		out.Sessions = append(out.Sessions, toFormUpdateResponse(s))
	}
	return out
}
