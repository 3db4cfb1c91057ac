package onboarding

import (
	"context"
	"strings"
	"time"

	"github.com/gramv/onbdev-sub001/internal/core/audit"
	"github.com/gramv/onbdev-sub001/internal/core/employee"
	"github.com/gramv/onbdev-sub001/internal/core/token"
)

// DefaultExpiresHours は招待リンクの既定の有効時間です。
const DefaultExpiresHours = 72

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TokenSource はセッショントークンを生成します。
type TokenSource func() string

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase はオンボーディングワークフローの公開インターフェースです。
type UseCase interface {
	InitiateOnboarding(ctx context.Context, in InitiateInput) (*Session, error)
	GetSessionByToken(ctx context.Context, tok string) (*Session, error)
	GetSessionByID(ctx context.Context, id string) (*Session, error)
	UpdateStepProgress(ctx context.Context, in UpdateStepInput) (*Session, error)
	CompleteEmployeePhase(ctx context.Context, sessionID string) (*Session, error)
	CompleteManagerPhase(ctx context.Context, sessionID string) (*Session, error)
	ApproveOnboarding(ctx context.Context, sessionID, approvedBy string) (*Session, error)
	RejectOnboarding(ctx context.Context, sessionID, rejectedBy, reason string) (*Session, error)
	PendingManagerReviews(ctx context.Context, managerID string) ([]*Session, error)
	PendingHRApprovals(ctx context.Context) ([]*Session, error)
}

// Service はオンボーディングワークフローのユースケースをまとめます。
type Service struct {
	repo        Repository
	submissions SubmissionStore
	employees   employee.Repository
	audit       *audit.Recorder
	notifier    Notifier
	clock       Clock
	tokens      TokenSource
	tx          TransactionManager
}

// NewService は Service を生成します。nil の依存には既定実装を補います。
func NewService(
	repo Repository,
	submissions SubmissionStore,
	employees employee.Repository,
	recorder *audit.Recorder,
	notifier Notifier,
	clock Clock,
	tokens TokenSource,
	tx TransactionManager,
) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if clock == nil {
		clock = realClock{}
	}
	if tokens == nil {
		tokens = token.New
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		repo:        repo,
		submissions: submissions,
		employees:   employees,
		audit:       recorder,
		notifier:    notifier,
		clock:       clock,
		tokens:      tokens,
		tx:          tx,
	}
}

// InitiateInput はオンボーディング開始時の入力です。
// ExpiresHours が 0 の場合は DefaultExpiresHours を使います。
type InitiateInput struct {
	ApplicationID string
	EmployeeID    string
	PropertyID    string
	ManagerID     string
	ExpiresHours  int
}

// UpdateStepInput はステップ完了時の入力です。
type UpdateStepInput struct {
	SessionID     string
	Step          Step
	FormData      map[string]any
	SignatureData string
	ActorID       string
}

// InitiateOnboarding は新しいオンボーディングセッションを開始します。
// 応募承認済みであることの確認は外部の API 層の責務です。
func (s *Service) InitiateOnboarding(ctx context.Context, in InitiateInput) (*Session, error) {
	applicationID, err := requireID(in.ApplicationID, ErrInvalidApplicationID)
	if err != nil {
		return nil, err
	}
	employeeID, err := requireID(in.EmployeeID, ErrInvalidEmployeeID)
	if err != nil {
		return nil, err
	}
	propertyID, err := requireID(in.PropertyID, ErrInvalidPropertyID)
	if err != nil {
		return nil, err
	}
	managerID, err := requireID(in.ManagerID, ErrInvalidManagerID)
	if err != nil {
		return nil, err
	}

	hours := in.ExpiresHours
	if hours == 0 {
		hours = DefaultExpiresHours
	}
	if hours < 0 {
		return nil, ErrInvalidExpiry
	}

	var created *Session
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.employees.FindByID(txCtx, employeeID); err != nil {
			return err
		}

		now := s.clock.Now()
		session := &Session{
			Token:         s.tokens(),
			ApplicationID: applicationID,
			EmployeeID:    employeeID,
			PropertyID:    propertyID,
			ManagerID:     managerID,
			Status:        StatusInProgress,
			Phase:         PhaseEmployee,
			CurrentStep:   FirstStepOf(PhaseEmployee),
			ExpiresAt:     token.ExpiryAfter(now, hours),
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		result, err := s.repo.Create(txCtx, session)
		if err != nil {
			return err
		}

		if err := s.employees.UpdateOnboardingStatus(txCtx, employeeID, employee.OnboardingInProgress, now); err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		SessionID: created.ID,
		Action:    "onboarding_initiated",
		UserID:    managerID,
		Details: map[string]any{
			"application_id": applicationID,
			"employee_id":    employeeID,
			"expires_at":     created.ExpiresAt,
		},
		CreatedAt: s.clock.Now(),
	})
	s.notifier.Notify(ctx, Notification{
		Event:      EventInvitationSent,
		SessionID:  created.ID,
		EmployeeID: employeeID,
		Recipient:  employeeID,
	})

	return created, nil
}

// GetSessionByToken はトークンでセッションを取得します。失効済みのセッションは
// 読み取り時に expired へ遷移させた上で ErrSessionExpired を返します。
func (s *Service) GetSessionByToken(ctx context.Context, tok string) (*Session, error) {
	trimmed := strings.TrimSpace(tok)
	if trimmed == "" {
		return nil, ErrInvalidToken
	}

	session, err := s.repo.FindByToken(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	return s.resolveExpiry(ctx, session)
}

// GetSessionByID は ID でセッションを取得します。遅延失効は GetSessionByToken と同様です。
func (s *Service) GetSessionByID(ctx context.Context, id string) (*Session, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, ErrInvalidID
	}

	session, err := s.repo.FindByID(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	return s.resolveExpiry(ctx, session)
}

// UpdateStepProgress はステップ完了を記録します。提出内容は専用テーブルへ保存し、
// 完了したステップがフェーズの最終ステップであれば対応するフェーズ遷移を起動します。
func (s *Service) UpdateStepProgress(ctx context.Context, in UpdateStepInput) (*Session, error) {
	sessionID, err := requireID(in.SessionID, ErrInvalidID)
	if err != nil {
		return nil, err
	}
	if _, err := PhaseOf(in.Step); err != nil {
		return nil, err
	}

	session, err := s.loadActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !StepBelongs(session.Phase, in.Step) {
		return nil, ErrStepNotInPhase
	}

	var updated *Session
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()

		if err := s.submissions.Upsert(txCtx, &StepSubmission{
			SessionID:     session.ID,
			Step:          in.Step,
			FormData:      in.FormData,
			SignatureData: in.SignatureData,
			SubmittedAt:   now,
		}); err != nil {
			return err
		}

		session.CurrentStep = in.Step
		session.UpdatedAt = now

		result, err := s.repo.Update(txCtx, session)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		SessionID: updated.ID,
		Action:    "step_completed",
		UserID:    strings.TrimSpace(in.ActorID),
		Details:   map[string]any{"step": string(in.Step), "phase": string(updated.Phase)},
		CreatedAt: s.clock.Now(),
	})

	if IsLastStep(updated.Phase, in.Step) {
		switch updated.Phase {
		case PhaseEmployee:
			return s.CompleteEmployeePhase(ctx, updated.ID)
		case PhaseManager:
			return s.CompleteManagerPhase(ctx, updated.ID)
		}
		// HR フェーズの最終ステップでは自動遷移しません。承認は ApproveOnboarding で行います。
	}

	return updated, nil
}

// CompleteEmployeePhase は従業員フェーズを完了し、マネージャーレビューへ進めます。
func (s *Service) CompleteEmployeePhase(ctx context.Context, sessionID string) (*Session, error) {
	return s.advancePhase(ctx, sessionID, StatusInProgress, advanceTarget{
		status:        StatusManagerReview,
		phase:         PhaseManager,
		mirror:        employee.OnboardingManagerReview,
		action:        "employee_phase_completed",
		event:         EventManagerReviewDue,
		recipientFrom: func(sess *Session) string { return sess.ManagerID },
	})
}

// CompleteManagerPhase はマネージャーフェーズを完了し、HR 承認へ進めます。
func (s *Service) CompleteManagerPhase(ctx context.Context, sessionID string) (*Session, error) {
	return s.advancePhase(ctx, sessionID, StatusManagerReview, advanceTarget{
		status:        StatusHRApproval,
		phase:         PhaseHR,
		mirror:        employee.OnboardingHRApproval,
		action:        "manager_phase_completed",
		event:         EventHRApprovalDue,
		recipientFrom: func(*Session) string { return "hr" },
	})
}

type advanceTarget struct {
	status        Status
	phase         Phase
	mirror        employee.OnboardingStatus
	action        string
	event         string
	recipientFrom func(*Session) string
}

func (s *Service) advancePhase(ctx context.Context, sessionID string, from Status, target advanceTarget) (*Session, error) {
	id, err := requireID(sessionID, ErrInvalidID)
	if err != nil {
		return nil, err
	}

	session, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Status != from {
		return nil, ErrInvalidTransition
	}

	var updated *Session
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		session.Status = target.status
		session.Phase = target.phase
		session.CurrentStep = FirstStepOf(target.phase)
		session.UpdatedAt = now

		result, err := s.repo.Update(txCtx, session)
		if err != nil {
			return err
		}

		if err := s.employees.UpdateOnboardingStatus(txCtx, session.EmployeeID, target.mirror, now); err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		SessionID: updated.ID,
		Action:    target.action,
		Details:   map[string]any{"phase": string(updated.Phase), "status": string(updated.Status)},
		CreatedAt: s.clock.Now(),
	})
	s.notifier.Notify(ctx, Notification{
		Event:      target.event,
		SessionID:  updated.ID,
		EmployeeID: updated.EmployeeID,
		Recipient:  target.recipientFrom(updated),
	})

	return updated, nil
}

// ApproveOnboarding はセッションを承認して確定します。一方向の遷移です。
func (s *Service) ApproveOnboarding(ctx context.Context, sessionID, approvedBy string) (*Session, error) {
	return s.decide(ctx, sessionID, decision{
		actor:  approvedBy,
		status: StatusApproved,
		mirror: employee.OnboardingApproved,
		action: "approved",
	})
}

// RejectOnboarding はセッションを却下して確定します。理由の指定が必須です。
func (s *Service) RejectOnboarding(ctx context.Context, sessionID, rejectedBy, reason string) (*Session, error) {
	trimmedReason := strings.TrimSpace(reason)
	if trimmedReason == "" {
		return nil, ErrInvalidReason
	}
	return s.decide(ctx, sessionID, decision{
		actor:  rejectedBy,
		status: StatusRejected,
		mirror: employee.OnboardingRejected,
		action: "rejected",
		reason: trimmedReason,
	})
}

type decision struct {
	actor  string
	status Status
	mirror employee.OnboardingStatus
	action string
	reason string
}

func (s *Service) decide(ctx context.Context, sessionID string, d decision) (*Session, error) {
	id, err := requireID(sessionID, ErrInvalidID)
	if err != nil {
		return nil, err
	}
	actor, err := requireID(d.actor, ErrInvalidActor)
	if err != nil {
		return nil, err
	}

	session, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *Session
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		session.Status = d.status
		session.UpdatedAt = now

		switch d.status {
		case StatusApproved:
			session.ApprovedBy = &actor
			approvedAt := now
			session.ApprovedAt = &approvedAt
		case StatusRejected:
			session.RejectedBy = &actor
			rejectedAt := now
			session.RejectedAt = &rejectedAt
			reason := d.reason
			session.RejectionReason = &reason
		}

		result, err := s.repo.Update(txCtx, session)
		if err != nil {
			return err
		}

		if err := s.employees.UpdateOnboardingStatus(txCtx, session.EmployeeID, d.mirror, now); err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	details := map[string]any{"status": string(updated.Status)}
	if d.reason != "" {
		details["reason"] = d.reason
	}
	s.audit.Record(ctx, audit.Entry{
		SessionID: updated.ID,
		Action:    d.action,
		UserID:    actor,
		Details:   details,
		CreatedAt: s.clock.Now(),
	})
	s.notifier.Notify(ctx, Notification{
		Event:      EventOnboardingOutcome,
		SessionID:  updated.ID,
		EmployeeID: updated.EmployeeID,
		Recipient:  updated.EmployeeID,
	})

	return updated, nil
}

// PendingManagerReviews は指定マネージャー宛のレビュー待ちセッションを返します。
func (s *Service) PendingManagerReviews(ctx context.Context, managerID string) ([]*Session, error) {
	id, err := requireID(managerID, ErrInvalidManagerID)
	if err != nil {
		return nil, err
	}

	var sessions []*Session
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ListByManagerAndStatus(txCtx, id, StatusManagerReview)
		if err != nil {
			return err
		}
		sessions = result
		return nil
	}); err != nil {
		return nil, err
	}
	return sessions, nil
}

// PendingHRApprovals は HR 承認待ちのセッションを返します。
func (s *Service) PendingHRApprovals(ctx context.Context) ([]*Session, error) {
	var sessions []*Session
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ListByStatus(txCtx, StatusHRApproval)
		if err != nil {
			return err
		}
		sessions = result
		return nil
	}); err != nil {
		return nil, err
	}
	return sessions, nil
}

// loadActive はセッションを取得し、遅延失効と終端状態の検査を行います。
func (s *Service) loadActive(ctx context.Context, id string) (*Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolveExpiry(ctx, session)
	if err != nil {
		return nil, err
	}
	if !resolved.IsActive() {
		return nil, ErrSessionTerminal
	}
	return resolved, nil
}

// resolveExpiry は遅延失効を適用します。失効を検知した場合は expired への遷移を
// 永続化した上で ErrSessionExpired を返します。approved/rejected 済みのセッションは
// 失効時刻を過ぎていても確定結果を保ちます。
func (s *Service) resolveExpiry(ctx context.Context, session *Session) (*Session, error) {
	if session.Status == StatusExpired {
		return nil, ErrSessionExpired
	}
	if !session.IsActive() || !session.IsExpired(s.clock.Now()) {
		return session, nil
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		session.Status = StatusExpired
		session.UpdatedAt = now

		if _, err := s.repo.Update(txCtx, session); err != nil {
			return err
		}
		return s.employees.UpdateOnboardingStatus(txCtx, session.EmployeeID, employee.OnboardingExpired, now)
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		SessionID: session.ID,
		Action:    "session_expired",
		Details:   map[string]any{"expires_at": session.ExpiresAt},
		CreatedAt: s.clock.Now(),
	})

	return nil, ErrSessionExpired
}

func requireID(raw string, sentinel error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", sentinel
	}
	return trimmed, nil
}
