package formupdate

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gramv/onbdev-sub001/internal/core/audit"
	"github.com/gramv/onbdev-sub001/internal/core/employee"
	"github.com/gramv/onbdev-sub001/internal/core/token"
)

// DefaultExpiresHours は更新リンクの既定の有効時間です。
const DefaultExpiresHours = 48

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TokenSource は更新トークンを生成します。
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

// UseCase はフォーム更新フローの公開インターフェースです。
type UseCase interface {
	GenerateUpdateLink(ctx context.Context, in GenerateInput) (*Session, error)
	GetSessionByToken(ctx context.Context, tok string) (*Session, error)
	SubmitFormUpdate(ctx context.Context, in SubmitInput) (*Session, error)
	PendingUpdatesForEmployee(ctx context.Context, employeeID string) ([]*Session, error)
	CompletedUpdatesForEmployee(ctx context.Context, employeeID string) ([]*Session, error)
}

// Service はフォーム更新セッションのユースケースをまとめます。
//
// 方針: 提出と同時に従業員レコードへ反映します。マネージャー/HR の事後承認
// ゲートは設けません(DESIGN.md の Open Question 判断を参照)。
type Service struct {
	repo      Repository
	employees employee.Repository
	audit     *audit.Recorder
	clock     Clock
	tokens    TokenSource
	tx        TransactionManager
}

// NewService は Service を生成します。nil の依存には既定実装を補います。
func NewService(
	repo Repository,
	employees employee.Repository,
	recorder *audit.Recorder,
	clock Clock,
	tokens TokenSource,
	tx TransactionManager,
) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tokens == nil {
		tokens = token.New
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, employees: employees, audit: recorder, clock: clock, tokens: tokens, tx: tx}
}

// GenerateInput は更新リンク発行時の入力です。
type GenerateInput struct {
	EmployeeID   string
	FormType     employee.FormType
	RequestedBy  string
	ExpiresHours int
}

// SubmitInput はフォーム更新提出時の入力です。
type SubmitInput struct {
	SessionID     string
	UpdatedData   map[string]any
	SignatureData string
}

// GenerateUpdateLink は従業員向けのフォーム更新リンクを発行します。
// 発行時に現在のフォーム内容をスナップショットとして保存します。
// 従業員レコード自体は変更しません。
func (s *Service) GenerateUpdateLink(ctx context.Context, in GenerateInput) (*Session, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}
	requestedBy := strings.TrimSpace(in.RequestedBy)
	if requestedBy == "" {
		return nil, ErrInvalidRequester
	}

	accessor, err := employee.AccessorFor(in.FormType)
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
		emp, err := s.employees.FindByID(txCtx, employeeID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		session := &Session{
			UpdateToken: s.tokens(),
			EmployeeID:  employeeID,
			RequestedBy: requestedBy,
			FormType:    in.FormType,
			CurrentData: employee.CloneFormData(accessor.Get(emp)),
			Status:      StatusPending,
			ExpiresAt:   token.ExpiryAfter(now, hours),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		result, err := s.repo.Create(txCtx, session)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		SessionID: created.ID,
		Action:    "form_update_requested",
		UserID:    requestedBy,
		Details: map[string]any{
			"employee_id": employeeID,
			"form_type":   string(in.FormType),
			"expires_at":  created.ExpiresAt,
		},
		CreatedAt: s.clock.Now(),
	})

	return created, nil
}

// GetSessionByToken はトークンでセッションを取得します。遅延失効はオンボーディング
// セッションと同じ規則です。
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

// SubmitFormUpdate は更新内容を一度だけ受理し、従業員レコードへマージ反映します。
// completed/expired のセッションへの再提出は状態を変えずに失敗します。
func (s *Service) SubmitFormUpdate(ctx context.Context, in SubmitInput) (*Session, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidID
	}
	if len(in.UpdatedData) == 0 {
		return nil, ErrEmptyUpdate
	}

	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == StatusCompleted {
		return nil, ErrSessionCompleted
	}
	if _, err := s.resolveExpiry(ctx, session); err != nil {
		return nil, err
	}

	signature := strings.TrimSpace(in.SignatureData)
	if employee.RequiresSignature(session.FormType) && signature == "" {
		return nil, ErrSignatureRequired
	}

	accessor, err := employee.AccessorFor(session.FormType)
	if err != nil {
		return nil, err
	}

	var updated *Session
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.employees.FindByID(txCtx, session.EmployeeID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		completedAt := now
		session.UpdatedData = employee.CloneFormData(in.UpdatedData)
		session.SignatureData = signature
		session.CompletedAt = &completedAt
		session.Status = StatusCompleted
		session.UpdatedAt = now

		result, err := s.repo.Update(txCtx, session)
		if err != nil {
			return err
		}

		merged := employee.MergeFormData(accessor.Get(emp), in.UpdatedData)
		if err := s.employees.UpdateFormData(txCtx, session.EmployeeID, session.FormType, merged, now); err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		SessionID: updated.ID,
		Action:    "form_update_completed",
		UserID:    updated.EmployeeID,
		Details: map[string]any{
			"form_type":     string(updated.FormType),
			"updated_keys":  sortedKeys(in.UpdatedData),
			"has_signature": signature != "",
		},
		CreatedAt: s.clock.Now(),
	})

	return updated, nil
}

// PendingUpdatesForEmployee は未提出の更新セッションを返します。
func (s *Service) PendingUpdatesForEmployee(ctx context.Context, employeeID string) ([]*Session, error) {
	return s.listByEmployee(ctx, employeeID, false)
}

// CompletedUpdatesForEmployee は提出済みの更新セッションを返します。
func (s *Service) CompletedUpdatesForEmployee(ctx context.Context, employeeID string) ([]*Session, error) {
	return s.listByEmployee(ctx, employeeID, true)
}

func (s *Service) listByEmployee(ctx context.Context, employeeID string, completed bool) ([]*Session, error) {
	trimmed := strings.TrimSpace(employeeID)
	if trimmed == "" {
		return nil, ErrInvalidEmployeeID
	}

	var sessions []*Session
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ListByEmployee(txCtx, trimmed, completed)
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

// resolveExpiry は遅延失効を適用します。失効を検知した場合は expired への遷移を
// 永続化した上で ErrSessionExpired を返します。
func (s *Service) resolveExpiry(ctx context.Context, session *Session) (*Session, error) {
	if session.Status == StatusExpired {
		return nil, ErrSessionExpired
	}
	if session.Status != StatusPending || !session.IsExpired(s.clock.Now()) {
		return session, nil
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		session.Status = StatusExpired
		session.UpdatedAt = s.clock.Now()
		_, err := s.repo.Update(txCtx, session)
		return err
	}); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		SessionID: session.ID,
		Action:    "form_update_expired",
		Details:   map[string]any{"expires_at": session.ExpiresAt},
		CreatedAt: s.clock.Now(),
	})

	return nil, ErrSessionExpired
}

func sortedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
