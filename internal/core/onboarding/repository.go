package onboarding

import (
	"context"
	"time"
)

// Repository はオンボーディングセッションの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, session *Session) (*Session, error)
	Update(ctx context.Context, session *Session) (*Session, error)
	FindByID(ctx context.Context, id string) (*Session, error)
	FindByToken(ctx context.Context, token string) (*Session, error)
	ListByManagerAndStatus(ctx context.Context, managerID string, status Status) ([]*Session, error)
	ListByStatus(ctx context.Context, status Status) ([]*Session, error)
}

// StepSubmission はステップ完了時に提出されたフォーム内容です。
// セッション本体とは別テーブルに保存されます。
type StepSubmission struct {
	SessionID     string
	Step          Step
	FormData      map[string]any
	SignatureData string
	SubmittedAt   time.Time
}

// SubmissionStore はステップ提出内容の永続化を行うインターフェースです。
// 同一セッション・同一ステップへの再提出は上書きになります。
type SubmissionStore interface {
	Upsert(ctx context.Context, submission *StepSubmission) error
	ListBySession(ctx context.Context, sessionID string) ([]*StepSubmission, error)
}
