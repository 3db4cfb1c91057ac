package formupdate

import "context"

// Repository はフォーム更新セッションの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, session *Session) (*Session, error)
	Update(ctx context.Context, session *Session) (*Session, error)
	FindByID(ctx context.Context, id string) (*Session, error)
	FindByToken(ctx context.Context, token string) (*Session, error)
	// ListByEmployee は completed の真偽で完了済み・未完了を切り替えて一覧します。
	ListByEmployee(ctx context.Context, employeeID string, completed bool) ([]*Session, error)
}
