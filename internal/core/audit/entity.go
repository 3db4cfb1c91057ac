package audit

import (
	"context"
	"time"
)

// Entry は状態遷移 1 件に対応する監査レコードです。追記専用で、
// 作成後に更新・削除されることはありません。
type Entry struct {
	ID        string
	SessionID string
	Action    string
	UserID    string
	Details   map[string]any
	CreatedAt time.Time
}

// Store は監査レコードの永続化を行うインターフェースです。
type Store interface {
	Create(ctx context.Context, entry *Entry) error
	ListBySession(ctx context.Context, sessionID string) ([]*Entry, error)
}
