package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder は監査レコードの追記を行います。書き込み失敗はログに残すのみで、
// 呼び出し元のワークフロー遷移を妨げません。監査ログが完全であることは
// 保証されない点に注意してください。
type Recorder struct {
	store  Store
	logger *zap.Logger
}

// NewRecorder は Recorder を生成します。
func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, logger: logger}
}

// Record は監査レコードを 1 件追記します。ID と CreatedAt が未設定の場合は補完します。
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil || r.store == nil {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := r.store.Create(ctx, &entry); err != nil {
		r.logger.Error("audit entry write failed",
			zap.String("session_id", entry.SessionID),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}
