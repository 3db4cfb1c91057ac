// Package notify はワークフロー通知の配送アダプタを提供します。
// 現状はログへの書き出しのみで、メール等の配送系は外部コンポーネントが
// このログイベントを購読して行います。
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/gramv/onbdev-sub001/internal/core/onboarding"
)

// LogNotifier は通知イベントを構造化ログとして書き出す Notifier 実装です。
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier は LogNotifier を生成します。
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify は通知内容をログへ書き出します。
func (n *LogNotifier) Notify(_ context.Context, notification onboarding.Notification) {
	n.logger.Info("workflow notification",
		zap.String("event", notification.Event),
		zap.String("session_id", notification.SessionID),
		zap.String("employee_id", notification.EmployeeID),
		zap.String("recipient", notification.Recipient),
	)
}
