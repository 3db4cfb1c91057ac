package formupdate

import (
	"time"

	"github.com/gramv/onbdev-sub001/internal/core/employee"
)

// Status はフォーム更新セッションの状態を表します。
// pending → completed、または pending → expired の一方向のみです。
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Session は提出済みフォーム 1 件を帯域外で修正するための短命セッションです。
// CurrentData は作成時点のスナップショットで、差分確認のために保持します。
// UpdatedData は提出時に一度だけ書き込まれます。
type Session struct {
	ID          string
	UpdateToken string

	EmployeeID  string
	RequestedBy string
	FormType    employee.FormType

	CurrentData   map[string]any
	UpdatedData   map[string]any
	SignatureData string

	Status      Status
	CompletedAt *time.Time

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired は失効時刻を過ぎているかどうかを返します。
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
