package onboarding

import "time"

// Status はオンボーディングセッションの状態を表します。
// in_progress → manager_review → hr_approval → {approved | rejected} と単調に進み、
// 非終端状態からは expired へも遷移します。終端状態からの復帰はありません。
type Status string

const (
	StatusInProgress    Status = "in_progress"
	StatusManagerReview Status = "manager_review"
	StatusHRApproval    Status = "hr_approval"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusExpired       Status = "expired"
)

// Phase はオンボーディングの段階を表します。Status と連動して進行します。
type Phase string

const (
	PhaseEmployee Phase = "employee"
	PhaseManager  Phase = "manager"
	PhaseHR       Phase = "hr"
)

// Session はオンボーディングセッションエンティティです。
// Token は未認証の従業員アクセスに使う推測不可能な値です。
type Session struct {
	ID    string
	Token string

	ApplicationID string
	EmployeeID    string
	PropertyID    string
	ManagerID     string

	Status      Status
	Phase       Phase
	CurrentStep Step

	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectedBy      *string
	RejectedAt      *time.Time
	RejectionReason *string

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired は失効時刻を過ぎているかどうかを返します。
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsActive はセッションが変更可能な状態かどうかを返します。
func (s *Session) IsActive() bool {
	switch s.Status {
	case StatusInProgress, StatusManagerReview, StatusHRApproval:
		return true
	default:
		return false
	}
}

// IsTerminal は approve/reject/expire のいずれかで確定済みかどうかを返します。
func (s *Session) IsTerminal() bool {
	switch s.Status {
	case StatusApproved, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}
