package employee

import "time"

// OnboardingStatus は従業員のオンボーディング進捗を表します。
// オンボーディングセッションの状態遷移に合わせてミラー更新されます。
type OnboardingStatus string

const (
	OnboardingNotStarted    OnboardingStatus = "not_started"
	OnboardingInProgress    OnboardingStatus = "in_progress"
	OnboardingManagerReview OnboardingStatus = "manager_review"
	OnboardingHRApproval    OnboardingStatus = "hr_approval"
	OnboardingApproved      OnboardingStatus = "approved"
	OnboardingRejected      OnboardingStatus = "rejected"
	OnboardingExpired       OnboardingStatus = "expired"
)

// Employee は従業員エンティティです。
// フォームごとの提出内容は JSONB ドキュメントとして保持します。
type Employee struct {
	ID               string
	PropertyID       string
	ManagerID        string
	FirstName        string
	LastName         string
	Email            string
	Position         string
	OnboardingStatus OnboardingStatus

	PersonalInfo      map[string]any
	W4Data            map[string]any
	DirectDeposit     map[string]any
	HealthInsurance   map[string]any
	EmergencyContacts map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}
