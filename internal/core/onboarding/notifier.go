package onboarding

import "context"

// 通知イベントの種別です。配送手段はアダプタ側の責務です。
const (
	EventInvitationSent    = "onboarding_invitation"
	EventManagerReviewDue  = "manager_review_requested"
	EventHRApprovalDue     = "hr_approval_requested"
	EventOnboardingOutcome = "onboarding_decided"
)

// Notification はワークフロー遷移に伴う通知内容です。
type Notification struct {
	Event      string
	SessionID  string
	EmployeeID string
	Recipient  string
}

// Notifier は通知配送の抽象です。配送失敗がワークフローを止めることはありません。
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) {}
