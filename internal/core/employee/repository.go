package employee

import (
	"context"
	"time"
)

// Repository は従業員レコードの永続化を行うインターフェースです。
// 従業員の作成は応募受付側のコンポーネントが担うため、ここでは参照と
// オンボーディングに伴う更新のみを公開します。
type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
	UpdateOnboardingStatus(ctx context.Context, id string, status OnboardingStatus, updatedAt time.Time) error
	UpdateFormData(ctx context.Context, id string, formType FormType, data map[string]any, updatedAt time.Time) error
}
