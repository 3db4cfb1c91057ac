package postgres

import (
	"context"
	"time"

	"github.com/gramv/onbdev-sub001/internal/core/onboarding"
	pgdb "github.com/gramv/onbdev-sub001/internal/platform/db/postgres"
)

// StepSubmissionStore は PostgreSQL を利用したステップ提出内容の実装です。
// 同一セッション・同一ステップへの再提出は上書き(後勝ち)になります。
type StepSubmissionStore struct {
	pool pgdb.Queryer
}

// NewStepSubmissionStore は StepSubmissionStore を生成します。
func NewStepSubmissionStore(pool pgdb.Queryer) *StepSubmissionStore {
	return &StepSubmissionStore{pool: pool}
}

// Upsert は提出内容を保存します。
func (s *StepSubmissionStore) Upsert(ctx context.Context, sub *onboarding.StepSubmission) error {
	formData, err := jsonbValue(sub.FormData)
	if err != nil {
		return err
	}

	exec := pgdb.QueryerFromContext(ctx, s.pool)
	_, err = exec.Exec(ctx, `
        INSERT INTO step_submissions (session_id, step, form_data, signature_data, submitted_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (session_id, step)
        DO UPDATE SET form_data = EXCLUDED.form_data,
                      signature_data = EXCLUDED.signature_data,
                      submitted_at = EXCLUDED.submitted_at`,
		sub.SessionID,
		string(sub.Step),
		formData,
		sub.SignatureData,
		sub.SubmittedAt,
	)
	if err != nil {
		return translateOnboardingPgError(err)
	}
	return nil
}

// ListBySession はセッションの提出内容一覧を返します。
func (s *StepSubmissionStore) ListBySession(ctx context.Context, sessionID string) ([]*onboarding.StepSubmission, error) {
	exec := pgdb.QueryerFromContext(ctx, s.pool)
	rows, err := exec.Query(ctx, `
        SELECT session_id, step, form_data, signature_data, submitted_at
          FROM step_submissions
         WHERE session_id = $1
         ORDER BY submitted_at ASC`, sessionID)
	if err != nil {
		return nil, translateOnboardingPgError(err)
	}
	defer rows.Close()

	var submissions []*onboarding.StepSubmission
	for rows.Next() {
		var (
			sub         onboarding.StepSubmission
			step        string
			rawFormData []byte
			submittedAt time.Time
		)
		if err := rows.Scan(&sub.SessionID, &step, &rawFormData, &sub.SignatureData, &submittedAt); err != nil {
			return nil, translateOnboardingPgError(err)
		}

		formData, err := unmarshalJSONB(rawFormData)
		if err != nil {
			return nil, err
		}
		sub.Step = onboarding.Step(step)
		sub.FormData = formData
		sub.SubmittedAt = submittedAt.UTC()
		submissions = append(submissions, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, translateOnboardingPgError(err)
	}
	return submissions, nil
}
