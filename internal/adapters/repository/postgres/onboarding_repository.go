package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gramv/onbdev-sub001/internal/core/onboarding"
	pgdb "github.com/gramv/onbdev-sub001/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

const onboardingSessionColumns = `
        id, token, application_id, employee_id, property_id, manager_id,
        status, phase, current_step,
        approved_by, approved_at, rejected_by, rejected_at, rejection_reason,
        expires_at, created_at, updated_at`

// OnboardingSessionRepository は PostgreSQL を利用したオンボーディングセッション永続化の実装です。
type OnboardingSessionRepository struct {
	pool pgdb.Queryer
}

// NewOnboardingSessionRepository は OnboardingSessionRepository を生成します。
func NewOnboardingSessionRepository(pool pgdb.Queryer) *OnboardingSessionRepository {
	return &OnboardingSessionRepository{pool: pool}
}

// Create はセッションを新規作成します。ID はデータベース側で採番されます。
func (r *OnboardingSessionRepository) Create(ctx context.Context, s *onboarding.Session) (*onboarding.Session, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO onboarding_sessions (
            token, application_id, employee_id, property_id, manager_id,
            status, phase, current_step, expires_at, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING`+onboardingSessionColumns,
		s.Token,
		s.ApplicationID,
		s.EmployeeID,
		s.PropertyID,
		s.ManagerID,
		string(s.Status),
		string(s.Phase),
		string(s.CurrentStep),
		s.ExpiresAt,
		s.CreatedAt,
		s.UpdatedAt,
	)

	created, err := scanOnboardingSession(row)
	if err != nil {
		return nil, translateOnboardingPgError(err)
	}
	return created, nil
}

// Update はセッションの可変フィールドを更新します。
func (r *OnboardingSessionRepository) Update(ctx context.Context, s *onboarding.Session) (*onboarding.Session, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE onboarding_sessions
           SET status = $1,
               phase = $2,
               current_step = $3,
               approved_by = $4,
               approved_at = $5,
               rejected_by = $6,
               rejected_at = $7,
               rejection_reason = $8,
               updated_at = $9
         WHERE id = $10
        RETURNING`+onboardingSessionColumns,
		string(s.Status),
		string(s.Phase),
		string(s.CurrentStep),
		s.ApprovedBy,
		s.ApprovedAt,
		s.RejectedBy,
		s.RejectedAt,
		s.RejectionReason,
		s.UpdatedAt,
		s.ID,
	)

	updated, err := scanOnboardingSession(row)
	if err != nil {
		return nil, translateOnboardingPgError(err)
	}
	return updated, nil
}

// FindByID は ID でセッションを取得します。
func (r *OnboardingSessionRepository) FindByID(ctx context.Context, id string) (*onboarding.Session, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// FindByToken はトークンでセッションを取得します。
func (r *OnboardingSessionRepository) FindByToken(ctx context.Context, token string) (*onboarding.Session, error) {
	return r.findOne(ctx, `WHERE token = $1`, token)
}

func (r *OnboardingSessionRepository) findOne(ctx context.Context, where string, arg any) (*onboarding.Session, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+onboardingSessionColumns+`
          FROM onboarding_sessions
         `+where+`
         LIMIT 1`, arg)

	found, err := scanOnboardingSession(row)
	if err != nil {
		return nil, translateOnboardingPgError(err)
	}
	return found, nil
}

// ListByManagerAndStatus はマネージャーと状態で絞り込んだ一覧を返します。
func (r *OnboardingSessionRepository) ListByManagerAndStatus(ctx context.Context, managerID string, status onboarding.Status) ([]*onboarding.Session, error) {
	return r.list(ctx, `
        SELECT`+onboardingSessionColumns+`
          FROM onboarding_sessions
         WHERE manager_id = $1 AND status = $2
         ORDER BY created_at ASC`, managerID, string(status))
}

// ListByStatus は状態で絞り込んだ一覧を返します。
func (r *OnboardingSessionRepository) ListByStatus(ctx context.Context, status onboarding.Status) ([]*onboarding.Session, error) {
	return r.list(ctx, `
        SELECT`+onboardingSessionColumns+`
          FROM onboarding_sessions
         WHERE status = $1
         ORDER BY created_at ASC`, string(status))
}

func (r *OnboardingSessionRepository) list(ctx context.Context, query string, args ...any) ([]*onboarding.Session, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateOnboardingPgError(err)
	}
	defer rows.Close()

	var sessions []*onboarding.Session
	for rows.Next() {
		s, err := scanOnboardingSession(rows)
		if err != nil {
			return nil, translateOnboardingPgError(err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateOnboardingPgError(err)
	}
	return sessions, nil
}

func scanOnboardingSession(row pgx.Row) (*onboarding.Session, error) {
	var (
		id              string
		token           string
		applicationID   string
		employeeID      string
		propertyID      string
		managerID       string
		status          string
		phase           string
		currentStep     string
		approvedBy      sql.NullString
		approvedAt      sql.NullTime
		rejectedBy      sql.NullString
		rejectedAt      sql.NullTime
		rejectionReason sql.NullString
		expiresAt       time.Time
		createdAt       time.Time
		updatedAt       time.Time
	)

	if err := row.Scan(
		&id,
		&token,
		&applicationID,
		&employeeID,
		&propertyID,
		&managerID,
		&status,
		&phase,
		&currentStep,
		&approvedBy,
		&approvedAt,
		&rejectedBy,
		&rejectedAt,
		&rejectionReason,
		&expiresAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, onboarding.ErrSessionNotFound
		}
		return nil, err
	}

	return &onboarding.Session{
		ID:              id,
		Token:           token,
		ApplicationID:   applicationID,
		EmployeeID:      employeeID,
		PropertyID:      propertyID,
		ManagerID:       managerID,
		Status:          onboarding.Status(status),
		Phase:           onboarding.Phase(phase),
		CurrentStep:     onboarding.Step(currentStep),
		ApprovedBy:      nullableString(approvedBy),
		ApprovedAt:      nullableUTC(approvedAt),
		RejectedBy:      nullableString(rejectedBy),
		RejectedAt:      nullableUTC(rejectedAt),
		RejectionReason: nullableString(rejectionReason),
		ExpiresAt:       expiresAt.UTC(),
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       updatedAt.UTC(),
	}, nil
}

func translateOnboardingPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return onboarding.ErrSessionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return onboarding.ErrDuplicateToken
		case foreignKeyViolationCode:
			return onboarding.ErrInvalidEmployeeID
		}
	}

	return err
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableUTC(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
