package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gramv/onbdev-sub001/internal/core/employee"
	"github.com/gramv/onbdev-sub001/internal/core/formupdate"
	pgdb "github.com/gramv/onbdev-sub001/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const formUpdateSessionColumns = `
        id, update_token, employee_id, requested_by, form_type,
        current_data, updated_data, signature_data,
        status, completed_at, expires_at, created_at, updated_at`

// FormUpdateSessionRepository は PostgreSQL を利用したフォーム更新セッション永続化の実装です。
type FormUpdateSessionRepository struct {
	pool pgdb.Queryer
}

// NewFormUpdateSessionRepository は FormUpdateSessionRepository を生成します。
func NewFormUpdateSessionRepository(pool pgdb.Queryer) *FormUpdateSessionRepository {
	return &FormUpdateSessionRepository{pool: pool}
}

// Create はセッションを新規作成します。ID はデータベース側で採番されます。
func (r *FormUpdateSessionRepository) Create(ctx context.Context, s *formupdate.Session) (*formupdate.Session, error) {
	currentData, err := jsonbValue(s.CurrentData)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO form_update_sessions (
            update_token, employee_id, requested_by, form_type,
            current_data, status, expires_at, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING`+formUpdateSessionColumns,
		s.UpdateToken,
		s.EmployeeID,
		s.RequestedBy,
		string(s.FormType),
		currentData,
		string(s.Status),
		s.ExpiresAt,
		s.CreatedAt,
		s.UpdatedAt,
	)

	created, err := scanFormUpdateSession(row)
	if err != nil {
		return nil, translateFormUpdatePgError(err)
	}
	return created, nil
}

// Update はセッションの可変フィールドを更新します。
func (r *FormUpdateSessionRepository) Update(ctx context.Context, s *formupdate.Session) (*formupdate.Session, error) {
	updatedData, err := jsonbValue(s.UpdatedData)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE form_update_sessions
           SET updated_data = $1,
               signature_data = $2,
               status = $3,
               completed_at = $4,
               updated_at = $5
         WHERE id = $6
        RETURNING`+formUpdateSessionColumns,
		updatedData,
		s.SignatureData,
		string(s.Status),
		s.CompletedAt,
		s.UpdatedAt,
		s.ID,
	)

	updated, err := scanFormUpdateSession(row)
	if err != nil {
		return nil, translateFormUpdatePgError(err)
	}
	return updated, nil
}

// FindByID は ID でセッションを取得します。
func (r *FormUpdateSessionRepository) FindByID(ctx context.Context, id string) (*formupdate.Session, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// FindByToken は更新トークンでセッションを取得します。
func (r *FormUpdateSessionRepository) FindByToken(ctx context.Context, token string) (*formupdate.Session, error) {
	return r.findOne(ctx, `WHERE update_token = $1`, token)
}

func (r *FormUpdateSessionRepository) findOne(ctx context.Context, where string, arg any) (*formupdate.Session, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+formUpdateSessionColumns+`
          FROM form_update_sessions
         `+where+`
         LIMIT 1`, arg)

	found, err := scanFormUpdateSession(row)
	if err != nil {
		return nil, translateFormUpdatePgError(err)
	}
	return found, nil
}

// ListByEmployee は従業員に紐づくセッションを completed の真偽で絞り込んで返します。
func (r *FormUpdateSessionRepository) ListByEmployee(ctx context.Context, employeeID string, completed bool) ([]*formupdate.Session, error) {
	status := formupdate.StatusPending
	if completed {
		status = formupdate.StatusCompleted
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+formUpdateSessionColumns+`
          FROM form_update_sessions
         WHERE employee_id = $1 AND status = $2
         ORDER BY created_at ASC`, employeeID, string(status))
	if err != nil {
		return nil, translateFormUpdatePgError(err)
	}
	defer rows.Close()

	var sessions []*formupdate.Session
	for rows.Next() {
		s, err := scanFormUpdateSession(rows)
		if err != nil {
			return nil, translateFormUpdatePgError(err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateFormUpdatePgError(err)
	}
	return sessions, nil
}

func scanFormUpdateSession(row pgx.Row) (*formupdate.Session, error) {
	var (
		id             string
		updateToken    string
		employeeID     string
		requestedBy    string
		formType       string
		rawCurrentData []byte
		rawUpdatedData []byte
		signatureData  sql.NullString
		status         string
		completedAt    sql.NullTime
		expiresAt      time.Time
		createdAt      time.Time
		updatedAt      time.Time
	)

	if err := row.Scan(
		&id,
		&updateToken,
		&employeeID,
		&requestedBy,
		&formType,
		&rawCurrentData,
		&rawUpdatedData,
		&signatureData,
		&status,
		&completedAt,
		&expiresAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, formupdate.ErrSessionNotFound
		}
		return nil, err
	}

	currentData, err := unmarshalJSONB(rawCurrentData)
	if err != nil {
		return nil, err
	}
	updatedData, err := unmarshalJSONB(rawUpdatedData)
	if err != nil {
		return nil, err
	}

	return &formupdate.Session{
		ID:            id,
		UpdateToken:   updateToken,
		EmployeeID:    employeeID,
		RequestedBy:   requestedBy,
		FormType:      employee.FormType(formType),
		CurrentData:   currentData,
		UpdatedData:   updatedData,
		SignatureData: signatureData.String,
		Status:        formupdate.Status(status),
		CompletedAt:   nullableUTC(completedAt),
		ExpiresAt:     expiresAt.UTC(),
		CreatedAt:     createdAt.UTC(),
		UpdatedAt:     updatedAt.UTC(),
	}, nil
}

func translateFormUpdatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return formupdate.ErrSessionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return formupdate.ErrDuplicateToken
		case foreignKeyViolationCode:
			return formupdate.ErrInvalidEmployeeID
		}
	}

	return err
}
