package postgres

import (
	"context"
	"time"

	"github.com/gramv/onbdev-sub001/internal/core/audit"
	pgdb "github.com/gramv/onbdev-sub001/internal/platform/db/postgres"
)

// AuditStore は PostgreSQL を利用した監査レコードの実装です。追記のみで、
// UPDATE や DELETE は発行しません。
type AuditStore struct {
	pool pgdb.Queryer
}

// NewAuditStore は AuditStore を生成します。
func NewAuditStore(pool pgdb.Queryer) *AuditStore {
	return &AuditStore{pool: pool}
}

// Create は監査レコードを 1 件追記します。
func (s *AuditStore) Create(ctx context.Context, entry *audit.Entry) error {
	details, err := jsonbValue(entry.Details)
	if err != nil {
		return err
	}

	exec := pgdb.QueryerFromContext(ctx, s.pool)
	_, err = exec.Exec(ctx, `
        INSERT INTO audit_entries (id, session_id, action, user_id, details, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID,
		entry.SessionID,
		entry.Action,
		entry.UserID,
		details,
		entry.CreatedAt,
	)
	return err
}

// ListBySession はセッションの監査レコードを作成順で返します。
func (s *AuditStore) ListBySession(ctx context.Context, sessionID string) ([]*audit.Entry, error) {
	exec := pgdb.QueryerFromContext(ctx, s.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, session_id, action, user_id, details, created_at
          FROM audit_entries
         WHERE session_id = $1
         ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		var (
			entry      audit.Entry
			rawDetails []byte
			createdAt  time.Time
		)
		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Action, &entry.UserID, &rawDetails, &createdAt); err != nil {
			return nil, err
		}

		details, err := unmarshalJSONB(rawDetails)
		if err != nil {
			return nil, err
		}
		entry.Details = details
		entry.CreatedAt = createdAt.UTC()
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
