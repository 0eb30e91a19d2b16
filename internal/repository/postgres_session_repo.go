package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/smarttime/internal/model"
)

// PostgresSessionRepo はPostgreSQLを使用したセッションリポジトリ。
// 値はsessions.dataのJSONBオブジェクトに保持する。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// Create はセッションを作成する。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	values := session.Values
	if values == nil {
		values = map[string]string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode session data: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, data, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)`,
		session.ID, data, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	session := &model.Session{}
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, data, expires_at, created_at
		 FROM sessions
		 WHERE id = $1 AND expires_at > now()`,
		id,
	).Scan(&session.ID, &data, &session.ExpiresAt, &session.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	session.Values = map[string]string{}
	if err := json.Unmarshal(data, &session.Values); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	return session, nil
}

// SetValue はセッションにキーと値を保存する。
func (r *PostgresSessionRepo) SetValue(ctx context.Context, id, key, value string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		 SET data = jsonb_set(data, ARRAY[$2::text], to_jsonb($3::text))
		 WHERE id = $1 AND expires_at > now()`,
		id, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set session value: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteValue はセッションからキーを削除する。
func (r *PostgresSessionRepo) DeleteValue(ctx context.Context, id, key string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET data = data - $2::text WHERE id = $1`,
		id, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのセッションを削除する。
func (r *PostgresSessionRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired は期限切れのセッションを削除する。
func (r *PostgresSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return n, nil
}

// Ping はデータベースへの疎通を確認する。
func (r *PostgresSessionRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
