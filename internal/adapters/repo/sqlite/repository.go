package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	last_activity INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_last_activity ON sessions(last_activity);
`

// Repository stores server sessions in a SQLite database.
type Repository struct {
	db *sqlx.DB
}

var _ ports.SessionRepository = (*Repository)(nil)

type sessionRow struct {
	ID           string `db:"id"`
	UserID       string `db:"user_id"`
	Role         string `db:"role"`
	CreatedAt    int64  `db:"created_at"`
	LastActivity int64  `db:"last_activity"`
}

func Open(ctx context.Context, path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sessions schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) GetByID(ctx context.Context, id domain.SessionID) (domain.ServerSession, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row, `SELECT id, user_id, role, created_at, last_activity FROM sessions WHERE id = ?`, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ServerSession{}, domain.ErrSessionNotFound
		}
		return domain.ServerSession{}, fmt.Errorf("select session: %w", err)
	}

	return fromRow(row), nil
}

func (r *Repository) List(ctx context.Context) ([]domain.ServerSession, error) {
	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, user_id, role, created_at, last_activity FROM sessions ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}

	sessions := make([]domain.ServerSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, fromRow(row))
	}
	return sessions, nil
}

func (r *Repository) Save(ctx context.Context, session domain.ServerSession) error {
	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO sessions (id, user_id, role, created_at, last_activity)
VALUES (:id, :user_id, :role, :created_at, :last_activity)
ON CONFLICT(id) DO UPDATE SET
	user_id = excluded.user_id,
	role = excluded.role,
	created_at = excluded.created_at,
	last_activity = excluded.last_activity`, toRow(session))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (r *Repository) Touch(ctx context.Context, id domain.SessionID, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sessions SET last_activity = ? WHERE id = ?`, at.UnixNano(), string(id))
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if affected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id domain.SessionID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func toRow(session domain.ServerSession) sessionRow {
	return sessionRow{
		ID:           string(session.ID),
		UserID:       session.UserID,
		Role:         string(session.Role),
		CreatedAt:    session.CreatedAt.UnixNano(),
		LastActivity: session.LastActivity.UnixNano(),
	}
}

func fromRow(row sessionRow) domain.ServerSession {
	return domain.ServerSession{
		ID:           domain.SessionID(row.ID),
		UserID:       row.UserID,
		Role:         domain.Role(row.Role),
		CreatedAt:    time.Unix(0, row.CreatedAt).UTC(),
		LastActivity: time.Unix(0, row.LastActivity).UTC(),
	}
}
