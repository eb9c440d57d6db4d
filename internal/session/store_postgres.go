package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

const (
	createSessionsTableQuery = `
		CREATE TABLE IF NOT EXISTS web_sessions (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			roles TEXT[] NOT NULL DEFAULT '{}',
			language TEXT NOT NULL DEFAULT '',
			light_theme BOOLEAN NOT NULL DEFAULT FALSE,
			flash_kind TEXT NOT NULL DEFAULT '',
			flash_key TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMPTZ NOT NULL
		)
	`
	getSessionQuery = `
		SELECT token, username, roles, language, light_theme, flash_kind, flash_key
		FROM web_sessions
		WHERE id = $1 AND expires_at > $2
	`
	upsertSessionQuery = `
		INSERT INTO web_sessions (id, token, username, roles, language, light_theme, flash_kind, flash_key, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET token = EXCLUDED.token,
			username = EXCLUDED.username,
			roles = EXCLUDED.roles,
			language = EXCLUDED.language,
			light_theme = EXCLUDED.light_theme,
			flash_kind = EXCLUDED.flash_kind,
			flash_key = EXCLUDED.flash_key,
			expires_at = EXCLUDED.expires_at
	`
	deleteSessionQuery = `DELETE FROM web_sessions WHERE id = $1`
	purgeSessionsQuery = `DELETE FROM web_sessions WHERE expires_at <= $1`
)

func NewPostgresStore(db *sql.DB, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, now: time.Now}
}

// EnsureSchema creates the sessions table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSessionsTableQuery); err != nil {
		return fmt.Errorf("create web_sessions: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) (State, error) {
	var (
		st        State
		flashKind string
		flashKey  string
	)
	err := s.db.QueryRowContext(ctx, getSessionQuery, id, s.now()).
		Scan(&st.Token, &st.Username, pq.Array(&st.Roles), &st.Language, &st.LightTheme, &flashKind, &flashKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, ErrNotFound
		}
		return State{}, fmt.Errorf("load session: %w", err)
	}
	if flashKey != "" {
		st.Flash = &Flash{Kind: flashKind, Key: flashKey}
	}
	return st, nil
}

func (s *PostgresStore) Save(ctx context.Context, id string, state State) error {
	roles := state.Roles
	if roles == nil {
		roles = []string{}
	}
	var flashKind, flashKey string
	if state.Flash != nil {
		flashKind, flashKey = state.Flash.Kind, state.Flash.Key
	}
	_, err := s.db.ExecContext(ctx, upsertSessionQuery,
		id, state.Token, state.Username, pq.Array(roles), state.Language, state.LightTheme,
		flashKind, flashKey, s.now().Add(s.ttl))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, deleteSessionQuery, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Purge removes expired rows and reports how many were deleted.
func (s *PostgresStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, purgeSessionsQuery, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}
