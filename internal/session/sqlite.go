package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"fintrack/internal/gateway"
)

// SQLiteStore persists the session in a small local database. The token is
// kept in memory after open so Token() stays cheap and non-blocking.
type SQLiteStore struct {
	db *sql.DB

	mu    sync.Mutex
	token string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the session database at dbPath and runs
// schema migrations.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run session migrations: %w", err)
	}

	store := &SQLiteStore{db: db}
	if s, err := store.Load(context.Background()); err == nil && s != nil {
		store.token = s.Token
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save upserts the single session row.
func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session (id, token, user_id, user_json, updated_at)
		VALUES (1, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			user_json = excluded.user_json,
			updated_at = excluded.updated_at`,
		sess.Token, sess.User.ID, string(userJSON))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.token = sess.Token
	s.mu.Unlock()
	return nil
}

// Load returns the stored session, or nil when none has been saved.
func (s *SQLiteStore) Load(ctx context.Context) (*Session, error) {
	var token, userJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_json FROM session WHERE id = 1`).Scan(&token, &userJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var user gateway.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

// Clear removes the session row.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Token implements gateway.TokenSource.
func (s *SQLiteStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}
