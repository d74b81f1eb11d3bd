// Package session persists the authenticated session (bearer token plus
// profile) across process restarts, the way the web client keeps them in
// local storage.
package session

import (
	"context"
	"sync"

	"fintrack/internal/gateway"
)

// Session is the persisted authentication state.
type Session struct {
	Token string
	User  gateway.User
}

// Store saves and restores the single current session. Implementations also
// serve as the gateway's TokenSource.
type Store interface {
	gateway.TokenSource

	Save(ctx context.Context, s Session) error
	// Load returns the stored session, or nil when none exists.
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

// Memory is an in-process Store for tests and ephemeral runs.
type Memory struct {
	mu      sync.Mutex
	current *Session
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := s
	m.current = &copied
	return nil
}

func (m *Memory) Load(_ context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, nil
	}
	copied := *m.current
	return &copied, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return nil
}

func (m *Memory) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}
