package store

import (
	"context"
	"log/slog"
	"sync"

	"fintrack/internal/currency"
	"fintrack/internal/gateway"
	"fintrack/internal/log"
	"fintrack/internal/session"
)

const (
	msgRegister       = "Registration failed"
	msgLogin          = "Login failed"
	msgLoadProfile    = "Failed to load profile"
	msgUpdateProfile  = "Failed to update profile"
	msgUpdateCurrency = "Failed to update currency"
	msgDeleteAccount  = "Failed to delete account"
)

// AuthStore holds the authenticated user and token and keeps the persisted
// session in step with them. Like TransactionStore it is a plain object with
// no global state.
type AuthStore struct {
	gw       gateway.AuthGateway
	sessions session.Store
	logger   *slog.Logger

	mu        sync.Mutex
	user      *gateway.User
	token     string
	isLoading bool
	errMsg    string
}

// NewAuthStore creates an auth store backed by gw and the persisted session
// store.
func NewAuthStore(gw gateway.AuthGateway, sessions session.Store, logger *slog.Logger) *AuthStore {
	return &AuthStore{
		gw:       gw,
		sessions: sessions,
		logger:   log.ForComponent(logger, log.ComponentAuth),
	}
}

// InitializeSession restores user and token from the persisted session, if
// one exists. Called once at startup.
func (s *AuthStore) InitializeSession(ctx context.Context) error {
	stored, err := s.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}
	s.mu.Lock()
	user := stored.User
	s.user = &user
	s.token = stored.Token
	s.mu.Unlock()
	s.logger.Debug("session restored", log.FieldUserID, stored.User.ID)
	return nil
}

// Register creates an account. It has no session side effects: the user
// still logs in explicitly afterwards.
func (s *AuthStore) Register(ctx context.Context, req gateway.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.call(msgRegister, func() error {
		_, err := s.gw.Register(ctx, req)
		return err
	})
}

// Login authenticates, stores user and token, and persists the session.
func (s *AuthStore) Login(ctx context.Context, req gateway.LoginRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.call(msgLogin, func() error {
		result, err := s.gw.Login(ctx, req)
		if err != nil {
			return err
		}
		s.mu.Lock()
		user := result.User
		s.user = &user
		s.token = result.Token
		s.mu.Unlock()

		if err := s.sessions.Save(ctx, session.Session{Token: result.Token, User: result.User}); err != nil {
			s.logger.Warn("persist session failed", log.FieldError, err.Error())
		}
		s.logger.Info("logged in", log.FieldUserID, result.User.ID, log.FieldOperation, log.OpLogin)
		return nil
	})
}

// Logout clears both in-memory and persisted session state. It is purely
// local; the bearer token is simply forgotten.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.errMsg = ""
	s.mu.Unlock()
	return s.sessions.Clear(ctx)
}

// LoadProfile refreshes the user profile from the server and re-persists it.
func (s *AuthStore) LoadProfile(ctx context.Context) error {
	userID := s.UserID()
	if userID == "" {
		return gateway.ErrNotAuthenticated
	}
	return s.call(msgLoadProfile, func() error {
		user, err := s.gw.Profile(ctx, userID)
		if err != nil {
			return err
		}
		s.setUserAndPersist(ctx, user)
		return nil
	})
}

// UpdateProfile applies a partial profile edit.
func (s *AuthStore) UpdateProfile(ctx context.Context, patch gateway.UserPatch) error {
	userID := s.UserID()
	if userID == "" {
		return gateway.ErrNotAuthenticated
	}
	return s.call(msgUpdateProfile, func() error {
		user, err := s.gw.UpdateProfile(ctx, userID, patch)
		if err != nil {
			return err
		}
		s.setUserAndPersist(ctx, user)
		return nil
	})
}

// UpdatePreferredCurrency validates the code locally, then updates the
// profile's display currency.
func (s *AuthStore) UpdatePreferredCurrency(ctx context.Context, code string) error {
	if _, ok := currency.Find(code); !ok {
		return currency.ErrUnknownCode
	}
	userID := s.UserID()
	if userID == "" {
		return gateway.ErrNotAuthenticated
	}
	return s.call(msgUpdateCurrency, func() error {
		user, err := s.gw.UpdateCurrency(ctx, userID, code)
		if err != nil {
			return err
		}
		s.setUserAndPersist(ctx, user)
		s.logger.Info("preferred currency updated",
			log.FieldUserID, userID,
			log.FieldCurrency, code)
		return nil
	})
}

// DeleteAccount removes the account and drops the session.
func (s *AuthStore) DeleteAccount(ctx context.Context) error {
	userID := s.UserID()
	if userID == "" {
		return gateway.ErrNotAuthenticated
	}
	return s.call(msgDeleteAccount, func() error {
		if err := s.gw.DeleteAccount(ctx, userID); err != nil {
			return err
		}
		return s.Logout(ctx)
	})
}

func (s *AuthStore) setUserAndPersist(ctx context.Context, user *gateway.User) {
	s.mu.Lock()
	s.user = user
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return
	}
	if err := s.sessions.Save(ctx, session.Session{Token: token, User: *user}); err != nil {
		s.logger.Warn("persist session failed", log.FieldError, err.Error())
	}
}

func (s *AuthStore) call(fallback string, op func() error) error {
	s.mu.Lock()
	s.isLoading = true
	s.errMsg = ""
	s.mu.Unlock()

	err := op()

	s.mu.Lock()
	s.isLoading = false
	if err != nil {
		s.errMsg = gateway.Message(err, fallback)
	}
	s.mu.Unlock()
	return err
}

// SetUser replaces the in-memory user without touching persistence.
func (s *AuthStore) SetUser(user *gateway.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// ClearError resets the error message.
func (s *AuthStore) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

// User returns a copy of the current user, or nil when logged out.
func (s *AuthStore) User() *gateway.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// UserID returns the current user's id, or "".
func (s *AuthStore) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Token returns the current bearer token, or "".
func (s *AuthStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether a token is present.
func (s *AuthStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsLoading reports whether an auth operation is in flight.
func (s *AuthStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err returns the current display error, or "".
func (s *AuthStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// PreferredCurrency returns the user's display currency code, falling back
// to the default when logged out or unset.
func (s *AuthStore) PreferredCurrency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.PreferredCurrency == "" {
		return currency.DefaultCode
	}
	return s.user.PreferredCurrency
}
