package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/currency"
	"fintrack/internal/gateway"
	"fintrack/internal/session"
)

type fakeAuthGateway struct {
	registerFn       func(ctx context.Context, req gateway.RegisterRequest) (*gateway.User, error)
	loginFn          func(ctx context.Context, req gateway.LoginRequest) (*gateway.AuthResult, error)
	profileFn        func(ctx context.Context, userID string) (*gateway.User, error)
	updateProfileFn  func(ctx context.Context, userID string, patch gateway.UserPatch) (*gateway.User, error)
	updateCurrencyFn func(ctx context.Context, userID, code string) (*gateway.User, error)
	deleteAccountFn  func(ctx context.Context, userID string) error
}

func (f *fakeAuthGateway) Register(ctx context.Context, req gateway.RegisterRequest) (*gateway.User, error) {
	return f.registerFn(ctx, req)
}

func (f *fakeAuthGateway) Login(ctx context.Context, req gateway.LoginRequest) (*gateway.AuthResult, error) {
	return f.loginFn(ctx, req)
}

func (f *fakeAuthGateway) Profile(ctx context.Context, userID string) (*gateway.User, error) {
	return f.profileFn(ctx, userID)
}

func (f *fakeAuthGateway) UpdateProfile(ctx context.Context, userID string, patch gateway.UserPatch) (*gateway.User, error) {
	return f.updateProfileFn(ctx, userID, patch)
}

func (f *fakeAuthGateway) UpdateCurrency(ctx context.Context, userID, code string) (*gateway.User, error) {
	return f.updateCurrencyFn(ctx, userID, code)
}

func (f *fakeAuthGateway) DeleteAccount(ctx context.Context, userID string) error {
	return f.deleteAccountFn(ctx, userID)
}

func loginOK(user gateway.User, token string) func(context.Context, gateway.LoginRequest) (*gateway.AuthResult, error) {
	return func(context.Context, gateway.LoginRequest) (*gateway.AuthResult, error) {
		return &gateway.AuthResult{Token: token, User: user}, nil
	}
}

func TestLogin_PersistsSession(t *testing.T) {
	user := gateway.User{ID: "u1", Username: "alice", Email: "alice@example.com", PreferredCurrency: "EUR"}
	gw := &fakeAuthGateway{loginFn: loginOK(user, "tok-123")}
	sessions := session.NewMemory()
	s := NewAuthStore(gw, sessions, nil)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, gateway.LoginRequest{Email: "alice@example.com", Password: "secret1"}))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-123", s.Token())
	assert.Equal(t, "u1", s.UserID())

	stored, err := sessions.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "tok-123", stored.Token)
	assert.Equal(t, "alice", stored.User.Username)
}

func TestLogin_ValidationShortCircuits(t *testing.T) {
	called := false
	gw := &fakeAuthGateway{
		loginFn: func(context.Context, gateway.LoginRequest) (*gateway.AuthResult, error) {
			called = true
			return nil, nil
		},
	}
	s := NewAuthStore(gw, session.NewMemory(), nil)

	err := s.Login(context.Background(), gateway.LoginRequest{Email: "not-an-email", Password: "secret1"})
	require.ErrorIs(t, err, gateway.ErrInvalidEmail)
	assert.False(t, called)
	assert.False(t, s.IsAuthenticated())
}

func TestLogin_FailureSetsCurrentMessage(t *testing.T) {
	gw := &fakeAuthGateway{
		loginFn: func(context.Context, gateway.LoginRequest) (*gateway.AuthResult, error) {
			return nil, &gateway.APIError{StatusCode: 401, Message: "Invalid credentials"}
		},
	}
	s := NewAuthStore(gw, session.NewMemory(), nil)

	err := s.Login(context.Background(), gateway.LoginRequest{Email: "alice@example.com", Password: "wrong-1"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", s.Err())
	assert.False(t, s.IsAuthenticated())
}

func TestRegister_NoSessionSideEffects(t *testing.T) {
	gw := &fakeAuthGateway{
		registerFn: func(_ context.Context, req gateway.RegisterRequest) (*gateway.User, error) {
			return &gateway.User{ID: "u9", Username: req.Username, Email: req.Email}, nil
		},
	}
	sessions := session.NewMemory()
	s := NewAuthStore(gw, sessions, nil)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, gateway.RegisterRequest{
		Username: "bob_2", Email: "bob@example.com", Password: "secret1",
	}))

	assert.False(t, s.IsAuthenticated(), "register does not log in")
	stored, err := sessions.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestInitializeSession_RestoresStoredSession(t *testing.T) {
	sessions := session.NewMemory()
	ctx := context.Background()
	require.NoError(t, sessions.Save(ctx, session.Session{
		Token: "tok-xyz",
		User:  gateway.User{ID: "u1", Username: "alice"},
	}))

	s := NewAuthStore(&fakeAuthGateway{}, sessions, nil)
	require.NoError(t, s.InitializeSession(ctx))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-xyz", s.Token())
	assert.Equal(t, "alice", s.User().Username)
}

func TestInitializeSession_EmptyStoreIsNoop(t *testing.T) {
	s := NewAuthStore(&fakeAuthGateway{}, session.NewMemory(), nil)
	require.NoError(t, s.InitializeSession(context.Background()))
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestLogout_ClearsMemoryAndPersistence(t *testing.T) {
	user := gateway.User{ID: "u1", Username: "alice"}
	gw := &fakeAuthGateway{loginFn: loginOK(user, "tok-1")}
	sessions := session.NewMemory()
	s := NewAuthStore(gw, sessions, nil)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, gateway.LoginRequest{Email: "alice@example.com", Password: "secret1"}))
	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	stored, err := sessions.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestUpdatePreferredCurrency(t *testing.T) {
	user := gateway.User{ID: "u1", Username: "alice", PreferredCurrency: "INR"}
	var sentCode string
	gw := &fakeAuthGateway{
		loginFn: loginOK(user, "tok-1"),
		updateCurrencyFn: func(_ context.Context, userID, code string) (*gateway.User, error) {
			sentCode = code
			updated := user
			updated.PreferredCurrency = code
			return &updated, nil
		},
	}
	sessions := session.NewMemory()
	s := NewAuthStore(gw, sessions, nil)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, gateway.LoginRequest{Email: "alice@example.com", Password: "secret1"}))

	t.Run("unknown code rejected locally", func(t *testing.T) {
		err := s.UpdatePreferredCurrency(ctx, "XYZ")
		require.ErrorIs(t, err, currency.ErrUnknownCode)
		assert.Empty(t, sentCode)
	})

	t.Run("valid code updates and persists", func(t *testing.T) {
		require.NoError(t, s.UpdatePreferredCurrency(ctx, "JPY"))
		assert.Equal(t, "JPY", sentCode)
		assert.Equal(t, "JPY", s.PreferredCurrency())

		stored, err := sessions.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "JPY", stored.User.PreferredCurrency)
	})
}

func TestPreferredCurrency_DefaultWhenUnset(t *testing.T) {
	s := NewAuthStore(&fakeAuthGateway{}, session.NewMemory(), nil)
	assert.Equal(t, currency.DefaultCode, s.PreferredCurrency())

	s.SetUser(&gateway.User{ID: "u1"})
	assert.Equal(t, currency.DefaultCode, s.PreferredCurrency(), "empty profile field falls back too")
}

func TestLoadProfile_RequiresAuthentication(t *testing.T) {
	s := NewAuthStore(&fakeAuthGateway{}, session.NewMemory(), nil)
	err := s.LoadProfile(context.Background())
	require.ErrorIs(t, err, gateway.ErrNotAuthenticated)
}

func TestUpdateProfile(t *testing.T) {
	user := gateway.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	gw := &fakeAuthGateway{
		loginFn: loginOK(user, "tok-1"),
		updateProfileFn: func(_ context.Context, userID string, patch gateway.UserPatch) (*gateway.User, error) {
			updated := user
			if patch.Username != nil {
				updated.Username = *patch.Username
			}
			return &updated, nil
		},
	}
	s := NewAuthStore(gw, session.NewMemory(), nil)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, gateway.LoginRequest{Email: "alice@example.com", Password: "secret1"}))

	name := "alice2"
	require.NoError(t, s.UpdateProfile(ctx, gateway.UserPatch{Username: &name}))
	assert.Equal(t, "alice2", s.User().Username)
}

func TestDeleteAccount_DropsSession(t *testing.T) {
	user := gateway.User{ID: "u1", Username: "alice"}
	var deletedID string
	gw := &fakeAuthGateway{
		loginFn: loginOK(user, "tok-1"),
		deleteAccountFn: func(_ context.Context, userID string) error {
			deletedID = userID
			return nil
		},
	}
	sessions := session.NewMemory()
	s := NewAuthStore(gw, sessions, nil)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, gateway.LoginRequest{Email: "alice@example.com", Password: "secret1"}))

	require.NoError(t, s.DeleteAccount(ctx))
	assert.Equal(t, "u1", deletedID)
	assert.False(t, s.IsAuthenticated())

	stored, err := sessions.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuthClearError(t *testing.T) {
	gw := &fakeAuthGateway{
		loginFn: func(context.Context, gateway.LoginRequest) (*gateway.AuthResult, error) {
			return nil, errors.New("boom")
		},
	}
	s := NewAuthStore(gw, session.NewMemory(), nil)

	_ = s.Login(context.Background(), gateway.LoginRequest{Email: "a@b.co", Password: "secret1"})
	require.NotEmpty(t, s.Err())

	s.ClearError()
	assert.Empty(t, s.Err())
}
