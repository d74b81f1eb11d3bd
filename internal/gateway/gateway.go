// Package gateway is the boundary to the remote finance API. It defines the
// contracts the state stores depend on and an HTTP client implementing them.
package gateway

import (
	"context"
	"io"

	"fintrack/internal/core"
)

// ListResult is one page of transactions plus the pagination metadata the
// server derived for the query.
type ListResult struct {
	Count        int                `json:"count"`
	Total        int                `json:"total"`
	Page         int                `json:"page"`
	Pages        int                `json:"pages"`
	Transactions []core.Transaction `json:"transactions"`
}

// Gateway is the remote transaction API as the stores see it. All calls are
// context-bound; expected domain failures come back as *APIError values, not
// panics.
type Gateway interface {
	List(ctx context.Context, filters core.Filters) (*ListResult, error)
	Summary(ctx context.Context, userID string) (*core.TransactionSummary, error)
	ByCategory(ctx context.Context, userID string) (core.CategoryBreakdown, error)
	Create(ctx context.Context, draft core.TransactionDraft) error
	Update(ctx context.Context, id string, patch core.TransactionPatch) error
	Delete(ctx context.Context, id string) error
	// ImportStatement uploads a bank statement for server-side extraction and
	// bulk creation. The file content is streamed from r.
	ImportStatement(ctx context.Context, filename string, r io.Reader) error
}

// User is the account profile as returned by the auth endpoints.
type User struct {
	ID                string `json:"_id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	PreferredCurrency string `json:"preferredCurrency,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	PreferredCurrency string `json:"preferredCurrency,omitempty"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserPatch is a partial profile update; nil fields are left untouched.
type UserPatch struct {
	Username          *string `json:"username,omitempty"`
	Email             *string `json:"email,omitempty"`
	Password          *string `json:"password,omitempty"`
	PreferredCurrency *string `json:"preferredCurrency,omitempty"`
}

// AuthResult carries the bearer token and profile returned on login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AuthGateway is the remote auth and profile API.
type AuthGateway interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, patch UserPatch) (*User, error)
	UpdateCurrency(ctx context.Context, userID, code string) (*User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// TokenSource supplies the bearer token attached to every outgoing request.
// An empty token means the call goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, mainly for tests and one-off scripts.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }
