package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

const defaultTimeout = 30 * time.Second

// Client is the HTTP implementation of Gateway and AuthGateway.
//
// Every request carries a bearer token from the TokenSource and an
// X-Request-ID for log correlation. A 401 from the server triggers the
// OnUnauthorized callback once per response; the caller decides what
// clearing the session means.
type Client struct {
	baseURL        string
	httpc          *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         *slog.Logger

	summaries  *cache.TTLCache[core.TransactionSummary]
	breakdowns *cache.TTLCache[core.CategoryBreakdown]
}

var (
	_ Gateway     = (*Client)(nil)
	_ AuthGateway = (*Client)(nil)
)

// Options configures a Client. Zero values get sensible defaults; a zero
// CacheTTL disables aggregate caching.
type Options struct {
	HTTPClient     *http.Client
	Tokens         TokenSource
	OnUnauthorized func()
	Logger         *slog.Logger
	CacheTTL       time.Duration
}

// NewClient creates a gateway client for the API at baseURL.
func NewClient(baseURL string, opts Options) *Client {
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpc:          httpc,
		tokens:         tokens,
		onUnauthorized: opts.OnUnauthorized,
		logger:         log.ForComponent(opts.Logger, log.ComponentGateway),
		summaries:      cache.New[core.TransactionSummary](opts.CacheTTL),
		breakdowns:     cache.New[core.CategoryBreakdown](opts.CacheTTL),
	}
}

// List fetches one page of transactions matching filters.
func (c *Client) List(ctx context.Context, filters core.Filters) (*ListResult, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("userId", filters.UserID)
	params.Set("limit", strconv.Itoa(filters.EffectiveLimit()))
	if filters.Skip > 0 {
		params.Set("skip", strconv.Itoa(filters.Skip))
	}
	if filters.Type != "" {
		params.Set("type", string(filters.Type))
	}
	if len(filters.Categories) > 0 {
		// OR semantics: a comma-joined list.
		params.Set("category", strings.Join(filters.Categories, ","))
	}
	if filters.StartDate != "" {
		params.Set("startDate", filters.StartDate)
	}
	if filters.EndDate != "" {
		params.Set("endDate", filters.EndDate)
	}
	if filters.SortBy != "" {
		params.Set("sortBy", filters.SortBy)
	}
	if filters.SortOrder != 0 {
		params.Set("sortOrder", strconv.Itoa(filters.SortOrder))
	}

	var result ListResult
	if err := c.do(ctx, http.MethodGet, "/transactions?"+params.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Summary fetches the user's aggregate totals, serving a cached copy when
// one is still fresh.
func (c *Client) Summary(ctx context.Context, userID string) (*core.TransactionSummary, error) {
	if cached, ok := c.summaries.Get(userID); ok {
		return &cached, nil
	}

	var envelope struct {
		Message string                  `json:"message"`
		Summary core.TransactionSummary `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, "/transactions/summary/"+url.PathEscape(userID), nil, &envelope); err != nil {
		return nil, err
	}
	c.summaries.Set(userID, envelope.Summary)
	return &envelope.Summary, nil
}

// ByCategory fetches the user's per-category totals, served from cache when
// fresh.
func (c *Client) ByCategory(ctx context.Context, userID string) (core.CategoryBreakdown, error) {
	if cached, ok := c.breakdowns.Get(userID); ok {
		return cached, nil
	}

	var envelope struct {
		Message    string                 `json:"message"`
		ByCategory core.CategoryBreakdown `json:"byCategory"`
	}
	if err := c.do(ctx, http.MethodGet, "/transactions/by-category/"+url.PathEscape(userID), nil, &envelope); err != nil {
		return nil, err
	}
	c.breakdowns.Set(userID, envelope.ByCategory)
	return envelope.ByCategory, nil
}

// Create records a new transaction.
func (c *Client) Create(ctx context.Context, draft core.TransactionDraft) error {
	if err := c.do(ctx, http.MethodPost, "/transactions", draft, nil); err != nil {
		return err
	}
	c.invalidateAggregates(draft.UserID)
	return nil
}

// Update applies a partial edit to an existing transaction.
func (c *Client) Update(ctx context.Context, id string, patch core.TransactionPatch) error {
	if err := c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(id), patch, nil); err != nil {
		return err
	}
	c.invalidateAggregates("")
	return nil
}

// Delete removes a transaction.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.invalidateAggregates("")
	return nil
}

// ImportStatement uploads a PDF bank statement as multipart form data.
func (c *Client) ImportStatement(ctx context.Context, filename string, r io.Reader) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("bankStatementFile", filename)
	if err != nil {
		return fmt.Errorf("build import form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read statement file: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("finalize import form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/transactions/import", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	if err := c.send(req, nil); err != nil {
		return err
	}
	c.invalidateAggregates("")
	return nil
}

// Register creates an account. No session side effects.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (*User, error) {
	var envelope struct {
		Message string `json:"message"`
		User    User   `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &envelope); err != nil {
		return nil, err
	}
	return &envelope.User, nil
}

// Login authenticates and returns the bearer token plus profile.
func (c *Client) Login(ctx context.Context, login LoginRequest) (*AuthResult, error) {
	var envelope struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    User   `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", login, &envelope); err != nil {
		return nil, err
	}
	return &AuthResult{Token: envelope.Token, User: envelope.User}, nil
}

// Profile fetches a user's profile.
func (c *Client) Profile(ctx context.Context, userID string) (*User, error) {
	return c.userEnvelope(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil)
}

// UpdateProfile applies a partial profile edit.
func (c *Client) UpdateProfile(ctx context.Context, userID string, patch UserPatch) (*User, error) {
	return c.userEnvelope(ctx, http.MethodPut, "/users/"+url.PathEscape(userID), patch)
}

// UpdateCurrency sets the user's preferred display currency.
func (c *Client) UpdateCurrency(ctx context.Context, userID, code string) (*User, error) {
	payload := map[string]string{"currency": code}
	return c.userEnvelope(ctx, http.MethodPut, "/users/"+url.PathEscape(userID)+"/currency", payload)
}

// DeleteAccount removes the account and everything it owns.
func (c *Client) DeleteAccount(ctx context.Context, userID string) error {
	if err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID), nil, nil); err != nil {
		return err
	}
	c.invalidateAggregates(userID)
	return nil
}

func (c *Client) userEnvelope(ctx context.Context, method, path string, body any) (*User, error) {
	var envelope struct {
		Message string `json:"message"`
		User    User   `json:"user"`
	}
	if err := c.do(ctx, method, path, body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.User, nil
}

// invalidateAggregates drops cached summary/breakdown data after a mutation.
// With an empty userID the owner is unknown (update/delete by transaction
// id), so everything goes.
func (c *Client) invalidateAggregates(userID string) {
	c.summaries.DeletePrefix(userID)
	c.breakdowns.DeletePrefix(userID)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			log.FieldOperation, req.Method+" "+req.URL.Path,
			log.FieldRequestID, req.Header.Get("X-Request-ID"),
			log.FieldError, err.Error())
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		log.FieldOperation, req.Method+" "+req.URL.Path,
		log.FieldRequestID, req.Header.Get("X-Request-ID"),
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, time.Since(start).Milliseconds())

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorFrom turns a non-2xx response into an *APIError, preferring the
// server's error envelope when the body holds one.
func (c *Client) errorFrom(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil {
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Message = envelope.Error
			if apiErr.Message == "" {
				apiErr.Message = envelope.Message
			}
			apiErr.Details = envelope.Details
		}
	}
	return apiErr
}
