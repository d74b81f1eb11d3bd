// Package store holds the client-side state containers: the authoritative
// in-memory view of the user's transactions and the authentication state.
// Stores are plain constructible objects, not process-wide singletons.
package store

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/gateway"
	"fintrack/internal/log"
)

// Fallback display messages used when the server sends no error text.
const (
	msgFetchTransactions = "Failed to fetch transactions"
	msgFetchSummary      = "Failed to fetch summary"
	msgFetchByCategory   = "Failed to fetch category data"
	msgCreate            = "Failed to create transaction"
	msgUpdate            = "Failed to update transaction"
	msgDelete            = "Failed to delete transaction"
	msgImport            = "Failed to import statement"
)

// Pagination mirrors the metadata of the last successful fetch; it is never
// tracked independently of one.
type Pagination struct {
	Page  int
	Pages int
	Total int
	Limit int
}

// TransactionStore is the single source of truth for the current user's
// visible transaction window, last-known summary and category breakdown, and
// loading/error status.
//
// A fetch replaces transactions and pagination wholesale; there is no
// incremental merge. Each completed fetch is applied only if no newer fetch
// was issued meanwhile, so a slow stale response can never overwrite a newer
// one. Mutations never patch the list locally: callers refetch to observe
// the new state.
type TransactionStore struct {
	gw       gateway.Gateway
	logger   *slog.Logger
	onChange func()

	mu           sync.Mutex
	fetchSeq     uint64
	transactions []core.Transaction
	summary      *core.TransactionSummary
	byCategory   core.CategoryBreakdown
	pagination   Pagination
	isLoading    bool
	errMsg       string
}

// NewTransactionStore creates an empty store backed by gw.
func NewTransactionStore(gw gateway.Gateway, logger *slog.Logger) *TransactionStore {
	return &TransactionStore{
		gw:         gw,
		logger:     log.ForComponent(logger, log.ComponentStore),
		pagination: Pagination{Page: 1, Pages: 1, Limit: core.DefaultLimit},
	}
}

// OnChange registers a callback invoked after every state transition. The
// callback runs outside the store lock and must not call back into the store
// synchronously from another goroutine without expecting current state.
func (s *TransactionStore) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *TransactionStore) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// FetchTransactions replaces the transaction window with the result of one
// gateway query. On failure the previous window is left untouched and the
// error message is recorded. A completion superseded by a newer fetch is
// discarded entirely.
func (s *TransactionStore) FetchTransactions(ctx context.Context, filters core.Filters) error {
	s.mu.Lock()
	s.isLoading = true
	s.errMsg = ""
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()
	s.notify()

	result, err := s.gw.List(ctx, filters)

	s.mu.Lock()
	if seq != s.fetchSeq {
		// A newer fetch owns the state now; drop this one on the floor.
		s.mu.Unlock()
		s.logger.Debug("stale fetch discarded", log.FieldOperation, log.OpList)
		return nil
	}
	s.isLoading = false
	if err != nil {
		s.errMsg = gateway.Message(err, msgFetchTransactions)
		s.mu.Unlock()
		s.notify()
		s.logger.Warn("fetch transactions failed",
			log.FieldUserID, filters.UserID,
			log.FieldError, err.Error())
		return err
	}

	s.transactions = result.Transactions
	s.pagination = Pagination{
		Page:  result.Page,
		Pages: result.Pages,
		Total: result.Total,
		Limit: filters.EffectiveLimit(),
	}
	s.mu.Unlock()
	s.notify()

	s.logger.Debug("transactions fetched",
		log.FieldUserID, filters.UserID,
		log.FieldPage, result.Page,
		log.FieldTotal, result.Total)
	return nil
}

// FetchSummary refreshes the summary snapshot. It never touches the global
// loading flag and writes no field but its own.
func (s *TransactionStore) FetchSummary(ctx context.Context, userID string) error {
	summary, err := s.gw.Summary(ctx, userID)
	s.mu.Lock()
	if err != nil {
		s.errMsg = gateway.Message(err, msgFetchSummary)
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.summary = summary
	s.mu.Unlock()
	s.notify()
	return nil
}

// FetchByCategory refreshes the category breakdown. Same contract as
// FetchSummary.
func (s *TransactionStore) FetchByCategory(ctx context.Context, userID string) error {
	breakdown, err := s.gw.ByCategory(ctx, userID)
	s.mu.Lock()
	if err != nil {
		s.errMsg = gateway.Message(err, msgFetchByCategory)
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.byCategory = breakdown
	s.mu.Unlock()
	s.notify()
	return nil
}

// Refresh fetches transactions, summary and breakdown concurrently. The
// three writes land in disjoint fields, so they cannot clobber each other.
func (s *TransactionStore) Refresh(ctx context.Context, filters core.Filters) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.FetchTransactions(ctx, filters) })
	g.Go(func() error { return s.FetchSummary(ctx, filters.UserID) })
	g.Go(func() error { return s.FetchByCategory(ctx, filters.UserID) })
	return g.Wait()
}

// CreateTransaction validates the draft locally, then records it through the
// gateway. The transaction list is not patched in place; the caller refetches
// to observe the new state. Failures are both recorded and returned so
// calling UI can keep its transient state open.
func (s *TransactionStore) CreateTransaction(ctx context.Context, draft core.TransactionDraft) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, msgCreate, func() error {
		return s.gw.Create(ctx, draft)
	})
}

// UpdateTransaction applies a partial edit after local validation.
func (s *TransactionStore) UpdateTransaction(ctx context.Context, id string, patch core.TransactionPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, msgUpdate, func() error {
		return s.gw.Update(ctx, id, patch)
	})
}

// DeleteTransaction removes a transaction.
func (s *TransactionStore) DeleteTransaction(ctx context.Context, id string) error {
	return s.mutate(ctx, msgDelete, func() error {
		return s.gw.Delete(ctx, id)
	})
}

// ImportStatement uploads a bank statement for server-side extraction.
func (s *TransactionStore) ImportStatement(ctx context.Context, filename string, r io.Reader) error {
	return s.mutate(ctx, msgImport, func() error {
		return s.gw.ImportStatement(ctx, filename, r)
	})
}

func (s *TransactionStore) mutate(_ context.Context, fallback string, op func() error) error {
	s.mu.Lock()
	s.isLoading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	err := op()

	s.mu.Lock()
	s.isLoading = false
	if err != nil {
		s.errMsg = gateway.Message(err, fallback)
	}
	s.mu.Unlock()
	s.notify()
	return err
}

// ClearError resets the error message and nothing else.
func (s *TransactionStore) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

// Transactions returns a copy of the current window.
func (s *TransactionStore) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Summary returns a copy of the last-known summary, or nil before the first
// successful fetch.
func (s *TransactionStore) Summary() *core.TransactionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return nil
	}
	copied := *s.summary
	return &copied
}

// ByCategory returns a copy of the last-known breakdown, or nil.
func (s *TransactionStore) ByCategory() core.CategoryBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byCategory == nil {
		return nil
	}
	out := make(core.CategoryBreakdown, len(s.byCategory))
	for k, v := range s.byCategory {
		out[k] = v
	}
	return out
}

// Pagination returns the metadata of the last successful fetch.
func (s *TransactionStore) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// IsLoading reports whether a fetch or mutation is in flight.
func (s *TransactionStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err returns the current display error, or "".
func (s *TransactionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}
