package core

import (
	"errors"
	"fmt"
)

// Sort keys and directions accepted by the transaction list endpoint.
// The wire encodes direction as 1 (ascending) / -1 (descending).
const (
	SortByDate   = "date"
	SortByAmount = "amount"

	SortAsc  = 1
	SortDesc = -1
)

// Pagination bounds enforced client-side before a fetch.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Filters describes one transaction query. It is a value object: a fresh one
// is built per fetch, never mutated in place by the store.
type Filters struct {
	UserID     string
	Limit      int
	Skip       int
	Type       TransactionType
	Categories []string // OR semantics; comma-joined on the wire
	StartDate  string   // inclusive, ISO-8601
	EndDate    string   // inclusive, ISO-8601
	SortBy     string
	SortOrder  int
}

var (
	ErrInvalidLimit     = fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	ErrInvalidSortKey   = errors.New("sort key must be date or amount")
	ErrInvalidSortOrder = errors.New("sort order must be 1 or -1")
)

// EffectiveLimit returns the page size the query will actually use.
func (f Filters) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultLimit
	}
	return f.Limit
}

// Validate checks the filter before it is turned into a request.
func (f Filters) Validate() error {
	if f.UserID == "" {
		return ErrMissingUser
	}
	if f.Limit < 0 || f.Limit > MaxLimit {
		return ErrInvalidLimit
	}
	if f.Skip < 0 {
		return errors.New("skip must not be negative")
	}
	if f.Type != "" && !f.Type.Valid() {
		return ErrInvalidType
	}
	for _, c := range f.Categories {
		if !ValidCategory(c) {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
		}
	}
	if f.StartDate != "" {
		if _, err := ParseDate(f.StartDate); err != nil {
			return err
		}
	}
	if f.EndDate != "" {
		if _, err := ParseDate(f.EndDate); err != nil {
			return err
		}
	}
	if f.SortBy != "" && f.SortBy != SortByDate && f.SortBy != SortByAmount {
		return ErrInvalidSortKey
	}
	if f.SortOrder != 0 && f.SortOrder != SortAsc && f.SortOrder != SortDesc {
		return ErrInvalidSortOrder
	}
	return nil
}
