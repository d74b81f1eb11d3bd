// Package core defines the domain model shared by the gateway, the state
// stores and the derived analytics: transactions, aggregates and the query
// filters used to fetch them.
package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

// Amount bounds accepted when creating or editing a transaction.
const (
	MinAmount = 0.01
	MaxAmount = 999999.99
)

// MaxDescriptionLen bounds the free-text description.
const MaxDescriptionLen = 500

type (
	TransactionType string

	// Transaction is one recorded income or expense event owned by a user.
	// Amount is always a positive magnitude; the sign semantics live in Type.
	Transaction struct {
		ID          string          `json:"_id"`
		UserID      string          `json:"user"`
		Type        TransactionType `json:"type"`
		Amount      float64         `json:"amount"`
		Category    string          `json:"category"`
		Date        string          `json:"date"`
		Description string          `json:"description,omitempty"`
		CreatedAt   string          `json:"createdAt,omitempty"`
		UpdatedAt   string          `json:"updatedAt,omitempty"`
	}

	// TransactionDraft is the payload for creating a transaction.
	TransactionDraft struct {
		UserID      string          `json:"user"`
		Type        TransactionType `json:"type"`
		Amount      float64         `json:"amount"`
		Category    string          `json:"category"`
		Date        string          `json:"date,omitempty"`
		Description string          `json:"description,omitempty"`
	}

	// TransactionPatch is a partial update; nil fields are left untouched.
	TransactionPatch struct {
		Type        *TransactionType `json:"type,omitempty"`
		Amount      *float64         `json:"amount,omitempty"`
		Category    *string          `json:"category,omitempty"`
		Date        *string          `json:"date,omitempty"`
		Description *string          `json:"description,omitempty"`
	}

	// TransactionSummary is the server-derived aggregate over a user's full
	// transaction set. The client treats it as a read-only snapshot.
	TransactionSummary struct {
		TotalIncome      float64 `json:"totalIncome"`
		TotalExpense     float64 `json:"totalExpense"`
		Balance          float64 `json:"balance"`
		TransactionCount int     `json:"transactionCount"`
	}

	// CategoryTotals aggregates one category of a breakdown.
	CategoryTotals struct {
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
		Total   float64 `json:"total"`
		Count   int     `json:"count"`
	}

	// CategoryBreakdown maps category name to its totals. Only categories
	// that actually occurred are present.
	CategoryBreakdown map[string]CategoryTotals
)

var (
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrDescriptionTooLong = fmt.Errorf("description too long (max %d characters)", MaxDescriptionLen)
	ErrMissingUser        = errors.New("missing user id")
	ErrInvalidDate        = errors.New("invalid date")
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Date layouts accepted from the server and from user input.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z"}

// ParseDate parses an ISO-8601 calendar date or timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Time returns the transaction date as a time.Time, zero if unparseable.
func (t Transaction) Time() time.Time {
	parsed, err := ParseDate(t.Date)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func validateAmount(amount float64) error {
	if amount < MinAmount || amount > MaxAmount {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks a draft before it is allowed near the gateway.
// Validation failures are reported synchronously and never cause a network call.
func (d TransactionDraft) Validate() error {
	if strings.TrimSpace(d.UserID) == "" {
		return ErrMissingUser
	}
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	if err := validateAmount(d.Amount); err != nil {
		return err
	}
	if !ValidCategory(d.Category) {
		return ErrInvalidCategory
	}
	if d.Date != "" {
		if _, err := ParseDate(d.Date); err != nil {
			return err
		}
	}
	if len(d.Description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

// Validate checks the fields a patch actually sets.
func (p TransactionPatch) Validate() error {
	if p.Type != nil && !p.Type.Valid() {
		return ErrInvalidType
	}
	if p.Amount != nil {
		if err := validateAmount(*p.Amount); err != nil {
			return err
		}
	}
	if p.Category != nil && !ValidCategory(*p.Category) {
		return ErrInvalidCategory
	}
	if p.Date != nil {
		if _, err := ParseDate(*p.Date); err != nil {
			return err
		}
	}
	if p.Description != nil && len(*p.Description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

// Empty reports whether the patch sets no fields at all.
func (p TransactionPatch) Empty() bool {
	return p.Type == nil && p.Amount == nil && p.Category == nil &&
		p.Date == nil && p.Description == nil
}
