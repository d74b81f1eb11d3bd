// Package analytics derives presentation-ready values from store state.
// Everything here is a pure function over transactions and aggregates;
// no I/O and no store access.
package analytics

import (
	"math"
	"sort"
	"time"

	"fintrack/internal/core"
)

// MonthDelta is a month-over-month expense change reduced to a magnitude
// plus a direction.
type MonthDelta struct {
	Percentage int
	IsIncrease bool
}

// PieSlice is one category's share for a proportion chart.
type PieSlice struct {
	Name    string
	Value   float64 // |net total| of the category
	Income  float64
	Expense float64
}

// CategorySeries is one category's income/expense pair for a comparison chart.
type CategorySeries struct {
	Category string
	Income   float64
	Expense  float64
}

// EmptyState reports whether the dashboard should show its call-to-action
// view: nothing loading, a summary present with zero income and expense, and
// no transactions in the current window.
func EmptyState(isLoading bool, summary *core.TransactionSummary, transactions []core.Transaction) bool {
	return !isLoading &&
		summary != nil &&
		summary.TotalIncome == 0 &&
		summary.TotalExpense == 0 &&
		len(transactions) == 0
}

// MonthComparison sums Expense transactions in the calendar month containing
// now and in the month before it (January looks back to December of the
// previous year) and reduces the relative change to a MonthDelta.
//
// With no previous-month spending the delta is 100% iff the current month has
// any, mirroring the dashboard's reference behavior. Transactions with
// unparseable dates are ignored.
func MonthComparison(transactions []core.Transaction, now time.Time) MonthDelta {
	if len(transactions) == 0 {
		return MonthDelta{}
	}

	curYear, curMonth := now.Year(), now.Month()
	prevYear, prevMonth := curYear, curMonth-1
	if curMonth == time.January {
		prevYear, prevMonth = curYear-1, time.December
	}

	var current, previous float64
	for _, tx := range transactions {
		if tx.Type != core.Expense {
			continue
		}
		when := tx.Time()
		if when.IsZero() {
			continue
		}
		switch {
		case when.Year() == curYear && when.Month() == curMonth:
			current += tx.Amount
		case when.Year() == prevYear && when.Month() == prevMonth:
			previous += tx.Amount
		}
	}

	if previous == 0 {
		if current > 0 {
			return MonthDelta{Percentage: 100, IsIncrease: true}
		}
		return MonthDelta{}
	}

	pct := math.Round((current - previous) / previous * 100)
	return MonthDelta{
		Percentage: int(math.Abs(pct)),
		IsIncrease: current > previous,
	}
}

// PieData reshapes a breakdown into proportion-chart slices. Output is sorted
// by category name so chart rendering is deterministic.
func PieData(breakdown core.CategoryBreakdown) []PieSlice {
	if len(breakdown) == 0 {
		return nil
	}
	slices := make([]PieSlice, 0, len(breakdown))
	for name, totals := range breakdown {
		slices = append(slices, PieSlice{
			Name:    name,
			Value:   math.Abs(totals.Total),
			Income:  totals.Income,
			Expense: totals.Expense,
		})
	}
	sort.Slice(slices, func(i, j int) bool { return slices[i].Name < slices[j].Name })
	return slices
}

// BarData reshapes a breakdown into income/expense pairs, sorted by category
// name.
func BarData(breakdown core.CategoryBreakdown) []CategorySeries {
	if len(breakdown) == 0 {
		return nil
	}
	series := make([]CategorySeries, 0, len(breakdown))
	for name, totals := range breakdown {
		series = append(series, CategorySeries{
			Category: name,
			Income:   totals.Income,
			Expense:  totals.Expense,
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Category < series[j].Category })
	return series
}

// FilterByCategories returns the transactions whose category is in selected,
// preserving the original order. An empty selection means no filter at all,
// not an empty result.
func FilterByCategories(transactions []core.Transaction, selected []string) []core.Transaction {
	if len(selected) == 0 {
		return transactions
	}
	want := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		want[c] = struct{}{}
	}
	filtered := make([]core.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if _, ok := want[tx.Category]; ok {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}
