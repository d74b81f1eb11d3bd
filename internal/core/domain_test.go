package core

import (
	"errors"
	"testing"
)

func TestTransactionDraftValidate(t *testing.T) {
	valid := TransactionDraft{
		UserID:   "u1",
		Type:     Expense,
		Amount:   12.50,
		Category: CategoryFood,
		Date:     "2025-06-01",
	}

	cases := []struct {
		name   string
		mutate func(*TransactionDraft)
		want   error
	}{
		{"valid", func(d *TransactionDraft) {}, nil},
		{"valid without date", func(d *TransactionDraft) { d.Date = "" }, nil},
		{"missing user", func(d *TransactionDraft) { d.UserID = " " }, ErrMissingUser},
		{"bad type", func(d *TransactionDraft) { d.Type = "Transfer" }, ErrInvalidType},
		{"zero amount", func(d *TransactionDraft) { d.Amount = 0 }, ErrInvalidAmount},
		{"negative amount", func(d *TransactionDraft) { d.Amount = -5 }, ErrInvalidAmount},
		{"amount above max", func(d *TransactionDraft) { d.Amount = 1000000 }, ErrInvalidAmount},
		{"unknown category", func(d *TransactionDraft) { d.Category = "Misc" }, ErrInvalidCategory},
		{"bad date", func(d *TransactionDraft) { d.Date = "01/06/2025" }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)
			err := d.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTransactionDraftValidate_DescriptionLength(t *testing.T) {
	d := TransactionDraft{UserID: "u1", Type: Income, Amount: 1, Category: CategorySalary}

	long := make([]byte, MaxDescriptionLen+1)
	for i := range long {
		long[i] = 'x'
	}
	d.Description = string(long)
	if err := d.Validate(); !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("Validate() = %v, want %v", err, ErrDescriptionTooLong)
	}

	d.Description = string(long[:MaxDescriptionLen])
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() with max-length description = %v, want nil", err)
	}
}

func TestTransactionPatchValidate(t *testing.T) {
	badType := TransactionType("Nope")
	badAmount := -1.0
	goodAmount := 99.99
	badCategory := "Vacations"
	goodCategory := CategoryTravel

	cases := []struct {
		name  string
		patch TransactionPatch
		want  error
	}{
		{"empty patch", TransactionPatch{}, nil},
		{"valid amount", TransactionPatch{Amount: &goodAmount}, nil},
		{"valid category", TransactionPatch{Category: &goodCategory}, nil},
		{"bad type", TransactionPatch{Type: &badType}, ErrInvalidType},
		{"bad amount", TransactionPatch{Amount: &badAmount}, ErrInvalidAmount},
		{"bad category", TransactionPatch{Category: &badCategory}, ErrInvalidCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.patch.Validate()
			if tc.want == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTransactionTime(t *testing.T) {
	tx := Transaction{Date: "2025-03-15"}
	when := tx.Time()
	if when.Year() != 2025 || int(when.Month()) != 3 || when.Day() != 15 {
		t.Fatalf("Time() = %v, want 2025-03-15", when)
	}

	tx = Transaction{Date: "2025-03-15T10:30:00Z"}
	if tx.Time().IsZero() {
		t.Fatal("Time() should parse RFC3339 timestamps")
	}

	tx = Transaction{Date: "not a date"}
	if !tx.Time().IsZero() {
		t.Fatal("Time() should return zero time for garbage input")
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories() {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"", "food & dining", "Groceries"} {
		if ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = true, want false", c)
		}
	}
	if n := len(Categories()); n != 13 {
		t.Fatalf("Categories() returned %d entries, want 13", n)
	}
}

func TestFiltersValidate(t *testing.T) {
	cases := []struct {
		name    string
		filters Filters
		wantErr bool
	}{
		{"minimal", Filters{UserID: "u1"}, false},
		{"full", Filters{
			UserID:     "u1",
			Limit:      25,
			Skip:       50,
			Type:       Expense,
			Categories: []string{CategoryFood, CategoryTravel},
			StartDate:  "2025-01-01",
			EndDate:    "2025-01-31",
			SortBy:     SortByAmount,
			SortOrder:  SortDesc,
		}, false},
		{"missing user", Filters{}, true},
		{"limit too high", Filters{UserID: "u1", Limit: 101}, true},
		{"negative skip", Filters{UserID: "u1", Skip: -1}, true},
		{"bad type", Filters{UserID: "u1", Type: "Refund"}, true},
		{"bad category", Filters{UserID: "u1", Categories: []string{"Pets"}}, true},
		{"bad sort key", Filters{UserID: "u1", SortBy: "category"}, true},
		{"bad sort order", Filters{UserID: "u1", SortOrder: 2}, true},
		{"bad start date", Filters{UserID: "u1", StartDate: "yesterday"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.filters.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestFiltersEffectiveLimit(t *testing.T) {
	if got := (Filters{}).EffectiveLimit(); got != DefaultLimit {
		t.Fatalf("EffectiveLimit() = %d, want %d", got, DefaultLimit)
	}
	if got := (Filters{Limit: 50}).EffectiveLimit(); got != 50 {
		t.Fatalf("EffectiveLimit() = %d, want 50", got)
	}
}
