package currency

import "testing"

func TestFormatSimple(t *testing.T) {
	cases := []struct {
		amount float64
		code   string
		want   string
	}{
		{1234.5, "USD", "$1234.50"},
		{1000, "JPY", "¥1000"},
		{0.5, "INR", "₹0.50"},
		{99.999, "GBP", "£100.00"}, // rounds half-up at the currency precision
		{42, "CHF", "CHF42.00"},
		{1234.5, "XYZ", "1234.50"}, // unknown code: bare fixed-point, 2 decimals
		{1000, "", "1000.00"},
	}
	for _, tc := range cases {
		if got := FormatSimple(tc.amount, tc.code); got != tc.want {
			t.Errorf("FormatSimple(%v, %q) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		amount float64
		code   string
		want   string
	}{
		{1234.5, "USD", "$1,234.50"},
		{1000, "JPY", "¥1,000"},
		{1234.5, "XYZ", "1234.50"}, // unknown code: no symbol at all
	}
	for _, tc := range cases {
		if got := Format(tc.amount, tc.code); got != tc.want {
			t.Errorf("Format(%v, %q) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestFormatForInput(t *testing.T) {
	cases := []struct {
		amount float64
		code   string
		want   string
	}{
		{1234567.89, "USD", "1,234,567.89"},
		{1000, "USD", "1,000.00"},
		{999, "USD", "999.00"},
		{1234567, "JPY", "1,234,567"},
		{0.05, "INR", "0.05"},
		{-1234.5, "USD", "-1,234.50"},
	}
	for _, tc := range cases {
		if got := FormatForInput(tc.amount, tc.code); got != tc.want {
			t.Errorf("FormatForInput(%v, %q) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$1234.50", 1234.5},
		{"₹1,000.00", 1000},
		{"¥1,234,567", 1234567},
		{"-42.50", -42.5},
		{"1 234,56", 123456}, // separators are stripped, not interpreted
		{"", 0},
		{"abc", 0},
		{"--", 0},
		{"...", 0},
	}
	for _, tc := range cases {
		if got := Parse(tc.in); got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// Amounts already rounded to a currency's precision must survive a
// FormatSimple/Parse round trip for every supported code.
func TestRoundTrip(t *testing.T) {
	amounts := []float64{0.01, 1, 42, 1234.5, 999999, 0}
	for _, code := range Codes() {
		cfg := Lookup(code)
		for _, a := range amounts {
			rounded := Parse(fixed(a, cfg.DecimalPlaces))
			got := Parse(FormatSimple(rounded, code))
			if got != rounded {
				t.Errorf("Parse(FormatSimple(%v, %q)) = %v, want %v", rounded, code, got, rounded)
			}
			gotInput := Parse(FormatForInput(rounded, code))
			if gotInput != rounded {
				t.Errorf("Parse(FormatForInput(%v, %q)) = %v, want %v", rounded, code, gotInput, rounded)
			}
		}
	}
}
