// Package currency holds the static registry of supported currencies and the
// formatting and parsing routines used wherever an amount becomes a string.
//
// Every function in this package is total: unknown codes fall back to safe
// defaults and nothing here ever panics on user input.
package currency

import (
	"errors"
	"sort"
)

// DefaultCode is used whenever a user has no preferred currency or an
// unknown code reaches a lookup.
const DefaultCode = "INR"

// ErrUnknownCode is returned by callers that refuse to proceed with an
// unsupported currency code (the formatting functions never do; they fall
// back instead).
var ErrUnknownCode = errors.New("unknown currency code")

// Config is the immutable formatting metadata for one currency code.
type Config struct {
	Code          string
	Symbol        string
	Name          string
	Country       string
	Locale        string
	DecimalPlaces int
}

var registry = map[string]Config{
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee", Country: "India", Locale: "en-IN", DecimalPlaces: 2},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Country: "United States", Locale: "en-US", DecimalPlaces: 2},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", Country: "Europe", Locale: "en-EU", DecimalPlaces: 2},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", Country: "United Kingdom", Locale: "en-GB", DecimalPlaces: 2},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Country: "Japan", Locale: "ja-JP", DecimalPlaces: 0},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Country: "Australia", Locale: "en-AU", DecimalPlaces: 2},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Country: "Canada", Locale: "en-CA", DecimalPlaces: 2},
	"CHF": {Code: "CHF", Symbol: "CHF", Name: "Swiss Franc", Country: "Switzerland", Locale: "de-CH", DecimalPlaces: 2},
	"CNY": {Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", Country: "China", Locale: "zh-CN", DecimalPlaces: 2},
	"SGD": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", Country: "Singapore", Locale: "en-SG", DecimalPlaces: 2},
	"AED": {Code: "AED", Symbol: "د.إ", Name: "UAE Dirham", Country: "United Arab Emirates", Locale: "ar-AE", DecimalPlaces: 2},
	"MXN": {Code: "MXN", Symbol: "$", Name: "Mexican Peso", Country: "Mexico", Locale: "es-MX", DecimalPlaces: 2},
}

// Find returns the config for code and whether the code is known.
func Find(code string) (Config, bool) {
	cfg, ok := registry[code]
	return cfg, ok
}

// Lookup returns the config for code, falling back to the default code's
// config when the code is unknown. It never fails.
func Lookup(code string) Config {
	if cfg, ok := registry[code]; ok {
		return cfg
	}
	return registry[DefaultCode]
}

// SymbolOf returns the configured symbol, or the raw code for unknown codes.
func SymbolOf(code string) string {
	if cfg, ok := registry[code]; ok {
		return cfg.Symbol
	}
	return code
}

// NameOf returns the display name, or the raw code for unknown codes.
func NameOf(code string) string {
	if cfg, ok := registry[code]; ok {
		return cfg.Name
	}
	return code
}

// CountryOf returns the country, or "" for unknown codes.
func CountryOf(code string) string {
	return registry[code].Country
}

// Codes returns the supported currency codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Option is one entry for a currency picker.
type Option struct {
	Code  string
	Label string
}

// Options returns picker entries ("₹ Indian Rupee (India)") sorted by code.
func Options() []Option {
	opts := make([]Option, 0, len(registry))
	for _, code := range Codes() {
		cfg := registry[code]
		opts = append(opts, Option{
			Code:  code,
			Label: cfg.Symbol + " " + cfg.Name + " (" + cfg.Country + ")",
		})
	}
	return opts
}
