package currency

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// fixed renders amount with exactly places fractional digits, half-up.
func fixed(amount float64, places int) string {
	return decimal.NewFromFloat(amount).StringFixed(int32(places))
}

// Format renders amount with the currency's locale-correct digit grouping and
// symbol. On any locale failure it degrades to Symbol + fixed-point; an
// unknown code yields a bare two-decimal fixed-point string.
func Format(amount float64, code string) string {
	cfg, ok := Find(code)
	if !ok {
		return fixed(amount, 2)
	}

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return cfg.Symbol + fixed(amount, cfg.DecimalPlaces)
	}

	p := message.NewPrinter(tag)
	grouped := p.Sprint(number.Decimal(amount,
		number.MinFractionDigits(cfg.DecimalPlaces),
		number.MaxFractionDigits(cfg.DecimalPlaces)))
	return cfg.Symbol + grouped
}

// FormatSimple renders Symbol + fixed-point with the currency's precision and
// no grouping. Deterministic and locale-independent; unknown codes yield a
// bare two-decimal string.
func FormatSimple(amount float64, code string) string {
	cfg, ok := Find(code)
	if !ok {
		return fixed(amount, 2)
	}
	return cfg.Symbol + fixed(amount, cfg.DecimalPlaces)
}

// FormatForInput renders a thousands-grouped fixed-point string without a
// symbol, suitable for editable fields. Parse reverses it losslessly.
func FormatForInput(amount float64, code string) string {
	cfg, ok := Find(code)
	if !ok {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}

	s := fixed(amount, cfg.DecimalPlaces)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	// Group the integer part in threes from the right.
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := sign + b.String()
	if hasFrac {
		out += "." + fracPart
	}
	return out
}

// Parse extracts a number from a display string by stripping everything
// except digits, the decimal point and the minus sign. It returns 0 for
// anything that does not parse to a finite number and never panics.
func Parse(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
