// Package core holds the bot's domain model: user links, ledger entries,
// amount handling and category detection.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts the amount token of a transaction command into a
// decimal. Users type rupiah amounts in all sorts of shapes ("50000",
// "Rp50.000", "50,000"), so every non-digit rune is stripped before parsing.
// The result must be strictly positive.
//
// Examples:
//
//	ParseAmount("50000")     -> 50000, nil
//	ParseAmount("Rp50.000")  -> 50000, nil
//	ParseAmount("abc")       -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	digits := strings.Map(func(r rune) rune {
		if r < '0' || r > '9' {
			return -1
		}
		return r
	}, s)
	if digits == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatRupiah renders an amount the way id-ID locale does: thousands grouped
// with dots, no decimal places. Negative balances keep their sign.
//
//	FormatRupiah(1000000)  -> "1.000.000"
//	FormatRupiah(-50000)   -> "-50.000"
func FormatRupiah(d decimal.Decimal) string {
	s := d.Truncate(0).Abs().String()
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
