// Package core provides money parsing and handling utilities.
//
// Amounts are decimals in Rupiah. Reading an amount never fails: whatever the
// data layer hands over is coerced, and anything that is not a number counts
// as zero.
package core

import (
	"encoding/json"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ParseAmount converts user or storage text into an amount.
//
// Surrounding whitespace is ignored and a decimal comma is accepted. Empty or
// malformed input yields zero.
//
// Examples:
//
//	ParseAmount("1500")   -> 1500
//	ParseAmount("12,5")   -> 12.5
//	ParseAmount("abc")    -> 0
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseStrictAmount is ParseAmount for form input, where a malformed value is
// an error rather than zero. A dot is always the thousands separator
// ("150.000", "1.500.000") and a comma the decimal one.
func ParseStrictAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// CoerceAmount decodes a raw JSON amount. Numbers and numeric strings are
// accepted; null, booleans, objects and malformed text become zero.
func CoerceAmount(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return ParseAmount(n.String())
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseAmount(s)
	}
	return decimal.Zero
}

// FormatRupiah renders an amount the way the dashboard shows it, e.g.
// "Rp 1.500.000" or "-Rp 20.000".
func FormatRupiah(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	f, _ := d.Round(2).Float64()
	format := "#.###,##"
	if d.Equal(d.Truncate(0)) {
		format = "#.###,"
	}
	return sign + "Rp " + humanize.FormatFloat(format, f)
}
