// Package currency maps currency codes to display symbols and formats amounts
// the way they appear on rendered documents.
package currency

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCode is assumed when a record carries no currency
const DefaultCode = "NGN"

var symbols = map[string]string{
	"USD": "$",
	"NGN": "₦",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "C$",
	"AUD": "A$",
	"INR": "₹",
	"CNY": "¥",
}

// SymbolFor returns the display glyph for code. Unknown codes get the naira sign.
func SymbolFor(code string) string {
	if s, ok := symbols[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return s
	}
	return symbols[DefaultCode]
}

// Known reports whether code has its own entry in the symbol table
func Known(code string) bool {
	_, ok := symbols[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Format renders amount as symbol + two-decimal grouped magnitude.
// Negative amounts get the minus sign ahead of the symbol: -$10.00
func Format(amount float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	// message.Printer keeps per-call state, so one per call
	p := message.NewPrinter(language.English)
	magnitude := p.Sprintf("%.2f", amount)
	if magnitude == "0.00" {
		sign = ""
	}
	return sign + SymbolFor(code) + magnitude
}

// Quantity renders q the shortest way: 2, 1.5
func Quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// Percent renders p the shortest way: 10, 7.5
func Percent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
