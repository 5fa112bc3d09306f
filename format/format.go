// Package format renders numbers, amounts and quality grades for display,
// following Indonesian (id-ID) conventions.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
)

// NotAvailable is rendered for missing or non-numeric values
const NotAvailable = "N/A"

// Locale is the display locale
var Locale = language.Indonesian

const currencyPrefix = "Rp "

// Currency formats a Rupiah amount, e.g. "Rp 532.000"
func Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	p := message.NewPrinter(Locale)
	return sign + currencyPrefix + p.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Number formats v with exactly decimals fraction digits and thousand separators
func Number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	if decimals < 0 {
		decimals = 0
	}
	p := message.NewPrinter(Locale)
	return p.Sprint(number.Decimal(v,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
}

// Score formats an optional backend score with four fraction digits
func Score(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return Number(*v, 4)
}

// MetricValue formats a metric value, as currency for Rupiah metrics
func MetricValue(metric string, v float64) string {
	if clustering.IsCurrencyMetric(metric) {
		return Currency(v)
	}
	return Number(v, 2)
}
