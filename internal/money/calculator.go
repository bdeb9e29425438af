// Package money computes sale totals. Values are plain float64; rounding is
// left to display.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

type Line struct {
	UnitPrice float64
	Qty       int
}

type Totals struct {
	Subtotal   float64
	Discounted float64
	TaxAmount  float64
	Total      float64
}

// Calculate applies the discount before tax. The discount never drives the
// taxable amount below zero.
func Calculate(lines []Line, discount, taxRate float64) Totals {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Qty)
	}
	discounted := math.Max(0, subtotal-discount)
	tax := discounted * taxRate / 100
	return Totals{
		Subtotal:   subtotal,
		Discounted: discounted,
		TaxAmount:  tax,
		Total:      discounted + tax,
	}
}

// Format renders v with two decimals, half away from zero.
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
