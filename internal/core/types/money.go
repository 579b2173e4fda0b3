// Package types provides money and quantity helpers shared by the ledgers.
package types

import (
	"math"

	"github.com/shopspring/decimal"
)

// WholeUnitTolerance is how far a piece-mode quantity may drift from an
// integer before it is rejected as invalid input.
const WholeUnitTolerance = 1e-6

// WholeUnits converts a piece-mode quantity to an integer count.
// Returns false when the quantity is not within tolerance of a whole number.
func WholeUnits(qty float64) (int64, bool) {
	rounded := math.Round(qty)
	if math.Abs(qty-rounded) > WholeUnitTolerance {
		return 0, false
	}
	return int64(rounded), true
}

// TaxBreakdown is the per-line GST snapshot stored alongside a sale line.
// Amounts are in rupees, rounded to paise.
type TaxBreakdown struct {
	TaxableValue float64
	CGST         float64
	SGST         float64
	IGST         float64
}

// SplitGST derives the tax breakdown for a tax-inclusive line total.
//
// The split is always CGST/SGST halves with IGST zero: sales are assumed
// intra-state, matching how the shop files GSTR-1. An inter-state branch
// would land here if stateCode comparison is ever switched on.
func SplitGST(lineTotal, gstPercent float64) TaxBreakdown {
	if gstPercent <= 0 || lineTotal <= 0 {
		return TaxBreakdown{TaxableValue: roundPaise(lineTotal)}
	}

	total := decimal.NewFromFloat(lineTotal)
	rate := decimal.NewFromFloat(gstPercent).Div(decimal.NewFromInt(100))

	taxable := total.Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	tax := total.Sub(taxable)
	half := tax.Div(decimal.NewFromInt(2)).Round(2)

	cgst, _ := half.Float64()
	// SGST takes the rounding remainder so the halves sum to the full tax.
	sgst, _ := tax.Sub(half).Float64()
	tv, _ := taxable.Float64()

	return TaxBreakdown{
		TaxableValue: tv,
		CGST:         cgst,
		SGST:         sgst,
		IGST:         0,
	}
}

func roundPaise(v float64) float64 {
	d, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return d
}

// RoundPaise rounds a rupee amount to 2 decimal places.
func RoundPaise(v float64) float64 { return roundPaise(v) }
