package types

import (
	"testing"
)

func TestWholeUnits(t *testing.T) {
	tests := []struct {
		name   string
		qty    float64
		want   int64
		wantOK bool
	}{
		{"exact integer", 3, 3, true},
		{"zero", 0, 0, true},
		{"within tolerance below", 2.9999999, 3, true},
		{"within tolerance above", 3.0000001, 3, true},
		{"half unit", 2.5, 0, false},
		{"small fraction", 1.01, 0, false},
		{"large count", 100000, 100000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WholeUnits(tt.qty)
			if ok != tt.wantOK {
				t.Fatalf("WholeUnits(%v) ok = %v, want %v", tt.qty, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("WholeUnits(%v) = %d, want %d", tt.qty, got, tt.want)
			}
		})
	}
}

func TestSplitGST(t *testing.T) {
	tests := []struct {
		name        string
		total       float64
		gstPercent  float64
		wantTaxable float64
		wantCGST    float64
		wantSGST    float64
	}{
		{"18 percent clean", 118, 18, 100, 9, 9},
		{"5 percent", 105, 5, 100, 2.5, 2.5},
		{"zero rate passes through", 50, 0, 50, 0, 0},
		{"odd paise remainder goes to sgst", 10, 18, 8.47, 0.77, 0.76},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := SplitGST(tt.total, tt.gstPercent)
			if b.TaxableValue != tt.wantTaxable {
				t.Errorf("taxable = %v, want %v", b.TaxableValue, tt.wantTaxable)
			}
			if b.CGST != tt.wantCGST {
				t.Errorf("cgst = %v, want %v", b.CGST, tt.wantCGST)
			}
			if b.SGST != tt.wantSGST {
				t.Errorf("sgst = %v, want %v", b.SGST, tt.wantSGST)
			}
			if b.IGST != 0 {
				t.Errorf("igst = %v, want 0", b.IGST)
			}
		})
	}
}

// The halves plus the taxable value must reconstruct the original total
// exactly, whatever the rounding did to each part.
func TestSplitGSTSumsToTotal(t *testing.T) {
	totals := []float64{10, 99, 118, 105, 0.01, 1234.56, 7.77}
	rates := []float64{5, 12, 18, 28}

	for _, total := range totals {
		for _, rate := range rates {
			b := SplitGST(total, rate)
			sum := RoundPaise(b.TaxableValue + b.CGST + b.SGST + b.IGST)
			if sum != RoundPaise(total) {
				t.Errorf("SplitGST(%v, %v): parts sum to %v, want %v", total, rate, sum, total)
			}
		}
	}
}

func TestRoundPaise(t *testing.T) {
	if got := RoundPaise(1.005); got != 1.01 {
		t.Errorf("RoundPaise(1.005) = %v, want 1.01", got)
	}
	if got := RoundPaise(2.344); got != 2.34 {
		t.Errorf("RoundPaise(2.344) = %v, want 2.34", got)
	}
	if got := RoundPaise(-1.005); got != -1.01 {
		t.Errorf("RoundPaise(-1.005) = %v, want -1.01", got)
	}
}
