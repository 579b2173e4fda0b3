// Package inventory implements the stock ledger: item records, atomic
// guarded decrements, and restores.
package inventory

import (
	"time"

	"kiranapos/internal/core/id"
)

// Item is a stocked product. Stock is a float so loose goods (sold by
// weight) and piece goods share one column; piece goods only ever hold
// whole-number stock.
type Item struct {
	ID                id.ID     `db:"id"`
	Name              string    `db:"name"`
	Category          string    `db:"category"`
	SellingPrice      float64   `db:"selling_price"`
	CostPrice         float64   `db:"cost_price"`
	Stock             float64   `db:"stock"`
	Unit              string    `db:"unit"`
	IsLoose           bool      `db:"is_loose"`
	GSTPercent        float64   `db:"gst_percent"`
	HSNCode           string    `db:"hsn_code"`
	Barcode           string    `db:"barcode"`
	RackLocation      string    `db:"rack_location"`
	VendorID          *id.ID    `db:"vendor_id"`
	LowStockThreshold float64   `db:"low_stock_threshold"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// LowOnStock reports whether the item has fallen to or below its threshold.
func (i *Item) LowOnStock() bool {
	return i.LowStockThreshold > 0 && i.Stock <= i.LowStockThreshold
}
