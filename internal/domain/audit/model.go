// Package audit holds the append-only trail: stock movements and
// transaction edit history. Rows are written, never updated or deleted.
package audit

import (
	"time"

	"kiranapos/internal/core/id"
)

// MovementSource names what caused a stock movement.
type MovementSource string

const (
	SourceSale       MovementSource = "SALE"
	SourcePurchase   MovementSource = "PURCHASE"
	SourceEdit       MovementSource = "EDIT"
	SourceAdjustment MovementSource = "ADJUSTMENT"
	SourceVoid       MovementSource = "VOID"
)

// StockMovement records one delta applied to an item's stock.
// Delta is negative for consumption, positive for restores and receipts.
type StockMovement struct {
	ID            id.ID          `db:"id"`
	ItemID        id.ID          `db:"item_id"`
	Delta         float64        `db:"delta"`
	Source        MovementSource `db:"source"`
	TransactionID *id.ID         `db:"transaction_id"`
	ActorID       *id.ID         `db:"actor_id"`
	Note          string         `db:"note"`
	CreatedAt     time.Time      `db:"created_at"`
}

// EditHistoryEntry records one field change made by an edit, one row per
// changed field so the history reads as a diff.
type EditHistoryEntry struct {
	ID            id.ID     `db:"id"`
	TransactionID id.ID     `db:"transaction_id"`
	Field         string    `db:"field"`
	OldValue      string    `db:"old_value"`
	NewValue      string    `db:"new_value"`
	Reason        string    `db:"reason"`
	EditedBy      *id.ID    `db:"edited_by"`
	EditedByRole  string    `db:"edited_by_role"`
	CreatedAt     time.Time `db:"created_at"`
}
