package audit

import (
	"context"

	"kiranapos/internal/core/id"
)

// Repository is the append-only persistence surface for the audit trail.
type Repository interface {
	RecordMovement(ctx context.Context, m *StockMovement) error
	RecordMovements(ctx context.Context, ms []StockMovement) error
	MovementsForItem(ctx context.Context, itemID id.ID, limit int) ([]StockMovement, error)

	RecordEdits(ctx context.Context, entries []EditHistoryEntry) error
	EditsForTransaction(ctx context.Context, txID id.ID) ([]EditHistoryEntry, error)
}
