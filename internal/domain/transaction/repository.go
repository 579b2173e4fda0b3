package transaction

import (
	"context"

	"kiranapos/internal/core/id"
)

// Repository is the persistence surface for transactions, lines, and
// adjustments. All mutating methods are expected to run inside the store's
// unit of work.
type Repository interface {
	Create(ctx context.Context, t *Transaction, lines []Line) error
	GetByID(ctx context.Context, txID id.ID) (*Transaction, error)
	GetLines(ctx context.Context, txID id.ID) ([]Line, error)
	List(ctx context.Context, limit int) ([]Transaction, error)

	// UpdateHeader rewrites amount, payment mode, note, status, updated_at.
	// Line items are updated one at a time through UpdateLine; they are
	// never touched once the transaction leaves DRAFT/POSTED.
	UpdateHeader(ctx context.Context, t *Transaction) error
	UpdateLine(ctx context.Context, line *Line) error
	UpdateStatus(ctx context.Context, txID id.ID, status Status) error

	CreateAdjustment(ctx context.Context, adj *Adjustment) error
	GetAdjustment(ctx context.Context, txID id.ID) (*Adjustment, error)
}
