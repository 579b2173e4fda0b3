package inventory

import (
	"context"

	"kiranapos/internal/core/id"
)

// Repository is the persistence surface for items.
//
// The decrement methods are the heart of the stock ledger: each is a single
// guarded UPDATE whose WHERE clause includes the stock check, so the verdict
// (rows affected) and the mutation are one atomic statement. They return
// false, nil when the guard rejected the decrement.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, itemID id.ID) error
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)
	GetByIDs(ctx context.Context, itemIDs []id.ID) ([]Item, error)
	List(ctx context.Context) ([]Item, error)
	Search(ctx context.Context, query string, limit int) ([]Item, error)
	LowStock(ctx context.Context) ([]Item, error)

	// TryDecrementPieces decrements whole units if stock covers them.
	TryDecrementPieces(ctx context.Context, itemID id.ID, qty int64) (bool, error)

	// TryDecrementKg decrements a fractional quantity if stock covers it.
	TryDecrementKg(ctx context.Context, itemID id.ID, qty float64) (bool, error)

	// IncrementPieces and IncrementKg add stock back unconditionally.
	IncrementPieces(ctx context.Context, itemID id.ID, qty int64) error
	IncrementKg(ctx context.Context, itemID id.ID, qty float64) error
}
