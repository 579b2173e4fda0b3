package party

import (
	"context"

	"kiranapos/internal/core/id"
)

// Repository is the persistence surface for parties.
type Repository interface {
	Create(ctx context.Context, p *Party) error
	Update(ctx context.Context, p *Party) error
	Delete(ctx context.Context, partyID id.ID) error
	GetByID(ctx context.Context, partyID id.ID) (*Party, error)
	List(ctx context.Context, kind Kind) ([]Party, error)

	// UpdateBalance applies delta to the party's balance in one statement.
	// The ledger keeps no per-entry rows; the transaction store is the
	// history, the balance is the rollup.
	UpdateBalance(ctx context.Context, partyID id.ID, delta float64) error
}
