package inventory

import (
	"context"
	"encoding/json"
	"time"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/core/tx"
	"kiranapos/internal/core/types"
	"kiranapos/internal/domain/outbox"
	"kiranapos/pkg/logger"
)

// Service owns item lifecycle and the stock ledger. Stock mutations are
// meant to run inside a caller's unit of work; item CRUD opens its own.
type Service struct {
	repo       Repository
	outboxRepo outbox.Repository
	txManager  tx.Manager
	notifier   outbox.Notifier
}

// NewService creates the inventory service.
func NewService(repo Repository, outboxRepo outbox.Repository, txManager tx.Manager, notifier outbox.Notifier) *Service {
	if notifier == nil {
		notifier = outbox.NopNotifier{}
	}
	return &Service{
		repo:       repo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		notifier:   notifier,
	}
}

// Consume decrements stock for one line, choosing the piece or loose
// variant by the item's mode. Returns false when stock was insufficient;
// the caller decides whether that fails the whole unit of work.
//
// Piece-mode quantities must be whole within tolerance, anything else is
// invalid input rather than a stock conflict.
func (s *Service) Consume(ctx context.Context, item *Item, qty float64) (bool, error) {
	if qty <= 0 {
		return false, apperror.NewInvalidInput("quantity must be positive")
	}
	if item.IsLoose {
		return s.repo.TryDecrementKg(ctx, item.ID, qty)
	}
	units, ok := types.WholeUnits(qty)
	if !ok {
		return false, apperror.NewInvalidInput("piece-mode quantity must be a whole number")
	}
	return s.repo.TryDecrementPieces(ctx, item.ID, units)
}

// Restore adds stock back, used by voids and downward edits. Unconditional:
// restoring can never conflict.
func (s *Service) Restore(ctx context.Context, item *Item, qty float64) error {
	if qty <= 0 {
		return apperror.NewInvalidInput("quantity must be positive")
	}
	if item.IsLoose {
		return s.repo.IncrementKg(ctx, item.ID, qty)
	}
	units, ok := types.WholeUnits(qty)
	if !ok {
		return apperror.NewInvalidInput("piece-mode quantity must be a whole number")
	}
	return s.repo.IncrementPieces(ctx, item.ID, units)
}

// GetByID returns one item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// GetByIDs returns the items for the given ids, in no particular order.
func (s *Service) GetByIDs(ctx context.Context, itemIDs []id.ID) ([]Item, error) {
	return s.repo.GetByIDs(ctx, itemIDs)
}

// List returns all items.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

// Search returns items matching the query by name or barcode.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.Search(ctx, query, limit)
}

// LowStock returns items at or below their low-stock threshold.
func (s *Service) LowStock(ctx context.Context) ([]Item, error) {
	return s.repo.LowStock(ctx)
}

// AddItem creates an item and enqueues its upsert in the same transaction.
func (s *Service) AddItem(ctx context.Context, item *Item) error {
	if item.Name == "" {
		return apperror.NewInvalidInput("item name is required")
	}
	if id.IsNil(item.ID) {
		item.ID = id.New()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, item); err != nil {
			return err
		}
		return s.enqueueUpsert(ctx, item)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "item created", "item_id", item.ID, "name", item.Name)
	s.notifier.Trigger()
	return nil
}

// UpdateItem saves an item and enqueues its upsert in the same transaction.
func (s *Service) UpdateItem(ctx context.Context, item *Item) error {
	if id.IsNil(item.ID) {
		return apperror.NewInvalidInput("item id is required")
	}
	item.UpdatedAt = time.Now()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, item); err != nil {
			return err
		}
		return s.enqueueUpsert(ctx, item)
	})
	if err != nil {
		return err
	}

	s.notifier.Trigger()
	return nil
}

// DeleteItem removes an item and enqueues the delete.
func (s *Service) DeleteItem(ctx context.Context, itemID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, itemID); err != nil {
			return err
		}
		_, err := s.outboxRepo.Enqueue(ctx, outbox.Op{
			EntityType: outbox.EntityItem,
			EntityID:   itemID.String(),
			Kind:       outbox.OpDelete,
			Payload:    []byte(`{}`),
		})
		return err
	})
	if err != nil {
		return err
	}

	s.notifier.Trigger()
	return nil
}

func (s *Service) enqueueUpsert(ctx context.Context, item *Item) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return apperror.NewInternal(err)
	}
	_, err = s.outboxRepo.Enqueue(ctx, outbox.Op{
		EntityType: outbox.EntityItem,
		EntityID:   item.ID.String(),
		Kind:       outbox.OpUpsert,
		Payload:    payload,
	})
	return err
}
