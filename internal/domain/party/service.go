package party

import (
	"context"
	"encoding/json"
	"time"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/core/tx"
	"kiranapos/internal/domain/outbox"
	"kiranapos/pkg/logger"
)

// Service owns party lifecycle. Balance deltas are applied by the
// transaction store inside its own unit of work, through ApplyBalanceDelta;
// the enclosing transaction op carries the balance effect to the remote, so
// balance moves enqueue nothing of their own.
type Service struct {
	repo       Repository
	outboxRepo outbox.Repository
	txManager  tx.Manager
	notifier   outbox.Notifier
}

// NewService creates the party service.
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

// AddCustomer creates a customer account.
func (s *Service) AddCustomer(ctx context.Context, p *Party) error {
	p.Kind = KindCustomer
	return s.add(ctx, p)
}

// AddVendor creates a vendor account.
func (s *Service) AddVendor(ctx context.Context, p *Party) error {
	p.Kind = KindVendor
	return s.add(ctx, p)
}

func (s *Service) add(ctx context.Context, p *Party) error {
	if p.Name == "" {
		return apperror.NewInvalidInput("party name is required")
	}
	if id.IsNil(p.ID) {
		p.ID = id.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	// An account opened with an existing due starts its balance there.
	p.Balance = p.OpeningDue

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		return s.enqueueUpsert(ctx, p)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "party created", "party_id", p.ID, "kind", p.Kind, "name", p.Name)
	s.notifier.Trigger()
	return nil
}

// UpdateParty saves party details. Balance is not written here; it only
// moves through ApplyBalanceDelta.
func (s *Service) UpdateParty(ctx context.Context, p *Party) error {
	if id.IsNil(p.ID) {
		return apperror.NewInvalidInput("party id is required")
	}
	p.UpdatedAt = time.Now()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		return s.enqueueUpsert(ctx, p)
	})
	if err != nil {
		return err
	}

	s.notifier.Trigger()
	return nil
}

// DeleteParty removes a party and enqueues the delete.
func (s *Service) DeleteParty(ctx context.Context, partyID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, partyID); err != nil {
			return err
		}
		_, err := s.outboxRepo.Enqueue(ctx, outbox.Op{
			EntityType: outbox.EntityParty,
			EntityID:   partyID.String(),
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

// GetByID returns one party.
func (s *Service) GetByID(ctx context.Context, partyID id.ID) (*Party, error) {
	return s.repo.GetByID(ctx, partyID)
}

// List returns all parties of the given kind.
func (s *Service) List(ctx context.Context, kind Kind) ([]Party, error) {
	return s.repo.List(ctx, kind)
}

// ApplyBalanceDelta moves a party balance inside the caller's transaction.
func (s *Service) ApplyBalanceDelta(ctx context.Context, partyID id.ID, delta float64) error {
	if delta == 0 {
		return nil
	}
	return s.repo.UpdateBalance(ctx, partyID, delta)
}

func (s *Service) enqueueUpsert(ctx context.Context, p *Party) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return apperror.NewInternal(err)
	}
	kind := outbox.OpUpsertCustomer
	if p.Kind == KindVendor {
		kind = outbox.OpUpsertVendor
	}
	_, err = s.outboxRepo.Enqueue(ctx, outbox.Op{
		EntityType: outbox.EntityParty,
		EntityID:   p.ID.String(),
		Kind:       kind,
		Payload:    payload,
	})
	return err
}
