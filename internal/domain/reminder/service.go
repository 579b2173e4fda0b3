package reminder

import (
	"context"
	"encoding/json"
	"time"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/core/tx"
	"kiranapos/internal/domain/outbox"
)

// Service owns reminder lifecycle.
type Service struct {
	repo       Repository
	outboxRepo outbox.Repository
	txManager  tx.Manager
	notifier   outbox.Notifier
}

// NewService creates the reminder service.
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

// Add creates a reminder.
func (s *Service) Add(ctx context.Context, r *Reminder) error {
	if r.Title == "" {
		return apperror.NewInvalidInput("reminder title is required")
	}
	if id.IsNil(r.ID) {
		r.ID = id.New()
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now

	return s.commit(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, r); err != nil {
			return err
		}
		return s.enqueue(ctx, r.ID, outbox.OpUpsert, r)
	})
}

// Update saves reminder changes.
func (s *Service) Update(ctx context.Context, r *Reminder) error {
	if id.IsNil(r.ID) {
		return apperror.NewInvalidInput("reminder id is required")
	}
	r.UpdatedAt = time.Now()

	return s.commit(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, r); err != nil {
			return err
		}
		return s.enqueue(ctx, r.ID, outbox.OpUpsert, r)
	})
}

// MarkDone closes a reminder.
func (s *Service) MarkDone(ctx context.Context, reminderID id.ID) error {
	return s.commit(ctx, func(ctx context.Context) error {
		if err := s.repo.MarkDone(ctx, reminderID); err != nil {
			return err
		}
		return s.enqueue(ctx, reminderID, outbox.OpMarkDone, map[string]any{"done": true})
	})
}

// Delete removes a reminder.
func (s *Service) Delete(ctx context.Context, reminderID id.ID) error {
	return s.commit(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, reminderID); err != nil {
			return err
		}
		return s.enqueue(ctx, reminderID, outbox.OpDelete, map[string]any{})
	})
}

// commit runs fn in a unit of work and wakes the sync engine on success.
func (s *Service) commit(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := s.txManager.RunInTransaction(ctx, fn); err != nil {
		return err
	}
	s.notifier.Trigger()
	return nil
}

// ListOpen returns reminders not yet done, soonest due first.
func (s *Service) ListOpen(ctx context.Context) ([]Reminder, error) {
	return s.repo.ListOpen(ctx)
}

func (s *Service) enqueue(ctx context.Context, reminderID id.ID, kind outbox.OpKind, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperror.NewInternal(err)
	}
	_, err = s.outboxRepo.Enqueue(ctx, outbox.Op{
		EntityType: outbox.EntityReminder,
		EntityID:   reminderID.String(),
		Kind:       kind,
		Payload:    body,
	})
	return err
}
