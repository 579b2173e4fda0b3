package reminder

import (
	"context"

	"kiranapos/internal/core/id"
)

// Repository is the persistence surface for reminders.
type Repository interface {
	Create(ctx context.Context, r *Reminder) error
	Update(ctx context.Context, r *Reminder) error
	Delete(ctx context.Context, reminderID id.ID) error
	GetByID(ctx context.Context, reminderID id.ID) (*Reminder, error)
	ListOpen(ctx context.Context) ([]Reminder, error)
	MarkDone(ctx context.Context, reminderID id.ID) error
}
