// Package reminder implements due-date reminders for collections and
// payables.
package reminder

import (
	"time"

	"kiranapos/internal/core/id"
)

// Reminder is a dated follow-up, optionally tied to a party balance.
type Reminder struct {
	ID        id.ID     `db:"id"`
	Title     string    `db:"title"`
	Amount    float64   `db:"amount"`
	PartyID   *id.ID    `db:"party_id"`
	DueAt     time.Time `db:"due_at"`
	Done      bool      `db:"done"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
