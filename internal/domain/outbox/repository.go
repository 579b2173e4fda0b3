package outbox

import "context"

// Repository is the persistence surface for the operation queue.
//
// Enqueue participates in the caller's transaction when one is carried in
// ctx; the status-transition methods run standalone because the sync engine
// calls them outside any unit of work.
type Repository interface {
	// Enqueue appends a PENDING entry for op and returns it.
	Enqueue(ctx context.Context, op Op) (*Entry, error)

	// GetPending returns up to limit PENDING entries in insertion order.
	GetPending(ctx context.Context, limit int) ([]Entry, error)

	// GetFailed returns up to limit FAILED entries in insertion order.
	GetFailed(ctx context.Context, limit int) ([]Entry, error)

	// GetByID returns one entry or apperror.NotFound.
	GetByID(ctx context.Context, entryID int64) (*Entry, error)

	// MarkAttempt increments the attempt counter and stamps the entry.
	// Called before the network send so a crash mid-send still counts.
	MarkAttempt(ctx context.Context, entryID int64) error

	// MarkDone transitions an entry to DONE.
	MarkDone(ctx context.Context, entryID int64) error

	// MarkFailed transitions an entry to FAILED recording the error text.
	MarkFailed(ctx context.Context, entryID int64, reason string) error

	// ResetToPending moves one FAILED entry back to PENDING.
	ResetToPending(ctx context.Context, entryID int64) error

	// ResetAllFailed moves every FAILED entry back to PENDING and returns
	// how many were moved.
	ResetAllFailed(ctx context.Context) (int64, error)

	// ClearDone deletes DONE entries and returns how many were deleted.
	ClearDone(ctx context.Context) (int64, error)

	// ClearAll deletes every entry regardless of status.
	ClearAll(ctx context.Context) (int64, error)

	// PendingCount and FailedCount report queue depth for status surfaces.
	PendingCount(ctx context.Context) (int64, error)
	FailedCount(ctx context.Context) (int64, error)

	// Recent returns the newest entries first, any status, for inspection.
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
