package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/audit"
)

const (
	stockMovementsTable = "stock_movements"
	editHistoryTable    = "transaction_edit_history"
)

var movementColumns = []string{
	"id", "item_id", "delta", "source", "transaction_id", "actor_id",
	"note", "created_at",
}

var editColumns = []string{
	"id", "transaction_id", "field", "old_value", "new_value", "reason",
	"edited_by", "edited_by_role", "created_at",
}

// AuditRepo implements audit.Repository. Inserts only; the trail is never
// rewritten.
type AuditRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewAuditRepo creates a new audit repository.
func NewAuditRepo(txManager *TxManager) *AuditRepo {
	return &AuditRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AuditRepo) RecordMovement(ctx context.Context, m *audit.StockMovement) error {
	return r.RecordMovements(ctx, []audit.StockMovement{*m})
}

func (r *AuditRepo) RecordMovements(ctx context.Context, ms []audit.StockMovement) error {
	if len(ms) == 0 {
		return nil
	}

	q := r.builder.Insert(stockMovementsTable).Columns(movementColumns...)
	for _, m := range ms {
		q = q.Values(m.ID, m.ItemID, m.Delta, m.Source, m.TransactionID, m.ActorID, m.Note, m.CreatedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}
	return nil
}

func (r *AuditRepo) MovementsForItem(ctx context.Context, itemID id.ID, limit int) ([]audit.StockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	sql, args, err := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ms []audit.StockMovement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &ms, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	return ms, nil
}

func (r *AuditRepo) RecordEdits(ctx context.Context, entries []audit.EditHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	q := r.builder.Insert(editHistoryTable).Columns(editColumns...)
	for _, e := range entries {
		q = q.Values(e.ID, e.TransactionID, e.Field, e.OldValue, e.NewValue, e.Reason, e.EditedBy, e.EditedByRole, e.CreatedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert edit history: %w", err)
	}
	return nil
}

func (r *AuditRepo) EditsForTransaction(ctx context.Context, txID id.ID) ([]audit.EditHistoryEntry, error) {
	sql, args, err := r.builder.Select(editColumns...).
		From(editHistoryTable).
		Where(squirrel.Eq{"transaction_id": txID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []audit.EditHistoryEntry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select edit history: %w", err)
	}
	return entries, nil
}

// Ensure interface compliance.
var _ audit.Repository = (*AuditRepo)(nil)
