package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/reminder"
)

const remindersTable = "reminders"

var reminderColumns = []string{
	"id", "title", "amount", "party_id", "due_at", "done",
	"created_at", "updated_at",
}

// ReminderRepo implements reminder.Repository.
type ReminderRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewReminderRepo creates a new reminder repository.
func NewReminderRepo(txManager *TxManager) *ReminderRepo {
	return &ReminderRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReminderRepo) Create(ctx context.Context, rem *reminder.Reminder) error {
	q := r.builder.Insert(remindersTable).
		Columns(reminderColumns...).
		Values(rem.ID, rem.Title, rem.Amount, rem.PartyID, rem.DueAt, rem.Done, rem.CreatedAt, rem.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepo) Update(ctx context.Context, rem *reminder.Reminder) error {
	q := r.builder.Update(remindersTable).
		Set("title", rem.Title).
		Set("amount", rem.Amount).
		Set("party_id", rem.PartyID).
		Set("due_at", rem.DueAt).
		Set("done", rem.Done).
		Set("updated_at", rem.UpdatedAt).
		Where(squirrel.Eq{"id": rem.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("reminder", rem.ID)
	}
	return nil
}

func (r *ReminderRepo) Delete(ctx context.Context, reminderID id.ID) error {
	sql, args, err := r.builder.Delete(remindersTable).Where(squirrel.Eq{"id": reminderID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("reminder", reminderID)
	}
	return nil
}

func (r *ReminderRepo) GetByID(ctx context.Context, reminderID id.ID) (*reminder.Reminder, error) {
	sql, args, err := r.builder.Select(reminderColumns...).
		From(remindersTable).
		Where(squirrel.Eq{"id": reminderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rem reminder.Reminder
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &rem, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("reminder", reminderID)
		}
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	return &rem, nil
}

func (r *ReminderRepo) ListOpen(ctx context.Context) ([]reminder.Reminder, error) {
	sql, args, err := r.builder.Select(reminderColumns...).
		From(remindersTable).
		Where(squirrel.Eq{"done": false}).
		OrderBy("due_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rems []reminder.Reminder
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rems, sql, args...); err != nil {
		return nil, fmt.Errorf("select reminders: %w", err)
	}
	return rems, nil
}

func (r *ReminderRepo) MarkDone(ctx context.Context, reminderID id.ID) error {
	sql := `
		UPDATE reminders
		SET done = TRUE, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, reminderID)
	if err != nil {
		return fmt.Errorf("mark reminder done: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("reminder", reminderID)
	}
	return nil
}

// Ensure interface compliance.
var _ reminder.Repository = (*ReminderRepo)(nil)
