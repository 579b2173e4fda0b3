package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/party"
)

const partiesTable = "parties"

var partyColumns = []string{
	"id", "kind", "name", "phone", "address", "upi_id", "gstin",
	"state_code", "opening_due", "balance", "created_at", "updated_at",
}

// PartyRepo implements party.Repository.
type PartyRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewPartyRepo creates a new party repository.
func NewPartyRepo(txManager *TxManager) *PartyRepo {
	return &PartyRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PartyRepo) Create(ctx context.Context, p *party.Party) error {
	q := r.builder.Insert(partiesTable).
		Columns(partyColumns...).
		Values(
			p.ID, p.Kind, p.Name, p.Phone, p.Address, p.UPIID, p.GSTIN,
			p.StateCode, p.OpeningDue, p.Balance, p.CreatedAt, p.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert party: %w", err)
	}
	return nil
}

func (r *PartyRepo) Update(ctx context.Context, p *party.Party) error {
	q := r.builder.Update(partiesTable).
		Set("name", p.Name).
		Set("phone", p.Phone).
		Set("address", p.Address).
		Set("upi_id", p.UPIID).
		Set("gstin", p.GSTIN).
		Set("state_code", p.StateCode).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update party: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("party", p.ID)
	}
	return nil
}

func (r *PartyRepo) Delete(ctx context.Context, partyID id.ID) error {
	sql, args, err := r.builder.Delete(partiesTable).Where(squirrel.Eq{"id": partyID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("party", partyID)
	}
	return nil
}

func (r *PartyRepo) GetByID(ctx context.Context, partyID id.ID) (*party.Party, error) {
	sql, args, err := r.builder.Select(partyColumns...).
		From(partiesTable).
		Where(squirrel.Eq{"id": partyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p party.Party
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("party", partyID)
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return &p, nil
}

func (r *PartyRepo) List(ctx context.Context, kind party.Kind) ([]party.Party, error) {
	sql, args, err := r.builder.Select(partyColumns...).
		From(partiesTable).
		Where(squirrel.Eq{"kind": kind}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var parties []party.Party
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &parties, sql, args...); err != nil {
		return nil, fmt.Errorf("select parties: %w", err)
	}
	return parties, nil
}

func (r *PartyRepo) UpdateBalance(ctx context.Context, partyID id.ID, delta float64) error {
	sql := `
		UPDATE parties
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, partyID, delta)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("party", partyID)
	}
	return nil
}

// Ensure interface compliance.
var _ party.Repository = (*PartyRepo)(nil)
