package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/transaction"
)

const (
	transactionsTable    = "transactions"
	linesTable           = "transaction_lines"
	adjustmentsTable     = "transaction_adjustments"
	adjustmentItemsTable = "transaction_adjustment_items"
)

var transactionColumns = []string{
	"id", "type", "amount", "payment_mode", "party_id", "status",
	"gst_filed_period", "note", "occurred_at", "created_at", "updated_at",
}

var lineColumns = []string{
	"id", "transaction_id", "item_id", "item_name", "quantity", "unit",
	"unit_price", "gst_percent", "taxable_value", "cgst", "sgst", "igst",
	"created_at",
}

// TransactionRepo implements transaction.Repository.
type TransactionRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewTransactionRepo creates a new transaction repository.
func NewTransactionRepo(txManager *TxManager) *TransactionRepo {
	return &TransactionRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *TransactionRepo) Create(ctx context.Context, t *transaction.Transaction, lines []transaction.Line) error {
	q := r.builder.Insert(transactionsTable).
		Columns(transactionColumns...).
		Values(
			t.ID, t.Type, t.Amount, t.PaymentMode, t.PartyID, t.Status,
			t.GSTFiledPeriod, t.Note, t.OccurredAt, t.CreatedAt, t.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	lq := r.builder.Insert(linesTable).Columns(lineColumns...)
	for _, l := range lines {
		lq = lq.Values(
			l.ID, l.TransactionID, l.ItemID, l.ItemName, l.Quantity, l.Unit,
			l.UnitPrice, l.GSTPercent, l.TaxableValue, l.CGST, l.SGST, l.IGST,
			l.CreatedAt,
		)
	}

	sql, args, err = lq.ToSql()
	if err != nil {
		return fmt.Errorf("build lines insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, txID id.ID) (*transaction.Transaction, error) {
	sql, args, err := r.builder.Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"id": txID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t transaction.Transaction
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transaction", txID)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func (r *TransactionRepo) GetLines(ctx context.Context, txID id.ID) ([]transaction.Line, error) {
	sql, args, err := r.builder.Select(lineColumns...).
		From(linesTable).
		Where(squirrel.Eq{"transaction_id": txID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []transaction.Line
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select lines: %w", err)
	}
	return lines, nil
}

func (r *TransactionRepo) List(ctx context.Context, limit int) ([]transaction.Transaction, error) {
	sql, args, err := r.builder.Select(transactionColumns...).
		From(transactionsTable).
		OrderBy("occurred_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var txns []transaction.Transaction
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &txns, sql, args...); err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	return txns, nil
}

func (r *TransactionRepo) UpdateHeader(ctx context.Context, t *transaction.Transaction) error {
	q := r.builder.Update(transactionsTable).
		Set("amount", t.Amount).
		Set("payment_mode", t.PaymentMode).
		Set("note", t.Note).
		Set("status", t.Status).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"id": t.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("transaction", t.ID)
	}
	return nil
}

func (r *TransactionRepo) UpdateLine(ctx context.Context, line *transaction.Line) error {
	q := r.builder.Update(linesTable).
		Set("quantity", line.Quantity).
		Set("unit_price", line.UnitPrice).
		Set("taxable_value", line.TaxableValue).
		Set("cgst", line.CGST).
		Set("sgst", line.SGST).
		Set("igst", line.IGST).
		Where(squirrel.Eq{"id": line.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("transaction line", line.ID)
	}
	return nil
}

func (r *TransactionRepo) UpdateStatus(ctx context.Context, txID id.ID, status transaction.Status) error {
	sql, args, err := r.builder.Update(transactionsTable).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": txID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("transaction", txID)
	}
	return nil
}

func (r *TransactionRepo) CreateAdjustment(ctx context.Context, adj *transaction.Adjustment) error {
	q := r.builder.Insert(adjustmentsTable).
		Columns("id", "transaction_id", "kind", "net_amount_change", "reason", "created_at").
		Values(adj.ID, adj.TransactionID, adj.Kind, adj.NetAmountChange, adj.Reason, adj.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}

	if len(adj.Items) == 0 {
		return nil
	}

	iq := r.builder.Insert(adjustmentItemsTable).
		Columns("id", "adjustment_id", "item_id", "quantity_delta", "price_delta", "tax_delta")
	for _, it := range adj.Items {
		iq = iq.Values(it.ID, it.AdjustmentID, it.ItemID, it.QuantityDelta, it.PriceDelta, it.TaxDelta)
	}

	sql, args, err = iq.ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert adjustment items: %w", err)
	}
	return nil
}

func (r *TransactionRepo) GetAdjustment(ctx context.Context, txID id.ID) (*transaction.Adjustment, error) {
	sql, args, err := r.builder.Select("id", "transaction_id", "kind", "net_amount_change", "reason", "created_at").
		From(adjustmentsTable).
		Where(squirrel.Eq{"transaction_id": txID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var adj transaction.Adjustment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &adj, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("adjustment", txID)
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}

	sql, args, err = r.builder.Select("id", "adjustment_id", "item_id", "quantity_delta", "price_delta", "tax_delta").
		From(adjustmentItemsTable).
		Where(squirrel.Eq{"adjustment_id": adj.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &adj.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("select adjustment items: %w", err)
	}
	return &adj, nil
}

// Ensure interface compliance.
var _ transaction.Repository = (*TransactionRepo)(nil)
