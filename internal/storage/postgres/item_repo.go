package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/inventory"
)

const itemsTable = "items"

var itemColumns = []string{
	"id", "name", "category", "selling_price", "cost_price", "stock",
	"unit", "is_loose", "gst_percent", "hsn_code", "barcode",
	"rack_location", "vendor_id", "low_stock_threshold",
	"created_at", "updated_at",
}

// ItemRepo implements inventory.Repository.
type ItemRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *TxManager) *ItemRepo {
	return &ItemRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ItemRepo) Create(ctx context.Context, item *inventory.Item) error {
	q := r.builder.Insert(itemsTable).
		Columns(itemColumns...).
		Values(
			item.ID, item.Name, item.Category, item.SellingPrice, item.CostPrice, item.Stock,
			item.Unit, item.IsLoose, item.GSTPercent, item.HSNCode, item.Barcode,
			item.RackLocation, item.VendorID, item.LowStockThreshold,
			item.CreatedAt, item.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) Update(ctx context.Context, item *inventory.Item) error {
	q := r.builder.Update(itemsTable).
		Set("name", item.Name).
		Set("category", item.Category).
		Set("selling_price", item.SellingPrice).
		Set("cost_price", item.CostPrice).
		Set("unit", item.Unit).
		Set("is_loose", item.IsLoose).
		Set("gst_percent", item.GSTPercent).
		Set("hsn_code", item.HSNCode).
		Set("barcode", item.Barcode).
		Set("rack_location", item.RackLocation).
		Set("vendor_id", item.VendorID).
		Set("low_stock_threshold", item.LowStockThreshold).
		Set("updated_at", item.UpdatedAt).
		Where(squirrel.Eq{"id": item.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", item.ID)
	}
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	sql, args, err := r.builder.Delete(itemsTable).Where(squirrel.Eq{"id": itemID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID)
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	sql, args, err := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item inventory.Item
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &item, nil
}

func (r *ItemRepo) GetByIDs(ctx context.Context, itemIDs []id.ID) ([]inventory.Item, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	sql, args, err := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"id": itemIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []inventory.Item
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	return items, nil
}

func (r *ItemRepo) List(ctx context.Context) ([]inventory.Item, error) {
	sql, args, err := r.builder.Select(itemColumns...).
		From(itemsTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []inventory.Item
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	return items, nil
}

func (r *ItemRepo) Search(ctx context.Context, query string, limit int) ([]inventory.Item, error) {
	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Or{
			squirrel.ILike{"name": "%" + query + "%"},
			squirrel.Eq{"barcode": query},
		}).
		OrderBy("name").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []inventory.Item
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

func (r *ItemRepo) LowStock(ctx context.Context) ([]inventory.Item, error) {
	q := r.builder.Select(itemColumns...).
		From(itemsTable).
		Where("low_stock_threshold > 0 AND stock <= low_stock_threshold").
		OrderBy("stock")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []inventory.Item
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select low stock: %w", err)
	}
	return items, nil
}

// TryDecrementPieces decrements whole units. The stock check lives in the
// WHERE clause so check and decrement are one atomic statement; zero rows
// affected means insufficient stock and nothing was changed.
func (r *ItemRepo) TryDecrementPieces(ctx context.Context, itemID id.ID, qty int64) (bool, error) {
	return r.tryDecrement(ctx, itemID, float64(qty))
}

// TryDecrementKg decrements a fractional quantity under the same guard.
func (r *ItemRepo) TryDecrementKg(ctx context.Context, itemID id.ID, qty float64) (bool, error) {
	return r.tryDecrement(ctx, itemID, qty)
}

func (r *ItemRepo) tryDecrement(ctx context.Context, itemID id.ID, qty float64) (bool, error) {
	sql := `
		UPDATE items
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, itemID, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ItemRepo) IncrementPieces(ctx context.Context, itemID id.ID, qty int64) error {
	return r.increment(ctx, itemID, float64(qty))
}

func (r *ItemRepo) IncrementKg(ctx context.Context, itemID id.ID, qty float64) error {
	return r.increment(ctx, itemID, qty)
}

func (r *ItemRepo) increment(ctx context.Context, itemID id.ID, qty float64) error {
	sql := `
		UPDATE items
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, itemID, qty)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID)
	}
	return nil
}

// Ensure interface compliance.
var _ inventory.Repository = (*ItemRepo)(nil)
