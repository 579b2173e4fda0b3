package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/outbox"
)

const outboxTable = "outbox"

// CompressionAlgo marks how a stored payload is encoded.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// outboxRow is the storage shape. Large payloads (a multi-line sale's
// UPSERT_MANY can run to tens of KB) are stored zstd-compressed; the
// repository decompresses transparently on read.
type outboxRow struct {
	ID                int64             `db:"id"`
	OpID              id.ID             `db:"op_id"`
	EntityType        outbox.EntityType `db:"entity_type"`
	EntityID          string            `db:"entity_id"`
	Kind              outbox.OpKind     `db:"op_kind"`
	Payload           []byte            `db:"payload"`
	PayloadCompressed []byte            `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo   `db:"compression_algo"`
	Status            outbox.Status     `db:"status"`
	Attempts          int               `db:"attempts"`
	LastError         *string           `db:"last_error"`
	CreatedAt         time.Time         `db:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at"`
}

var outboxColumns = []string{
	"id", "op_id", "entity_type", "entity_id", "op_kind",
	"payload", "payload_compressed", "compression_algo",
	"status", "attempts", "last_error", "created_at", "updated_at",
}

// OutboxRepo implements outbox.Repository.
type OutboxRepo struct {
	txManager         *TxManager
	builder           squirrel.StatementBuilderType
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewOutboxRepo creates a new outbox repository.
func NewOutboxRepo(txManager *TxManager) (*OutboxRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &OutboxRepo{
		txManager:         txManager,
		builder:           squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

func (r *OutboxRepo) Enqueue(ctx context.Context, op outbox.Op) (*outbox.Entry, error) {
	now := time.Now()
	row := outboxRow{
		OpID:            id.New(),
		EntityType:      op.EntityType,
		EntityID:        op.EntityID,
		Kind:            op.Kind,
		Payload:         op.Payload,
		CompressionAlgo: CompressionNone,
		Status:          outbox.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if len(op.Payload) > r.compressThreshold {
		row.PayloadCompressed = r.encoder.EncodeAll(op.Payload, nil)
		row.Payload = nil
		row.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO outbox (
			op_id, entity_type, entity_id, op_kind,
			payload, payload_compressed, compression_algo,
			status, attempts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10)
		RETURNING id
	`
	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql,
		row.OpID, row.EntityType, row.EntityID, row.Kind,
		row.Payload, row.PayloadCompressed, row.CompressionAlgo,
		row.Status, row.CreatedAt, row.UpdatedAt,
	).Scan(&row.ID)
	if err != nil {
		return nil, fmt.Errorf("insert outbox entry: %w", err)
	}

	return r.toEntry(&row)
}

func (r *OutboxRepo) GetPending(ctx context.Context, limit int) ([]outbox.Entry, error) {
	return r.byStatus(ctx, outbox.StatusPending, limit)
}

func (r *OutboxRepo) GetFailed(ctx context.Context, limit int) ([]outbox.Entry, error) {
	return r.byStatus(ctx, outbox.StatusFailed, limit)
}

func (r *OutboxRepo) byStatus(ctx context.Context, status outbox.Status, limit int) ([]outbox.Entry, error) {
	sql, args, err := r.builder.Select(outboxColumns...).
		From(outboxTable).
		Where(squirrel.Eq{"status": status}).
		OrderBy("id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []outboxRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select outbox entries: %w", err)
	}
	return r.toEntries(rows)
}

func (r *OutboxRepo) GetByID(ctx context.Context, entryID int64) (*outbox.Entry, error) {
	sql, args, err := r.builder.Select(outboxColumns...).
		From(outboxTable).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row outboxRow
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("outbox entry", entryID)
		}
		return nil, fmt.Errorf("get outbox entry: %w", err)
	}
	return r.toEntry(&row)
}

func (r *OutboxRepo) MarkAttempt(ctx context.Context, entryID int64) error {
	sql := `
		UPDATE outbox
		SET attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, sql, entryID)
}

func (r *OutboxRepo) MarkDone(ctx context.Context, entryID int64) error {
	sql := `
		UPDATE outbox
		SET status = 'DONE', last_error = NULL, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, sql, entryID)
}

func (r *OutboxRepo) MarkFailed(ctx context.Context, entryID int64, reason string) error {
	sql := `
		UPDATE outbox
		SET status = 'FAILED', last_error = $2, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, sql, entryID, reason)
}

func (r *OutboxRepo) ResetToPending(ctx context.Context, entryID int64) error {
	sql := `
		UPDATE outbox
		SET status = 'PENDING', last_error = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'FAILED'
	`
	return r.exec(ctx, sql, entryID)
}

func (r *OutboxRepo) ResetAllFailed(ctx context.Context) (int64, error) {
	sql := `
		UPDATE outbox
		SET status = 'PENDING', last_error = NULL, updated_at = NOW()
		WHERE status = 'FAILED'
	`
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql)
	if err != nil {
		return 0, fmt.Errorf("reset failed entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OutboxRepo) ClearDone(ctx context.Context) (int64, error) {
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, `DELETE FROM outbox WHERE status = 'DONE'`)
	if err != nil {
		return 0, fmt.Errorf("clear done entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OutboxRepo) ClearAll(ctx context.Context) (int64, error) {
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, `DELETE FROM outbox`)
	if err != nil {
		return 0, fmt.Errorf("clear outbox: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OutboxRepo) PendingCount(ctx context.Context) (int64, error) {
	return r.count(ctx, outbox.StatusPending)
}

func (r *OutboxRepo) FailedCount(ctx context.Context) (int64, error) {
	return r.count(ctx, outbox.StatusFailed)
}

func (r *OutboxRepo) count(ctx context.Context, status outbox.Status) (int64, error) {
	var n int64
	err := r.txManager.GetQuerier(ctx).
		QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE status = $1`, status).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count outbox entries: %w", err)
	}
	return n, nil
}

func (r *OutboxRepo) Recent(ctx context.Context, limit int) ([]outbox.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	sql, args, err := r.builder.Select(outboxColumns...).
		From(outboxTable).
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []outboxRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select recent entries: %w", err)
	}
	return r.toEntries(rows)
}

func (r *OutboxRepo) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update outbox entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("outbox entry", args[0])
	}
	return nil
}

func (r *OutboxRepo) toEntry(row *outboxRow) (*outbox.Entry, error) {
	payload := row.Payload
	if row.CompressionAlgo == CompressionZstd {
		decompressed, err := r.decoder.DecodeAll(row.PayloadCompressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress payload: %w", err)
		}
		payload = decompressed
	}
	return &outbox.Entry{
		ID:         row.ID,
		OpID:       row.OpID,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		Kind:       row.Kind,
		Payload:    payload,
		Status:     row.Status,
		Attempts:   row.Attempts,
		LastError:  row.LastError,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func (r *OutboxRepo) toEntries(rows []outboxRow) ([]outbox.Entry, error) {
	entries := make([]outbox.Entry, 0, len(rows))
	for i := range rows {
		e, err := r.toEntry(&rows[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

// Ensure interface compliance.
var _ outbox.Repository = (*OutboxRepo)(nil)
