// Package outbox implements the durable operation queue that feeds the sync
// engine. Every local mutation enqueues exactly one entry inside the same
// transaction that performed the mutation, so the queue never references
// state that was rolled back.
package outbox

import (
	"time"

	"kiranapos/internal/core/id"
)

// Status of a queued operation.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusFailed  Status = "FAILED"
	StatusDone    Status = "DONE"
)

// EntityType names the aggregate an operation applies to.
type EntityType string

const (
	EntityItem            EntityType = "ITEM"
	EntityParty           EntityType = "PARTY"
	EntityTransaction     EntityType = "TRANSACTION"
	EntityTransactionItem EntityType = "TRANSACTION_ITEM"
	EntityReminder        EntityType = "REMINDER"
)

// OpKind names the mutation to replay against the remote store.
type OpKind string

const (
	OpUpsert               OpKind = "UPSERT"
	OpUpsertMany           OpKind = "UPSERT_MANY"
	OpDelete               OpKind = "DELETE"
	OpUpsertCustomer       OpKind = "UPSERT_CUSTOMER"
	OpUpsertVendor         OpKind = "UPSERT_VENDOR"
	OpCreateSale           OpKind = "CREATE_SALE"
	OpCreatePayment        OpKind = "CREATE_PAYMENT"
	OpCreateVendorPurchase OpKind = "CREATE_VENDOR_PURCHASE"
	OpCreateExpense        OpKind = "CREATE_EXPENSE"
	OpEditTransaction      OpKind = "EDIT_TRANSACTION"
	OpCreateAdjustment     OpKind = "CREATE_ADJUSTMENT"
	OpFinalizeTransaction  OpKind = "FINALIZE_TRANSACTION"
	OpVoidTransaction      OpKind = "VOID_TRANSACTION"
	OpMarkDone             OpKind = "MARK_DONE"
)

// knownEntities and knownOps gate what the codec will accept off the wire.
var knownEntities = map[EntityType]bool{
	EntityItem:            true,
	EntityParty:           true,
	EntityTransaction:     true,
	EntityTransactionItem: true,
	EntityReminder:        true,
}

var knownOps = map[OpKind]bool{
	OpUpsert:               true,
	OpUpsertMany:           true,
	OpDelete:               true,
	OpUpsertCustomer:       true,
	OpUpsertVendor:         true,
	OpCreateSale:           true,
	OpCreatePayment:        true,
	OpCreateVendorPurchase: true,
	OpCreateExpense:        true,
	OpEditTransaction:      true,
	OpCreateAdjustment:     true,
	OpFinalizeTransaction:  true,
	OpVoidTransaction:      true,
	OpMarkDone:             true,
}

// KnownEntity reports whether t is a recognized entity type.
func KnownEntity(t EntityType) bool { return knownEntities[t] }

// KnownOp reports whether k is a recognized operation kind.
func KnownOp(k OpKind) bool { return knownOps[k] }

// Op describes a mutation to enqueue. Payload is the JSON document the
// remote applies; it is immutable once enqueued.
type Op struct {
	EntityType EntityType
	EntityID   string
	Kind       OpKind
	Payload    []byte
}

// Entry is a persisted outbox row. ID is a local serial so draining in ID
// order replays operations in the order they were committed.
type Entry struct {
	ID         int64      `db:"id"`
	OpID       id.ID      `db:"op_id"`
	EntityType EntityType `db:"entity_type"`
	EntityID   string     `db:"entity_id"`
	Kind       OpKind     `db:"op_kind"`
	Payload    []byte     `db:"payload"`
	Status     Status     `db:"status"`
	Attempts   int        `db:"attempts"`
	LastError  *string    `db:"last_error"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}
