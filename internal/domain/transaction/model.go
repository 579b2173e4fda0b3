// Package transaction implements the transaction store: the state machine
// over recorded sales, expenses, and payments, and the orchestration of
// stock, balance, and audit writes as single units of work.
package transaction

import (
	"time"

	"kiranapos/internal/core/id"
	"kiranapos/internal/core/types"
)

// Type of a recorded transaction.
type Type string

const (
	TypeSale    Type = "SALE"
	TypeExpense Type = "EXPENSE"
	TypeIncome  Type = "INCOME"
)

// PaymentMode of a transaction.
type PaymentMode string

const (
	ModeCash   PaymentMode = "CASH"
	ModeUPI    PaymentMode = "UPI"
	ModeCredit PaymentMode = "CREDIT"
)

// Status is the state machine position.
//
// DRAFT and POSTED are editable (by role), FINALIZED accepts only
// adjustments, ADJUSTED and VOIDED are terminal.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPosted    Status = "POSTED"
	StatusFinalized Status = "FINALIZED"
	StatusAdjusted  Status = "ADJUSTED"
	StatusVoided    Status = "VOIDED"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusAdjusted || s == StatusVoided
}

// AdjustmentKind classifies an adjustment by its net amount change.
type AdjustmentKind string

const (
	CreditNote AdjustmentKind = "CREDIT_NOTE"
	DebitNote  AdjustmentKind = "DEBIT_NOTE"
)

// Transaction is the header row. Amount always equals the sum of the
// current lines' unit price times quantity.
type Transaction struct {
	ID             id.ID       `db:"id"`
	Type           Type        `db:"type"`
	Amount         float64     `db:"amount"`
	PaymentMode    PaymentMode `db:"payment_mode"`
	PartyID        *id.ID      `db:"party_id"`
	Status         Status      `db:"status"`
	GSTFiledPeriod *string     `db:"gst_filed_period"`
	Note           string      `db:"note"`
	OccurredAt     time.Time   `db:"occurred_at"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

// Line is one line item. ItemID is nullable so the row survives the
// referenced item being deleted; ItemName and UnitPrice are snapshots taken
// at sale time.
type Line struct {
	ID            id.ID     `db:"id"`
	TransactionID id.ID     `db:"transaction_id"`
	ItemID        *id.ID    `db:"item_id"`
	ItemName      string    `db:"item_name"`
	Quantity      float64   `db:"quantity"`
	Unit          string    `db:"unit"` // PCS or KG
	UnitPrice     float64   `db:"unit_price"`
	GSTPercent    float64   `db:"gst_percent"`
	TaxableValue  float64   `db:"taxable_value"`
	CGST          float64   `db:"cgst"`
	SGST          float64   `db:"sgst"`
	IGST          float64   `db:"igst"`
	CreatedAt     time.Time `db:"created_at"`
}

// Total is the tax-inclusive line total.
func (l *Line) Total() float64 {
	return types.RoundPaise(l.UnitPrice * l.Quantity)
}

// applyTax stamps the line's tax snapshot from its current total.
func (l *Line) applyTax() {
	b := types.SplitGST(l.Total(), l.GSTPercent)
	l.TaxableValue = b.TaxableValue
	l.CGST = b.CGST
	l.SGST = b.SGST
	l.IGST = b.IGST
}

// Adjustment is an immutable correction to a finalized transaction. It
// never rewrites the original lines; the deltas are the record.
type Adjustment struct {
	ID              id.ID          `db:"id"`
	TransactionID   id.ID          `db:"transaction_id"`
	Kind            AdjustmentKind `db:"kind"`
	NetAmountChange float64        `db:"net_amount_change"`
	Reason          string         `db:"reason"`
	CreatedAt       time.Time      `db:"created_at"`

	Items []AdjustmentItem `db:"-"`
}

// AdjustmentItem is one signed per-item delta within an adjustment.
type AdjustmentItem struct {
	ID            id.ID   `db:"id"`
	AdjustmentID  id.ID   `db:"adjustment_id"`
	ItemID        *id.ID  `db:"item_id"`
	QuantityDelta float64 `db:"quantity_delta"`
	PriceDelta    float64 `db:"price_delta"`
	TaxDelta      float64 `db:"tax_delta"`
}

// --- request types ---

// SaleLine is one requested line of a new sale.
type SaleLine struct {
	ItemID   id.ID
	Quantity float64
}

// SaleRequest describes a new sale.
type SaleRequest struct {
	Lines       []SaleLine
	PaymentMode PaymentMode
	PartyID     *id.ID
	Note        string
}

// EditLine changes one existing line. NewUnitPrice nil keeps the old price.
type EditLine struct {
	LineID       id.ID
	NewQuantity  float64
	NewUnitPrice *float64
}

// EditRequest describes a direct edit of a DRAFT or POSTED transaction.
// Nil header fields are left unchanged. Reason is mandatory.
type EditRequest struct {
	Lines       []EditLine
	PaymentMode *PaymentMode
	Note        *string
	Reason      string
}

// DeltaItem is one signed per-item delta of an adjustment request.
type DeltaItem struct {
	ItemID        id.ID
	QuantityDelta float64
	PriceDelta    float64
	TaxDelta      float64
}

// AdjustmentRequest describes an adjustment to a FINALIZED transaction.
type AdjustmentRequest struct {
	Deltas []DeltaItem
	Reason string
}

// PurchaseLine is one received line of a vendor purchase.
type PurchaseLine struct {
	ItemID    id.ID
	Quantity  float64
	CostPrice float64
}

// PurchaseRequest describes goods received from a vendor.
type PurchaseRequest struct {
	VendorID    id.ID
	Lines       []PurchaseLine
	PaymentMode PaymentMode
	Note        string
}

// PaymentRequest describes a settlement against a party balance.
type PaymentRequest struct {
	PartyID id.ID
	Amount  float64
	Mode    PaymentMode
	Note    string
}

// ExpenseRequest describes a standalone expense, optionally on vendor credit.
type ExpenseRequest struct {
	Amount      float64
	PaymentMode PaymentMode
	VendorID    *id.ID
	Note        string
}
