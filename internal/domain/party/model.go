// Package party implements the party ledger: customers and vendors with a
// running balance of what they owe the shop or the shop owes them.
package party

import (
	"time"

	"kiranapos/internal/core/id"
)

// Kind distinguishes the two party ledgers.
type Kind string

const (
	KindCustomer Kind = "CUSTOMER"
	KindVendor   Kind = "VENDOR"
)

// Party is a customer or vendor account.
//
// Balance sign convention: positive means the party owes the shop, negative
// means the shop owes the party. Credit sales push a customer positive;
// credit purchases and expenses push a vendor negative.
type Party struct {
	ID         id.ID     `db:"id"`
	Kind       Kind      `db:"kind"`
	Name       string    `db:"name"`
	Phone      string    `db:"phone"`
	Address    string    `db:"address"`
	UPIID      string    `db:"upi_id"`
	GSTIN      string    `db:"gstin"`
	StateCode  string    `db:"state_code"`
	OpeningDue float64   `db:"opening_due"`
	Balance    float64   `db:"balance"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

