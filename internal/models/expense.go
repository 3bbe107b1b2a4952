package models

import "github.com/mmynk/splitledger/internal/money"

// Expense represents one shared cost recorded in the ledger.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable label (e.g. "dinner").
	Description string

	// Total is the full amount paid. Always positive.
	Total money.Money

	// PayerID references the participant who paid the total.
	PayerID string

	// Split determines how the total is shared. Its computed shares
	// always sum exactly to Total.
	Split Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	// Expenses keep insertion order for audit history; the order has
	// no financial significance.
	CreatedAt int64
}

// Clone returns a deep copy of the expense.
func (e Expense) Clone() Expense {
	c := e
	c.Split = e.Split.Clone()
	return c
}
