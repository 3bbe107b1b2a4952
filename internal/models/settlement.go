package models

import "github.com/mmynk/splitledger/internal/money"

// Payment is one settling transfer in a settlement plan: From pays
// Amount to To. Plans are derived and ephemeral, never persisted.
type Payment struct {
	// FromID is the debtor making the payment.
	FromID string

	// ToID is the creditor receiving the payment.
	ToID string

	// Amount is the transfer amount. Always positive.
	Amount money.Money
}
