package calculator

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Balances derives each participant's net position from the expense
// sequence: positive means the participant is owed money, negative
// means they owe. The computation is a full recompute over every
// expense, never incremental, so there is no stale bookkeeping to
// keep consistent.
//
// For each expense the payer is credited with the total and every
// split member is debited their share. Because shares sum exactly to
// the total (see Shares), the returned balances always sum to zero.
func Balances(expenses []models.Expense) (map[string]money.Money, error) {
	balances := make(map[string]money.Money)

	for _, expense := range expenses {
		shares, err := Shares(expense.Total, expense.Split)
		if err != nil {
			return nil, fmt.Errorf("expense %s (%s): %w", expense.ID, expense.Description, err)
		}

		balances[expense.PayerID] = balances[expense.PayerID].Add(expense.Total)
		for id, share := range shares {
			balances[id] = balances[id].Sub(share)
		}
	}

	return balances, nil
}
