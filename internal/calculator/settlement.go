package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// UnbalancedError reports a balance mapping that does not sum to
// zero. It indicates a logic bug upstream (shares not summing to
// totals), not a recoverable user condition.
type UnbalancedError struct {
	Sum money.Money
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("balances sum to %s, want 0.00", e.Sum)
}

// party is one side of the settlement matching.
type party struct {
	id     string
	amount money.Money // always positive: credit or debt magnitude
}

// Settle reduces a zero-sum balance mapping to a minimal-or-near set
// of payments that zero every balance.
//
// Greedy matching: repeatedly pair the largest creditor with the
// largest debtor and transfer min(credit, debt). Each transfer fully
// settles at least one party, so the plan never exceeds
// (non-zero participants - 1) payments. Ties on magnitude are broken
// by ascending participant ID, making the plan deterministic: the
// same balances always produce the same payment sequence.
func Settle(balances map[string]money.Money) ([]models.Payment, error) {
	var sum money.Money
	var creditors, debtors []party
	for id, balance := range balances {
		sum = sum.Add(balance)
		switch {
		case balance.IsPositive():
			creditors = append(creditors, party{id: id, amount: balance})
		case balance.IsNegative():
			debtors = append(debtors, party{id: id, amount: balance.Neg()})
		}
	}
	if !sum.IsZero() {
		return nil, &UnbalancedError{Sum: sum}
	}

	// Largest amount first, ties by ascending ID. The slices are
	// re-sorted after each transfer; ledgers are small enough that
	// this never matters.
	byMagnitude := func(parties []party) func(i, j int) bool {
		return func(i, j int) bool {
			if c := parties[i].amount.Cmp(parties[j].amount); c != 0 {
				return c > 0
			}
			return parties[i].id < parties[j].id
		}
	}

	var payments []models.Payment
	for len(creditors) > 0 && len(debtors) > 0 {
		sort.Slice(creditors, byMagnitude(creditors))
		sort.Slice(debtors, byMagnitude(debtors))

		creditor := &creditors[0]
		debtor := &debtors[0]

		amount := creditor.amount
		if debtor.amount.Cmp(amount) < 0 {
			amount = debtor.amount
		}

		payments = append(payments, models.Payment{
			FromID: debtor.id,
			ToID:   creditor.id,
			Amount: amount,
		})

		creditor.amount = creditor.amount.Sub(amount)
		debtor.amount = debtor.amount.Sub(amount)
		if creditor.amount.IsZero() {
			creditors = creditors[1:]
		}
		if debtor.amount.IsZero() {
			debtors = debtors[1:]
		}
	}

	return payments, nil
}
