package calculator

import (
	"testing"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

func TestBalances(t *testing.T) {
	tests := []struct {
		name     string
		expenses []models.Expense
		want     map[string]int64
	}{
		{
			// "dinner" 100.00 paid by A, split equally among A,B,C.
			// Shares: A 33.34 (first by id), B 33.33, C 33.33.
			name: "equal dinner split",
			expenses: []models.Expense{
				{
					ID: "e1", Description: "dinner", Total: cents(10000),
					PayerID: "A", Split: models.EqualSplit("A", "B", "C"),
				},
			},
			want: map[string]int64{"A": 6666, "B": -3333, "C": -3333},
		},
		{
			// 10.00 paid by B, exact split A:4.00 B:6.00.
			name: "exact split",
			expenses: []models.Expense{
				{
					ID: "e1", Total: cents(1000), PayerID: "B",
					Split: models.ExactSplit(map[string]money.Money{
						"A": cents(400),
						"B": cents(600),
					}),
				},
			},
			want: map[string]int64{"A": -400, "B": 400},
		},
		{
			// Payer outside the split owes nothing, is owed everything.
			name: "payer not in split",
			expenses: []models.Expense{
				{
					ID: "e1", Total: cents(900), PayerID: "C",
					Split: models.EqualSplit("A", "B"),
				},
			},
			want: map[string]int64{"A": -450, "B": -450, "C": 900},
		},
		{
			// Two expenses cancel out.
			name: "mutual expenses net to zero",
			expenses: []models.Expense{
				{ID: "e1", Total: cents(500), PayerID: "A", Split: models.EqualSplit("B")},
				{ID: "e2", Total: cents(500), PayerID: "B", Split: models.EqualSplit("A")},
			},
			want: map[string]int64{"A": 0, "B": 0},
		},
		{
			name:     "empty ledger",
			expenses: nil,
			want:     map[string]int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, err := Balances(tt.expenses)
			if err != nil {
				t.Fatalf("Balances failed: %v", err)
			}
			if len(balances) != len(tt.want) {
				t.Errorf("got %d balances, want %d", len(balances), len(tt.want))
			}
			for id, want := range tt.want {
				if got := balances[id].Units(); got != want {
					t.Errorf("balance[%s] = %d, want %d", id, got, want)
				}
			}

			// Zero-sum invariant holds for every ledger.
			var sum money.Money
			for _, b := range balances {
				sum = sum.Add(b)
			}
			if !sum.IsZero() {
				t.Errorf("balances sum to %s, want zero", sum)
			}
		})
	}
}

func TestBalancesPropagatesShareErrors(t *testing.T) {
	_, err := Balances([]models.Expense{
		{ID: "bad", Total: cents(1000), PayerID: "A", Split: models.EqualSplit()},
	})
	if err == nil {
		t.Fatal("Balances accepted an invalid split")
	}
}
