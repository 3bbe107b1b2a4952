package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

func cents(n int64) money.Money { return money.FromUnits(n) }

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// sumShares adds up all computed shares.
func sumShares(shares map[string]money.Money) money.Money {
	var sum money.Money
	for _, s := range shares {
		sum = sum.Add(s)
	}
	return sum
}

func TestEqualShares(t *testing.T) {
	tests := []struct {
		name       string
		total      money.Money
		members    []string
		wantShares map[string]int64
		wantErr    error
	}{
		{
			// 100.00 / 3: remainder cent goes to the first ID.
			name:    "remainder to first by id order",
			total:   cents(10000),
			members: []string{"c", "a", "b"},
			wantShares: map[string]int64{
				"a": 3334, "b": 3333, "c": 3333,
			},
		},
		{
			name:    "divides evenly",
			total:   cents(1000),
			members: []string{"a", "b", "c", "d"},
			wantShares: map[string]int64{
				"a": 250, "b": 250, "c": 250, "d": 250,
			},
		},
		{
			name:    "two cents leftover",
			total:   cents(1001),
			members: []string{"b", "a", "c"},
			wantShares: map[string]int64{
				"a": 334, "b": 334, "c": 333,
			},
		},
		{
			name:    "single participant",
			total:   cents(555),
			members: []string{"a"},
			wantShares: map[string]int64{
				"a": 555,
			},
		},
		{
			name:    "empty member set",
			total:   cents(100),
			members: nil,
			wantErr: ErrEmptySplit,
		},
		{
			name:    "duplicate member",
			total:   cents(100),
			members: []string{"a", "b", "a"},
			wantErr: ErrDuplicateParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Shares(tt.total, models.EqualSplit(tt.members...))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Shares error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Shares failed: %v", err)
			}
			for id, want := range tt.wantShares {
				if got := shares[id].Units(); got != want {
					t.Errorf("share[%s] = %d, want %d", id, got, want)
				}
			}
			if !sumShares(shares).Equal(tt.total) {
				t.Errorf("shares sum to %s, want %s", sumShares(shares), tt.total)
			}
		})
	}
}

func TestExactShares(t *testing.T) {
	t.Run("valid split passes through", func(t *testing.T) {
		shares, err := Shares(cents(1000), models.ExactSplit(map[string]money.Money{
			"a": cents(400),
			"b": cents(600),
		}))
		if err != nil {
			t.Fatalf("Shares failed: %v", err)
		}
		if shares["a"].Units() != 400 || shares["b"].Units() != 600 {
			t.Errorf("shares = %v", shares)
		}
	})

	t.Run("mismatch reports discrepancy", func(t *testing.T) {
		// 9.99 against a 10.00 total: off by exactly one cent.
		_, err := Shares(cents(1000), models.ExactSplit(map[string]money.Money{
			"a": cents(499),
			"b": cents(500),
		}))
		var mismatch *SplitMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("Shares error = %v, want SplitMismatchError", err)
		}
		if mismatch.Diff().Units() != 1 {
			t.Errorf("Diff = %s, want 0.01", mismatch.Diff())
		}
	})

	t.Run("negative share rejected", func(t *testing.T) {
		_, err := Shares(cents(100), models.ExactSplit(map[string]money.Money{
			"a": cents(200),
			"b": cents(-100),
		}))
		if !errors.Is(err, ErrNegativeShare) {
			t.Errorf("Shares error = %v, want ErrNegativeShare", err)
		}
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := Shares(cents(100), models.ExactSplit(nil))
		if !errors.Is(err, ErrEmptySplit) {
			t.Errorf("Shares error = %v, want ErrEmptySplit", err)
		}
	})
}

func TestPercentageShares(t *testing.T) {
	tests := []struct {
		name       string
		total      money.Money
		percents   map[string]decimal.Decimal
		wantShares map[string]int64
		wantErr    error
	}{
		{
			name:  "percentages land on exact cents",
			total: cents(10000),
			percents: map[string]decimal.Decimal{
				"a": pct("33.33"),
				"b": pct("33.33"),
				"c": pct("33.34"),
			},
			// Every share is an exact cent count here: no leftover.
			wantShares: map[string]int64{"a": 3333, "b": 3333, "c": 3334},
		},
		{
			name:  "uneven percentages",
			total: cents(1000), // 10.00
			percents: map[string]decimal.Decimal{
				"a": pct("50"),
				"b": pct("30"),
				"c": pct("20"),
			},
			wantShares: map[string]int64{"a": 500, "b": 300, "c": 200},
		},
		{
			name:  "fractional remainders ranked",
			total: cents(101), // 1.01
			percents: map[string]decimal.Decimal{
				"a": pct("33.4"),  // 33.734 units -> floor 33, frac .734
				"b": pct("33.3"),  // 33.633 units -> floor 33, frac .633
				"c": pct("33.3"),  // 33.633 units -> floor 33, frac .633
			},
			// leftover = 101 - 99 = 2: first to a (largest frac),
			// then to b (ties with c, ascending id).
			wantShares: map[string]int64{"a": 34, "b": 34, "c": 33},
		},
		{
			name:  "sum below 100 rejected",
			total: cents(1000),
			percents: map[string]decimal.Decimal{
				"a": pct("60"),
				"b": pct("39.99"),
			},
			wantErr: ErrPercentTotal,
		},
		{
			name:  "negative percentage rejected",
			total: cents(1000),
			percents: map[string]decimal.Decimal{
				"a": pct("150"),
				"b": pct("-50"),
			},
			wantErr: ErrNegativeShare,
		},
		{
			name:     "empty rejected",
			total:    cents(1000),
			percents: nil,
			wantErr:  ErrEmptySplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Shares(tt.total, models.PercentageSplit(tt.percents))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Shares error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Shares failed: %v", err)
			}
			for id, want := range tt.wantShares {
				if got := shares[id].Units(); got != want {
					t.Errorf("share[%s] = %d, want %d", id, got, want)
				}
			}
			if !sumShares(shares).Equal(tt.total) {
				t.Errorf("shares sum to %s, want %s", sumShares(shares), tt.total)
			}
		})
	}
}

func TestSharesUnknownKind(t *testing.T) {
	_, err := Shares(cents(100), models.Split{Kind: "ratio"})
	if !errors.Is(err, ErrUnknownSplitKind) {
		t.Errorf("Shares error = %v, want ErrUnknownSplitKind", err)
	}
}
