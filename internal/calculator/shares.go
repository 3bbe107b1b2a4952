// Package calculator holds the pure arithmetic of the ledger: split
// share computation, balance derivation, and settlement planning.
// Nothing in this package mutates state or performs I/O.
package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

var (
	// ErrEmptySplit is returned when a split covers no participants.
	ErrEmptySplit = errors.New("split has no participants")

	// ErrDuplicateParticipant is returned when a participant appears
	// more than once in an equal split's member list.
	ErrDuplicateParticipant = errors.New("duplicate participant in split")

	// ErrNegativeShare is returned when an exact amount or percentage
	// is negative.
	ErrNegativeShare = errors.New("share must not be negative")

	// ErrPercentTotal is returned when percentage shares do not sum
	// to exactly 100.
	ErrPercentTotal = errors.New("percentages must sum to exactly 100")

	// ErrUnknownSplitKind is returned for a split kind this package
	// does not recognize. Hitting it means a new variant was added
	// without teaching the calculator about it.
	ErrUnknownSplitKind = errors.New("unknown split kind")
)

// SplitMismatchError reports an exact split whose shares do not sum
// to the expense total.
type SplitMismatchError struct {
	Total money.Money // expense total
	Sum   money.Money // what the shares actually sum to
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("exact shares sum to %s, want %s (off by %s)", e.Sum, e.Total, e.Diff())
}

// Diff returns the magnitude of the discrepancy.
func (e *SplitMismatchError) Diff() money.Money {
	return e.Total.Sub(e.Sum).Abs()
}

var hundred = decimal.NewFromInt(100)

// Shares computes each member's share of total under the given split
// policy. The returned shares always sum to total exactly; leftover
// minor units are allocated deterministically so the same input
// always yields the same allocation.
func Shares(total money.Money, split models.Split) (map[string]money.Money, error) {
	switch split.Kind {
	case models.SplitEqual:
		return equalShares(total, split.Participants)
	case models.SplitExact:
		return exactShares(total, split.Amounts)
	case models.SplitPercentage:
		return percentageShares(total, split.Percents)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitKind, split.Kind)
	}
}

// equalShares divides total evenly; the leftover minor units go one
// each to the first participants in ascending ID order, so the
// allocation is reproducible and auditable.
func equalShares(total money.Money, participantIDs []string) (map[string]money.Money, error) {
	if len(participantIDs) == 0 {
		return nil, ErrEmptySplit
	}

	ids := make([]string, len(participantIDs))
	copy(ids, participantIDs)
	sort.Strings(ids)
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, ids[i])
		}
	}

	base, rem, err := total.DivRem(int64(len(ids)))
	if err != nil {
		return nil, err
	}

	shares := make(map[string]money.Money, len(ids))
	extra := rem.Units()
	for i, id := range ids {
		share := base
		if int64(i) < extra {
			share = share.Add(money.FromUnits(1))
		}
		shares[id] = share
	}
	return shares, nil
}

// exactShares validates explicit amounts against the total. No
// computation happens here; a sum mismatch is the caller's mistake
// and is reported with the discrepancy amount.
func exactShares(total money.Money, amounts map[string]money.Money) (map[string]money.Money, error) {
	if len(amounts) == 0 {
		return nil, ErrEmptySplit
	}

	var sum money.Money
	shares := make(map[string]money.Money, len(amounts))
	for id, amt := range amounts {
		if amt.IsNegative() {
			return nil, fmt.Errorf("%w: %s has %s", ErrNegativeShare, id, amt)
		}
		shares[id] = amt
		sum = sum.Add(amt)
	}
	if !sum.Equal(total) {
		return nil, &SplitMismatchError{Total: total, Sum: sum}
	}
	return shares, nil
}

// percentageShares apportions total by percentage using the largest
// remainder method: every share is floored to minor units, then the
// leftover units are handed out to the participants with the largest
// fractional remainders first, ties broken by ascending ID. This
// minimizes cumulative rounding bias.
func percentageShares(total money.Money, percents map[string]decimal.Decimal) (map[string]money.Money, error) {
	if len(percents) == 0 {
		return nil, ErrEmptySplit
	}

	percentSum := decimal.Zero
	for id, pct := range percents {
		if pct.IsNegative() {
			return nil, fmt.Errorf("%w: %s has %s%%", ErrNegativeShare, id, pct)
		}
		percentSum = percentSum.Add(pct)
	}
	if !percentSum.Equal(hundred) {
		return nil, fmt.Errorf("%w: got %s", ErrPercentTotal, percentSum)
	}

	type allocation struct {
		id       string
		floor    int64
		fraction decimal.Decimal
	}

	totalUnits := decimal.NewFromInt(total.Units())
	allocs := make([]allocation, 0, len(percents))
	var assigned int64
	for id, pct := range percents {
		// exact = units * pct / 100, computed with exact decimal
		// multiplication only (Shift(-2) divides by 100 losslessly).
		exact := totalUnits.Mul(pct.Shift(-2))
		floor := exact.Floor()
		allocs = append(allocs, allocation{
			id:       id,
			floor:    floor.IntPart(),
			fraction: exact.Sub(floor),
		})
		assigned += floor.IntPart()
	}

	leftover := total.Units() - assigned
	sort.Slice(allocs, func(i, j int) bool {
		if c := allocs[i].fraction.Cmp(allocs[j].fraction); c != 0 {
			return c > 0
		}
		return allocs[i].id < allocs[j].id
	})

	shares := make(map[string]money.Money, len(allocs))
	for i, a := range allocs {
		units := a.floor
		if int64(i) < leftover {
			units++
		}
		shares[a.id] = money.FromUnits(units)
	}
	return shares, nil
}
