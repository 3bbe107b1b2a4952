package models

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/money"
)

// SplitKind tags the split-policy variant of an expense.
type SplitKind string

const (
	// SplitEqual divides the total evenly; leftover minor units go to
	// the first participants in ascending ID order.
	SplitEqual SplitKind = "equal"

	// SplitExact assigns explicit amounts that must sum to the total.
	SplitExact SplitKind = "exact"

	// SplitPercentage assigns percentage shares that must sum to
	// exactly 100; rounding residue is allocated by largest remainder.
	SplitPercentage SplitKind = "percentage"
)

// Split is the closed split-policy variant. Exactly one payload field
// is populated, selected by Kind:
//
//   - SplitEqual: Participants
//   - SplitExact: Amounts
//   - SplitPercentage: Percents
type Split struct {
	Kind SplitKind

	// Participants is the member set for an equal split.
	Participants []string

	// Amounts maps participant ID to their exact share.
	Amounts map[string]money.Money

	// Percents maps participant ID to their percentage share.
	Percents map[string]decimal.Decimal
}

// EqualSplit builds an equal split over the given participant IDs.
func EqualSplit(participantIDs ...string) Split {
	return Split{Kind: SplitEqual, Participants: participantIDs}
}

// ExactSplit builds an exact split from explicit per-participant amounts.
func ExactSplit(amounts map[string]money.Money) Split {
	return Split{Kind: SplitExact, Amounts: amounts}
}

// PercentageSplit builds a percentage split from per-participant percentages.
func PercentageSplit(percents map[string]decimal.Decimal) Split {
	return Split{Kind: SplitPercentage, Percents: percents}
}

// MemberIDs returns the participant IDs covered by the split,
// regardless of variant. Order is unspecified.
func (s Split) MemberIDs() []string {
	switch s.Kind {
	case SplitEqual:
		ids := make([]string, len(s.Participants))
		copy(ids, s.Participants)
		return ids
	case SplitExact:
		ids := make([]string, 0, len(s.Amounts))
		for id := range s.Amounts {
			ids = append(ids, id)
		}
		return ids
	case SplitPercentage:
		ids := make([]string, 0, len(s.Percents))
		for id := range s.Percents {
			ids = append(ids, id)
		}
		return ids
	}
	return nil
}

// Clone returns a deep copy so that callers cannot alias ledger state.
func (s Split) Clone() Split {
	c := Split{Kind: s.Kind}
	if s.Participants != nil {
		c.Participants = make([]string, len(s.Participants))
		copy(c.Participants, s.Participants)
	}
	if s.Amounts != nil {
		c.Amounts = make(map[string]money.Money, len(s.Amounts))
		for id, amt := range s.Amounts {
			c.Amounts[id] = amt
		}
	}
	if s.Percents != nil {
		c.Percents = make(map[string]decimal.Decimal, len(s.Percents))
		for id, pct := range s.Percents {
			c.Percents[id] = pct
		}
	}
	return c
}
