// Package codec converts ledger state to and from its persisted JSON
// representation. The encoding is versioned and strict: decoding
// rejects unknown fields, unknown split kinds, dangling references,
// and splits whose shares no longer sum to their totals, rather than
// silently dropping or coercing anything. Round-trips are exact,
// including Money values (encoded as fixed-scale decimal strings).
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Version is the current snapshot format version.
const Version = 1

// ErrLedgerCorrupt is wrapped by every decode failure.
var ErrLedgerCorrupt = errors.New("ledger data is corrupt")

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrLedgerCorrupt, fmt.Sprintf(format, args...))
}

type snapshot struct {
	Version      int                 `json:"version"`
	Participants []participantRecord `json:"participants"`
	Expenses     []expenseRecord     `json:"expenses"`
}

type participantRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Archived  bool   `json:"archived,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type expenseRecord struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Total       money.Money `json:"total"`
	PayerID     string      `json:"payer_id"`
	Split       splitRecord `json:"split"`
	CreatedAt   int64       `json:"created_at"`
}

type splitRecord struct {
	Kind         string                     `json:"kind"`
	Participants []string                   `json:"participants,omitempty"`
	Amounts      map[string]money.Money     `json:"amounts,omitempty"`
	Percents     map[string]decimal.Decimal `json:"percents,omitempty"`
}

// Marshal serializes the ledger into its persisted representation.
// Output is deterministic: participants in registration order,
// expenses in insertion order, map keys sorted by encoding/json.
func Marshal(l *ledger.Ledger) ([]byte, error) {
	participants := l.Participants()
	expenses := l.Expenses()

	snap := snapshot{
		Version:      Version,
		Participants: make([]participantRecord, len(participants)),
		Expenses:     make([]expenseRecord, len(expenses)),
	}
	for i, p := range participants {
		snap.Participants[i] = participantRecord{
			ID:        p.ID,
			Name:      p.Name,
			Archived:  p.Archived,
			CreatedAt: p.CreatedAt,
		}
	}
	for i, e := range expenses {
		snap.Expenses[i] = expenseRecord{
			ID:          e.ID,
			Description: e.Description,
			Total:       e.Total,
			PayerID:     e.PayerID,
			Split: splitRecord{
				Kind:         string(e.Split.Kind),
				Participants: e.Split.Participants,
				Amounts:      e.Split.Amounts,
				Percents:     e.Split.Percents,
			},
			CreatedAt: e.CreatedAt,
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding ledger: %w", err)
	}
	return data, nil
}

// Unmarshal rebuilds a ledger from its persisted representation. Any
// structural or semantic defect fails with an error wrapping
// ErrLedgerCorrupt; partial data is never returned.
func Unmarshal(data []byte) (*ledger.Ledger, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var snap snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, corrupt("decoding snapshot: %v", err)
	}
	if snap.Version != Version {
		return nil, corrupt("unsupported snapshot version %d", snap.Version)
	}

	participants := make([]models.Participant, len(snap.Participants))
	for i, p := range snap.Participants {
		participants[i] = models.Participant{
			ID:        p.ID,
			Name:      p.Name,
			Archived:  p.Archived,
			CreatedAt: p.CreatedAt,
		}
	}

	expenses := make([]models.Expense, len(snap.Expenses))
	for i, e := range snap.Expenses {
		split, err := decodeSplit(e.Split)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		expenses[i] = models.Expense{
			ID:          e.ID,
			Description: e.Description,
			Total:       e.Total,
			PayerID:     e.PayerID,
			Split:       split,
			CreatedAt:   e.CreatedAt,
		}
	}

	l, err := ledger.Restore(participants, expenses)
	if err != nil {
		return nil, corrupt("%v", err)
	}
	return l, nil
}

// decodeSplit maps a persisted split onto the closed variant. Exactly
// the payload field matching the declared kind must be populated; a
// stray payload would be dropped on rebuild, so it is a defect.
func decodeSplit(rec splitRecord) (models.Split, error) {
	switch models.SplitKind(rec.Kind) {
	case models.SplitEqual:
		if len(rec.Participants) == 0 {
			return models.Split{}, corrupt("equal split without participants")
		}
		if len(rec.Amounts) > 0 || len(rec.Percents) > 0 {
			return models.Split{}, corrupt("equal split carries a foreign payload")
		}
		return models.EqualSplit(rec.Participants...), nil
	case models.SplitExact:
		if len(rec.Amounts) == 0 {
			return models.Split{}, corrupt("exact split without amounts")
		}
		if len(rec.Participants) > 0 || len(rec.Percents) > 0 {
			return models.Split{}, corrupt("exact split carries a foreign payload")
		}
		return models.ExactSplit(rec.Amounts), nil
	case models.SplitPercentage:
		if len(rec.Percents) == 0 {
			return models.Split{}, corrupt("percentage split without percents")
		}
		if len(rec.Participants) > 0 || len(rec.Amounts) > 0 {
			return models.Split{}, corrupt("percentage split carries a foreign payload")
		}
		return models.PercentageSplit(rec.Percents), nil
	default:
		return models.Split{}, corrupt("unknown split kind %q", rec.Kind)
	}
}
