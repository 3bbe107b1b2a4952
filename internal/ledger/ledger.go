// Package ledger implements the owned ledger aggregate: the
// participant registry and the ordered expense sequence, mutated
// through explicit commands. Every mutation validates fully before
// committing, so a failed operation leaves the ledger unchanged.
//
// The aggregate does no locking: the engine assumes a single writer
// (spec'd single-user model). Concurrent callers must serialize
// access themselves, as internal/service does.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Ledger owns the participant registry and the expense sequence.
type Ledger struct {
	participants map[string]*models.Participant
	// participantOrder preserves registration order for listing.
	participantOrder []string
	// expenses keep insertion order for audit history. The order has
	// no financial meaning; balances are order-independent.
	expenses []models.Expense
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		participants: make(map[string]*models.Participant),
	}
}

// Record validates and appends a new expense, returning the stored
// record with its assigned ID and timestamp.
func (l *Ledger) Record(description string, total money.Money, payerID string, split models.Split) (models.Expense, error) {
	expense := models.Expense{
		ID:          uuid.New().String(),
		Description: description,
		Total:       total,
		PayerID:     payerID,
		Split:       split.Clone(),
		CreatedAt:   time.Now().Unix(),
	}
	if err := l.validateExpense(expense); err != nil {
		return models.Expense{}, err
	}

	l.expenses = append(l.expenses, expense)
	return expense.Clone(), nil
}

// Edit replaces the mutable fields of an existing expense. The ID and
// creation timestamp are preserved; everything else is validated the
// same way Record validates.
func (l *Ledger) Edit(id, description string, total money.Money, payerID string, split models.Split) (models.Expense, error) {
	idx := l.expenseIndex(id)
	if idx < 0 {
		return models.Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}

	expense := models.Expense{
		ID:          id,
		Description: description,
		Total:       total,
		PayerID:     payerID,
		Split:       split.Clone(),
		CreatedAt:   l.expenses[idx].CreatedAt,
	}
	if err := l.validateExpense(expense); err != nil {
		return models.Expense{}, err
	}

	l.expenses[idx] = expense
	return expense.Clone(), nil
}

// Delete removes an expense. There are no side effects beyond
// dropping the record: balances are always recomputed from scratch.
func (l *Ledger) Delete(id string) error {
	idx := l.expenseIndex(id)
	if idx < 0 {
		return fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	l.expenses = append(l.expenses[:idx], l.expenses[idx+1:]...)
	return nil
}

// Expense returns a copy of the expense with the given ID.
func (l *Ledger) Expense(id string) (models.Expense, error) {
	idx := l.expenseIndex(id)
	if idx < 0 {
		return models.Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	return l.expenses[idx].Clone(), nil
}

// Expenses returns copies of all expenses in insertion order.
func (l *Ledger) Expenses() []models.Expense {
	out := make([]models.Expense, len(l.expenses))
	for i, e := range l.expenses {
		out[i] = e.Clone()
	}
	return out
}

// Balances derives the net position of every registered participant.
// Participants untouched by any expense report an explicit zero, and
// archived participants keep whatever history says they owe or are
// owed.
func (l *Ledger) Balances() (map[string]money.Money, error) {
	balances, err := calculator.Balances(l.expenses)
	if err != nil {
		return nil, err
	}
	for id := range l.participants {
		if _, ok := balances[id]; !ok {
			balances[id] = money.Money{}
		}
	}
	return balances, nil
}

// Settlement derives the current settlement plan from the balances.
func (l *Ledger) Settlement() ([]models.Payment, error) {
	balances, err := l.Balances()
	if err != nil {
		return nil, err
	}
	return calculator.Settle(balances)
}

// validateExpense checks every invariant before any mutation: a
// positive total, a registered non-archived payer, registered
// non-archived split members, and shares that sum exactly to the
// total (delegated to the calculator).
func (l *Ledger) validateExpense(expense models.Expense) error {
	if expense.Description == "" {
		return ErrEmptyDescription
	}
	if !expense.Total.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrNonPositiveAmount, expense.Total)
	}
	if err := l.requireActive(expense.PayerID); err != nil {
		return fmt.Errorf("payer: %w", err)
	}
	for _, id := range expense.Split.MemberIDs() {
		if err := l.requireActive(id); err != nil {
			return fmt.Errorf("split member: %w", err)
		}
	}
	if _, err := calculator.Shares(expense.Total, expense.Split); err != nil {
		return err
	}
	return nil
}

// requireActive verifies the participant exists and is not archived.
func (l *Ledger) requireActive(id string) error {
	p, ok := l.participants[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
	}
	if p.Archived {
		return fmt.Errorf("%w: %s", ErrArchivedParticipant, id)
	}
	return nil
}

func (l *Ledger) expenseIndex(id string) int {
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			return i
		}
	}
	return -1
}

// referencesParticipant reports whether any expense names the
// participant as payer or split member.
func (l *Ledger) referencesParticipant(id string) bool {
	for i := range l.expenses {
		if l.expenses[i].PayerID == id {
			return true
		}
		for _, member := range l.expenses[i].Split.MemberIDs() {
			if member == id {
				return true
			}
		}
	}
	return false
}

// Restore rebuilds a ledger from persisted state. Unlike Record it
// tolerates archived references (they are history) but still rejects
// unknown participants, non-positive totals, and splits whose shares
// do not sum to the total. The error describes the first violation.
func Restore(participants []models.Participant, expenses []models.Expense) (*Ledger, error) {
	l := New()
	for _, p := range participants {
		if p.ID == "" {
			return nil, fmt.Errorf("participant %q: missing id", p.Name)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("participant %s: %w", p.ID, ErrEmptyName)
		}
		if _, exists := l.participants[p.ID]; exists {
			return nil, fmt.Errorf("participant %s: duplicate id", p.ID)
		}
		stored := p
		l.participants[p.ID] = &stored
		l.participantOrder = append(l.participantOrder, p.ID)
	}

	seen := make(map[string]bool, len(expenses))
	for _, e := range expenses {
		if e.ID == "" {
			return nil, fmt.Errorf("expense %q: missing id", e.Description)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("expense %s: duplicate id", e.ID)
		}
		seen[e.ID] = true
		if !e.Total.IsPositive() {
			return nil, fmt.Errorf("expense %s: %w: got %s", e.ID, ErrNonPositiveAmount, e.Total)
		}
		if _, ok := l.participants[e.PayerID]; !ok {
			return nil, fmt.Errorf("expense %s: payer: %w: %s", e.ID, ErrUnknownParticipant, e.PayerID)
		}
		for _, id := range e.Split.MemberIDs() {
			if _, ok := l.participants[id]; !ok {
				return nil, fmt.Errorf("expense %s: split member: %w: %s", e.ID, ErrUnknownParticipant, id)
			}
		}
		if _, err := calculator.Shares(e.Total, e.Split); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		l.expenses = append(l.expenses, e.Clone())
	}
	return l, nil
}
