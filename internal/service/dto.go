package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// loginRequest carries the ledger access password.
type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type participantRequest struct {
	Name string `json:"name"`
}

type participantResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Archived  bool   `json:"archived"`
	CreatedAt int64  `json:"created_at"`
}

func toParticipantResponse(p models.Participant) participantResponse {
	return participantResponse{
		ID:        p.ID,
		Name:      p.Name,
		Archived:  p.Archived,
		CreatedAt: p.CreatedAt,
	}
}

// splitPayload is the wire form of the split variant. Exactly one
// payload field should be set, matching Kind.
type splitPayload struct {
	Kind         string                     `json:"kind"`
	Participants []string                   `json:"participants,omitempty"`
	Amounts      map[string]money.Money     `json:"amounts,omitempty"`
	Percents     map[string]decimal.Decimal `json:"percents,omitempty"`
}

func (p splitPayload) toModel() (models.Split, error) {
	switch models.SplitKind(p.Kind) {
	case models.SplitEqual:
		return models.EqualSplit(p.Participants...), nil
	case models.SplitExact:
		return models.ExactSplit(p.Amounts), nil
	case models.SplitPercentage:
		return models.PercentageSplit(p.Percents), nil
	default:
		return models.Split{}, fmt.Errorf("unknown split kind %q", p.Kind)
	}
}

func toSplitPayload(s models.Split) splitPayload {
	return splitPayload{
		Kind:         string(s.Kind),
		Participants: s.Participants,
		Amounts:      s.Amounts,
		Percents:     s.Percents,
	}
}

type expenseRequest struct {
	Description string       `json:"description"`
	Total       money.Money  `json:"total"`
	PayerID     string       `json:"payer_id"`
	Split       splitPayload `json:"split"`
}

type expenseResponse struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Total       money.Money  `json:"total"`
	PayerID     string       `json:"payer_id"`
	Split       splitPayload `json:"split"`
	CreatedAt   int64        `json:"created_at"`
}

func toExpenseResponse(e models.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Total:       e.Total,
		PayerID:     e.PayerID,
		Split:       toSplitPayload(e.Split),
		CreatedAt:   e.CreatedAt,
	}
}

type balancesResponse struct {
	// Balances maps participant ID to net position: positive means
	// owed money, negative means owes.
	Balances map[string]money.Money `json:"balances"`
}

type paymentResponse struct {
	FromID string      `json:"from_id"`
	ToID   string      `json:"to_id"`
	Amount money.Money `json:"amount"`
}

type settlementResponse struct {
	Payments []paymentResponse `json:"payments"`
}

type errorResponse struct {
	Error string `json:"error"`
}
