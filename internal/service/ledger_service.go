// Package service exposes the ledger engine over a JSON HTTP API.
// Handlers serialize all ledger access through one mutex and persist
// a snapshot through the storage layer after every successful
// mutation.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/codec"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// LedgerService serves one ledger over HTTP.
type LedgerService struct {
	mu       sync.Mutex
	ledgerID string
	ledger   *ledger.Ledger
	store    storage.Store
	gate     *auth.PasswordGate
	tokens   *auth.JWTManager
}

// NewLedgerService creates a service around an already-loaded ledger.
func NewLedgerService(ledgerID string, l *ledger.Ledger, store storage.Store, gate *auth.PasswordGate, tokens *auth.JWTManager) *LedgerService {
	return &LedgerService{
		ledgerID: ledgerID,
		ledger:   l,
		store:    store,
		gate:     gate,
		tokens:   tokens,
	}
}

// Router builds the HTTP routes. Everything except login is behind
// bearer auth; the caller mounts operational endpoints (/metrics,
// /healthz) on the returned router.
func (s *LedgerService) Router() *httprouter.Router {
	r := httprouter.New()

	r.Handler(http.MethodPost, "/v1/auth/login", http.HandlerFunc(s.handleLogin))

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(s.tokens, h)
	}
	r.Handler(http.MethodGet, "/v1/participants", protected(s.handleListParticipants))
	r.Handler(http.MethodPost, "/v1/participants", protected(s.handleAddParticipant))
	r.Handler(http.MethodPatch, "/v1/participants/:id", protected(s.handleRenameParticipant))
	r.Handler(http.MethodPost, "/v1/participants/:id/archive", protected(s.handleArchiveParticipant))
	r.Handler(http.MethodDelete, "/v1/participants/:id", protected(s.handleRemoveParticipant))

	r.Handler(http.MethodGet, "/v1/expenses", protected(s.handleListExpenses))
	r.Handler(http.MethodPost, "/v1/expenses", protected(s.handleRecordExpense))
	r.Handler(http.MethodPut, "/v1/expenses/:id", protected(s.handleEditExpense))
	r.Handler(http.MethodDelete, "/v1/expenses/:id", protected(s.handleDeleteExpense))

	r.Handler(http.MethodGet, "/v1/balances", protected(s.handleBalances))
	r.Handler(http.MethodGet, "/v1/settlement", protected(s.handleSettlement))

	return r
}

func (s *LedgerService) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.gate.Verify(req.Password); err != nil {
		slog.Warn("Login rejected", "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	token, err := s.tokens.Generate(s.ledgerID)
	if err != nil {
		slog.Error("Token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *LedgerService) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	participants := s.ledger.Participants()
	s.mu.Unlock()

	out := make([]participantResponse, len(participants))
	for i, p := range participants {
		out[i] = toParticipantResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *LedgerService) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.ledger.AddParticipant(req.Name)
	if err != nil {
		s.failOp(w, "add_participant", err)
		return
	}
	s.persist(r.Context(), "add_participant")
	writeJSON(w, http.StatusCreated, toParticipantResponse(p))
}

func (s *LedgerService) handleRenameParticipant(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.RenameParticipant(id, req.Name); err != nil {
		s.failOp(w, "rename_participant", err)
		return
	}
	s.persist(r.Context(), "rename_participant")
	p, err := s.ledger.Participant(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantResponse(p))
}

func (s *LedgerService) handleArchiveParticipant(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.ArchiveParticipant(id); err != nil {
		s.failOp(w, "archive_participant", err)
		return
	}
	s.persist(r.Context(), "archive_participant")
	p, err := s.ledger.Participant(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantResponse(p))
}

func (s *LedgerService) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.RemoveParticipant(id); err != nil {
		s.failOp(w, "remove_participant", err)
		return
	}
	s.persist(r.Context(), "remove_participant")
	w.WriteHeader(http.StatusNoContent)
}

func (s *LedgerService) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	expenses := s.ledger.Expenses()
	s.mu.Unlock()

	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *LedgerService) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	req, split, ok := decodeExpenseRequest(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	expense, err := s.ledger.Record(req.Description, req.Total, req.PayerID, split)
	if err != nil {
		s.failOp(w, "record_expense", err)
		return
	}
	s.persist(r.Context(), "record_expense")
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (s *LedgerService) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	req, split, ok := decodeExpenseRequest(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	expense, err := s.ledger.Edit(id, req.Description, req.Total, req.PayerID, split)
	if err != nil {
		s.failOp(w, "edit_expense", err)
		return
	}
	s.persist(r.Context(), "edit_expense")
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *LedgerService) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.Delete(id); err != nil {
		s.failOp(w, "delete_expense", err)
		return
	}
	s.persist(r.Context(), "delete_expense")
	w.WriteHeader(http.StatusNoContent)
}

func (s *LedgerService) handleBalances(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	balances, err := s.ledger.Balances()
	s.mu.Unlock()
	if err != nil {
		slog.Error("Balance computation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, balancesResponse{Balances: balances})
}

func (s *LedgerService) handleSettlement(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	payments, err := s.ledger.Settlement()
	s.mu.Unlock()
	if err != nil {
		slog.Error("Settlement computation failed", "error", err)
		writeError(w, statusForError(err), err)
		return
	}
	metrics.SettlementSize.Observe(float64(len(payments)))

	out := make([]paymentResponse, len(payments))
	for i, p := range payments {
		out[i] = paymentResponse{FromID: p.FromID, ToID: p.ToID, Amount: p.Amount}
	}
	writeJSON(w, http.StatusOK, settlementResponse{Payments: out})
}

// decodeExpenseRequest parses the shared request body of the record
// and edit handlers, writing the error response itself on failure.
func decodeExpenseRequest(w http.ResponseWriter, r *http.Request) (expenseRequest, models.Split, bool) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return expenseRequest{}, models.Split{}, false
	}
	split, err := req.Split.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return expenseRequest{}, models.Split{}, false
	}
	return req, split, true
}

// failOp records a failed mutation and writes the mapped error
// response.
func (s *LedgerService) failOp(w http.ResponseWriter, op string, err error) {
	metrics.LedgerOps.WithLabelValues(op, "error").Inc()
	slog.Error("Ledger operation failed", "op", op, "error", err)
	writeError(w, statusForError(err), err)
}

// persist snapshots the ledger after a successful mutation. The
// mutation itself has already committed; a storage failure is logged
// and surfaced through metrics rather than rolled back, and the next
// successful mutation writes a fresh snapshot.
func (s *LedgerService) persist(ctx context.Context, op string) {
	metrics.LedgerOps.WithLabelValues(op, "ok").Inc()
	data, err := codec.Marshal(s.ledger)
	if err != nil {
		slog.Error("Snapshot encoding failed", "op", op, "error", err)
		return
	}
	if err := s.store.Save(ctx, s.ledgerID, data); err != nil {
		slog.Error("Snapshot save failed", "op", op, "error", err)
	}
}

// statusForError maps engine errors onto HTTP status codes.
// Invariant violations (unbalanced ledger, inexact division) are
// internal defects and map to 500.
func statusForError(err error) int {
	var mismatch *calculator.SplitMismatchError
	var unbalanced *calculator.UnbalancedError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrParticipantInUse):
		return http.StatusConflict
	case errors.As(err, &unbalanced), errors.Is(err, money.ErrInexactDivision):
		return http.StatusInternalServerError
	case errors.As(err, &mismatch),
		errors.Is(err, ledger.ErrEmptyName),
		errors.Is(err, ledger.ErrEmptyDescription),
		errors.Is(err, ledger.ErrNonPositiveAmount),
		errors.Is(err, ledger.ErrUnknownParticipant),
		errors.Is(err, ledger.ErrArchivedParticipant),
		errors.Is(err, calculator.ErrEmptySplit),
		errors.Is(err, calculator.ErrDuplicateParticipant),
		errors.Is(err, calculator.ErrNegativeShare),
		errors.Is(err, calculator.ErrPercentTotal),
		errors.Is(err, calculator.ErrUnknownSplitKind),
		errors.Is(err, money.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
