package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mmynk/splitledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// LedgerIDKey is the context key holding the ledger ID the session
// was issued for.
const LedgerIDKey contextKey = "ledger_id"

// GetLedgerID extracts the authenticated ledger ID from the context.
// Returns empty string if the request was not authenticated.
func GetLedgerID(ctx context.Context) string {
	id, _ := ctx.Value(LedgerIDKey).(string)
	return id
}

// TokenVerifier validates a bearer token and returns the ledger ID
// it grants access to. Satisfied by auth.JWTManager.
type TokenVerifier interface {
	Validate(token string) (string, error)
}

// RequireAuth wraps a handler so that only requests carrying a valid
// bearer token reach it. The ledger ID from the token is added to the
// request context.
func RequireAuth(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, auth.ErrMissingToken)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeAuthError(w, auth.ErrInvalidToken)
			return
		}

		ledgerID, err := verifier.Validate(parts[1])
		if err != nil {
			writeAuthError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), LedgerIDKey, ledgerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
