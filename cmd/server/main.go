package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/codec"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

const defaultTokenDuration = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/ledger.db")
	ledgerID := getEnv("LEDGER_ID", "default")
	port := getEnv("PORT", "8080")

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	l, err := loadLedger(store, ledgerID)
	if err != nil {
		slog.Error("Failed to restore ledger", "ledger_id", ledgerID, "error", err)
		os.Exit(1)
	}

	gate, err := passwordGate()
	if err != nil {
		slog.Error("Failed to configure authentication", "error", err)
		os.Exit(1)
	}

	secret := os.Getenv("SPLITLEDGER_JWT_SECRET")
	if secret == "" {
		slog.Error("SPLITLEDGER_JWT_SECRET must be set")
		os.Exit(1)
	}
	tokens := auth.NewJWTManager(secret, defaultTokenDuration)

	svc := service.NewLedgerService(ledgerID, l, store, gate, tokens)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/", svc.Router())

	handler := middleware.Logging(mux)

	// Wrap with h2c so clients can speak HTTP/2 without TLS.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := ":" + port
	slog.Info("Server starting", "address", addr, "ledger_id", ledgerID)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// loadLedger restores the persisted snapshot, or starts an empty ledger
// if none exists yet.
func loadLedger(store storage.Store, ledgerID string) (*ledger.Ledger, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := store.Load(ctx, ledgerID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info("No snapshot found, starting empty ledger", "ledger_id", ledgerID)
		return ledger.New(), nil
	}
	if err != nil {
		return nil, err
	}

	l, err := codec.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	slog.Info("Ledger restored",
		"ledger_id", ledgerID,
		"participants", len(l.Participants()),
		"expenses", len(l.Expenses()),
	)
	return l, nil
}

// passwordGate builds the login gate from SPLITLEDGER_PASSWORD_HASH
// (a bcrypt hash) or, failing that, SPLITLEDGER_PASSWORD in plain text.
func passwordGate() (*auth.PasswordGate, error) {
	if hash := os.Getenv("SPLITLEDGER_PASSWORD_HASH"); hash != "" {
		return auth.NewPasswordGateFromHash(hash), nil
	}
	password := os.Getenv("SPLITLEDGER_PASSWORD")
	if password == "" {
		return nil, errors.New("SPLITLEDGER_PASSWORD or SPLITLEDGER_PASSWORD_HASH must be set")
	}
	return auth.NewPasswordGate(password)
}
