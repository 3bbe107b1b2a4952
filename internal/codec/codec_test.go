package codec

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// buildLedger assembles a ledger exercising every split variant and
// an archived participant.
func buildLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New()
	a, _ := l.AddParticipant("Alice")
	b, _ := l.AddParticipant("Bob")
	c, _ := l.AddParticipant("Carol")

	if _, err := l.Record("dinner", money.FromUnits(10000), a.ID, models.EqualSplit(a.ID, b.ID, c.ID)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := l.Record("taxi", money.FromUnits(1000), b.ID, models.ExactSplit(map[string]money.Money{
		a.ID: money.FromUnits(400),
		b.ID: money.FromUnits(600),
	})); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := l.Record("groceries", money.FromUnits(4567), c.ID, models.PercentageSplit(map[string]decimal.Decimal{
		a.ID: decimal.RequireFromString("33.33"),
		b.ID: decimal.RequireFromString("33.33"),
		c.ID: decimal.RequireFromString("33.34"),
	})); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := l.ArchiveParticipant(c.ID); err != nil {
		t.Fatalf("ArchiveParticipant failed: %v", err)
	}
	return l
}

func TestRoundTrip(t *testing.T) {
	original := buildLedger(t)

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	restored, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(restored.Participants(), original.Participants()) {
		t.Error("participants did not round-trip")
	}
	if !reflect.DeepEqual(restored.Expenses(), original.Expenses()) {
		t.Error("expenses did not round-trip")
	}

	// Serializing again produces identical bytes.
	again, err := Marshal(restored)
	if err != nil {
		t.Fatalf("second Marshal failed: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("re-serialization differs from original bytes")
	}

	// Derived state survives the trip.
	origBalances, err := original.Balances()
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	restBalances, err := restored.Balances()
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if !reflect.DeepEqual(origBalances, restBalances) {
		t.Error("balances differ after round-trip")
	}
}

func TestRoundTripEmptyLedger(t *testing.T) {
	data, err := Marshal(ledger.New())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	restored, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(restored.Participants()) != 0 || len(restored.Expenses()) != 0 {
		t.Error("empty ledger did not round-trip empty")
	}
}

func TestUnmarshalCorrupt(t *testing.T) {
	valid, err := Marshal(buildLedger(t))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "not json", data: []byte("definitely not json")},
		{name: "empty input", data: nil},
		{name: "unknown field", data: []byte(`{"version":1,"participants":[],"expenses":[],"surprise":true}`)},
		{name: "unsupported version", data: []byte(`{"version":99,"participants":[],"expenses":[]}`)},
		{name: "missing version", data: []byte(`{"participants":[],"expenses":[]}`)},
		{
			name: "unknown split kind",
			data: bytes.Replace(valid, []byte(`"kind":"equal"`), []byte(`"kind":"ratio"`), 1),
		},
		{
			name: "dangling payer",
			data: []byte(`{"version":1,"participants":[],"expenses":[{"id":"e1","description":"x","total":"1.00","payer_id":"ghost","split":{"kind":"equal","participants":["ghost"]},"created_at":0}]}`),
		},
		{
			name: "exact split sum broken",
			data: []byte(`{"version":1,"participants":[{"id":"p1","name":"A","created_at":0}],"expenses":[{"id":"e1","description":"x","total":"1.00","payer_id":"p1","split":{"kind":"exact","amounts":{"p1":"0.99"}},"created_at":0}]}`),
		},
		{
			name: "sub-cent amount",
			data: []byte(`{"version":1,"participants":[{"id":"p1","name":"A","created_at":0}],"expenses":[{"id":"e1","description":"x","total":"1.005","payer_id":"p1","split":{"kind":"equal","participants":["p1"]},"created_at":0}]}`),
		},
		{
			name: "equal split carrying exact amounts",
			data: []byte(`{"version":1,"participants":[{"id":"p1","name":"A","created_at":0}],"expenses":[{"id":"e1","description":"x","total":"1.00","payer_id":"p1","split":{"kind":"equal","participants":["p1"],"amounts":{"p1":"1.00"}},"created_at":0}]}`),
		},
		{
			name: "exact split carrying percents",
			data: []byte(`{"version":1,"participants":[{"id":"p1","name":"A","created_at":0}],"expenses":[{"id":"e1","description":"x","total":"1.00","payer_id":"p1","split":{"kind":"exact","amounts":{"p1":"1.00"},"percents":{"p1":"100"}},"created_at":0}]}`),
		},
		{
			name: "percentage split carrying participants",
			data: []byte(`{"version":1,"participants":[{"id":"p1","name":"A","created_at":0}],"expenses":[{"id":"e1","description":"x","total":"1.00","payer_id":"p1","split":{"kind":"percentage","percents":{"p1":"100"},"participants":["p1"]},"created_at":0}]}`),
		},
		{
			name: "duplicate participant id",
			data: []byte(`{"version":1,"participants":[{"id":"p1","name":"A","created_at":0},{"id":"p1","name":"B","created_at":0}],"expenses":[]}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal(tt.data); err == nil {
				t.Error("Unmarshal accepted corrupt data")
			}
		})
	}
}

func TestUnmarshalCorruptSentinel(t *testing.T) {
	_, err := Unmarshal([]byte(`{"version":99,"participants":[],"expenses":[]}`))
	if !errors.Is(err, ErrLedgerCorrupt) {
		t.Errorf("error = %v, want ErrLedgerCorrupt", err)
	}
}
