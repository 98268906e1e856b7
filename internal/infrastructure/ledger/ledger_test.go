package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/ports"
)

func record(id, model string, in, out int, cost float64, ts time.Time) domain.UsageRecord {
	return domain.UsageRecord{
		ID:           id,
		SessionID:    "session-1",
		Timestamp:    ts,
		Model:        model,
		Family:       domain.FamilyNova,
		InputTokens:  in,
		OutputTokens: out,
		CostUSD:      cost,
		PriceKnown:   true,
		Prompt:       "What is machine learning?",
		Answer:       "A field of study...",
		ElapsedMS:    120,
	}
}

func TestMemoryLedgerAccumulation(t *testing.T) {
	l := NewMemoryLedger()
	base := time.Now()
	inputs := []int{10, 25, 5}
	outputs := []int{40, 75, 15}
	for i := range inputs {
		if err := l.Record(record(string(rune('a'+i)), "amazon.nova-lite-v1:0", inputs[i], outputs[i], 0.001, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	l.RecordHit()

	sum, err := l.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if sum.TotalInputTokens != 40 || sum.TotalOutputTokens != 130 {
		t.Errorf("token totals = %d/%d, want 40/130", sum.TotalInputTokens, sum.TotalOutputTokens)
	}
	if sum.Requests != 3 || sum.CacheHits != 1 {
		t.Errorf("requests/hits = %d/%d", sum.Requests, sum.CacheHits)
	}
}

func TestMemoryLedgerRecordsLimit(t *testing.T) {
	l := NewMemoryLedger()
	for i := 0; i < 10; i++ {
		_ = l.Record(record(string(rune('a'+i)), "m", 1, 1, 0, time.Now()))
	}
	records, err := l.Records(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[2].ID != "j" {
		t.Errorf("last record ID = %s, want j", records[2].ID)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	store := NewFileStore(path)

	base := time.Now().UTC().Truncate(time.Second)
	if err := store.Record(record("r1", "amazon.nova-lite-v1:0", 12, 84, 0.0001, base)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := store.Record(record("r2", "claude-3-5-sonnet-20240620", 20, 40, 0.0007, base.Add(time.Second))); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	reopened := NewFileStore(path)
	records, err := reopened.Records(0)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].ID != "r1" || records[1].Model != "claude-3-5-sonnet-20240620" {
		t.Errorf("unexpected records: %+v", records)
	}

	sum, err := reopened.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalInputTokens != 32 || sum.TotalOutputTokens != 124 {
		t.Errorf("token totals = %d/%d", sum.TotalInputTokens, sum.TotalOutputTokens)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store := NewSQLiteStore(path)

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		rec := record(string(rune('a'+i)), "amazon.nova-lite-v1:0", 10, 20, 0.0001, base.Add(time.Duration(i)*time.Second))
		if err := store.Record(rec); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	records, err := store.Records(0)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("records = %d, want 5", len(records))
	}

	limited, err := store.Records(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[1].ID != "e" {
		t.Fatalf("limited records unexpected: %+v", limited)
	}

	sum, err := store.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.Requests != 5 || sum.TotalInputTokens != 50 {
		t.Errorf("summary = %+v", sum)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	records, _ = store.Records(0)
	if len(records) != 0 {
		t.Errorf("records after clear = %d", len(records))
	}
}

func TestExportJSONDocumentShape(t *testing.T) {
	l := NewMemoryLedger()
	_ = l.Record(record("r1", "amazon.nova-lite-v1:0", 12, 84, 0.0001, time.Now()))
	l.RecordHit()

	dest := filepath.Join(t.TempDir(), "session.json")
	if err := l.ExportJSON(dest); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	var export domain.SessionExport
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(export.Records) != 1 {
		t.Fatalf("exported records = %d", len(export.Records))
	}
	if export.Summary.CacheHits != 1 || export.Summary.Requests != 1 {
		t.Errorf("exported summary = %+v", export.Summary)
	}
}

func TestBackendsImplementPort(t *testing.T) {
	var stores []ports.LedgerRepository = []ports.LedgerRepository{
		NewMemoryLedger(),
		NewFileStore(filepath.Join(t.TempDir(), "l.jsonl")),
		NewSQLiteStore(filepath.Join(t.TempDir(), "l.db")),
	}
	for _, store := range stores {
		if _, err := store.Summary(); err != nil {
			t.Errorf("%T Summary() error = %v", store, err)
		}
	}
}
