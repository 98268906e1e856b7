// Package ledger provides the append-only usage log backends.
package ledger

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/ports"
)

// MemoryLedger keeps the session's usage records in process memory.
// Records are immutable after append; the summary is recomputed on demand.
type MemoryLedger struct {
	mu      sync.Mutex
	records []domain.UsageRecord
	hits    int
}

// NewMemoryLedger builds an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Record appends one usage record.
func (l *MemoryLedger) Record(rec domain.UsageRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

// RecordHit counts a cache hit without creating a usage record.
func (l *MemoryLedger) RecordHit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hits++
}

// Records returns the most recent records, newest last. limit <= 0 returns all.
func (l *MemoryLedger) Records(limit int) ([]domain.UsageRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	records := l.records
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]domain.UsageRecord, len(records))
	copy(out, records)
	return out, nil
}

// Summary projects the current session totals.
func (l *MemoryLedger) Summary() (domain.SessionSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.Summarize(l.records, l.hits), nil
}

// Clear drops all records and resets the hit counter.
func (l *MemoryLedger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	l.hits = 0
	return nil
}

// ExportJSON writes the session document {records, summary} to dest.
func (l *MemoryLedger) ExportJSON(dest string) error {
	l.mu.Lock()
	records := make([]domain.UsageRecord, len(l.records))
	copy(records, l.records)
	hits := l.hits
	l.mu.Unlock()

	return writeExport(dest, records, hits)
}

func writeExport(dest string, records []domain.UsageRecord, hits int) error {
	export := domain.SessionExport{
		Records: records,
		Summary: domain.Summarize(records, hits),
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(dest, append(data, '\n'), 0o644)
}

var _ ports.LedgerRepository = (*MemoryLedger)(nil)
