package ledger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/pkg/filesystem"
	"github.com/doeshing/askai-go/internal/ports"
)

// FileStore appends usage records to a jsonl file so accounting survives
// restarts. Cache hits are a session-scoped counter and are not persisted.
type FileStore struct {
	path string
	mu   sync.Mutex
	hits int
}

// NewFileStore creates a store under ~/.askai/ledger/ledger.jsonl.
// An empty path selects the default location.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = filesystem.AskaiDir("ledger", "ledger.jsonl")
	}
	return &FileStore{path: path}
}

// Record implements ports.LedgerRepository.
func (f *FileStore) Record(rec domain.UsageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = file.Write(data)
	return err
}

// RecordHit counts a cache hit for this session.
func (f *FileStore) RecordHit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits++
}

// Records loads usage entries (best-effort), newest last. limit <= 0 returns all.
func (f *FileStore) Records(limit int) ([]domain.UsageRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var records []domain.UsageRecord
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		var rec domain.UsageRecord
		if err := json.Unmarshal(line, &rec); err == nil {
			records = append(records, rec)
		}
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// Summary projects totals over all persisted records plus session hits.
func (f *FileStore) Summary() (domain.SessionSummary, error) {
	records, err := f.Records(0)
	if err != nil {
		return domain.SessionSummary{}, err
	}
	f.mu.Lock()
	hits := f.hits
	f.mu.Unlock()
	return domain.Summarize(records, hits), nil
}

// Clear removes the ledger file and resets the hit counter.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits = 0
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExportJSON writes the session document {records, summary} to dest.
func (f *FileStore) ExportJSON(dest string) error {
	records, err := f.Records(0)
	if err != nil {
		return err
	}
	f.mu.Lock()
	hits := f.hits
	f.mu.Unlock()
	return writeExport(dest, records, hits)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

var _ ports.LedgerRepository = (*FileStore)(nil)
