package ledger

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/pkg/filesystem"
	"github.com/doeshing/askai-go/internal/ports"
)

// SQLiteStore persists usage records in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
	hits int
}

// NewSQLiteStore creates (or opens) the usage database. An empty path selects
// ~/.askai/ledger/ledger.db. When the database cannot be opened the store
// degrades to the jsonl FileStore at the same location.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filesystem.AskaiDir("ledger", "ledger.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS usage_records (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		timestamp TEXT,
		model TEXT,
		family TEXT,
		input_tokens INTEGER,
		output_tokens INTEGER,
		cost REAL,
		price_known INTEGER,
		prompt TEXT,
		answer TEXT,
		elapsed_ms INTEGER
	);`)
	return err
}

func (s *SQLiteStore) fallback() *FileStore {
	return NewFileStore(s.path + ".jsonl")
}

// Record inserts a new usage record.
func (s *SQLiteStore) Record(rec domain.UsageRecord) error {
	if s.db == nil {
		return s.fallback().Record(rec)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO usage_records
		(id, session_id, timestamp, model, family, input_tokens, output_tokens, cost, price_known, prompt, answer, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.SessionID,
		rec.Timestamp.Format(time.RFC3339),
		rec.Model,
		string(rec.Family),
		rec.InputTokens,
		rec.OutputTokens,
		rec.CostUSD,
		boolToInt(rec.PriceKnown),
		rec.Prompt,
		rec.Answer,
		rec.ElapsedMS,
	)
	return err
}

// RecordHit counts a cache hit for this session.
func (s *SQLiteStore) RecordHit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits++
}

// Records returns usage entries ordered oldest first. limit <= 0 returns all.
func (s *SQLiteStore) Records(limit int) ([]domain.UsageRecord, error) {
	if s.db == nil {
		return s.fallback().Records(limit)
	}
	query := `SELECT id, session_id, timestamp, model, family, input_tokens, output_tokens, cost, price_known, prompt, answer, elapsed_ms
		FROM usage_records ORDER BY datetime(timestamp) ASC`
	var args []interface{}
	if limit > 0 {
		// Newest N, presented oldest first.
		query = `SELECT * FROM (
			SELECT id, session_id, timestamp, model, family, input_tokens, output_tokens, cost, price_known, prompt, answer, elapsed_ms
			FROM usage_records ORDER BY datetime(timestamp) DESC LIMIT ?
		) ORDER BY datetime(timestamp) ASC`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.UsageRecord
	for rows.Next() {
		var rec domain.UsageRecord
		var ts, family string
		var priceKnown int
		if err := rows.Scan(&rec.ID, &rec.SessionID, &ts, &rec.Model, &family, &rec.InputTokens, &rec.OutputTokens, &rec.CostUSD, &priceKnown, &rec.Prompt, &rec.Answer, &rec.ElapsedMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Family = domain.ModelFamily(family)
		rec.PriceKnown = priceKnown == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Summary projects totals over all persisted records plus session hits.
func (s *SQLiteStore) Summary() (domain.SessionSummary, error) {
	records, err := s.Records(0)
	if err != nil {
		return domain.SessionSummary{}, err
	}
	s.mu.Lock()
	hits := s.hits
	s.mu.Unlock()
	return domain.Summarize(records, hits), nil
}

// Clear deletes all usage records and resets the hit counter.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	s.hits = 0
	s.mu.Unlock()
	if s.db == nil {
		return s.fallback().Clear()
	}
	_, err := s.db.Exec("DELETE FROM usage_records")
	return err
}

// ExportJSON writes the session document {records, summary} to dest.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0)
	if err != nil {
		return err
	}
	s.mu.Lock()
	hits := s.hits
	s.mu.Unlock()
	return writeExport(dest, records, hits)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.LedgerRepository = (*SQLiteStore)(nil)
