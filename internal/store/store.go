package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("analysis not found")

// Analysis is one persisted deal-analysis run: the searchable columns plus
// the full result envelope as JSON.
type Analysis struct {
	ID           string          `db:"analysis_id" json:"analysis_id"`
	Company      string          `db:"company" json:"company"`
	Sector       string          `db:"sector" json:"sector"`
	Experts      string          `db:"experts" json:"experts"`
	Success      bool            `db:"success" json:"success"`
	TotalCostUSD float64         `db:"total_cost_usd" json:"total_cost_usd"`
	Results      json.RawMessage `db:"results" json:"results"`
	CreatedAt    string          `db:"created_at" json:"created_at"`
}

// Store persists completed analyses to SQLite. Single connection with WAL,
// same settings the agency uses for its other SQLite-backed state.
type Store struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	analysis_id    TEXT PRIMARY KEY,
	company        TEXT NOT NULL,
	sector         TEXT NOT NULL DEFAULT '',
	experts        TEXT NOT NULL DEFAULT '',
	success        INTEGER NOT NULL DEFAULT 0,
	total_cost_usd REAL NOT NULL DEFAULT 0,
	results        TEXT NOT NULL DEFAULT '[]',
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_company ON analyses(company);
`

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Save(a Analysis) error {
	if a.CreatedAt == "" {
		a.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.NamedExec(`
		INSERT INTO analyses (analysis_id, company, sector, experts, success, total_cost_usd, results, created_at)
		VALUES (:analysis_id, :company, :sector, :experts, :success, :total_cost_usd, :results, :created_at)`, a)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", a.ID, err)
	}
	return nil
}

func (s *Store) Get(id string) (Analysis, error) {
	var a Analysis
	err := s.db.Get(&a, `SELECT * FROM analyses WHERE analysis_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	if err != nil {
		return Analysis{}, fmt.Errorf("get analysis %s: %w", id, err)
	}
	return a, nil
}

func (s *Store) ListByCompany(company string, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	out := []Analysis{}
	err := s.db.Select(&out, `
		SELECT * FROM analyses WHERE company = ? ORDER BY created_at DESC LIMIT ?`, company, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses for %s: %w", company, err)
	}
	return out, nil
}
