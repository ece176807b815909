package catalog

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the reference catalog to a SQLite database so that
// request serving works across restarts, before the first refresh lands.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so refresh writes don't block request-path reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite catalog opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS instruments (
			code       TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			grp        TEXT,
			market     TEXT,
			kind       TEXT,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_instruments_grp ON instruments(grp)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Lookup(code string) (Instrument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ins Instrument
	err := s.db.QueryRow(
		`SELECT code, name, grp, market, kind FROM instruments WHERE code = ?`, code,
	).Scan(&ins.Code, &ins.Name, &ins.Group, &ins.Market, &ins.Kind)
	if err != nil {
		return Instrument{}, false
	}
	return ins, true
}

func (s *SQLiteStore) Codes(group string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT code, grp FROM instruments WHERE kind = ?`, KindStock)
	if err != nil {
		log.Printf("[WARN] catalog codes query: %v", err)
		return nil
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code, grp string
		if err := rows.Scan(&code, &grp); err != nil {
			continue
		}
		if !IsElectronics(grp) {
			continue
		}
		if group != "" && grp != group {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ReplaceAll swaps the catalog contents for a freshly fetched registry in
// one transaction.
func (s *SQLiteStore) ReplaceAll(instruments []Instrument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM instruments`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear instruments: %w", err)
	}

	now := time.Now().Unix()
	stmt, err := tx.Prepare(`INSERT INTO instruments (code, name, grp, market, kind, updated_at)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(code) DO UPDATE SET name=excluded.name, grp=excluded.grp,
			market=excluded.market, kind=excluded.kind, updated_at=excluded.updated_at`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ins := range instruments {
		if _, err := stmt.Exec(ins.Code, ins.Name, ins.Group, ins.Market, ins.Kind, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", ins.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite catalog")
	return s.db.Close()
}
