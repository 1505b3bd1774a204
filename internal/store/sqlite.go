package store

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TrendSentinel/internal/model"
)

// SQLiteStore persists closed bars to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so warm-up reads don't block the poll task's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite bar store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol    TEXT    NOT NULL,
			interval  TEXT    NOT NULL,
			timestamp INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			volume    REAL,
			PRIMARY KEY (symbol, interval, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_ts ON bars(symbol, interval, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveBars inserts bars, replacing any bar already cached for the same
// timestamp.
func (s *SQLiteStore) SaveBars(symbol, interval string, bars []model.Bar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO bars
		(symbol, interval, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, interval, b.Time.Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert bar %s: %w", b.Time, err)
		}
	}
	return tx.Commit()
}

// LoadBars returns up to limit most recent cached bars in chronological
// order. limit <= 0 loads everything.
func (s *SQLiteStore) LoadBars(symbol, interval string, limit int) ([]model.Bar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT timestamp, open, high, low, close, volume FROM bars
		WHERE symbol = ? AND interval = ? ORDER BY timestamp DESC`
	args := []interface{}{symbol, interval}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var ts int64
		var b model.Bar
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = time.Unix(ts, 0)
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// LatestTime returns the newest cached bar time, false when the cache is
// empty.
func (s *SQLiteStore) LatestTime(symbol, interval string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ts sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(timestamp) FROM bars WHERE symbol = ? AND interval = ?`,
		symbol, interval).Scan(&ts)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, false, nil
	}
	return time.Unix(ts.Int64, 0), true, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite bar store")
	return s.db.Close()
}
