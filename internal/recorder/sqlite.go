package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists feedback and market snapshots to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS feedback (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			session_id TEXT,
			chat_id    INTEGER,
			text       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_ts ON feedback(timestamp)`,

		`CREATE TABLE IF NOT EXISTS market_snapshots (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			outlook            TEXT,
			volatility_index   REAL,
			ticker             TEXT,
			price              REAL,
			change_pct         REAL,
			volume             REAL,
			three_month_return REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON market_snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFeedback(rec *FeedbackRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO feedback (timestamp, session_id, chat_id, text)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), rec.SessionID, rec.ChatID, rec.Text,
	)
	return err
}

func (r *SQLiteRecorder) RecordSnapshot(recs []*SnapshotRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, rec := range recs {
		_, err := r.db.Exec(`INSERT INTO market_snapshots
			(timestamp, outlook, volatility_index, ticker, price, change_pct, volume, three_month_return)
			VALUES (?,?,?,?,?,?,?,?)`,
			now, rec.Outlook, rec.VolatilityIndex, rec.Ticker,
			rec.Price, rec.ChangePct, rec.Volume, rec.ThreeMonthReturn,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
