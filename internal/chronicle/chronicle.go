// Package chronicle is the append-only SQLite record of everything that
// happened: log entries and resolved wars. It is write-only from the game's
// point of view — state is never reconstructed from it.
package chronicle

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection for the chronicle.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the chronicle database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open chronicle: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate chronicle: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS log_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS war_resolutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		war_id TEXT NOT NULL,
		winner TEXT NOT NULL,
		loser TEXT NOT NULL,
		final_round INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_log_turn ON log_entries(turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// AppendLog records one game log entry.
func (db *DB) AppendLog(turn int, level, message string) error {
	_, err := db.conn.Exec(
		`INSERT INTO log_entries (turn, level, message, created_at) VALUES (?, ?, ?, ?)`,
		turn, level, message, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// RecordWarResolution records a finished war.
func (db *DB) RecordWarResolution(warID, winner, loser string, round int) error {
	_, err := db.conn.Exec(
		`INSERT INTO war_resolutions (war_id, winner, loser, final_round, created_at) VALUES (?, ?, ?, ?, ?)`,
		warID, winner, loser, round, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Entry is one persisted log row.
type Entry struct {
	ID        int64  `db:"id" json:"id"`
	Turn      int    `db:"turn" json:"turn"`
	Level     string `db:"level" json:"level"`
	Message   string `db:"message" json:"message"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// RecentEntries returns the newest n log rows, oldest first.
func (db *DB) RecentEntries(n int) ([]Entry, error) {
	var rows []Entry
	err := db.conn.Select(&rows,
		`SELECT id, turn, level, message, created_at
		 FROM log_entries ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("select log entries: %w", err)
	}
	// Reverse into chronological order.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}
