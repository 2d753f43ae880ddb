// Package eventlog persists the registry's emitted events to a local
// SQLite database so they survive CLI invocations and can be listed or
// tailed live.
package eventlog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	_ "modernc.org/sqlite"

	"github.com/tokenforge/permit721/internal/registry"
)

// Log is an append-only SQLite event log.
type Log struct {
	db *sql.DB
}

// Record is one logged event. Address columns are empty when the field
// does not apply to the event kind.
type Record struct {
	ID       int64     `json:"id"`
	At       time.Time `json:"at"`
	Kind     string    `json:"kind"` // Transfer | Approval | ApprovalForAll
	TokenID  uint64    `json:"token_id"`
	Sender   string    `json:"sender,omitempty"`
	Receiver string    `json:"receiver,omitempty"`
	Owner    string    `json:"owner,omitempty"`
	Approved string    `json:"approved,omitempty"`
	Operator string    `json:"operator,omitempty"`
	Enabled  bool      `json:"enabled,omitempty"`
}

// Open opens (creating if needed) the event log at path.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}

	l := &Log{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate event log: %w", err)
	}
	return l, nil
}

// Close closes the underlying database.
func (l *Log) Close() error { return l.db.Close() }

func (l *Log) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		kind TEXT NOT NULL,
		token_id INTEGER NOT NULL,
		sender TEXT NOT NULL DEFAULT '',
		receiver TEXT NOT NULL DEFAULT '',
		owner TEXT NOT NULL DEFAULT '',
		approved TEXT NOT NULL DEFAULT '',
		operator TEXT NOT NULL DEFAULT '',
		enabled INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_events_token ON events(token_id);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Append writes registry events in order.
func (l *Log) Append(events []registry.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(`
		INSERT INTO events (at, kind, token_id, sender, receiver, owner, approved, operator, enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range events {
		rec := toRecord(e)
		_, err := stmt.Exec(now, rec.Kind, rec.TokenID,
			rec.Sender, rec.Receiver, rec.Owner, rec.Approved, rec.Operator, rec.Enabled)
		if err != nil {
			return fmt.Errorf("insert %s event: %w", rec.Kind, err)
		}
	}
	return tx.Commit()
}

// Recent returns the newest events, oldest first, up to limit.
func (l *Log) Recent(limit int) ([]Record, error) {
	rows, err := l.db.Query(`
		SELECT id, at, kind, token_id, sender, receiver, owner, approved, operator, enabled
		FROM (SELECT * FROM events ORDER BY id DESC LIMIT ?) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Since returns all events with id greater than after, oldest first.
// Used by the live watch view for polling.
func (l *Log) Since(after int64) ([]Record, error) {
	rows, err := l.db.Query(`
		SELECT id, at, kind, token_id, sender, receiver, owner, approved, operator, enabled
		FROM events WHERE id > ? ORDER BY id ASC`, after)
	if err != nil {
		return nil, fmt.Errorf("query events since %d: %w", after, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var r Record
		var enabled int
		if err := rows.Scan(&r.ID, &r.At, &r.Kind, &r.TokenID,
			&r.Sender, &r.Receiver, &r.Owner, &r.Approved, &r.Operator, &enabled); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		r.Enabled = enabled != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func toRecord(e registry.Event) Record {
	rec := Record{Kind: registry.Kind(e)}
	switch ev := e.(type) {
	case registry.TransferEvent:
		rec.TokenID = ev.TokenID
		rec.Sender = hexOrEmpty(ev.Sender)
		rec.Receiver = hexOrEmpty(ev.Receiver)
	case registry.ApprovalEvent:
		rec.TokenID = ev.TokenID
		rec.Owner = hexOrEmpty(ev.Owner)
		rec.Approved = hexOrEmpty(ev.Approved)
	case registry.ApprovalForAllEvent:
		rec.Owner = hexOrEmpty(ev.Owner)
		rec.Operator = hexOrEmpty(ev.Operator)
		rec.Enabled = ev.Enabled
	}
	return rec
}

func hexOrEmpty(a common.Address) string {
	if a == (common.Address{}) {
		return ""
	}
	return a.Hex()
}
