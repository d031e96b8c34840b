// Package journal appends evaluated lines to a SQLite database so sessions
// can be reviewed later.
package journal

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	praxis "github.com/rphilander/praxis/core"
)

const schema = `CREATE TABLE IF NOT EXISTS evals (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session    TEXT    NOT NULL,
	input      TEXT    NOT NULL,
	output     TEXT    NOT NULL,
	kind       TEXT    NOT NULL,
	is_error   INTEGER NOT NULL,
	allocs     INTEGER NOT NULL,
	at         TEXT    NOT NULL,
	elapsed_us INTEGER NOT NULL
)`

// Entry is one journaled line.
type Entry struct {
	ID        int64
	Session   string
	Input     string
	Output    string
	Kind      string
	IsError   bool
	Allocs    int
	At        string
	ElapsedUS int64
}

// Journal is a praxis.Recorder backed by SQLite. It is safe for concurrent
// use.
type Journal struct {
	db      *sql.DB
	mu      sync.Mutex
	path    string
	session string
}

var _ praxis.Recorder = (*Journal)(nil)

// Open opens (or creates) the journal at path and starts a new session.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal: missing path")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}

	j := &Journal{db: db, path: path, session: newSessionID()}
	log.Printf("opened journal: %s (session %s)", path, j.session)
	return j, nil
}

// Session returns the id stamped on every entry recorded by this Journal.
func (j *Journal) Session() string {
	return j.session
}

// Record appends t to the journal.
func (j *Journal) Record(t *praxis.Trace) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	isError := 0
	if t.IsError {
		isError = 1
	}
	_, err := j.db.Exec(
		`INSERT INTO evals (session, input, output, kind, is_error, allocs, at, elapsed_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		j.session, t.Input, t.Output, t.Kind, isError, t.Allocs, t.Timestamp, t.Elapsed.Microseconds(),
	)
	if err != nil {
		return fmt.Errorf("journal: insert: %w", err)
	}
	return nil
}

// Recent returns up to n of the latest entries across all sessions, oldest
// first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(
		`SELECT id, session, input, output, kind, is_error, allocs, at, elapsed_us
		 FROM evals ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var isError int
		if err := rows.Scan(&e.ID, &e.Session, &e.Input, &e.Output, &e.Kind, &isError, &e.Allocs, &e.At, &e.ElapsedUS); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.IsError = isError != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}

	for i, k := 0, len(entries)-1; i < k; i, k = i+1, k-1 {
		entries[i], entries[k] = entries[k], entries[i]
	}
	return entries, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	log.Printf("closing journal: %s", j.path)
	return j.db.Close()
}

func newSessionID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		log.Fatalf("generate session id: %v", err)
	}
	buf[6] = (buf[6] & 0x0f) | 0x40 // version 4
	buf[8] = (buf[8] & 0x3f) | 0x80 // variant 2
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		buf[0:4], buf[4:6], buf[6:8], buf[8:10], buf[10:16])
}
