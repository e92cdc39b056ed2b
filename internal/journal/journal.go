package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DefaultDriver = "sqlite3"
	DefaultDSN    = "esq-journal.db"
)

const createTable = `CREATE TABLE IF NOT EXISTS esq_journal (
	session VARCHAR(36) NOT NULL,
	seq INTEGER NOT NULL,
	source TEXT NOT NULL,
	result TEXT NOT NULL,
	type_tag VARCHAR(255) NOT NULL,
	failure TEXT NOT NULL,
	created_at BIGINT NOT NULL,
	PRIMARY KEY (session, seq)
)`

// Entry is one evaluated top-level input. Failure is empty on success.
type Entry struct {
	Session string
	Seq     int
	Source  string
	Result  string
	Type    string
	Failure string
	At      time.Time
}

func (e Entry) Succeeded() bool {
	return e.Failure == ""
}

// Store persists entries in the esq_journal table.
type Store struct {
	db     *sql.DB
	driver string
	once   sync.Once
}

// Open connects with the given database/sql driver and creates the journal
// table when it does not exist.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if !supported(driver) {
		return nil, fmt.Errorf("journal: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: failed to open connection: %w", err)
	}
	if driver == DefaultDriver {
		// sqlite serializes writers; one connection also keeps :memory: alive
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: failed to create table: %w", err)
	}

	slog.Debug("journal opened", slog.String("driver", driver))
	return &Store{db: db, driver: driver}, nil
}

func supported(driver string) bool {
	switch driver {
	case "sqlite3", "mysql", "postgres":
		return true
	}
	return false
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var out strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&out, "$%d", n)
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	query := s.rebind(`INSERT INTO esq_journal (session, seq, source, result, type_tag, failure, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		e.Session, e.Seq, e.Source, e.Result, e.Type, e.Failure, e.At.UnixNano())
	if err != nil {
		return fmt.Errorf("journal: record %s/%d: %w", e.Session, e.Seq, err)
	}
	return nil
}

// Entries returns the entries of session ordered by sequence number.
func (s *Store) Entries(ctx context.Context, session string) ([]Entry, error) {
	query := s.rebind(`SELECT session, seq, source, result, type_tag, failure, created_at
		FROM esq_journal WHERE session = ? ORDER BY seq`)
	rows, err := s.db.QueryContext(ctx, query, session)
	if err != nil {
		return nil, fmt.Errorf("journal: query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.Session, &e.Seq, &e.Source, &e.Result, &e.Type, &e.Failure, &at); err != nil {
			return nil, fmt.Errorf("journal: scan failed: %w", err)
		}
		e.At = time.Unix(0, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Sessions lists the recorded session ids, oldest first.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session FROM esq_journal GROUP BY session ORDER BY MIN(created_at), session`)
	if err != nil {
		return nil, fmt.Errorf("journal: query failed: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("journal: scan failed: %w", err)
		}
		sessions = append(sessions, id)
	}
	return sessions, rows.Err()
}

// Close releases the connection pool. Subsequent calls return nil.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
		slog.Debug("journal closed", slog.String("driver", s.driver))
	})
	return err
}
