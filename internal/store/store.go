// Package store keeps the site's local records in SQLite: privacy-conscious
// page view tracking and the contact form diagnostic log.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

// visitorRetention is how long page views are kept.
const visitorRetention = "-12 months"

// Store wraps the SQLite handle.
type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Open creates or opens the database at path and runs migrations.
func Open(path, salt string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return newStore(db, salt)
}

// OpenMemory creates an in-memory database, used by tests.
func OpenMemory(salt string) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every connection to :memory: is its own database.
	db.SetMaxOpenConns(1)
	return newStore(db, salt)
}

func newStore(db *sql.DB, salt string) (*Store, error) {
	s := &Store{db: db, salt: salt, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS visitors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hashed_ip TEXT NOT NULL,
			user_agent TEXT,
			path TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors (timestamp)`,
		`CREATE TABLE IF NOT EXISTS contact_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			message TEXT NOT NULL,
			submitted_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// HashIP returns a salted, truncated hash so raw addresses are never stored.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RecordVisit stores one page view.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)`,
		s.HashIP(ip), userAgent, path, s.now().UTC())
	if err != nil {
		return fmt.Errorf("recording visitor: %w", err)
	}
	return nil
}

// CleanupVisitors removes page views older than the retention window.
func (s *Store) CleanupVisitors(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().AddDate(-1, 0, 0)
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up visitors: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Printf("store: privacy cleanup removed %d visitor records older than %s", n, visitorRetention)
	}
	return n, nil
}

// RecordContact implements portfolio.Diagnostics. It logs the submission and
// keeps a local copy.
func (s *Store) RecordContact(ctx context.Context, sub portfolio.Submission) error {
	if err := (portfolio.LogDiagnostics{}).RecordContact(ctx, sub); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_log (name, email, message, submitted_at) VALUES (?, ?, ?, ?)`,
		sub.Form.Name, sub.Form.Email, sub.Form.Message, sub.Submitted.UTC())
	if err != nil {
		return fmt.Errorf("recording contact: %w", err)
	}
	return nil
}
