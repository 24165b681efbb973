// Package db provides SQLite-backed storage for the portfolio service.
//
// Each top-level resource (projects, testimonials, inquiries, notifications)
// lives in its own table; inquiry sub-collections (messages, tasks, documents,
// team members, invoices) live in child tables keyed by inquiry_id and are
// assembled into nested arrays when an inquiry is read.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// DB wraps a SQL database connection with portfolio-specific operations.
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the portfolio database under dataDir.
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(dataDir, "portfolio.db")
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'upcoming',
			technologies TEXT NOT NULL DEFAULT '[]',
			url TEXT NOT NULL DEFAULT '',
			github_url TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			featured INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS testimonials (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL DEFAULT 5,
			avatar TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','approved','rejected')),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inquiries (
			id INTEGER PRIMARY KEY,
			client_name TEXT NOT NULL,
			client_email TEXT NOT NULL,
			client_phone TEXT NOT NULL DEFAULT '',
			project_title TEXT NOT NULL,
			project_description TEXT NOT NULL DEFAULT '',
			project_type TEXT NOT NULL DEFAULT '',
			budget TEXT NOT NULL DEFAULT '',
			timeline TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','in-progress','completed','cancelled')),
			priority TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low','medium','high','urgent')),
			progress INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inquiry_messages (
			id INTEGER PRIMARY KEY,
			inquiry_id INTEGER NOT NULL REFERENCES inquiries(id) ON DELETE CASCADE,
			sender TEXT NOT NULL CHECK(sender IN ('client','admin')),
			message TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inquiry_tasks (
			id INTEGER PRIMARY KEY,
			inquiry_id INTEGER NOT NULL REFERENCES inquiries(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','in-progress','completed')),
			assignee TEXT NOT NULL DEFAULT '',
			due_date TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT 'medium',
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inquiry_documents (
			id INTEGER PRIMARY KEY,
			inquiry_id INTEGER NOT NULL REFERENCES inquiries(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'contract' CHECK(type IN ('contract','agreement','nda','proposal')),
			status TEXT NOT NULL DEFAULT 'draft' CHECK(status IN ('draft','pending-signature','signed','expired')),
			url TEXT NOT NULL DEFAULT '',
			signed_by TEXT NOT NULL DEFAULT '',
			signed_at DATETIME,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inquiry_team_members (
			id INTEGER PRIMARY KEY,
			inquiry_id INTEGER NOT NULL REFERENCES inquiries(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			avatar TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inquiry_invoices (
			id INTEGER PRIMARY KEY,
			inquiry_id INTEGER NOT NULL REFERENCES inquiries(id) ON DELETE CASCADE,
			amount REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'draft' CHECK(status IN ('draft','sent','paid','overdue')),
			due_date TEXT NOT NULL DEFAULT '',
			items TEXT NOT NULL DEFAULT '[]',
			paid_at DATETIME,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT 'info' CHECK(type IN ('info','success','warning','error')),
			category TEXT NOT NULL DEFAULT 'system' CHECK(category IN ('project','user','system','inquiry')),
			is_read INTEGER NOT NULL DEFAULT 0,
			action_url TEXT NOT NULL DEFAULT '',
			action_text TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inquiries_email ON inquiries(client_email)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_inquiry ON inquiry_messages(inquiry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_inquiry ON inquiry_tasks(inquiry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_inquiry ON inquiry_documents(inquiry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_team_inquiry ON inquiry_team_members(inquiry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_inquiry ON inquiry_invoices(inquiry_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
