// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package sessionstore persists a model.SessionHistory between runs of the
// CLI, keyed by session id, in a local SQLite database. This is the
// calling session's concern, never the composition core's: the core
// receives and returns a SessionHistory value and never touches a
// database itself.
package sessionstore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

// Store wraps a SQLite connection holding one row per session id.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("opening session store %s: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS session_history (
			session_id  TEXT PRIMARY KEY,
			capacity    INTEGER NOT NULL,
			entries     TEXT NOT NULL,
			updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating session_history table: %w", err)
	}
	return nil
}

// Load returns the stored history for sessionID, or a fresh
// model.NewSessionHistory() if no row exists yet.
func (s *Store) Load(sessionID string) (model.SessionHistory, error) {
	row := s.db.QueryRow(`SELECT capacity, entries FROM session_history WHERE session_id = ?`, sessionID)
	var capacity int
	var entriesJSON string
	err := row.Scan(&capacity, &entriesJSON)
	if err == sql.ErrNoRows {
		return model.NewSessionHistory(), nil
	}
	if err != nil {
		return model.SessionHistory{}, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	var entries []model.HistoryEntry
	if err := json.Unmarshal([]byte(entriesJSON), &entries); err != nil {
		return model.SessionHistory{}, fmt.Errorf("decoding session %s history: %w", sessionID, err)
	}
	return model.SessionHistory{Capacity: capacity, Entries: entries}, nil
}

// Save upserts the given history under sessionID.
func (s *Store) Save(sessionID string, history model.SessionHistory) error {
	capacity := history.Capacity
	if capacity <= 0 {
		capacity = model.DefaultHistoryCapacity
	}
	entriesJSON, err := json.Marshal(history.Entries)
	if err != nil {
		return fmt.Errorf("encoding session %s history: %w", sessionID, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO session_history (session_id, capacity, entries, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_id) DO UPDATE SET capacity = excluded.capacity, entries = excluded.entries, updated_at = CURRENT_TIMESTAMP
	`, sessionID, capacity, string(entriesJSON))
	if err != nil {
		return fmt.Errorf("saving session %s: %w", sessionID, err)
	}
	return nil
}
