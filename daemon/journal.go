// Copyright (C) 2026 GatewayKit Contributors
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package daemon

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite3 driver
)

// Journal records every network configuration mutation in a SQLite
// database for diagnostics. It is not a source of truth; losing it
// loses history, not state.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens (creating if needed) the mutation journal at path.
func OpenJournal(path string) (*Journal, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initializeSchema(); err != nil {
		j.Close()
		return nil, err
	}

	return j, nil
}

func (j *Journal) initializeSchema() error {
	schemaSQL := `
		CREATE TABLE IF NOT EXISTS mutations (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			op        TEXT NOT NULL,
			session   TEXT NOT NULL,
			channel   TEXT,
			detail    TEXT,
			code      TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_mutations_timestamp ON mutations(timestamp);
		CREATE INDEX IF NOT EXISTS idx_mutations_op ON mutations(op);
	`

	if _, err := j.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create mutations table: %w", err)
	}

	return nil
}

// Record inserts one mutation entry. code is the outcome
// classification of the operation.
func (j *Journal) Record(op, session, channel, detail, code string) error {
	insertSQL := `INSERT INTO mutations (timestamp, op, session, channel, detail, code) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := j.db.Exec(insertSQL, time.Now().Unix(), op, session, channel, detail, code)
	if err != nil {
		return fmt.Errorf("failed to record mutation: %w", err)
	}
	return nil
}

// Mutation is a single journal entry.
type Mutation struct {
	ID        int
	Timestamp time.Time
	Op        string
	Session   string
	Channel   string
	Detail    string
	Code      string
}

// QueryMutations returns the newest entries first, optionally filtered
// by op, up to limit (0 means no limit).
func (j *Journal) QueryMutations(op string, limit int) ([]Mutation, error) {
	query := "SELECT id, timestamp, op, session, channel, detail, code FROM mutations WHERE 1=1"
	args := []interface{}{}

	if op != "" {
		query += " AND op = ?"
		args = append(args, op)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mutations: %w", err)
	}
	defer rows.Close()

	var entries []Mutation
	for rows.Next() {
		var entry Mutation
		var ts int64
		var channel, detail sql.NullString
		if err := rows.Scan(&entry.ID, &ts, &entry.Op, &entry.Session, &channel, &detail, &entry.Code); err != nil {
			return nil, fmt.Errorf("failed to scan mutation: %w", err)
		}
		entry.Timestamp = time.Unix(ts, 0)
		entry.Channel = channel.String
		entry.Detail = detail.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mutations: %w", err)
	}

	return entries, nil
}

// ActivityBucket is a per-hour mutation count.
type ActivityBucket struct {
	Hour  time.Time
	Count int
}

// ActivityByHour returns mutation counts bucketed by hour since the
// given time, oldest first. Hours with no activity are absent.
func (j *Journal) ActivityByHour(since time.Time) ([]ActivityBucket, error) {
	query := `
		SELECT (timestamp / 3600) * 3600 AS hour, COUNT(*)
		FROM mutations
		WHERE timestamp >= ?
		GROUP BY hour
		ORDER BY hour ASC
	`

	rows, err := j.db.Query(query, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	var buckets []ActivityBucket
	for rows.Next() {
		var hour int64
		var count int
		if err := rows.Scan(&hour, &count); err != nil {
			return nil, fmt.Errorf("failed to scan activity bucket: %w", err)
		}
		buckets = append(buckets, ActivityBucket{Hour: time.Unix(hour, 0), Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}

	return buckets, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
