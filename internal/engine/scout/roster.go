package scout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// RosterStatus tracks outreach to a saved creator.
type RosterStatus string

const (
	RosterNew       RosterStatus = "new"
	RosterContacted RosterStatus = "contacted"
	RosterPartner   RosterStatus = "partner"
	RosterDeclined  RosterStatus = "declined"
)

func validRosterStatus(s string) bool {
	switch RosterStatus(s) {
	case RosterNew, RosterContacted, RosterPartner, RosterDeclined:
		return true
	}
	return false
}

// RosterEntry is one saved creator.
type RosterEntry struct {
	ChannelID   string       `json:"channel_id"`
	Title       string       `json:"title"`
	Handle      string       `json:"handle,omitempty"`
	Link        string       `json:"link"`
	Country     string       `json:"country,omitempty"`
	Subscribers int64        `json:"subscribers"`
	AvgViews    int64        `json:"avg_views"`
	Status      RosterStatus `json:"status"`
	Notes       string       `json:"notes,omitempty"`
	RunID       string       `json:"run_id,omitempty"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

// Roster is a SQLite store of creators found by earlier runs. It feeds
// later runs as an exclusion table.
type Roster struct {
	db *sql.DB
}

// DefaultRosterPath returns ~/.go_scout/roster.db.
func DefaultRosterPath() string {
	return filepath.Join(os.Getenv("HOME"), ".go_scout", "roster.db")
}

// OpenRoster opens (or creates) the roster at path.
func OpenRoster(path string) (*Roster, error) {
	if path == "" {
		path = DefaultRosterPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("roster: mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("roster: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initRosterSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("roster: init schema: %w", err)
	}
	return &Roster{db: db}, nil
}

func initRosterSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS creators (
		channel_id  TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		handle      TEXT,
		link        TEXT NOT NULL,
		country     TEXT,
		subscribers INTEGER NOT NULL DEFAULT 0,
		avg_views   INTEGER NOT NULL DEFAULT 0,
		status      TEXT NOT NULL DEFAULT 'new',
		notes       TEXT,
		run_id      TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`)
	return err
}

// Close closes the database.
func (r *Roster) Close() error { return r.db.Close() }

// Save upserts rows. Metrics are refreshed; status and notes of existing
// entries are kept. Returns the number of rows written.
func (r *Roster) Save(ctx context.Context, runID string, rows []ResultRow) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("roster save: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC().Format(time.RFC3339)
	n := 0
	for _, row := range rows {
		if row.ChannelID == "" {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO creators (channel_id, title, handle, link, country, subscribers, avg_views, status, run_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 'new', ?, ?, ?)
			 ON CONFLICT(channel_id) DO UPDATE SET
			   title=excluded.title, handle=excluded.handle, link=excluded.link, country=excluded.country,
			   subscribers=excluded.subscribers, avg_views=excluded.avg_views,
			   run_id=excluded.run_id, updated_at=excluded.updated_at`,
			row.ChannelID, row.Title, row.Handle, row.Link, row.Country,
			row.Subscribers, row.AvgViews, runID, now, now,
		)
		if err != nil {
			return n, fmt.Errorf("roster save %s: %w", row.ChannelID, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("roster save: commit: %w", err)
	}
	return n, nil
}

// RosterFilter narrows List.
type RosterFilter struct {
	Status string
	Limit  int
}

// List returns entries, most recently updated first, and the total count
// matching the filter.
func (r *Roster) List(ctx context.Context, f RosterFilter) ([]RosterEntry, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	where, args := "", []any{}
	if f.Status != "" {
		status := strings.ToLower(f.Status)
		if !validRosterStatus(status) {
			return nil, 0, fmt.Errorf("roster list: invalid status %q", status)
		}
		where, args = " WHERE status = ?", append(args, status)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT channel_id, title, handle, link, country, subscribers, avg_views, status, notes, run_id, created_at, updated_at
		 FROM creators`+where+` ORDER BY updated_at DESC, channel_id LIMIT ?`,
		append(args, limit)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("roster list: query: %w", err)
	}
	defer rows.Close()

	entries := []RosterEntry{}
	for rows.Next() {
		var e RosterEntry
		var handle, country, notes, runID sql.NullString
		if err := rows.Scan(&e.ChannelID, &e.Title, &handle, &e.Link, &country,
			&e.Subscribers, &e.AvgViews, &e.Status, &notes, &runID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("roster list: scan: %w", err)
		}
		e.Handle = handle.String
		e.Country = country.String
		e.Notes = notes.String
		e.RunID = runID.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("roster list: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM creators`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("roster list: count: %w", err)
	}
	return entries, total, nil
}

// SetStatus updates the status and/or notes of one entry.
func (r *Roster) SetStatus(ctx context.Context, channelID, status, notes string) error {
	if channelID == "" {
		return errors.New("roster update: channel_id is required")
	}
	if status == "" && notes == "" {
		return errors.New("roster update: status or notes must be provided")
	}
	status = strings.ToLower(status)
	if status != "" && !validRosterStatus(status) {
		return fmt.Errorf("roster update: invalid status %q (valid: new, contacted, partner, declined)", status)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := r.db.ExecContext(ctx,
		`UPDATE creators SET
		   status = COALESCE(NULLIF(?, ''), status),
		   notes = COALESCE(NULLIF(?, ''), notes),
		   updated_at = ?
		 WHERE channel_id = ?`,
		status, notes, now, channelID,
	)
	if err != nil {
		return fmt.Errorf("roster update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("roster update: %s not found", channelID)
	}
	return nil
}

// Table returns every saved creator as an exclusion table.
func (r *Roster) Table(ctx context.Context) (Table, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT channel_id, handle, title, link FROM creators ORDER BY channel_id`)
	if err != nil {
		return Table{}, fmt.Errorf("roster table: %w", err)
	}
	defer rows.Close()

	t := Table{Columns: []string{"channel_id", "handle", "title", "link"}}
	for rows.Next() {
		var id, title, link string
		var handle sql.NullString
		if err := rows.Scan(&id, &handle, &title, &link); err != nil {
			return Table{}, fmt.Errorf("roster table: scan: %w", err)
		}
		h := ""
		if handle.String != "" {
			h = "@" + handle.String
		}
		t.Rows = append(t.Rows, []string{id, h, title, link})
	}
	return t, rows.Err()
}
