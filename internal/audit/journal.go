// Package audit keeps an append-only journal of booking events in SQLite.
// The journal is a log for reporting, not the source of truth: the in-memory
// directory store remains authoritative.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/aarti98/ConferenceBookingSystem/internal/events"
	"github.com/aarti98/ConferenceBookingSystem/internal/models"
)

// Entry is one journal row.
type Entry struct {
	ID         int64
	EventType  string
	BookingID  string
	RoomID     string
	RoomName   string
	UserID     string
	OrgID      string
	OrgName    string
	Date       time.Time
	StartHour  int
	EndHour    int
	OccurredAt time.Time
}

// Journal wraps the SQLite audit database.
type Journal struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens the journal database at path and creates the schema.
func Open(path string, logger zerolog.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	schema := `CREATE TABLE IF NOT EXISTS booking_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		booking_id TEXT NOT NULL,
		room_id TEXT NOT NULL,
		room_name TEXT NOT NULL,
		user_id TEXT NOT NULL,
		org_id TEXT NOT NULL,
		org_name TEXT NOT NULL,
		date DATETIME NOT NULL,
		start_hour INTEGER NOT NULL,
		end_hour INTEGER NOT NULL,
		occurred_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &Journal{db: db, logger: logger.With().Str("component", "audit").Logger()}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends a booking event to the journal.
func (j *Journal) Record(ctx context.Context, eventType string, event events.BookingEvent) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO booking_events
		(event_type, booking_id, room_id, room_name, user_id, org_id, org_name, date, start_hour, end_hour, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		eventType, event.BookingID, event.RoomID, event.RoomName, event.UserID,
		event.OrgID, event.OrgName, event.Date, event.StartHour, event.EndHour, event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("record booking event: %w", err)
	}
	return nil
}

// Subscribe attaches the journal to the event bus. Write failures are
// logged, never propagated to the publisher.
func (j *Journal) Subscribe(bus *events.Bus) {
	handler := func(eventType string, event events.BookingEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := j.Record(ctx, eventType, event); err != nil {
			j.logger.Error().Err(err).Str("booking_id", event.BookingID).Msg("audit write failed")
		}
	}
	bus.Subscribe(events.TypeBookingCreated, handler)
	bus.Subscribe(events.TypeBookingCancelled, handler)
}

// EntriesForOrg returns journal rows for the organization, oldest first.
func (j *Journal) EntriesForOrg(ctx context.Context, orgID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, event_type, booking_id, room_id, room_name, user_id, org_id, org_name, date, start_hour, end_hour, occurred_at
		FROM booking_events WHERE org_id = ? ORDER BY id`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EventType, &e.BookingID, &e.RoomID, &e.RoomName,
			&e.UserID, &e.OrgID, &e.OrgName, &e.Date, &e.StartHour, &e.EndHour, &e.OccurredAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// dateColumn formats a journal date for export.
func dateColumn(t time.Time) string {
	return t.Format(models.DateLayout)
}
