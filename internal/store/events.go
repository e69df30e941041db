package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pulse/internal/event"
)

const eventColumns = `id, "start", "end", validity, description, payload, verification`

// timestampLayout keeps the fractional part fixed-width so the TEXT columns
// collate in time order. RFC3339Nano drops trailing zeros, which would sort a
// whole-second end after a later fractional one.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// InsertEvent stores a new candidate event. An empty ID is assigned a fresh
// UUID. The payload is encoded from the event's decoded form.
func (s *Store) InsertEvent(ctx context.Context, ev *event.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.Payload.ID = ev.ID
	ev.Payload.Start = ev.Start.UTC().Unix()
	ev.Payload.End = ev.End.UTC().Unix()
	ev.Payload.Description = ev.Description

	blob, err := ev.Payload.Encode()
	if err != nil {
		return fmt.Errorf("insert event %s: %w", ev.ID, err)
	}

	var verification any
	if ev.Verification != nil {
		verification = *ev.Verification
	}

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID,
		ev.Start.UTC().Format(timestampLayout),
		ev.End.UTC().Format(timestampLayout),
		ev.Validity,
		ev.Description,
		blob,
		verification,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", ev.ID, err)
	}
	return nil
}

// GetEvent fetches an event by identifier. Returns ErrNotFound when absent.
func (s *Store) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return ev, nil
}

// RecentUnverified returns up to limit unlabeled events with non-empty
// descriptions, most recently ended first. This is the sampler's candidate
// window; the caller picks uniformly from it.
func (s *Store) RecentUnverified(ctx context.Context, limit int) ([]*event.Event, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+eventColumns+` FROM events
		 WHERE verification IS NULL AND description != ''
		 ORDER BY "end" DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query unverified events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// SetVerification records a verdict on a single event: the stored payload is
// decoded, its verification field stamped, and both the re-encoded payload
// and the verification column written in one statement. Feature fields are
// never altered.
func (s *Store) SetVerification(ctx context.Context, id string, verified bool) error {
	ctx = ensureContext(ctx)

	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM events WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("set verification %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("set verification %s: read payload: %w", id, err)
	}

	payload, err := event.Decode(blob)
	if err != nil {
		return fmt.Errorf("set verification %s: %w", id, err)
	}
	payload.SetVerification(verified)

	encoded, err := payload.Encode()
	if err != nil {
		return fmt.Errorf("set verification %s: %w", id, err)
	}

	value := event.VerificationFake
	if verified {
		value = event.VerificationReal
	}

	res, err := s.execWithRetry(ctx,
		`UPDATE events SET payload = ?, verification = ? WHERE id = ?`,
		encoded, value, id)
	if err != nil {
		return fmt.Errorf("set verification %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set verification %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("set verification %s: %w", id, ErrNotFound)
	}
	return nil
}

// LabeledEvents returns every event carrying a verdict.
func (s *Store) LabeledEvents(ctx context.Context) ([]*event.Event, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+eventColumns+` FROM events WHERE verification IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query labeled events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// Counts summarizes labeling progress across the live store.
type Counts struct {
	Total     int
	Unlabeled int
	Real      int
	Fake      int
	Archival  int
}

// Counts reports labeling progress for operator-facing summaries.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	ctx = ensureContext(ctx)
	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN verification IS NULL THEN 1 ELSE 0 END),
		       SUM(CASE WHEN verification = 1 THEN 1 ELSE 0 END),
		       SUM(CASE WHEN verification = 0 THEN 1 ELSE 0 END)
		FROM events`).Scan(&c.Total, &nullableInt{&c.Unlabeled}, &nullableInt{&c.Real}, &nullableInt{&c.Fake})
	if err != nil {
		return Counts{}, fmt.Errorf("count events: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_trainer`).Scan(&c.Archival); err != nil {
		return Counts{}, fmt.Errorf("count trainer rows: %w", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(scanner rowScanner) (*event.Event, error) {
	var (
		ev           event.Event
		start, end   string
		blob         []byte
		verification sql.NullInt64
	)
	if err := scanner.Scan(&ev.ID, &start, &end, &ev.Validity, &ev.Description, &blob, &verification); err != nil {
		return nil, err
	}

	var err error
	if ev.Start, err = parseTimestamp(start); err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}
	if ev.End, err = parseTimestamp(end); err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}
	if verification.Valid {
		value := int(verification.Int64)
		ev.Verification = &value
	}

	payload, err := event.Decode(blob)
	if err != nil {
		return nil, err
	}
	ev.Payload = *payload
	return &ev, nil
}

func collectEvents(rows *sql.Rows) ([]*event.Event, error) {
	var events []*event.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

// nullableInt scans SUM results, which are NULL over an empty table.
type nullableInt struct {
	target *int
}

func (n *nullableInt) Scan(value any) error {
	if value == nil {
		*n.target = 0
		return nil
	}
	switch v := value.(type) {
	case int64:
		*n.target = int(v)
	case float64:
		*n.target = int(v)
	default:
		return fmt.Errorf("unsupported count type %T", value)
	}
	return nil
}
