package store

import (
	"context"
	"fmt"

	"pulse/internal/event"
)

// TrainerRow is an archival bootstrap label: a verdict plus the decoded
// payload it applies to. Rows share the live events' decode path.
type TrainerRow struct {
	ID           int64
	Verification int
	Payload      *event.Payload
}

// AddTrainerRow archives a labeled payload into the event_trainer table.
func (s *Store) AddTrainerRow(ctx context.Context, verification int, payload *event.Payload) error {
	if verification != event.VerificationFake && verification != event.VerificationReal {
		return fmt.Errorf("add trainer row: invalid verification %d", verification)
	}
	blob, err := payload.Encode()
	if err != nil {
		return fmt.Errorf("add trainer row: %w", err)
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO event_trainer (verification, payload) VALUES (?, ?)`,
		verification, blob); err != nil {
		return fmt.Errorf("add trainer row: %w", err)
	}
	return nil
}

// TrainerRows returns every archival row with its payload decoded. Rows whose
// payloads no longer decode are skipped rather than failing the whole read.
func (s *Store) TrainerRows(ctx context.Context) ([]TrainerRow, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, verification, payload FROM event_trainer ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query trainer rows: %w", err)
	}
	defer rows.Close()

	var out []TrainerRow
	for rows.Next() {
		var (
			row  TrainerRow
			blob []byte
		)
		if err := rows.Scan(&row.ID, &row.Verification, &blob); err != nil {
			return nil, fmt.Errorf("scan trainer row: %w", err)
		}
		payload, err := event.Decode(blob)
		if err != nil {
			continue
		}
		row.Payload = payload
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trainer rows: %w", err)
	}
	return out, nil
}
