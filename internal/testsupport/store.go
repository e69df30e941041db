package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"pulse/internal/config"
	"pulse/internal/event"
	"pulse/internal/store"
)

// MustOpenStore opens a store for the provided config and closes it when the
// test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// EventOption customizes a seeded event.
type EventOption func(*event.Event)

// SeedEvent inserts a synthetic candidate event ending at the given time.
func SeedEvent(t testing.TB, st *store.Store, end time.Time, opts ...EventOption) *event.Event {
	t.Helper()

	ev := &event.Event{
		ID:          uuid.NewString(),
		Start:       end.Add(-30 * time.Minute),
		End:         end,
		Validity:    1,
		Description: "seeded event",
		Payload: event.Payload{
			MsgCount:    40,
			AuthorCount: 12,
			Entropy:     2.1,
			PPA:         3.3,
			Density:     0.4,
			Spread:      0.7,
			MediaShare:  0.25,
			CopyRate:    0.1,
		},
	}
	for _, opt := range opts {
		opt(ev)
	}
	if err := st.InsertEvent(context.Background(), ev); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return ev
}

// WithDescription overrides the seeded description.
func WithDescription(text string) EventOption {
	return func(ev *event.Event) {
		ev.Description = text
	}
}

// WithVerification seeds the event already labeled.
func WithVerification(value int) EventOption {
	return func(ev *event.Event) {
		ev.Verification = &value
		ev.Payload.Verification = &value
	}
}

// WithFeatures overrides the payload feature block.
func WithFeatures(payload event.Payload) EventOption {
	return func(ev *event.Event) {
		verification := ev.Payload.Verification
		ev.Payload = payload
		ev.Payload.Verification = verification
	}
}
