package event

import (
	"strings"
	"time"
)

// Verification values stored in the events table and inside payloads.
const (
	VerificationFake = 0
	VerificationReal = 1
)

// Event represents a candidate newsworthy cluster persisted in the store.
// Verification is nil until a human labels the event.
type Event struct {
	ID           string
	Start        time.Time
	End          time.Time
	Validity     int
	Description  string
	Verification *int
	Payload      Payload
}

// Verified reports whether the event carries a human verdict.
func (e *Event) Verified() bool {
	return e.Verification != nil
}

// Label returns the binary label for a verified event. The boolean result is
// false for unverified events.
func (e *Event) Label() (int, bool) {
	if e.Verification == nil {
		return 0, false
	}
	return *e.Verification, true
}

// Window returns the activity window bounded by Start and End.
func (e *Event) Window() time.Duration {
	if e.End.Before(e.Start) {
		return 0
	}
	return e.End.Sub(e.Start)
}

// HasDescription reports whether the event carries non-blank summary text.
func (e *Event) HasDescription() bool {
	return strings.TrimSpace(e.Description) != ""
}
