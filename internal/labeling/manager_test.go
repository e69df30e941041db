package labeling_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"pulse/internal/event"
	"pulse/internal/labeling"
	"pulse/internal/store"
	"pulse/internal/testsupport"
)

type fakeMessenger struct {
	mu      sync.Mutex
	prompts int64
	updates []string
	closes  []string
	acks    []string
}

func (f *fakeMessenger) OpenPrompt(_ context.Context, userID string) (labeling.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts++
	return labeling.Prompt{Chat: userID, Message: f.prompts}, nil
}

func (f *fakeMessenger) UpdatePrompt(_ context.Context, _ labeling.Prompt, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, text)
	return nil
}

func (f *fakeMessenger) ClosePrompt(_ context.Context, _ labeling.Prompt, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes = append(f.closes, text)
	return nil
}

func (f *fakeMessenger) Acknowledge(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acks = append(f.acks, text)
	return nil
}

func (f *fakeMessenger) lastAck() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.acks) == 0 {
		return ""
	}
	return f.acks[len(f.acks)-1]
}

func newTestManager(t *testing.T, admins ...string) (*labeling.Manager, *store.Store, *fakeMessenger) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithAdmins(admins...))
	st := testsupport.MustOpenStore(t, cfg)
	messenger := &fakeMessenger{}
	auth := labeling.NewStaticAuthorizer(cfg.Labeling.Admins, cfg.Labeling.Testers)
	manager := labeling.NewManager(cfg, st, messenger, auth, nil,
		labeling.WithRand(rand.New(rand.NewSource(1))))
	return manager, st, messenger
}

func TestStartRequiresAdmin(t *testing.T) {
	manager, _, _ := newTestManager(t, "alice")

	err := manager.Start(context.Background(), "mallory")
	if !errors.Is(err, labeling.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, active := manager.ActiveSession("mallory"); active {
		t.Fatal("unauthorized user must not get a session")
	}
}

func TestStartWithNoCandidatesClosesSession(t *testing.T) {
	manager, _, messenger := newTestManager(t, "alice")

	err := manager.Start(context.Background(), "alice")
	if !errors.Is(err, labeling.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	if _, active := manager.ActiveSession("alice"); active {
		t.Fatal("session should close when nothing is labelable")
	}
	if len(messenger.closes) != 1 || messenger.closes[0] != labeling.TextNoData {
		t.Fatalf("expected no-data close, got %#v", messenger.closes)
	}
}

func TestVerdictExhaustionReportsNoCandidates(t *testing.T) {
	manager, st, messenger := newTestManager(t, "alice")
	ctx := context.Background()

	testsupport.SeedEvent(t, st, time.Now().UTC())

	if err := manager.Start(ctx, "alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Labeling the only candidate empties the window.
	err := manager.Submit(ctx, "alice", "fake")
	if !errors.Is(err, labeling.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	if _, active := manager.ActiveSession("alice"); active {
		t.Fatal("session should close once the window is empty")
	}
	if messenger.lastAck() != labeling.TextAckRecorded {
		t.Fatalf("verdict must still be acknowledged, got %q", messenger.lastAck())
	}
	if len(messenger.closes) != 1 || messenger.closes[0] != labeling.TextNoData {
		t.Fatalf("expected no-data close, got %#v", messenger.closes)
	}
}

func TestVerdictAdvancesThroughCandidates(t *testing.T) {
	manager, st, messenger := newTestManager(t, "alice")
	ctx := context.Background()
	now := time.Now().UTC()

	testsupport.SeedEvent(t, st, now)
	testsupport.SeedEvent(t, st, now.Add(time.Hour))

	if err := manager.Start(ctx, "alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	session, active := manager.ActiveSession("alice")
	if !active {
		t.Fatal("expected active session")
	}

	if err := manager.Submit(ctx, "alice", "real"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	labeledID := session.Current.ID
	labeled, err := st.GetEvent(ctx, labeledID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if label, ok := labeled.Label(); !ok || label != event.VerificationReal {
		t.Fatalf("verdict not persisted for %s", labeledID)
	}

	// The session advanced onto the remaining candidate.
	next, active := manager.ActiveSession("alice")
	if !active {
		t.Fatal("session should continue while candidates remain")
	}
	if next.Current.ID == labeledID {
		t.Fatal("session should hold a different event after a verdict")
	}
	if messenger.lastAck() != labeling.TextAckRecorded {
		t.Fatalf("expected recorded ack, got %q", messenger.lastAck())
	}
}

func TestMoreDataKeepsEventAndStore(t *testing.T) {
	manager, st, messenger := newTestManager(t, "alice")
	ctx := context.Background()

	testsupport.SeedEvent(t, st, time.Now().UTC())

	if err := manager.Start(ctx, "alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	before, _ := manager.ActiveSession("alice")
	updatesBefore := len(messenger.updates)

	if err := manager.Submit(ctx, "alice", "more_data"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	after, active := manager.ActiveSession("alice")
	if !active || after.Current.ID != before.Current.ID {
		t.Fatal("more_data must keep the current event")
	}
	stored, err := st.GetEvent(ctx, before.Current.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if stored.Verified() {
		t.Fatal("more_data must not write a verdict")
	}
	if len(messenger.updates) != updatesBefore+1 {
		t.Fatal("more_data should re-render the prompt")
	}
	// The re-render is the fuller representation.
	if len(messenger.updates[updatesBefore]) <= len(messenger.updates[updatesBefore-1]) {
		t.Fatal("expected expanded representation on more_data")
	}
}

func TestStopClosesSession(t *testing.T) {
	manager, st, messenger := newTestManager(t, "alice")
	ctx := context.Background()

	testsupport.SeedEvent(t, st, time.Now().UTC())

	if err := manager.Start(ctx, "alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := manager.Submit(ctx, "alice", "stop"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, active := manager.ActiveSession("alice"); active {
		t.Fatal("stop must destroy the session")
	}
	if len(messenger.closes) != 1 || messenger.closes[0] != labeling.TextFinish {
		t.Fatalf("expected finish close, got %#v", messenger.closes)
	}
}

func TestSubmitWithoutSession(t *testing.T) {
	manager, st, messenger := newTestManager(t, "alice")
	ctx := context.Background()

	seeded := testsupport.SeedEvent(t, st, time.Now().UTC())

	err := manager.Submit(ctx, "alice", "real")
	if !errors.Is(err, labeling.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
	if messenger.lastAck() != labeling.TextAckNoSession {
		t.Fatalf("expected no-session ack, got %q", messenger.lastAck())
	}

	// The store must be untouched.
	stored, err := st.GetEvent(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if stored.Verified() {
		t.Fatal("rejected verdict must not reach the store")
	}
}

func TestUnknownVerdictLeavesSessionUnchanged(t *testing.T) {
	manager, st, messenger := newTestManager(t, "alice")
	ctx := context.Background()

	testsupport.SeedEvent(t, st, time.Now().UTC())

	if err := manager.Start(ctx, "alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	before, _ := manager.ActiveSession("alice")

	err := manager.Submit(ctx, "alice", "maybe")
	if !errors.Is(err, labeling.ErrUnknownVerdict) {
		t.Fatalf("expected ErrUnknownVerdict, got %v", err)
	}
	after, active := manager.ActiveSession("alice")
	if !active || after.Current.ID != before.Current.ID {
		t.Fatal("unknown verdict must not move the session")
	}
	if messenger.lastAck() != labeling.TextAckUnknown {
		t.Fatalf("expected unknown ack, got %q", messenger.lastAck())
	}
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	manager, st, _ := newTestManager(t, "alice", "bob")
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 6; i++ {
		testsupport.SeedEvent(t, st, now.Add(time.Duration(i)*time.Minute))
	}

	if err := manager.Start(ctx, "alice"); err != nil {
		t.Fatalf("Start alice failed: %v", err)
	}
	if err := manager.Start(ctx, "bob"); err != nil {
		t.Fatalf("Start bob failed: %v", err)
	}

	alice, _ := manager.ActiveSession("alice")
	if err := manager.Submit(ctx, "bob", "stop"); err != nil {
		t.Fatalf("Submit bob failed: %v", err)
	}

	aliceAfter, active := manager.ActiveSession("alice")
	if !active {
		t.Fatal("bob stopping must not close alice's session")
	}
	if aliceAfter.Current.ID != alice.Current.ID {
		t.Fatal("bob's actions must not move alice's current event")
	}
}

func TestRestartDiscardsInFlightEvent(t *testing.T) {
	manager, st, _ := newTestManager(t, "alice")
	ctx := context.Background()

	seeded := testsupport.SeedEvent(t, st, time.Now().UTC())

	if err := manager.Start(ctx, "alice"); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := manager.Start(ctx, "alice"); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}

	stored, err := st.GetEvent(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if stored.Verified() {
		t.Fatal("restart must not persist the discarded event")
	}
	if _, active := manager.ActiveSession("alice"); !active {
		t.Fatal("restart should leave one active session")
	}
}

func TestSamplerEventuallyCoversWindow(t *testing.T) {
	manager, st, _ := newTestManager(t, "alice")
	ctx := context.Background()
	now := time.Now().UTC()

	want := make(map[string]bool)
	for i := 0; i < 3; i++ {
		ev := testsupport.SeedEvent(t, st, now.Add(time.Duration(i)*time.Minute))
		want[ev.ID] = false
	}
	testsupport.SeedEvent(t, st, now.Add(time.Hour), testsupport.WithDescription(""))
	testsupport.SeedEvent(t, st, now.Add(2*time.Hour), testsupport.WithDescription(""))

	// Restarting repeatedly resamples; every described candidate must show
	// up and the blank ones never may.
	for attempt := 0; attempt < 200; attempt++ {
		if err := manager.Start(ctx, "alice"); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		session, active := manager.ActiveSession("alice")
		if !active {
			t.Fatal("expected active session")
		}
		if _, ok := want[session.Current.ID]; !ok {
			t.Fatalf("sampled event %s outside the described set", session.Current.ID)
		}
		want[session.Current.ID] = true
	}
	for id, seen := range want {
		if !seen {
			t.Fatalf("candidate %s never sampled in 200 draws", id)
		}
	}
}

type failingSource struct {
	events []*event.Event
}

func (f *failingSource) RecentUnverified(context.Context, int) ([]*event.Event, error) {
	return f.events, nil
}

func (f *failingSource) SetVerification(context.Context, string, bool) error {
	return fmt.Errorf("disk full")
}

func TestPersistFailureKeepsSession(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAdmins("alice"))
	messenger := &fakeMessenger{}
	auth := labeling.NewStaticAuthorizer(cfg.Labeling.Admins, nil)

	source := &failingSource{events: []*event.Event{{
		ID:          "ev-1",
		Start:       time.Now().Add(-time.Hour),
		End:         time.Now(),
		Description: "stuck event",
	}}}
	manager := labeling.NewManager(cfg, source, messenger, auth, nil,
		labeling.WithRand(rand.New(rand.NewSource(1))))
	ctx := context.Background()

	if err := manager.Start(ctx, "alice"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	before, _ := manager.ActiveSession("alice")

	if err := manager.Submit(ctx, "alice", "fake"); err == nil {
		t.Fatal("expected persist failure to surface")
	}

	after, active := manager.ActiveSession("alice")
	if !active || after.Current.ID != before.Current.ID {
		t.Fatal("persist failure must leave the session on the same event")
	}
	if messenger.lastAck() != labeling.TextAckPersistErr {
		t.Fatalf("expected persist-failure ack, got %q", messenger.lastAck())
	}
}

type downSource struct{}

func (downSource) RecentUnverified(context.Context, int) ([]*event.Event, error) {
	return nil, fmt.Errorf("database is locked")
}

func (downSource) SetVerification(context.Context, string, bool) error {
	return nil
}

func TestSamplerFailureDistinctFromEmptyStore(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAdmins("alice"))
	messenger := &fakeMessenger{}
	auth := labeling.NewStaticAuthorizer(cfg.Labeling.Admins, nil)
	manager := labeling.NewManager(cfg, downSource{}, messenger, auth, nil,
		labeling.WithRand(rand.New(rand.NewSource(1))))

	err := manager.Start(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected sampler failure to surface")
	}
	if errors.Is(err, labeling.ErrNoCandidates) {
		t.Fatal("a sampler fault must not classify as an empty window")
	}
	if _, active := manager.ActiveSession("alice"); active {
		t.Fatal("session should close on sampler failure")
	}
	if len(messenger.closes) != 1 || messenger.closes[0] != labeling.TextSampleFailure {
		t.Fatalf("expected failure notice, got %#v", messenger.closes)
	}
}

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		input    string
		expected labeling.Verdict
		ok       bool
	}{
		{"real", labeling.VerdictReal, true},
		{" FAKE ", labeling.VerdictFake, true},
		{"more_data", labeling.VerdictMoreData, true},
		{"stop", labeling.VerdictStop, true},
		{"", "", false},
		{"yes", "", false},
	}
	for _, tc := range cases {
		got, ok := labeling.ParseVerdict(tc.input)
		if ok != tc.ok || got != tc.expected {
			t.Fatalf("ParseVerdict(%q) = %q, %t; expected %q, %t", tc.input, got, ok, tc.expected, tc.ok)
		}
	}
}
