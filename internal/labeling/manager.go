package labeling

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"pulse/internal/config"
	"pulse/internal/event"
	"pulse/internal/logging"
)

// EventSource is the slice of the store the session protocol needs.
type EventSource interface {
	RecentUnverified(ctx context.Context, limit int) ([]*event.Event, error)
	SetVerification(ctx context.Context, id string, verified bool) error
}

// Session is one user's in-flight labeling exchange. A session exists only
// while a verdict is awaited; idle users have no session.
type Session struct {
	UserID  string
	Prompt  Prompt
	Current *event.Event
}

// Manager multiplexes independent per-user labeling sessions over a shared
// event source. Every transition is driven by an inbound user action; there
// are no background timers.
type Manager struct {
	source    EventSource
	messenger Messenger
	auth      Authorizer
	logger    *slog.Logger
	window    int

	mu       sync.Mutex
	sessions map[string]*Session
	rng      *rand.Rand
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithRand injects the random source used for candidate picks. Tests pass a
// seeded source for determinism.
func WithRand(rng *rand.Rand) ManagerOption {
	return func(m *Manager) {
		m.rng = rng
	}
}

// NewManager constructs a session manager.
func NewManager(cfg *config.Config, source EventSource, messenger Messenger, auth Authorizer, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		source:    source,
		messenger: messenger,
		auth:      auth,
		logger:    logging.WithComponent(logger, "labeling"),
		window:    cfg.Sampler.Window,
		sessions:  make(map[string]*Session),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins (or restarts) a labeling session for the user. An existing
// session is overwritten; its in-flight event is discarded unpersisted.
func (m *Manager) Start(ctx context.Context, userID string) error {
	role, err := m.auth.RoleFor(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve role for %s: %w", userID, err)
	}
	if role != RoleAdmin {
		return fmt.Errorf("start session for %s: %w", userID, ErrNotAuthorized)
	}

	prompt, err := m.messenger.OpenPrompt(ctx, userID)
	if err != nil {
		return fmt.Errorf("open prompt for %s: %w", userID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session := &Session{UserID: userID, Prompt: prompt}
	m.sessions[userID] = session
	m.logger.Info("session started", slog.String("user", userID))

	return m.advanceLocked(ctx, session)
}

// Submit applies a verdict from the user to their current event. Verdicts
// outside an active session and unrecognized inputs are acknowledged and
// reported without mutating any state.
func (m *Manager) Submit(ctx context.Context, userID, input string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[userID]
	if !ok {
		_ = m.messenger.Acknowledge(ctx, userID, TextAckNoSession)
		return fmt.Errorf("submit for %s: %w", userID, ErrNoActiveSession)
	}

	verdict, ok := ParseVerdict(input)
	if !ok {
		_ = m.messenger.Acknowledge(ctx, userID, TextAckUnknown)
		return fmt.Errorf("submit %q for %s: %w", input, userID, ErrUnknownVerdict)
	}

	switch verdict {
	case VerdictReal, VerdictFake:
		if err := m.source.SetVerification(ctx, session.Current.ID, verdict == VerdictReal); err != nil {
			// Session stays on the same event so the verdict can be retried.
			_ = m.messenger.Acknowledge(ctx, userID, TextAckPersistErr)
			return fmt.Errorf("persist verdict for %s: %w", session.Current.ID, err)
		}
		m.logger.Info("verdict recorded",
			slog.String("user", userID),
			slog.String("event", session.Current.ID),
			slog.String("verdict", string(verdict)),
		)
		_ = m.messenger.Acknowledge(ctx, userID, TextAckRecorded)
		return m.advanceLocked(ctx, session)

	case VerdictMoreData:
		// Re-render the held event in full; no sampling, no store write.
		return m.messenger.UpdatePrompt(ctx, session.Prompt, session.Current.Summary(true))

	case VerdictStop:
		delete(m.sessions, userID)
		m.logger.Info("session closed", slog.String("user", userID))
		return m.messenger.ClosePrompt(ctx, session.Prompt, TextFinish)
	}
	return nil
}

// ActiveSession returns a copy of the user's current session state.
func (m *Manager) ActiveSession(userID string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// advanceLocked samples the next candidate and renders it into the session's
// prompt. An empty candidate window closes the session and reports
// ErrNoCandidates. Callers hold m.mu.
func (m *Manager) advanceLocked(ctx context.Context, session *Session) error {
	candidates, err := m.source.RecentUnverified(ctx, m.window)
	if err != nil {
		// A sampler fault is not an empty store; say so.
		delete(m.sessions, session.UserID)
		_ = m.messenger.ClosePrompt(ctx, session.Prompt, TextSampleFailure)
		return fmt.Errorf("sample candidate: %w", err)
	}
	if len(candidates) == 0 {
		delete(m.sessions, session.UserID)
		m.logger.Info("no candidates remain", slog.String("user", session.UserID))
		if err := m.messenger.ClosePrompt(ctx, session.Prompt, TextNoData); err != nil {
			return err
		}
		return fmt.Errorf("sample candidate for %s: %w", session.UserID, ErrNoCandidates)
	}

	session.Current = candidates[m.rng.Intn(len(candidates))]
	return m.messenger.UpdatePrompt(ctx, session.Prompt, session.Current.Summary(false))
}
