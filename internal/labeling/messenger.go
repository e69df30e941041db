package labeling

import "context"

// Prompt identifies the rendered labeling prompt so it can be edited in
// place. The session UI is a single evolving element per user.
type Prompt struct {
	Chat    string
	Message int64
}

// Messenger is the messaging front-end boundary. Implementations deliver
// prompts and transient acknowledgments; the session manager never talks to
// a chat platform directly.
type Messenger interface {
	// OpenPrompt greets the user and establishes the prompt location that
	// subsequent renders edit in place.
	OpenPrompt(ctx context.Context, userID string) (Prompt, error)
	// UpdatePrompt replaces the prompt content with an event summary plus
	// the four verdict options.
	UpdatePrompt(ctx context.Context, prompt Prompt, text string) error
	// ClosePrompt replaces the prompt with a terminal message.
	ClosePrompt(ctx context.Context, prompt Prompt, text string) error
	// Acknowledge delivers a short transient reply outside the prompt.
	Acknowledge(ctx context.Context, userID, text string) error
}

// Prompt texts shown during a labeling session.
const (
	TextStart = "Let's improve event detection. You will see clusters of " +
		"social media messages; answer whether each one is a real newsbreak."
	TextPlaceholder   = "Wait, while an event is loading..."
	TextNoData        = "There is nothing to classify yet. Come back later."
	TextSampleFailure = "Could not load events right now. Try again later."
	TextFinish        = "That's enough for now. Let's have a break."
	TextAckRecorded   = "Ok!"
	TextAckUnknown    = "Strange answer..."
	TextAckNoSession  = "What were we talking about?"
	TextAckPersistErr = "Could not save that verdict, try again."
)
