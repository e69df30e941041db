package labeling

import "errors"

// Sentinel errors for the session protocol. Store-level faults are wrapped
// with context before crossing this boundary; callers classify with
// errors.Is.
var (
	ErrNotAuthorized   = errors.New("not authorized to label")
	ErrNoCandidates    = errors.New("no candidates to label")
	ErrNoActiveSession = errors.New("no active labeling session")
	ErrUnknownVerdict  = errors.New("verdict not understood")
)
