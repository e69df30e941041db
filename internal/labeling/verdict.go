package labeling

import "strings"

// Verdict is a human judgment submitted during a labeling session.
type Verdict string

const (
	VerdictReal     Verdict = "real"
	VerdictFake     Verdict = "fake"
	VerdictMoreData Verdict = "more_data"
	VerdictStop     Verdict = "stop"
)

var verdictSet = map[Verdict]struct{}{
	VerdictReal:     {},
	VerdictFake:     {},
	VerdictMoreData: {},
	VerdictStop:     {},
}

// ParseVerdict converts front-end input into a known Verdict.
func ParseVerdict(value string) (Verdict, bool) {
	normalized := Verdict(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := verdictSet[normalized]
	return normalized, ok
}
