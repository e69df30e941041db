package event

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Summary renders the compact prompt shown during labeling: headline,
// activity window and cluster size. The full variant appends the numeric
// feature block for "more data" requests.
func (e *Event) Summary(full bool) string {
	var b strings.Builder

	headline := strings.TrimSpace(e.Description)
	if headline != "" {
		b.WriteString(titleCaser.String(headline))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Window: %s — %s (%s)\n",
		e.Start.Format("2006-01-02 15:04"),
		e.End.Format("15:04"),
		formatWindow(e.Window()),
	)
	fmt.Fprintf(&b, "Messages: %d from %d authors\n", e.Payload.MsgCount, e.Payload.AuthorCount)

	if full {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Entropy: %.3f\n", e.Payload.Entropy)
		fmt.Fprintf(&b, "Posts per author: %.2f\n", e.Payload.PPA)
		fmt.Fprintf(&b, "Density: %.3f\n", e.Payload.Density)
		fmt.Fprintf(&b, "Spread: %.3f\n", e.Payload.Spread)
		fmt.Fprintf(&b, "Media share: %.2f\n", e.Payload.MediaShare)
		fmt.Fprintf(&b, "Copy rate: %.2f\n", e.Payload.CopyRate)
		fmt.Fprintf(&b, "Detector validity: %d\n", e.Validity)
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatWindow(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}
