package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"pulse/internal/labeling"
)

const verdictOptions = "[r]eal  [f]ake  [m]ore data  [s]top"

// consoleMessenger renders labeling prompts on the local terminal. It stands
// in for the messaging front-end so an operator can label without the chat
// platform; "editing in place" becomes printing the updated prompt under a
// fresh divider.
type consoleMessenger struct {
	out     io.Writer
	color   bool
	counter int64
}

func newConsoleMessenger(out io.Writer) *consoleMessenger {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &consoleMessenger{out: out, color: color}
}

func (c *consoleMessenger) OpenPrompt(_ context.Context, userID string) (labeling.Prompt, error) {
	fmt.Fprintln(c.out, labeling.TextStart)
	fmt.Fprintln(c.out, labeling.TextPlaceholder)
	c.counter++
	return labeling.Prompt{Chat: userID, Message: c.counter}, nil
}

func (c *consoleMessenger) UpdatePrompt(_ context.Context, _ labeling.Prompt, text string) error {
	fmt.Fprintln(c.out, c.divider())
	fmt.Fprintln(c.out, text)
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.emphasize(verdictOptions))
	return nil
}

func (c *consoleMessenger) ClosePrompt(_ context.Context, _ labeling.Prompt, text string) error {
	fmt.Fprintln(c.out, c.divider())
	fmt.Fprintln(c.out, text)
	return nil
}

func (c *consoleMessenger) Acknowledge(_ context.Context, _ string, text string) error {
	fmt.Fprintf(c.out, "-- %s\n", text)
	return nil
}

func (c *consoleMessenger) divider() string {
	return c.emphasize("----------------------------------------")
}

func (c *consoleMessenger) emphasize(text string) string {
	if !c.color {
		return text
	}
	return "\x1b[1m" + text + "\x1b[0m"
}
