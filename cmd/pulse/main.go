package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCommand().Execute(); err != nil {
		// An interrupted session is not worth reporting.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "pulse:", err)
		}
		return 1
	}
	return 0
}
