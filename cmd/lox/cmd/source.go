package cmd

import (
	"fmt"
	"io"
	"os"
)

// readSource reads args[0] as a file path, or stdin if no path was given.
func readSource(args []string) (string, error) {
	if len(args) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(b), nil
}

// Exit codes mirror the Python reference implementation's convention,
// reused unchanged since nothing in the expanded scope calls for a
// different contract: 65 for a static (lex/parse/resolve) error, 70 for a
// runtime error.
const (
	exitDataError    = 65
	exitRuntimeError = 70
)
