// Command lox is the CLI front end for the interpreter: a cobra-based
// tool with one subcommand per pipeline stage, plus a REPL.
package main

import (
	"fmt"
	"os"

	"github.com/sdecook/golox/cmd/lox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
