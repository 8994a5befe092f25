// Package diagnostics implements the explicit, passed-by-reference error
// reporter described in the language spec's design notes: rather than a
// global singleton, every pipeline stage (lexer, parser, resolver,
// interpreter) takes a *Bag and reports through it.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sdecook/golox/internal/token"
)

// Bag collects diagnostics for a single run of the pipeline (one file, or
// one REPL session, reset between lines) and tracks the two error flags
// the spec requires.
type Bag struct {
	Stderr io.Writer
	Stdout io.Writer

	// HadError is set by any lex, parse, or resolve error. While set,
	// the pipeline must not proceed to interpretation.
	HadError bool
	// HadRuntimeError is set by a runtime error during interpretation.
	HadRuntimeError bool

	errColor *color.Color
}

// New creates a Bag writing to the given streams. Pass color.Output /
// color.Error (or os.Stdout / os.Stderr directly) from the caller; New
// does not default them so a caller can't accidentally print to the
// process's real stdout/stderr from a test.
func New(stdout, stderr io.Writer) *Bag {
	c := color.New(color.FgRed)
	return &Bag{Stdout: stdout, Stderr: stderr, errColor: c}
}

// Reset clears HadError (but deliberately not HadRuntimeError, per the
// language spec's resolved open question) so a REPL can reuse one Bag
// across lines while still keeping a record that some earlier line
// crashed.
func (b *Bag) Reset() {
	b.HadError = false
}

// Error reports a diagnostic anchored to a line number with no location
// detail (used by the lexer, which has no token to point at yet).
func (b *Bag) Error(line int, message string) {
	b.report(line, "", message)
}

// ErrorAt reports a diagnostic anchored to a specific token, per spec
// §6.4: "at end" for EOF, "at '<lexeme>'" otherwise.
func (b *Bag) ErrorAt(tok token.Token, message string) {
	if tok.Kind == token.EOF {
		b.report(tok.Line, " at end", message)
		return
	}
	b.report(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), message)
}

func (b *Bag) report(line int, where, message string) {
	b.errColor.Fprintf(b.Stderr, "[line %d] Error%s: %s\n", line, where, message)
	b.HadError = true
}

// RuntimeError is a runtime failure, carrying the token whose line number
// should be reported (spec §6.4: "<message>\n[line N]").
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// ReportRuntime prints a runtime error in the spec's format and sets
// HadRuntimeError.
func (b *Bag) ReportRuntime(err *RuntimeError) {
	b.errColor.Fprintf(b.Stderr, "%s\n[line %d]\n", err.Message, err.Token.Line)
	b.HadRuntimeError = true
}
