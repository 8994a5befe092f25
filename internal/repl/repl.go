// Package repl implements the interactive Read-Eval-Print Loop: a line is
// lexed, parsed, resolved, and interpreted against state that persists
// across the whole session (one Interpreter and one Environment, reused
// line to line).
package repl

import (
	"io"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/sdecook/golox/internal/ast"
	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/interpreter"
	"github.com/sdecook/golox/internal/lexer"
	"github.com/sdecook/golox/internal/parser"
	"github.com/sdecook/golox/internal/resolver"
	"github.com/sdecook/golox/internal/token"
)

var (
	promptColor = color.New(color.FgCyan)
	byeColor    = color.New(color.FgGreen)
	echoColor   = color.New(color.FgYellow)
)

const defaultPrompt = "lox> "

// Repl owns the interpreter state shared across every line of a session.
type Repl struct {
	Prompt string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a Repl wired to the given streams. An empty Prompt falls
// back to defaultPrompt.
func New(stdin io.Reader, stdout, stderr io.Writer) *Repl {
	return &Repl{Prompt: defaultPrompt, Stdin: stdin, Stdout: stdout, Stderr: stderr}
}

// Run starts the loop. It returns when the user exits via Ctrl+D/Ctrl+C
// or the readline instance fails to start.
func (r *Repl) Run() error {
	prompt := r.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptColor.Sprint(prompt),
		Stdin:           io.NopCloser(r.Stdin),
		Stdout:          r.Stdout,
		Stderr:          r.Stderr,
		HistoryLimit:    500,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	diags := diagnostics.New(r.Stdout, r.Stderr)
	interp := interpreter.NewWithStdin(diags, r.Stdin)

	for {
		line, err := rl.Readline()
		if err != nil {
			byeColor.Fprintln(r.Stdout, "exiting")
			return nil
		}
		if line == "" {
			continue
		}
		r.evalLine(diags, interp, line)
	}
}

// evalLine runs one line through the full pipeline. HadError is cleared
// before every line so an earlier syntax mistake doesn't wedge the
// session; HadRuntimeError is deliberately left alone (see
// diagnostics.Bag.Reset), so a REPL that's already seen one crash keeps
// that flag set for the rest of the session.
//
// A line that is a single bare expression (e.g. `1 + 2`, typed without a
// trailing `;` or `print`) echoes its value in yellow instead of being
// run as an ordinary statement, the way a typical interactive session
// reports each line's result.
func (r *Repl) evalLine(diags *diagnostics.Bag, interp *interpreter.Interpreter, line string) {
	diags.Reset()

	toks := lexer.New(line, diags).ScanTokens()
	if diags.HadError {
		return
	}

	if expr, ok := parseBareExpression(toks); ok {
		locals := resolver.New(diags).Resolve([]ast.Stmt{ast.NewExpression(expr)})
		if diags.HadError {
			return
		}
		interp.SetLocals(locals)

		value, err := interp.Evaluate(expr)
		if err != nil {
			if rerr, ok := err.(*diagnostics.RuntimeError); ok {
				diags.ReportRuntime(rerr)
			}
			return
		}
		echoColor.Fprintln(r.Stdout, value.String())
		return
	}

	stmts := parser.New(toks, diags).Parse()
	if diags.HadError {
		return
	}

	locals := resolver.New(diags).Resolve(stmts)
	if diags.HadError {
		return
	}
	interp.SetLocals(locals)
	interp.Interpret(stmts)
}

// parseBareExpression tries to read the whole token stream (minus EOF) as
// a single expression with no trailing statement syntax. Errors during
// the attempt are discarded silently: failure just means the line isn't a
// bare expression, and evalLine falls back to parsing it as a statement,
// which reports the real error if it's still invalid there.
func parseBareExpression(toks []token.Token) (ast.Expr, bool) {
	discard := diagnostics.New(io.Discard, io.Discard)
	p := parser.New(toks, discard)
	expr := p.ParseExpression()
	if expr == nil || discard.HadError || !p.AtEnd() {
		return nil, false
	}
	return expr, true
}

// RunSource is exposed for tests that want to drive evalLine without a
// live terminal, across possibly many lines of a whole file.
func RunSource(stdout, stderr io.Writer, stdin io.Reader, src string) *diagnostics.Bag {
	diags := diagnostics.New(stdout, stderr)
	interp := interpreter.NewWithStdin(diags, stdin)
	r := &Repl{Stdout: stdout, Stderr: stderr, Stdin: stdin}
	r.evalLine(diags, interp, src)
	return diags
}
