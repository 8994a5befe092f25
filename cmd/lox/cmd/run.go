package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/interpreter"
	"github.com/sdecook/golox/internal/lexer"
	"github.com/sdecook/golox/internal/parser"
	"github.com/sdecook/golox/internal/resolver"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script to completion",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		src, err := readSource(args)
		if err != nil {
			return err
		}

		diags := diagnostics.New(os.Stdout, os.Stderr)
		toks := lexer.New(src, diags).ScanTokens()
		stmts := parser.New(toks, diags).Parse()
		if diags.HadError {
			os.Exit(exitDataError)
		}

		locals := resolver.New(diags).Resolve(stmts)
		if diags.HadError {
			os.Exit(exitDataError)
		}

		interp := interpreter.New(diags)
		interp.SetLocals(locals)
		interp.Interpret(stmts)
		if diags.HadRuntimeError {
			os.Exit(exitRuntimeError)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
