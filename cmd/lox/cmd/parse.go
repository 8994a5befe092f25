package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/lexer"
	"github.com/sdecook/golox/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a script and print its AST in Lisp-like form",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		src, err := readSource(args)
		if err != nil {
			return err
		}

		diags := diagnostics.New(os.Stdout, os.Stderr)
		toks := lexer.New(src, diags).ScanTokens()
		stmts := parser.New(toks, diags).Parse()
		for _, s := range stmts {
			fmt.Println(s.String())
		}
		if diags.HadError {
			os.Exit(exitDataError)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
