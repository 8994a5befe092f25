package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/lexer"
	"github.com/sdecook/golox/internal/parser"
	"github.com/sdecook/golox/internal/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Run the static resolver and print the resulting locals table",
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

		ids := make([]int, 0, len(locals))
		for id := range locals {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			fmt.Printf("expr#%d -> depth %d\n", id, locals[id])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
