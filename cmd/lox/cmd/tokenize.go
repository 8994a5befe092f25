package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/lexer"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Lex a script and print its tokens, one per line",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		src, err := readSource(args)
		if err != nil {
			return err
		}

		diags := diagnostics.New(os.Stdout, os.Stderr)
		toks := lexer.New(src, diags).ScanTokens()
		for _, tok := range toks {
			fmt.Println(tok.String())
		}
		if diags.HadError {
			os.Exit(exitDataError)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}
