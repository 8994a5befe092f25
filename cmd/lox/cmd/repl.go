package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sdecook/golox/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return repl.New(os.Stdin, os.Stdout, os.Stderr).Run()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
