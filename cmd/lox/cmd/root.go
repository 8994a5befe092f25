package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "lox",
	Short: "A tree-walking interpreter for Lox",
	Long: `lox is a tree-walking interpreter for a small dynamically-typed,
class-based scripting language: C-like expression syntax, first-class
functions with lexical closures, and single-inheritance classes.

Run a script with 'lox run file.lox', start an interactive session with
'lox repl', or inspect an intermediate pipeline stage with 'lox tokenize',
'lox parse', or 'lox resolve'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
}

// Execute runs the root command.
func Execute() error {
	cobra.OnInitialize(func() {
		if noColor {
			color.NoColor = true
		}
	})
	return rootCmd.Execute()
}
