// Command souffle-opt is a reference CLI driver for the optimizer
// middle-end: it parses a textual rule-IR or RA-IR program (syntax
// package), runs passes over it, and prints the result. Grounded on the
// teacher's cmd/datalog/main.go (the one place in the teacher's tree that
// touches os/bufio/stdio), restructured around cobra subcommands the way
// roach88-nysm's internal/cli package does (one NewXCommand constructor
// per subcommand, wired into a root command's PersistentFlags).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	input  string
	output string
	stage  string
	color  bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "souffle-opt",
		Short: "souffle-opt runs the souffle optimizer middle-end over a textual program",
		Long: `souffle-opt reads a rule-IR or RA-IR program in the S-expression
surface syntax (see package syntax), runs one or more optimizer passes
over it, and prints the rewritten program.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.input, "input", "i", "-", "input file, or - for stdin")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "-", "output file, or - for stdout")
	cmd.PersistentFlags().StringVar(&opts.stage, "stage", "rule", "program kind to parse: rule|ra")
	cmd.PersistentFlags().BoolVar(&opts.color, "color", true, "print a colored status line (changed/unchanged, or iterations to converge) before the program")

	cmd.AddCommand(newLevelCommand(opts))
	cmd.AddCommand(newIndexCommand(opts))
	cmd.AddCommand(newExistenceCommand(opts))
	cmd.AddCommand(newMagicCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newFmtCommand(opts))

	return cmd
}
