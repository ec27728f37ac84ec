package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/CloudDataLab/souffle/ir/ra"
	"github.com/CloudDataLab/souffle/raopt"
)

// newLevelCommand runs raopt.LevelConditions once over an RA-IR program.
func newLevelCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "level",
		Short: "hoist filter conditions to their minimal dependency level",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingleRAPass(opts, "level", raopt.LevelConditions)
		},
	}
}

// newIndexCommand runs raopt.CreateIndices once over an RA-IR program.
func newIndexCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "convert leveled equality filters into IndexScan patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingleRAPass(opts, "index", raopt.CreateIndices)
		},
	}
}

// newExistenceCommand runs raopt.ConvertExistenceChecks once over an
// RA-IR program.
func newExistenceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "existence",
		Short: "collapse projection-only searches into existence checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingleRAPass(opts, "existence", raopt.ConvertExistenceChecks)
		},
	}
}

func runSingleRAPass(opts *rootOptions, name string, pass func(*ra.Program) bool) error {
	p, err := readRAProgram(opts)
	if err != nil {
		return err
	}
	changed := pass(p)
	if opts.color {
		status := color.New(color.FgYellow).Sprint("unchanged")
		if changed {
			status = color.New(color.FgGreen).Sprint("changed")
		}
		fmt.Printf("# %s: %s\n", name, status)
	}
	return writeRAProgram(opts, p)
}
