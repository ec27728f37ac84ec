package main

import (
	"github.com/spf13/cobra"

	"github.com/CloudDataLab/souffle/syntax"
)

// newFmtCommand parses and re-prints a program with no passes applied —
// a round-trip normalizer for the surface syntax, analogous to gofmt.
func newFmtCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt",
		Short: "parse and re-print a program without running any passes",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(opts)
			if err != nil {
				return err
			}
			if opts.stage == "ra" {
				p, err := syntax.ParseRAProgram(src)
				if err != nil {
					return err
				}
				return writeOutput(opts, syntax.EncodeRAProgram(p).String())
			}
			p, err := syntax.ParseRuleProgram(src)
			if err != nil {
				return err
			}
			return writeOutput(opts, syntax.EncodeRuleProgram(p).String())
		},
	}
}
