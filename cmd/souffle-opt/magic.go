package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/CloudDataLab/souffle/config"
)

// newMagicCommand runs config.DefaultRulePipeline (normalize, unique-agg,
// materialize-agg, label, adorn, magic, reorder) over a rule-IR program to
// a fixed point, using the SIPS named by --sips (naive by default).
func newMagicCommand(opts *rootOptions) *cobra.Command {
	var sips string

	cmd := &cobra.Command{
		Use:   "magic",
		Short: "run the magic-set transformation pipeline on a rule-IR program",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readRuleProgram(opts)
			if err != nil {
				return err
			}
			pipeline := config.DefaultRulePipeline
			pipeline.SIPS = sips
			iters, err := config.RunRule(pipeline, p)
			if err != nil {
				return err
			}
			if opts.color {
				fmt.Println(color.New(color.FgCyan).Sprintf("# converged after %d iteration(s)", iters))
			}
			return writeRuleProgram(opts, p)
		},
	}
	cmd.Flags().StringVar(&sips, "sips", "naive", "SIPS strategy: naive|max-bound|input|delta|selectivity")
	return cmd
}
