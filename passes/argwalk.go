// Package passes implements the supporting rule-IR passes of spec §4.7
// (UniqueAggregationVariables, MaterializeAggregationQueries) plus the
// standalone final-pass literal reordering of SPEC_FULL.md [ADDED 4.8],
// which reuses the mst package's SIPS registry over an already
// magic-rewritten program.
//
// File organization:
//   - argwalk.go: shared Aggregator-finding traversal over rule-IR arguments
//   - uniqueagg.go: UniqueAggregationVariables
//   - materialize.go: MaterializeAggregationQueries
//   - reorder.go: ReorderLiterals
package passes

import (
	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/traverse"
)

// visitAggregatorsInBody finds every Aggregator reachable from body,
// including ones nested inside a RecordInit/Functor argument and ones
// nested inside another Aggregator's own body, depth-first.
func visitAggregatorsInBody(body []rule.Literal, visit func(*rule.Aggregator)) {
	traverse.VisitArgumentsInBodyDeep(body, func(arg rule.Argument) {
		if agg, ok := arg.(*rule.Aggregator); ok {
			visit(agg)
		}
	})
}

// visitAggregatorsInArgs behaves like visitAggregatorsInBody but over a
// bare argument list (a clause head's Args, which is not itself a body).
func visitAggregatorsInArgs(args []rule.Argument, visit func(*rule.Aggregator)) {
	for _, a := range args {
		traverse.VisitArgumentsDeep(a, func(arg rule.Argument) {
			if agg, ok := arg.(*rule.Aggregator); ok {
				visit(agg)
			}
		})
	}
}

// collectVariableNames returns every distinct Variable name referenced
// anywhere in body's literals, including nested RecordInit/Functor
// structure, in first-seen order. An Aggregator's own Body is its own
// scope and is not descended into — only its Target, if any, counts
// toward the enclosing clause's variables.
func collectVariableNames(body []rule.Literal) []string {
	seen := make(map[string]bool)
	var out []string
	traverse.VisitArgumentsInBody(body, func(arg rule.Argument) {
		v, ok := arg.(rule.Variable)
		if !ok || seen[v.Name] {
			return
		}
		seen[v.Name] = true
		out = append(out, v.Name)
	})
	return out
}
