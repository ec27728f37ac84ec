package passes

import (
	"sort"

	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
)

// MaterializeAggregationQueries implements spec §4.7: whenever an
// Aggregator's body cannot be evaluated inline, it is extracted into a
// fresh auxiliary relation and the aggregator rewritten to scan that
// relation instead.
func MaterializeAggregationQueries(p *rule.Program) bool {
	changed := false
	for _, c := range p.Clauses {
		visitAggregatorsInArgs(c.Head.Args, func(agg *rule.Aggregator) {
			if materializeAggregator(p, agg) {
				changed = true
			}
		})
		visitAggregatorsInBody(c.Body, func(agg *rule.Aggregator) {
			if materializeAggregator(p, agg) {
				changed = true
			}
		})
	}
	return changed
}

// needsMaterializedRelation implements the predicate named in spec §4.7:
// true when the aggregator's body is non-singleton, when its single literal
// is not an Atom (a Negation or a BinaryConstraint), or when that Atom's
// arguments contain a nested Aggregator. Only a body of one plain Atom
// stays inline.
func needsMaterializedRelation(agg *rule.Aggregator) bool {
	if len(agg.Body) != 1 {
		return true
	}
	switch agg.Body[0].(type) {
	case *rule.Atom:
		hasNested := false
		visitAggregatorsInBody(agg.Body, func(*rule.Aggregator) { hasNested = true })
		return hasNested
	default:
		return true
	}
}

func materializeAggregator(p *rule.Program, agg *rule.Aggregator) bool {
	if !needsMaterializedRelation(agg) {
		return false
	}

	names := collectVariableNames(agg.Body)
	sort.Strings(names)

	auxName := p.IDs.Fresh("_agg")
	auxRef := p.Relations.Declare(program.Relation{Name: auxName, Arity: len(names), Intermediate: true})

	headArgs := make([]rule.Argument, len(names))
	for i, n := range names {
		headArgs[i] = rule.Variable{Name: n}
	}
	p.Clauses = append(p.Clauses, &rule.Clause{
		Head: &rule.Atom{Relation: auxRef, Args: headArgs},
		Body: agg.Body,
	})

	scanArgs := make([]rule.Argument, len(names))
	for i, n := range names {
		scanArgs[i] = rule.Variable{Name: n}
	}
	agg.Body = []rule.Literal{&rule.Atom{Relation: auxRef, Args: scanArgs}}
	return true
}
