package passes

import (
	"strings"

	"github.com/CloudDataLab/souffle/ir/rule"
)

// reservedPrefix marks a fresh aggregation variable. A leading space is
// never produced by a surface-syntax identifier lexer, so uniquified
// names can never collide with source-level ones (the original name
// follows the prefix, for readability).
const reservedPrefix = " "

// UniqueAggregationVariables implements spec §4.7: for every Aggregator
// with a target expression, every variable appearing in that target is
// renamed, everywhere inside the aggregator, to a fresh name — so an
// aggregator's internal bindings never alias a same-named variable in the
// surrounding clause. Already-uniquified variables (carrying the reserved
// prefix from a prior run) are left alone, which is what makes a second
// application report no further change.
func UniqueAggregationVariables(p *rule.Program) bool {
	changed := false
	for _, c := range p.Clauses {
		visitAggregatorsInArgs(c.Head.Args, func(agg *rule.Aggregator) {
			if uniquifyAggregator(p, agg) {
				changed = true
			}
		})
		visitAggregatorsInBody(c.Body, func(agg *rule.Aggregator) {
			if uniquifyAggregator(p, agg) {
				changed = true
			}
		})
	}
	return changed
}

func uniquifyAggregator(p *rule.Program, agg *rule.Aggregator) bool {
	changed := false
	for _, v := range agg.TargetVariables() {
		name := v.Name
		if strings.HasPrefix(name, reservedPrefix) {
			continue
		}
		fresh := p.IDs.Fresh(reservedPrefix + name)
		renameInAggregator(agg, name, fresh)
		changed = true
	}
	return changed
}

// renameInAggregator replaces every occurrence of a Variable named
// oldName, anywhere in agg's Target or Body (including nested
// RecordInit/Functor/Aggregator structure), with newName.
func renameInAggregator(agg *rule.Aggregator, oldName, newName string) {
	if agg.Target != nil {
		agg.Target = renameArg(agg.Target, oldName, newName)
	}
	renameInBody(agg.Body, oldName, newName)
}

func renameArg(arg rule.Argument, oldName, newName string) rule.Argument {
	switch v := arg.(type) {
	case rule.Variable:
		if v.Name == oldName {
			return rule.Variable{Name: newName}
		}
		return v
	case *rule.RecordInit:
		for i, f := range v.Fields {
			v.Fields[i] = renameArg(f, oldName, newName)
		}
		return v
	case *rule.Functor:
		for i, a := range v.Args {
			v.Args[i] = renameArg(a, oldName, newName)
		}
		return v
	case *rule.Aggregator:
		renameInAggregator(v, oldName, newName)
		return v
	default:
		return arg
	}
}

func renameInBody(body []rule.Literal, oldName, newName string) {
	for _, lit := range body {
		switch l := lit.(type) {
		case *rule.Atom:
			for i, a := range l.Args {
				l.Args[i] = renameArg(a, oldName, newName)
			}
		case *rule.Negation:
			for i, a := range l.Atom.Args {
				l.Atom.Args[i] = renameArg(a, oldName, newName)
			}
		case *rule.BinaryConstraint:
			l.LHS = renameArg(l.LHS, oldName, newName)
			l.RHS = renameArg(l.RHS, oldName, newName)
		}
	}
}
