// rule.go mirrors operation.go/children.go's Visitor and NodeMapper
// primitives over rule-IR Clause bodies: a flat []rule.Literal list whose
// Atom/Negation/BinaryConstraint arguments may themselves nest further
// Argument structure (RecordInit, Functor, Aggregator).
package traverse

import (
	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
)

// ArgumentChildren returns the immediate sub-arguments of arg: a
// RecordInit's fields, a Functor's args, or an Aggregator's target (absent
// for e.g. count(*)). An Aggregator's own Body is a separate literal list,
// reached through VisitArgumentsInBody rather than here — matching
// ExpressionChildren's treatment of an ra.Operation's distinct Condition
// tree.
func ArgumentChildren(arg rule.Argument) []rule.Argument {
	switch v := arg.(type) {
	case *rule.RecordInit:
		return v.Fields
	case *rule.Functor:
		return v.Args
	case *rule.Aggregator:
		if v.Target != nil {
			return []rule.Argument{v.Target}
		}
		return nil
	default:
		return nil
	}
}

// VisitArguments walks arg and every argument nested inside it, depth-first
// pre-order, stopping at an Aggregator's own Body (that list's variables
// are the aggregator's private scope, not the enclosing clause's).
func VisitArguments(arg rule.Argument, visit func(rule.Argument)) {
	if arg == nil {
		return
	}
	visit(arg)
	for _, child := range ArgumentChildren(arg) {
		VisitArguments(child, visit)
	}
}

// LiteralArguments returns every Argument directly held by lit (not
// recursing into nested structure): an Atom's or Negation's argument list,
// or both sides of a BinaryConstraint.
func LiteralArguments(lit rule.Literal) []rule.Argument {
	switch l := lit.(type) {
	case *rule.Atom:
		return l.Args
	case *rule.Negation:
		return l.Atom.Args
	case *rule.BinaryConstraint:
		return []rule.Argument{l.LHS, l.RHS}
	default:
		return nil
	}
}

// VisitLiterals invokes visit on every literal in body, in order.
func VisitLiterals(body []rule.Literal, visit func(rule.Literal)) {
	for _, lit := range body {
		visit(lit)
	}
}

// LiteralRelation returns the relation an Atom or Negation references, and
// false for a BinaryConstraint (which references none).
func LiteralRelation(lit rule.Literal) (program.RelationRef, bool) {
	switch l := lit.(type) {
	case *rule.Atom:
		return l.Relation, true
	case *rule.Negation:
		return l.Atom.Relation, true
	default:
		return program.InvalidRelationRef, false
	}
}

// VisitArgumentsInBody walks every Argument reachable from body's literals
// — each literal's direct arguments and anything nested inside them via
// VisitArguments — without crossing into any Aggregator's own Body.
func VisitArgumentsInBody(body []rule.Literal, visit func(rule.Argument)) {
	VisitLiterals(body, func(lit rule.Literal) {
		for _, arg := range LiteralArguments(lit) {
			VisitArguments(arg, visit)
		}
	})
}

// VisitArgumentsInBodyDeep behaves like VisitArgumentsInBody but also
// descends into every Aggregator's own Body, so a visit reaches an
// Aggregator nested inside another Aggregator's sub-query.
func VisitArgumentsInBodyDeep(body []rule.Literal, visit func(rule.Argument)) {
	VisitArgumentsInBody(body, func(arg rule.Argument) {
		visit(arg)
		if agg, ok := arg.(*rule.Aggregator); ok {
			VisitArgumentsInBodyDeep(agg.Body, visit)
		}
	})
}

// VisitArgumentsDeep behaves like VisitArguments but also descends into
// any Aggregator's own Body, so a visit reaches an Aggregator nested
// inside another Aggregator's sub-query.
func VisitArgumentsDeep(arg rule.Argument, visit func(rule.Argument)) {
	VisitArguments(arg, func(a rule.Argument) {
		visit(a)
		if agg, ok := a.(*rule.Aggregator); ok {
			VisitArgumentsInBodyDeep(agg.Body, visit)
		}
	})
}

// ArgumentMapper is a function from an owned Argument to an owned,
// possibly-new Argument. Implementations must not retain a reference into
// the input after returning — ownership transfers to the caller.
type ArgumentMapper func(rule.Argument) rule.Argument

// MapArgument applies m to arg and every argument nested inside it,
// honoring the same contract as Map: m is offered each node before
// descent, and the result's children (if any) are replaced in place by
// recursively mapping the originals.
func MapArgument(arg rule.Argument, m ArgumentMapper) rule.Argument {
	if arg == nil {
		return nil
	}
	mapped := m(arg)
	switch v := mapped.(type) {
	case *rule.RecordInit:
		for i, f := range v.Fields {
			v.Fields[i] = MapArgument(f, m)
		}
	case *rule.Functor:
		for i, a := range v.Args {
			v.Args[i] = MapArgument(a, m)
		}
	case *rule.Aggregator:
		if v.Target != nil {
			v.Target = MapArgument(v.Target, m)
		}
	}
	return mapped
}

// MapArgumentsInBody rewrites body in place, replacing every literal's
// direct arguments (and anything nested inside them) with MapArgument(arg,
// m), including descent into any Aggregator's own Body at any depth.
func MapArgumentsInBody(body []rule.Literal, m ArgumentMapper) {
	for _, lit := range body {
		switch l := lit.(type) {
		case *rule.Atom:
			for i, a := range l.Args {
				l.Args[i] = MapArgument(a, m)
			}
		case *rule.Negation:
			for i, a := range l.Atom.Args {
				l.Atom.Args[i] = MapArgument(a, m)
			}
		case *rule.BinaryConstraint:
			l.LHS = MapArgument(l.LHS, m)
			l.RHS = MapArgument(l.RHS, m)
		}
		for _, a := range LiteralArguments(lit) {
			mapNestedAggregatorBodies(a, m)
		}
	}
}

// mapNestedAggregatorBodies finds every Aggregator reachable from arg
// (already rewritten in place by MapArgument) and maps its own Body too,
// so a rewrite like a variable rename reaches sub-query literals.
func mapNestedAggregatorBodies(arg rule.Argument, m ArgumentMapper) {
	VisitArguments(arg, func(a rule.Argument) {
		if agg, ok := a.(*rule.Aggregator); ok {
			MapArgumentsInBody(agg.Body, m)
		}
	})
}

// ArgumentLambda adapts a plain func(rule.Argument) rule.Argument into an
// ArgumentMapper, mirroring Lambda.
func ArgumentLambda(f func(rule.Argument) rule.Argument) ArgumentMapper {
	return ArgumentMapper(f)
}
