package traverse

import "github.com/CloudDataLab/souffle/ir/ra"

// ExpressionChildren returns the immediate sub-expressions of e, or nil
// for a leaf (ElementAccess, Const). Used by level analysis and constant
// analysis to recurse without a type switch at every call site.
func ExpressionChildren(e ra.Expression) []ra.Expression {
	switch v := e.(type) {
	case ra.ElementAccess, ra.Const:
		return nil
	case *ra.IntrinsicOperator:
		return v.Args
	case *ra.UserDefinedOperator:
		return v.Args
	case *ra.PackRecord:
		return v.Args
	default:
		return nil
	}
}

// VisitExpressions walks e and every expression nested inside it,
// depth-first pre-order.
func VisitExpressions(e ra.Expression, visit func(ra.Expression)) {
	if e == nil {
		return
	}
	visit(e)
	for _, child := range ExpressionChildren(e) {
		VisitExpressions(child, visit)
	}
}

// ConditionChildren returns the immediate sub-conditions of c (empty for
// Constraint/EmptinessCheck/ExistenceCheck, which bottom out in
// expressions rather than conditions).
func ConditionChildren(c ra.Condition) []ra.Condition {
	switch v := c.(type) {
	case *ra.Conjunction:
		return []ra.Condition{v.Left, v.Right}
	case *ra.Negation:
		return []ra.Condition{v.Condition}
	default:
		return nil
	}
}

// ConditionExpressions returns every Expression directly held by c
// (not recursing into sub-conditions): both sides of a Constraint, or the
// bound pattern entries of an ExistenceCheck. Conjunction and Negation
// hold no expressions of their own.
func ConditionExpressions(c ra.Condition) []ra.Expression {
	switch v := c.(type) {
	case *ra.Constraint:
		return []ra.Expression{v.LHS, v.RHS}
	case *ra.ExistenceCheck:
		var out []ra.Expression
		for _, p := range v.Pattern {
			if p != nil {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

// VisitConditions walks c and every sub-condition, depth-first pre-order.
// Only conditions are visited; the expressions inside them are not.
func VisitConditions(c ra.Condition, visit func(ra.Condition)) {
	if c == nil {
		return
	}
	visit(c)
	for _, child := range ConditionChildren(c) {
		VisitConditions(child, visit)
	}
}

// AllConditionExpressions returns every Expression directly held anywhere
// in c's condition tree (both sides of every nested Constraint, every
// bound ExistenceCheck pattern entry), flattening across Conjunction and
// Negation.
func AllConditionExpressions(c ra.Condition) []ra.Expression {
	var out []ra.Expression
	VisitConditions(c, func(cond ra.Condition) {
		out = append(out, ConditionExpressions(cond)...)
	})
	return out
}
