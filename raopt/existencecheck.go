package raopt

import (
	"github.com/CloudDataLab/souffle/analysis"
	"github.com/CloudDataLab/souffle/ir/ra"
	"github.com/CloudDataLab/souffle/traverse"
)

// ConvertExistenceChecks collapses a RelationSearch whose body only
// projects — never otherwise consumes the tuple the search introduces —
// into a single existence test (spec §4.5). It must run after CreateIndices
// so an IndexScan's pattern values are already captured and can be reused
// as the ExistenceCheck's pattern.
func ConvertExistenceChecks(p *ra.Program) bool {
	changed := false
	for _, q := range p.Queries() {
		before := q.Operation
		after := convertOp(before)
		if !before.EqualOperation(after) {
			changed = true
		}
		q.Operation = after
	}
	return changed
}

func convertOp(op ra.Operation) ra.Operation {
	if op == nil {
		return nil
	}
	child := op.InnerOp()
	var rewritten ra.Operation
	if child != nil {
		rewritten = op.WithInner(convertOp(child))
	} else {
		rewritten = op
	}

	switch v := rewritten.(type) {
	case *ra.Scan:
		if onlyProjects(v.Inner, v.Identifier) {
			return &ra.Filter{
				Condition: &ra.Negation{Condition: &ra.EmptinessCheck{Relation: v.Relation, Note: v.Note}},
				Inner:     v.Inner,
			}
		}
		return v
	case *ra.IndexScan:
		if onlyProjects(v.Inner, v.Identifier) {
			pattern := make([]ra.Expression, len(v.Pattern))
			for i, p := range v.Pattern {
				if p != nil {
					pattern[i] = p.CloneExpression()
				}
			}
			return &ra.Filter{
				Condition: &ra.ExistenceCheck{Relation: v.Relation, Pattern: pattern, Note: v.Note},
				Inner:     v.Inner,
			}
		}
		return v
	default:
		return rewritten
	}
}

// onlyProjects implements spec §4.5's "only projects" definition for a
// search at identifier `level` whose body is `body`.
func onlyProjects(body ra.Operation, level ra.Identifier) bool {
	ok := true
	disqualify := func() { ok = false }

	traverse.VisitOperations(body, func(op ra.Operation) {
		if !ok {
			return
		}
		switch v := op.(type) {
		case *ra.Project:
			for _, val := range v.Values {
				if analysis.DependsOnLevel(val, level) || hasImpureUDO(val) {
					disqualify()
				}
			}
		case *ra.Return:
			if analysis.DependsOnLevel(v.Value, level) || hasImpureUDO(v.Value) {
				disqualify()
			}
		case *ra.UnpackRecord:
			if analysis.DependsOnLevel(v.Record, level) || hasImpureUDO(v.Record) {
				disqualify()
			}
		case *ra.Filter:
			for _, expr := range traverse.AllConditionExpressions(v.Condition) {
				if analysis.DependsOnLevel(expr, level) || hasImpureUDO(expr) {
					disqualify()
				}
			}
		case *ra.IndexScan:
			for _, p := range v.Pattern {
				if p == nil {
					continue
				}
				if analysis.DependsOnLevel(p, level) || hasImpureUDO(p) {
					disqualify()
				}
			}
		}
	})
	return ok
}

// hasImpureUDO reports whether expr contains a UserDefinedOperator whose
// Pure field is false anywhere in its tree; Pure's zero value is false, so
// a UDO built without setting it counts as impure. ConvertExistenceChecks
// refuses the collapse whenever one appears in the search body at all — a
// side-effecting call's invocation count would otherwise change from
// "once per matched tuple" to "at most once", regardless of whether its
// own arguments happen to be independent of the collapsed level.
func hasImpureUDO(expr ra.Expression) bool {
	found := false
	traverse.VisitExpressions(expr, func(e ra.Expression) {
		if udo, ok := e.(*ra.UserDefinedOperator); ok && !udo.Pure {
			found = true
		}
	})
	return found
}
