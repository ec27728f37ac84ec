// Package analysis implements the pure, memoisable static analyses the
// RA-IR passes depend on: level analysis (spec §4.2) and constant
// analysis. The rule-IR BindingStore lives in the sibling package
// analysis/binding, since it has its own file organization (the DNF
// fixed-point reduction is substantial enough to want its own file set).
package analysis

import (
	"github.com/CloudDataLab/souffle/ir/ra"
	"github.com/CloudDataLab/souffle/traverse"
)

// Level returns the deepest search identifier expr structurally depends
// on via any nested ElementAccess, or ra.Outer if it depends on none.
func Level(expr ra.Expression) ra.Identifier {
	if expr == nil {
		return ra.Outer
	}
	if access, ok := expr.(ra.ElementAccess); ok {
		return access.Identifier
	}
	level := ra.Outer
	for _, child := range traverse.ExpressionChildren(expr) {
		if l := Level(child); l > level {
			level = l
		}
	}
	return level
}

// LevelCondition returns the deepest search identifier cond structurally
// depends on, by taking the max level over every expression and
// sub-condition it directly or transitively holds.
func LevelCondition(cond ra.Condition) ra.Identifier {
	if cond == nil {
		return ra.Outer
	}
	level := ra.Outer
	for _, expr := range traverse.ConditionExpressions(cond) {
		if l := Level(expr); l > level {
			level = l
		}
	}
	for _, child := range traverse.ConditionChildren(cond) {
		if l := LevelCondition(child); l > level {
			level = l
		}
	}
	return level
}

// DependsOnLevel reports whether expr contains an ElementAccess at exactly
// `level` anywhere in its tree. Unlike Level (which returns the maximum
// level found), this answers "does it use this level at all", needed by
// ConvertExistenceChecks: an expression can have overall Level > target
// while still containing a disqualifying access to target nested inside.
func DependsOnLevel(expr ra.Expression, level ra.Identifier) bool {
	found := false
	traverse.VisitExpressions(expr, func(e ra.Expression) {
		if access, ok := e.(ra.ElementAccess); ok && access.Identifier == level {
			found = true
		}
	})
	return found
}

// IsConstant reports whether expr contains no ElementAccess anywhere,
// i.e. it can be evaluated without any enclosing search having produced a
// binding yet.
func IsConstant(expr ra.Expression) bool {
	return Level(expr) == ra.Outer
}
