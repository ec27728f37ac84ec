// Package raopt implements the three RA-IR rewriting passes that live on
// top of the level/constant analyses in package analysis: condition
// leveling, index creation, and existence-check conversion (spec §4.3,
// §4.4, §4.5).
//
// File organization:
//   - leveling.go: LevelConditions
//   - indexcreate.go: CreateIndices
//   - existencecheck.go: ConvertExistenceChecks
package raopt

import (
	"github.com/CloudDataLab/souffle/analysis"
	"github.com/CloudDataLab/souffle/ir/ra"
)

// LevelConditions hoists each conjunct of each Filter to the shallowest
// enclosing scope where it is decidable: first every condition that
// depends on no search at all (level Outer) is pulled to the top of its
// Query, then, for every Search S at identifier i, every condition whose
// level is exactly i is pulled to sit directly under S (spec §4.3).
//
// Every query's before/after tree is compared structurally to decide
// `changed`: this keeps the pass correct-by-construction idempotent (spec
// §8 property 1) without having to track bookkeeping flags through every
// recursive call — a second application finds conditions already sitting
// exactly where the first application would place them, so the rebuilt
// tree is structurally identical and `changed` comes back false.
func LevelConditions(p *ra.Program) bool {
	changed := false
	for _, q := range p.Queries() {
		before := q.Operation
		after := levelQuery(before)
		if !before.EqualOperation(after) {
			changed = true
		}
		q.Operation = after
	}
	return changed
}

// levelQuery runs both sweeps of spec §4.3 over one query's operation
// tree and returns the rewritten root.
func levelQuery(root ra.Operation) ra.Operation {
	hoisted, outerConds := hoistOuter(root)
	if len(outerConds) > 0 {
		hoisted = &ra.Filter{Condition: ra.And(outerConds...), Inner: hoisted}
	}
	perSearched, _ := hoistPerSearch(hoisted)
	return perSearched
}

// hoistOuter performs sweep 1: depth-first across the whole operation
// tree, splicing out every Filter whose condition has level Outer and
// accumulating its condition in discovery order (outermost first).
func hoistOuter(op ra.Operation) (ra.Operation, []ra.Condition) {
	if op == nil {
		return nil, nil
	}
	if f, ok := op.(*ra.Filter); ok && analysis.LevelCondition(f.Condition) == ra.Outer {
		inner, rest := hoistOuter(f.Inner)
		return inner, append([]ra.Condition{f.Condition}, rest...)
	}
	child := op.InnerOp()
	if child == nil {
		return op, nil
	}
	newChild, acc := hoistOuter(child)
	return op.WithInner(newChild), acc
}

// hoistForLevel performs one targeted sweep: depth-first through op,
// splicing out every Filter whose condition has level exactly target and
// accumulating it, in discovery order.
func hoistForLevel(op ra.Operation, target ra.Identifier) (ra.Operation, []ra.Condition) {
	if op == nil {
		return nil, nil
	}
	if f, ok := op.(*ra.Filter); ok && analysis.LevelCondition(f.Condition) == target {
		inner, rest := hoistForLevel(f.Inner, target)
		return inner, append([]ra.Condition{f.Condition}, rest...)
	}
	child := op.InnerOp()
	if child == nil {
		return op, nil
	}
	newChild, acc := hoistForLevel(child, target)
	return op.WithInner(newChild), acc
}

// hoistPerSearch performs sweep 2 over the whole tree: for every Search
// node (processing nested searches first, since a deeper search's own
// sweep must run before its identifier's filters are wrapped), hoist
// every Filter in its subtree whose level equals its own identifier to
// sit directly under it.
func hoistPerSearch(op ra.Operation) (ra.Operation, bool) {
	if op == nil {
		return nil, false
	}
	switch v := op.(type) {
	case *ra.Scan:
		newInner, changed := hoistPerSearch(v.Inner)
		wrapped, acc := hoistForLevel(newInner, v.Identifier)
		if len(acc) > 0 {
			wrapped = &ra.Filter{Condition: ra.And(acc...), Inner: wrapped}
			changed = true
		}
		return &ra.Scan{Identifier: v.Identifier, Relation: v.Relation, Inner: wrapped, Note: v.Note}, changed
	case *ra.IndexScan:
		newInner, changed := hoistPerSearch(v.Inner)
		wrapped, acc := hoistForLevel(newInner, v.Identifier)
		if len(acc) > 0 {
			wrapped = &ra.Filter{Condition: ra.And(acc...), Inner: wrapped}
			changed = true
		}
		clone := *v
		clone.Inner = wrapped
		return &clone, changed
	default:
		child := op.InnerOp()
		if child == nil {
			return op, false
		}
		newChild, changed := hoistPerSearch(child)
		return op.WithInner(newChild), changed
	}
}
