package raopt

import (
	"github.com/CloudDataLab/souffle/analysis"
	"github.com/CloudDataLab/souffle/ir/ra"
	"github.com/CloudDataLab/souffle/program"
)

// CreateIndices rewrites a Scan whose immediate child is a Filter into an
// IndexScan, for every equality conjunct that binds a column of the
// scanned relation to a search-independent expression. Remaining
// conjuncts — including a duplicate equality on an already-bound column,
// kept as a correctness check rather than dropped — stay as a residual
// Filter (spec §4.4).
func CreateIndices(p *ra.Program) bool {
	changed := false
	for _, q := range p.Queries() {
		before := q.Operation
		after := createIndicesOp(before, p.Relations)
		if !before.EqualOperation(after) {
			changed = true
		}
		q.Operation = after
	}
	return changed
}

// createIndicesOp rewrites op bottom-up: children are rewritten before
// their parent is examined, so a Scan's own immediate Filter child has
// already had any of its own nested Scans converted by the time this
// Scan is considered.
func createIndicesOp(op ra.Operation, relations *program.RelationTable) ra.Operation {
	if op == nil {
		return nil
	}
	child := op.InnerOp()
	var newOp ra.Operation
	if child != nil {
		newOp = op.WithInner(createIndicesOp(child, relations))
	} else {
		newOp = op
	}

	scan, ok := newOp.(*ra.Scan)
	if !ok {
		return newOp
	}
	filter, ok := scan.Inner.(*ra.Filter)
	if !ok {
		return newOp
	}

	rel := relations.Lookup(scan.Relation)
	pattern := make([]ra.Expression, rel.Arity)
	var residual []ra.Condition
	bound := false

	for _, conjunct := range ra.Conjuncts(filter.Condition) {
		col, value, ok := indexableColumn(conjunct, scan.Identifier)
		if !ok {
			residual = append(residual, conjunct)
			continue
		}
		if pattern[col] != nil {
			// Collision: keep the duplicate as a residual correctness
			// check. The first binding is kept in the pattern; equal by
			// transitivity.
			residual = append(residual, conjunct)
			continue
		}
		pattern[col] = value
		bound = true
	}

	if !bound {
		return newOp
	}

	var inner ra.Operation = filter.Inner
	if len(residual) > 0 {
		inner = &ra.Filter{Condition: ra.And(residual...), Inner: filter.Inner}
	}
	return &ra.IndexScan{
		Identifier: scan.Identifier,
		Relation:   scan.Relation,
		Pattern:    pattern,
		Inner:      inner,
		Note:       scan.Note,
	}
}

// indexableColumn reports whether cond is an EQ constraint binding column
// `col` of the scan identified by level to an expression whose value is
// known before that scan starts, returning the column and the bound
// expression on success.
func indexableColumn(cond ra.Condition, level ra.Identifier) (col int, value ra.Expression, ok bool) {
	c, isConstraint := cond.(*ra.Constraint)
	if !isConstraint || c.Op != ra.EQ {
		return 0, nil, false
	}
	if access, other, found := splitAccess(c.LHS, c.RHS, level); found {
		return access.Column, other, true
	}
	if access, other, found := splitAccess(c.RHS, c.LHS, level); found {
		return access.Column, other, true
	}
	return 0, nil, false
}

// splitAccess tests whether side is an ElementAccess at level and other
// is computable before that search starts (a constant, or an expression
// whose own level is strictly shallower). Per spec §9's open question,
// if other is itself an ElementAccess at the same level, the conjunct is
// left unindexable rather than tie-broken.
func splitAccess(side, other ra.Expression, level ra.Identifier) (ra.ElementAccess, ra.Expression, bool) {
	access, ok := side.(ra.ElementAccess)
	if !ok || access.Identifier != level {
		return ra.ElementAccess{}, nil, false
	}
	if otherAccess, ok := other.(ra.ElementAccess); ok && otherAccess.Identifier == level {
		return ra.ElementAccess{}, nil, false
	}
	if analysis.Level(other) < level {
		return access, other, true
	}
	return ra.ElementAccess{}, nil, false
}
