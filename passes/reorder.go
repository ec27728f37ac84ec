package passes

import (
	"github.com/CloudDataLab/souffle/analysis/binding"
	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/mst"
)

// ReorderLiterals implements SPEC_FULL.md [ADDED 4.8]: a standalone pass,
// run over the final (magic-rewritten) program, that re-runs the named
// SIPS over every clause body so the physical literal order a downstream
// evaluator sees is the demand-optimal one chosen by that SIPS, not just
// whatever order AdornDatabase happened to leave body atoms in.
func ReorderLiterals(p *rule.Program, sipsName string, registry *mst.Registry, stats *mst.Statistics) bool {
	sips, ok := registry.Lookup(sipsName)
	if !ok {
		sips, _ = registry.Lookup("naive")
	}

	changed := false
	for _, c := range p.Clauses {
		newBody, rewrote := reorderClauseBody(p, c, sips, stats)
		if rewrote {
			c.Body = newBody
			changed = true
		}
	}
	return changed
}

type reorderCandidate struct {
	lit   rule.Literal
	index int
}

// reorderClauseBody computes c's body in SIPS-chosen order, relative to a
// BindingStore seeded from the clause's own equality constraints and, when
// the head relation's name carries an adornment pattern (spec §4.6.3), the
// head's bound positions. Non-atom literals (negations, constraints) keep
// their original relative order and are appended after every atom, since
// they do not participate in SIPS ordering (spec §4.6.5).
func reorderClauseBody(p *rule.Program, c *rule.Clause, sips mst.SIPS, stats *mst.Statistics) ([]rule.Literal, bool) {
	store := binding.New(c)
	rel := p.Relations.Lookup(c.Head.Relation)
	if _, pattern, ok := mst.Adornment(rel.Name); ok {
		for i, ch := range pattern {
			if ch != 'b' || i >= len(c.Head.Args) {
				continue
			}
			if v, ok := c.Head.Args[i].(rule.Variable); ok {
				store.MarkHeadBound(v.Name)
			}
		}
	}

	var atoms []reorderCandidate
	for i, lit := range c.Body {
		if _, ok := lit.(*rule.Atom); ok {
			atoms = append(atoms, reorderCandidate{lit, i})
		}
	}
	if len(atoms) <= 1 {
		return c.Body, false
	}

	ctx := &mst.Context{Store: store, Program: p, Statistics: stats}
	remaining := atoms
	var order []int
	for len(remaining) > 0 {
		candidates := make([]mst.Candidate, len(remaining))
		for i, r := range remaining {
			atom := r.lit.(*rule.Atom)
			candidates[i] = mst.Candidate{Literal: atom, Pattern: mst.AtomPattern(atom, store)}
		}
		choice := sips(candidates, ctx)
		if choice < 0 || choice >= len(remaining) {
			choice = 0
		}
		picked := remaining[choice]
		order = append(order, picked.index)
		for _, a := range picked.lit.(*rule.Atom).Args {
			if v, ok := a.(rule.Variable); ok {
				store.Bind(v.Name)
			}
		}
		remaining = append(remaining[:choice], remaining[choice+1:]...)
	}

	newBody := make([]rule.Literal, 0, len(c.Body))
	for _, idx := range order {
		newBody = append(newBody, c.Body[idx])
	}
	for _, lit := range c.Body {
		if _, ok := lit.(*rule.Atom); !ok {
			newBody = append(newBody, lit)
		}
	}

	if sameLiteralOrder(c.Body, newBody) {
		return c.Body, false
	}
	return newBody, true
}

// sameLiteralOrder reports whether a and b hold the same literals (by
// identity — every concrete Literal variant is a pointer type) in the
// same positions.
func sameLiteralOrder(a, b []rule.Literal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
