package mst

import (
	"sort"

	"github.com/CloudDataLab/souffle/analysis/binding"
	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
)

// Candidate is one not-yet-visited body literal offered to a SIPS, paired
// with the binding pattern it would get if chosen next. A nil Literal is a
// placeholder for "already chosen" (spec §4.6.5's "[Option<Atom>]").
type Candidate struct {
	Literal rule.Literal
	Pattern string
}

// Context bundles everything a SIPS may consult beyond the candidate list
// itself: the clause's live BindingStore, relation classification (is this
// relation EDB, is it recursive) against the enclosing program, and
// optional cardinality estimates. Built once per AdornDatabase/
// ReorderLiterals invocation and threaded through, so no SIPS needs
// package-level state to see the program it is ordering literals for.
type Context struct {
	Store      *binding.Store
	Program    *rule.Program
	Statistics *Statistics
}

// IsEDB reports whether ref has no defining clauses in the context's
// program — it is purely extensional.
func (c *Context) IsEDB(ref program.RelationRef) bool {
	return len(c.Program.ClausesFor(ref)) == 0
}

// IsRecursive reports whether any clause defining ref references ref
// again, directly, in its own body.
func (c *Context) IsRecursive(ref program.RelationRef) bool {
	for _, cl := range c.Program.ClausesFor(ref) {
		for _, lit := range cl.Body {
			if atom, ok := lit.(*rule.Atom); ok && atom.Relation == ref {
				return true
			}
		}
	}
	return false
}

// SIPS picks which remaining candidate to visit next, returning its index,
// as a pure function of the candidate list and ctx (it must never mutate
// ctx.Store). Returns -1 if every candidate is already chosen (nil).
type SIPS func(candidates []Candidate, ctx *Context) int

// Statistics carries per-relation cardinality estimates used by the
// "selectivity" SIPS to break ties among several bound candidates.
// Grounded on the teacher's planner.Statistics/AttributeCardinality table;
// spec.md's distillation drops cardinality-aware tie-breaking entirely, so
// an empty Statistics (Cardinality always reports "unknown") degrades
// every estimate to "tied", and selectivity falls back to max-bound.
type Statistics struct {
	cardinality map[string]int64
}

// NewStatistics creates an empty table; every relation reports unknown
// cardinality until recorded.
func NewStatistics() *Statistics {
	return &Statistics{cardinality: make(map[string]int64)}
}

// Record sets the estimated tuple count for a relation name.
func (s *Statistics) Record(relationName string, count int64) {
	s.cardinality[relationName] = count
}

// Cardinality reports the estimated tuple count for relationName, and
// whether any estimate is on record.
func (s *Statistics) Cardinality(relationName string) (int64, bool) {
	if s == nil {
		return 0, false
	}
	n, ok := s.cardinality[relationName]
	return n, ok
}

// Registry holds the named SIPS strategies available to AdornDatabase and
// ReorderLiterals. A Registry is not safe for concurrent registration, but
// the optimizer is single-threaded throughout (spec §5), so this never
// matters in practice.
type Registry struct {
	strategies map[string]SIPS
}

// NewRegistry builds a Registry seeded with the built-in strategies named
// in spec §4.6.5 (naive, max-bound, input, delta) plus the
// cardinality-aware "selectivity" strategy supplemented from
// original_source/.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]SIPS)}
	r.Register("naive", naiveSIPS)
	r.Register("max-bound", maxBoundSIPS)
	r.Register("input", inputSIPS)
	r.Register("delta", deltaSIPS)
	r.Register("selectivity", selectivitySIPS)
	return r
}

// Register adds or replaces a named strategy.
func (r *Registry) Register(name string, s SIPS) {
	r.strategies[name] = s
}

// Lookup returns the named strategy, or false if unregistered.
func (r *Registry) Lookup(name string) (SIPS, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// firstNonNil returns the index of the first candidate with a non-nil
// Literal, or -1.
func firstNonNil(candidates []Candidate) int {
	for i, c := range candidates {
		if c.Literal != nil {
			return i
		}
	}
	return -1
}

// boundCount counts the 'b' characters in a binding pattern.
func boundCount(pattern string) int {
	n := 0
	for _, ch := range pattern {
		if ch == 'b' {
			n++
		}
	}
	return n
}

// naiveSIPS picks the first remaining candidate, in declared order.
func naiveSIPS(candidates []Candidate, _ *Context) int {
	return firstNonNil(candidates)
}

// maxBoundSIPS prefers the candidate with the most bound argument
// positions, breaking ties by declared order.
func maxBoundSIPS(candidates []Candidate, _ *Context) int {
	best, bestCount := -1, -1
	for i, c := range candidates {
		if c.Literal == nil {
			continue
		}
		if n := boundCount(c.Pattern); n > bestCount {
			best, bestCount = i, n
		}
	}
	return best
}

// inputSIPS prefers an EDB atom over an IDB one, falling back to
// max-bound among EDB ties or when none is EDB.
func inputSIPS(candidates []Candidate, ctx *Context) int {
	best, bestCount := -1, -1
	for i, c := range candidates {
		atom, ok := c.Literal.(*rule.Atom)
		if c.Literal == nil || !ok || !ctx.IsEDB(atom.Relation) {
			continue
		}
		if n := boundCount(c.Pattern); n > bestCount {
			best, bestCount = i, n
		}
	}
	if best != -1 {
		return best
	}
	return maxBoundSIPS(candidates, ctx)
}

// deltaSIPS prefers a non-recursive atom over a recursive one, falling
// back to max-bound among non-recursive ties or when every candidate is
// recursive.
func deltaSIPS(candidates []Candidate, ctx *Context) int {
	best, bestCount := -1, -1
	for i, c := range candidates {
		atom, ok := c.Literal.(*rule.Atom)
		if c.Literal == nil || !ok || ctx.IsRecursive(atom.Relation) {
			continue
		}
		if n := boundCount(c.Pattern); n > bestCount {
			best, bestCount = i, n
		}
	}
	if best != -1 {
		return best
	}
	return maxBoundSIPS(candidates, ctx)
}

// selectivitySIPS prefers the candidate atom with the smallest estimated
// relation cardinality among those with at least one bound position,
// falling back to max-bound when no estimate is on record or no candidate
// has a bound position.
func selectivitySIPS(candidates []Candidate, ctx *Context) int {
	type scored struct {
		index int
		card  int64
	}
	var ranked []scored
	for i, c := range candidates {
		atom, ok := c.Literal.(*rule.Atom)
		if c.Literal == nil || !ok || boundCount(c.Pattern) == 0 {
			continue
		}
		rel := ctx.Program.Relations.Lookup(atom.Relation)
		card, ok := ctx.Statistics.Cardinality(rel.Name)
		if !ok {
			continue
		}
		ranked = append(ranked, scored{i, card})
	}
	if len(ranked) == 0 {
		return maxBoundSIPS(candidates, ctx)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].card < ranked[j].card })
	return ranked[0].index
}
