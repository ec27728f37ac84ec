package mst

import (
	"fmt"

	"github.com/CloudDataLab/souffle/analysis/binding"
	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
)

// QuerySeed is one entry of AdornDatabase's initial worklist: a query
// relation together with the binding pattern a caller wants answered —
// "all free" for an open query, "all bound" for a fully ground one — and,
// for each 'b' position in Pattern in order, the ground Argument the query
// actually supplied there. Args is empty for an all-free seed.
type QuerySeed struct {
	Relation program.RelationRef
	Pattern  string
	Args     []rule.Argument
}

// AllFreePattern returns a pattern of arity f's, matching an open query
// over a relation of the given arity.
func AllFreePattern(arity int) string { return repeatChar('f', arity) }

// AllBoundPattern returns a pattern of arity b's, matching a fully ground
// query.
func AllBoundPattern(arity int) string { return repeatChar('b', arity) }

func repeatChar(ch byte, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = ch
	}
	return string(buf)
}

// DefaultSeeds builds the initial AdornDatabase worklist named in spec
// §4.6.3: every relation in p.Queries, adorned all-free.
func DefaultSeeds(p *rule.Program) []QuerySeed {
	seeds := make([]QuerySeed, len(p.Queries))
	for i, ref := range p.Queries {
		rel := p.Relations.Lookup(ref)
		seeds[i] = QuerySeed{Relation: ref, Pattern: AllFreePattern(rel.Arity)}
	}
	return seeds
}

func adornedName(relName, pattern string) string {
	return fmt.Sprintf("%s^%s", relName, pattern)
}

// AdornDatabase implements spec §4.6.3: starting from seeds, computes
// every reachable per-call binding pattern and emits an adorned clause per
// (clause, pattern) pair, using sipsName (looked up in registry, falling
// back to "naive" if unregistered) to order each clause's body atoms
// during binding propagation. Reports whether any adorned clause or
// relation was added.
func AdornDatabase(p *rule.Program, seeds []QuerySeed, sipsName string, registry *Registry, stats *Statistics) bool {
	sips, ok := registry.Lookup(sipsName)
	if !ok {
		sips, _ = registry.Lookup("naive")
	}

	worklist := append([]QuerySeed(nil), seeds...)
	seen := make(map[string]bool)
	changed := false
	touched := make(map[program.RelationRef]bool)

	for len(worklist) > 0 {
		item := worklist[0]
		worklist = worklist[1:]

		key := fmt.Sprintf("%d^%s", item.Relation, item.Pattern)
		if seen[key] {
			continue
		}
		seen[key] = true
		touched[item.Relation] = true

		rel := p.Relations.Lookup(item.Relation)
		name := adornedName(rel.Name, item.Pattern)
		adornedRef, existed := p.Relations.Resolve(name)
		if !existed {
			adornedRef = p.Relations.Declare(program.Relation{
				Name: name, Arity: rel.Arity, Output: rel.Output, Intermediate: true,
			})
			changed = true
		}

		for _, c := range p.ClausesFor(item.Relation) {
			adornedClause, newSeeds := adornClause(p, c, item.Pattern, adornedRef, sips, stats)
			p.Clauses = append(p.Clauses, adornedClause)
			worklist = append(worklist, newSeeds...)
			changed = true
		}
	}

	removeRedundantOriginals(p, touched)
	return changed
}

// adornClause produces one adorned clause from c under pattern, plus the
// worklist seeds its body atoms generate, per spec §4.6.3 step 2.
func adornClause(p *rule.Program, c *rule.Clause, pattern string, adornedRef program.RelationRef, sips SIPS, stats *Statistics) (*rule.Clause, []QuerySeed) {
	store := binding.New(c)
	for i, ch := range pattern {
		if ch != 'b' || i >= len(c.Head.Args) {
			continue
		}
		if v, ok := c.Head.Args[i].(rule.Variable); ok {
			store.MarkHeadBound(v.Name)
		}
	}

	ctx := &Context{Store: store, Program: p, Statistics: stats}

	type pending struct {
		atom  *rule.Atom
		index int // position in c.Body, preserved for stable re-emission
	}
	var remaining []pending
	for i, lit := range c.Body {
		if atom, ok := lit.(*rule.Atom); ok {
			remaining = append(remaining, pending{atom, i})
		}
	}

	chosenOrder := make([]int, 0, len(remaining))
	var seeds []QuerySeed
	replacement := make(map[int]*rule.Atom, len(remaining))

	for len(remaining) > 0 {
		candidates := make([]Candidate, len(remaining))
		for i, r := range remaining {
			candidates[i] = Candidate{Literal: r.atom, Pattern: atomPattern(r.atom, store)}
		}
		choice := sips(candidates, ctx)
		if choice < 0 || choice >= len(remaining) {
			choice = 0
		}
		picked := remaining[choice]
		bodyPattern := atomPattern(picked.atom, store)

		subRel := p.Relations.Lookup(picked.atom.Relation)
		subName := adornedName(subRel.Name, bodyPattern)
		subRef, existed := p.Relations.Resolve(subName)
		if !existed {
			subRef = p.Relations.Declare(program.Relation{
				Name: subName, Arity: subRel.Arity, Output: subRel.Output, Intermediate: true,
			})
		}
		seeds = append(seeds, QuerySeed{Relation: picked.atom.Relation, Pattern: bodyPattern, Args: boundArgs(picked.atom, bodyPattern)})

		replaced := &rule.Atom{Relation: subRef, Args: cloneArgs(picked.atom.Args)}
		replacement[picked.index] = replaced
		chosenOrder = append(chosenOrder, picked.index)

		for _, a := range picked.atom.Args {
			if v, ok := a.(rule.Variable); ok {
				store.Bind(v.Name)
			}
		}

		remaining = append(remaining[:choice], remaining[choice+1:]...)
	}

	newBody := make([]rule.Literal, len(c.Body))
	for i, lit := range c.Body {
		if r, ok := replacement[i]; ok {
			newBody[i] = r
		} else {
			newBody[i] = lit.CloneLiteral()
		}
	}

	head := &rule.Atom{Relation: adornedRef, Args: cloneArgs(c.Head.Args)}
	return &rule.Clause{Head: head, Body: newBody}, seeds
}

// AtomPattern computes an atom's current binding pattern against store; it
// is exported so package passes can reuse it for the standalone
// ReorderLiterals pass (SPEC_FULL.md [ADDED 4.8]), which orders body atoms
// the same way adornment does but over an already-adorned program.
func AtomPattern(atom *rule.Atom, store *binding.Store) string {
	return atomPattern(atom, store)
}

// atomPattern computes an atom's current binding pattern against store:
// 'b' for a Variable argument already bound, or any non-Variable (already
// ground) argument; 'f' for a still-free Variable.
func atomPattern(atom *rule.Atom, store *binding.Store) string {
	buf := make([]byte, len(atom.Args))
	for i, a := range atom.Args {
		bound := true
		if v, ok := a.(rule.Variable); ok {
			bound = store.IsBound(v.Name)
		}
		if bound {
			buf[i] = 'b'
		} else {
			buf[i] = 'f'
		}
	}
	return string(buf)
}

// removeRedundantOriginals drops the original (unadorned) clauses for any
// relation in touched, unless some surviving clause body still references
// it directly in unadorned form — matching spec §4.6.3's "leave original
// if its clauses also have non-adorned uses".
func removeRedundantOriginals(p *rule.Program, touched map[program.RelationRef]bool) {
	stillUsed := make(map[program.RelationRef]bool)
	for _, c := range p.Clauses {
		if touched[c.Head.Relation] {
			continue // the adorned emission itself doesn't count as a use
		}
		for _, lit := range c.Body {
			switch l := lit.(type) {
			case *rule.Atom:
				if touched[l.Relation] {
					stillUsed[l.Relation] = true
				}
			case *rule.Negation:
				if touched[l.Atom.Relation] {
					stillUsed[l.Atom.Relation] = true
				}
			}
		}
	}

	filtered := p.Clauses[:0]
	for _, c := range p.Clauses {
		if touched[c.Head.Relation] && !stillUsed[c.Head.Relation] {
			continue
		}
		filtered = append(filtered, c)
	}
	p.Clauses = filtered
}
