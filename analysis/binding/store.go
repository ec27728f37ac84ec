// Package binding implements the per-clause BindingStore described in
// spec §3.3: a transitive, DNF-based tracker of which variables become
// bound once some set of other variables is. It backs AdornDatabase
// (package mst), which must know, atom by atom, which argument positions
// are already determined by earlier bindings.
package binding

import "github.com/CloudDataLab/souffle/ir/rule"

// disjunct is one inner dependency set: "v becomes bound once every
// variable named here is bound". A map is used as a mutable set.
type disjunct map[string]bool

// Store tracks, for one Clause, which variables are currently bound and
// the DNF of dependencies that would bind the rest.
type Store struct {
	bound     map[string]bool
	boundHead map[string]bool
	deps      map[string][]disjunct
}

// New creates a Store seeded from clause's body: every EQ BinaryConstraint
// binding a bare Variable to some right-hand side contributes one
// disjunct to that variable's dependency set, unless the right-hand side
// contains an Aggregator anywhere (aggregator-derived bindings are
// resolved by MaterializeAggregationQueries, not by simple propagation
// here).
func New(clause *rule.Clause) *Store {
	s := &Store{
		bound:     make(map[string]bool),
		boundHead: make(map[string]bool),
		deps:      make(map[string][]disjunct),
	}
	for _, lit := range clause.Body {
		bc, ok := lit.(*rule.BinaryConstraint)
		if !ok {
			continue
		}
		v, rhs, ok := bc.IsEquality()
		if !ok || containsAggregator(rhs) {
			continue
		}
		vars := variableNames(rhs)
		d := make(disjunct, len(vars))
		for _, name := range vars {
			d[name] = true
		}
		s.deps[v.Name] = append(s.deps[v.Name], d)
	}
	return s
}

func containsAggregator(arg rule.Argument) bool {
	found := false
	var walk func(rule.Argument)
	walk = func(a rule.Argument) {
		if found || a == nil {
			return
		}
		switch v := a.(type) {
		case *rule.Aggregator:
			found = true
		case *rule.RecordInit:
			for _, f := range v.Fields {
				walk(f)
			}
		case *rule.Functor:
			for _, f := range v.Args {
				walk(f)
			}
		}
	}
	walk(arg)
	return found
}

func variableNames(arg rule.Argument) []string {
	var out []string
	var walk func(rule.Argument)
	walk = func(a rule.Argument) {
		switch v := a.(type) {
		case rule.Variable:
			out = append(out, v.Name)
		case *rule.RecordInit:
			for _, f := range v.Fields {
				walk(f)
			}
		case *rule.Functor:
			for _, f := range v.Args {
				walk(f)
			}
		}
	}
	walk(arg)
	return out
}

// MarkBound records name as bound without going through deps (e.g. an
// input symbol, or a head-position variable adorned bound) and reduces to
// a new fixed point.
func (s *Store) MarkBound(name string) {
	s.bound[name] = true
	s.Reduce()
}

// MarkHeadBound records name as bound and also as head-bound: head
// variables bind demand differently from body-position bindings, so
// AdornDatabase queries BoundHead separately from IsBound.
func (s *Store) MarkHeadBound(name string) {
	s.boundHead[name] = true
	s.MarkBound(name)
}

// Bind is an alias for MarkBound, matching the vocabulary spec §3.3 uses
// ("after any call to bind").
func (s *Store) Bind(name string) { s.MarkBound(name) }

// IsBound reports whether name is currently bound.
func (s *Store) IsBound(name string) bool { return s.bound[name] }

// IsHeadBound reports whether name was bound via MarkHeadBound.
func (s *Store) IsHeadBound(name string) bool { return s.boundHead[name] }

// Reduce restores the invariant of spec §3.3: for every v in dom(deps), no
// inner dependency set contains an already-bound variable, and no key is
// itself already bound. It is idempotent — calling it twice in a row
// leaves bound and deps unchanged (spec §8 property 6 / BindingStore
// convergence).
func (s *Store) Reduce() {
	for {
		progressed := false
		for v, disjuncts := range s.deps {
			if s.bound[v] {
				delete(s.deps, v)
				progressed = true
				continue
			}
			remaining := disjuncts[:0:0]
			satisfied := false
			for _, d := range disjuncts {
				pruned := make(disjunct, len(d))
				for name := range d {
					if !s.bound[name] {
						pruned[name] = true
					}
				}
				if len(pruned) == 0 {
					satisfied = true
					break
				}
				remaining = append(remaining, pruned)
			}
			if satisfied {
				s.bound[v] = true
				delete(s.deps, v)
				progressed = true
				continue
			}
			if !disjunctsEqual(disjuncts, remaining) {
				s.deps[v] = remaining
				progressed = true
			}
		}
		if !progressed {
			return
		}
	}
}

func disjunctsEqual(a, b []disjunct) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for k := range a[i] {
			if !b[i][k] {
				return false
			}
		}
	}
	return true
}

// Bound returns every currently bound variable name, in no particular
// order.
func (s *Store) Bound() []string {
	out := make([]string, 0, len(s.bound))
	for name := range s.bound {
		out = append(out, name)
	}
	return out
}

// Snapshot returns a comparable copy of the dependency map, for tests that
// assert Reduce has reached a stable fixed point.
func (s *Store) Snapshot() map[string][]map[string]bool {
	out := make(map[string][]map[string]bool, len(s.deps))
	for v, disjuncts := range s.deps {
		copied := make([]map[string]bool, len(disjuncts))
		for i, d := range disjuncts {
			m := make(map[string]bool, len(d))
			for k := range d {
				m[k] = true
			}
			copied[i] = m
		}
		out[v] = copied
	}
	return out
}
