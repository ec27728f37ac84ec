// Package mst implements the rule-IR magic-set transformation pipeline:
// NormaliseDatabase, LabelDatabase, AdornDatabase, and the
// MagicSetTransformer itself, plus the SIPS registry that drives
// adornment's atom ordering (spec §4.6).
//
// File organization:
//   - normalize.go: NormaliseDatabase (I/O partition, IDB extraction, output querying, argument normalisation)
//   - label.go: LabelDatabase (negative/positive relation labelling)
//   - adorn.go: AdornDatabase (binding-pattern worklist, adorned clauses)
//   - magicset.go: MagicSetTransformer (magic atoms, magic rules, seeds)
//   - sips.go: the SIPS registry and built-in strategies
package mst

import (
	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
)

// NormaliseDatabase runs all four sub-steps of spec §4.6.1, in order, and
// reports whether any of them changed the program. Each sub-step is
// idempotent on its own postcondition, so running the whole pass twice in
// a row reports changed=false the second time.
func NormaliseDatabase(p *rule.Program) bool {
	changed := false
	changed = partitionIO(p) || changed
	changed = extractIDB(p) || changed
	changed = querifyOutputs(p) || changed
	changed = normaliseArguments(p) || changed
	return changed
}

// partitionIO implements spec §4.6.1 step 1: for every relation that is
// both Input and Output, split off a distinct output copy fed by
// `out(x...) :- in(x...)`, and strip the Output flag from the original.
func partitionIO(p *rule.Program) bool {
	changed := false
	for _, rel := range p.Relations.All() {
		if !(rel.Input && rel.Output) {
			continue
		}
		ref, _ := p.Relations.Resolve(rel.Name)
		outName := p.IDs.Fresh(rel.Name + "@out")
		outRef := p.Relations.Declare(program.Relation{Name: outName, Arity: rel.Arity, Output: true})

		args := freshVars(p, rel.Arity)
		p.Clauses = append(p.Clauses, &rule.Clause{
			Head: &rule.Atom{Relation: outRef, Args: cloneArgs(args)},
			Body: []rule.Literal{&rule.Atom{Relation: ref, Args: cloneArgs(args)}},
		})

		rel.Output = false
		p.Relations.Update(ref, rel)
		changed = true
	}
	return changed
}

// extractIDB implements spec §4.6.1 step 2: for every input relation that
// is also a clause head, introduce a renamed intensional copy and retarget
// those clauses' heads at it, so input relations appear only as EDB.
func extractIDB(p *rule.Program) bool {
	changed := false
	for _, rel := range p.Relations.All() {
		if !rel.Input {
			continue
		}
		ref, _ := p.Relations.Resolve(rel.Name)
		var owned []*rule.Clause
		for _, c := range p.Clauses {
			if c.Head.Relation == ref {
				owned = append(owned, c)
			}
		}
		if len(owned) == 0 {
			continue
		}
		idbName := p.IDs.Fresh(rel.Name + "@idb")
		idbRef := p.Relations.Declare(program.Relation{Name: idbName, Arity: rel.Arity, Intermediate: true})
		for _, c := range owned {
			c.Head.Relation = idbRef
		}
		changed = true
	}
	return changed
}

// querifyOutputs implements spec §4.6.1 step 3: every output relation
// ends up defined by exactly one rule `out(x...) :- orig(x...)`, where
// orig is a fresh internal relation that now owns every clause and every
// other body reference the output relation used to have.
func querifyOutputs(p *rule.Program) bool {
	changed := false
	for _, rel := range p.Relations.All() {
		if !rel.Output {
			continue
		}
		ref, _ := p.Relations.Resolve(rel.Name)
		if isAlreadyQuerified(p, ref) {
			continue
		}

		origName := p.IDs.Fresh(rel.Name + "@orig")
		origRef := p.Relations.Declare(program.Relation{Name: origName, Arity: rel.Arity, Intermediate: true})

		for _, c := range p.Clauses {
			if c.Head.Relation == ref {
				c.Head.Relation = origRef
			}
			for _, lit := range c.Body {
				if atom, ok := lit.(*rule.Atom); ok && atom.Relation == ref {
					atom.Relation = origRef
				}
				if neg, ok := lit.(*rule.Negation); ok && neg.Atom.Relation == ref {
					neg.Atom.Relation = origRef
				}
			}
		}

		args := freshVars(p, rel.Arity)
		p.Clauses = append(p.Clauses, &rule.Clause{
			Head: &rule.Atom{Relation: ref, Args: cloneArgs(args)},
			Body: []rule.Literal{&rule.Atom{Relation: origRef, Args: cloneArgs(args)}},
		})
		changed = true
	}
	return changed
}

// isAlreadyQuerified reports whether ref is already defined by exactly one
// rule whose body is a single atom over some other, Intermediate relation,
// and ref appears in no other clause's body, positively or negated.
func isAlreadyQuerified(p *rule.Program, ref program.RelationRef) bool {
	var defining []*rule.Clause
	for _, c := range p.Clauses {
		if c.Head.Relation == ref {
			defining = append(defining, c)
		}
		for _, lit := range c.Body {
			if atom, ok := lit.(*rule.Atom); ok && atom.Relation == ref && c.Head.Relation != ref {
				return false
			}
			if neg, ok := lit.(*rule.Negation); ok && neg.Atom.Relation == ref {
				return false
			}
		}
	}
	if len(defining) != 1 {
		return false
	}
	body := defining[0].Body
	if len(body) != 1 {
		return false
	}
	atom, ok := body[0].(*rule.Atom)
	return ok && atom.Relation != ref && p.Relations.Lookup(atom.Relation).Intermediate
}

// normaliseArguments implements spec §4.6.1 step 4: every Atom argument
// becomes a bare Variable or a fresh variable equated to the original,
// more complex, argument via an added EQ constraint; nested non-variable
// arguments are lifted recursively.
func normaliseArguments(p *rule.Program) bool {
	changed := false
	for _, c := range p.Clauses {
		var extra []rule.Literal
		c.Head.Args = normaliseArgs(p, c.Head.Args, &extra)
		if len(extra) > 0 {
			changed = true
		}
		newBody := make([]rule.Literal, 0, len(c.Body)+len(extra))
		for _, lit := range c.Body {
			switch l := lit.(type) {
			case *rule.Atom:
				var localExtra []rule.Literal
				l.Args = normaliseArgs(p, l.Args, &localExtra)
				newBody = append(newBody, l)
				if len(localExtra) > 0 {
					newBody = append(newBody, localExtra...)
					changed = true
				}
			case *rule.Negation:
				var localExtra []rule.Literal
				l.Atom.Args = normaliseArgs(p, l.Atom.Args, &localExtra)
				newBody = append(newBody, l)
				if len(localExtra) > 0 {
					newBody = append(newBody, localExtra...)
					changed = true
				}
			default:
				newBody = append(newBody, lit)
			}
		}
		newBody = append(newBody, extra...)
		c.Body = newBody
	}
	return changed
}

// normaliseArgs replaces every non-Variable argument in args with a fresh
// variable, appending the defining EQ constraint to extra.
func normaliseArgs(p *rule.Program, args []rule.Argument, extra *[]rule.Literal) []rule.Argument {
	out := make([]rule.Argument, len(args))
	for i, a := range args {
		out[i] = normaliseArg(p, a, extra)
	}
	return out
}

// normaliseArg lifts a single argument. Bare Variables pass through
// unchanged; everything else is recursively normalised (its own nested
// non-variable parts lifted first) and then itself lifted into a fresh
// variable bound by an EQ constraint added to extra.
func normaliseArg(p *rule.Program, arg rule.Argument, extra *[]rule.Literal) rule.Argument {
	switch v := arg.(type) {
	case rule.Variable:
		return v
	case rule.Constant:
		return liftArg(p, v, extra)
	case *rule.RecordInit:
		fields := make([]rule.Argument, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = normaliseArg(p, f, extra)
		}
		return liftArg(p, &rule.RecordInit{Fields: fields}, extra)
	case *rule.Functor:
		args := make([]rule.Argument, len(v.Args))
		for i, a := range v.Args {
			args[i] = normaliseArg(p, a, extra)
		}
		return liftArg(p, &rule.Functor{Name: v.Name, Args: args}, extra)
	case *rule.Aggregator:
		var target rule.Argument
		if v.Target != nil {
			target = normaliseArg(p, v.Target, extra)
		}
		body := NormaliseDatabaseBody(p, v.Body)
		return liftArg(p, &rule.Aggregator{Op: v.Op, Target: target, Body: body}, extra)
	default:
		return v
	}
}

// NormaliseDatabaseBody runs argument normalisation over a standalone
// literal list (an Aggregator's Body), which has its own variable scope
// distinct from any enclosing clause, and returns the rewritten list.
func NormaliseDatabaseBody(p *rule.Program, body []rule.Literal) []rule.Literal {
	var extra []rule.Literal
	for _, lit := range body {
		switch l := lit.(type) {
		case *rule.Atom:
			l.Args = normaliseArgs(p, l.Args, &extra)
		case *rule.Negation:
			l.Atom.Args = normaliseArgs(p, l.Atom.Args, &extra)
		}
	}
	return append(body, extra...)
}

// liftArg mints a fresh variable bound to value via an added EQ
// constraint.
func liftArg(p *rule.Program, value rule.Argument, extra *[]rule.Literal) rule.Argument {
	v := rule.Variable{Name: p.IDs.Fresh("_t")}
	*extra = append(*extra, &rule.BinaryConstraint{Op: rule.EQ, LHS: v, RHS: value})
	return v
}

func freshVars(p *rule.Program, n int) []rule.Argument {
	out := make([]rule.Argument, n)
	for i := range out {
		out[i] = rule.Variable{Name: p.IDs.Fresh("_x")}
	}
	return out
}

func cloneArgs(args []rule.Argument) []rule.Argument {
	out := make([]rule.Argument, len(args))
	for i, a := range args {
		out[i] = a.CloneArgument()
	}
	return out
}
