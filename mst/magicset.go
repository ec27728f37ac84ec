package mst

import (
	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
)

func magicName(relName string) string { return "magic_" + relName }

// boundArgs returns the arguments of atom at the 'b' positions of pattern,
// in order — the magic atom's own argument list (spec §4.6.4).
func boundArgs(atom *rule.Atom, pattern string) []rule.Argument {
	var out []rule.Argument
	for i, ch := range pattern {
		if ch == 'b' && i < len(atom.Args) {
			out = append(out, atom.Args[i].CloneArgument())
		}
	}
	return out
}

// Adornment recovers a relation's adornment pattern from its name; see
// adornmentOf. Exported for package passes's standalone ReorderLiterals.
func Adornment(name string) (base, pattern string, ok bool) { return adornmentOf(name) }

// adornmentOf recovers a relation's adornment pattern from its name, which
// AdornDatabase always writes as "base^pattern"; returns ("", false) for an
// unadorned relation.
func adornmentOf(name string) (base, pattern string, ok bool) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '^' {
			return name[:i], name[i+1:], true
		}
	}
	return "", "", false
}

// MagicSetTransformer implements spec §4.6.4 over a program whose clauses
// have already been adorned (AdornDatabase must run first). For every
// adorned clause h^α :- a1^β1, …, ak^βk and every body atom ai^βi with at
// least one bound position, it emits a magic atom, a magic rule deriving
// it from the sideways-passed prefix, and rewrites the original rule to
// fire only under demand. It also asserts a magic seed fact for every
// query relation. Unlabelled, unadorned auxiliary clauses (those whose
// head names no "^" adornment) are carried through untouched.
func MagicSetTransformer(p *rule.Program, seeds []QuerySeed) bool {
	changed := false
	var magicRules []*rule.Clause
	var rewritten []*rule.Clause
	var untouched []*rule.Clause

	for _, c := range p.Clauses {
		headRel := p.Relations.Lookup(c.Head.Relation)
		_, headPattern, isAdorned := adornmentOf(headRel.Name)
		if !isAdorned {
			untouched = append(untouched, c)
			continue
		}

		magicHeadRef := declareMagic(p, headRel.Name)
		magicHeadAtom := &rule.Atom{Relation: magicHeadRef, Args: boundArgs(c.Head, headPattern)}

		var prefix []rule.Literal
		var newBody []rule.Literal
		newBody = append(newBody, magicHeadAtom)

		for _, lit := range c.Body {
			atom, ok := lit.(*rule.Atom)
			if !ok {
				newBody = append(newBody, lit)
				continue
			}
			bodyRel := p.Relations.Lookup(atom.Relation)
			_, bodyPattern, bodyAdorned := adornmentOf(bodyRel.Name)
			if !bodyAdorned || boundCount(bodyPattern) == 0 {
				newBody = append(newBody, lit)
				prefix = append(prefix, lit)
				continue
			}

			magicBodyRef := declareMagic(p, bodyRel.Name)
			magicBodyAtom := &rule.Atom{Relation: magicBodyRef, Args: boundArgs(atom, bodyPattern)}

			magicRuleBody := make([]rule.Literal, 0, len(prefix)+1)
			magicRuleBody = append(magicRuleBody, magicHeadAtom.Clone())
			for _, p2 := range prefix {
				magicRuleBody = append(magicRuleBody, p2.CloneLiteral())
			}
			magicRules = append(magicRules, &rule.Clause{Head: magicBodyAtom.Clone(), Body: magicRuleBody})
			changed = true

			newBody = append(newBody, lit)
			prefix = append(prefix, lit)
		}

		rewritten = append(rewritten, &rule.Clause{Head: c.Head.Clone(), Body: newBody})
	}

	result := make([]*rule.Clause, 0, len(untouched)+len(rewritten)+len(magicRules)+len(seeds))
	result = append(result, untouched...)
	result = append(result, rewritten...)
	result = append(result, dedupeClauses(magicRules)...)

	for _, seed := range seeds {
		rel := p.Relations.Lookup(seed.Relation)
		name := adornedName(rel.Name, seed.Pattern)
		if _, ok := p.Relations.Resolve(name); !ok {
			continue
		}
		magicRef := declareMagic(p, name)
		groundArgs := make([]rule.Argument, boundCount(seed.Pattern))
		for i := range groundArgs {
			if i < len(seed.Args) {
				groundArgs[i] = seed.Args[i].CloneArgument()
			} else {
				groundArgs[i] = rule.Variable{Name: p.IDs.Fresh("_seed")}
			}
		}
		result = append(result, &rule.Clause{
			Head: &rule.Atom{Relation: magicRef, Args: groundArgs},
			Body: nil,
		})
		changed = true
	}

	p.Clauses = result
	return changed
}

func declareMagic(p *rule.Program, adornedRelName string) program.RelationRef {
	name := magicName(adornedRelName)
	if ref, ok := p.Relations.Resolve(name); ok {
		return ref
	}
	_, pattern, _ := adornmentOf(adornedRelName)
	return p.Relations.Declare(program.Relation{Name: name, Arity: boundCount(pattern), Intermediate: true})
}

// dedupeClauses drops structurally-equal magic rules: the same (head,
// prefix) pair can be reached from more than one adorned clause sharing a
// body prefix.
func dedupeClauses(clauses []*rule.Clause) []*rule.Clause {
	var out []*rule.Clause
	for _, c := range clauses {
		dup := false
		for _, o := range out {
			if c.Equal(o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}
