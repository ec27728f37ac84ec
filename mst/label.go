package mst

import (
	"fmt"

	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
	"github.com/CloudDataLab/souffle/traverse"
)

// labelSuffix marks a negatively-labelled relation name. isNegativelyLabelled
// is a pure string predicate over the marker this package always appends,
// never anything the surface syntax could itself produce.
const labelSuffix = "@neg"

// isNegativelyLabelled reports whether name was produced by negative
// labelling.
func isNegativelyLabelled(name string) bool {
	return len(name) > len(labelSuffix) && name[len(name)-len(labelSuffix):] == labelSuffix
}

func positiveLabel(base string, k int) string {
	return fmt.Sprintf("%s@pos_%d", base, k)
}

// LabelDatabase implements spec §4.6.2's two-phase labelling: negative
// labelling marks every relation reachable only through a negated atom
// occurrence, cloning affected clauses so labelled and unlabelled variants
// coexist; positive labelling then gives every negatively-labelled
// relation's dependents their own indexed lineage, so stratification
// survives the magic rules AdornDatabase/MagicSetTransformer add later.
func LabelDatabase(p *rule.Program) bool {
	changed := negativeLabel(p)
	changed = labelPositiveCopies(p) || changed
	return changed
}

// negativeLabel finds every relation referenced by a Negation anywhere in
// the program, transitively closes the set through relations reachable
// only via negated edges, and clones each affected clause under a
// relabelled head so the negatively-labelled lineage is distinct from the
// original.
func negativeLabel(p *rule.Program) bool {
	negated := directlyNegated(p)
	closeOverNegatedReachability(p, negated)
	if len(negated) == 0 {
		return false
	}

	changed := false
	for ref := range negated {
		rel := p.Relations.Lookup(ref)
		if isNegativelyLabelled(rel.Name) {
			continue
		}
		labelName := rel.Name + labelSuffix
		if _, exists := p.Relations.Resolve(labelName); exists {
			continue
		}
		labelRef := p.Relations.Declare(program.Relation{
			Name: labelName, Arity: rel.Arity, Intermediate: true,
		})
		for _, c := range p.ClausesFor(ref) {
			clone := c.Clone()
			clone.Head.Relation = labelRef
			retargetBody(clone.Body, negated, labelRef, ref)
			p.Clauses = append(p.Clauses, clone)
		}
		changed = true
	}
	return changed
}

// directlyNegated collects every relation appearing in a Negation literal
// anywhere in the program.
func directlyNegated(p *rule.Program) map[program.RelationRef]bool {
	out := make(map[program.RelationRef]bool)
	for _, c := range p.Clauses {
		traverse.VisitLiterals(c.Body, func(lit rule.Literal) {
			if neg, ok := lit.(*rule.Negation); ok {
				out[neg.Atom.Relation] = true
			}
		})
	}
	return out
}

// closeOverNegatedReachability transitively adds every relation reachable
// only through a chain of negated edges: if ref is negated and some
// clause whose head is ref references rel positively, and ref has no
// positive route to rel from outside the negated set, rel also becomes
// negatively-labelled. Conservative approximation: any relation appearing
// (positively or negatively) in the body of a clause whose head is
// already in the negated set is added, since that whole clause only fires
// under a negated context.
func closeOverNegatedReachability(p *rule.Program, negated map[program.RelationRef]bool) {
	for {
		progressed := false
		for _, c := range p.Clauses {
			if !negated[c.Head.Relation] {
				continue
			}
			traverse.VisitLiterals(c.Body, func(lit rule.Literal) {
				ref, ok := traverse.LiteralRelation(lit)
				if ok && !negated[ref] {
					negated[ref] = true
					progressed = true
				}
			})
		}
		if !progressed {
			return
		}
	}
}

// retargetBody rewrites a cloned clause's body so that any self-reference
// to the clause's own original head (now relabelled), positive or negated,
// points at the new label. References to other relations, including other
// negatively-labelled ones, keep their names; negated is not consulted.
func retargetBody(body []rule.Literal, negated map[program.RelationRef]bool, labelRef, originalRef program.RelationRef) {
	traverse.VisitLiterals(body, func(lit rule.Literal) {
		switch l := lit.(type) {
		case *rule.Atom:
			if l.Relation == originalRef {
				l.Relation = labelRef
			}
		case *rule.Negation:
			if l.Atom.Relation == originalRef {
				l.Atom.Relation = labelRef
			}
		}
	})
}

// labelPositiveCopies implements spec §4.6.2's second phase: for each
// negatively-labelled relation, create indexed positive copies so each
// distinct negative context gets its own dependent lineage. One positive
// copy is created per positive (non-negated) atom occurrence of the
// negatively-labelled relation, numbered per relation in the order the
// occurrences are visited, preserving
// stratification once magic rules are layered on top.
func labelPositiveCopies(p *rule.Program) bool {
	changed := false
	counters := make(map[program.RelationRef]int)

	for _, c := range p.Clauses {
		traverse.VisitLiterals(c.Body, func(lit rule.Literal) {
			atom, ok := lit.(*rule.Atom)
			if !ok {
				return
			}
			rel := p.Relations.Lookup(atom.Relation)
			if !isNegativelyLabelled(rel.Name) {
				return
			}
			k := counters[atom.Relation]
			counters[atom.Relation] = k + 1
			copyName := positiveLabel(rel.Name, k)
			if _, exists := p.Relations.Resolve(copyName); exists {
				return
			}
			copyRef := p.Relations.Declare(program.Relation{
				Name: copyName, Arity: rel.Arity, Intermediate: true,
			})
			for _, owned := range p.ClausesFor(atom.Relation) {
				clone := owned.Clone()
				clone.Head.Relation = copyRef
				p.Clauses = append(p.Clauses, clone)
			}
			atom.Relation = copyRef
			changed = true
		})
	}
	return changed
}
