package mst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/testutil"
)

func TestNegativeLabelClonesClausesUnderARelabelledHead(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"reachable": 1, "blocked": 1, "edge": 2})
	testutil.Clause(p, testutil.RuleAtom(p, "reachable", testutil.Var("x")),
		testutil.RuleAtom(p, "edge", testutil.Var("x"), testutil.Var("y")),
		testutil.Not(testutil.RuleAtom(p, "blocked", testutil.Var("y"))))
	testutil.Clause(p, testutil.RuleAtom(p, "blocked", testutil.Var("x")),
		testutil.RuleAtom(p, "edge", testutil.Var("x"), testutil.Var("y")))

	changed := LabelDatabase(p)
	require.True(t, changed)

	_, ok := p.Relations.Resolve("blocked@neg")
	require.True(t, ok, "a negatively-referenced relation must get a labelled lineage")

	var labelledClause bool
	for _, c := range p.Clauses {
		rel := p.Relations.Lookup(c.Head.Relation)
		if rel.Name == "blocked@neg" {
			labelledClause = true
		}
	}
	require.True(t, labelledClause, "the labelled relation needs its own defining clause cloned from the original")
}

func TestLabelDatabaseIsIdempotent(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"reachable": 1, "blocked": 1, "edge": 2})
	testutil.Clause(p, testutil.RuleAtom(p, "reachable", testutil.Var("x")),
		testutil.Not(testutil.RuleAtom(p, "blocked", testutil.Var("x"))))
	testutil.Clause(p, testutil.RuleAtom(p, "blocked", testutil.Var("x")),
		testutil.RuleAtom(p, "edge", testutil.Var("x"), testutil.Var("y")))

	require.True(t, LabelDatabase(p))
	require.False(t, LabelDatabase(p), "re-running over an already-labelled program must be a no-op")
}

func TestCloseOverNegatedReachabilityPullsInBodyRelationsOfANegatedHead(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"blocked": 1, "edge": 2, "ok": 1})
	testutil.Clause(p, testutil.RuleAtom(p, "blocked", testutil.Var("x")),
		testutil.RuleAtom(p, "blocked", testutil.Var("y")),
		testutil.RuleAtom(p, "edge", testutil.Var("y"), testutil.Var("x")))
	testutil.Clause(p, testutil.RuleAtom(p, "ok", testutil.Var("x")),
		testutil.Not(testutil.RuleAtom(p, "blocked", testutil.Var("x"))))

	LabelDatabase(p)

	_, ok := p.Relations.Resolve("edge@neg")
	require.True(t, ok, "edge is reachable only from within the recursive blocked clause's body and must join the negated set")
}

func TestPositiveLabelGivesASelfReferentialNegatedRelationItsOwnLineage(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"blocked": 1, "edge": 2, "ok": 1})
	testutil.Clause(p, testutil.RuleAtom(p, "blocked", testutil.Var("x")),
		testutil.RuleAtom(p, "blocked", testutil.Var("y")),
		testutil.RuleAtom(p, "edge", testutil.Var("y"), testutil.Var("x")))
	testutil.Clause(p, testutil.RuleAtom(p, "ok", testutil.Var("x")),
		testutil.Not(testutil.RuleAtom(p, "blocked", testutil.Var("x"))))

	changed := LabelDatabase(p)
	require.True(t, changed)

	_, sawCopy := p.Relations.Resolve("blocked@neg@pos_0")
	require.True(t, sawCopy, "the recursive self-reference inside blocked@neg's own clone must get an indexed positive lineage")

	var retargeted bool
	for _, c := range p.Clauses {
		rel := p.Relations.Lookup(c.Head.Relation)
		if rel.Name != "blocked@neg" {
			continue
		}
		for _, lit := range c.Body {
			if atom, ok := lit.(*rule.Atom); ok {
				used := p.Relations.Lookup(atom.Relation)
				if used.Name == "blocked@neg@pos_0" {
					retargeted = true
				}
			}
		}
	}
	require.True(t, retargeted, "blocked@neg's own body must be retargeted at its indexed positive copy")
}
