package mst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
	"github.com/CloudDataLab/souffle/testutil"
)

func TestPartitionIOSplitsInputOutputRelation(t *testing.T) {
	p := testutil.NewRuleProgram(nil)
	ref := p.Relations.Declare(program.Relation{Name: "io", Arity: 2, Input: true, Output: true})

	changed := NormaliseDatabase(p)
	require.True(t, changed)

	rel := p.Relations.Lookup(ref)
	require.False(t, rel.Output, "the original must stop being an output once split")

	var sawOutCopy bool
	for _, rel := range p.Relations.All() {
		if rel.Output && rel.Name != "io" {
			sawOutCopy = true
		}
	}
	require.True(t, sawOutCopy, "a distinct output-only copy must be declared")

	var feedsCopy bool
	for _, c := range p.Clauses {
		if len(c.Body) == 1 {
			if atom, ok := c.Body[0].(*rule.Atom); ok && atom.Relation == ref {
				feedsCopy = true
			}
		}
	}
	require.True(t, feedsCopy, "the output copy must be fed by a rule over the original input")
}

func TestExtractIDBRetargetsClauseHeads(t *testing.T) {
	p := testutil.NewRuleProgram(nil)
	inRef := p.Relations.Declare(program.Relation{Name: "derived", Arity: 1, Input: true})
	srcRef := p.Relations.Declare(program.Relation{Name: "source", Arity: 1})
	testutil.Clause(p, testutil.RuleAtom(p, "derived", testutil.Var("x")), testutil.RuleAtom(p, "source", testutil.Var("x")))

	changed := NormaliseDatabase(p)
	require.True(t, changed)

	for _, c := range p.Clauses {
		if c.Head.Relation == inRef {
			t.Fatalf("an input relation must not remain a clause head after extraction")
		}
	}
	_ = srcRef
}

func TestQuerifyOutputsWrapsOutputInSingleRule(t *testing.T) {
	p := testutil.NewRuleProgram(nil)
	outRef := p.Relations.Declare(program.Relation{Name: "result", Arity: 1, Output: true})
	srcRef := p.Relations.Declare(program.Relation{Name: "source", Arity: 1})
	testutil.Clause(p, testutil.RuleAtom(p, "result", testutil.Var("x")), testutil.RuleAtom(p, "source", testutil.Var("x")))

	changed := NormaliseDatabase(p)
	require.True(t, changed)

	var defining []*rule.Clause
	for _, c := range p.Clauses {
		if c.Head.Relation == outRef {
			defining = append(defining, c)
		}
	}
	require.Len(t, defining, 1, "the output relation must end up defined by exactly one rule")
	require.Len(t, defining[0].Body, 1)
	atom, ok := defining[0].Body[0].(*rule.Atom)
	require.True(t, ok)
	require.NotEqual(t, outRef, atom.Relation, "the single body atom must reference a fresh internal relation, not itself")
	require.NotEqual(t, srcRef, atom.Relation, "querification introduces its own intermediate, distinct from the original source")
}

func TestQuerifyOutputsIsIdempotent(t *testing.T) {
	p := testutil.NewRuleProgram(nil)
	p.Relations.Declare(program.Relation{Name: "result", Arity: 1, Output: true})
	srcRef := p.Relations.Declare(program.Relation{Name: "source", Arity: 1})
	testutil.Clause(p, testutil.RuleAtom(p, "result", testutil.Var("x")), testutil.RuleAtom(p, "source", testutil.Var("x")))
	_ = srcRef

	require.True(t, NormaliseDatabase(p))
	require.False(t, NormaliseDatabase(p), "a second run must report no further change")
}

func TestNormaliseArgumentsLiftsConstantsIntoFreshVariables(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"fact": 1})
	testutil.Clause(p, testutil.RuleAtom(p, "fact", testutil.Val(int64(5))))

	changed := NormaliseDatabase(p)
	require.True(t, changed)

	c := p.Clauses[0]
	require.Len(t, c.Body, 1, "the lifted constant must be asserted via one added EQ literal")
	arg := c.Head.Args[0]
	v, ok := arg.(rule.Variable)
	require.True(t, ok, "the head argument must become a bare variable")

	eq, ok := c.Body[0].(*rule.BinaryConstraint)
	require.True(t, ok)
	require.Equal(t, rule.EQ, eq.Op)
	require.Equal(t, v, eq.LHS)
	require.Equal(t, testutil.Val(int64(5)), eq.RHS)
}

func TestNormaliseArgumentsLiftsNestedRecordFields(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"fact": 1})
	rec := &rule.RecordInit{Fields: []rule.Argument{testutil.Val(int64(1)), testutil.Var("y")}}
	testutil.Clause(p, testutil.RuleAtom(p, "fact", rec))

	changed := NormaliseDatabase(p)
	require.True(t, changed)

	c := p.Clauses[0]
	_, ok := c.Head.Args[0].(rule.Variable)
	require.True(t, ok, "the record itself is lifted to a fresh variable")
	require.GreaterOrEqual(t, len(c.Body), 2, "both the nested constant and the record lift each add an EQ")
}
