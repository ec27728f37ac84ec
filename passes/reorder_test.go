package passes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/mst"
	"github.com/CloudDataLab/souffle/program"
	"github.com/CloudDataLab/souffle/testutil"
)

func TestReorderLiteralsPutsTheEDBAtomFirstUnderInput(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"edb": 1, "idb": 1, "out": 1})
	// Give idb a defining clause so the input SIPS sees it as intensional,
	// distinct from the purely extensional edb.
	testutil.Clause(p, testutil.RuleAtom(p, "idb", testutil.Var("z")), testutil.RuleAtom(p, "edb", testutil.Var("z")))

	edbAtom := testutil.RuleAtom(p, "edb", testutil.Var("x"))
	idbAtom := testutil.RuleAtom(p, "idb", testutil.Var("x"))
	testutil.Clause(p, testutil.RuleAtom(p, "out", testutil.Var("x")),
		&rule.BinaryConstraint{Op: rule.EQ, LHS: testutil.Var("x"), RHS: testutil.Val(int64(1))},
		idbAtom, edbAtom)

	registry := mst.NewRegistry()
	changed := ReorderLiterals(p, "input", registry, nil)
	require.True(t, changed)

	c := p.Clauses[1]
	atom, ok := c.Body[0].(*rule.Atom)
	require.True(t, ok)
	rel := p.Relations.Lookup(atom.Relation)
	require.Equal(t, "edb", rel.Name, "the EDB atom must be chosen first under the input SIPS")
}

func TestReorderLiteralsAppendsNonAtomLiteralsAfterEveryAtom(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"a": 1, "b": 1, "out": 1})
	testutil.Clause(p, testutil.RuleAtom(p, "out", testutil.Var("x")),
		&rule.BinaryConstraint{Op: rule.EQ, LHS: testutil.Var("x"), RHS: testutil.Val(int64(1))},
		testutil.RuleAtom(p, "b", testutil.Var("y")),
		testutil.RuleAtom(p, "a", testutil.Var("x")))

	registry := mst.NewRegistry()
	ReorderLiterals(p, "naive", registry, nil)

	c := p.Clauses[0]
	require.Len(t, c.Body, 3)
	_, lastIsConstraint := c.Body[2].(*rule.BinaryConstraint)
	require.True(t, lastIsConstraint, "the equality constraint must land after every atom")
}

func TestReorderLiteralsIsANoOpWithAtMostOneAtom(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"a": 1, "out": 1})
	testutil.Clause(p, testutil.RuleAtom(p, "out", testutil.Var("x")),
		testutil.RuleAtom(p, "a", testutil.Var("x")))

	registry := mst.NewRegistry()
	require.False(t, ReorderLiterals(p, "naive", registry, nil))
}

func TestReorderLiteralsSeedsHeadBoundPositionsFromAnAdornedHeadName(t *testing.T) {
	p := testutil.NewRuleProgram(nil)
	outRef := p.Relations.Declare(program.Relation{Name: "out^b", Arity: 1})
	edbRef := p.Relations.Declare(program.Relation{Name: "edb", Arity: 1})
	idbRef := p.Relations.Declare(program.Relation{Name: "idb", Arity: 1})

	testutil.Clause(p,
		&rule.Atom{Relation: outRef, Args: []rule.Argument{testutil.Var("x")}},
		&rule.Atom{Relation: edbRef, Args: []rule.Argument{testutil.Var("y")}},
		&rule.Atom{Relation: idbRef, Args: []rule.Argument{testutil.Var("x")}})

	registry := mst.NewRegistry()
	changed := ReorderLiterals(p, "max-bound", registry, nil)
	require.True(t, changed, "the head's bound 'x' makes the idb atom max-bound first, ahead of its declared position")

	c := p.Clauses[0]
	first := c.Body[0].(*rule.Atom)
	require.Equal(t, idbRef, first.Relation)
}
