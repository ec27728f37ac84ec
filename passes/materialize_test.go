package passes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/testutil"
)

func TestMaterializeAggregationQueriesLeavesASingleAtomBodyInline(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"item": 2, "total": 1})
	agg := &rule.Aggregator{Op: "sum", Target: testutil.Var("v"), Body: []rule.Literal{
		testutil.RuleAtom(p, "item", testutil.Var("k"), testutil.Var("v")),
	}}
	testutil.Clause(p, testutil.RuleAtom(p, "total", testutil.Var("t")),
		&rule.BinaryConstraint{Op: rule.EQ, LHS: testutil.Var("t"), RHS: agg})

	changed := MaterializeAggregationQueries(p)
	require.False(t, changed)
	require.Len(t, p.Clauses, 1, "a single-atom body needs no auxiliary relation")
}

func TestMaterializeAggregationQueriesExtractsAMultiLiteralBody(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"item": 2, "tag": 1, "total": 1})
	agg := &rule.Aggregator{Op: "sum", Target: testutil.Var("v"), Body: []rule.Literal{
		testutil.RuleAtom(p, "item", testutil.Var("k"), testutil.Var("v")),
		testutil.RuleAtom(p, "tag", testutil.Var("k")),
	}}
	testutil.Clause(p, testutil.RuleAtom(p, "total", testutil.Var("t")),
		&rule.BinaryConstraint{Op: rule.EQ, LHS: testutil.Var("t"), RHS: agg})

	changed := MaterializeAggregationQueries(p)
	require.True(t, changed)
	require.Len(t, p.Clauses, 2, "the aggregator body must be lifted into its own auxiliary clause")

	require.Len(t, agg.Body, 1)
	scan, ok := agg.Body[0].(*rule.Atom)
	require.True(t, ok)

	aux := p.Clauses[1]
	require.Equal(t, scan.Relation, aux.Head.Relation)
	require.ElementsMatch(t, []string{"k", "v"}, collectVariableNames(aux.Body))
}

func TestMaterializeAggregationQueriesExtractsABodyContainingNegation(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"item": 1, "blocked": 1, "total": 1})
	agg := &rule.Aggregator{Op: "count", Body: []rule.Literal{
		testutil.RuleAtom(p, "item", testutil.Var("k")),
		testutil.Not(testutil.RuleAtom(p, "blocked", testutil.Var("k"))),
	}}
	testutil.Clause(p, testutil.RuleAtom(p, "total", testutil.Var("t")),
		&rule.BinaryConstraint{Op: rule.EQ, LHS: testutil.Var("t"), RHS: agg})

	changed := MaterializeAggregationQueries(p)
	require.True(t, changed)
	require.Len(t, agg.Body, 1, "the aggregator now scans the materialized auxiliary relation instead")
}

func TestNeedsMaterializedRelationDetectsANonAtomSingletonBody(t *testing.T) {
	agg := &rule.Aggregator{Op: "sum", Body: []rule.Literal{
		&rule.BinaryConstraint{Op: rule.EQ, LHS: testutil.Var("k"), RHS: testutil.Var("j")},
	}}
	require.True(t, needsMaterializedRelation(agg), "a BinaryConstraint body literal is not the inline-supported single-atom shape")
}

func TestNeedsMaterializedRelationDetectsANestedAggregatorInsideTheSingleAtom(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"item": 1})
	nested := &rule.Aggregator{Op: "count"}
	agg := &rule.Aggregator{Op: "sum", Body: []rule.Literal{
		testutil.RuleAtom(p, "item", nested),
	}}
	require.True(t, needsMaterializedRelation(agg), "a nested aggregator inside the atom's own args still needs materialization")
}

func TestNeedsMaterializedRelationIsFalseForAPlainSingleAtomBody(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"item": 1})
	agg := &rule.Aggregator{Op: "count", Body: []rule.Literal{
		testutil.RuleAtom(p, "item", testutil.Var("k")),
	}}
	require.False(t, needsMaterializedRelation(agg))
}
