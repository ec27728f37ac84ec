package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CloudDataLab/souffle/ir/ra"
	"github.com/CloudDataLab/souffle/program"
	"github.com/CloudDataLab/souffle/testutil"
)

func TestRunRuleReachesAFixedPointAndReportsTheIterationCount(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"path": 2, "edge": 2})
	testutil.Clause(p, testutil.RuleAtom(p, "path", testutil.Var("x"), testutil.Var("y")),
		testutil.RuleAtom(p, "edge", testutil.Var("x"), testutil.Var("y")))

	pipeline := Pipeline{Passes: []string{"normalize"}}
	iterations, err := RunRule(pipeline, p)
	require.NoError(t, err)
	require.GreaterOrEqual(t, iterations, 1)
}

func TestRunRuleDefaultsSIPSToNaiveWhenUnset(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"path": 1, "edge": 1})
	pathRef, _ := p.Relations.Resolve("path")
	p.Queries = []program.RelationRef{pathRef}
	testutil.Clause(p, testutil.RuleAtom(p, "path", testutil.Var("x")), testutil.RuleAtom(p, "edge", testutil.Var("x")))

	pipeline := Pipeline{Passes: []string{"normalize", "adorn"}}
	_, err := RunRule(pipeline, p)
	require.NoError(t, err)
}

func TestRunRuleRejectsAnUnknownPassName(t *testing.T) {
	p := testutil.NewRuleProgram(nil)
	pipeline := Pipeline{Passes: []string{"does-not-exist"}}

	_, err := RunRule(pipeline, p)
	require.Error(t, err)
}

func TestRunRuleReportsErrFixedPointNotReachedWhenCappedTooLow(t *testing.T) {
	p := testutil.NewRuleProgram(nil)
	p.Relations.Declare(program.Relation{Name: "io", Arity: 1, Input: true, Output: true})

	pipeline := Pipeline{Passes: []string{"normalize"}, MaxIterations: 1}
	_, err := RunRule(pipeline, p)
	require.ErrorIs(t, err, ErrFixedPointNotReached)
}

func TestPipelineMaxIterationsFallsBackToTheDefault(t *testing.T) {
	require.Equal(t, DefaultMaxIterations, Pipeline{}.maxIterations())
	require.Equal(t, 5, Pipeline{MaxIterations: 5}.maxIterations())
}

func TestRunRARunsLevelingAndIndexCreationToAFixedPoint(t *testing.T) {
	p := testutil.NewRAProgram(map[string]int{"edge": 2})
	edge := testutil.Rel(p, "edge")
	cond := testutil.EQ(testutil.Access(0, 0), testutil.Const(int64(5)))
	op := testutil.Scan(0, edge, testutil.Filter(cond, testutil.Project(testutil.Access(0, 1))))
	testutil.Query(p, op)

	pipeline := Pipeline{Passes: []string{"level", "index"}}
	iterations, err := RunRA(pipeline, p)
	require.NoError(t, err)
	require.GreaterOrEqual(t, iterations, 1)

	q := p.Queries()[0]
	_, ok := q.Operation.(*ra.IndexScan)
	require.True(t, ok, "leveling followed by index creation must collapse the Scan/Filter into an IndexScan")
}

func TestRunRARejectsAnUnknownPassName(t *testing.T) {
	p := testutil.NewRAProgram(nil)
	pipeline := Pipeline{Passes: []string{"does-not-exist"}}

	_, err := RunRA(pipeline, p)
	require.Error(t, err)
}
