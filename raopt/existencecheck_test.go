package raopt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CloudDataLab/souffle/ir/ra"
	"github.com/CloudDataLab/souffle/testutil"
)

func TestConvertExistenceChecksCollapsesScanToEmptinessCheck(t *testing.T) {
	p := testutil.NewRAProgram(map[string]int{"edge": 2})
	edge := testutil.Rel(p, "edge")

	op := testutil.Scan(0, edge, testutil.Project(testutil.Const(int64(1))))
	testutil.Query(p, op)

	changed := ConvertExistenceChecks(p)
	require.True(t, changed)

	q := p.Queries()[0]
	filter, ok := q.Operation.(*ra.Filter)
	require.True(t, ok)
	neg, ok := filter.Condition.(*ra.Negation)
	require.True(t, ok)
	empty, ok := neg.Condition.(*ra.EmptinessCheck)
	require.True(t, ok)
	require.Equal(t, edge, empty.Relation)
}

func TestConvertExistenceChecksCollapsesIndexScanToExistenceCheck(t *testing.T) {
	p := testutil.NewRAProgram(map[string]int{"edge": 2})
	edge := testutil.Rel(p, "edge")

	idx := testutil.IndexScan(0, edge, []ra.Expression{testutil.Const(int64(5)), nil}, testutil.Project(testutil.Const(int64(1))))
	testutil.Query(p, idx)

	changed := ConvertExistenceChecks(p)
	require.True(t, changed)

	q := p.Queries()[0]
	filter, ok := q.Operation.(*ra.Filter)
	require.True(t, ok)
	exists, ok := filter.Condition.(*ra.ExistenceCheck)
	require.True(t, ok)
	require.Equal(t, edge, exists.Relation)
	require.True(t, exists.Pattern[0].EqualExpression(testutil.Const(int64(5))))
	require.Nil(t, exists.Pattern[1])
}

func TestConvertExistenceChecksSkipsWhenBodyDependsOnTheSearchLevel(t *testing.T) {
	p := testutil.NewRAProgram(map[string]int{"edge": 2})
	edge := testutil.Rel(p, "edge")

	op := testutil.Scan(0, edge, testutil.Project(testutil.Access(0, 0)))
	testutil.Query(p, op)

	changed := ConvertExistenceChecks(p)
	require.False(t, changed)

	q := p.Queries()[0]
	_, ok := q.Operation.(*ra.Scan)
	require.True(t, ok)
}

func TestConvertExistenceChecksSkipsWhenANestedFilterReachesBackToTheOuterSearchLevel(t *testing.T) {
	p := testutil.NewRAProgram(map[string]int{"r0": 1, "r1": 1})
	r0 := testutil.Rel(p, "r0")
	r1 := testutil.Rel(p, "r1")

	cond := testutil.Cmp(ra.LT, testutil.Access(0, 0), testutil.Access(1, 0))
	inner := testutil.IndexScan(1, r1, []ra.Expression{nil}, testutil.Filter(cond, testutil.Project(testutil.Access(1, 0))))
	op := testutil.Scan(0, r0, inner)
	testutil.Query(p, op)

	changed := ConvertExistenceChecks(p)
	require.False(t, changed, "the inner filter's LT(Access(0,0), ...) reaches back to the outer search's own tuple, so search 0 must not collapse")

	q := p.Queries()[0]
	scan, ok := q.Operation.(*ra.Scan)
	require.True(t, ok, "search 0 must remain a Scan, not an EmptinessCheck Filter, since its tuple is still consumed deeper in the body")
	_, stillIndexScan := scan.Inner.(*ra.IndexScan)
	require.True(t, stillIndexScan, "search 1's own body depends on level 1, so it must also remain unconverted")
}

func TestConvertExistenceChecksSkipsWhenBodyContainsAnImpureUDO(t *testing.T) {
	p := testutil.NewRAProgram(map[string]int{"edge": 2})
	edge := testutil.Rel(p, "edge")

	impure := &ra.UserDefinedOperator{Name: "sideEffect", Pure: false}
	op := testutil.Scan(0, edge, testutil.Project(impure))
	testutil.Query(p, op)

	changed := ConvertExistenceChecks(p)
	require.False(t, changed)
}
