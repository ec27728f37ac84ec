package traverse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CloudDataLab/souffle/ir/ra"
)

func TestExpressionChildrenLeavesHaveNone(t *testing.T) {
	require.Nil(t, ExpressionChildren(ra.ElementAccess{}))
	require.Nil(t, ExpressionChildren(ra.Const{}))
}

func TestExpressionChildrenRecurses(t *testing.T) {
	inner := []ra.Expression{ra.ElementAccess{Column: 0}, ra.Const{Value: int64(1)}}
	require.Equal(t, inner, ExpressionChildren(&ra.IntrinsicOperator{Args: inner}))
	require.Equal(t, inner, ExpressionChildren(&ra.UserDefinedOperator{Args: inner}))
	require.Equal(t, inner, ExpressionChildren(&ra.PackRecord{Args: inner}))
}

func TestVisitExpressionsPreOrder(t *testing.T) {
	expr := &ra.IntrinsicOperator{Op: "+", Args: []ra.Expression{
		ra.ElementAccess{Column: 0},
		&ra.PackRecord{Args: []ra.Expression{ra.Const{Value: int64(1)}}},
	}}

	var visited []ra.Expression
	VisitExpressions(expr, func(e ra.Expression) { visited = append(visited, e) })

	require.Len(t, visited, 4)
	require.Same(t, expr, visited[0])
}

func TestConditionChildren(t *testing.T) {
	left := &ra.Constraint{Op: ra.EQ}
	right := &ra.Constraint{Op: ra.NE}
	conj := &ra.Conjunction{Left: left, Right: right}

	require.Equal(t, []ra.Condition{left, right}, ConditionChildren(conj))

	neg := &ra.Negation{Condition: left}
	require.Equal(t, []ra.Condition{left}, ConditionChildren(neg))

	require.Nil(t, ConditionChildren(left))
}

func TestConditionExpressions(t *testing.T) {
	c := &ra.Constraint{LHS: ra.ElementAccess{Column: 0}, RHS: ra.Const{Value: int64(1)}}
	require.Equal(t, []ra.Expression{c.LHS, c.RHS}, ConditionExpressions(c))

	exists := &ra.ExistenceCheck{Pattern: []ra.Expression{nil, ra.Const{Value: int64(2)}}}
	require.Equal(t, []ra.Expression{ra.Const{Value: int64(2)}}, ConditionExpressions(exists))

	require.Nil(t, ConditionExpressions(&ra.Conjunction{}))
}

func TestAllConditionExpressionsFlattensAcrossConjunctionAndNegation(t *testing.T) {
	c1 := &ra.Constraint{LHS: ra.ElementAccess{Column: 0}, RHS: ra.Const{Value: int64(1)}}
	c2 := &ra.Constraint{LHS: ra.ElementAccess{Column: 1}, RHS: ra.Const{Value: int64(2)}}
	tree := &ra.Conjunction{Left: c1, Right: &ra.Negation{Condition: c2}}

	exprs := AllConditionExpressions(tree)
	require.Len(t, exprs, 4)
}
