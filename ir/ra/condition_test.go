package ra

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CloudDataLab/souffle/diag"
)

func leq(col int, v any) *Constraint {
	return &Constraint{Op: EQ, LHS: ElementAccess{Column: col}, RHS: Const{Value: v}}
}

func TestAndBuildsVerboseRightLeaningChain(t *testing.T) {
	c1, c2, c3 := leq(0, int64(1)), leq(1, int64(2)), leq(2, int64(3))
	conj := And(c1, c2, c3)

	flat := Conjuncts(conj)
	require.Len(t, flat, 3)
	require.True(t, flat[0].EqualCondition(c1))
	require.True(t, flat[1].EqualCondition(c2))
	require.True(t, flat[2].EqualCondition(c3))
}

func TestAndWithNoConditionsReturnsNil(t *testing.T) {
	require.Nil(t, And())
	require.Nil(t, And(nil, nil))
}

func TestAndSkipsNilConditions(t *testing.T) {
	c1 := leq(0, int64(1))
	conj := And(nil, c1, nil)
	require.True(t, conj.EqualCondition(c1), "a single non-nil condition should not be wrapped in a Conjunction")
}

func TestConjunctsOnNonConjunctionReturnsSingleton(t *testing.T) {
	c1 := leq(0, int64(1))
	require.Equal(t, []Condition{c1}, Conjuncts(c1))
}

func TestConjunctionCloneIsDeep(t *testing.T) {
	conj := &Conjunction{Left: leq(0, int64(1)), Right: leq(1, int64(2))}
	clone := conj.CloneCondition().(*Conjunction)
	require.True(t, conj.EqualCondition(clone))

	clone.Left.(*Constraint).RHS = Const{Value: int64(99)}
	require.False(t, conj.EqualCondition(clone))
}

func TestNegationEquality(t *testing.T) {
	n1 := &Negation{Condition: leq(0, int64(1))}
	n2 := &Negation{Condition: leq(0, int64(1))}
	n3 := &Negation{Condition: leq(0, int64(2))}
	require.True(t, n1.EqualCondition(n2))
	require.False(t, n1.EqualCondition(n3))
}

func TestEmptinessCheckEqualityIgnoresNote(t *testing.T) {
	a := &EmptinessCheck{Relation: 3, Note: &diag.Note{Source: "scan"}}
	b := &EmptinessCheck{Relation: 3}
	require.True(t, a.EqualCondition(b))

	c := &EmptinessCheck{Relation: 4}
	require.False(t, a.EqualCondition(c))
}

func TestExistenceCheckEqualityWithUnboundPatternSlots(t *testing.T) {
	a := &ExistenceCheck{Relation: 1, Pattern: []Expression{nil, Const{Value: int64(5)}}}
	b := &ExistenceCheck{Relation: 1, Pattern: []Expression{nil, Const{Value: int64(5)}}}
	c := &ExistenceCheck{Relation: 1, Pattern: []Expression{Const{Value: int64(1)}, Const{Value: int64(5)}}}

	require.True(t, a.EqualCondition(b))
	require.False(t, a.EqualCondition(c))

	clone := a.CloneCondition().(*ExistenceCheck)
	require.True(t, a.EqualCondition(clone))
	require.Nil(t, clone.Pattern[0])
}

func TestCompareOpString(t *testing.T) {
	cases := map[CompareOp]string{EQ: "=", NE: "!=", LT: "<", LE: "<=", GT: ">", GE: ">="}
	for op, want := range cases {
		require.Equal(t, want, op.String())
	}
}
