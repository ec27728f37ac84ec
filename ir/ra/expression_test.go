package ra

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElementAccessEquality(t *testing.T) {
	a := ElementAccess{Identifier: 0, Column: 1}
	b := ElementAccess{Identifier: 0, Column: 1}
	c := ElementAccess{Identifier: 0, Column: 2}

	require.True(t, a.EqualExpression(b))
	require.False(t, a.EqualExpression(c))
	require.Equal(t, a, a.CloneExpression())
}

func TestConstEquality(t *testing.T) {
	require.True(t, Const{Value: int64(3)}.EqualExpression(Const{Value: int64(3)}))
	require.False(t, Const{Value: int64(3)}.EqualExpression(Const{Value: int64(4)}))
	require.False(t, Const{Value: int64(3)}.EqualExpression(ElementAccess{}))
}

func TestIntrinsicOperatorCloneIsDeep(t *testing.T) {
	op := &IntrinsicOperator{Op: "+", Args: []Expression{ElementAccess{Identifier: 0, Column: 0}, Const{Value: int64(1)}}}
	clone := op.CloneExpression().(*IntrinsicOperator)

	require.True(t, op.EqualExpression(clone))
	clone.Args[1] = Const{Value: int64(2)}
	require.False(t, op.EqualExpression(clone))
}

func TestUserDefinedOperatorEqualityRequiresMatchingPureFlag(t *testing.T) {
	pure := &UserDefinedOperator{Name: "f", Pure: true}
	impure := &UserDefinedOperator{Name: "f", Pure: false}
	require.False(t, pure.EqualExpression(impure))
}

func TestPackRecordCloneAndEquality(t *testing.T) {
	rec := &PackRecord{Args: []Expression{Const{Value: "a"}, Const{Value: "b"}}}
	clone := rec.CloneExpression().(*PackRecord)
	require.True(t, rec.EqualExpression(clone))

	clone.Args = clone.Args[:1]
	require.False(t, rec.EqualExpression(clone))
}

func TestOuterSentinel(t *testing.T) {
	require.Equal(t, Identifier(-1), Outer)
}
