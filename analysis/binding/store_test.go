package binding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CloudDataLab/souffle/ir/rule"
)

func eqLit(lhs, rhs rule.Argument) *rule.BinaryConstraint {
	return &rule.BinaryConstraint{Op: rule.EQ, LHS: lhs, RHS: rhs}
}

func TestNewSeedsOneDisjunctPerEquality(t *testing.T) {
	clause := &rule.Clause{Body: []rule.Literal{
		eqLit(rule.Variable{Name: "a"}, rule.Variable{Name: "b"}),
	}}
	s := New(clause)

	snap := s.Snapshot()
	require.Len(t, snap["a"], 1)
	require.True(t, snap["a"][0]["b"])
}

func TestNewSkipsEqualitiesWhoseRHSContainsAnAggregator(t *testing.T) {
	clause := &rule.Clause{Body: []rule.Literal{
		eqLit(rule.Variable{Name: "total"}, &rule.Aggregator{Op: "sum", Target: rule.Variable{Name: "v"}}),
	}}
	s := New(clause)
	require.Empty(t, s.Snapshot())
}

func TestNewCollectsVariablesThroughRecordAndFunctor(t *testing.T) {
	clause := &rule.Clause{Body: []rule.Literal{
		eqLit(rule.Variable{Name: "p"}, &rule.RecordInit{Fields: []rule.Argument{
			rule.Variable{Name: "x"},
			&rule.Functor{Name: "label", Args: []rule.Argument{rule.Variable{Name: "y"}}},
		}}),
	}}
	s := New(clause)

	snap := s.Snapshot()
	require.Len(t, snap["p"], 1)
	require.True(t, snap["p"][0]["x"])
	require.True(t, snap["p"][0]["y"])
}

func TestMarkBoundPropagatesThroughChainedDependencies(t *testing.T) {
	// b depends on a; c depends on b. Binding a should transitively bind c.
	clause := &rule.Clause{Body: []rule.Literal{
		eqLit(rule.Variable{Name: "b"}, rule.Variable{Name: "a"}),
		eqLit(rule.Variable{Name: "c"}, rule.Variable{Name: "b"}),
	}}
	s := New(clause)

	require.False(t, s.IsBound("c"))
	s.MarkBound("a")

	require.True(t, s.IsBound("a"))
	require.True(t, s.IsBound("b"))
	require.True(t, s.IsBound("c"))
	require.Empty(t, s.Snapshot(), "every dependency should have resolved out of the DNF once bound")
}

func TestMarkBoundLeavesUnsatisfiedDisjunctsPruned(t *testing.T) {
	// x becomes bound once (p and q) or (r) holds.
	clause := &rule.Clause{}
	s := New(clause)
	s.deps["x"] = []disjunct{{"p": true, "q": true}, {"r": true}}

	s.MarkBound("p")
	require.False(t, s.IsBound("x"))

	snap := s.Snapshot()
	require.Len(t, snap["x"], 2)
	require.Equal(t, map[string]bool{"q": true}, snap["x"][0])
	require.Equal(t, map[string]bool{"r": true}, snap["x"][1])

	s.MarkBound("r")
	require.True(t, s.IsBound("x"))
}

func TestMarkHeadBoundSetsBothBoundAndHeadBound(t *testing.T) {
	s := New(&rule.Clause{})
	s.MarkHeadBound("x")

	require.True(t, s.IsBound("x"))
	require.True(t, s.IsHeadBound("x"))
}

func TestBindIsAnAliasForMarkBound(t *testing.T) {
	s := New(&rule.Clause{})
	s.Bind("x")
	require.True(t, s.IsBound("x"))
}

func TestReduceIsIdempotent(t *testing.T) {
	clause := &rule.Clause{Body: []rule.Literal{
		eqLit(rule.Variable{Name: "b"}, rule.Variable{Name: "a"}),
	}}
	s := New(clause)
	s.MarkBound("a")

	before := s.Snapshot()
	s.Reduce()
	require.Equal(t, before, s.Snapshot())
}

func TestBoundListsEveryBoundVariable(t *testing.T) {
	s := New(&rule.Clause{})
	s.MarkBound("a")
	s.MarkBound("b")

	require.ElementsMatch(t, []string{"a", "b"}, s.Bound())
}
