package program

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDGenFreshIsMonotonicAndPrefixed(t *testing.T) {
	var gen IDGen
	first := gen.Fresh("v")
	second := gen.Fresh("v")

	require.Equal(t, "v$0", first)
	require.Equal(t, "v$1", second)
	require.NotEqual(t, first, second)
}

func TestIDGenCloneContinuesFromTheSourceCounterIndependently(t *testing.T) {
	var gen IDGen
	gen.Fresh("v")
	gen.Fresh("v")

	clone := gen.Clone()
	cloneName := clone.Fresh("v")
	sourceName := gen.Fresh("v")

	require.Equal(t, cloneName, sourceName, "clone starts from the same counter value as the point it was cloned from")

	// Advancing the clone further must not advance the source.
	clone.Fresh("v")
	require.NotEqual(t, clone.Fresh("v"), gen.Fresh("v"))
}
