package biometric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareIdenticalAlwaysMatches(t *testing.T) {
	v := vectorOf(0.25)
	for _, tol := range []float64{0, 0.1, DefaultTolerance, 10} {
		match, d := Compare(v, v, tol)
		require.True(t, match)
		require.Zero(t, d)
	}
}

func TestCompareThreshold(t *testing.T) {
	stored := make(Vector, Dimension)
	submitted := make(Vector, Dimension)
	submitted[0] = 0.6

	match, d := Compare(stored, submitted, 0.6)
	require.True(t, match)
	require.InDelta(t, 0.6, d, 1e-12)

	match, _ = Compare(stored, submitted, 0.59)
	require.False(t, match)
}

func TestDistanceIsEuclidean(t *testing.T) {
	require.InDelta(t, 5.0, Distance(Vector{0, 0}, Vector{3, 4}), 1e-12)
	d := Distance(vectorOf(0), vectorOf(0.1))
	require.InDelta(t, math.Sqrt(Dimension*0.01), d, 1e-9)
}

func TestDistancePanicsOnLengthMismatch(t *testing.T) {
	require.Panics(t, func() { Distance(Vector{1}, Vector{1, 2}) })
}
