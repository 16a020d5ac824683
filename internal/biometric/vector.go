// Package biometric extracts face templates from images and compares them
// against enrolled templates.
package biometric

import (
	"fmt"
	"math"
)

// Dimension is the length of every face template.
const Dimension = 128

// DefaultTolerance is the distance at or below which two templates match.
const DefaultTolerance = 0.6

// Vector is a face template.
type Vector []float64

// Distance returns the Euclidean distance between a and b. Both vectors must
// have the same length; a mismatch is a programming error and panics.
func Distance(a, b Vector) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("biometric: vector length mismatch %d != %d", len(a), len(b)))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Compare reports whether submitted is within tolerance of stored, along with
// the distance.
func Compare(stored, submitted Vector, tolerance float64) (bool, float64) {
	d := Distance(stored, submitted)
	return d <= tolerance, d
}
