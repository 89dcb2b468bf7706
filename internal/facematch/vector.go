// Package facematch provides face embedding comparison used by the recognition
// pipeline and the CLI.
package facematch

import (
	"fmt"
	"math"
)

// VectorDim is the length of a face embedding produced by the dlib ResNet model.
const VectorDim = 128

// Vector is a single face embedding.
type Vector [VectorDim]float64

// VectorFromSlice converts a slice returned by the embedding server into a Vector.
func VectorFromSlice[T float32 | float64](values []T) (Vector, error) {
	var v Vector
	if len(values) != VectorDim {
		return v, fmt.Errorf("embedding has %d dimensions, expected %d", len(values), VectorDim)
	}
	for i, x := range values {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v, fmt.Errorf("embedding value %d is not finite", i)
		}
		v[i] = f
	}
	return v, nil
}

// EuclideanDistance computes the L2 distance between two embeddings.
func EuclideanDistance(a, b Vector) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
