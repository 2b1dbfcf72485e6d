// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

// Package vector holds the dense float32 embedding type and the codecs
// for the two on-disk payload formats: NumPy .npy files and raw
// little-endian float32 streams.
package vector

import (
	"math"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// Vector is a dense sequence of float32 coordinates.
type Vector struct {
	Values     []float32
	Dimensions int
	Normalized bool
}

// New wraps values in a Vector. The slice is retained, not copied.
func New(values []float32) *Vector {
	return &Vector{Values: values, Dimensions: len(values)}
}

// Validate reports whether the vector contains only finite values.
// NaN or ±Inf coordinates make the whole vector unusable.
func (v *Vector) Validate() error {
	for i, val := range v.Values {
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return embrerr.New(embrerr.CodeVectorValuesInvalid,
				"vector contains non-finite values",
				embrerr.Field("index", i),
			)
		}
	}
	return nil
}

// IsValid is the boolean form of Validate.
func (v *Vector) IsValid() bool {
	return v.Validate() == nil
}

// Clone returns a deep copy. Callers own returned vectors and may
// mutate them freely.
func (v *Vector) Clone() *Vector {
	values := make([]float32, len(v.Values))
	copy(values, v.Values)
	return &Vector{Values: values, Dimensions: v.Dimensions, Normalized: v.Normalized}
}

// Norm returns the L2 norm computed in float64.
func (v *Vector) Norm() float64 {
	var sum float64
	for _, val := range v.Values {
		f := float64(val)
		sum += f * f
	}
	return math.Sqrt(sum)
}
