// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

// Package compare computes similarity metrics between embedding vectors:
// cosine similarity, Euclidean distance, and coordinate-neighborhood
// preservation, with a projection fallback for mismatched dimensions.
package compare

import (
	"math"
	"sort"

	"github.com/embr-dev/embr/internal/vector"
	"github.com/embr-dev/embr/pkg/errors"
)

// minNorm is the smallest L2 norm accepted by the cosine path. Anything
// below it is treated as a zero vector.
const minNorm = 1e-10

// Method identifies how a comparison result was produced.
type Method string

const (
	// MethodDirectCosine is the plain same-dimension comparison.
	MethodDirectCosine Method = "direct-cosine"

	// MethodProjection is the cross-dimension fallback: both vectors
	// truncated to the shorter length before comparing.
	MethodProjection Method = "projection"

	// MethodSemantic is a same-dimension comparison that also computed
	// neighborhood preservation scores.
	MethodSemantic Method = "semantic"
)

// Options control optional metrics.
type Options struct {
	// NeighborhoodKs lists the k values for which neighborhood
	// preservation scores are computed. Empty means skip the metric.
	NeighborhoodKs []int
}

// Result holds the metrics for one pair of vectors.
type Result struct {
	CosineSimilarity     float64
	EuclideanDistance    float64
	EuclideanSimilarity  float64
	NeighborhoodScores   []float64
	SemanticPreservation float64
	Method               Method
}

// Cosine returns the cosine similarity of two same-length coordinate
// slices. Dot product and both norms accumulate in float64 over a single
// pass.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Errorf(errors.CodeVectorDimensionMismatch,
			"cosine requires equal dimensions: %d vs %d", len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}

	na, nb = math.Sqrt(na), math.Sqrt(nb)
	if na < minNorm || nb < minNorm {
		return 0, errors.New(errors.CodeCompareComputationFailed,
			"cosine undefined for zero-norm vector",
			errors.Field("min_norm", minNorm))
	}
	return dot / (na * nb), nil
}

// Euclidean returns the L2 distance between two same-length coordinate
// slices.
func Euclidean(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Errorf(errors.CodeVectorDimensionMismatch,
			"euclidean requires equal dimensions: %d vs %d", len(a), len(b))
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// EuclideanSimilarity maps a distance into (0, 1] for display.
func EuclideanSimilarity(distance float64) float64 {
	return 1 / (1 + distance)
}

// NeighborhoodPreservation scores how well the k smallest-magnitude
// coordinates of a are preserved in b. Each vector's coordinates are
// ranked by squared value ascending, ties broken by original index, and
// the score is the overlap ratio of the two top-k index sets.
func NeighborhoodPreservation(a, b []float32, k int) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Errorf(errors.CodeVectorDimensionMismatch,
			"neighborhood preservation requires equal dimensions: %d vs %d", len(a), len(b))
	}
	if k <= 0 {
		return 0, errors.Errorf(errors.CodeCompareInvalidInput, "k must be positive, got %d", k)
	}
	if len(a) == 0 {
		return 0, errors.New(errors.CodeCompareInvalidInput, "cannot rank coordinates of an empty vector")
	}
	if k > len(a) {
		k = len(a)
	}

	top := func(v []float32) map[int]struct{} {
		idx := make([]int, len(v))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool {
			si := float64(v[idx[i]]) * float64(v[idx[i]])
			sj := float64(v[idx[j]]) * float64(v[idx[j]])
			return si < sj
		})
		set := make(map[int]struct{}, k)
		for _, i := range idx[:k] {
			set[i] = struct{}{}
		}
		return set
	}

	aTop, bTop := top(a), top(b)
	shared := 0
	for i := range aTop {
		if _, ok := bTop[i]; ok {
			shared++
		}
	}
	return float64(shared) / float64(k), nil
}

// Compare produces the full metric set for a pair of vectors. Vectors of
// different dimensions fall back to a truncated projection; non-finite
// inputs yield the degenerate result (similarity 0, distance +Inf)
// rather than an error.
func Compare(a, b *vector.Vector, opts Options) (Result, error) {
	if a == nil || b == nil || a.Dimensions == 0 || b.Dimensions == 0 {
		return Result{}, errors.New(errors.CodeCompareInvalidInput, "cannot compare an empty vector")
	}
	if !a.IsValid() || !b.IsValid() {
		return Result{
			EuclideanDistance: math.Inf(1),
			Method:            MethodDirectCosine,
		}, nil
	}

	if a.Dimensions != b.Dimensions {
		return compareProjected(a, b, opts)
	}

	cos, err := Cosine(a.Values, b.Values)
	if err != nil {
		return Result{}, err
	}
	dist, err := Euclidean(a.Values, b.Values)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		CosineSimilarity:    cos,
		EuclideanDistance:   dist,
		EuclideanSimilarity: EuclideanSimilarity(dist),
		Method:              MethodDirectCosine,
	}

	if len(opts.NeighborhoodKs) > 0 {
		var sum float64
		for _, k := range opts.NeighborhoodKs {
			score, err := NeighborhoodPreservation(a.Values, b.Values, k)
			if err != nil {
				return Result{}, err
			}
			res.NeighborhoodScores = append(res.NeighborhoodScores, score)
			sum += score
		}
		res.SemanticPreservation = sum / float64(len(res.NeighborhoodScores))
		res.Method = MethodSemantic
	}
	return res, nil
}

func compareProjected(a, b *vector.Vector, opts Options) (Result, error) {
	minDim, maxDim := a.Dimensions, b.Dimensions
	if minDim > maxDim {
		minDim, maxDim = maxDim, minDim
	}

	cos, err := Cosine(a.Values[:minDim], b.Values[:minDim])
	if err != nil {
		return Result{}, err
	}

	// Distance on the unit sphere implied by the projected cosine.
	clamped := math.Max(-1, math.Min(1, cos))
	dist := math.Sqrt(2 * (1 - clamped))

	res := Result{
		CosineSimilarity:    cos,
		EuclideanDistance:   dist,
		EuclideanSimilarity: EuclideanSimilarity(dist),
		Method:              MethodProjection,
	}

	if len(opts.NeighborhoodKs) > 0 {
		ratio := float64(minDim) / float64(maxDim)
		for range opts.NeighborhoodKs {
			res.NeighborhoodScores = append(res.NeighborhoodScores, ratio)
		}
		res.SemanticPreservation = ratio
	}
	return res, nil
}

// Interpret labels a cosine similarity using the fixed display bands.
func Interpret(cos float64) string {
	switch {
	case cos > 0.95:
		return "The embeddings are very similar"
	case cos > 0.85:
		return "The embeddings are similar"
	case cos > 0.70:
		return "The embeddings are moderately similar"
	case cos > 0.50:
		return "The embeddings have some similarity"
	default:
		return "The embeddings are significantly different"
	}
}
