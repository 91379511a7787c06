package form

import "math"

// DecayRate controls how fast older results lose influence on the form
// score. Weight for the i-th most recent match is exp(-DecayRate*i).
const DecayRate = 0.4

// MaxMatches bounds the window a form score is computed over.
const MaxMatches = 5

// Weights returns normalized recency weights for n matches, index 0 being
// the most recent. The weights sum to 1 for any n >= 1.
func Weights(n int) []float64 {
	if n <= 0 {
		return nil
	}

	weights := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		weights[i] = math.Exp(-DecayRate * float64(i))
		total += weights[i]
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

// Score folds per-match points (3/1/0, most recent first) into a weighted
// form value in [0,1].
func Score(points []int) float64 {
	weights := Weights(len(points))
	score := 0.0
	for i, p := range points {
		score += float64(p) / 3 * weights[i]
	}
	return score
}
