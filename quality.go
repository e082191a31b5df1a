package polyfit

import "gonum.org/v1/gonum/floats"

// NormalizeQualityScores returns a copy of scores scaled into [0,1] by the
// maximum score. Scores must be non-negative; an all-zero input is returned
// unchanged (there is no ordering information to preserve).
func NormalizeQualityScores(scores []float64) ([]float64, error) {
	for i, q := range scores {
		if q < 0 {
			return nil, newErr(InvalidConfiguration, "NormalizeQualityScores", "quality score %d is negative: %g", i, q)
		}
	}
	out := append([]float64(nil), scores...)
	if len(out) == 0 {
		return out, nil
	}
	qMax := floats.Max(out)
	if qMax == 0 {
		return out, nil
	}
	floats.Scale(1/qMax, out)
	return out, nil
}

// SortByQuality returns observations and their scores reordered by
// descending quality, the same permutation PROSAC/PROMedS draw their
// progressive prefix from. The inputs are not modified.
func SortByQuality(observations []Observation, scores []float64) ([]Observation, []float64, error) {
	if len(observations) != len(scores) {
		return nil, nil, newErr(InvalidConfiguration, "SortByQuality", "have %d observations and %d quality scores", len(observations), len(scores))
	}
	order := qualityOrder(scores)
	sortedObs := make([]Observation, len(order))
	sortedScores := make([]float64, len(order))
	for i, idx := range order {
		sortedObs[i] = observations[idx]
		sortedScores[i] = scores[idx]
	}
	return sortedObs, sortedScores, nil
}
