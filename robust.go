package polyfit

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RobustEstimator is the common surface of the four outlier-rejecting
// strategies (RANSAC, LMedS, PROSAC, PROMedS): given observations, degree,
// and a threshold/confidence/iteration budget, return a polynomial and the
// inlier set that supports it.
type RobustEstimator interface {
	Estimator
	SetThreshold(t float64) error
	Threshold() float64
	SetStopThreshold(t float64) error
	StopThreshold() float64
	SetConfidence(c float64) error
	Confidence() float64
	SetMaxIterations(n int) error
	MaxIterations() int
	SetProgressDelta(p float64) error
	ProgressDelta() float64
	SetGeometricDistanceUsed(used bool)
	GeometricDistanceUsed() bool
	SetRefineResult(refine bool)
	RefineResult() bool
	SetQualityScores(scores []float64) error
	QualityScores() []float64
	SetRobustListener(l RobustListener)
	InlierMask() []bool
}

// robustBase holds the configuration and state shared by every robust
// strategy. Defaults: confidence 0.99, progressDelta 0.1,
// refineResult true, geometric distance off.
type robustBase struct {
	baseEstimator

	threshold     float64
	stopThreshold float64
	hasStop       bool
	confidence    float64
	maxIterations int
	progressDelta float64
	useGeometric  bool
	refineResult  bool
	qualityScores []float64

	robustListener RobustListener
	inlierMask     []bool
	rng            *rand.Rand
}

func newRobustBase() robustBase {
	return robustBase{
		confidence:    0.99,
		maxIterations: 5000,
		progressDelta: 0.1,
		refineResult:  true,
		rng:           rand.New(rand.NewSource(1)),
	}
}

func (b *robustBase) SetThreshold(t float64) error {
	if b.locked {
		return newErr(Locked, "SetThreshold", "estimator is locked")
	}
	if t <= 0 {
		return newErr(InvalidConfiguration, "SetThreshold", "threshold must be > 0, got %g", t)
	}
	b.threshold = t
	return nil
}
func (b *robustBase) Threshold() float64 { return b.threshold }

func (b *robustBase) SetStopThreshold(t float64) error {
	if b.locked {
		return newErr(Locked, "SetStopThreshold", "estimator is locked")
	}
	if t <= 0 {
		return newErr(InvalidConfiguration, "SetStopThreshold", "stop_threshold must be > 0, got %g", t)
	}
	b.stopThreshold = t
	b.hasStop = true
	return nil
}
func (b *robustBase) StopThreshold() float64 { return b.stopThreshold }

func (b *robustBase) SetConfidence(c float64) error {
	if b.locked {
		return newErr(Locked, "SetConfidence", "estimator is locked")
	}
	if c <= 0 || c >= 1 {
		return newErr(InvalidConfiguration, "SetConfidence", "confidence must be in (0,1), got %g", c)
	}
	b.confidence = c
	return nil
}
func (b *robustBase) Confidence() float64 { return b.confidence }

func (b *robustBase) SetMaxIterations(n int) error {
	if b.locked {
		return newErr(Locked, "SetMaxIterations", "estimator is locked")
	}
	if n < 1 {
		return newErr(InvalidConfiguration, "SetMaxIterations", "max_iterations must be >= 1, got %d", n)
	}
	b.maxIterations = n
	return nil
}
func (b *robustBase) MaxIterations() int { return b.maxIterations }

func (b *robustBase) SetProgressDelta(p float64) error {
	if b.locked {
		return newErr(Locked, "SetProgressDelta", "estimator is locked")
	}
	if p <= 0 || p >= 1 {
		return newErr(InvalidConfiguration, "SetProgressDelta", "progress_delta must be in (0,1), got %g", p)
	}
	b.progressDelta = p
	return nil
}
func (b *robustBase) ProgressDelta() float64 { return b.progressDelta }

func (b *robustBase) SetGeometricDistanceUsed(used bool) { b.useGeometric = used }
func (b *robustBase) GeometricDistanceUsed() bool        { return b.useGeometric }

func (b *robustBase) SetRefineResult(refine bool) { b.refineResult = refine }
func (b *robustBase) RefineResult() bool          { return b.refineResult }

// SetEvaluations rejects an observation count that no longer matches
// already-set quality scores; a length mismatch between the two arrays is
// a configuration error at whichever setter introduces it, not a deferred
// readiness failure. Pass an empty quality-score array first to resize.
func (b *robustBase) SetEvaluations(observations []Observation) error {
	if b.locked {
		return newErr(Locked, "SetEvaluations", "estimator is locked")
	}
	if len(b.qualityScores) > 0 && len(observations) != len(b.qualityScores) {
		return newErr(InvalidConfiguration, "SetEvaluations", "have %d quality scores for %d observations", len(b.qualityScores), len(observations))
	}
	return b.baseEstimator.SetEvaluations(observations)
}

// SetQualityScores requires one non-negative score per already-set
// observation. An empty array clears the scores.
func (b *robustBase) SetQualityScores(scores []float64) error {
	if b.locked {
		return newErr(Locked, "SetQualityScores", "estimator is locked")
	}
	for i, q := range scores {
		if q < 0 {
			return newErr(InvalidConfiguration, "SetQualityScores", "quality score %d is negative: %g", i, q)
		}
	}
	if len(scores) > 0 && len(b.observations) > 0 && len(scores) != len(b.observations) {
		return newErr(InvalidConfiguration, "SetQualityScores", "have %d quality scores for %d observations", len(scores), len(b.observations))
	}
	b.qualityScores = append([]float64(nil), scores...)
	return nil
}
func (b *robustBase) QualityScores() []float64 { return b.qualityScores }

func (b *robustBase) SetRobustListener(l RobustListener) {
	b.robustListener = l
	b.listener = l
}

func (b *robustBase) InlierMask() []bool { return append([]bool(nil), b.inlierMask...) }

// computeResiduals evaluates every observation's residual against
// candidate, using the geometric or algebraic model per cfg.
func computeResiduals(obs []Observation, candidate Polynomial, useGeometric bool) ([]float64, error) {
	residuals := make([]float64, len(obs))
	for i, o := range obs {
		r, err := Residual(candidate, o, useGeometric)
		if err != nil {
			return nil, err
		}
		residuals[i] = r
	}
	return residuals, nil
}

// adaptiveIterations returns N_needed = ceil(log(1-confidence) / log(1-(1-epsilon)^s)),
// the number of iterations needed for a sample-free-of-outliers draw with
// the given confidence, given an estimated outlier fraction epsilon and
// minimal sample size s.
func adaptiveIterations(confidence, epsilon float64, s int) int {
	if epsilon <= 0 {
		return 1
	}
	inlierProb := math.Pow(1-epsilon, float64(s))
	if inlierProb >= 1 {
		return 1
	}
	denom := math.Log(1 - inlierProb)
	if denom == 0 {
		return math.MaxInt32
	}
	n := math.Log(1-confidence) / denom
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 1 {
		return 1
	}
	return int(math.Ceil(n))
}

// median returns the median of xs without mutating xs.
func median(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// sigmaHat is LMedS's robust standard-deviation estimate from the median
// of squared residuals: 1.4826 * (1 + 5/(n-s)) * sqrt(medianSq).
func sigmaHat(medianSq float64, n, s int) float64 {
	denom := n - s
	if denom <= 0 {
		denom = 1
	}
	return 1.4826 * (1 + 5/float64(denom)) * math.Sqrt(medianSq)
}

// drawUniform draws s distinct indices in [0,n) uniformly without
// replacement, via a partial Fisher-Yates shuffle.
func drawUniform(n, s int, rng *rand.Rand) []int {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < s; i++ {
		j := i + rng.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return append([]int(nil), pool[:s]...)
}

// qualityOrder returns the permutation of [0,n) sorted by descending
// quality score, for PROSAC/PROMedS's progressive sampling.
func qualityOrder(qualityScores []float64) []int {
	order := make([]int, len(qualityScores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return qualityScores[order[i]] > qualityScores[order[j]]
	})
	return order
}

// prosacPrefixSize returns the size of the high-quality prefix drawn from
// at iteration it (0-based) of n observations with minimal sample size s,
// following the PROSAC growth schedule: the prefix grows roughly linearly
// with the iteration count, reaching n by iteration n.
func prosacPrefixSize(it, n, s int) int {
	size := s + it
	if size > n {
		size = n
	}
	if size < s {
		size = s
	}
	return size
}

// drawProgressive draws s indices: s-1 uniformly from the top prosacPrefixSize(it,n,s)-1
// quality-ranked observations, plus the boundary element itself as the s-th,
// matching the PROSAC sampling discipline (the newest member of the growing
// prefix is always included once the prefix has grown past it).
func drawProgressive(order []int, it, s int, rng *rand.Rand) []int {
	n := len(order)
	prefix := prosacPrefixSize(it, n, s)
	if prefix >= n {
		idx := drawUniform(n, s, rng)
		result := make([]int, s)
		for i, p := range idx {
			result[i] = order[p]
		}
		return result
	}

	result := make([]int, s)
	if prefix == s {
		for i := 0; i < s; i++ {
			result[i] = order[i]
		}
		return result
	}

	// Last index of the prefix is forced in; the remaining s-1 are drawn
	// uniformly from the rest of the prefix.
	result[s-1] = order[prefix-1]
	rest := drawUniform(prefix-1, s-1, rng)
	for i, p := range rest {
		result[i] = order[p]
	}
	return result
}

// progressFraction reports a [0,1] fraction of the iteration budget consumed,
// using whichever of it/maxIterations or it/needed is more informative.
func progressFraction(it, maxIterations, needed int) float64 {
	bound := maxIterations
	if needed < bound {
		bound = needed
	}
	if bound <= 0 {
		return 1
	}
	p := float64(it) / float64(bound)
	if p > 1 {
		p = 1
	}
	return p
}

// runThresholdLoop implements the shared RANSAC/PROSAC loop: inliers are
// observations with residual <= threshold, score is inlier count (ties
// broken by smaller total inlier residual, i.e. lower is better on ties).
func runThresholdLoop(obs []Observation, degree int, threshold float64, base *robustBase, self RobustEstimator, sample func(it int) ([]int, error)) (Polynomial, []bool, error) {
	s := degree + 1
	n := len(obs)

	var (
		bestPoly     Polynomial
		bestMask     []bool
		bestCount    = -1
		bestResidSum = math.Inf(1)
		found        bool
		lastProgress = -1.0
	)

	epsilon := 1.0
	needed := base.maxIterations
	it := 0
	for it < base.maxIterations && it < needed {
		indices, err := sample(it)
		if err != nil {
			return Polynomial{}, nil, err
		}
		sampleObs := make([]Observation, len(indices))
		for i, idx := range indices {
			sampleObs[i] = obs[idx]
		}

		candidate, err := solveDeterministic(sampleObs, degree, false)
		if err == nil {
			residuals, rerr := computeResiduals(obs, candidate, base.useGeometric)
			if rerr == nil {
				count := 0
				sum := 0.0
				mask := make([]bool, n)
				for i, r := range residuals {
					if r <= threshold {
						mask[i] = true
						count++
						sum += r
					}
				}
				if count > 0 && (count > bestCount || (count == bestCount && sum < bestResidSum)) {
					bestCount = count
					bestResidSum = sum
					bestPoly = candidate
					bestMask = mask
					found = true

					epsilon = 1 - float64(count)/float64(n)
					if epsilon < 0 {
						epsilon = 0
					}
					needed = adaptiveIterations(base.confidence, epsilon, s)
				}
			}
		}

		if base.robustListener != nil {
			base.robustListener.OnIteration(self, it)
			p := progressFraction(it+1, base.maxIterations, needed)
			if lastProgress < 0 || int(p/base.progressDelta) > int(lastProgress/base.progressDelta) {
				base.robustListener.OnProgress(self, p)
				lastProgress = p
			}
		}
		it++
	}

	if !found {
		return Polynomial{}, nil, newErr(RobustEstimatorKind, "Estimate", "exhausted %d iterations without finding an inlier set", base.maxIterations)
	}
	return bestPoly, bestMask, nil
}

// runMedianLoop implements the shared LMedS/PROMedS loop: score is the
// median of squared residuals (lower is better); inliers are determined a
// posteriori from the robust standard-deviation estimate.
func runMedianLoop(obs []Observation, degree int, base *robustBase, self RobustEstimator, sample func(it int) ([]int, error)) (Polynomial, []bool, error) {
	s := degree + 1
	n := len(obs)

	var (
		bestPoly      Polynomial
		bestResiduals []float64
		bestMedianSq  = math.Inf(1)
		found         bool
		lastProgress  = -1.0
	)

	epsilon := 0.5
	needed := base.maxIterations
	it := 0
	for it < base.maxIterations && it < needed {
		indices, err := sample(it)
		if err != nil {
			return Polynomial{}, nil, err
		}
		sampleObs := make([]Observation, len(indices))
		for i, idx := range indices {
			sampleObs[i] = obs[idx]
		}

		candidate, err := solveDeterministic(sampleObs, degree, false)
		if err == nil {
			residuals, rerr := computeResiduals(obs, candidate, base.useGeometric)
			if rerr == nil {
				sq := make([]float64, n)
				for i, r := range residuals {
					sq[i] = r * r
				}
				medSq := median(sq)
				if medSq < bestMedianSq {
					bestMedianSq = medSq
					bestPoly = candidate
					bestResiduals = residuals
					found = true

					sigma := sigmaHat(medSq, n, s)
					inliers := 0
					if sigma > 0 {
						for _, r := range residuals {
							if r <= 2.5*sigma {
								inliers++
							}
						}
					} else {
						inliers = n
					}
					epsilon = 1 - float64(inliers)/float64(n)
					if epsilon < 0 {
						epsilon = 0
					}
					needed = adaptiveIterations(base.confidence, epsilon, s)

					if base.hasStop && math.Sqrt(medSq) <= base.stopThreshold {
						needed = 0
					}
				}
			}
		}

		if base.robustListener != nil {
			base.robustListener.OnIteration(self, it)
			p := progressFraction(it+1, base.maxIterations, needed)
			if lastProgress < 0 || int(p/base.progressDelta) > int(lastProgress/base.progressDelta) {
				base.robustListener.OnProgress(self, p)
				lastProgress = p
			}
		}
		it++
	}

	if !found {
		return Polynomial{}, nil, newErr(RobustEstimatorKind, "Estimate", "exhausted %d iterations without finding a viable sample", base.maxIterations)
	}

	sigma := sigmaHat(bestMedianSq, n, s)
	mask := make([]bool, n)
	for i, r := range bestResiduals {
		if sigma > 0 && r <= 2.5*sigma {
			mask[i] = true
		} else if sigma == 0 && r == 0 {
			mask[i] = true
		}
	}
	return bestPoly, mask, nil
}

// refine re-solves with LMSE over the inlier set when refineResult is set
// and enough inliers support it; otherwise it returns the candidate as-is.
func refine(obs []Observation, degree int, mask []bool, candidate Polynomial, refineResult bool) (Polynomial, error) {
	if !refineResult {
		return candidate, nil
	}
	var inliers []Observation
	for i, keep := range mask {
		if keep {
			inliers = append(inliers, obs[i])
		}
	}
	if len(inliers) < degree+1 {
		return candidate, nil
	}
	refined, err := solveDeterministic(inliers, degree, len(inliers) > degree+1)
	if err != nil {
		return Polynomial{}, newErr(PolynomialEstimation, "refine", "%w", err)
	}
	return refined, nil
}
