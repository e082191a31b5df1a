package polyfit

import "gonum.org/v1/gonum/mat"

// DeterministicEstimator solves A*p = b exactly (square system, d+1 rows)
// or in the least-mean-squared-error sense (more than d+1 rows, when
// LMSE is allowed).
type DeterministicEstimator struct {
	baseEstimator
	lmseAllowed bool
}

// NewDeterministicEstimator builds a DeterministicEstimator for the given
// degree, with LMSE solutions allowed by default.
func NewDeterministicEstimator(degree int) (*DeterministicEstimator, error) {
	e := &DeterministicEstimator{lmseAllowed: true}
	if err := e.SetDegree(degree); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *DeterministicEstimator) GetType() EstimatorType { return LMSEType }

// SetLMSESolutionAllowed toggles whether an overdetermined system is
// solved in the least-squares sense (true) or truncated to the first d+1
// rows and solved exactly (false).
func (e *DeterministicEstimator) SetLMSESolutionAllowed(allowed bool) error {
	if e.locked {
		return newErr(Locked, "SetLMSESolutionAllowed", "estimator is locked")
	}
	e.lmseAllowed = allowed
	return nil
}

func (e *DeterministicEstimator) LMSESolutionAllowed() bool { return e.lmseAllowed }

func (e *DeterministicEstimator) IsReady() bool {
	return len(e.observations) >= e.MinNumberOfEvaluations()
}

// Estimate runs the deterministic fit. See solveDeterministic for the shared
// solve logic used by the weighted and robust estimators' inner solves.
func (e *DeterministicEstimator) Estimate() (Polynomial, error) {
	if !e.IsReady() {
		return Polynomial{}, newErr(NotReady, "Estimate", "need %d observations, have %d", e.MinNumberOfEvaluations(), len(e.observations))
	}
	if err := e.lock(); err != nil {
		return Polynomial{}, err
	}
	defer e.unlock()

	if e.listener != nil {
		e.listener.OnEstimateStart(e)
	}

	obs := e.observations
	useLMSE := e.lmseAllowed && len(obs) > e.MinNumberOfEvaluations()
	if !useLMSE {
		obs = obs[:e.MinNumberOfEvaluations()]
	}

	poly, err := solveDeterministic(obs, e.degree, useLMSE)

	if e.listener != nil {
		e.listener.OnEstimateEnd(e)
	}
	return poly, err
}

// solveDeterministic builds the linear system for obs and degree, then
// solves it exactly (useLMSE == false, requires len(obs) == degree+1) or
// in the least-squares sense (useLMSE == true, requires len(obs) >
// degree). It is the shared inner solver reused by the weighted estimator
// (post row-scaling) and by every robust driver's per-sample candidate fit.
func solveDeterministic(obs []Observation, degree int, useLMSE bool) (Polynomial, error) {
	A, b, err := BuildSystem(obs, degree)
	if err != nil {
		return Polynomial{}, err
	}

	var x *mat.VecDense
	if useLMSE {
		x, err = solveLeastSquares(A, b)
	} else {
		x, err = solveSquare(A, b)
	}
	if err != nil {
		return Polynomial{}, newErr(PolynomialEstimation, "solveDeterministic", "%w", err)
	}
	return NewPolynomial(x.RawVector().Data), nil
}

// solveSquare solves A*x = b exactly via gonum's LU-backed VecDense.SolveVec.
func solveSquare(A *mat.Dense, b *mat.VecDense) (*mat.VecDense, error) {
	var x mat.VecDense
	if err := x.SolveVec(A, b); err != nil {
		return nil, err
	}
	return &x, nil
}

// solveLeastSquares solves A*x ~= b minimizing ||A*x-b||_2, trying normal
// equations first and falling back to an SVD-based pseudoinverse solve on
// rank deficiency, mirroring the OLS/SVD-fallback technique this package's
// linear solves are grounded on.
func solveLeastSquares(A *mat.Dense, b *mat.VecDense) (*mat.VecDense, error) {
	var ata mat.Dense
	ata.Mul(A.T(), A)

	var ataInv mat.Dense
	if err := ataInv.Inverse(&ata); err == nil {
		var atb mat.VecDense
		atb.MulVec(A.T(), b)
		var x mat.VecDense
		x.MulVec(&ataInv, &atb)
		return &x, nil
	}

	var svd mat.SVD
	if !svd.Factorize(A, mat.SVDThin) {
		return nil, newErr(PolynomialEstimation, "solveLeastSquares", "SVD factorization failed")
	}

	_, cols := A.Dims()
	rank := svd.Rank(1e-12)
	if rank == 0 {
		return mat.NewVecDense(cols, nil), nil
	}

	bMat := mat.NewDense(b.Len(), 1, nil)
	for i := 0; i < b.Len(); i++ {
		bMat.Set(i, 0, b.AtVec(i))
	}

	var xMat mat.Dense
	svd.SolveTo(&xMat, bMat, rank)

	x := mat.NewVecDense(cols, nil)
	for i := 0; i < cols; i++ {
		x.SetVec(i, xMat.At(i, 0))
	}
	return x, nil
}
