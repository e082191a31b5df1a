package cli

import (
	"fmt"

	"github.com/adgarrio/polyfit"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	demoN           int
	demoOutlierFrac float64
	demoNoiseSigma  float64
	demoThreshold   float64
	demoMaxIters    int
	demoTrueCoeffs  []float64
	demoSeed        uint64
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate a synthetic contaminated dataset and recover it with RANSAC",
	Long: `demo generates n samples of a generating polynomial over x in [-10,10],
replaces a fraction of them with additive Gaussian-noised outliers, and runs
RANSAC to recover the original coefficients, printing the ground truth, the
recovered estimate, and the inlier count.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&demoN, "n", 800, "number of samples")
	demoCmd.Flags().Float64Var(&demoOutlierFrac, "outlier-fraction", 0.2, "fraction of samples replaced with outliers")
	demoCmd.Flags().Float64Var(&demoNoiseSigma, "noise-sigma", 100, "standard deviation of the outlier noise")
	demoCmd.Flags().Float64Var(&demoThreshold, "threshold", 1.0, "RANSAC inlier residual threshold")
	demoCmd.Flags().IntVar(&demoMaxIters, "max-iterations", 500, "RANSAC iteration budget")
	demoCmd.Flags().Float64SliceVar(&demoTrueCoeffs, "coeffs", []float64{5, 7}, "generating polynomial coefficients, lowest order first")
	demoCmd.Flags().Uint64Var(&demoSeed, "seed", 42, "pseudo-random seed")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	truth := polyfit.NewPolynomial(demoTrueCoeffs)
	degree := truth.Degree()
	if degree < 1 {
		return fmt.Errorf("--coeffs must declare degree >= 1, got %d coefficients", len(demoTrueCoeffs))
	}

	src := rand.New(rand.NewSource(demoSeed))
	xDist := distuv.Uniform{Min: -10, Max: 10, Src: src}
	outlierGate := distuv.Uniform{Min: 0, Max: 1, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: demoNoiseSigma, Src: src}

	obs := make([]polyfit.Observation, demoN)
	for i := 0; i < demoN; i++ {
		x := xDist.Rand()
		y := truth.Eval(x)
		if outlierGate.Rand() < demoOutlierFrac {
			y += noise.Rand()
		}
		obs[i] = polyfit.NewDirectObservation(x, y)
	}

	e, err := polyfit.NewRANSACEstimator(degree)
	if err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}
	if err := e.SetEvaluations(obs); err != nil {
		return fmt.Errorf("setting observations: %w", err)
	}
	if err := e.SetThreshold(demoThreshold); err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}
	if err := e.SetMaxIterations(demoMaxIters); err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}

	p, err := e.Estimate()
	if err != nil {
		return fmt.Errorf("estimate failed: %w", err)
	}

	printPolynomial("ground truth", truth.Coeffs)
	printPolynomial("recovered", p.Coeffs)

	mask := e.InlierMask()
	inliers := 0
	for _, keep := range mask {
		if keep {
			inliers++
		}
	}
	fmt.Printf("inliers: %d/%d\n", inliers, len(mask))
	return nil
}
