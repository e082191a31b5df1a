package cli

import (
	"fmt"

	"github.com/adgarrio/polyfit"
	"github.com/spf13/cobra"
)

var (
	robustStrategy     string
	robustThreshold    float64
	robustStopThresh   float64
	hasStopThresh      bool
	robustConfidence   float64
	robustMaxIters     int
	robustProgressStep float64
	robustGeometric    bool
	robustNoRefine     bool
	robustQualityPath  string
)

var robustCmd = &cobra.Command{
	Use:   "robust",
	Short: "Outlier-robust fit via RANSAC, LMedS, PROSAC, or PROMedS",
	RunE:  runRobust,
}

func init() {
	robustCmd.Flags().StringVar(&fitCSVPath, "csv", "", "path to a headerless x,y CSV of Direct observations")
	robustCmd.Flags().StringVar(&fitConfigPath, "config", "", "path to a YAML observation-set file (overrides --csv)")
	robustCmd.Flags().IntVar(&fitDegree, "degree", 1, "polynomial degree")
	robustCmd.Flags().StringVar(&robustStrategy, "strategy", "ransac", "one of ransac, lmeds, prosac, promeds")
	robustCmd.Flags().Float64Var(&robustThreshold, "threshold", 1.0, "inlier residual threshold (ransac/prosac)")
	robustCmd.Flags().Float64Var(&robustStopThresh, "stop-threshold", 0, "early-exit threshold on sqrt(best median) (lmeds/promeds)")
	robustCmd.Flags().Float64Var(&robustConfidence, "confidence", 0.99, "confidence driving the adaptive iteration count")
	robustCmd.Flags().IntVar(&robustMaxIters, "max-iterations", 5000, "iteration budget")
	robustCmd.Flags().Float64Var(&robustProgressStep, "progress-delta", 0.1, "fraction-of-budget step between progress callbacks")
	robustCmd.Flags().BoolVar(&robustGeometric, "geometric", false, "use geometric (point-to-curve) residuals instead of algebraic")
	robustCmd.Flags().BoolVar(&robustNoRefine, "no-refine", false, "skip the final LMSE refit over the inlier set")
	robustCmd.Flags().StringVar(&robustQualityPath, "quality-csv", "", "path to a single-column CSV of quality scores (prosac/promeds)")
	rootCmd.AddCommand(robustCmd)
}

func runRobust(cmd *cobra.Command, args []string) error {
	obs, degree, err := loadObservations(fitConfigPath, fitCSVPath, fitDegree)
	if err != nil {
		return err
	}
	hasStopThresh = cmd.Flags().Changed("stop-threshold")

	e, err := polyfit.New(strategyType(robustStrategy), degree)
	if err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}
	robustEstimator, ok := e.(polyfit.RobustEstimator)
	if !ok {
		return fmt.Errorf("strategy %q is not a robust estimator", robustStrategy)
	}

	if err := robustEstimator.SetEvaluations(obs); err != nil {
		return fmt.Errorf("setting observations: %w", err)
	}
	if robustStrategy == "ransac" || robustStrategy == "prosac" {
		if err := robustEstimator.SetThreshold(robustThreshold); err != nil {
			return fmt.Errorf("configuring estimator: %w", err)
		}
	}
	if hasStopThresh {
		if err := robustEstimator.SetStopThreshold(robustStopThresh); err != nil {
			return fmt.Errorf("configuring estimator: %w", err)
		}
	}
	if err := robustEstimator.SetConfidence(robustConfidence); err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}
	if err := robustEstimator.SetMaxIterations(robustMaxIters); err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}
	if err := robustEstimator.SetProgressDelta(robustProgressStep); err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}
	robustEstimator.SetGeometricDistanceUsed(robustGeometric)
	robustEstimator.SetRefineResult(!robustNoRefine)

	if robustStrategy == "prosac" || robustStrategy == "promeds" {
		if robustQualityPath == "" {
			return fmt.Errorf("--quality-csv is required for strategy %q", robustStrategy)
		}
		quality, err := LoadQualityScoresCSV(robustQualityPath)
		if err != nil {
			return fmt.Errorf("loading quality scores: %w", err)
		}
		if err := robustEstimator.SetQualityScores(quality); err != nil {
			return fmt.Errorf("configuring estimator: %w", err)
		}
	}

	robustEstimator.SetRobustListener(progressListener{})

	p, err := robustEstimator.Estimate()
	if err != nil {
		return fmt.Errorf("estimate failed: %w", err)
	}
	printPolynomial("coefficients", p.Coeffs)

	mask := robustEstimator.InlierMask()
	inliers := 0
	for _, keep := range mask {
		if keep {
			inliers++
		}
	}
	fmt.Printf("inliers: %d/%d\n", inliers, len(mask))
	return nil
}

func strategyType(name string) polyfit.EstimatorType {
	switch name {
	case "lmeds":
		return polyfit.LMedSType
	case "prosac":
		return polyfit.PROSACType
	case "promeds":
		return polyfit.PROMedSType
	default:
		return polyfit.RANSACType
	}
}

// progressListener prints coarse progress to stdout; it intentionally does
// nothing on every iteration to avoid flooding the terminal on large
// iteration budgets.
type progressListener struct{}

func (progressListener) OnEstimateStart(polyfit.Estimator) {
	fmt.Println("estimating...")
}
func (progressListener) OnEstimateEnd(polyfit.Estimator) {}
func (progressListener) OnIteration(polyfit.RobustEstimator, int) {}
func (progressListener) OnProgress(e polyfit.RobustEstimator, progress float64) {
	fmt.Printf("progress: %.0f%%\n", progress*100)
}
