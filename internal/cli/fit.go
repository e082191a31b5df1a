package cli

import (
	"fmt"

	"github.com/adgarrio/polyfit"
	"github.com/spf13/cobra"
)

var (
	fitCSVPath    string
	fitConfigPath string
	fitDegree     int
	fitLMSE       bool
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Deterministic fit (exact or LMSE) from observations",
	RunE:  runFit,
}

func init() {
	fitCmd.Flags().StringVar(&fitCSVPath, "csv", "", "path to a headerless x,y CSV of Direct observations")
	fitCmd.Flags().StringVar(&fitConfigPath, "config", "", "path to a YAML observation-set file (overrides --csv)")
	fitCmd.Flags().IntVar(&fitDegree, "degree", 1, "polynomial degree")
	fitCmd.Flags().BoolVar(&fitLMSE, "lmse", true, "allow least-mean-squared-error solutions for overdetermined systems")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	obs, degree, err := loadObservations(fitConfigPath, fitCSVPath, fitDegree)
	if err != nil {
		return err
	}

	e, err := polyfit.NewDeterministicEstimator(degree)
	if err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}
	if err := e.SetLMSESolutionAllowed(fitLMSE); err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}
	if err := e.SetEvaluations(obs); err != nil {
		return fmt.Errorf("setting observations: %w", err)
	}

	p, err := e.Estimate()
	if err != nil {
		return fmt.Errorf("estimate failed: %w", err)
	}
	printPolynomial("coefficients", p.Coeffs)
	return nil
}

var (
	weightedWeightsPath string
	weightedMaxEvals    int
)

var weightedCmd = &cobra.Command{
	Use:   "weighted",
	Short: "Weighted fit from observations and a parallel weight file",
	RunE:  runWeighted,
}

func init() {
	weightedCmd.Flags().StringVar(&fitCSVPath, "csv", "", "path to a headerless x,y CSV of Direct observations")
	weightedCmd.Flags().StringVar(&fitConfigPath, "config", "", "path to a YAML observation-set file (overrides --csv)")
	weightedCmd.Flags().IntVar(&fitDegree, "degree", 1, "polynomial degree")
	weightedCmd.Flags().StringVar(&weightedWeightsPath, "weights", "", "path to a single-column CSV of weights, parallel to the observations")
	weightedCmd.Flags().IntVar(&weightedMaxEvals, "max-evaluations", 0, "cap on the number of top-weighted observations used (0 = all)")
	rootCmd.AddCommand(weightedCmd)
}

func runWeighted(cmd *cobra.Command, args []string) error {
	obs, degree, err := loadObservations(fitConfigPath, fitCSVPath, fitDegree)
	if err != nil {
		return err
	}
	if weightedWeightsPath == "" {
		return fmt.Errorf("--weights is required")
	}
	weights, err := LoadQualityScoresCSV(weightedWeightsPath)
	if err != nil {
		return fmt.Errorf("loading weights: %w", err)
	}

	e, err := polyfit.NewWeightedEstimator(degree)
	if err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}
	if err := e.SetEvaluations(obs); err != nil {
		return fmt.Errorf("setting observations: %w", err)
	}
	if err := e.SetWeights(weights); err != nil {
		return fmt.Errorf("setting weights: %w", err)
	}
	if err := e.SetMaxEvaluations(weightedMaxEvals); err != nil {
		return fmt.Errorf("configuring estimator: %w", err)
	}

	p, err := e.Estimate()
	if err != nil {
		return fmt.Errorf("estimate failed: %w", err)
	}
	printPolynomial("coefficients", p.Coeffs)
	return nil
}

// loadObservations prefers a YAML config over a raw CSV; configPath's own
// degree field overrides fallbackDegree when present and nonzero.
func loadObservations(configPath, csvPath string, fallbackDegree int) ([]polyfit.Observation, int, error) {
	if configPath != "" {
		set, err := LoadObservationSet(configPath)
		if err != nil {
			return nil, 0, err
		}
		obs, err := set.ToObservations()
		if err != nil {
			return nil, 0, err
		}
		degree := set.Degree
		if degree == 0 {
			degree = fallbackDegree
		}
		return obs, degree, nil
	}
	if csvPath == "" {
		return nil, 0, fmt.Errorf("one of --config or --csv is required")
	}
	obs, err := LoadDirectObservationsCSV(csvPath)
	if err != nil {
		return nil, 0, err
	}
	return obs, fallbackDegree, nil
}
