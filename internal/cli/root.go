package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set from main.
	Version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "polyfit",
	Short: "Estimate polynomial coefficients from tagged observations",
	Long: `polyfit fits a polynomial's coefficients from direct, derivative, and
integral observations, either deterministically or with outlier-robust
strategies (RANSAC, LMedS, PROSAC, PROMedS).`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

func printPolynomial(prefix string, coeffs []float64) {
	fmt.Printf("%s: [", prefix)
	for i, c := range coeffs {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%g", c)
	}
	fmt.Println("]")
}
