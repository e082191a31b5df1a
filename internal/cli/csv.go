package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/adgarrio/polyfit"
)

// LoadDirectObservationsCSV reads a headerless two-column CSV (x,y) into
// Direct observations.
func LoadDirectObservationsCSV(path string) ([]polyfit.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}

	obs := make([]polyfit.Observation, len(records))
	for i, rec := range records {
		x, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad x value %q: %w", i, rec[0], err)
		}
		y, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad y value %q: %w", i, rec[1], err)
		}
		obs[i] = polyfit.NewDirectObservation(x, y)
	}
	return obs, nil
}

// LoadQualityScoresCSV reads a single-column CSV of quality scores, used by
// the PROSAC/PROMedS strategies.
func LoadQualityScoresCSV(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}

	scores := make([]float64, len(records))
	for i, rec := range records {
		v, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad quality score %q: %w", i, rec[0], err)
		}
		scores[i] = v
	}
	return scores, nil
}
