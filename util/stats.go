package util

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DistributionStatistics represents the distribution of a result vector.
// Comprises information about the mean, min and max as well as different
// percentiles (50, 95 and 99).
type DistributionStatistics struct {
	N                             int
	Mean, Q50, Q95, Q99, Min, Max float64
}

// CalculateDistributionStatistics calculates the DistributionStatistics for a
// set of given values. The input is left untouched.
func CalculateDistributionStatistics(values []float64) DistributionStatistics {
	if len(values) == 0 {
		return DistributionStatistics{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return DistributionStatistics{
		N:    len(sorted),
		Mean: floats.Sum(sorted) / float64(len(sorted)),
		Q50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q95:  stat.Quantile(0.95, stat.Empirical, sorted, nil),
		Q99:  stat.Quantile(0.99, stat.Empirical, sorted, nil),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
	}
}

// String returns the statistics in the aligned report form used by the
// command output.
func (ds DistributionStatistics) String() string {
	return fmt.Sprintf("%.1f, %.1f, %.1f, %.1f, %.1f, %.1f",
		ds.Mean, ds.Q50, ds.Q95, ds.Q99, ds.Min, ds.Max)
}
