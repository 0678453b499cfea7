package profiling

import (
	domainStats "bmidash/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// DistributionAnalyzer summarises a sample of BMI values
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Summarize computes location and spread of data. An empty sample yields a zero summary.
func (da *DistributionAnalyzer) Summarize(data []float64) (domainStats.BMISummary, error) {
	summary := domainStats.BMISummary{N: len(data)}
	if len(data) == 0 {
		return summary, nil
	}

	mean, stdDev := stat.MeanStdDev(data, nil)
	if len(data) == 1 {
		stdDev = 0
	}

	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	q25, q75 := median, median
	if len(data) > 1 {
		// Percentile rejects samples too small to place the 25th percentile
		if q, err := stats.Percentile(data, 25); err == nil {
			q25 = q
		}
		if q, err := stats.Percentile(data, 75); err == nil {
			q75 = q
		}
	}

	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Min = min
	summary.Max = max
	summary.Median = median
	summary.Q25 = q25
	summary.Q75 = q75
	summary.Outliers = detectOutliers(data, q25, q75)

	return summary, nil
}

// detectOutliers identifies outliers using IQR method
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}

	return outlierCount
}
