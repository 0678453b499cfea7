package analysis

import (
	"math"

	"bmidash/domain/core"
	"bmidash/domain/dataset"
	"bmidash/domain/stats"
	apperrors "bmidash/internal/errors"
)

// OverweightThreshold is the BMI above which a person counts as overweight.
// The comparison is strict: a BMI of exactly 25 is not overweight.
const OverweightThreshold = 25.0

// BMI returns weight / (height/100)^2 for height in centimeters and weight in kilograms.
// Zero, negative or missing inputs, and non-finite results, are errors.
func BMI(height, weight float64) (float64, error) {
	if math.IsNaN(height) || math.IsInf(height, 0) || height <= 0 {
		return 0, core.ErrInvalidHeight
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return 0, core.ErrInvalidWeight
	}
	meters := height / 100
	bmi := weight / (meters * meters)
	if math.IsNaN(bmi) || math.IsInf(bmi, 0) {
		return 0, core.ErrNonFiniteMetric
	}
	return bmi, nil
}

// IsOverweight applies the strict threshold
func IsOverweight(bmi float64) bool {
	return bmi > OverweightThreshold
}

// ComputeOverweightAggregation derives BMI for every record, keeps those above the
// threshold and counts them by Gender. Records without a valid BMI are left out and
// listed in Excluded. The function has no side effects; Count always equals the sum
// of the aggregation.
func ComputeOverweightAggregation(table *dataset.Table) stats.OverweightResult {
	result := stats.OverweightResult{Aggregation: stats.Aggregation{}}
	if table == nil {
		return result
	}

	for _, rec := range table.Records {
		bmi, err := BMI(rec.Height, rec.Weight)
		if err != nil {
			result.Excluded = append(result.Excluded, stats.ExcludedRecord{
				Row:    rec.Row,
				Gender: rec.Gender,
				Reason: apperrors.InvalidMetric(rec.Row, err).Error(),
			})
			continue
		}
		if !IsOverweight(bmi) {
			continue
		}
		result.Aggregation[rec.Gender]++
		result.Count++
	}

	return result
}

// ValidBMIs returns the BMI of every record that has one, in table order
func ValidBMIs(table *dataset.Table) []float64 {
	if table == nil {
		return nil
	}
	values := make([]float64, 0, len(table.Records))
	for _, rec := range table.Records {
		if bmi, err := BMI(rec.Height, rec.Weight); err == nil {
			values = append(values, bmi)
		}
	}
	return values
}
