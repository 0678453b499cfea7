package stats

import "sort"

// Aggregation maps a category value to the number of matching records
type Aggregation map[string]int

// Total sums the counts
func (a Aggregation) Total() int {
	total := 0
	for _, n := range a {
		total += n
	}
	return total
}

// ExcludedRecord is a record left out of the pipeline because its BMI could not be derived
type ExcludedRecord struct {
	Row    int    `json:"row"`
	Gender string `json:"gender"`
	Reason string `json:"reason"`
}

// OverweightResult is the output of one pipeline pass
type OverweightResult struct {
	Count       int              `json:"count"`
	Aggregation Aggregation      `json:"aggregation"`
	Excluded    []ExcludedRecord `json:"excluded,omitempty"`
}

// Slice is one pie chart segment
type Slice struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Slices orders the aggregation by descending count, then category name.
// The order is for display only.
func (r OverweightResult) Slices() []Slice {
	slices := make([]Slice, 0, len(r.Aggregation))
	for category, count := range r.Aggregation {
		slices = append(slices, Slice{Category: category, Count: count})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Count != slices[j].Count {
			return slices[i].Count > slices[j].Count
		}
		return slices[i].Category < slices[j].Category
	})
	return slices
}

// BMISummary describes the distribution of valid BMI values
type BMISummary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`

	Outliers int `json:"outliers"` // outside 1.5 IQR of the quartiles
}
