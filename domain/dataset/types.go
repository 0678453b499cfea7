package dataset

import "bmidash/domain/core"

// Column names of the source dataset
const (
	ColumnGender = "Gender"
	ColumnHeight = "Height"
	ColumnWeight = "Weight"
	ColumnIndex  = "Index"
)

// RequiredColumns must all be present in the header row
var RequiredColumns = []string{ColumnGender, ColumnHeight, ColumnWeight}

// Record is one person from the dataset. Height is in centimeters, Weight in kilograms.
// A missing or unparseable measurement is stored as NaN.
type Record struct {
	Row    int     `json:"row"` // 1-based data row, header excluded
	Gender string  `json:"gender"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	Index  int     `json:"index"`
}

// Table is the in-memory form of the dataset file
type Table struct {
	Headers []string `json:"headers"`
	Records []Record `json:"records"`
}

// Len returns the number of records
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Snapshot describes the copy of the dataset on local disk
type Snapshot struct {
	Path        string         `json:"path"`
	Bytes       int64          `json:"bytes"`
	Fingerprint core.Hash      `json:"fingerprint"`
	AcquiredAt  core.Timestamp `json:"acquired_at"`
}
