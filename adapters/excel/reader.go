package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bmidash/domain/core"
	"bmidash/domain/dataset"
	apperrors "bmidash/internal/errors"
	"bmidash/ports"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// DataReader loads the dataset file from storage. Files ending in .xlsx are read as
// spreadsheets, anything else as comma-separated text with a header row.
type DataReader struct {
	storage  ports.FileStorage
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(storage ports.FileStorage, filePath string) *DataReader {
	fileType := "csv"
	if strings.ToLower(filepath.Ext(filePath)) == ".xlsx" {
		fileType = "xlsx"
	}
	return &DataReader{storage: storage, filePath: filePath, fileType: fileType}
}

// Load reads and parses the file. Structural problems come back as PARSE_ERROR.
func (r *DataReader) Load(ctx context.Context) (*dataset.Table, error) {
	startTime := time.Now()

	rc, err := r.storage.Open(ctx, r.filePath)
	if err != nil {
		return nil, apperrors.ParseFailed(fmt.Sprintf("cannot open dataset file %s", r.filePath), err)
	}
	defer rc.Close()

	var rows [][]string
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows(rc)
	default:
		rows, err = r.readCSVRows(rc)
	}
	if err != nil {
		return nil, apperrors.ParseFailed(fmt.Sprintf("cannot read %s file %s", strings.ToUpper(r.fileType), r.filePath), err)
	}

	table, err := r.processRows(rows)
	if err != nil {
		return nil, apperrors.ParseFailed(fmt.Sprintf("invalid dataset in %s", r.filePath), err)
	}

	log.Printf("[DataReader] %s file loaded in %.2fms (%d columns, %d rows)",
		strings.ToUpper(r.fileType), float64(time.Since(startTime).Nanoseconds())/1e6, len(table.Headers), len(table.Records))
	return table, nil
}

// readExcelRows reads Sheet1, or the first sheet when there is no Sheet1
func (r *DataReader) readExcelRows(rc io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := defaultSheet
	if idx, _ := f.GetSheetIndex(defaultSheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.ErrEmptyTable
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	return rows, nil
}

// readCSVRows reads every record and rejects rows whose width differs from the header
func (r *DataReader) readCSVRows(rc io.Reader) ([][]string, error) {
	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedTable, err)
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyTable
	}

	width := len(rows[0])
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) != width {
			return nil, core.NewRaggedRowError(i, len(rows[i]), width)
		}
	}
	return rows, nil
}

// processRows converts raw string rows into a table after checking the header
func (r *DataReader) processRows(rows [][]string) (*dataset.Table, error) {
	if len(rows) == 0 {
		return nil, core.ErrEmptyTable
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	position := make(map[string]int, len(headerRow))
	for i, header := range headerRow {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		headers[i] = header
		if _, seen := position[header]; !seen {
			position[header] = i
		}
	}

	var missing []string
	for _, col := range dataset.RequiredColumns {
		if _, ok := position[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewMissingColumnsError(missing)
	}

	cell := func(row []string, col string) string {
		i, ok := position[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]dataset.Record, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		index, _ := strconv.Atoi(cell(row, dataset.ColumnIndex))
		records = append(records, dataset.Record{
			Row:    i,
			Gender: cell(row, dataset.ColumnGender),
			Height: parseMeasurement(cell(row, dataset.ColumnHeight)),
			Weight: parseMeasurement(cell(row, dataset.ColumnWeight)),
			Index:  index,
		})
	}

	return &dataset.Table{Headers: headers, Records: records}, nil
}

// parseMeasurement returns NaN for empty or non-numeric cells
func parseMeasurement(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
