package phonelist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const phoneColumn = "Phone"

// Load reads the phone numbers from a tabular file. CSV and XLSX are
// supported; the file must carry a "Phone" column. Blank cells are
// skipped.
func Load(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open phone list: %w", err)
		}
		defer f.Close()
		return FromCSV(f)
	case ".xlsx":
		return FromXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported phone list format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// FromCSV extracts the Phone column from CSV data.
func FromCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return extract(rows)
}

// FromXLSX extracts the Phone column from the first sheet of a workbook.
func FromXLSX(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return extract(rows)
}

func extract(rows [][]string) ([]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("phone list is empty")
	}

	col := -1
	for i, header := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(header), phoneColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("phone list has no %q column", phoneColumn)
	}

	var numbers []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		number := strings.TrimSpace(row[col])
		if number == "" {
			continue
		}
		numbers = append(numbers, number)
	}
	return numbers, nil
}
