// Package export renders stored project plans for download, either as a
// plain text file or as a spreadsheet of the full history.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sandhyasneha/it-project-planner/internal/model"
)

const historySheet = "Plans"

var historyHeader = []string{"#", "Created", "Plan"}

// TextFilename returns the suggested download name for a single plan.
func TextFilename(createdAt time.Time) string {
	return fmt.Sprintf("project_plan_%s.txt", createdAt.Format("2006-01-02_150405"))
}

// WorkbookFilename returns the suggested download name for a history export.
func WorkbookFilename(now time.Time) string {
	return fmt.Sprintf("plan_history_%s.xlsx", now.Format("2006-01-02"))
}

// HistoryWorkbook builds an xlsx workbook with one row per stored plan,
// most recent first.
func HistoryWorkbook(artifacts []model.Artifact) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), historySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, title := range historyHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(historySheet, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	// Rows mirror the history view: newest plan at the top.
	for i := len(artifacts) - 1; i >= 0; i-- {
		a := artifacts[i]
		row := len(artifacts) - i + 1
		values := []any{a.ID, a.CreatedAt.Format(time.RFC3339), a.Text}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(historySheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}

	if err := f.SetColWidth(historySheet, "C", "C", 90); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
