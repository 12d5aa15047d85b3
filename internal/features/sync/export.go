package sync

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var exportSummaryColumns = []string{"Run ID", "Started", "Finished", "Kind", "Trigger", "Dry Run", "Status", "Processed", "Succeeded", "Failed", "Skipped", "Error Kind", "Message"}
var exportItemColumns = []string{"Run ID", "Item Number", "Outcome", "Action", "Error"}

// ExportResults renders results as a workbook with a summary sheet and an items sheet.
func ExportResults(results []SyncResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary, items = "Runs", "Items"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(items); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	writeHeader(f, summary, exportSummaryColumns, headerStyle)
	writeHeader(f, items, exportItemColumns, headerStyle)

	itemRow := 2
	for i, r := range results {
		row := []interface{}{
			r.RunID,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.FinishedAt.Format("2006-01-02 15:04:05"),
			string(r.Kind),
			string(r.Trigger),
			r.DryRun,
			string(r.Status),
			r.Processed,
			r.Succeeded,
			r.Failed,
			r.Skipped,
			r.ErrorKind,
			r.Message,
		}
		if err := writeRow(f, summary, i+2, row); err != nil {
			return nil, err
		}

		for _, it := range r.Items {
			if err := writeRow(f, items, itemRow, []interface{}{r.RunID, it.ItemNumber, string(it.Outcome), string(it.Action), it.Error}); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	for _, sheet := range []string{summary, items} {
		_ = f.SetColWidth(sheet, "A", "M", 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, columns []string, style int) {
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
