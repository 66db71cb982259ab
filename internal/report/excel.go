package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"LedgerCast/internal/model"
)

// WriteExcel saves the result set as a two-sheet workbook: Actuals holds
// the aggregated monthly history, Forecast the projected horizon with its
// confidence bounds.
func WriteExcel(set *model.ForecastSet, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2D3436"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
		NumFmt:    4, // #,##0.00
	})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	rows := Flatten(set)

	const actualsSheet = "Actuals"
	f.SetSheetName("Sheet1", actualsSheet)
	writeHeader(f, actualsSheet, headerStyle, []string{"Category", "Month", "Amount", "Status"})
	r := 2
	for _, row := range rows {
		if row.IsForecast {
			continue
		}
		f.SetCellValue(actualsSheet, fmt.Sprintf("A%d", r), row.Category)
		f.SetCellValue(actualsSheet, fmt.Sprintf("B%d", r), row.Month.String())
		f.SetCellValue(actualsSheet, fmt.Sprintf("C%d", r), row.Value)
		f.SetCellValue(actualsSheet, fmt.Sprintf("D%d", r), string(row.Status))
		f.SetCellStyle(actualsSheet, fmt.Sprintf("C%d", r), fmt.Sprintf("C%d", r), numberStyle)
		r++
	}
	f.SetColWidth(actualsSheet, "A", "A", 24)
	f.SetColWidth(actualsSheet, "B", "D", 14)

	const forecastSheet = "Forecast"
	if _, err := f.NewSheet(forecastSheet); err != nil {
		return fmt.Errorf("create forecast sheet: %w", err)
	}
	writeHeader(f, forecastSheet, headerStyle, []string{"Category", "Month", "Estimate", "Lower", "Upper", "Model"})
	r = 2
	for _, row := range rows {
		if !row.IsForecast {
			continue
		}
		f.SetCellValue(forecastSheet, fmt.Sprintf("A%d", r), row.Category)
		f.SetCellValue(forecastSheet, fmt.Sprintf("B%d", r), row.Month.String())
		f.SetCellValue(forecastSheet, fmt.Sprintf("C%d", r), row.Value)
		f.SetCellValue(forecastSheet, fmt.Sprintf("D%d", r), row.Lower)
		f.SetCellValue(forecastSheet, fmt.Sprintf("E%d", r), row.Upper)
		f.SetCellValue(forecastSheet, fmt.Sprintf("F%d", r), row.Model)
		f.SetCellStyle(forecastSheet, fmt.Sprintf("C%d", r), fmt.Sprintf("E%d", r), numberStyle)
		r++
	}
	f.SetColWidth(forecastSheet, "A", "A", 24)
	f.SetColWidth(forecastSheet, "B", "F", 14)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, style int, headers []string) {
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, h)
	}
	last := fmt.Sprintf("%c1", 'A'+len(headers)-1)
	f.SetCellStyle(sheet, "A1", last, style)
	f.SetRowHeight(sheet, 1, 22)
}
