package httpserver

import (
	"io"

	"github.com/xuri/excelize/v2"

	"review_dashboard/internal/domain"
)

const exportSheet = "Reviews"

type exportColumn struct {
	title string
	width float64
	value func(r domain.Review, reg domain.Registry) any
}

var exportColumns = []exportColumn{
	{"ID", 18, func(r domain.Review, _ domain.Registry) any { return r.ID }},
	{"Platform", 12, func(r domain.Review, reg domain.Registry) any {
		if info, ok := reg.Lookup(r.Platform); ok {
			return info.Name
		}
		return string(r.Platform)
	}},
	{"Rating", 8, func(r domain.Review, _ domain.Registry) any { return r.Rating }},
	{"Date", 12, func(r domain.Review, _ domain.Registry) any { return r.Date }},
	{"Reviewer", 18, func(r domain.Review, _ domain.Registry) any { return r.Reviewer }},
	{"Location", 16, func(r domain.Review, _ domain.Registry) any { return r.Location }},
	{"Brand", 16, func(r domain.Review, _ domain.Registry) any { return r.Brand }},
	{"Comment", 60, func(r domain.Review, _ domain.Registry) any { return r.Comment }},
}

// writeReviewsXLSX renders reviews as a single-sheet workbook, one row per
// review in the given order.
func writeReviewsXLSX(w io.Writer, rs []domain.Review, reg domain.Registry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, col.title); err != nil {
			return err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheet, colName, colName, col.width); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	lastCol, err := excelize.CoordinatesToCellName(len(exportColumns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol, headerStyle); err != nil {
		return err
	}

	for n, r := range rs {
		row := make([]any, len(exportColumns))
		for i, col := range exportColumns {
			row[i] = col.value(r, reg)
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}
