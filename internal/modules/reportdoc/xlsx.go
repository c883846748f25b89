package reportdoc

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"equipinspect/internal/domain"
)

const (
	matrixSheet = "Inspection"
	notesSheet  = "Notes"
)

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// WriteXLSX writes the matrix sheet and a notes/attachments sheet into buf.
func WriteXLSX(buf *bytes.Buffer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", matrixSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(notesSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	head, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return err
	}
	good, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#148232"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	bad, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#C81E1E"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	rep := doc.Report
	info := [][2]any{
		{"Report No.", rep.ReportNumber},
		{"Equipment", rep.Equipment.Type + " " + rep.Equipment.Model},
		{"Serial No.", rep.Equipment.SerialNumber},
		{"Operator", personLine(rep.Operator)},
		{"Supervisor", personLine(rep.Supervisor)},
		{"Period", rep.StartDate.String() + " to " + rep.EndDate.String()},
		{"Working hours", rep.WorkingHoursFrom.String() + " - " + rep.WorkingHoursTo.String()},
	}
	for i, kv := range info {
		if err := f.SetCellValue(matrixSheet, cell(1, i+1), kv[0]); err != nil {
			return err
		}
		_ = f.SetCellStyle(matrixSheet, cell(1, i+1), cell(1, i+1), bold)
		if err := f.SetCellValue(matrixSheet, cell(2, i+1), kv[1]); err != nil {
			return err
		}
	}

	headRow := len(info) + 2
	headers := []string{"#", "Checklist item"}
	for _, d := range doc.Dates {
		headers = append(headers, DateHeader(d))
	}
	for i, h := range headers {
		if err := f.SetCellValue(matrixSheet, cell(i+1, headRow), h); err != nil {
			return err
		}
	}
	_ = f.SetCellStyle(matrixSheet, cell(1, headRow), cell(len(headers), headRow), head)
	_ = f.SetRowHeight(matrixSheet, headRow, 30)

	for i, row := range doc.Matrix {
		r := headRow + 1 + i
		_ = f.SetCellValue(matrixSheet, cell(1, r), i+1)
		_ = f.SetCellValue(matrixSheet, cell(2, r), row.Description)
		for j, d := range doc.Dates {
			s := row.Status(d)
			if s == nil {
				continue
			}
			c := cell(j+3, r)
			switch *s {
			case domain.StatusGood:
				_ = f.SetCellValue(matrixSheet, c, "✓")
				_ = f.SetCellStyle(matrixSheet, c, c, good)
			case domain.StatusNotGood:
				_ = f.SetCellValue(matrixSheet, c, "✗")
				_ = f.SetCellStyle(matrixSheet, c, c, bad)
			}
		}
	}

	_ = f.SetColWidth(matrixSheet, "A", "A", 14)
	_ = f.SetColWidth(matrixSheet, "B", "B", 50)
	if len(doc.Dates) > 0 {
		first, _ := excelize.ColumnNumberToName(3)
		last, _ := excelize.ColumnNumberToName(len(doc.Dates) + 2)
		_ = f.SetColWidth(matrixSheet, first, last, 12)
	}

	if err := writeNotes(f, doc, bold); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	return f.Write(buf)
}

func writeNotes(f *excelize.File, doc *Document, bold int) error {
	row := 1
	put := func(col int, v any) error {
		return f.SetCellValue(notesSheet, cell(col, row), v)
	}

	if err := put(1, "Notes"); err != nil {
		return err
	}
	_ = f.SetCellStyle(notesSheet, cell(1, row), cell(1, row), bold)
	row++
	for _, n := range doc.Notes {
		_ = put(1, n.CreatedAt.Format("2006-01-02 15:04"))
		_ = put(2, n.NoteText)
		row++
	}

	row++
	_ = put(1, "Attachments")
	_ = f.SetCellStyle(notesSheet, cell(1, row), cell(1, row), bold)
	row++
	for _, a := range doc.Attachments {
		_ = put(1, a.UploadedAt.Format("2006-01-02 15:04"))
		_ = put(2, a.FilePath)
		if a.Caption != nil {
			_ = put(3, *a.Caption)
		}
		row++
	}

	row++
	_ = put(1, "Summary")
	_ = f.SetCellStyle(notesSheet, cell(1, row), cell(1, row), bold)
	row++
	_ = put(1, fmt.Sprintf("%d checklist items, %d days, %d notes, %d attachments",
		doc.Summary.TotalChecklistItems, doc.Summary.TotalInspectionDays,
		doc.Summary.TotalNotes, doc.Summary.TotalAttachments))

	_ = f.SetColWidth(notesSheet, "A", "A", 18)
	_ = f.SetColWidth(notesSheet, "B", "B", 60)
	_ = f.SetColWidth(notesSheet, "C", "C", 30)
	return nil
}
