package reportdoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"equipinspect/internal/domain"
)

const (
	margin   = 12.7 // 0.5in
	lineH    = 4.5
	dayWidth = 14.0
	numWidth = 8.0
	// daysPerTable caps the date columns of one matrix table; longer reports
	// continue in further tables below.
	daysPerTable = 7
)

// Options configure PDF drawing.
type Options struct {
	Title string
	// FontPath is a UTF-8 TrueType font. Without it the core Helvetica font
	// is used and characters outside cp1252 are replaced.
	FontPath string
}

type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	if opts.Title == "" {
		opts.Title = "Equipment Inspection Report"
	}
	return &Renderer{opts: opts}
}

type page struct {
	*fpdf.Fpdf
	family string
	tr     func(string) string
}

func (p *page) font(style string, size float64) {
	p.SetFont(p.family, style, size)
}

// PDF draws doc as an A4 portrait document into buf.
func (r *Renderer) PDF(buf *bytes.Buffer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(r.opts.Title, true)
	pdf.SetCreator("equipinspect", true)
	pdf.AliasNbPages("")

	p := &page{Fpdf: pdf, family: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if r.opts.FontPath != "" {
		pdf.AddUTF8Font("body", "", r.opts.FontPath)
		pdf.AddUTF8Font("body", "B", r.opts.FontPath)
		p.family = "body"
		p.tr = func(s string) string { return s }
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		p.font("", 7)
		pdf.SetTextColor(110, 110, 110)
		footer := fmt.Sprintf("Generated %s", doc.GeneratedAt.Format("2006-01-02 15:04"))
		pdf.CellFormat(pageWidth(p)/2, 4, footer, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 4, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	r.header(p, doc)
	r.matrix(p, doc)
	r.notes(p, doc)
	r.attachments(p, doc)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(buf)
}

func (r *Renderer) header(p *page, doc *Document) {
	p.font("B", 14)
	p.CellFormat(0, 8, p.tr(r.opts.Title), "", 1, "C", false, 0, "")
	p.Ln(2)

	rep := doc.Report
	fields := [][2]string{
		{"Report No.", rep.ReportNumber},
		{"Equipment", strings.TrimSpace(rep.Equipment.Type + " " + rep.Equipment.Model)},
		{"Serial No.", rep.Equipment.SerialNumber},
		{"Operator", personLine(rep.Operator)},
		{"Supervisor", personLine(rep.Supervisor)},
		{"Period", rep.StartDate.String() + " to " + rep.EndDate.String()},
		{"Working hours", rep.WorkingHoursFrom.Format("15:04") + " - " + rep.WorkingHoursTo.Format("15:04")},
	}

	half := pageWidth(p) / 2
	for i, f := range fields {
		p.font("B", 9)
		p.CellFormat(26, 5.5, p.tr(f[0]+":"), "", 0, "L", false, 0, "")
		p.font("", 9)
		ln := 0
		if i%2 == 1 || i == len(fields)-1 {
			ln = 1
		}
		p.CellFormat(half-26, 5.5, p.tr(f[1]), "", ln, "L", false, 0, "")
	}
	p.Ln(3)
}

func personLine(p PersonInfo) string {
	if p.EmployeeNumber == "" {
		return p.Name
	}
	return p.Name + " (" + p.EmployeeNumber + ")"
}

func pageWidth(p *page) float64 {
	w, _ := p.GetPageSize()
	return w - 2*margin
}

func (r *Renderer) matrixHeader(p *page, dates []domain.Date, w float64) {
	p.font("B", 8)
	p.SetFillColor(225, 230, 240)
	h := 2 * lineH
	p.CellFormat(numWidth, h, "#", "1", 0, "C", true, 0, "")
	p.CellFormat(w, h, p.tr("Checklist item"), "1", 0, "L", true, 0, "")
	for _, d := range dates {
		x, y := p.GetXY()
		p.Rect(x, y, dayWidth, h, "FD")
		parts := strings.SplitN(DateHeader(d), "\n", 2)
		p.SetXY(x, y)
		p.CellFormat(dayWidth, lineH, parts[0][:min(3, len(parts[0]))], "", 2, "C", false, 0, "")
		p.CellFormat(dayWidth, lineH, parts[1], "", 0, "C", false, 0, "")
		p.SetXY(x+dayWidth, y)
	}
	p.Ln(h)
}

// dateChunks splits dates into consecutive groups of at most n.
func dateChunks(dates []domain.Date, n int) [][]domain.Date {
	if len(dates) == 0 {
		return [][]domain.Date{nil}
	}
	var out [][]domain.Date
	for len(dates) > n {
		out = append(out, dates[:n])
		dates = dates[n:]
	}
	return append(out, dates)
}

// descWidth is what remains of width for the item column beside days date columns.
func descWidth(width float64, days int) float64 {
	return width - numWidth - dayWidth*float64(days)
}

func (r *Renderer) matrix(p *page, doc *Document) {
	chunks := dateChunks(doc.Dates, daysPerTable)
	for i, dates := range chunks {
		if len(chunks) > 1 {
			p.font("B", 9)
			label := fmt.Sprintf("Days %s to %s", dates[0].Format("02/01"), dates[len(dates)-1].Format("02/01"))
			p.CellFormat(0, 6, label, "", 1, "L", false, 0, "")
		}
		r.table(p, doc, dates)
		if i < len(chunks)-1 {
			p.Ln(4)
		}
	}

	p.Ln(2)
	p.font("", 8)
	x, y := p.GetXY()
	good, bad := domain.StatusGood, domain.StatusNotGood
	mark(p, x+2, y+2, &good)
	p.SetXY(x+5, y)
	p.CellFormat(18, 4, "Good", "", 0, "L", false, 0, "")
	mark(p, x+25, y+2, &bad)
	p.SetXY(x+28, y)
	p.CellFormat(25, 4, "Not good", "", 1, "L", false, 0, "")
	p.Ln(3)
}

func (r *Renderer) table(p *page, doc *Document, dates []domain.Date) {
	w := descWidth(pageWidth(p), len(dates))
	r.matrixHeader(p, dates, w)

	_, pageH := p.GetPageSize()
	p.font("", 8)
	for i, row := range doc.Matrix {
		lines := p.SplitText(p.tr(row.Description), w-2)
		h := lineH * float64(max(1, len(lines)))
		if p.GetY()+h > pageH-margin-lineH {
			p.AddPage()
			r.matrixHeader(p, dates, w)
			p.font("", 8)
		}

		x, y := p.GetXY()
		p.CellFormat(numWidth, h, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		p.Rect(x+numWidth, y, w, h, "D")
		for j, line := range lines {
			p.SetXY(x+numWidth, y+float64(j)*lineH)
			p.CellFormat(w, lineH, line, "", 0, "L", false, 0, "")
		}
		cx := x + numWidth + w
		for _, d := range dates {
			p.Rect(cx, y, dayWidth, h, "D")
			mark(p, cx+dayWidth/2, y+h/2, row.Status(d))
			cx += dayWidth
		}
		p.SetXY(x, y+h)
	}
}

// mark draws a check (good) or a cross (not good) centred on (cx, cy).
func mark(p *page, cx, cy float64, s *domain.InspectionStatus) {
	if s == nil {
		return
	}
	p.SetLineWidth(0.5)
	switch *s {
	case domain.StatusGood:
		p.SetDrawColor(20, 130, 50)
		p.Line(cx-1.8, cy, cx-0.5, cy+1.4)
		p.Line(cx-0.5, cy+1.4, cx+1.9, cy-1.6)
	case domain.StatusNotGood:
		p.SetDrawColor(200, 30, 30)
		p.Line(cx-1.5, cy-1.5, cx+1.5, cy+1.5)
		p.Line(cx-1.5, cy+1.5, cx+1.5, cy-1.5)
	}
	p.SetDrawColor(0, 0, 0)
	p.SetLineWidth(0.2)
}

func (r *Renderer) notes(p *page, doc *Document) {
	p.font("B", 10)
	p.CellFormat(0, 6, "Notes", "B", 1, "L", false, 0, "")
	p.Ln(1)
	p.font("", 8)
	if len(doc.Notes) == 0 {
		p.CellFormat(0, lineH, "No notes.", "", 1, "L", false, 0, "")
	}
	for _, n := range doc.Notes {
		p.font("B", 8)
		p.CellFormat(0, lineH, n.CreatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
		p.font("", 8)
		p.MultiCell(0, lineH, p.tr(n.NoteText), "", "L", false)
		p.Ln(1)
	}
	p.Ln(2)
}

func (r *Renderer) attachments(p *page, doc *Document) {
	p.font("B", 10)
	p.CellFormat(0, 6, "Attachments", "B", 1, "L", false, 0, "")
	p.Ln(1)
	p.font("", 8)
	if len(doc.Attachments) == 0 {
		p.CellFormat(0, lineH, "No attachments.", "", 1, "L", false, 0, "")
	}
	for _, a := range doc.Attachments {
		line := a.FilePath
		if a.Caption != nil && *a.Caption != "" {
			line = *a.Caption + " (" + a.FilePath + ")"
		}
		p.MultiCell(0, lineH, p.tr(a.UploadedAt.Format("2006-01-02")+"  "+line), "", "L", false)
	}
}
