package reportdoc

import (
	"time"

	"equipinspect/internal/domain"
)

// Document is everything a rendered report shows.
type Document struct {
	Report      ReportInfo        `json:"report"`
	Dates       []domain.Date     `json:"dates"`
	Matrix      []MatrixRow       `json:"inspection_matrix"`
	Notes       []NoteEntry       `json:"notes"`
	Attachments []AttachmentEntry `json:"attachments"`
	Summary     Summary           `json:"summary"`
	GeneratedAt time.Time         `json:"-"`
}

type ReportInfo struct {
	ID               int64            `json:"report_id"`
	ReportNumber     string           `json:"report_number"`
	Equipment        EquipmentInfo    `json:"equipment"`
	Operator         PersonInfo       `json:"operator"`
	Supervisor       PersonInfo       `json:"supervisor"`
	StartDate        domain.Date      `json:"start_date"`
	EndDate          domain.Date      `json:"end_date"`
	WorkingHoursFrom domain.ClockTime `json:"working_hours_from"`
	WorkingHoursTo   domain.ClockTime `json:"working_hours_to"`
	CreatedAt        time.Time        `json:"created_at"`
}

type EquipmentInfo struct {
	ID           int64  `json:"id"`
	SerialNumber string `json:"serial_number"`
	Type         string `json:"type"`
	Model        string `json:"model"`
}

type PersonInfo struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	EmployeeNumber string `json:"employee_number"`
}

// MatrixRow holds one checklist item's status per report date. Dates
// without an entry map to null.
type MatrixRow struct {
	ItemID      int64                               `json:"item_id"`
	Description string                              `json:"description"`
	SortOrder   int                                 `json:"sort_order"`
	DailyStatus map[string]*domain.InspectionStatus `json:"daily_status"`
}

// Status returns the entry for d, or nil.
func (r MatrixRow) Status(d domain.Date) *domain.InspectionStatus {
	return r.DailyStatus[d.String()]
}

type NoteEntry struct {
	NoteText  string    `json:"note_text"`
	CreatedAt time.Time `json:"created_at"`
}

type AttachmentEntry struct {
	FilePath   string    `json:"file_path"`
	Caption    *string   `json:"caption"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Summary struct {
	TotalChecklistItems int `json:"total_checklist_items"`
	TotalInspectionDays int `json:"total_inspection_days"`
	TotalNotes          int `json:"total_notes"`
	TotalAttachments    int `json:"total_attachments"`
}

// DateHeader formats a matrix column heading, e.g. "Monday\n01/01".
func DateHeader(d domain.Date) string {
	return d.Format("Monday") + "\n" + d.Format("02/01")
}

// Filename is the download name for the given extension.
func (d *Document) Filename(ext string) string {
	return "inspection_report_" + d.Report.ReportNumber + "_" + d.Report.StartDate.String() + "." + ext
}

func newPerson(p *domain.Personnel) PersonInfo {
	if p == nil {
		return PersonInfo{}
	}
	return PersonInfo{ID: p.ID, Name: p.FullName, EmployeeNumber: p.EmployeeNumber}
}

// Build assembles the document for r. items must be in sort order.
func Build(r *domain.InspectionReport, items []domain.ChecklistItem, now time.Time) *Document {
	dates := r.Dates()
	inRange := make(map[string]bool, len(dates))
	for _, d := range dates {
		inRange[d.String()] = true
	}

	statuses := make(map[int64]map[string]domain.InspectionStatus)
	for _, e := range r.DailyData {
		day := e.InspectionDate.String()
		if !inRange[day] {
			continue
		}
		if statuses[e.ItemID] == nil {
			statuses[e.ItemID] = map[string]domain.InspectionStatus{}
		}
		statuses[e.ItemID][day] = e.Status
	}

	doc := &Document{
		Report: ReportInfo{
			ID:               r.ID,
			ReportNumber:     r.ReportNumber,
			Operator:         newPerson(r.Operator),
			Supervisor:       newPerson(r.Supervisor),
			StartDate:        r.StartDate,
			EndDate:          r.EndDate,
			WorkingHoursFrom: r.WorkingHoursFrom,
			WorkingHoursTo:   r.WorkingHoursTo,
			CreatedAt:        r.CreatedAt,
		},
		Dates:       dates,
		Matrix:      make([]MatrixRow, 0, len(items)),
		Notes:       make([]NoteEntry, 0, len(r.Notes)),
		Attachments: make([]AttachmentEntry, 0, len(r.Attachments)),
		GeneratedAt: now,
	}
	if doc.Dates == nil {
		doc.Dates = []domain.Date{}
	}
	if e := r.Equipment; e != nil {
		doc.Report.Equipment = EquipmentInfo{ID: e.ID, SerialNumber: e.SerialNumber, Type: e.EquipmentType, Model: e.Model}
	}

	for _, item := range items {
		row := MatrixRow{
			ItemID:      item.ID,
			Description: item.Description,
			SortOrder:   item.SortOrder,
			DailyStatus: make(map[string]*domain.InspectionStatus, len(dates)),
		}
		for _, d := range dates {
			if s, ok := statuses[item.ID][d.String()]; ok {
				row.DailyStatus[d.String()] = &s
			} else {
				row.DailyStatus[d.String()] = nil
			}
		}
		doc.Matrix = append(doc.Matrix, row)
	}

	for _, n := range r.Notes {
		doc.Notes = append(doc.Notes, NoteEntry{NoteText: n.NoteText, CreatedAt: n.CreatedAt})
	}
	for _, a := range r.Attachments {
		doc.Attachments = append(doc.Attachments, AttachmentEntry{FilePath: a.FilePath, Caption: a.Caption, UploadedAt: a.UploadedAt})
	}

	doc.Summary = Summary{
		TotalChecklistItems: len(items),
		TotalInspectionDays: len(dates),
		TotalNotes:          len(doc.Notes),
		TotalAttachments:    len(doc.Attachments),
	}
	return doc
}
