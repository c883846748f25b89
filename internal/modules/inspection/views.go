package inspection

import (
	"time"

	"equipinspect/internal/domain"
)

// ReportSummary is the list representation of a report.
type ReportSummary struct {
	ID               int64            `json:"report_id"`
	ReportNumber     string           `json:"report_number"`
	Equipment        int64            `json:"equipment"`
	EquipmentInfo    string           `json:"equipment_info"`
	Operator         int64            `json:"operator"`
	OperatorName     string           `json:"operator_name"`
	Supervisor       int64            `json:"supervisor"`
	SupervisorName   string           `json:"supervisor_name"`
	StartDate        domain.Date      `json:"start_date"`
	EndDate          domain.Date      `json:"end_date"`
	WorkingHoursFrom domain.ClockTime `json:"working_hours_from"`
	WorkingHoursTo   domain.ClockTime `json:"working_hours_to"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ReportDetail is the full representation with nested children.
type ReportDetail struct {
	domain.InspectionReport
	EquipmentInfo  string              `json:"equipment_info"`
	OperatorName   string              `json:"operator_name"`
	SupervisorName string              `json:"supervisor_name"`
	DailyData      []DailyView         `json:"daily_inspection_data"`
	Notes          []domain.ReportNote `json:"report_notes"`
	Attachments    []AttachmentView    `json:"report_attachments"`
}

// DailyView adds the item text to a daily result.
type DailyView struct {
	domain.DailyInspection
	ItemDescription string `json:"item_description"`
}

// AttachmentView adds the public file URL.
type AttachmentView struct {
	domain.ReportAttachment
	FileURL string `json:"file_url"`
}

func parties(r domain.InspectionReport) (equipment, operator, supervisor string) {
	if r.Equipment != nil {
		equipment = r.Equipment.String()
	}
	if r.Operator != nil {
		operator = r.Operator.FullName
	}
	if r.Supervisor != nil {
		supervisor = r.Supervisor.FullName
	}
	return equipment, operator, supervisor
}

func NewReportSummary(r domain.InspectionReport) ReportSummary {
	equipment, operator, supervisor := parties(r)
	return ReportSummary{
		ID:               r.ID,
		ReportNumber:     r.ReportNumber,
		Equipment:        r.EquipmentID,
		EquipmentInfo:    equipment,
		Operator:         r.OperatorID,
		OperatorName:     operator,
		Supervisor:       r.SupervisorID,
		SupervisorName:   supervisor,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		WorkingHoursFrom: r.WorkingHoursFrom,
		WorkingHoursTo:   r.WorkingHoursTo,
		CreatedAt:        r.CreatedAt,
	}
}

func NewReportDetail(r domain.InspectionReport, fileURL func(string) string) ReportDetail {
	equipment, operator, supervisor := parties(r)
	d := ReportDetail{
		InspectionReport: r,
		EquipmentInfo:    equipment,
		OperatorName:     operator,
		SupervisorName:   supervisor,
		DailyData:        make([]DailyView, 0, len(r.DailyData)),
		Notes:            r.Notes,
		Attachments:      make([]AttachmentView, 0, len(r.Attachments)),
	}
	if d.Notes == nil {
		d.Notes = []domain.ReportNote{}
	}
	for _, row := range r.DailyData {
		d.DailyData = append(d.DailyData, NewDailyView(row))
	}
	for _, a := range r.Attachments {
		d.Attachments = append(d.Attachments, NewAttachmentView(a, fileURL))
	}
	return d
}

func NewDailyView(row domain.DailyInspection) DailyView {
	v := DailyView{DailyInspection: row}
	if row.Item != nil {
		v.ItemDescription = row.Item.Description
	}
	return v
}

func NewAttachmentView(a domain.ReportAttachment, fileURL func(string) string) AttachmentView {
	v := AttachmentView{ReportAttachment: a}
	if fileURL != nil && a.FilePath != "" {
		v.FileURL = fileURL(a.FilePath)
	}
	return v
}
