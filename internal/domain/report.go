package domain

import (
	"fmt"
	"time"
)

// InspectionReport is one weekly inspection form for one equipment unit.
type InspectionReport struct {
	ID               int64     `gorm:"column:report_id;primaryKey" json:"report_id"`
	ReportNumber     string    `gorm:"column:report_number;size:50;not null;index" json:"report_number"`
	EquipmentID      int64     `gorm:"column:equipment_id;not null;index" json:"equipment"`
	OperatorID       int64     `gorm:"column:operator_id;not null;index" json:"operator"`
	SupervisorID     int64     `gorm:"column:supervisor_id;not null;index" json:"supervisor"`
	StartDate        Date      `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate          Date      `gorm:"column:end_date;type:date;not null" json:"end_date"`
	WorkingHoursFrom ClockTime `gorm:"column:working_hours_from;type:time;not null" json:"working_hours_from"`
	WorkingHoursTo   ClockTime `gorm:"column:working_hours_to;type:time;not null" json:"working_hours_to"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Equipment   *Equipment         `gorm:"foreignKey:EquipmentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Operator    *Personnel         `gorm:"foreignKey:OperatorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Supervisor  *Personnel         `gorm:"foreignKey:SupervisorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	DailyData   []DailyInspection  `gorm:"foreignKey:ReportID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Notes       []ReportNote       `gorm:"foreignKey:ReportID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Attachments []ReportAttachment `gorm:"foreignKey:ReportID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (InspectionReport) TableName() string { return "inspection_reports" }

func (r InspectionReport) String() string {
	equipment := ""
	if r.Equipment != nil {
		equipment = r.Equipment.String()
	}
	return fmt.Sprintf("Report %s - %s (%s to %s)", r.ReportNumber, equipment, r.StartDate, r.EndDate)
}

// Dates returns every calendar day from StartDate to EndDate inclusive.
// A report whose end precedes its start has no days.
func (r InspectionReport) Dates() []Date {
	var dates []Date
	for d := r.StartDate; !d.After(r.EndDate); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

type InspectionStatus string

const (
	StatusGood    InspectionStatus = "good"
	StatusNotGood InspectionStatus = "not_good"
)

func (s InspectionStatus) Valid() bool {
	return s == StatusGood || s == StatusNotGood
}

// DailyInspection is the result of one checklist item on one day of a report.
type DailyInspection struct {
	ID             int64            `gorm:"column:inspection_data_id;primaryKey" json:"inspection_data_id"`
	ReportID       int64            `gorm:"column:report_id;not null;uniqueIndex:uniq_daily_report_item_date,priority:1" json:"report"`
	ItemID         int64            `gorm:"column:item_id;not null;uniqueIndex:uniq_daily_report_item_date,priority:2" json:"item"`
	InspectionDate Date             `gorm:"column:inspection_date;type:date;not null;uniqueIndex:uniq_daily_report_item_date,priority:3" json:"inspection_date"`
	Status         InspectionStatus `gorm:"column:status;size:10;not null" json:"status"`

	Item *ChecklistItem `gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (DailyInspection) TableName() string { return "daily_inspection_data" }

// ReportNote is a free-text observation attached to a report.
type ReportNote struct {
	ID        int64     `gorm:"column:note_id;primaryKey" json:"note_id"`
	ReportID  int64     `gorm:"column:report_id;not null;index" json:"report"`
	NoteText  string    `gorm:"column:note_text;type:text;not null" json:"note_text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReportNote) TableName() string { return "report_notes" }

// Preview shortens the note for listings.
func (n ReportNote) Preview(max int) string {
	runes := []rune(n.NoteText)
	if len(runes) <= max {
		return n.NoteText
	}
	return string(runes[:max]) + "..."
}

// ReportAttachment references a stored file (usually a photo) for a report.
type ReportAttachment struct {
	ID          int64     `gorm:"column:attachment_id;primaryKey" json:"attachment_id"`
	ReportID    int64     `gorm:"column:report_id;not null;index" json:"report"`
	FilePath    string    `gorm:"column:file_path;size:255;not null" json:"file_path"`
	Caption     *string   `gorm:"column:caption;size:200" json:"caption"`
	ContentType string    `gorm:"column:content_type;size:100" json:"content_type"`
	Size        int64     `gorm:"column:size" json:"size"`
	UploadedAt  time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
}

func (ReportAttachment) TableName() string { return "report_attachments" }
