package inspection

type CreateReportRequest struct {
	ReportNumber     string `json:"report_number" binding:"required,max=50"`
	Equipment        int64  `json:"equipment" binding:"required"`
	Operator         int64  `json:"operator" binding:"required"`
	Supervisor       int64  `json:"supervisor" binding:"required"`
	StartDate        string `json:"start_date" binding:"required"`
	EndDate          string `json:"end_date" binding:"required"`
	WorkingHoursFrom string `json:"working_hours_from" binding:"required"`
	WorkingHoursTo   string `json:"working_hours_to" binding:"required"`
}

type PatchReportRequest struct {
	ReportNumber     *string `json:"report_number" binding:"omitempty,max=50"`
	Equipment        *int64  `json:"equipment"`
	Operator         *int64  `json:"operator"`
	Supervisor       *int64  `json:"supervisor"`
	StartDate        *string `json:"start_date"`
	EndDate          *string `json:"end_date"`
	WorkingHoursFrom *string `json:"working_hours_from"`
	WorkingHoursTo   *string `json:"working_hours_to"`
}

func (r CreateReportRequest) patch() PatchReportRequest {
	return PatchReportRequest{
		ReportNumber:     &r.ReportNumber,
		Equipment:        &r.Equipment,
		Operator:         &r.Operator,
		Supervisor:       &r.Supervisor,
		StartDate:        &r.StartDate,
		EndDate:          &r.EndDate,
		WorkingHoursFrom: &r.WorkingHoursFrom,
		WorkingHoursTo:   &r.WorkingHoursTo,
	}
}

type CreateDailyRequest struct {
	Report         int64  `json:"report" binding:"required"`
	Item           int64  `json:"item" binding:"required"`
	InspectionDate string `json:"inspection_date" binding:"required"`
	Status         string `json:"status" binding:"required,oneof=good not_good"`
}

type PatchDailyRequest struct {
	Report         *int64  `json:"report"`
	Item           *int64  `json:"item"`
	InspectionDate *string `json:"inspection_date"`
	Status         *string `json:"status" binding:"omitempty,oneof=good not_good"`
}

func (r CreateDailyRequest) patch() PatchDailyRequest {
	return PatchDailyRequest{
		Report:         &r.Report,
		Item:           &r.Item,
		InspectionDate: &r.InspectionDate,
		Status:         &r.Status,
	}
}

type CreateNoteRequest struct {
	Report   int64  `json:"report" binding:"required"`
	NoteText string `json:"note_text" binding:"required"`
}

type PatchNoteRequest struct {
	Report   *int64  `json:"report"`
	NoteText *string `json:"note_text"`
}

func (r CreateNoteRequest) patch() PatchNoteRequest {
	return PatchNoteRequest{Report: &r.Report, NoteText: &r.NoteText}
}

// UploadAttachmentRequest is the non-file part of a multipart upload.
type UploadAttachmentRequest struct {
	Report  int64   `form:"report" binding:"required"`
	Caption *string `form:"caption" binding:"omitempty,max=200"`
}

type PatchAttachmentRequest struct {
	Report  *int64  `json:"report"`
	Caption *string `json:"caption" binding:"omitempty,max=200"`
}
