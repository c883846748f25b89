package inspection

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/request"
	"equipinspect/internal/pkg/response"
)

// Handler serves reports and the records that hang off them: daily data,
// notes and attachments.
type Handler struct {
	reports     *ReportService
	daily       *DailyService
	notes       *NoteService
	attachments *AttachmentService
}

func NewHandler(reports *ReportService, daily *DailyService, notes *NoteService, attachments *AttachmentService) *Handler {
	return &Handler{reports: reports, daily: daily, notes: notes, attachments: attachments}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/inspection-reports")
	reports.GET("/", h.ListReports)
	reports.POST("/", h.CreateReport)
	reports.GET("/current_week/", h.CurrentWeek)
	reports.GET("/:id/", h.GetReport)
	reports.PUT("/:id/", h.UpdateReport)
	reports.PATCH("/:id/", h.PatchReport)
	reports.DELETE("/:id/", h.DeleteReport)
	reports.GET("/:id/daily_data/", h.ReportDailyData)

	daily := rg.Group("/daily-inspection-data")
	daily.GET("/", h.ListDaily)
	daily.POST("/", h.CreateDaily)
	daily.POST("/bulk_create/", h.BulkCreateDaily)
	daily.GET("/by_date_range/", h.DailyByDateRange)
	daily.GET("/:id/", h.GetDaily)
	daily.PUT("/:id/", h.UpdateDaily)
	daily.PATCH("/:id/", h.PatchDaily)
	daily.DELETE("/:id/", h.DeleteDaily)

	notes := rg.Group("/report-notes")
	notes.GET("/", h.ListNotes)
	notes.POST("/", h.CreateNote)
	notes.GET("/:id/", h.GetNote)
	notes.PUT("/:id/", h.UpdateNote)
	notes.PATCH("/:id/", h.PatchNote)
	notes.DELETE("/:id/", h.DeleteNote)

	attachments := rg.Group("/report-attachments")
	attachments.GET("/", h.ListAttachments)
	attachments.POST("/", h.CreateAttachment)
	attachments.GET("/:id/", h.GetAttachment)
	attachments.GET("/:id/download/", h.DownloadAttachment)
	attachments.PUT("/:id/", h.ReplaceAttachment)
	attachments.PATCH("/:id/", h.PatchAttachment)
	attachments.DELETE("/:id/", h.DeleteAttachment)
}

func (h *Handler) detail(r *domain.InspectionReport) ReportDetail {
	return NewReportDetail(*r, h.attachments.FileURL)
}

func (h *Handler) ListReports(c *gin.Context) {
	page, err := h.reports.List(c.Request.Context(), request.ListQuery(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	request.Page(c, "inspection_reports", page, NewReportSummary)
}

func (h *Handler) GetReport(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	r, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"inspection_report": h.detail(r)})
}

func (h *Handler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if !request.BindJSON(c, &req) {
		return
	}
	r, err := h.reports.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"inspection_report": h.detail(r)})
}

func (h *Handler) UpdateReport(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req CreateReportRequest
	if !request.BindJSON(c, &req) {
		return
	}
	r, err := h.reports.Update(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"inspection_report": h.detail(r)})
}

func (h *Handler) PatchReport(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req PatchReportRequest
	if !request.BindJSON(c, &req) {
		return
	}
	r, err := h.reports.Patch(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"inspection_report": h.detail(r)})
}

func (h *Handler) DeleteReport(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	if err := h.reports.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CurrentWeek handles GET /api/inspection-reports/current_week/
func (h *Handler) CurrentWeek(c *gin.Context) {
	reports, err := h.reports.CurrentWeek(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	out := make([]ReportDetail, 0, len(reports))
	for i := range reports {
		out = append(out, h.detail(&reports[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"inspection_reports": out})
}

// ReportDailyData handles GET /api/inspection-reports/:id/daily_data/
func (h *Handler) ReportDailyData(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	rows, err := h.reports.DailyData(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"daily_inspection_data": dailyViews(rows)})
}

func dailyViews(rows []domain.DailyInspection) []DailyView {
	out := make([]DailyView, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewDailyView(row))
	}
	return out
}
