package reportdoc

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/pkg/request"
	"equipinspect/internal/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports/:report_id")
	{
		reports.GET("/pdf-data/", h.Data)
		reports.GET("/pdf/", h.PDF)
		reports.GET("/xlsx/", h.XLSX)
	}
}

func (h *Handler) Data(c *gin.Context) {
	id, ok := request.ID(c, "report_id")
	if !ok {
		return
	}
	doc, err := h.service.Document(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}

func (h *Handler) PDF(c *gin.Context) {
	id, ok := request.ID(c, "report_id")
	if !ok {
		return
	}
	doc, body, err := h.service.PDF(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "PDF", err)
		return
	}
	response.Attachment(c, doc.Filename("pdf"))
	c.Data(http.StatusOK, "application/pdf", body)
}

func (h *Handler) XLSX(c *gin.Context) {
	id, ok := request.ID(c, "report_id")
	if !ok {
		return
	}
	doc, body, err := h.service.XLSX(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "XLSX", err)
		return
	}
	response.Attachment(c, doc.Filename("xlsx"))
	c.Data(http.StatusOK, xlsxContentType, body)
}

func (h *Handler) fail(c *gin.Context, format string, err error) {
	var re *RenderError
	if errors.As(err, &re) {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate "+format+": "+re.Err.Error())
		return
	}
	response.HandleError(c, err)
}
