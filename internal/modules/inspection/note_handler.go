package inspection

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/request"
	"equipinspect/internal/pkg/response"
)

func (h *Handler) ListNotes(c *gin.Context) {
	page, err := h.notes.List(c.Request.Context(), request.ListQuery(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	request.Page(c, "report_notes", page, request.Same[domain.ReportNote])
}

func (h *Handler) GetNote(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	n, err := h.notes.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report_note": n})
}

func (h *Handler) CreateNote(c *gin.Context) {
	var req CreateNoteRequest
	if !request.BindJSON(c, &req) {
		return
	}
	n, err := h.notes.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"report_note": n})
}

func (h *Handler) UpdateNote(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req CreateNoteRequest
	if !request.BindJSON(c, &req) {
		return
	}
	n, err := h.notes.Update(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report_note": n})
}

func (h *Handler) PatchNote(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req PatchNoteRequest
	if !request.BindJSON(c, &req) {
		return
	}
	n, err := h.notes.Patch(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report_note": n})
}

func (h *Handler) DeleteNote(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
