package checklist

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/request"
	"equipinspect/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/checklist-items")
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.POST("/reorder/", h.Reorder)
	g.GET("/:id/", h.Get)
	g.PUT("/:id/", h.Update)
	g.PATCH("/:id/", h.Patch)
	g.DELETE("/:id/", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), request.ListQuery(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	request.Page(c, "checklist_items", page, request.Same[domain.ChecklistItem])
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"checklist_item": item})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateItemRequest
	if !request.BindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"checklist_item": item})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req CreateItemRequest
	if !request.BindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"checklist_item": item})
}

func (h *Handler) Patch(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req PatchItemRequest
	if !request.BindJSON(c, &req) {
		return
	}
	item, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"checklist_item": item})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reorder handles POST /api/checklist-items/reorder/
func (h *Handler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if !request.BindJSON(c, &req) {
		return
	}
	n, err := h.service.Reorder(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": msgReordered, "updated": n})
}
