package equipment

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
	g := rg.Group("/equipment")
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/active/", h.Active)
	g.GET("/:id/", h.Get)
	g.PUT("/:id/", h.Update)
	g.PATCH("/:id/", h.Patch)
	g.DELETE("/:id/", h.Delete)
}

// List handles GET /api/equipment/
func (h *Handler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), request.ListQuery(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	request.Page(c, "equipment", page, request.Same[domain.Equipment])
}

// Active handles GET /api/equipment/active/
func (h *Handler) Active(c *gin.Context) {
	items, err := h.service.Active(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"equipment": items})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"equipment": e})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEquipmentRequest
	if !request.BindJSON(c, &req) {
		return
	}
	e, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"equipment": e})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req CreateEquipmentRequest
	if !request.BindJSON(c, &req) {
		return
	}
	e, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"equipment": e})
}

func (h *Handler) Patch(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req PatchEquipmentRequest
	if !request.BindJSON(c, &req) {
		return
	}
	e, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"equipment": e})
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
