package personnel

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
	g := rg.Group("/users")
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/operators/", h.byRole(domain.RoleOperator))
	g.GET("/supervisors/", h.byRole(domain.RoleSupervisor))
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
	request.Page(c, "users", page, request.Same[domain.Personnel])
}

// byRole serves GET /api/users/operators/ and /api/users/supervisors/
func (h *Handler) byRole(role domain.PersonnelRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		people, err := h.service.ByRole(c.Request.Context(), role)
		if err != nil {
			response.HandleError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"users": people})
	}
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": p})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePersonnelRequest
	if !request.BindJSON(c, &req) {
		return
	}
	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": p})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req CreatePersonnelRequest
	if !request.BindJSON(c, &req) {
		return
	}
	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": p})
}

func (h *Handler) Patch(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req PatchPersonnelRequest
	if !request.BindJSON(c, &req) {
		return
	}
	p, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": p})
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
