package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/middleware"
	"equipinspect/internal/pkg/request"
	"equipinspect/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already restricted to staff.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/accounts/", h.ListAccounts)
	admin.POST("/accounts/", h.CreateAccount)
	admin.PATCH("/accounts/:id/", h.UpdateAccount)
	admin.DELETE("/accounts/:id/token/", h.RevokeToken)
}

func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	out := make([]AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, NewAccountDTO(a))
	}
	response.Success(c, http.StatusOK, gin.H{"accounts": out})
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if !request.BindJSON(c, &req) {
		return
	}
	a, err := h.service.CreateAccount(c.Request.Context(), middleware.CurrentAccount(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"account": NewAccountDTO(*a)})
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req UpdateAccountRequest
	if !request.BindJSON(c, &req) {
		return
	}
	a, err := h.service.UpdateAccount(c.Request.Context(), middleware.CurrentAccount(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": NewAccountDTO(*a)})
}

func (h *Handler) RevokeToken(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	if err := h.service.RevokeToken(c.Request.Context(), middleware.CurrentAccount(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrSuperuserRequired) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only superusers can grant superuser status or change superuser accounts.")
		return
	}
	response.HandleError(c, err)
}
