package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"equipinspect/internal/middleware"
	"equipinspect/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler with injected service
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.POST("/auth/login/", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.POST("/logout/", h.Logout)
		authGroup.GET("/user/", h.CurrentUser)
	}
}

// Login exchanges username and password for the account's API token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", msgInvalidJSON)
			return
		}
	} else if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", msgMissingCredentials)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredentials):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", msgMissingCredentials)
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", msgInvalidCredentials)
		case errors.Is(err, ErrAccountDisabled):
			response.Error(c, http.StatusUnauthorized, "ACCOUNT_DISABLED", msgAccountDisabled)
		default:
			response.HandleError(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": msgLoginSuccessful,
		"token":   result.Token,
		"user":    NewUserResponse(result.Account),
	})
}

// Logout deletes the caller's token; it stops authenticating immediately.
func (h *Handler) Logout(c *gin.Context) {
	account := middleware.CurrentAccount(c)
	if account == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided.")
		return
	}
	if err := h.service.Revoke(c.Request.Context(), account.ID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": msgLogoutSuccessful})
}

func (h *Handler) CurrentUser(c *gin.Context) {
	account := middleware.CurrentAccount(c)
	if account == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided.")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": NewUserResponse(account)})
}
