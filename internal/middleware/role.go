package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/pkg/response"
)

// RequireStaff ensures that the authenticated account is staff
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		account := CurrentAccount(c)
		if account == nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided.")
			c.Abort()
			return
		}

		if !account.IsStaff && !account.IsSuperuser {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action.")
			c.Abort()
			return
		}

		c.Next()
	}
}
