package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/response"
)

const (
	AccountKey   = "account"
	AccountIDKey = "account_id"
	IsStaffKey   = "is_staff"
)

// ErrInvalidToken is what an Authenticator returns when it rejects the token
// itself. Any other error answers 500.
var ErrInvalidToken = errors.New("invalid token")

// Authenticator resolves a raw token to its active account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
}

// TokenAuth accepts "Authorization: Token <t>" and "Authorization: Bearer <t>".
func TokenAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := tokenFromHeader(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided.")
			c.Abort()
			return
		}

		account, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case errors.Is(err, ErrInvalidToken), err == nil && account == nil:
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token.")
			c.Abort()
			return
		case err != nil:
			response.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(AccountKey, account)
		c.Set(AccountIDKey, account.ID)
		c.Set(IsStaffKey, account.IsStaff)
		c.Next()
	}
}

func tokenFromHeader(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	scheme := strings.ToLower(parts[0])
	if scheme != "token" && scheme != "bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// CurrentAccount returns the account set by TokenAuth, or nil.
func CurrentAccount(c *gin.Context) *domain.Account {
	v, ok := c.Get(AccountKey)
	if !ok {
		return nil
	}
	account, _ := v.(*domain.Account)
	return account
}
