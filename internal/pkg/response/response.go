package response

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"equipinspect/internal/domain"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// List writes one page under key with its pagination block.
func List(c *gin.Context, key string, items any, page, limit int, total int64, totalPages int) {
	Success(c, http.StatusOK, gin.H{
		key: items,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

func Validation(c *gin.Context, details any) {
	ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", details)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "NOT_FOUND", message)
}

// HandleError maps field errors to 400, missing rows to 404 and anything else
// to 500. The error is attached to the context so the logger sees it.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var fe domain.FieldErrors
	switch {
	case errors.As(err, &fe):
		Validation(c, fe)
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "Not found.")
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// Attachment marks the response as a download named filename. Quotes and
// non-ASCII characters in the name are encoded per RFC 6266.
func Attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}
