// Package request holds the binding helpers every resource handler shares.
package request

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/pkg/response"
	"equipinspect/internal/pkg/validator"
	"equipinspect/internal/repository"
)

// ID parses a positive integer path parameter. A malformed id answers 404
// since no such resource can exist.
func ID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(c, "Not found.")
		return 0, false
	}
	return id, true
}

// BindJSON binds and validates the body, answering 400 on failure.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Validation(c, validator.Translate(err))
		return false
	}
	return true
}

// ListQuery parses the standard list parameters from the query string.
func ListQuery(c *gin.Context) repository.ListQuery {
	return repository.ParseListQuery(c.Request.URL.Query())
}

// Page writes a list page under key.
func Page[T any, R any](c *gin.Context, key string, page repository.Page[T], convert func(T) R) {
	items := make([]R, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, convert(it))
	}
	response.List(c, key, items, page.Page, page.Limit, page.Total, page.TotalPages())
}

// Same returns its argument; it lets Page write rows without conversion.
func Same[T any](v T) T { return v }
