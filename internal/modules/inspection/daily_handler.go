package inspection

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/domain"
	"equipinspect/internal/pkg/request"
	"equipinspect/internal/pkg/response"
	"equipinspect/internal/pkg/validator"
)

func (h *Handler) ListDaily(c *gin.Context) {
	page, err := h.daily.List(c.Request.Context(), request.ListQuery(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	request.Page(c, "daily_inspection_data", page, NewDailyView)
}

func (h *Handler) GetDaily(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	row, err := h.daily.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"daily_inspection": NewDailyView(*row)})
}

func (h *Handler) CreateDaily(c *gin.Context) {
	var req CreateDailyRequest
	if !request.BindJSON(c, &req) {
		return
	}
	row, err := h.daily.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"daily_inspection": NewDailyView(*row)})
}

func (h *Handler) UpdateDaily(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req CreateDailyRequest
	if !request.BindJSON(c, &req) {
		return
	}
	row, err := h.daily.Update(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"daily_inspection": NewDailyView(*row)})
}

func (h *Handler) PatchDaily(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req PatchDailyRequest
	if !request.BindJSON(c, &req) {
		return
	}
	row, err := h.daily.Patch(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"daily_inspection": NewDailyView(*row)})
}

func (h *Handler) DeleteDaily(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	if err := h.daily.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkCreateDaily handles POST /api/daily-inspection-data/bulk_create/ with
// a JSON array body. Entries are validated here one by one, so the array is
// decoded without gin's binding.
func (h *Handler) BulkCreateDaily(c *gin.Context) {
	var entries []CreateDailyRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&entries); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.Is(err, io.EOF) || (errors.As(err, &typeErr) && typeErr.Field == "") {
			response.Validation(c, domain.FieldErrors{validator.NonFieldErrors: msgListExpected})
			return
		}
		response.Validation(c, validator.Translate(err))
		return
	}

	rows, err := h.daily.BulkCreate(c.Request.Context(), entries)
	if err != nil {
		var bulk BulkErrors
		if errors.As(err, &bulk) {
			response.Validation(c, bulk)
			return
		}
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"daily_inspection_data": dailyViews(rows)})
}

// DailyByDateRange handles GET /api/daily-inspection-data/by_date_range/
func (h *Handler) DailyByDateRange(c *gin.Context) {
	rows, err := h.daily.ByDateRange(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		var rangeErr *RangeError
		if errors.As(err, &rangeErr) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", rangeErr.Message)
			return
		}
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"daily_inspection_data": dailyViews(rows)})
}
