package inspection

import (
	"strconv"
	"strings"

	"equipinspect/internal/domain"
)

const (
	msgDailyNotUnique   = "The fields report, item, inspection_date must make a unique set."
	msgEndBeforeStart   = "End date must not be before start date."
	msgDateFormat       = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgTimeFormat       = "Time has wrong format. Use one of these formats instead: hh:mm[:ss]."
	msgRangeRequired    = "Both start_date and end_date are required"
	msgRangeDateFormat  = "Invalid date format. Use YYYY-MM-DD"
	msgNoFile           = "No file was submitted."
	msgListExpected     = "Expected a list of items."
	msgFileTooLarge     = "File exceeds the maximum allowed size of 20 MB."
	msgFileTypeNotAllow = "Upload a valid image or PDF file."
	msgFileEmpty        = "The submitted file is empty."
)

// RangeError reports missing or malformed date range parameters.
type RangeError struct {
	Message string
}

func (e *RangeError) Error() string { return e.Message }

// BulkErrors holds one FieldErrors per submitted entry, empty for valid ones.
type BulkErrors []domain.FieldErrors

func (e BulkErrors) Error() string {
	parts := make([]string, 0, len(e))
	for i, fe := range e {
		if len(fe) > 0 {
			parts = append(parts, strconv.Itoa(i)+": "+fe.Error())
		}
	}
	return "bulk validation failed: " + strings.Join(parts, "; ")
}

func (e BulkErrors) failed() bool {
	for _, fe := range e {
		if len(fe) > 0 {
			return true
		}
	}
	return false
}
