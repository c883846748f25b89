package domain

import (
	"sort"
	"strconv"
	"strings"
)

// FieldErrors collects validation failures keyed by JSON field name.
type FieldErrors map[string]string

func (e FieldErrors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// OrNil returns nil when nothing was collected, so callers can
// `return errs.OrNil()`.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// InvalidPK is the message used when a foreign key references a missing row.
func InvalidPK(id int64) string {
	return `Invalid pk "` + strconv.FormatInt(id, 10) + `" - object does not exist.`
}
