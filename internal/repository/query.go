package repository

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"equipinspect/internal/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type FilterKind int

const (
	FilterString FilterKind = iota
	FilterInt
	FilterDate
)

// FilterField maps an exact-match query parameter to a column.
type FilterField struct {
	Param  string
	Column string
	Kind   FilterKind
	// Allowed restricts string values (enum columns).
	Allowed []string
}

// ListSpec describes what a resource list endpoint accepts.
type ListSpec struct {
	Filters []FilterField
	// Search holds SQL conditions with a single placeholder each. They are
	// OR-ed and receive a lower-cased %term% pattern with LIKE wildcards
	// escaped by backslash, so each condition needs ESCAPE '\'.
	Search []string
	// Ordering maps public field names to SQL columns.
	Ordering map[string]string
	// DefaultOrdering uses public names, "-" prefix for descending.
	DefaultOrdering []string
	// PrimaryKey is appended as a tie-breaker so pages are stable.
	PrimaryKey string
}

// ListQuery is the parsed list request.
type ListQuery struct {
	Filters  map[string]string
	Search   string
	Ordering []string
	Page     int
	Limit    int
}

// Page is one page of a list result.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

// ParseListQuery reads page, limit, search, ordering and every other
// parameter as a potential filter.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Filters: map[string]string{},
		Search:  strings.TrimSpace(values.Get("search")),
		Page:    1,
		Limit:   DefaultLimit,
	}

	if limit := values.Get("limit"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 {
			q.Limit = min(val, MaxLimit)
		}
	}
	if page := values.Get("page"); page != "" {
		if val, err := strconv.Atoi(page); err == nil && val > 0 {
			q.Page = val
		}
	}
	if ordering := values.Get("ordering"); ordering != "" {
		for _, token := range strings.Split(ordering, ",") {
			if token = strings.TrimSpace(token); token != "" {
				q.Ordering = append(q.Ordering, token)
			}
		}
	}

	for key, vals := range values {
		switch key {
		case "page", "limit", "search", "ordering":
			continue
		}
		if len(vals) > 0 {
			q.Filters[key] = vals[0]
		}
	}
	return q
}

// Validate checks filter values and ordering fields before any SQL runs.
func (s ListSpec) Validate(q ListQuery) error {
	errs := domain.FieldErrors{}
	for _, f := range s.Filters {
		raw, ok := q.Filters[f.Param]
		if !ok {
			continue
		}
		if _, err := f.parse(raw); err != nil {
			errs.Add(f.Param, err.Error())
		}
	}
	for _, token := range q.Ordering {
		name := strings.TrimPrefix(token, "-")
		if _, ok := s.Ordering[name]; !ok {
			errs.Add("ordering", fmt.Sprintf("unknown ordering field %q", name))
		}
	}
	return errs.OrNil()
}

func (f FilterField) parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch f.Kind {
	case FilterInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("enter a whole number")
		}
		return v, nil
	case FilterDate:
		d, err := domain.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("enter a valid date (YYYY-MM-DD)")
		}
		return d, nil
	default:
		if len(f.Allowed) > 0 {
			for _, a := range f.Allowed {
				if a == raw {
					return raw, nil
				}
			}
			return nil, fmt.Errorf("select a valid choice; %s is not one of the available choices", raw)
		}
		return raw, nil
	}
}

// Where applies filters and search. Call Validate first.
func (s ListSpec) Where(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		for _, f := range s.Filters {
			raw, ok := q.Filters[f.Param]
			if !ok {
				continue
			}
			v, err := f.parse(raw)
			if err != nil {
				_ = tx.AddError(err)
				return tx
			}
			tx = tx.Where(f.Column+" = ?", v)
		}

		if q.Search != "" && len(s.Search) > 0 {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
			args := make([]any, len(s.Search))
			for i := range args {
				args[i] = pattern
			}
			tx = tx.Where("("+strings.Join(s.Search, " OR ")+")", args...)
		}
		return tx
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Order applies the requested or default ordering.
func (s ListSpec) Order(q ListQuery) func(*gorm.DB) *gorm.DB {
	tokens := q.Ordering
	if len(tokens) == 0 {
		tokens = s.DefaultOrdering
	}
	return func(tx *gorm.DB) *gorm.DB {
		seenPK := false
		for _, token := range tokens {
			desc := strings.HasPrefix(token, "-")
			column, ok := s.Ordering[strings.TrimPrefix(token, "-")]
			if !ok {
				continue
			}
			if column == s.PrimaryKey {
				seenPK = true
			}
			if desc {
				tx = tx.Order(column + " DESC")
			} else {
				tx = tx.Order(column + " ASC")
			}
		}
		if !seenPK && s.PrimaryKey != "" {
			tx = tx.Order(s.PrimaryKey + " ASC")
		}
		return tx
	}
}

func paginate(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(q.Limit).Offset((q.Page - 1) * q.Limit)
	}
}

// list runs count + page queries for one resource. base adds joins that
// filters, search and ordering depend on; extra adds preloads for the page.
func list[T any](
	ctx context.Context,
	db *gorm.DB,
	spec ListSpec,
	q ListQuery,
	base func(*gorm.DB) *gorm.DB,
	extra ...func(*gorm.DB) *gorm.DB,
) (Page[T], error) {
	if err := spec.Validate(q); err != nil {
		return Page[T]{}, err
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if base == nil {
		base = func(tx *gorm.DB) *gorm.DB { return tx }
	}

	var total int64
	if err := db.WithContext(ctx).
		Model(new(T)).
		Scopes(base, spec.Where(q)).
		Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	scopes := append([]func(*gorm.DB) *gorm.DB{base, spec.Where(q), spec.Order(q), paginate(q)}, extra...)
	var items []T
	if err := db.WithContext(ctx).
		Model(new(T)).
		Scopes(scopes...).
		Find(&items).Error; err != nil {
		return Page[T]{}, err
	}

	return Page[T]{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}
