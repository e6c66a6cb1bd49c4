// Package query parses list parameters shared by the listing endpoints.
package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePage reads page and limit, clamping to sane defaults instead of
// failing on garbage input.
func ParsePage(values url.Values) Page {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}
	if v, err := strconv.Atoi(values.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(values.Get("limit")); err == nil && v > 0 {
		if v > MaxLimit {
			v = MaxLimit
		}
		p.Limit = v
	}
	return p
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(p Page, total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

// StatusFilter selects active, inactive or all rows of a soft-deactivatable table.
type StatusFilter string

const (
	FilterActive   StatusFilter = "active"
	FilterInactive StatusFilter = "inactive"
	FilterAll      StatusFilter = "all"
)

// ParseStatusFilter defaults to active for an empty value.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterActive:
		return FilterActive, nil
	case FilterInactive:
		return FilterInactive, nil
	case FilterAll:
		return FilterAll, nil
	}
	return "", fmt.Errorf("invalid status filter %q, use active, inactive or all", s)
}

// IsActive returns the is_active value to filter on, or nil for all.
func (f StatusFilter) IsActive() *bool {
	switch f {
	case FilterInactive:
		v := false
		return &v
	case FilterAll:
		return nil
	default:
		v := true
		return &v
	}
}

// ParseYear reads an optional year parameter; 0 means "current year".
func ParseYear(values url.Values) (int, error) {
	raw := strings.TrimSpace(values.Get("year"))
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}
