// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows returned by paged lists when the
// client does not ask for a size.
const DefaultPageSize = 5

// MaxPageSize caps client-requested page sizes so a single request
// cannot pull the whole collection.
const MaxPageSize = 100

// ParsePage extracts the 1-based "page_number" query parameter, also
// accepting "page" as an alias. Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page_number")
	if s == "" {
		s = query.Get(r, "page")
	}
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParsePageSize extracts the "page_size" query parameter, clamped to
// [1, MaxPageSize]. Returns DefaultPageSize if not present or invalid.
func ParsePageSize(r *http.Request) int {
	s := query.Get(r, "page_size")
	if s == "" {
		return DefaultPageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// ParseSort splits a "sort" query parameter of the form "field:asc" or
// "field:desc" against a whitelist of sortable fields. The fallback is
// the first allowed field, ascending.
func ParseSort(r *http.Request, allowed ...string) (field string, asc bool) {
	field, asc = allowed[0], true

	s := query.Get(r, "sort")
	if s == "" {
		return field, asc
	}

	name, dir, _ := strings.Cut(s, ":")
	for _, a := range allowed {
		if name == a {
			field = a
			break
		}
	}
	if strings.EqualFold(dir, "desc") {
		asc = false
	}
	return field, asc
}

// Meta is the pagination envelope returned alongside list data.
type Meta struct {
	PageNumber      int  `json:"page_number"`
	PageSize        int  `json:"page_size"`
	Count           int  `json:"count"`
	TotalPages      int  `json:"total_pages"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// BuildMeta computes the envelope for one page. count is the number of
// rows actually on this page; total is the full match count.
func BuildMeta(page, pageSize, count int, total int64) Meta {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Meta{
		PageNumber:      page,
		PageSize:        pageSize,
		Count:           count,
		TotalPages:      totalPages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages,
	}
}
