package pagination

import (
	"net/http"
	"strconv"
)

// Params holds pagination parameters extracted from query strings. The
// query parameter names (pageNumber, pageSize) match the original
// storefront API.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Offset   int `json:"-"`
}

// FromRequest extracts pagination parameters from an HTTP request,
// falling back to page 1 and the given default page size.
func FromRequest(r *http.Request, defaultPageSize int) Params {
	p := Params{Page: 1, PageSize: defaultPageSize}

	if page := r.URL.Query().Get("pageNumber"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if size := r.URL.Query().Get("pageSize"); size != "" {
		if v, err := strconv.Atoi(size); err == nil && v > 0 && v <= 100 {
			p.PageSize = v
		}
	}

	p.Offset = (p.Page - 1) * p.PageSize
	return p
}

// Pages returns the total page count for the given total item count,
// i.e. ceil(totalCount / pageSize).
func (p Params) Pages(totalCount int) int {
	if totalCount <= 0 {
		return 0
	}
	pages := totalCount / p.PageSize
	if totalCount%p.PageSize > 0 {
		pages++
	}
	return pages
}
