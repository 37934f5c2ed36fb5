package httputil

import (
	"net/http"
	"strconv"
)

// PerPage is the fixed page size used by every admin listing screen.
const PerPage = 20

// PageMeta describes one page of a listing response.
type PageMeta struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	Total      int  `json:"total"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

// ParsePage reads the ?page= query param, defaulting to 1.
func ParsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// NewPageMeta computes paging metadata from a total row count.
func NewPageMeta(page, perPage, total int) PageMeta {
	totalPages := (total + perPage - 1) / perPage
	return PageMeta{
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}
