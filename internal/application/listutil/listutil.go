// Package listutil parses pagination parameters for list endpoints.
package listutil

import (
	"net/url"
	"strconv"
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// MaxPerPage caps the rows a single request can ask for.
const MaxPerPage = 200

// ParsePageParams extracts page and per_page from URL query values.
// PRE: none
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// Limit returns the SQL LIMIT for the page.
func (p PageParams) Limit() int {
	return p.PerPage
}

// Offset returns the SQL OFFSET for the current page.
// PRE: PageParams is valid
// POST: Returns (Page-1) * PerPage
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}
