package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage is used when the client does not specify a page size.
	DefaultPerPage = 20
	// MaxPerPage caps the page size a client may request.
	MaxPerPage = 100
)

// Params holds normalized pagination parameters.
type Params struct {
	Page    int
	PerPage int
}

// FromRequest extracts page/per_page query parameters, applying defaults
// and bounds. Invalid values fall back to defaults rather than erroring.
func FromRequest(r *http.Request) Params {
	p := Params{Page: 1, PerPage: DefaultPerPage}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}

	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.PerPage = n
		}
	}

	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}

	return p
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}
