package common

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams(defaultLimit int) PaginationParams {
	return PaginationParams{
		Page:  1,
		Limit: defaultLimit,
	}
}

// ExtractPaginationParams reads page and limit from the query string.
// Absent values take the defaults; values that are not integers are reported
// by name so the caller can reject the request.
func ExtractPaginationParams(r *http.Request, defaultLimit int) (PaginationParams, []string) {
	params := DefaultPaginationParams(defaultLimit)
	var malformed []string

	query := r.URL.Query()
	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			params.Page = p
		} else {
			malformed = append(malformed, "page")
		}
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil {
			params.Limit = l
		} else {
			malformed = append(malformed, "limit")
		}
	}

	return params, malformed
}

// Window is the half-open range [Start, End) of a page over an ordered sequence
type Window struct {
	Start int
	End   int
}

// NewWindow computes the window of a 1-based page. page and limit must be >= 1.
func NewWindow(page, limit int) Window {
	if page-1 > (math.MaxInt-limit)/limit {
		// Far past any real store; saturate instead of overflowing.
		return Window{Start: math.MaxInt, End: math.MaxInt}
	}
	start := (page - 1) * limit
	return Window{Start: start, End: start + limit}
}

// Contains reports whether position falls in the window
func (w Window) Contains(position int) bool {
	return position >= w.Start && position < w.End
}

// Bounds clamps the window to a sequence of length n, for slicing
func (w Window) Bounds(n int) (int, int) {
	start, end := w.Start, w.End
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	return start, end
}

// HasMore reports whether items remain past the window in a sequence of total items
func (w Window) HasMore(total int) bool {
	return w.End < total
}
