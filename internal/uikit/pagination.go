// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"net/http"
	"net/url"
	"strconv"
)

// windowSize is the number of page links shown around the current page.
const windowSize = 5

// Pagination holds pagination links for templates.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	Total       int64
	HasPrev     bool
	HasNext     bool
	PrevURL     string
	NextURL     string
	Pages       []PaginationPage

	path  string
	query url.Values
}

// PaginationPage is one entry of the page list. Ellipsis entries have no URL.
type PaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// ShouldShow reports whether there is more than one page.
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}

func (p Pagination) pageURL(page int) string {
	q := make(url.Values, len(p.query)+1)
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return p.path + "?" + q.Encode()
}

// BuildPagination creates pagination links for path. Non-empty query values
// other than "page" are carried into every link so filters survive paging.
func BuildPagination(currentPage, totalPages int, total int64, path string, query url.Values) Pagination {
	totalPages = max(totalPages, 1)
	currentPage = min(max(currentPage, 1), totalPages)

	p := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		Total:       total,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		path:        path,
		query:       make(url.Values),
	}
	for k, v := range query {
		if k != "page" && len(v) > 0 && v[0] != "" {
			p.query[k] = v
		}
	}

	if p.HasPrev {
		p.PrevURL = p.pageURL(currentPage - 1)
	}
	if p.HasNext {
		p.NextURL = p.pageURL(currentPage + 1)
	}
	for _, n := range pageWindow(currentPage, totalPages) {
		if n == 0 {
			p.Pages = append(p.Pages, PaginationPage{IsEllipsis: true})
			continue
		}
		p.Pages = append(p.Pages, PaginationPage{Number: n, URL: p.pageURL(n), IsCurrent: n == currentPage})
	}
	return p
}

// pageWindow lists the page numbers to show: a window centered on current,
// plus the first and last pages. Zero marks a gap.
func pageWindow(current, total int) []int {
	start := max(current-windowSize/2, 1)
	end := min(start+windowSize-1, total)
	start = max(end-windowSize+1, 1)

	var out []int
	if start > 1 {
		out = append(out, 1)
		if start > 2 {
			out = append(out, 0)
		}
	}
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	if end < total {
		if end < total-1 {
			out = append(out, 0)
		}
		out = append(out, total)
	}
	return out
}

// ParsePageParam returns the "page" query parameter, or 1 when it is missing
// or not a positive integer.
func ParsePageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParsePerPageParam returns the "per_page" query parameter, or def when it is
// missing, not positive, or above maxPerPage.
func ParsePerPageParam(r *http.Request, def, maxPerPage int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || n < 1 || n > maxPerPage {
		return def
	}
	return n
}
