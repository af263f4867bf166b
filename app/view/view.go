// Package view turns a full post collection into a bounded, render-ready
// window: search filtering, pagination arithmetic and the page-button row.
// Everything here is a pure function of its inputs.
package view

import (
	"strings"

	"bulletin/app/models"
)

// DefaultPageSize is the number of posts shown per page.
const DefaultPageSize = 10

// Window is one page of posts. TotalPages is zero when the collection is
// empty, which is the explicit empty-state signal rather than a single blank
// page.
type Window struct {
	Items      []*models.Post `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	Total      int            `json:"total"`
	TotalPages int            `json:"totalPages"`
}

// PageToken is one entry of the page-button row: either a page number or an
// ellipsis placeholder for a collapsed range.
type PageToken struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// Filter returns the posts whose title, content or author contains term,
// case-insensitively. A blank term returns the input unchanged. Matches keep
// the input's order.
func Filter(posts []*models.Post, term string) []*models.Post {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return posts
	}
	var matched []*models.Post
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Content), term) ||
			strings.Contains(strings.ToLower(p.Author), term) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Paginate slices posts into the window for page. Pages are numbered from 1.
// An out-of-range page yields an empty window rather than an error; the UI is
// expected never to request one.
func Paginate(posts []*models.Post, page, pageSize int) Window {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(posts)
	totalPages := (total + pageSize - 1) / pageSize

	w := Window{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
	if page < 1 || page > totalPages {
		return w
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	w.Items = posts[start:end]
	return w
}

// BuildPageWindow produces the page-button row for the pager: always page 1
// and page total, every page within two of current, and a single ellipsis
// token per collapsed gap. The sequence is ordered and free of duplicates.
func BuildPageWindow(current, total int) []PageToken {
	var tokens []PageToken
	for i := 1; i <= total; i++ {
		switch {
		case i == 1 || i == total || (i >= current-2 && i <= current+2):
			tokens = append(tokens, PageToken{Page: i})
		case i == current-3 || i == current+3:
			tokens = append(tokens, PageToken{Ellipsis: true})
		}
	}
	return tokens
}
