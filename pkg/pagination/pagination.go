// Package pagination provides page request parsing and result envelopes
// for list endpoints.
package pagination

import (
	"net/url"
	"strconv"
)

// PageRequest carries normalized paging parameters.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the request.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageResult wraps a page of items with totals.
type PageResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// NewPageResult builds a PageResult, deriving TotalPages from the request size.
func NewPageResult[T any](items []T, total int, req PageRequest) PageResult[T] {
	pages := total / req.PageSize
	if total%req.PageSize != 0 {
		pages++
	}
	return PageResult[T]{
		Items:      items,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: total,
		TotalPages: pages,
	}
}

// FromQuery parses page and pageSize query parameters, clamping to config bounds.
func FromQuery(values url.Values, cfg Config) PageRequest {
	req := PageRequest{
		Page:     1,
		PageSize: cfg.DefaultPageSize,
	}
	if v := values.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			req.Page = n
		}
	}
	if v := values.Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			req.PageSize = n
		}
	}
	if req.PageSize > cfg.MaxPageSize {
		req.PageSize = cfg.MaxPageSize
	}
	return req
}
