package dto

import "math"

// Paginated is the list envelope shared by every list endpoint.
type Paginated[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"currentPage"`
	TotalPage   int   `json:"totalPage"`
	TotalItems  int64 `json:"totalItems"`
}

// NewPaginated assembles the envelope from a page of items.
func NewPaginated[T any](items []T, page, pageSize int, total int64) Paginated[T] {
	if page <= 0 {
		page = 1
	}
	totalPage := 1
	if pageSize > 0 {
		totalPage = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	if totalPage < 1 {
		totalPage = 1
	}
	return Paginated[T]{
		Data:        items,
		CurrentPage: page,
		TotalPage:   totalPage,
		TotalItems:  total,
	}
}
