package response

import "yamdb/pkg/utils"

// PaginatedResponse is the data payload of every list endpoint.
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta
type PaginationMeta struct {
	Total      int64 `json:"total"`       // rows matching the filters, not just this page
	Page       int   `json:"page"`        // 1-based
	PerPage    int   `json:"per_page"`    // after clamping to the allowed maximum
	TotalPages int   `json:"total_pages"` // 0 when there are no rows
}

func NewPaginatedResponse[T any](data []T, page, perPage int, total int64) *PaginatedResponse[T] {
	// An empty page renders as [] rather than null
	if data == nil {
		data = []T{}
	}

	return &PaginatedResponse[T]{
		Data: data,
		Pagination: PaginationMeta{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: utils.CalculateTotalPages(total, perPage),
		},
	}
}
