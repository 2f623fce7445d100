package request

import "yamdb/pkg/utils"

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return utils.DefaultPerPage
	}
	if p.PerPage > utils.MaxPerPage {
		return utils.MaxPerPage
	}
	return p.PerPage
}

// CurrentPage clamps Page to at least 1 for pagination metadata.
func (p PaginatedRequest) CurrentPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// SearchRequest is a paginated listing with an optional ?search= term.
type SearchRequest struct {
	PaginatedRequest
	Search string `json:"search"`
}
